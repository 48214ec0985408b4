package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

func TestBuiltinHooks(t *testing.T) {
	province := &core.Descriptor{
		Name:          "Province",
		AllowedValues: []string{"Gauteng", " Western Cape", "KwaZulu-Natal"},
	}
	plain := &core.Descriptor{Name: "Notes"}

	tests := []struct {
		name       string
		hook       Hook
		descriptor *core.Descriptor
		sample     []string
		fires      bool
		score      float64
		reason     string
	}{
		{
			name:       "allowed values case-insensitive",
			hook:       AllowedValuesHook{},
			descriptor: province,
			sample:     []string{"gauteng", "WESTERN CAPE", "Mars"},
			fires:      true,
			score:      0.6 + 0.4*2.0/3.0,
			reason:     "ontology match (allowed_values): 2/3 sampled values in allowed set",
		},
		{
			name:       "allowed values without vocabulary",
			hook:       AllowedValuesHook{},
			descriptor: plain,
			sample:     []string{"Gauteng"},
		},
		{
			name:       "allowed values below half",
			hook:       AllowedValuesHook{},
			descriptor: province,
			sample:     []string{"Gauteng", "Mars", "Venus"},
		},
		{
			name:       "email",
			hook:       EmailPatternHook{},
			descriptor: plain,
			sample:     []string{"info@acme.co.za", "ops@sky.example", "n/a"},
			fires:      true,
			score:      0.7 + 0.3*2.0/3.0,
			reason:     "email pattern: 2/3 sampled values look like email addresses",
		},
		{
			name:       "email exactly half",
			hook:       EmailPatternHook{},
			descriptor: plain,
			sample:     []string{"info@acme.co.za", "n/a"},
			fires:      true,
			score:      0.85,
			reason:     "email pattern: 1/2 sampled values look like email addresses",
		},
		{
			name:       "email rejects spaces",
			hook:       EmailPatternHook{},
			descriptor: plain,
			sample:     []string{"info @acme.co.za", "foo@bar"},
		},
		{
			name:       "url",
			hook:       URLPatternHook{},
			descriptor: plain,
			sample:     []string{"https://acme.example/about", "www.skyhigh.co.za", "not a url"},
			fires:      true,
			score:      0.7 + 0.3*2.0/3.0,
			reason:     "url pattern: 2/3 sampled values look like URLs",
		},
		{
			name:       "url all",
			hook:       URLPatternHook{},
			descriptor: plain,
			sample:     []string{"HTTP://ACME.EXAMPLE", "acme.aero:8080/path?q=1"},
			fires:      true,
			score:      1.0,
			reason:     "url pattern: 2/2 sampled values look like URLs",
		},
		{
			name:       "url rejects words",
			hook:       URLPatternHook{},
			descriptor: plain,
			sample:     []string{"Gauteng", "Western Cape"},
		},
		{
			name:       "phone",
			hook:       PhonePatternHook{},
			descriptor: plain,
			sample:     []string{"+27 21 555 1234", "021-555-1234", "ext 12"},
			fires:      true,
			score:      0.65 + 0.35*2.0/3.0,
			reason:     "phone pattern: 2/3 sampled values contain 9+ digits",
		},
		{
			name:       "phone too short",
			hook:       PhonePatternHook{},
			descriptor: plain,
			sample:     []string{"12345678", "555-1234"},
		},
		{
			name:       "numeric",
			hook:       NumericValuesHook{},
			descriptor: plain,
			sample:     []string{"1,200", "3.5", "-4", "abc"},
			fires:      true,
			score:      0.9,
			reason:     "numeric values: 3/4 sampled values parse as numbers",
		},
		{
			name:       "numeric ignores hex literals",
			hook:       NumericValuesHook{},
			descriptor: plain,
			sample:     []string{"0x1p-2", "0X10", "1_000", "2_5.5"},
			fires:      true,
			score:      0.8,
			reason:     "numeric values: 2/4 sampled values parse as numbers",
		},
		{
			name:       "numeric text",
			hook:       NumericValuesHook{},
			descriptor: plain,
			sample:     []string{"one", "two", "3"},
		},
		{
			name:       "empty sample",
			hook:       NumericValuesHook{},
			descriptor: plain,
			sample:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := tt.hook.Detect("col", tt.sample, tt.descriptor)
			require.Equal(t, tt.fires, ok)
			if !tt.fires {
				return
			}
			assert.InDelta(t, tt.score, sig.Score, 1e-9)
			assert.Equal(t, tt.reason, sig.Reason)
			assert.LessOrEqual(t, sig.Score, 1.0)
		})
	}
}

func TestIsNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"42", true},
		{"-3.5e2", true},
		{"1,234,567.89", true},
		{"1_000", true},
		{"inf", true},
		{"0x1p-2", false},
		{"-0XFF", false},
		{"1__000", false},
		{"_1", false},
		{"1_", false},
		{"1_.5", false},
		{"12 apples", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, isNumber(tt.in))
		})
	}
}

func TestBuiltinHooks_IDs(t *testing.T) {
	var ids []core.HookID
	for _, h := range BuiltinHooks() {
		ids = append(ids, h.ID())
	}
	assert.Equal(t, []core.HookID{
		core.HookAllowedValues,
		core.HookEmailPattern,
		core.HookURLPattern,
		core.HookPhonePattern,
		core.HookNumericValues,
	}, ids)
}
