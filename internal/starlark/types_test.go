package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantStr string
		wantErr bool
	}{
		{
			name:    "string",
			input:   "hello",
			wantStr: `"hello"`,
		},
		{
			name:    "int",
			input:   42,
			wantStr: "42",
		},
		{
			name:    "int64",
			input:   int64(123456789),
			wantStr: "123456789",
		},
		{
			name:    "float64",
			input:   3.14,
			wantStr: "3.14",
		},
		{
			name:    "bool true",
			input:   true,
			wantStr: "True",
		},
		{
			name:    "bool false",
			input:   false,
			wantStr: "False",
		},
		{
			name:    "nil",
			input:   nil,
			wantStr: "None",
		},
		{
			name:    "string slice",
			input:   []string{"a", "b", "c"},
			wantStr: `["a", "b", "c"]`,
		},
		{
			name:    "empty string slice",
			input:   []string{},
			wantStr: "[]",
		},
		{
			name:    "any slice",
			input:   []any{"x", 1, true},
			wantStr: `["x", 1, True]`,
		},
		{
			name:    "map",
			input:   map[string]any{"key": "value"},
			wantStr: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			if tt.wantErr {
				assert.Error(t, err, "expected error")
				return
			}
			require.NoError(t, err, "unexpected error")
			assert.Equal(t, tt.wantStr, got.String(), "GoToStarlark()")
		})
	}
}

func TestToGo(t *testing.T) {
	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.String("score"), starlark.Float(0.8)))

	tests := []struct {
		name  string
		input starlark.Value
		want  any
	}{
		{"string", starlark.String("hello"), "hello"},
		{"int", starlark.MakeInt(42), int64(42)},
		{"float", starlark.Float(3.14), 3.14},
		{"bool", starlark.Bool(true), true},
		{"none", starlark.None, nil},
		{"list", starlark.NewList([]starlark.Value{starlark.String("a"), starlark.MakeInt(1)}), []any{"a", int64(1)}},
		{"tuple", starlark.Tuple{starlark.Float(0.9), starlark.String("why")}, []any{0.9, "why"}},
		{"dict", dict, map[string]any{"score": 0.8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToGo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToGo_NonStringDictKey(t *testing.T) {
	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.MakeInt(1), starlark.None))

	_, err := ToGo(dict)
	assert.ErrorContains(t, err, "dict key must be string")
}

func TestDescriptorToStarlark(t *testing.T) {
	val := DescriptorToStarlark(&core.Descriptor{
		Name:           "Province",
		Synonyms:       []string{"Region"},
		AllowedValues:  []string{"Gauteng"},
		DetectionHooks: []core.HookID{core.HookAllowedValues},
	})

	globals := starlark.StringDict{"d": val}
	got, err := starlark.Eval(&starlark.Thread{}, "test", `(d.name, d.synonyms[0], len(d.allowed_values), d.detection_hooks[0])`, globals) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
	require.NoError(t, err)
	assert.Equal(t, `("Province", "Region", 1, "allowed_values")`, got.String())
}
