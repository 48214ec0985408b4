package inference

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

func TestNewResult(t *testing.T) {
	r := NewResult(
		[]ColumnMatch{match("Zeta", "B", 0.9), match("Alpha", "A", 0.7), match("B", "B2", 0.6)},
		[]string{"Zeta", "Alpha", "B", "Notes", "Extra", "Notes"},
		[]string{"B", "A", "B2", "C"},
	)

	var order []string
	for _, m := range r.Matches {
		order = append(order, m.Canonical)
	}
	assert.Equal(t, []string{"A", "B", "B2"}, order)
	assert.Equal(t, []string{"Extra", "Notes"}, r.UnmatchedSources)
	assert.Equal(t, []string{"C"}, r.MissingTargets)
	assert.Equal(t, map[string]string{"Zeta": "B", "Alpha": "A", "B": "B2"}, r.RenameMap)
	assert.Equal(t, []string{"Alpha", "B", "Extra", "Notes", "Zeta"}, r.Sources())
	assert.Equal(t, []string{"A", "B", "B2", "C"}, r.Targets())
}

func TestColumnMatch_ReasonsDeduped(t *testing.T) {
	m := NewColumnMatch("a", "A", 0.5, "A", []string{"x", "", "y", "x"}, 3)
	assert.Equal(t, []string{"x", "y"}, m.Reasons)
}

func TestResult_MarshalJSON(t *testing.T) {
	r := NewResult(
		[]ColumnMatch{NewColumnMatch("Org Name", "Name of Organisation", 0.547826086, "Organisation Name",
			[]string{"fuzzy match to 'Organisation Name' (ratio 0.61)"}, 2)},
		[]string{"Org Name", "Notes"},
		[]string{"Name of Organisation", "Province"},
	)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"matches": [{
			"source": "Org Name",
			"canonical": "Name of Organisation",
			"score": 0.5478,
			"matched_label": "Organisation Name",
			"reasons": ["fuzzy match to 'Organisation Name' (ratio 0.61)"],
			"sample_size": 2
		}],
		"unmatched_sources": ["Notes"],
		"missing_targets": ["Province"],
		"rename_map": {"Org Name": "Name of Organisation"}
	}`, string(data))
}

func TestResult_MarshalJSON_Empty(t *testing.T) {
	data, err := json.Marshal(&Result{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"matches":[],"unmatched_sources":[],"missing_targets":[],"rename_map":{}}`, string(data))

	data, err = json.Marshal(ColumnMatch{Source: "a", Canonical: "A"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"reasons":[]`)
}

func TestParseResult(t *testing.T) {
	original := NewEngine(flightSchoolDescriptors()).Infer(flightSchoolFrame(t))
	data, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := ParseResult(data)
	require.NoError(t, err)
	assert.Equal(t, original.RenameMap, parsed.RenameMap)
	assert.Equal(t, original.UnmatchedSources, parsed.UnmatchedSources)
	assert.Equal(t, original.MissingTargets, parsed.MissingTargets)
	require.Len(t, parsed.Matches, len(original.Matches))
	for i, m := range parsed.Matches {
		assert.Equal(t, original.Matches[i].Source, m.Source)
		assert.Equal(t, original.Matches[i].Reasons, m.Reasons)
		assert.InDelta(t, original.Matches[i].Score, m.Score, 1e-4)
	}
}

func TestParseResult_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "malformed",
			input:   `{"matches": [`,
			wantErr: "failed to decode inference result",
		},
		{
			name: "duplicate source",
			input: `{"matches": [
				{"source": "a", "canonical": "X", "score": 0.9},
				{"source": "a", "canonical": "Y", "score": 0.8}
			]}`,
			wantErr: `source "a" matched more than once`,
		},
		{
			name: "duplicate canonical",
			input: `{"matches": [
				{"source": "a", "canonical": "X", "score": 0.9},
				{"source": "b", "canonical": "X", "score": 0.8}
			]}`,
			wantErr: `canonical "X" matched more than once`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResult_Apply(t *testing.T) {
	frame := flightSchoolFrame(t)
	r := NewEngine(flightSchoolDescriptors()).Infer(frame)

	renamed, err := r.Apply(frame)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name of Organisation", "Province", "Website URL"}, renamed.ColumnNames())

	col, ok := renamed.Column("Province")
	require.True(t, ok)
	assert.Equal(t, []any{"Gauteng", "Western Cape"}, col.Values)
}

func TestResult_Apply_Collision(t *testing.T) {
	frame := newFrame(t, "f",
		core.Column{Name: "Region", Values: []any{"Gauteng"}},
		core.Column{Name: "Province", Values: []any{"?"}},
	)
	r := NewResult([]ColumnMatch{match("Region", "Province", 0.9)}, []string{"Region", "Province"}, []string{"Province"})

	_, err := r.Apply(frame)
	assert.ErrorIs(t, err, core.ErrDuplicateColumn)
}
