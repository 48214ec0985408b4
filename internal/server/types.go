package server

import (
	"encoding/json"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/state"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

// ColumnPayload is one named column of values.
type ColumnPayload struct {
	Name   string `json:"name"`
	Values []any  `json:"values"`
}

// FramePayload is a named set of columns.
type FramePayload struct {
	Name    string          `json:"name"`
	Columns []ColumnPayload `json:"columns"`
}

// InferRequest is the body of POST /v1/infer.
type InferRequest struct {
	Frames []FramePayload `json:"frames"`
	// Save stores the result in the run history.
	Save bool `json:"save,omitempty"`
}

// MergeRequest is the body of POST /v1/merge.
type MergeRequest struct {
	Results []json.RawMessage `json:"results"`
}

// RunResponse is the body of GET /v1/runs/{id}.
type RunResponse struct {
	Run    *state.Run        `json:"run"`
	Result *inference.Result `json:"result"`
}

// SchemaResponse is the body of GET /v1/schema.
type SchemaResponse struct {
	Columns []core.Descriptor `json:"columns"`
	Options OptionsPayload    `json:"options"`
}

// OptionsPayload holds the engine thresholds in effect.
type OptionsPayload struct {
	SampleSize         int     `json:"sample_size"`
	MinCandidateScore  float64 `json:"min_candidate_score"`
	MinAssignmentScore float64 `json:"min_assignment_score"`
}

// MatchesResponse is the body of GET /v1/runs/{id}/matches.
type MatchesResponse struct {
	RunID   string                  `json:"run_id"`
	Matches []inference.ColumnMatch `json:"matches"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
