package inference

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// Result is the outcome of an inference or merge.
//
// Every source and every canonical appears in at most one match.
// UnmatchedSources and MissingTargets are the sorted complements of the
// matched sets, and RenameMap holds the matches whose source differs from
// the canonical name. Build results with NewResult and treat them as
// immutable.
type Result struct {
	Matches          []ColumnMatch     // ordered by (Canonical, Source)
	UnmatchedSources []string          // sorted
	MissingTargets   []string          // sorted
	RenameMap        map[string]string // source -> canonical
}

// NewResult assembles a result from one-to-one matches and the full sets of
// observed sources and canonical targets.
func NewResult(matches []ColumnMatch, sources, targets []string) *Result {
	sorted := make([]ColumnMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Canonical != sorted[j].Canonical {
			return sorted[i].Canonical < sorted[j].Canonical
		}
		return sorted[i].Source < sorted[j].Source
	})

	matchedSources := make(map[string]struct{}, len(sorted))
	matchedTargets := make(map[string]struct{}, len(sorted))
	rename := make(map[string]string)
	for _, m := range sorted {
		matchedSources[m.Source] = struct{}{}
		matchedTargets[m.Canonical] = struct{}{}
		if m.Source != m.Canonical {
			rename[m.Source] = m.Canonical
		}
	}

	return &Result{
		Matches:          sorted,
		UnmatchedSources: complement(sources, matchedSources),
		MissingTargets:   complement(targets, matchedTargets),
		RenameMap:        rename,
	}
}

// complement returns the sorted distinct values not present in exclude.
func complement(values []string, exclude map[string]struct{}) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := exclude[v]; ok {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Match returns the match for an observed column.
func (r *Result) Match(source string) (ColumnMatch, bool) {
	for _, m := range r.Matches {
		if m.Source == source {
			return m, true
		}
	}
	return ColumnMatch{}, false
}

// Sources returns every observed column, matched or not, sorted.
func (r *Result) Sources() []string {
	all := make([]string, 0, len(r.Matches)+len(r.UnmatchedSources))
	for _, m := range r.Matches {
		all = append(all, m.Source)
	}
	all = append(all, r.UnmatchedSources...)
	return complement(all, nil)
}

// Targets returns every canonical target, matched or not, sorted.
func (r *Result) Targets() []string {
	all := make([]string, 0, len(r.Matches)+len(r.MissingTargets))
	for _, m := range r.Matches {
		all = append(all, m.Canonical)
	}
	all = append(all, r.MissingTargets...)
	return complement(all, nil)
}

// Apply renames the frame's columns according to the rename map.
func (r *Result) Apply(frame *core.Frame) (*core.Frame, error) {
	return frame.Rename(r.RenameMap)
}

// resultJSON is the serialized form of a Result.
type resultJSON struct {
	Matches          []ColumnMatch     `json:"matches"`
	UnmatchedSources []string          `json:"unmatched_sources"`
	MissingTargets   []string          `json:"missing_targets"`
	RenameMap        map[string]string `json:"rename_map"`
}

// MarshalJSON encodes the result as
// {matches, unmatched_sources, missing_targets, rename_map}.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Matches:          r.Matches,
		UnmatchedSources: r.UnmatchedSources,
		MissingTargets:   r.MissingTargets,
		RenameMap:        r.RenameMap,
	}
	if out.Matches == nil {
		out.Matches = []ColumnMatch{}
	}
	if out.UnmatchedSources == nil {
		out.UnmatchedSources = []string{}
	}
	if out.MissingTargets == nil {
		out.MissingTargets = []string{}
	}
	if out.RenameMap == nil {
		out.RenameMap = map[string]string{}
	}
	return json.Marshal(out)
}

// ParseResult decodes a result written by MarshalJSON. The rename map is
// recomputed from the matches.
func ParseResult(data []byte) (*Result, error) {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode inference result: %w", err)
	}

	sources := append([]string{}, raw.UnmatchedSources...)
	targets := append([]string{}, raw.MissingTargets...)
	seenSources := make(map[string]struct{}, len(raw.Matches))
	seenTargets := make(map[string]struct{}, len(raw.Matches))
	for _, m := range raw.Matches {
		if _, ok := seenSources[m.Source]; ok {
			return nil, fmt.Errorf("source %q matched more than once", m.Source)
		}
		if _, ok := seenTargets[m.Canonical]; ok {
			return nil, fmt.Errorf("canonical %q matched more than once", m.Canonical)
		}
		seenSources[m.Source] = struct{}{}
		seenTargets[m.Canonical] = struct{}{}
		sources = append(sources, m.Source)
		targets = append(targets, m.Canonical)
	}

	return NewResult(raw.Matches, sources, targets), nil
}
