package inference

import (
	"encoding/json"
	"math"
)

// ColumnMatch links one observed column to one canonical target together
// with the evidence behind the link. Treat values as immutable.
type ColumnMatch struct {
	Source       string
	Canonical    string
	Score        float64
	MatchedLabel string
	Reasons      []string
	SampleSize   int
}

// NewColumnMatch builds a match, dropping empty and repeated reasons while
// keeping the first occurrence of each.
func NewColumnMatch(source, canonical string, score float64, label string, reasons []string, sampleSize int) ColumnMatch {
	return ColumnMatch{
		Source:       source,
		Canonical:    canonical,
		Score:        score,
		MatchedLabel: label,
		Reasons:      dedupe(reasons),
		SampleSize:   sampleSize,
	}
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// matchJSON is the serialized form of a ColumnMatch.
type matchJSON struct {
	Source       string   `json:"source"`
	Canonical    string   `json:"canonical"`
	Score        float64  `json:"score"`
	MatchedLabel string   `json:"matched_label"`
	Reasons      []string `json:"reasons"`
	SampleSize   int      `json:"sample_size"`
}

// MarshalJSON encodes the match with its score rounded to four decimals.
func (m ColumnMatch) MarshalJSON() ([]byte, error) {
	reasons := m.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return json.Marshal(matchJSON{
		Source:       m.Source,
		Canonical:    m.Canonical,
		Score:        roundScore(m.Score),
		MatchedLabel: m.MatchedLabel,
		Reasons:      reasons,
		SampleSize:   m.SampleSize,
	})
}

// UnmarshalJSON decodes a match written by MarshalJSON.
func (m *ColumnMatch) UnmarshalJSON(data []byte) error {
	var raw matchJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = NewColumnMatch(raw.Source, raw.Canonical, raw.Score, raw.MatchedLabel, raw.Reasons, raw.SampleSize)
	return nil
}

func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
