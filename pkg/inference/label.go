package inference

import "fmt"

// Label scoring constants.
const (
	exactLabelScore   = 1.0
	synonymLabelScore = 0.95

	// fuzzyRatioThreshold is the minimum Ratio for a fuzzy label match,
	// scored as ratio * fuzzyWeight.
	fuzzyRatioThreshold = 0.6
	fuzzyWeight         = 0.9

	// minTokenCoverage is the minimum share of the label's tokens that must
	// appear in the column name, scored as tokenBase + tokenSpread * coverage.
	minTokenCoverage = 0.5
	tokenBase        = 0.6
	tokenSpread      = 0.4
)

// ScoreLabel scores how well an observed column name matches one candidate
// label of a descriptor whose canonical name is canonical. The reason is
// empty when the score is zero.
//
// Rules, first match wins:
//  1. normalized forms equal and the label is the canonical name: 1.0
//  2. normalized forms equal and the label is a synonym: 0.95
//  3. Ratio of the normalized forms >= 0.6: ratio * 0.9
//  4. at least half of the label's tokens appear in the column name:
//     0.6 + 0.4 * coverage
func ScoreLabel(column, label, canonical string) (float64, string) {
	nc, nl := Normalize(column), Normalize(label)
	if nc == "" || nl == "" {
		return 0, ""
	}

	if nc == nl {
		if label == canonical {
			return exactLabelScore, "exact canonical name match"
		}
		return synonymLabelScore, fmt.Sprintf("synonym match: '%s'", label)
	}

	if ratio := Ratio(nc, nl); ratio >= fuzzyRatioThreshold {
		return ratio * fuzzyWeight, fmt.Sprintf("fuzzy match to '%s' (ratio %.2f)", label, ratio)
	}

	if coverage, ok := tokenCoverage(column, label); ok && coverage >= minTokenCoverage {
		return tokenBase + tokenSpread*coverage, fmt.Sprintf("token overlap with '%s' (coverage %.2f)", label, coverage)
	}

	return 0, ""
}

// tokenCoverage returns the share of the label's distinct tokens that also
// occur in the column name. ok is false when the label has no tokens.
func tokenCoverage(column, label string) (float64, bool) {
	labelTokens := tokenSet(label)
	if len(labelTokens) == 0 {
		return 0, false
	}

	columnTokens := tokenSet(column)
	overlap := 0
	for t := range labelTokens {
		if _, ok := columnTokens[t]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(labelTokens)), true
}
