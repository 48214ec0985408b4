package inference

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0,1]:
// twice the number of characters in matching blocks divided by the total
// number of characters. Characters are runes, so a multi-byte letter counts
// once.
//
// Two empty strings are identical and score 1.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// runes splits s into one element per UTF-8 encoded rune.
func runes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}
