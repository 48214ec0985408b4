package inference

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize case-folds s and drops every rune that is not a letter or number.
// "Org-Name " and "orgname" normalize to the same string.
func Normalize(s string) string {
	folded := cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if isWordRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize splits s into case-folded runs of letters and numbers.
func Tokenize(s string) []string {
	folded := cases.Fold().String(s)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !isWordRune(r)
	})
}

func tokenSet(s string) map[string]struct{} {
	tokens := Tokenize(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
