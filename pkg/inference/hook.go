package inference

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// Signal is the evidence a detection hook produces for one column.
type Signal struct {
	Score  float64 // in [0,1]
	Reason string  // never empty
}

// Hook is a content-sniffing heuristic that scores a column sample against a
// descriptor independently of the column's name. Detect returns false when
// the hook does not fire. Implementations must be safe for concurrent use.
type Hook interface {
	ID() core.HookID
	Detect(column string, sample []string, d *core.Descriptor) (Signal, bool)
}

// minEvidenceRatio is the share of sampled values that must match before a
// built-in hook fires.
const minEvidenceRatio = 0.5

// evidence counts the sampled values accepted by match.
func evidence(sample []string, match func(string) bool) (hits int, ratio float64) {
	if len(sample) == 0 {
		return 0, 0
	}
	for _, v := range sample {
		if match(v) {
			hits++
		}
	}
	return hits, float64(hits) / float64(len(sample))
}

// fire turns an evidence ratio into a signal scored base + spread*ratio.
func fire(base, spread, ratio float64, reason string) (Signal, bool) {
	if ratio < minEvidenceRatio {
		return Signal{}, false
	}
	return Signal{Score: min(1.0, base+spread*ratio), Reason: reason}, true
}

// AllowedValuesHook fires when sampled values belong to the descriptor's
// controlled vocabulary, compared case-insensitively. The engine applies it
// to every descriptor with allowed values.
type AllowedValuesHook struct{}

func (AllowedValuesHook) ID() core.HookID { return core.HookAllowedValues }

func (AllowedValuesHook) Detect(_ string, sample []string, d *core.Descriptor) (Signal, bool) {
	if !d.HasAllowedValues() {
		return Signal{}, false
	}

	allowed := make(map[string]struct{}, len(d.AllowedValues))
	for _, v := range d.AllowedValues {
		allowed[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}

	hits, ratio := evidence(sample, func(v string) bool {
		_, ok := allowed[strings.ToLower(v)]
		return ok
	})
	return fire(0.6, 0.4, ratio, fmt.Sprintf(
		"ontology match (allowed_values): %d/%d sampled values in allowed set", hits, len(sample)))
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailPatternHook fires on values shaped like email addresses.
type EmailPatternHook struct{}

func (EmailPatternHook) ID() core.HookID { return core.HookEmailPattern }

func (EmailPatternHook) Detect(_ string, sample []string, _ *core.Descriptor) (Signal, bool) {
	hits, ratio := evidence(sample, emailPattern.MatchString)
	return fire(0.7, 0.3, ratio, fmt.Sprintf(
		"email pattern: %d/%d sampled values look like email addresses", hits, len(sample)))
}

var urlPattern = regexp.MustCompile(`(?i)^(https?://)?(www\.)?[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,}(:\d+)?([/?#]\S*)?$`)

// URLPatternHook fires on values that start with "http" or look like a
// bare domain or URL.
type URLPatternHook struct{}

func (URLPatternHook) ID() core.HookID { return core.HookURLPattern }

func (URLPatternHook) Detect(_ string, sample []string, _ *core.Descriptor) (Signal, bool) {
	hits, ratio := evidence(sample, func(v string) bool {
		return strings.HasPrefix(strings.ToLower(v), "http") || urlPattern.MatchString(v)
	})
	return fire(0.7, 0.3, ratio, fmt.Sprintf(
		"url pattern: %d/%d sampled values look like URLs", hits, len(sample)))
}

// minPhoneDigits is the digit count from which a value counts as a phone number.
const minPhoneDigits = 9

// PhonePatternHook fires on values carrying at least nine digits.
type PhonePatternHook struct{}

func (PhonePatternHook) ID() core.HookID { return core.HookPhonePattern }

func (PhonePatternHook) Detect(_ string, sample []string, _ *core.Descriptor) (Signal, bool) {
	hits, ratio := evidence(sample, func(v string) bool {
		digits := 0
		for _, r := range v {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		return digits >= minPhoneDigits
	})
	return fire(0.65, 0.35, ratio, fmt.Sprintf(
		"phone pattern: %d/%d sampled values contain %d+ digits", hits, len(sample), minPhoneDigits))
}

// NumericValuesHook fires on values that parse as numbers once thousands
// separators are removed.
type NumericValuesHook struct{}

func (NumericValuesHook) ID() core.HookID { return core.HookNumericValues }

func (NumericValuesHook) Detect(_ string, sample []string, _ *core.Descriptor) (Signal, bool) {
	hits, ratio := evidence(sample, isNumber)
	return fire(0.6, 0.4, ratio, fmt.Sprintf(
		"numeric values: %d/%d sampled values parse as numbers", hits, len(sample)))
}

// isNumber reports whether v is a decimal number. Commas are dropped as
// thousands separators and single underscores may separate digits.
// Hexadecimal literals are not numbers.
func isNumber(v string) bool {
	s := strings.ReplaceAll(v, ",", "")
	if body := strings.TrimLeft(s, "+-"); len(body) > 1 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		return false
	}
	if strings.Contains(s, "_") {
		for i := 0; i < len(s); i++ {
			if s[i] != '_' {
				continue
			}
			if i == 0 || i == len(s)-1 || !isASCIIDigit(s[i-1]) || !isASCIIDigit(s[i+1]) {
				return false
			}
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

var (
	_ Hook = AllowedValuesHook{}
	_ Hook = EmailPatternHook{}
	_ Hook = URLPatternHook{}
	_ Hook = PhonePatternHook{}
	_ Hook = NumericValuesHook{}
)
