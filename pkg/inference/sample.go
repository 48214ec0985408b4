package inference

import (
	"fmt"
	"math"
	"strings"
)

// DefaultSampleSize is the number of non-empty values detection hooks see.
const DefaultSampleSize = 50

// Sample returns the first n non-empty values of a column as trimmed
// strings, in order of appearance. Nil values, NaN floats and blank strings
// are skipped.
func Sample(values []any, n int) []string {
	if n <= 0 {
		return nil
	}

	sample := make([]string, 0, min(n, len(values)))
	for _, v := range values {
		s, ok := stringify(v)
		if !ok {
			continue
		}
		sample = append(sample, s)
		if len(sample) == n {
			break
		}
	}
	return sample
}

func stringify(v any) (string, bool) {
	var s string
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		s = val
	case []byte:
		s = string(val)
	case float64:
		if math.IsNaN(val) {
			return "", false
		}
		s = fmt.Sprint(val)
	case float32:
		if math.IsNaN(float64(val)) {
			return "", false
		}
		s = fmt.Sprint(val)
	case fmt.Stringer:
		s = val.String()
	default:
		s = fmt.Sprint(val)
	}

	s = strings.TrimSpace(s)
	return s, s != ""
}
