// Package starlark runs custom detection hooks written in Starlark.
//
// Each file <id>.star in the hooks directory defines one hook:
//
//	def detect(column, values, descriptor):
//	    hits = [v for v in values if v.startswith("ZA")]
//	    if len(hits) * 2 < len(values):
//	        return None
//	    return (0.9, "%d/%d values look like ZA codes" % (len(hits), len(values)))
//
// detect receives the column name, the sampled values and the descriptor
// (a struct with name, synonyms, allowed_values and detection_hooks). It
// returns None, a bare score, a (score, reason) tuple or a dict with
// "score" and "reason" keys. Descriptors opt in by listing <id> in
// detection_hooks.
package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// DescriptorToStarlark converts a descriptor to a read-only Starlark struct.
func DescriptorToStarlark(d *core.Descriptor) starlark.Value {
	hooks := make([]string, len(d.DetectionHooks))
	for i, h := range d.DetectionHooks {
		hooks[i] = string(h)
	}
	return starlarkstruct.FromStringDict(starlark.String("descriptor"), starlark.StringDict{
		"name":            starlark.String(d.Name),
		"synonyms":        stringTuple(d.Synonyms),
		"allowed_values":  stringTuple(d.AllowedValues),
		"detection_hooks": stringTuple(hooks),
	})
}

func stringTuple(values []string) starlark.Tuple {
	t := make(starlark.Tuple, len(values))
	for i, s := range values {
		t[i] = starlark.String(s)
	}
	return t
}

// GoToStarlark converts a Go value to a Starlark value.
// Supported types: string, int, int64, float64, bool, []string, []any, map[string]any
func GoToStarlark(v any) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}

	switch val := v.(type) {
	case string:
		return starlark.String(val), nil

	case int:
		return starlark.MakeInt(val), nil

	case int64:
		return starlark.MakeInt64(val), nil

	case float64:
		return starlark.Float(val), nil

	case bool:
		return starlark.Bool(val), nil

	case []string:
		list := make([]starlark.Value, len(val))
		for i, s := range val {
			list[i] = starlark.String(s)
		}
		return starlark.NewList(list), nil

	case []any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil

	case map[string]any:
		dict := starlark.NewDict(len(val))
		for k, v := range val {
			sv, err := GoToStarlark(v)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("dict setkey %q: %w", k, err)
			}
		}
		return dict, nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// ToGo converts a Starlark value back to a Go value.
// Returns: string, int64, float64, bool, []any, map[string]any, or nil
func ToGo(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil

	case starlark.String:
		return string(val), nil

	case starlark.Int:
		i64, ok := val.Int64()
		if !ok {
			return val.String(), nil
		}
		return i64, nil

	case starlark.Float:
		return float64(val), nil

	case starlark.Bool:
		return bool(val), nil

	case *starlark.List:
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			gv, err := ToGo(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			result[i] = gv
		}
		return result, nil

	case starlark.Tuple:
		result := make([]any, len(val))
		for i, item := range val {
			gv, err := ToGo(item)
			if err != nil {
				return nil, fmt.Errorf("tuple index %d: %w", i, err)
			}
			result[i] = gv
		}
		return result, nil

	case *starlark.Dict:
		result := make(map[string]any)
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, got %T", item[0])
			}
			gv, err := ToGo(item[1])
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", key, err)
			}
			result[string(key)] = gv
		}
		return result, nil

	default:
		return val.String(), nil
	}
}
