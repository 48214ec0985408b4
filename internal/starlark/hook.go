package starlark

import (
	"fmt"
	"log/slog"
	"math"

	"go.starlark.net/starlark"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

// detectFunc is the function every hook file must define.
const detectFunc = "detect"

// Hook is a detection hook backed by a Starlark detect function.
// It is safe for concurrent use: globals are frozen and each call runs on
// its own thread.
type Hook struct {
	id     core.HookID
	path   string
	detect starlark.Callable
	pool   *threadPool
	logger *slog.Logger
}

// ID implements inference.Hook.
func (h *Hook) ID() core.HookID { return h.id }

// Path returns the file the hook was loaded from.
func (h *Hook) Path() string { return h.path }

// Detect implements inference.Hook. Runtime errors and malformed return
// values are logged and treated as no signal.
func (h *Hook) Detect(column string, sample []string, d *core.Descriptor) (inference.Signal, bool) {
	values, err := GoToStarlark(sample)
	if err != nil {
		h.logger.Warn("failed to convert sample", slog.String("hook", string(h.id)), slog.String("error", err.Error()))
		return inference.Signal{}, false
	}

	thread := h.pool.get(fmt.Sprintf("%s:%s", h.id, column))
	args := starlark.Tuple{starlark.String(column), values, DescriptorToStarlark(d)}
	out, err := starlark.Call(thread, h.detect, args, nil)
	if err != nil {
		// The thread may have been cancelled by the step limit; drop it.
		h.logger.Warn("custom hook failed",
			slog.String("hook", string(h.id)),
			slog.String("column", column),
			slog.String("error", err.Error()))
		return inference.Signal{}, false
	}
	h.pool.put(thread)

	sig, ok, err := h.signal(out)
	if err != nil {
		h.logger.Warn("custom hook returned an invalid value",
			slog.String("hook", string(h.id)),
			slog.String("column", column),
			slog.String("error", err.Error()))
		return inference.Signal{}, false
	}
	return sig, ok
}

// signal interprets the value returned by detect.
func (h *Hook) signal(v starlark.Value) (inference.Signal, bool, error) {
	raw, err := ToGo(v)
	if err != nil {
		return inference.Signal{}, false, err
	}

	var (
		score  any
		reason any
	)
	switch val := raw.(type) {
	case nil:
		return inference.Signal{}, false, nil
	case int64, float64:
		score = val
	case []any:
		if len(val) != 2 {
			return inference.Signal{}, false, fmt.Errorf("expected (score, reason), got %d items", len(val))
		}
		score, reason = val[0], val[1]
	case map[string]any:
		var ok bool
		if score, ok = val["score"]; !ok {
			return inference.Signal{}, false, fmt.Errorf("dict result has no \"score\" key")
		}
		reason = val["reason"]
	default:
		return inference.Signal{}, false, fmt.Errorf("unsupported result type %s", v.Type())
	}

	s, err := toScore(score)
	if err != nil {
		return inference.Signal{}, false, err
	}
	if s <= 0 {
		return inference.Signal{}, false, nil
	}

	text := fmt.Sprintf("custom hook %s", h.id)
	switch r := reason.(type) {
	case nil:
	case string:
		if r != "" {
			text = r
		}
	default:
		return inference.Signal{}, false, fmt.Errorf("reason must be a string, got %T", reason)
	}

	return inference.Signal{Score: s, Reason: text}, true, nil
}

// toScore converts a numeric result to a score clamped to [0, 1].
func toScore(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, fmt.Errorf("score must be a number, got %T", v)
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("score is NaN")
	}
	return math.Max(0, math.Min(1, f)), nil
}

var _ inference.Hook = (*Hook)(nil)
