package inference

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// scriptedHook returns fixed scores keyed by "column|descriptor".
type scriptedHook struct {
	id     core.HookID
	scores map[string]float64
	calls  atomic.Int32
}

func (h *scriptedHook) ID() core.HookID { return h.id }

func (h *scriptedHook) Detect(column string, _ []string, d *core.Descriptor) (Signal, bool) {
	h.calls.Add(1)
	s, ok := h.scores[column+"|"+d.Name]
	if !ok {
		return Signal{}, false
	}
	return Signal{Score: s, Reason: "scripted " + column}, true
}

// scriptedEngine builds an engine over descriptors that all opt in to one
// scripted hook. The descriptor and column names used with it share no
// label similarity, so the hook alone decides every score.
func scriptedEngine(scores map[string]float64, names ...string) (*Engine, *scriptedHook) {
	hook := &scriptedHook{id: "scripted", scores: scores}
	descriptors := make([]core.Descriptor, len(names))
	for i, n := range names {
		descriptors[i] = core.Descriptor{Name: n, DetectionHooks: []core.HookID{"scripted"}}
	}
	return NewEngine(descriptors, WithRegistry(NewRegistry(hook))), hook
}

func newFrame(t *testing.T, name string, columns ...core.Column) *core.Frame {
	t.Helper()
	f, err := core.NewFrameFromColumns(name, columns...)
	require.NoError(t, err)
	return f
}

// filled returns a column with one non-empty value.
func filled(name string) core.Column {
	return core.Column{Name: name, Values: []any{"v"}}
}
