package starlark

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/testutil"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

func exec(t *testing.T, thread *starlark.Thread, src string) error {
	t.Helper()
	_, err := starlark.ExecFile(thread, "test.star", src, nil) //nolint:staticcheck // SA1019: matches the loader
	return err
}

func TestThreadPool_ResetsLentThreads(t *testing.T) {
	pool := newThreadPool(2, 10_000, nil)

	first := pool.get("postcode:zip")
	require.NoError(t, exec(t, first, "x = [i for i in range(50)]\n"))
	require.NotZero(t, first.Steps)
	pool.put(first)

	again := pool.get("postcode:code")
	assert.Same(t, first, again)
	assert.Equal(t, "postcode:code", again.Name)
	assert.Zero(t, again.Steps)
}

func TestThreadPool_IdleLimit(t *testing.T) {
	pool := newThreadPool(1, 0, nil)
	a, b := pool.get("a"), pool.get("b")
	pool.put(a)
	pool.put(b)
	assert.Len(t, pool.idle, 1)
}

func TestThreadPool_StepLimit(t *testing.T) {
	pool := newThreadPool(0, 100, nil)
	err := exec(t, pool.get("busy"), "x = [i for i in range(100000)]\n")
	assert.ErrorContains(t, err, "too many steps")
}

func TestThreadPool_PrintIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	pool := newThreadPool(0, 0, logger)

	require.NoError(t, exec(t, pool.get("email:contact"), `print("checking")`+"\n"))
	assert.Contains(t, buf.String(), "msg=checking")
	assert.Contains(t, buf.String(), "thread=email:contact")
}

func TestHook_RunawayDetectIsNoSignal(t *testing.T) {
	h := loadOne(t, `
def detect(column, values, descriptor):
    n = 0
    for i in range(100000000):
        n += 1
    return 1.0
`)
	h.pool = newThreadPool(4, 10_000, testutil.NewTestLogger(t))

	_, ok := h.Detect("zip", []string{"2196"}, &core.Descriptor{Name: "Postal Code"})
	assert.False(t, ok)
	assert.Empty(t, h.pool.idle, "a cancelled thread is not reused")

	_, ok = h.Detect("zip", []string{"2196"}, &core.Descriptor{Name: "Postal Code"})
	assert.False(t, ok)
}

func TestHook_ColumnsDoNotShareState(t *testing.T) {
	d := &core.Descriptor{Name: "Postal Code"}

	t.Run("globals are frozen", func(t *testing.T) {
		h := loadOne(t, `
seen = []

def detect(column, values, descriptor):
    seen.append(column)
    return 1.0
`)
		for _, col := range []string{"a", "b"} {
			_, ok := h.Detect(col, []string{"x"}, d)
			assert.False(t, ok, col)
		}
	})

	t.Run("each call sees its own column", func(t *testing.T) {
		h := loadOne(t, `
def detect(column, values, descriptor):
    return (0.8, "column %s, %d values" % (column, len(values)))
`)

		var wg sync.WaitGroup
		for i := 0; i < 24; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				col := fmt.Sprintf("col%d", i)
				sample := make([]string, i%3+1)
				for j := range sample {
					sample[j] = "v"
				}
				sig, ok := h.Detect(col, sample, d)
				if assert.True(t, ok) {
					assert.Equal(t, fmt.Sprintf("column %s, %d values", col, len(sample)), sig.Reason)
				}
			}(i)
		}
		wg.Wait()
		assert.LessOrEqual(t, len(h.pool.idle), defaultMaxIdle)
	})
}
