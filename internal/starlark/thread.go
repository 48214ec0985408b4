package starlark

import (
	"log/slog"
	"sync"

	"go.starlark.net/starlark"
)

const (
	// DefaultMaxSteps bounds the work a single detect call may do.
	DefaultMaxSteps = 5_000_000

	defaultMaxIdle = 8
)

// threadPool lends threads to detect calls. A lent thread starts with a
// zero step count, the step budget and a name of the form "hook:column".
// print() output goes to the logger at debug level.
type threadPool struct {
	mu       sync.Mutex
	idle     []*starlark.Thread
	maxIdle  int
	maxSteps uint64
	logger   *slog.Logger
}

func newThreadPool(maxIdle int, maxSteps uint64, logger *slog.Logger) *threadPool {
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdle
	}
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &threadPool{maxIdle: maxIdle, maxSteps: maxSteps, logger: logger}
}

func (p *threadPool) get(name string) *starlark.Thread {
	p.mu.Lock()
	var thread *starlark.Thread
	if n := len(p.idle); n > 0 {
		thread = p.idle[n-1]
		p.idle = p.idle[:n-1]
	}
	p.mu.Unlock()

	if thread == nil {
		thread = &starlark.Thread{Print: p.print}
	}
	thread.Name = name
	thread.Steps = 0
	thread.SetMaxExecutionSteps(p.maxSteps)
	return thread
}

// put returns a thread after a successful call. Threads whose call failed
// may be cancelled and are dropped instead.
func (p *threadPool) put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle) < p.maxIdle {
		p.idle = append(p.idle, thread)
	}
}

func (p *threadPool) print(thread *starlark.Thread, msg string) {
	p.logger.Debug("hook print", slog.String("thread", thread.Name), slog.String("msg", msg))
}
