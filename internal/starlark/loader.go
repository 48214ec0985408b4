package starlark

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

// Loader scans a directory for .star hook files.
type Loader struct {
	dir    string
	logger *slog.Logger
	pool   *threadPool
}

// NewLoader creates a loader for dir. A nil logger discards output.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, logger: logger, pool: newThreadPool(0, DefaultMaxSteps, logger)}
}

// Load loads every .star file in the directory, sorted by file name.
// A missing directory yields no hooks.
func (l *Loader) Load() ([]*Hook, error) {
	if l.dir == "" {
		return nil, nil
	}

	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access hooks directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("hooks path is not a directory: %s", l.dir)
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan hooks directory: %w", err)
	}

	hooks := make([]*Hook, 0, len(files))
	for _, file := range files {
		h, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded custom hook", slog.String("hook", string(h.id)), slog.String("path", file))
		hooks = append(hooks, h)
	}
	return hooks, nil
}

// loadFile executes one hook file and extracts its detect function.
func (l *Loader) loadFile(path string) (*Hook, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a glob within the hooks directory
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	id := strings.TrimSuffix(filepath.Base(path), ".star")
	if err := validateHookID(id); err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	thread := l.pool.get("load:" + id)

	globals, err := starlark.ExecFile(thread, path, content, Predeclared()) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}
	l.pool.put(thread)
	globals.Freeze()

	fn, ok := globals[detectFunc]
	if !ok {
		return nil, &LoadError{File: path, Message: "missing detect(column, values, descriptor) function"}
	}
	callable, ok := fn.(starlark.Callable)
	if !ok {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("detect is a %s, not a function", fn.Type())}
	}

	return &Hook{
		id:     core.HookID(id),
		path:   path,
		detect: callable,
		pool:   l.pool,
		logger: l.logger,
	}, nil
}

// Register adds hooks to a registry. A hook whose ID is already registered,
// such as a built-in, is an error.
func Register(r *inference.Registry, hooks []*Hook) error {
	for _, h := range hooks {
		if err := r.Register(h); err != nil {
			return &LoadError{File: h.path, Message: err.Error()}
		}
	}
	return nil
}

// validateHookID checks that a file name is usable as a hook identifier.
func validateHookID(id string) error {
	if id == "" {
		return fmt.Errorf("hook id cannot be empty")
	}

	for i, r := range id {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return fmt.Errorf("hook id must start with letter or underscore: %s", id)
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return fmt.Errorf("hook id contains invalid character: %s", id)
			}
		}
	}

	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// LoadError represents an error loading a hook file.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("hooks/%s: %s", filepath.Base(e.File), e.Message)
}
