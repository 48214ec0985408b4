package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/source"
)

// watchDebounce groups bursts of file events into one re-run.
var watchDebounce = 100 * time.Millisecond

// watchTargets are the paths whose changes trigger a re-run.
type watchTargets struct {
	// Files are watched through their parent directory so that editors
	// replacing a file on save are still noticed.
	Files []string
	// HookDirs trigger on any .star file inside them.
	HookDirs []string
}

func watchInfer(ctx context.Context, cmdCtx *CommandContext, sources []string, opts *InferOptions) error {
	r := cmdCtx.Renderer
	run := func() {
		if err := runInfer(ctx, cmdCtx, sources, opts); err != nil {
			r.Error(err.Error())
		}
	}

	targets := watchTargets{Files: []string{cmdCtx.Cfg.Schema}, HookDirs: []string{cmdCtx.Cfg.HooksDir}}
	for _, raw := range sources {
		ref, err := source.ParseRef(raw)
		if err != nil {
			return err
		}
		switch ref.Scheme {
		case source.SchemeFile, source.SchemeSQLite:
			targets.Files = append(targets.Files, ref.Location)
		}
	}

	run()
	r.Muted("Watching for changes (Ctrl+C to stop)")

	return watchFiles(ctx, cmdCtx.Logger, targets, func(changed string) {
		r.Println()
		r.Muted(fmt.Sprintf("%s changed, re-running", changed))
		run()
	})
}

// watchFiles calls onChange after changes to targets settle, until ctx is
// canceled. Calls to onChange never overlap.
func watchFiles(ctx context.Context, logger *slog.Logger, targets watchTargets, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	files := make(map[string]bool)
	hookDirs := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range targets.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for _, d := range targets.HookDirs {
		if d == "" {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			return err
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			hookDirs[abs] = true
			dirs[abs] = true
		}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Warn("failed to watch directory", slog.String("dir", dir), slog.String("error", err.Error()))
		}
	}

	relevant := func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		if files[abs] {
			return true
		}
		return hookDirs[filepath.Dir(abs)] && filepath.Ext(abs) == ".star"
	}

	trigger := make(chan string, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !relevant(event.Name) {
				continue
			}

			logger.Debug("file changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			name := event.Name
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- name:
				default:
				}
			})

		case name := <-trigger:
			onChange(name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}
