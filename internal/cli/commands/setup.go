// Package commands implements the watercrawl subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/cli/config"
	"github.com/IAmJonoBo/watercrawl-sub002/internal/cli/output"
	istarlark "github.com/IAmJonoBo/watercrawl-sub002/internal/starlark"
	"github.com/IAmJonoBo/watercrawl-sub002/internal/state"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/schema"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer of cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Project is a loaded schema with its hook registry and engine.
type Project struct {
	Descriptors []core.Descriptor
	Registry    *inference.Registry
	Engine      *inference.Engine
	Warnings    []schema.Warning
}

// LoadProject loads the descriptor file and custom hooks named by cfg and
// builds an engine over them. Schema warnings are logged and returned.
func LoadProject(cfg *config.Config, logger *slog.Logger) (*Project, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	descriptors, err := schema.Load(cfg.Schema)
	if err != nil {
		return nil, err
	}

	registry, err := loadRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	warnings := schema.Check(descriptors, registry.Has)
	for _, w := range warnings {
		logger.Warn(w.Message, slog.String("column", w.Descriptor), slog.String("hook", w.Hook))
	}

	engine := inference.NewEngine(descriptors,
		inference.WithRegistry(registry),
		inference.WithOptions(cfg.Inference.EngineOptions()),
		inference.WithLogger(logger),
	)

	return &Project{
		Descriptors: descriptors,
		Registry:    registry,
		Engine:      engine,
		Warnings:    warnings,
	}, nil
}

// loadRegistry returns the built-in hooks plus the custom hooks in
// cfg.HooksDir.
func loadRegistry(cfg *config.Config, logger *slog.Logger) (*inference.Registry, error) {
	registry := inference.DefaultRegistry()
	hooks, err := istarlark.NewLoader(cfg.HooksDir, logger).Load()
	if err != nil {
		return nil, err
	}
	if err := istarlark.Register(registry, hooks); err != nil {
		return nil, err
	}
	return registry, nil
}

// openStore opens and migrates the run history database.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}
	return store, nil
}
