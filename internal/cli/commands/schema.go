package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/cli/output"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/schema"
)

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the target schema",
	}
	cmd.AddCommand(newSchemaCheckCommand())
	cmd.AddCommand(newSchemaShowCommand())
	return cmd
}

// schemaCheckJSON is the JSON output of schema check.
type schemaCheckJSON struct {
	File     string           `json:"file"`
	Columns  int              `json:"columns"`
	Warnings []schema.Warning `json:"warnings"`
}

func newSchemaCheckCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a descriptor file",
		Long: `Validate a descriptor file and report detection hooks that can never fire.

Errors (empty or duplicate names, unknown fields, malformed YAML) fail the
command. Warnings (unknown hooks, allowed_values without values) only fail it
with --strict.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg
			r := cmdCtx.Renderer

			path := cfg.Schema
			if len(args) == 1 {
				path = args[0]
			}

			descriptors, err := schema.Load(path)
			if err != nil {
				return err
			}
			registry, err := loadRegistry(cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}
			warnings := schema.Check(descriptors, registry.Has)

			if r.EffectiveMode() == output.ModeJSON {
				if warnings == nil {
					warnings = []schema.Warning{}
				}
				if err := r.JSON(schemaCheckJSON{File: path, Columns: len(descriptors), Warnings: warnings}); err != nil {
					return err
				}
			} else {
				for _, w := range warnings {
					r.StatusLine(w.Descriptor, "warning", w.Message)
				}
				r.Success(fmt.Sprintf("%s: %d columns, %d warnings", path, len(descriptors), len(warnings)))
			}

			if strict && len(warnings) > 0 {
				return fmt.Errorf("%d schema warnings", len(warnings))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	return cmd
}

func newSchemaShowCommand() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Show the columns of a descriptor file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			path := cmdCtx.Cfg.Schema
			if len(args) == 1 {
				path = args[0]
			}
			descriptors, err := schema.Load(path)
			if err != nil {
				return err
			}

			if asYAML {
				data, err := schema.Marshal(descriptors)
				if err != nil {
					return err
				}
				_, err = r.Writer().Write(data)
				return err
			}
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(schema.File{Columns: descriptors})
			}

			r.Header(1, fmt.Sprintf("Schema columns (%d)", len(descriptors)))
			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				rows = append(rows, []string{
					d.Name,
					strings.Join(d.Synonyms, ", "),
					fmt.Sprintf("%d", len(d.AllowedValues)),
					joinHooks(d.DetectionHooks),
				})
			}
			r.Table([]string{"Column", "Synonyms", "Allowed values", "Hooks"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the normalised descriptor YAML")
	return cmd
}

func joinHooks(ids []core.HookID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
