package commands

import (
	"github.com/spf13/cobra"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/cli/output"
	istarlark "github.com/IAmJonoBo/watercrawl-sub002/internal/starlark"
)

// NewHooksCommand creates the hooks command.
func NewHooksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hooks",
		Short: "List detection hooks",
		Long: `List the built-in detection hooks and the custom hooks loaded from the
hooks directory. Descriptors opt in to a hook by naming it in
detection_hooks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			registry, err := loadRegistry(cmdCtx.Cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}
			infos := istarlark.Describe(registry)

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{"hooks": infos})
			}

			rows := make([][]string, 0, len(infos))
			for _, h := range infos {
				rows = append(rows, []string{h.ID, h.Kind, h.Path})
			}
			r.Table([]string{"Hook", "Kind", "Path"}, rows)
			return nil
		},
	}
}
