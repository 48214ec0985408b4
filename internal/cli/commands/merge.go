package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

// NewMergeCommand creates the merge command.
func NewMergeCommand() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "merge <result.json>...",
		Short: "Merge saved inference results",
		Long: `Merge inference results written by 'watercrawl infer -o json'.

Each source keeps its best match. When several sources claim the same
canonical column the highest score wins and the others become unmatched.`,
		Example: `  watercrawl infer q1.csv -o json > q1.json
  watercrawl infer q2.csv -o json > q2.json
  watercrawl merge q1.json q2.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			results := make([]*inference.Result, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied result file
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				res, err := inference.ParseResult(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results = append(results, res)
			}

			return cmdCtx.Renderer.Result(inference.Merge(results...), explain)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "Show every reason")
	return cmd
}
