package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/cli/output"
	"github.com/IAmJonoBo/watercrawl-sub002/internal/state"
)

// NewRunsCommand creates the runs command group.
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse stored inference runs",
		Long:  `Browse runs stored with 'watercrawl infer --save'.`,
	}
	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())
	return cmd
}

func newRunsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				if runs == nil {
					runs = []*state.Run{}
				}
				return r.JSON(map[string]any{"runs": runs})
			}
			if len(runs) == 0 {
				r.Muted("No runs stored. Use 'watercrawl infer --save' to record one.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.CreatedAt.Local().Format(time.DateTime),
					strings.Join(run.Inputs, ", "),
					fmt.Sprintf("%d", run.Matched),
					fmt.Sprintf("%d", run.Unmatched),
					fmt.Sprintf("%d", run.Missing),
				})
			}
			r.Table([]string{"ID", "Created", "Inputs", "Matched", "Unmatched", "Missing"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func newRunsShowCommand() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the result of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result, err := store.RunResult(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{"run": run, "result": result})
			}

			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println(output.FormatHeader(1, "Run "+run.ID))
				r.Println()
				r.Println(output.FormatKeyValue("Created", run.CreatedAt.Format(time.RFC3339)))
				r.Println(output.FormatKeyValue("Schema", run.SchemaPath))
				r.Println(output.FormatKeyValue("Inputs", strings.Join(run.Inputs, ", ")))
				r.Println()
			} else {
				s := r.Styles()
				r.Header(1, "Run "+run.ID)
				r.Printf("  %s: %s\n", s.Bold.Render("Created"), run.CreatedAt.Local().Format(time.DateTime))
				r.Printf("  %s: %s\n", s.Bold.Render("Schema"), run.SchemaPath)
				r.Printf("  %s: %s\n", s.Bold.Render("Inputs"), strings.Join(run.Inputs, ", "))
				r.Println()
			}
			return r.Result(result, explain)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "Show every reason")
	return cmd
}
