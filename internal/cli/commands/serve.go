package commands

import (
	"github.com/spf13/cobra"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/server"
	"github.com/IAmJonoBo/watercrawl-sub002/internal/state"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var noStore bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve column inference over HTTP",
		Long: `Start an HTTP API that infers column mappings for posted frames.

Routes:
  GET  /healthz
  GET  /v1/hooks
  POST /v1/infer     {"frames":[{"name":"...","columns":[{"name":"...","values":[...]}]}]}
  POST /v1/merge     {"results":[...]}
  GET  /v1/runs
  GET  /v1/runs/{id}`,
		Example: `  watercrawl serve --addr 127.0.0.1:8765`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg

			project, err := LoadProject(cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}

			var store state.Store
			if !noStore {
				s, err := openStore(cfg, cmdCtx.Logger)
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()
				store = s
			}

			srv := server.NewServer(server.Config{
				Addr:       cfg.Serve.Addr,
				Engine:     project.Engine,
				Registry:   project.Registry,
				Store:      store,
				SchemaPath: cfg.Schema,
				Logger:     cmdCtx.Logger,
			})
			return srv.Serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default \":8765\")")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Disable run history routes")
	return cmd
}
