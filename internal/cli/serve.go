package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/albumposter/internal/server"
	"github.com/matzehuels/albumposter/pkg/config"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the HTTP service.

Endpoints:
  POST /generate   render a poster (?format=jpeg|png, ?refresh=true)
  POST /layout     plan a poster and return its geometry as JSON
  GET  /healthz    liveness probe
  GET  /version    build information`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(func(cfg *config.Config) {
				if addr != "" {
					cfg.Server.Addr = addr
				}
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			return server.New(runner, cfg, loggerFromContext(ctx)).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
