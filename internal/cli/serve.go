package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the conversion, validation, render and outline operations over HTTP
under /api/v1. The server shares the configured cache backend, so several
instances behind a load balancer can share rendered pages through Redis or
MongoDB.`,
		Example: `  pagecraft serve --addr :8080
  PAGECRAFT_CACHE_BACKEND=redis pagecraft serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner := c.newRunner(ctx, false)
			defer runner.Close()

			printInfo("Listening on %s", StyleLink.Render(addr))
			printKeyValue("render", runner.Renderer.URL())
			printKeyValue("cache", c.Config.Cache.Backend)
			return server.Serve(ctx, addr, server.New(runner, c.Logger), c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
