package cli

import (
	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/internal/api"
	"github.com/Luxbin-labs/luxbin-chain/pkg/cache"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the entanglement HTTP API",
		Long: `Serve the HTTP API. Sessions are recorded in the configured store; the
backend list is cached in memory for the provider cache TTL.`,
		Example: `  luxbin serve --addr :9090
  LUXBIN_STORE=redis LUXBIN_REDIS_ADDR=localhost:6379 luxbin serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("addr") {
				c.cfg.Server.Addr = addr
			}

			bc := cache.NewMemoryCache()
			defer bc.Close()
			prov, err := c.newProvider(bc)
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			proto, err := c.newProtocol(prov, st)
			if err != nil {
				return err
			}

			srv, err := api.New(proto, st, prov,
				api.WithLogger(c.Logger),
				api.WithNodeOptions(c.cfg.NodeOptions()...),
				api.WithDefaultShots(c.cfg.Provider.Shots),
			)
			if err != nil {
				return err
			}
			printInfo("Serving %s on %s (store: %s)", StyleHighlight.Render("luxbin API"), c.cfg.Server.Addr, c.cfg.Store.Kind)
			return srv.ListenAndServe(ctx, c.cfg.Server.Addr,
				c.cfg.Server.ReadTimeout.Duration, c.cfg.Server.WriteTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
