package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/internal/server"
	"github.com/matzehuels/dressup/pkg/metrics"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			opts, err := cfg.PlannerOptions()
			if err != nil {
				return err
			}
			cat, err := cfg.LoadCatalog()
			if err != nil {
				return err
			}
			store, err := c.openCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			recorder := metrics.NewRecorder()
			recorder.Install()

			srv, err := server.New(server.Config{
				Catalog: cat,
				Fetcher: cfg.Fetcher(),
				Cache:   store,
				Keyer:   cfg.Keyer(),
				Options: opts,
				Logger:  logger,
				Metrics: recorder,
			})
			if err != nil {
				return err
			}

			printSuccess("Serving %d items on %s", cat.Total(), StyleHighlight.Render(addr))
			printDetail("assets: %s  cache: %s", cfg.AssetsRoot, cfg.Cache.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the persistent landmark cache")
	return cmd
}
