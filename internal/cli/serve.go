package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geco/internal/server"
	"github.com/matzehuels/geco/pkg/observability"
	"github.com/matzehuels/geco/pkg/pipeline"
)

// serveCommand runs the HTTP API over the configured source and cache.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		src     string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendering API over HTTP",
		Long: `Serve the rendering API over HTTP.

Endpoints:
  GET  /health
  POST /api/render?format=svg      render posted options
  POST /api/layout                 draw-list of posted options
  GET  /api/levels?query=&notation=
  GET  /api/context/{query}/{format}

Datasets come from the [backend] or [mongo] section of the configuration;
posted options may also carry the dataset inline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if err := validateSource(src); err != nil {
				return err
			}
			in := &inputFlags{source: src}

			cc := c.newCache(ctx, cfg, noCache)
			source, closeSrc, err := c.newSource(ctx, cfg, in, cc)
			if err != nil {
				cc.Close()
				return fmt.Errorf("open source: %w", err)
			}
			defer closeSrc()

			runner := pipeline.NewRunner(cc, nil, source, c.Logger)
			defer runner.Close()
			observability.NewLogHooks(c.Logger).Register()
			defer observability.Reset()

			scfg := server.Config{
				Addr:         cfg.Server.Addr,
				CORSOrigins:  cfg.Server.CORSOrigins,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}
			if addr != "" {
				scfg.Addr = addr
			}

			printInfo("Serving %s source on %s", source.Name(), scfg.Addr)
			return server.New(runner, scfg, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&src, "source", "", "dataset source: remote, mongo (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
