package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geco/pkg/buildinfo"
	"github.com/matzehuels/geco/pkg/cache"
	"github.com/matzehuels/geco/pkg/config"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/pipeline"
	"github.com/matzehuels/geco/pkg/source"
	"github.com/matzehuels/geco/pkg/source/mongo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "geco"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is set by the --config flag; empty selects the default
	// location.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "GeCo draws comparative genomic context diagrams",
		Long: `GeCo lays out the genomic neighborhoods of a set of central genes as
aligned synteny rows, colors every gene by its functional annotation and
renders the result as SVG, PNG or a JSON draw-list.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.categoriesCommand())
	root.AddCommand(c.levelsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration file once per CLI.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The returned cleanup
// closes the runner and the source.
func (c *CLI) newRunner(ctx context.Context, in *inputFlags, noCache bool) (*pipeline.Runner, func(), error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}
	cc := c.newCache(ctx, cfg, noCache)
	src, closeSrc, err := c.newSource(ctx, cfg, in, cc)
	if err != nil {
		cc.Close()
		return nil, nil, err
	}
	runner := pipeline.NewRunner(cc, nil, src, c.Logger)
	return runner, func() {
		closeSrc()
		runner.Close()
	}, nil
}

// newCache opens the configured backend. An unusable backend degrades to
// no caching.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cc, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return cc
}

// newSource selects where datasets come from: a local file when one is
// given, else the configured backend.
func (c *CLI) newSource(ctx context.Context, cfg *config.Config, in *inputFlags, cc cache.Cache) (source.Source, func(), error) {
	nop := func() {}
	if in != nil && in.dataset != "" {
		return in.localSource(c.Logger), nop, nil
	}

	kind := cfg.Backend.Source
	if in != nil && in.source != "" {
		kind = in.source
	}
	switch kind {
	case config.SourceMongo:
		m, err := mongo.Open(ctx, mongo.Options{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
			Trees:      cfg.Mongo.Trees,
			Labels:     cfg.Mongo.Labels,
			Timeout:    cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		m.Logger = c.Logger
		return m, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = m.Close(closeCtx)
		}, nil
	default:
		return source.NewRemote(newClient(cfg, cc)), nop, nil
	}
}

// newClient builds the REST client of the configured backend.
func newClient(cfg *config.Config, cc cache.Cache) *fetch.Client {
	return fetch.NewClient(cfg.Backend.URL,
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
		fetch.WithCache(cc, cfg.Cache.TTL),
		fetch.WithRetry(cfg.Backend.Retries, time.Second),
	)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory of the configuration, falling
// back to the XDG standard (~/.cache/geco/).
func (c *CLI) cacheDir() (string, error) {
	if cfg, err := c.config(); err == nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
