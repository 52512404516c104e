// Package cli implements the dressup command-line interface.
//
// # Commands
//
//   - catalog: list categories and items
//   - scan: print the landmarks detected in a base image
//   - encode, decode: convert between selections and outfit codes
//   - plan: print the layer plan for an outfit as JSON
//   - render: composite an outfit to PNG
//   - serve: run the HTTP API
//   - cache: manage the persistent landmark cache
//
// Outfits are chosen with one flag per category (--hair, --up, ...) taking a
// catalog url or label, optionally on top of --code.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context and handed to the pipeline session.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/internal/config"
	"github.com/matzehuels/dressup/pkg/buildinfo"
	"github.com/matzehuels/dressup/pkg/cache"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "dressup"

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

	// Out receives machine-readable output: codes, JSON plans, paths.
	Out io.Writer

	configPath string
	assetsRoot string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// Fail reports err on stderr and returns the process exit status: 130 when
// the command was interrupted, 2 for invalid input and 1 otherwise.
func (c *CLI) Fail(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return 130
	}
	c.Logger.Debug("command failed", "code", errors.GetCode(err), "err", err)
	fmt.Fprintln(os.Stderr, styleIconError.Render(iconError)+" "+errors.UserMessage(err))
	if errors.IsInvalid(err) {
		return 2
	}
	return 1
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Dressup composes layered character outfits",
		Long:          `Dressup positions garment images on a base character using landmarks detected from the character's alpha channel, and packs outfits into compact numeric codes.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dressup/config.toml)")
	root.PersistentFlags().StringVar(&c.assetsRoot, "assets", "", "asset root directory or base URL (overrides config)")

	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process. The --assets flag wins
// over the file and the environment.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.assetsRoot != "" {
		cfg.AssetsRoot = c.assetsRoot
		cfg.Catalog = ""
	}
	c.Logger.Debug("loaded config", "assets", cfg.AssetsRoot, "catalog", cfg.CatalogSource(), "cache", cfg.Cache.Backend)
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Planner Factory
// =============================================================================

// plannerOpts are the flags shared by commands that build a plan.
type plannerOpts struct {
	width   int
	height  int
	noCache bool
	refresh bool
}

func (o *plannerOpts) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&o.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the persistent landmark cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached landmarks and sizes")
}

// newPlanner wires a session and planner from the configuration.
// The returned session must be closed by the caller.
func (c *CLI) newPlanner(ctx context.Context, o plannerOpts) (*pipeline.Planner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if o.width > 0 {
		cfg.Viewport.Width = o.width
	}
	if o.height > 0 {
		cfg.Viewport.Height = o.height
	}
	opts, err := cfg.PlannerOptions()
	if err != nil {
		return nil, err
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		return nil, err
	}

	store, err := c.openCache(ctx, cfg, o.noCache)
	if err != nil {
		return nil, err
	}

	sessOpts := []pipeline.SessionOption{
		pipeline.WithCache(store),
		pipeline.WithKeyer(cfg.Keyer()),
		pipeline.WithLogger(loggerFromContext(ctx)),
		pipeline.WithTTL(cfg.Cache.TTL.Duration),
	}
	if o.refresh {
		sessOpts = append(sessOpts, pipeline.WithRefresh())
	}
	sess := pipeline.NewSession(cat, cfg.Fetcher(), sessOpts...)
	return pipeline.NewPlanner(sess, opts), nil
}

// openCache opens the configured backend. An unreachable backend degrades
// to no caching with a warning.
func (c *CLI) openCache(ctx context.Context, cfg config.Config, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	store, err := cfg.OpenCache(ctx)
	if err != nil {
		loggerFromContext(ctx).Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}
