// Package cli implements the albumposter command-line interface.
//
// The CLI renders posters from request files, prints planned layouts as
// JSON, runs the HTTP service and manages the local cache. Settings come
// from the TOML config (--config), ALBUMPOSTER_* variables and flags, in
// that order.
//
// # Commands
//
//   - serve: Run the HTTP service
//   - render: Render request files to JPEG or PNG posters
//   - layout: Print the planned layout of a request as JSON
//   - cache: Inspect and clear the file cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/albumposter/pkg/buildinfo"
	"github.com/matzehuels/albumposter/pkg/cache"
	"github.com/matzehuels/albumposter/pkg/config"
	"github.com/matzehuels/albumposter/pkg/fonts"
	"github.com/matzehuels/albumposter/pkg/httputil"
	"github.com/matzehuels/albumposter/pkg/observability"
	"github.com/matzehuels/albumposter/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for the root command and display.
const appName = "albumposter"

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

	configPath string
	noCache    bool
	verbose    bool
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
		Use:          appName,
		Short:        "Albumposter renders minimalist album posters",
		Long:         `Albumposter lays out an album's artwork, title, color palette and tracklist on a poster and renders it as JPEG or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.UseLogger(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+config.DefaultPath+" if present)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file, applies the environment and lets mutate
// apply flag overrides before validation.
func (c *CLI) loadConfig(mutate func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, fmt.Errorf("environment: %w", err)
	}
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner loads the fonts, opens the cache and wires a pipeline runner
// from cfg. The caller closes the runner.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	client := httputil.NewClient(httputil.Options{
		Timeout:   cfg.Fetch.Timeout.D(),
		Attempts:  cfg.Fetch.Attempts,
		UserAgent: cfg.Fetch.UserAgent,
	})

	prog := newProgress(c.Logger)
	table, err := fonts.Load(ctx, fonts.SourceFor(cfg.Fonts.Dir, cfg.Fonts.BaseURL, cfg.Fonts.Extension, client))
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	prog.debug("Loaded fonts")

	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer
	if cfg.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.KeyPrefix)
	}

	runner := pipeline.NewRunner(table, store, keyer, c.Logger)
	runner.Fetcher = client
	runner.Settings = settingsFrom(cfg)
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, cfg.Cache.Options())
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("cache ready", "backend", cfg.Cache.Backend)
	return store, nil
}

func settingsFrom(cfg config.Config) pipeline.Settings {
	s := pipeline.DefaultSettings()
	s.Limits.MaxWidth = cfg.Render.MaxWidth
	s.Limits.MaxResolution = cfg.Render.MaxResolution
	s.JPEGQuality = cfg.Render.JPEGQuality
	s.ArtworkTTL = cfg.Cache.ArtworkTTL.D()
	s.PosterTTL = cfg.Cache.PosterTTL.D()
	return s
}
