package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/albumposter/pkg/album"
	"github.com/matzehuels/albumposter/pkg/cache"
	"github.com/matzehuels/albumposter/pkg/fonts"
	"github.com/matzehuels/albumposter/pkg/httputil"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-request state; any number of goroutines may call
// Execute and Layout concurrently. Fields may be replaced after NewRunner
// and before first use.
type Runner struct {
	Fonts    *fonts.Table
	Planner  *layout.Planner
	Fetcher  *httputil.Client
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Settings Settings
}

// NewRunner creates a runner drawing with table.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(table *fonts.Table, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Fonts:    table,
		Planner:  layout.NewPlanner(table),
		Fetcher:  httputil.NewClient(httputil.Options{}),
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Settings: DefaultSettings(),
	}
}

// begin validates req and starts its result.
func (r *Runner) begin(req album.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := cache.HashJSON(req)
	if err != nil {
		return nil, err
	}
	return &Result{RequestHash: hash}, nil
}

func (r *Runner) layoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxWidth:      r.Settings.Limits.MaxWidth,
		MaxResolution: r.Settings.Limits.MaxResolution,
	}
}

func (r *Runner) posterKeyOpts(format string) cache.PosterKeyOpts {
	return cache.PosterKeyOpts{
		MaxWidth:      r.Settings.Limits.MaxWidth,
		MaxResolution: r.Settings.Limits.MaxResolution,
		Format:        format,
		Quality:       r.Settings.JPEGQuality,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
