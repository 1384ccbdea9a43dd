// Package pipeline turns an album request into a poster.
//
// It strings together the stages around the layout engine so that the CLI
// and the HTTP service behave identically:
//
//  1. Validate the request
//  2. Fetch the artwork (cached) and decode it
//  3. Choose the canvas and extract the dominant colors
//  4. Plan the layout
//  5. Render and encode the poster (cached)
//
// Create one Runner at startup and share it:
//
//	runner := pipeline.NewRunner(table, c, nil, logger)
//	result, err := runner.Execute(ctx, req, pipeline.Options{Format: sink.FormatPNG})
//	os.WriteFile("poster.png", result.Poster, 0o644)
//
// [Runner.Layout] stops after step 4 and returns the geometry only.
package pipeline

import (
	"time"

	"github.com/matzehuels/albumposter/pkg/album"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
	"github.com/matzehuels/albumposter/pkg/poster/sink"
)

// Default settings, matching the service configuration defaults.
const (
	DefaultMaxWidth      = 1440
	DefaultMaxResolution = 4096
	DefaultJPEGQuality   = 100
	DefaultArtworkTTL    = 24 * time.Hour
	DefaultPosterTTL     = time.Hour
)

// Settings are the runner-wide limits and cache lifetimes.
type Settings struct {
	Limits      album.Limits
	JPEGQuality int
	ArtworkTTL  time.Duration
	PosterTTL   time.Duration
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Limits:      album.Limits{MaxWidth: DefaultMaxWidth, MaxResolution: DefaultMaxResolution},
		JPEGQuality: DefaultJPEGQuality,
		ArtworkTTL:  DefaultArtworkTTL,
		PosterTTL:   DefaultPosterTTL,
	}
}

// Options are per-call options.
type Options struct {
	// Format of the encoded poster. Empty means JPEG.
	Format sink.Format
	// Refresh skips cached layouts and posters; the artwork cache is still
	// used.
	Refresh bool
}

// Result is the outcome of one run.
type Result struct {
	// RequestHash identifies the request in cache keys.
	RequestHash string

	// Layout is the planned geometry. It is zero when Execute served the
	// poster from cache.
	Layout layout.Result

	// Poster holds the encoded image; empty for Layout calls.
	Poster []byte
	Format sink.Format

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and stage timings.
type Stats struct {
	ArtworkBytes int
	PosterBytes  int
	FetchTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	ArtworkHit bool
	LayoutHit  bool
	PosterHit  bool
}
