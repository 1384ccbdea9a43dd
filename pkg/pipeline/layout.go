package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/matzehuels/albumposter/pkg/album"
	"github.com/matzehuels/albumposter/pkg/observability"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
	"github.com/matzehuels/albumposter/pkg/poster/palette"
)

// plan picks the canvas for img and runs the layout engine.
func (r *Runner) plan(ctx context.Context, req album.Request, img image.Image, res *Result) error {
	b := img.Bounds()
	canvas, err := req.Canvas(b.Dx(), r.Settings.Limits)
	if err != nil {
		return err
	}

	in := layout.Input{
		Canvas:        canvas,
		ArtworkWidth:  b.Dx(),
		ArtworkHeight: b.Dy(),
		Title:         req.Name,
		Artist:        req.Artist,
		Year:          req.Year.String(),
		Copyright:     req.Copyright,
		Tracks:        req.Entries(),
		Swatches:      palette.Dominant(img, layout.MaxSwatches),
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(in.Tracks))
	start := time.Now()
	res.Layout = r.Planner.Plan(in)
	res.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, res.Layout.Tracks.FontSize, res.Stats.LayoutTime, nil)

	grid := res.Layout.Tracks
	r.Logger.Info("planned layout",
		"canvas", fmt.Sprintf("%dx%d", canvas.Width, canvas.Height),
		"tracks", len(grid.Cells),
		"rows", grid.Rows,
		"columns", grid.Columns,
		"font_size", grid.FontSize,
		"fits", grid.Fits,
		"duration", res.Stats.LayoutTime)
	return nil
}

// Layout validates req, fetches its artwork and plans the poster without
// rendering it. Layouts are cached by request.
func (r *Runner) Layout(ctx context.Context, req album.Request, opts Options) (*Result, error) {
	res, err := r.begin(req)
	if err != nil {
		return nil, err
	}

	key := r.Keyer.LayoutKey(res.RequestHash, r.layoutKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				res.Layout = cached
				res.CacheInfo.LayoutHit = true
				return res, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	img, err := r.loadArtwork(ctx, album.NormalizeArtworkURL(req.Artwork), res)
	if err != nil {
		return nil, err
	}
	if err := r.plan(ctx, req, img, res); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	if data, err := json.Marshal(res.Layout); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.Settings.PosterTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, nil
}
