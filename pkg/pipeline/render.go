package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/matzehuels/albumposter/pkg/album"
	"github.com/matzehuels/albumposter/pkg/observability"
	"github.com/matzehuels/albumposter/pkg/poster/sink"
)

// render draws res.Layout over img and encodes it in format.
func (r *Runner) render(ctx context.Context, img image.Image, format sink.Format, res *Result) (err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(format))
	start := time.Now()
	defer func() {
		res.Stats.RenderTime = time.Since(start)
		hooks.OnRenderComplete(ctx, string(format), len(res.Poster), res.Stats.RenderTime, err)
	}()

	m := r.Fonts.Measurer()
	defer m.Close()

	poster, err := sink.RenderImage(res.Layout, img, m)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := sink.Encode(&buf, poster, format, r.Settings.JPEGQuality); err != nil {
		return err
	}
	res.Poster = buf.Bytes()
	res.Format = format
	res.Stats.PosterBytes = buf.Len()
	return nil
}

// Execute runs the whole pipeline and returns the encoded poster. Posters
// are cached by request, format and limits.
func (r *Runner) Execute(ctx context.Context, req album.Request, opts Options) (*Result, error) {
	format, err := sink.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	res, err := r.begin(req)
	if err != nil {
		return nil, err
	}
	res.Format = format

	key := r.Keyer.PosterKey(res.RequestHash, r.posterKeyOpts(string(format)))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "poster")
			res.Poster = data
			res.Stats.PosterBytes = len(data)
			res.CacheInfo.PosterHit = true
			r.Logger.Debug("poster served from cache", "request", res.RequestHash[:12])
			return res, nil
		}
		observability.Cache().OnCacheMiss(ctx, "poster")
	}

	img, err := r.loadArtwork(ctx, album.NormalizeArtworkURL(req.Artwork), res)
	if err != nil {
		return nil, err
	}
	if err := r.plan(ctx, req, img, res); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if err := r.render(ctx, img, format, res); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	r.Logger.Info("rendered poster",
		"format", format,
		"bytes", res.Stats.PosterBytes,
		"duration", res.Stats.RenderTime)

	if err := r.Cache.Set(ctx, key, res.Poster, r.Settings.PosterTTL); err != nil {
		r.Logger.Warn("poster cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "poster", len(res.Poster))
	}
	return res, nil
}
