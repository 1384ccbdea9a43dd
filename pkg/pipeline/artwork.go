package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the WebP decoder

	apperrors "github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/observability"
)

// fetchArtwork downloads url through the artwork cache.
func (r *Runner) fetchArtwork(ctx context.Context, url string) ([]byte, bool, error) {
	key := r.Keyer.ArtworkKey(url)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artwork")
		return data, true, nil
	} else if err != nil {
		r.Logger.Warn("artwork cache read failed", "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, "artwork")

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, url)
	start := time.Now()
	data, err := r.Fetcher.Get(ctx, url)
	hooks.OnFetchComplete(ctx, url, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.Settings.ArtworkTTL); err != nil {
		r.Logger.Warn("artwork cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artwork", len(data))
	}
	return data, false, nil
}

// decodeArtwork decodes JPEG, PNG, GIF or WebP data, honoring EXIF
// orientation.
func decodeArtwork(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidArtwork, err, "artwork is not a supported image")
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArtwork, "artwork is empty")
	}
	return img, nil
}

// loadArtwork fetches and decodes the artwork at url.
func (r *Runner) loadArtwork(ctx context.Context, url string, res *Result) (image.Image, error) {
	start := time.Now()
	data, hit, err := r.fetchArtwork(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: %w", err)
	}
	img, err := decodeArtwork(data)
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}
	res.Stats.ArtworkBytes = len(data)
	res.Stats.FetchTime = time.Since(start)
	res.CacheInfo.ArtworkHit = hit

	r.Logger.Debug("loaded artwork",
		"url", url,
		"bytes", len(data),
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"cached", hit,
		"duration", res.Stats.FetchTime)
	return img, nil
}
