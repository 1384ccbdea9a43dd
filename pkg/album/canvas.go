package album

import (
	"strconv"
	"strings"

	"github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
)

// Limits bounds the canvas a request may produce.
type Limits struct {
	// MaxWidth caps the width computed from the artwork.
	MaxWidth int
	// MaxResolution caps either side of an explicit "WxH".
	MaxResolution int
}

// ParseResolution parses a "WxH" string such as "1440x1920". Both sides must
// be positive and no larger than limit; limit <= 0 disables the bound.
func ParseResolution(s string, limit int) (layout.CanvasSpec, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return layout.CanvasSpec{}, errors.New(errors.ErrCodeInvalidResolution, "invalid resolution %q: want WxH", s)
	}
	w, werr := strconv.Atoi(strings.TrimSpace(ws))
	h, herr := strconv.Atoi(strings.TrimSpace(hs))
	if werr != nil || herr != nil {
		return layout.CanvasSpec{}, errors.New(errors.ErrCodeInvalidResolution, "invalid resolution %q: want WxH", s)
	}
	if w <= 0 || h <= 0 {
		return layout.CanvasSpec{}, errors.New(errors.ErrCodeInvalidResolution, "resolution %q must be positive", s)
	}
	if limit > 0 && (w > limit || h > limit) {
		return layout.CanvasSpec{}, errors.New(errors.ErrCodeInvalidResolution, "resolution %q exceeds %dx%d", s, limit, limit)
	}
	return layout.CanvasSpec{Width: w, Height: h}, nil
}

// ComputedCanvas derives a 3:4 canvas from the artwork width: the width is
// the artwork width plus a fifth, capped at maxWidth. An unknown artwork
// width yields the reference canvas.
func ComputedCanvas(artworkWidth, maxWidth int) layout.CanvasSpec {
	if artworkWidth <= 0 {
		w := int(layout.ReferenceWidth)
		return layout.CanvasSpec{Width: w, Height: w * 4 / 3}
	}
	if maxWidth > 0 && artworkWidth*6 > maxWidth*5 {
		return layout.CanvasSpec{Width: maxWidth, Height: maxWidth * 4 / 3}
	}
	return layout.CanvasSpec{Width: artworkWidth * 6 / 5, Height: artworkWidth * 8 / 5}
}

// CanvasFor returns the explicit resolution when one is given and the
// computed canvas otherwise.
func CanvasFor(resolution string, artworkWidth int, lim Limits) (layout.CanvasSpec, error) {
	if strings.TrimSpace(resolution) != "" {
		return ParseResolution(resolution, lim.MaxResolution)
	}
	return ComputedCanvas(artworkWidth, lim.MaxWidth), nil
}

// Canvas is CanvasFor applied to the request's resolution field.
func (r Request) Canvas(artworkWidth int, lim Limits) (layout.CanvasSpec, error) {
	return CanvasFor(r.Resolution, artworkWidth, lim)
}
