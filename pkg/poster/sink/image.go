package sink

import (
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	apperrors "github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
)

// FaceSource hands out sized faces for drawing.
type FaceSource interface {
	Face(weight layout.Font, size int) (font.Face, error)
}

var (
	background = color.White
	ink        = color.Black
)

// RenderImage draws res. A nil artwork leaves the artwork box empty.
func RenderImage(res layout.Result, artwork image.Image, faces FaceSource) (image.Image, error) {
	if res.Canvas.Width <= 0 || res.Canvas.Height <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidResolution, "canvas %dx%d", res.Canvas.Width, res.Canvas.Height)
	}
	dc := gg.NewContext(res.Canvas.Width, res.Canvas.Height)
	dc.SetColor(background)
	dc.Clear()

	if artwork != nil && res.Artwork.W >= 1 && res.Artwork.H >= 1 {
		thumb := imaging.Fit(artwork, int(res.Artwork.W), int(res.Artwork.H), imaging.Lanczos)
		dc.DrawImage(thumb, int(math.Round(res.Artwork.X)), int(math.Round(res.Artwork.Y)))
	}

	for _, s := range res.Swatches {
		fillRect(dc, s.Rect, s.Color)
	}

	blocks := []layout.TextBlock{res.Title, res.Artist, res.Year}
	if res.Copyright != nil {
		blocks = append(blocks, *res.Copyright)
	}
	for _, b := range blocks {
		if err := drawBlock(dc, faces, b); err != nil {
			return nil, err
		}
	}

	fillRect(dc, res.Divider, ink)

	if err := drawGrid(dc, faces, res.Tracks); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func fillRect(dc *gg.Context, r layout.Rect, c color.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	dc.SetColor(c)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Fill()
}

func drawBlock(dc *gg.Context, faces FaceSource, b layout.TextBlock) error {
	if len(b.Lines) == 0 || b.Size <= 0 {
		return nil
	}
	face, err := faces.Face(b.Font, b.Size)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(ink)
	ax := anchorX(b.Align)
	for i, line := range b.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := b.LineOrigin(i)
		dc.DrawStringAnchored(line, p.X, p.Y, ax, 0)
	}
	return nil
}

func drawGrid(dc *gg.Context, faces FaceSource, g layout.TrackGridLayout) error {
	if len(g.Cells) == 0 {
		return nil
	}
	face, err := faces.Face(g.Font, g.FontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(ink)
	for _, c := range g.Cells {
		dc.DrawStringAnchored(c.Display, c.NameOrigin.X, c.NameOrigin.Y, 0, 0)
		dc.DrawStringAnchored(c.Duration, c.DurationOrigin.X, c.DurationOrigin.Y, 1, 0)
	}
	return nil
}

// anchorX maps an alignment to gg's horizontal anchor fraction.
func anchorX(a layout.Align) float64 {
	switch a {
	case layout.AlignCenter:
		return 0.5
	case layout.AlignRight:
		return 1
	default:
		return 0
	}
}

// Format is an encoded image format.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// ParseFormat accepts "jpeg", "jpg" and "png" in any case. Empty means JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// Ext returns the file extension of f without a dot.
func (f Format) Ext() string {
	if f == FormatPNG {
		return "png"
	}
	return "jpg"
}

// Encode writes img to w. Quality applies to JPEG only and is clamped to
// 1..100.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	var err error
	switch f {
	case FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG, "":
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(min(max(quality, 1), 100)))
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q", string(f))
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode %s", string(f))
	}
	return nil
}
