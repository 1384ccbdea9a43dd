// Package fonts loads the poster typeface and measures text with it.
//
// A [Table] holds the parsed OpenType data for every weight. It is built once
// at startup by [Load] from a [Source] and never changes afterwards, so any
// number of requests may share it. Each request takes its own [Measurer],
// which owns the sized faces it creates and is not shared.
//
//	table, err := fonts.Load(ctx, fonts.EmbeddedSource{})
//	planner := layout.NewPlanner(table)
//	result := planner.Plan(input)
package fonts

import (
	"context"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
)

// DPI is fixed at 72 so that a face's size is its pixel size.
const DPI = 72

// Table is an immutable set of parsed font weights.
type Table struct {
	fonts    map[layout.Font]*opentype.Font
	fallback *opentype.Font
}

// Load fetches and parses the given weights concurrently. With no weights it
// loads all of [layout.Fonts]. Any failure fails the whole load.
func Load(ctx context.Context, src Source, weights ...layout.Font) (*Table, error) {
	if len(weights) == 0 {
		weights = layout.Fonts
	}

	parsed := make([]*opentype.Font, len(weights))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range weights {
		g.Go(func() error {
			data, err := src.Load(gctx, w)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeFontUnavailable, err, "load %s font", w)
			}
			f, err := opentype.Parse(data)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeFontUnavailable, err, "parse %s font", w)
			}
			parsed[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := &Table{fonts: make(map[layout.Font]*opentype.Font, len(weights))}
	for i, w := range weights {
		t.fonts[w] = parsed[i]
	}
	t.fallback = t.fonts[layout.FontRegular]
	if t.fallback == nil {
		t.fallback = parsed[0]
	}
	return t, nil
}

// Has reports whether weight was loaded.
func (t *Table) Has(weight layout.Font) bool {
	_, ok := t.fonts[weight]
	return ok
}

// lookup returns weight, or the regular weight when it was not loaded.
func (t *Table) lookup(weight layout.Font) *opentype.Font {
	if f, ok := t.fonts[weight]; ok {
		return f
	}
	return t.fallback
}

// Face creates a face for weight at size pixels. The caller closes it.
func (t *Table) Face(weight layout.Font, size int) (font.Face, error) {
	face, err := opentype.NewFace(t.lookup(weight), &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFontUnavailable, err, "%s face at %dpx", weight, size)
	}
	return face, nil
}

// NewMeasurer implements layout.MeasurerSource.
func (t *Table) NewMeasurer() layout.TextMeasurer { return t.Measurer() }

// Measurer returns a fresh per-request measurer.
func (t *Table) Measurer() *Measurer {
	return &Measurer{table: t, faces: make(map[faceKey]font.Face)}
}

type faceKey struct {
	weight layout.Font
	size   int
}

// Measurer measures text and hands out faces for drawing, creating each
// (weight, size) face once. It is not safe for concurrent use.
type Measurer struct {
	table *Table
	faces map[faceKey]font.Face
}

// Face returns the cached face for weight at size.
func (m *Measurer) Face(weight layout.Font, size int) (font.Face, error) {
	k := faceKey{weight, size}
	if f, ok := m.faces[k]; ok {
		return f, nil
	}
	f, err := m.table.Face(weight, size)
	if err != nil {
		return nil, err
	}
	m.faces[k] = f
	return f, nil
}

// Measure returns the advance width of text and the ascent of the face.
// A face that cannot be built measures as zero.
func (m *Measurer) Measure(text string, weight layout.Font, size int) layout.Extent {
	face, err := m.Face(weight, size)
	if err != nil {
		return layout.Extent{}
	}
	return layout.Extent{
		Width:  toFloat(font.MeasureString(face, text)),
		Height: toFloat(face.Metrics().Ascent),
	}
}

// Close releases every face the measurer created.
func (m *Measurer) Close() error {
	for k, f := range m.faces {
		f.Close()
		delete(m.faces, k)
	}
	return nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
