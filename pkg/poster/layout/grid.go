package layout

import (
	"math"
	"strings"
	"unicode"
)

// Ellipsis is appended to truncated track names.
const Ellipsis = "…"

// durationProbe is the widest duration the column check reserves room for.
const durationProbe = "00:00"

// GridOptions bounds the track grid search.
type GridOptions struct {
	MaxSize int
	MinSize int

	// RowGap is added to the font ascent to get the row pitch.
	RowGap float64
	// NameGap separates a name from its duration; Gutter separates a
	// duration from the next column.
	NameGap float64
	Gutter  float64
}

func (o GridOptions) fixedGap() float64 { return o.NameGap + o.Gutter }

// gridShape is the geometry implied by one candidate font size.
type gridShape struct {
	lineHeight  float64
	ascent      float64
	rows        int
	columns     int
	columnWidth float64
	fits        bool
}

// PlanTrackGrid folds entries into columns inside region, largest font first.
//
// For each candidate size the row pitch fixes how many rows fit the region
// height; the column count follows as ceil(N/rows) and splits the region
// width evenly. The size is accepted when the widest name plus a "00:00"
// duration plus the fixed gaps fits one column. If no size qualifies the
// minimum size is used anyway and names that still overflow are truncated
// with an [Ellipsis].
//
// Entries run top to bottom within a column, then left to right. An empty
// list yields zero rows and columns.
func PlanTrackGrid(m TextMeasurer, font Font, entries []TrackEntry, region Rect, opts GridOptions) TrackGridLayout {
	g := TrackGridLayout{Font: font, FontSize: max(opts.MaxSize, 1), Region: region}
	if len(entries) == 0 {
		g.Fits = true
		return g
	}

	sizes := Descending(opts.MaxSize, opts.MinSize)
	size := FitLargestSize(sizes, func(size int) bool {
		return shapeAt(m, font, entries, region, opts, size).fits
	})
	shape := shapeAt(m, font, entries, region, opts, size)
	if shape.rows == 0 {
		// No row fits even at the floor; stack everything in one row.
		shape.rows = 1
		shape.columns = len(entries)
		shape.columnWidth = region.W / float64(shape.columns)
	}

	g.FontSize = size
	g.Rows = shape.rows
	g.Columns = shape.columns
	g.ColumnWidth = shape.columnWidth
	g.LineHeight = shape.lineHeight
	g.Fits = shape.fits
	g.Cells = placeCells(entries, WidthOf(m, font, size), region, shape, opts)
	return g
}

func shapeAt(m TextMeasurer, font Font, entries []TrackEntry, region Rect, opts GridOptions, size int) gridShape {
	s := gridShape{ascent: Ascent(m, font, size)}
	s.lineHeight = s.ascent + opts.RowGap
	if s.lineHeight <= 0 {
		return s
	}
	s.rows = int(math.Floor(region.H / s.lineHeight))
	if s.rows <= 0 {
		s.rows = 0
		return s
	}
	s.columns = (len(entries) + s.rows - 1) / s.rows
	s.columnWidth = region.W / float64(s.columns)

	width := WidthOf(m, font, size)
	widest := 0.0
	for _, e := range entries {
		widest = max(widest, width(e.Name))
	}
	s.fits = widest+width(durationProbe)+opts.fixedGap() <= s.columnWidth
	return s
}

func placeCells(entries []TrackEntry, width WidthFunc, region Rect, s gridShape, opts GridOptions) []GridCell {
	cells := make([]GridCell, len(entries))
	for i, e := range entries {
		col, row := i/s.rows, i%s.rows
		x := region.X + float64(col)*s.columnWidth
		y := region.Y + s.ascent + float64(row)*s.lineHeight

		dur := e.Duration()
		budget := s.columnWidth - width(dur) - opts.fixedGap()
		display, truncated := Truncate(e.Name, width, budget)

		cells[i] = GridCell{
			Index:          i,
			Row:            row,
			Column:         col,
			Name:           e.Name,
			Display:        display,
			Truncated:      truncated,
			Duration:       dur,
			NameOrigin:     Point{X: x, Y: y},
			DurationOrigin: Point{X: x + s.columnWidth - opts.Gutter, Y: y},
		}
	}
	return cells
}

// Truncate shortens name one character at a time from the end, appending an
// [Ellipsis], until the result fits budget. Trailing spaces before the
// ellipsis are dropped. If nothing but the ellipsis remains, the ellipsis
// alone is returned. The boolean reports whether any truncation happened.
func Truncate(name string, width WidthFunc, budget float64) (string, bool) {
	if width(name) <= budget {
		return name, false
	}
	runes := []rune(name)
	for n := len(runes) - 1; n > 0; n-- {
		kept := strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace)
		if kept == "" {
			break
		}
		if candidate := kept + Ellipsis; width(candidate) <= budget {
			return candidate, true
		}
	}
	return Ellipsis, true
}
