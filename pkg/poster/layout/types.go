package layout

import "image/color"

// Font identifies one weight of the poster typeface.
type Font string

// The eight weights a font table is expected to provide.
const (
	FontThin      Font = "thin"
	FontVeryLight Font = "verylight"
	FontLight     Font = "light"
	FontRegular   Font = "regular"
	FontMedium    Font = "medium"
	FontSemibold  Font = "semibold"
	FontBold      Font = "bold"
	FontVeryBold  Font = "verybold"
)

// Fonts lists every weight in ascending order of stroke weight.
var Fonts = []Font{
	FontThin, FontVeryLight, FontLight, FontRegular,
	FontMedium, FontSemibold, FontBold, FontVeryBold,
}

// Align is the horizontal alignment of a text anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the lowercase alignment name.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in canvas pixels; Y grows downward.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// CanvasSpec is the pixel size of the poster.
type CanvasSpec struct {
	Width, Height int
}

// TextBlock is a run of lines set in one font at one size.
//
// Origin is the baseline anchor of the first line; Align says which point of
// the line sits on Origin.X. Subsequent lines sit LineAdvance below the
// previous baseline.
type TextBlock struct {
	Lines       []string
	Font        Font
	Size        int
	Origin      Point
	Align       Align
	LineAdvance float64
}

// LineOrigin returns the baseline anchor of line i.
func (b TextBlock) LineOrigin(i int) Point {
	return Point{X: b.Origin.X, Y: b.Origin.Y + float64(i)*b.LineAdvance}
}

// LastBaseline returns the Y of the last line's baseline, or Origin.Y for an
// empty block.
func (b TextBlock) LastBaseline() float64 {
	if len(b.Lines) == 0 {
		return b.Origin.Y
	}
	return b.LineOrigin(len(b.Lines) - 1).Y
}

// TrackEntry is one row of the track list.
type TrackEntry struct {
	Name           string
	DurationMillis int64
}

// Duration returns the track length formatted as M:SS.
func (e TrackEntry) Duration() string { return FormatDuration(e.DurationMillis) }

// GridCell places one track entry in the grid.
type GridCell struct {
	Index  int
	Row    int
	Column int

	// Name is the full track name; Display is what gets drawn.
	Name      string
	Display   string
	Truncated bool
	Duration  string

	// NameOrigin is a left baseline anchor; DurationOrigin is a right
	// baseline anchor.
	NameOrigin     Point
	DurationOrigin Point
}

// TrackGridLayout is the planned arrangement of the track list.
//
// Columns always equals ceil(len(Cells) / Rows) when Rows > 0. Fits is false
// when the search bottomed out at the minimum size without satisfying the
// column-width check; truncation then absorbs the overflow.
type TrackGridLayout struct {
	Rows        int
	Columns     int
	Font        Font
	FontSize    int
	ColumnWidth float64
	LineHeight  float64
	Region      Rect
	Fits        bool
	Cells       []GridCell
}

// Swatch is one square of the dominant-color strip.
type Swatch struct {
	Color color.RGBA
	Rect  Rect
}

// Result is the complete, renderer-ready description of one poster.
type Result struct {
	Canvas    CanvasSpec
	Artwork   Rect
	Title     TextBlock
	Artist    TextBlock
	Year      TextBlock
	Divider   Rect
	Swatches  []Swatch
	Tracks    TrackGridLayout
	Copyright *TextBlock
}
