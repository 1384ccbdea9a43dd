package layout

import (
	"image/color"
	"io"
	"math"
)

// MaxSwatches is the most color swatches drawn beside the title.
const MaxSwatches = 5

// Reference geometry, in units of a 720-wide poster.
const (
	refMargin      = 60.0
	refContentEnd  = 660.0
	refArtworkTop  = 60.0
	refArtworkPad  = 120.0
	refTitleGap    = 35.0
	refLineSpacing = 5.0
	refArtistGap   = 30.0
	refDividerGap  = 15.0
	refDividerH    = 5.0
	refGridGap     = 20.0
	refBottomPad   = 20.0
	refCopyrightY  = 10.0
	refSwatch      = 30.0
	refYearGap     = 10.0

	refRowGap  = 8.0
	refNameGap = 15.0
	refGutter  = 15.0
)

// Font size ranges, largest first, in reference units.
const (
	titleSizeMax     = 35.0
	titleSizeMin     = 22.0
	titleMaxLines    = 3
	artistSizeMax    = 20.0
	artistSizeMin    = 14.0
	trackSizeMax     = 17.0
	trackSizeMin     = 6.0
	copyrightSizeMax = 10.0
	copyrightSizeMin = 6.0
)

// Input is everything the planner needs for one poster.
type Input struct {
	Canvas CanvasSpec

	// ArtworkWidth and ArtworkHeight are the decoded artwork's pixel size.
	// Zero means unknown and is treated as a square.
	ArtworkWidth  int
	ArtworkHeight int

	Title     string
	Artist    string
	Year      string
	Copyright string
	Tracks    []TrackEntry

	// Swatches are the artwork's dominant colors, most prominent first.
	// Only the first MaxSwatches are used.
	Swatches []color.RGBA
}

// Planner turns an [Input] into a [Result]. It holds no per-request state
// and is safe for concurrent use when its MeasurerSource is.
type Planner struct {
	fonts MeasurerSource
}

// NewPlanner creates a Planner measuring text with fonts from src.
func NewPlanner(src MeasurerSource) *Planner {
	return &Planner{fonts: src}
}

// Plan computes the poster layout. It never fails.
func (p *Planner) Plan(in Input) Result {
	m := p.fonts.NewMeasurer()
	if c, ok := m.(io.Closer); ok {
		defer c.Close()
	}
	s := NewScaler(in.Canvas)
	left, right := s.Len(refMargin), s.Len(refContentEnd)
	full := right - left

	res := Result{Canvas: in.Canvas}
	res.Artwork = placeArtwork(in, s)

	titleY := res.Artwork.Bottom() + s.Len(refTitleGap)
	res.Swatches = placeSwatches(in.Swatches, right, titleY, s.Len(refSwatch))
	reserved := float64(len(res.Swatches)) * s.Len(refSwatch)
	res.Title = planTitle(m, s, in.Title, Point{X: left, Y: titleY}, full-reserved, full)

	artistY := res.Title.LastBaseline() + s.Len(refArtistGap)
	res.Artist, res.Year = planArtistYear(m, s, in.Artist, in.Year, left, right, artistY)

	dividerY := res.Year.Origin.Y + s.Len(refDividerGap)
	res.Divider = Rect{X: left, Y: dividerY, W: full, H: s.Len(refDividerH)}

	top := dividerY + s.Len(refGridGap)
	bottom := float64(in.Canvas.Height) - s.Len(refBottomPad)
	region := Rect{X: left, Y: top, W: full, H: max(0, bottom-top)}
	res.Tracks = PlanTrackGrid(m, FontRegular, in.Tracks, region, GridOptions{
		MaxSize: s.Size(trackSizeMax),
		MinSize: s.Size(trackSizeMin),
		RowGap:  s.Len(refRowGap),
		NameGap: s.Len(refNameGap),
		Gutter:  s.Len(refGutter),
	})

	if text := normalizeSpaces(in.Copyright); text != "" {
		block := planCopyright(m, s, text, in.Canvas, full)
		res.Copyright = &block
	}
	return res
}

// placeArtwork fits the artwork into the square art box without upscaling.
func placeArtwork(in Input, s Scaler) Rect {
	box := float64(in.Canvas.Width) - s.Len(refArtworkPad)
	w, h := float64(in.ArtworkWidth), float64(in.ArtworkHeight)
	if w <= 0 || h <= 0 {
		w, h = box, box
	}
	if w > box || h > box {
		k := min(box/w, box/h)
		w = max(1, math.Round(w*k))
		h = max(1, math.Round(h*k))
	}
	return Rect{X: s.Len(refMargin), Y: s.Len(refArtworkTop), W: w, H: h}
}

// placeSwatches lays squares right to left from the content edge, sitting on
// the title baseline.
func placeSwatches(colors []color.RGBA, right, baseline, size float64) []Swatch {
	n := min(len(colors), MaxSwatches)
	out := make([]Swatch, n)
	for i := range n {
		out[i] = Swatch{
			Color: colors[i],
			Rect:  Rect{X: right - float64(i+1)*size, Y: baseline - size, W: size, H: size},
		}
	}
	return out
}

func planTitle(m TextMeasurer, s Scaler, title string, origin Point, firstMax, restMax float64) TextBlock {
	wrap := func(size int) []string {
		return SplitWithReservedFirstLine(title, WidthOf(m, FontBold, size), firstMax, restMax)
	}
	fits := func(size int) bool {
		lines := wrap(size)
		if len(lines) > titleMaxLines {
			return false
		}
		width := WidthOf(m, FontBold, size)
		for i, line := range lines {
			limit := restMax
			if i == 0 {
				limit = firstMax
			}
			if width(line) > limit || line == "" {
				return false
			}
		}
		return true
	}

	size := FitLargestSize(Descending(s.Size(titleSizeMax), s.Size(titleSizeMin)), fits)
	return TextBlock{
		Lines:       wrap(size),
		Font:        FontBold,
		Size:        size,
		Origin:      origin,
		Align:       AlignLeft,
		LineAdvance: Ascent(m, FontBold, size) + s.Len(refLineSpacing),
	}
}

// planArtistYear sets the artist left-aligned and the year right-aligned on
// the artist's last baseline. The artist is kept to one line when some size
// fits both; otherwise it wraps at the floor size with the year's slot
// reserved on the final line.
func planArtistYear(m TextMeasurer, s Scaler, artist, year string, left, right, y float64) (TextBlock, TextBlock) {
	artist = normalizeSpaces(artist)
	year = normalizeSpaces(year)
	full := right - left
	gap := s.Len(refYearGap)

	slot := func(width WidthFunc) float64 {
		if year == "" {
			return 0
		}
		return width(year) + gap
	}
	fits := func(size int) bool {
		width := WidthOf(m, FontSemibold, size)
		return width(artist)+slot(width) <= full
	}

	size := FitLargestSize(Descending(s.Size(artistSizeMax), s.Size(artistSizeMin)), fits)
	width := WidthOf(m, FontSemibold, size)

	var lines []string
	switch {
	case artist == "":
	case fits(size):
		lines = []string{artist}
	default:
		lines = SplitWithConstrainedLastLine(artist, width, full, full-slot(width))
	}

	block := TextBlock{
		Lines:       lines,
		Font:        FontSemibold,
		Size:        size,
		Origin:      Point{X: left, Y: y},
		Align:       AlignLeft,
		LineAdvance: Ascent(m, FontSemibold, size) + s.Len(refLineSpacing),
	}
	yearBlock := TextBlock{
		Font:   FontSemibold,
		Size:   size,
		Origin: Point{X: right, Y: block.LastBaseline()},
		Align:  AlignRight,
	}
	if year != "" {
		yearBlock.Lines = []string{year}
	}
	return block, yearBlock
}

func planCopyright(m TextMeasurer, s Scaler, text string, canvas CanvasSpec, full float64) TextBlock {
	size := FitLargestSize(Descending(s.Size(copyrightSizeMax), s.Size(copyrightSizeMin)), func(size int) bool {
		return WidthOf(m, FontLight, size)(text) <= full
	})
	return TextBlock{
		Lines:  []string{text},
		Font:   FontLight,
		Size:   size,
		Origin: Point{X: float64(canvas.Width) / 2, Y: float64(canvas.Height) - s.Len(refCopyrightY)},
		Align:  AlignCenter,
	}
}
