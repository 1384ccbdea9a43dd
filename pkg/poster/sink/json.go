package sink

import (
	"encoding/json"

	"github.com/matzehuels/albumposter/pkg/poster/layout"
	"github.com/matzehuels/albumposter/pkg/poster/palette"
)

type jsonOutput struct {
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Artwork   jsonRect     `json:"artwork"`
	Title     jsonText     `json:"title"`
	Artist    jsonText     `json:"artist"`
	Year      jsonText     `json:"year"`
	Divider   jsonRect     `json:"divider"`
	Swatches  []jsonSwatch `json:"swatches,omitempty"`
	Tracks    jsonGrid     `json:"tracks"`
	Copyright *jsonText    `json:"copyright,omitempty"`
}

type jsonRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonText struct {
	Lines       []string  `json:"lines"`
	Font        string    `json:"font"`
	Size        int       `json:"size"`
	Origin      jsonPoint `json:"origin"`
	Align       string    `json:"align"`
	LineAdvance float64   `json:"line_advance,omitempty"`
}

type jsonSwatch struct {
	Color string   `json:"color"`
	Rect  jsonRect `json:"rect"`
}

type jsonGrid struct {
	Rows        int        `json:"rows"`
	Columns     int        `json:"columns"`
	Font        string     `json:"font"`
	FontSize    int        `json:"font_size"`
	ColumnWidth float64    `json:"column_width"`
	LineHeight  float64    `json:"line_height"`
	Region      jsonRect   `json:"region"`
	Fits        bool       `json:"fits"`
	Cells       []jsonCell `json:"cells"`
}

type jsonCell struct {
	Index          int       `json:"index"`
	Row            int       `json:"row"`
	Column         int       `json:"column"`
	Name           string    `json:"name"`
	Display        string    `json:"display"`
	Truncated      bool      `json:"truncated,omitempty"`
	Duration       string    `json:"duration"`
	NameOrigin     jsonPoint `json:"name_origin"`
	DurationOrigin jsonPoint `json:"duration_origin"`
}

// RenderJSON exports res as a pretty-printed JSON document.
func RenderJSON(res layout.Result) ([]byte, error) {
	out := jsonOutput{
		Width:   res.Canvas.Width,
		Height:  res.Canvas.Height,
		Artwork: toRect(res.Artwork),
		Title:   toText(res.Title),
		Artist:  toText(res.Artist),
		Year:    toText(res.Year),
		Divider: toRect(res.Divider),
		Tracks:  toGrid(res.Tracks),
	}
	for _, s := range res.Swatches {
		out.Swatches = append(out.Swatches, jsonSwatch{Color: palette.Hex(s.Color), Rect: toRect(s.Rect)})
	}
	if res.Copyright != nil {
		c := toText(*res.Copyright)
		out.Copyright = &c
	}
	return json.MarshalIndent(out, "", "  ")
}

func toRect(r layout.Rect) jsonRect {
	return jsonRect{X: r.X, Y: r.Y, Width: r.W, Height: r.H}
}

func toPoint(p layout.Point) jsonPoint { return jsonPoint{X: p.X, Y: p.Y} }

func toText(b layout.TextBlock) jsonText {
	lines := b.Lines
	if lines == nil {
		lines = []string{}
	}
	return jsonText{
		Lines:       lines,
		Font:        string(b.Font),
		Size:        b.Size,
		Origin:      toPoint(b.Origin),
		Align:       b.Align.String(),
		LineAdvance: b.LineAdvance,
	}
}

func toGrid(g layout.TrackGridLayout) jsonGrid {
	cells := make([]jsonCell, len(g.Cells))
	for i, c := range g.Cells {
		cells[i] = jsonCell{
			Index:          c.Index,
			Row:            c.Row,
			Column:         c.Column,
			Name:           c.Name,
			Display:        c.Display,
			Truncated:      c.Truncated,
			Duration:       c.Duration,
			NameOrigin:     toPoint(c.NameOrigin),
			DurationOrigin: toPoint(c.DurationOrigin),
		}
	}
	return jsonGrid{
		Rows:        g.Rows,
		Columns:     g.Columns,
		Font:        string(g.Font),
		FontSize:    g.FontSize,
		ColumnWidth: g.ColumnWidth,
		LineHeight:  g.LineHeight,
		Region:      toRect(g.Region),
		Fits:        g.Fits,
		Cells:       cells,
	}
}
