package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"

	apperrors "github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/fonts"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func measurer(t *testing.T) *fonts.Measurer {
	t.Helper()
	table, err := fonts.Load(context.Background(), fonts.EmbeddedSource{})
	if err != nil {
		t.Fatal(err)
	}
	m := table.Measurer()
	t.Cleanup(func() { m.Close() })
	return m
}

func sampleResult() layout.Result {
	copyright := layout.TextBlock{
		Lines: []string{"(c) 1969"}, Font: layout.FontLight, Size: 6,
		Origin: layout.Point{X: 50, Y: 115}, Align: layout.AlignCenter,
	}
	return layout.Result{
		Canvas:   layout.CanvasSpec{Width: 100, Height: 120},
		Artwork:  layout.Rect{X: 10, Y: 10, W: 40, H: 40},
		Swatches: []layout.Swatch{{Color: red, Rect: layout.Rect{X: 80, Y: 10, W: 10, H: 10}}},
		Title: layout.TextBlock{
			Lines: []string{"Abbey", "Road"}, Font: layout.FontBold, Size: 12,
			Origin: layout.Point{X: 10, Y: 65}, LineAdvance: 14,
		},
		Artist: layout.TextBlock{
			Lines: []string{"The Beatles"}, Font: layout.FontSemibold, Size: 8,
			Origin: layout.Point{X: 10, Y: 88},
		},
		Year: layout.TextBlock{
			Lines: []string{"1969"}, Font: layout.FontSemibold, Size: 8,
			Origin: layout.Point{X: 90, Y: 88}, Align: layout.AlignRight,
		},
		Divider: layout.Rect{X: 10, Y: 92, W: 80, H: 4},
		Tracks: layout.TrackGridLayout{
			Rows: 1, Columns: 1, Font: layout.FontRegular, FontSize: 6,
			Region: layout.Rect{X: 10, Y: 98, W: 80, H: 10},
			Cells: []layout.GridCell{{
				Name: "Come Together", Display: "Come Together", Duration: "4:19",
				NameOrigin:     layout.Point{X: 10, Y: 104},
				DurationOrigin: layout.Point{X: 90, Y: 104},
			}},
		},
		Copyright: &copyright,
	}
}

func near(a, b color.Color) bool {
	r1, g1, b1, _ := a.RGBA()
	r2, g2, b2, _ := b.RGBA()
	d := func(x, y uint32) bool {
		if x > y {
			x, y = y, x
		}
		return (y-x)>>8 <= 3
	}
	return d(r1, r2) && d(g1, g2) && d(b1, b2)
}

func anyInk(img image.Image, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !near(img.At(x, y), color.White) {
				return true
			}
		}
	}
	return false
}

func TestRenderImage(t *testing.T) {
	art := imaging.New(80, 80, blue)
	img, err := RenderImage(sampleResult(), art, measurer(t))
	if err != nil {
		t.Fatalf("RenderImage() error: %v", err)
	}

	if got := img.Bounds().Size(); got != image.Pt(100, 120) {
		t.Fatalf("size = %v", got)
	}

	pixels := []struct {
		name string
		x, y int
		want color.Color
	}{
		{"background", 95, 3, color.White},
		{"artwork", 30, 30, blue},
		{"swatch", 85, 15, red},
		{"divider", 50, 94, color.Black},
	}
	for _, p := range pixels {
		t.Run(p.name, func(t *testing.T) {
			if got := img.At(p.x, p.y); !near(got, p.want) {
				t.Errorf("pixel (%d,%d) = %v, want %v", p.x, p.y, got, p.want)
			}
		})
	}

	if !anyInk(img, image.Rect(10, 55, 50, 66)) {
		t.Error("title not drawn")
	}
	if !anyInk(img, image.Rect(60, 80, 91, 89)) {
		t.Error("right-aligned year not drawn left of its anchor")
	}
	if !anyInk(img, image.Rect(10, 99, 90, 105)) {
		t.Error("track row not drawn")
	}
}

func TestRenderImageWithoutArtwork(t *testing.T) {
	img, err := RenderImage(sampleResult(), nil, measurer(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.At(30, 30); !near(got, color.White) {
		t.Errorf("artwork box = %v, want background", got)
	}
}

type brokenFaces struct{}

func (brokenFaces) Face(layout.Font, int) (font.Face, error) {
	return nil, errors.New("no faces")
}

func TestRenderImageErrors(t *testing.T) {
	if _, err := RenderImage(sampleResult(), nil, brokenFaces{}); err == nil {
		t.Error("face failure should propagate")
	}

	_, err := RenderImage(layout.Result{}, nil, brokenFaces{})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidResolution) {
		t.Errorf("empty canvas error = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJPEG, false},
		{"jpeg", FormatJPEG, false},
		{"JPG", FormatJPEG, false},
		{" png ", FormatPNG, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) code = %s", tt.in, apperrors.GetCode(err))
		}
	}

	if FormatPNG.ContentType() != "image/png" || FormatJPEG.ContentType() != "image/jpeg" {
		t.Error("wrong content types")
	}
	if FormatJPEG.Ext() != "jpg" {
		t.Errorf("jpeg ext = %q", FormatJPEG.Ext())
	}
}

func TestEncode(t *testing.T) {
	src := imaging.New(30, 20, blue)

	for _, f := range []Format{FormatJPEG, FormatPNG} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, f, 90); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			got, err := imaging.Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Bounds().Size() != image.Pt(30, 20) {
				t.Errorf("decoded size = %v", got.Bounds().Size())
			}
		})
	}

	var buf bytes.Buffer
	if err := Encode(&buf, src, Format("tiff"), 90); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleResult())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 100 || out.Height != 120 {
		t.Errorf("size = %dx%d", out.Width, out.Height)
	}
	if len(out.Swatches) != 1 || out.Swatches[0].Color != "#ff0000" {
		t.Errorf("swatches = %+v", out.Swatches)
	}
	if out.Year.Align != "right" || out.Title.Align != "left" {
		t.Errorf("aligns = %q, %q", out.Title.Align, out.Year.Align)
	}
	if len(out.Tracks.Cells) != 1 || out.Tracks.Cells[0].Duration != "4:19" {
		t.Errorf("cells = %+v", out.Tracks.Cells)
	}
	if out.Copyright == nil || out.Copyright.Align != "center" {
		t.Errorf("copyright = %+v", out.Copyright)
	}
}

func TestRenderJSONOmitsEmpty(t *testing.T) {
	res := sampleResult()
	res.Copyright = nil
	res.Swatches = nil
	res.Title.Lines = nil

	data, err := RenderJSON(res)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, key := range []string{`"copyright"`, `"swatches"`} {
		if strings.Contains(s, key) {
			t.Errorf("output contains %s", key)
		}
	}
	if !strings.Contains(s, `"lines": []`) {
		t.Error("nil lines should encode as an empty array")
	}
}
