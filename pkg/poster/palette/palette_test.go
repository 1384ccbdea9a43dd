package palette

import (
	"image"
	"image/color"
	"testing"
)

func filled(w, h int, at func(x, y int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, at(x, y))
		}
	}
	return img
}

var (
	red    = color.NRGBA{R: 255, A: 255}
	blue   = color.NRGBA{B: 255, A: 255}
	yellow = color.NRGBA{R: 255, G: 255, A: 255}
)

func TestDominantSolid(t *testing.T) {
	img := filled(10, 10, func(int, int) color.NRGBA { return red })

	got := Dominant(img, 5)
	if len(got) != 1 || got[0] != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("Dominant() = %v, want a single red", got)
	}
}

func TestDominantOrderedByCount(t *testing.T) {
	// Three quarters blue, one quarter yellow.
	img := filled(20, 20, func(x, y int) color.NRGBA {
		if y >= 15 {
			return yellow
		}
		return blue
	})

	got := Dominant(img, 5)
	want := []color.RGBA{{B: 255, A: 255}, {R: 255, G: 255, A: 255}}
	if len(got) != len(want) {
		t.Fatalf("Dominant() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("color %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDominantLimit(t *testing.T) {
	img := filled(200, 150, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x), G: uint8(y), B: uint8((x * y) % 256), A: 255}
	})

	for _, n := range []int{1, 3, 5} {
		got := Dominant(img, n)
		if len(got) == 0 || len(got) > n {
			t.Errorf("Dominant(n=%d) returned %d colors", n, len(got))
		}
		for _, c := range got {
			if c.A != 255 {
				t.Errorf("color %v not opaque", c)
			}
		}
	}
}

func TestDominantIgnoresTransparency(t *testing.T) {
	clear := filled(8, 8, func(int, int) color.NRGBA { return color.NRGBA{R: 255} })
	if got := Dominant(clear, 5); got != nil {
		t.Errorf("transparent image gave %v", got)
	}

	half := filled(8, 8, func(x, y int) color.NRGBA {
		if x < 4 {
			return color.NRGBA{G: 255, A: 10}
		}
		return red
	})
	got := Dominant(half, 5)
	if len(got) != 1 || got[0] != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("Dominant() = %v, want only the opaque red", got)
	}
}

func TestDominantDegenerate(t *testing.T) {
	if Dominant(nil, 5) != nil {
		t.Error("nil image should give nil")
	}
	img := filled(4, 4, func(int, int) color.NRGBA { return red })
	if Dominant(img, 0) != nil {
		t.Error("n=0 should give nil")
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   color.RGBA
		want string
	}{
		{color.RGBA{A: 255}, "#000000"},
		{color.RGBA{R: 255, G: 255, B: 255, A: 255}, "#ffffff"},
		{color.RGBA{R: 0x12, G: 0xab, B: 0x7f, A: 255}, "#12ab7f"},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
