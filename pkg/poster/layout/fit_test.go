package layout

import (
	"slices"
	"testing"
)

func TestDescending(t *testing.T) {
	tests := []struct {
		hi, lo int
		want   []int
	}{
		{5, 3, []int{5, 4, 3}},
		{3, 3, []int{3}},
		{2, 4, []int{4}},
		{2, -1, []int{2, 1}},
	}
	for _, tt := range tests {
		if got := Descending(tt.hi, tt.lo); !slices.Equal(got, tt.want) {
			t.Errorf("Descending(%d, %d) = %v, want %v", tt.hi, tt.lo, got, tt.want)
		}
	}
}

func TestFitLargestSize(t *testing.T) {
	fitsUnder := func(limit int) func(int) bool {
		return func(size int) bool { return size <= limit }
	}

	tests := []struct {
		name       string
		candidates []int
		fits       func(int) bool
		want       int
	}{
		{"largest fits", []int{20, 19, 18}, fitsUnder(100), 20},
		{"first success from the top", []int{20, 19, 18, 17}, fitsUnder(18), 18},
		{"none fits returns floor", []int{20, 19, 18}, fitsUnder(5), 18},
		{"unsorted candidates", []int{17, 20, 18, 19}, fitsUnder(19), 19},
		{"empty", nil, fitsUnder(100), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitLargestSize(tt.candidates, tt.fits); got != tt.want {
				t.Errorf("FitLargestSize(%v) = %d, want %d", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestFitLargestSizeStopsAtFirstSuccess(t *testing.T) {
	var tried []int
	FitLargestSize(Descending(10, 1), func(size int) bool {
		tried = append(tried, size)
		return size <= 7
	})
	if want := []int{10, 9, 8, 7}; !slices.Equal(tried, want) {
		t.Errorf("tried %v, want %v", tried, want)
	}
}

func TestFitLargestSizeMonotonic(t *testing.T) {
	width := perRune(0.5)
	text := "The Rise and Fall of Ziggy Stardust"
	sizes := Descending(35, 10)

	prev := 0
	for box := 100.0; box <= 1200; box += 25 {
		got := FitLargestSize(sizes, func(size int) bool {
			return width(text)*float64(size) <= box
		})
		if got < 10 || got > 35 {
			t.Fatalf("box %v: size %d outside [10, 35]", box, got)
		}
		if got < prev {
			t.Errorf("box %v: size %d shrank from %d", box, got, prev)
		}
		prev = got
	}
}
