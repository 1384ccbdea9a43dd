package layout

import "fmt"

// Extent is the measured size of a string.
//
// Width is the advance width. Height is the ascent of the font at that size,
// the quantity line spacing is derived from.
type Extent struct {
	Width  float64
	Height float64
}

// TextMeasurer measures strings in a given font and pixel size.
//
// Implementations must be deterministic for fixed inputs. A single
// TextMeasurer is used by one plan at a time and need not be safe for
// concurrent use.
type TextMeasurer interface {
	Measure(text string, font Font, size int) Extent
}

// MeasurerSource hands out a fresh TextMeasurer per plan. Implementations
// are shared across goroutines and must be safe for concurrent use.
type MeasurerSource interface {
	NewMeasurer() TextMeasurer
}

// WidthFunc returns the measured width of a string.
type WidthFunc func(string) float64

// WidthOf binds a measurer, font and size into a WidthFunc.
func WidthOf(m TextMeasurer, font Font, size int) WidthFunc {
	return func(s string) float64 { return m.Measure(s, font, size).Width }
}

// Ascent returns the line-height-relevant height of font at size.
func Ascent(m TextMeasurer, font Font, size int) float64 {
	return m.Measure("A", font, size).Height
}

// FormatDuration formats milliseconds as M:SS. Minutes are not wrapped at
// the hour, so a 75 minute piece reads 75:03.
func FormatDuration(millis int64) string {
	if millis < 0 {
		millis = 0
	}
	total := millis / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
