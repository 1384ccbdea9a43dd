package layout

import "unicode/utf8"

// fixedMeasurer gives every rune the same advance, proportional to size.
// The ascent equals the size.
type fixedMeasurer struct {
	advance float64
}

func (f fixedMeasurer) Measure(text string, _ Font, size int) Extent {
	return Extent{
		Width:  float64(utf8.RuneCountInString(text)) * f.advance * float64(size),
		Height: float64(size),
	}
}

func (f fixedMeasurer) NewMeasurer() TextMeasurer { return f }

// closingSource hands out closable measurers and counts the closes.
type closingSource struct {
	opened, closed int
}

type closingMeasurer struct {
	fixedMeasurer
	src *closingSource
}

func (m closingMeasurer) Close() error {
	m.src.closed++
	return nil
}

func (s *closingSource) NewMeasurer() TextMeasurer {
	s.opened++
	return closingMeasurer{fixedMeasurer: fixedMeasurer{advance: 0.5}, src: s}
}

// perRune returns a WidthFunc charging w for every rune.
func perRune(w float64) WidthFunc {
	return func(s string) float64 { return float64(utf8.RuneCountInString(s)) * w }
}
