package layout

// ReferenceWidth is the canvas width the poster geometry is authored for.
const ReferenceWidth = 720.0

// Scaler converts reference units to canvas pixels.
type Scaler struct {
	factor float64
}

// NewScaler returns a Scaler for c. A non-positive width scales by 1.
func NewScaler(c CanvasSpec) Scaler {
	if c.Width <= 0 {
		return Scaler{factor: 1}
	}
	return Scaler{factor: float64(c.Width) / ReferenceWidth}
}

// Len scales a reference length.
func (s Scaler) Len(v float64) float64 { return v * s.factor }

// Size scales a reference font size, truncating to whole pixels. The result
// is never below 1.
func (s Scaler) Size(v float64) int {
	return max(1, int(s.Len(v)))
}
