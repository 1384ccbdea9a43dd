// Package palette extracts the dominant colors of an artwork image.
//
// The image is first shrunk to a small thumbnail, then its opaque pixels are
// partitioned with median cut: the box with the widest channel range is
// sorted along that channel and halved until the requested number of boxes
// exists or nothing can be split. Each box contributes its mean color,
// weighted by its pixel count. Colors that are perceptually indistinguishable
// in CIE Lab are merged, and the result is ordered by pixel count, most
// common first.
package palette

import (
	"cmp"
	"image"
	"image/color"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// sampleSize bounds the thumbnail the colors are computed from.
const sampleSize = 64

// mergeDistance is the CIE76 distance below which two colors are merged.
const mergeDistance = 0.03

type pixel [3]uint8

type box []pixel

type swatch struct {
	color colorful.Color
	count int
}

// Dominant returns up to n colors of img ordered by prevalence. Fully or
// mostly transparent pixels are ignored. A nil image, an image without
// opaque pixels, or n <= 0 yields nil.
func Dominant(img image.Image, n int) []color.RGBA {
	if img == nil || n <= 0 {
		return nil
	}
	pixels := sample(img)
	if len(pixels) == 0 {
		return nil
	}

	boxes := []box{pixels}
	for len(boxes) < n {
		i := widest(boxes)
		if i < 0 {
			break
		}
		lo, hi := boxes[i].split()
		boxes = slices.Replace(boxes, i, i+1, lo, hi)
	}

	swatches := make([]swatch, len(boxes))
	for i, b := range boxes {
		swatches[i] = swatch{color: b.mean(), count: len(b)}
	}
	swatches = merge(swatches)

	out := make([]color.RGBA, len(swatches))
	for i, s := range swatches {
		r, g, b := s.color.Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func sample(img image.Image) box {
	thumb := imaging.Fit(img, sampleSize, sampleSize, imaging.Box)
	bounds := thumb.Bounds()
	pixels := make(box, 0, bounds.Dx()*bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		row := thumb.Pix[y*thumb.Stride : y*thumb.Stride+bounds.Dx()*4]
		for x := 0; x+3 < len(row); x += 4 {
			if row[x+3] < 128 {
				continue
			}
			pixels = append(pixels, pixel{row[x], row[x+1], row[x+2]})
		}
	}
	return pixels
}

// channelRange returns the channel with the widest spread and that spread.
func (b box) channelRange() (int, int) {
	lo := pixel{255, 255, 255}
	var hi pixel
	for _, p := range b {
		for c := range 3 {
			lo[c] = min(lo[c], p[c])
			hi[c] = max(hi[c], p[c])
		}
	}
	best, spread := 0, -1
	for c := range 3 {
		if r := int(hi[c]) - int(lo[c]); r > spread {
			best, spread = c, r
		}
	}
	return best, spread
}

// split sorts a copy of b along its widest channel and halves it.
func (b box) split() (box, box) {
	ch, _ := b.channelRange()
	sorted := slices.Clone(b)
	slices.SortStableFunc(sorted, func(p, q pixel) int { return cmp.Compare(p[ch], q[ch]) })
	mid := len(sorted) / 2
	return sorted[:mid], sorted[mid:]
}

func (b box) mean() colorful.Color {
	var sum [3]int
	for _, p := range b {
		for c := range 3 {
			sum[c] += int(p[c])
		}
	}
	n := float64(len(b)) * 255
	return colorful.Color{R: float64(sum[0]) / n, G: float64(sum[1]) / n, B: float64(sum[2]) / n}
}

// widest returns the index of the splittable box with the largest channel
// range, or -1 when every box is uniform.
func widest(boxes []box) int {
	best, bestSpread := -1, 0
	for i, b := range boxes {
		if len(b) < 2 {
			continue
		}
		if _, spread := b.channelRange(); spread > bestSpread {
			best, bestSpread = i, spread
		}
	}
	return best
}

// merge folds perceptually identical swatches together and sorts the
// survivors by count, largest first.
func merge(in []swatch) []swatch {
	slices.SortStableFunc(in, func(a, b swatch) int { return cmp.Compare(b.count, a.count) })
	out := make([]swatch, 0, len(in))
	for _, s := range in {
		i := slices.IndexFunc(out, func(k swatch) bool {
			return k.color.DistanceLab(s.color) < mergeDistance
		})
		if i < 0 {
			out = append(out, s)
			continue
		}
		out[i].count += s.count
	}
	slices.SortStableFunc(out, func(a, b swatch) int { return cmp.Compare(b.count, a.count) })
	return out
}
