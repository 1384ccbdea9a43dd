// Package sink turns a planned [layout.Result] into output.
//
// # Raster output
//
// [RenderImage] draws the poster onto a white canvas with gg: the artwork
// thumbnail, the color swatches, every text block at its baseline anchor, the
// divider and the track grid. Faces come from a [FaceSource], normally the
// request's [fonts.Measurer], so drawing uses exactly the faces the layout
// was measured with.
//
//	img, err := sink.RenderImage(result, artwork, measurer)
//	err = sink.Encode(w, img, sink.FormatJPEG, 100)
//
// # JSON output
//
// [RenderJSON] exports the geometry itself for renderers that live
// elsewhere. Colors are written as "#rrggbb".
//
// [fonts.Measurer]: github.com/matzehuels/albumposter/pkg/fonts.Measurer
package sink
