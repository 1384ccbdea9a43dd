// Package layout computes the geometry of an album poster.
//
// # Overview
//
// The package is a pure layout-fitting engine. It never draws pixels and never
// performs I/O; it consumes a [TextMeasurer] and produces a [Result] that a
// renderer (see the sink package) turns into an image. The engine answers
// three questions for arbitrary text and an arbitrary canvas:
//
//  1. Where do strings break into lines so that each line fits a width?
//     ([SplitBalanced], [SplitWithReservedFirstLine], [SplitWithConstrainedLastLine])
//  2. Which font size best uses the available space?
//     ([FitLargestSize])
//  3. How does a variable-length track list fold into rows and columns?
//     ([PlanTrackGrid])
//
// [Planner] orchestrates all three into a single immutable [Result].
//
// # Geometry
//
// Anchors are authored on a 720-unit-wide reference poster and scaled
// linearly to the target canvas by [Scaler]. Stages run top to bottom:
//
//	artwork → title (+ color swatches) → artist/year → divider → track grid → copyright
//
// Each stage starts at the vertical offset consumed by the previous one.
// No stage reads the output of a later stage.
//
// # Measurement
//
// All width decisions go through a [TextMeasurer]. Measurers are obtained
// per plan from a [MeasurerSource], so implementations may cache font faces
// without sharing mutable state across goroutines:
//
//	planner := layout.NewPlanner(fontTable)
//	res := planner.Plan(layout.Input{
//	    Canvas: layout.CanvasSpec{Width: 1440, Height: 1920},
//	    Title:  "Abbey Road",
//	    Artist: "The Beatles",
//	    Year:   "1969",
//	    Tracks: entries,
//	})
//
// # Failure Policy
//
// Nothing in this package returns an error. Unbreakable words overflow,
// exhausted font searches fall back to their minimum size, and over-long
// track names are truncated with an ellipsis. A degraded poster is always
// preferred to no poster.
package layout
