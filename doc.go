// Package vtrace traces binary raster images into smooth vector
// contours and renders them as SVG.
//
// # Overview
//
// vtrace implements the Potrace tracing pipeline in pure Go: a bitmap is
// decomposed into closed pixel-edge contours, every contour is fitted
// with an optimal polygon, the polygon vertices are refined to
// sub-pixel positions, and the result is smoothed into line segments and
// cubic Bezier curves.
//
// # Quick Start
//
//	import "github.com/gogpu/vtrace"
//
//	p, err := vtrace.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.LoadImage("input.png"); err != nil {
//	    log.Fatal(err)
//	}
//	svg, err := p.SVG()
//
// # Posterizing
//
// Posterizer runs the tracer at several luminance thresholds and stacks
// the results as semi-transparent layers, approximating continuous
// tone:
//
//	pz, err := vtrace.NewPosterizer(vtrace.WithSteps(4))
//
// # Concurrency
//
// The engine is strictly single-threaded. A Potrace or Posterizer
// instance owns all of its intermediate state and must be used from one
// goroutine at a time; separate instances are independent.
package vtrace

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
