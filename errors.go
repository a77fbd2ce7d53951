package vtrace

import "errors"

// Errors reported by the tracing API. Setter errors wrap
// ErrInvalidParameter with the offending key and value; loader errors
// wrap ErrDecode with the underlying cause.
var (
	// ErrInvalidParameter is returned when an option value is rejected.
	ErrInvalidParameter = errors.New("vtrace: invalid parameter")

	// ErrImageNotLoaded is returned when output is requested before an
	// image has been loaded successfully.
	ErrImageNotLoaded = errors.New("vtrace: image should be loaded first")

	// ErrDecode is returned when the loader cannot produce a pixel grid
	// from the given source.
	ErrDecode = errors.New("vtrace: image decoding failed")

	// ErrOptimizationIncomplete signals that curve optimization was
	// abandoned for a path and the unoptimized curve was kept. It is
	// never fatal; it is surfaced through the logger.
	ErrOptimizationIncomplete = errors.New("vtrace: curve optimization incomplete")
)
