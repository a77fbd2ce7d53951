package vtrace

import "fmt"

// TurnPolicy selects how to resolve ambiguities during decomposition,
// when the tracer meets a checkered 2x2 pixel configuration.
type TurnPolicy string

// Supported turn policies.
const (
	// TurnPolicyBlack prefers to connect black components.
	TurnPolicyBlack TurnPolicy = "black"
	// TurnPolicyWhite prefers to connect white components.
	TurnPolicyWhite TurnPolicy = "white"
	// TurnPolicyLeft always takes a left turn.
	TurnPolicyLeft TurnPolicy = "left"
	// TurnPolicyRight always takes a right turn.
	TurnPolicyRight TurnPolicy = "right"
	// TurnPolicyMinority turns towards the color least frequent in the
	// local neighborhood.
	TurnPolicyMinority TurnPolicy = "minority"
	// TurnPolicyMajority turns towards the color most frequent in the
	// local neighborhood.
	TurnPolicyMajority TurnPolicy = "majority"
)

func (t TurnPolicy) valid() bool {
	switch t {
	case TurnPolicyBlack, TurnPolicyWhite, TurnPolicyLeft,
		TurnPolicyRight, TurnPolicyMinority, TurnPolicyMajority:
		return true
	}
	return false
}

// FillStrategy selects how the posterizer picks the fill intensity of a
// layer from the histogram segment the layer covers.
type FillStrategy string

// Supported fill strategies.
const (
	FillSpread   FillStrategy = "spread"
	FillDominant FillStrategy = "dominant"
	FillMedian   FillStrategy = "median"
	FillMean     FillStrategy = "mean"
)

func (f FillStrategy) valid() bool {
	switch f {
	case FillSpread, FillDominant, FillMedian, FillMean:
		return true
	}
	return false
}

// RangeDistribution selects how the posterizer spaces its thresholds.
type RangeDistribution string

// Supported range distributions.
const (
	RangesAuto  RangeDistribution = "auto"
	RangesEqual RangeDistribution = "equal"
)

func (r RangeDistribution) valid() bool {
	switch r {
	case RangesAuto, RangesEqual:
		return true
	}
	return false
}

// Sentinel option values.
const (
	// ThresholdAuto asks for the threshold to be derived from the
	// image histogram.
	ThresholdAuto = -1
	// StepsAuto asks the posterizer to pick the number of layers.
	StepsAuto = -1
	// ColorAuto resolves to black or white depending on BlackOnWhite.
	ColorAuto = "auto"
	// ColorTransparent suppresses the background rectangle.
	ColorTransparent = "transparent"
)

// Options holds every tracing and posterizing parameter. The zero value
// is not usable; start from DefaultOptions (New does this) and adjust
// through the With* options.
type Options struct {
	// TurnPolicy resolves ambiguous turns during decomposition.
	TurnPolicy TurnPolicy
	// TurdSize suppresses contours enclosing up to this many pixels.
	TurdSize int
	// AlphaMax is the corner threshold: vertices whose smoothing
	// parameter reaches it stay corners.
	AlphaMax float64
	// OptCurve enables the curve optimization stage.
	OptCurve bool
	// OptTolerance bounds the deviation allowed when merging curve
	// segments.
	OptTolerance float64
	// Threshold splits luminance into foreground and background, or
	// ThresholdAuto to derive it from the histogram.
	Threshold float64
	// BlackOnWhite traces the dark side of the threshold when true,
	// the bright side when false.
	BlackOnWhite bool
	// Color is the fill color of the traced paths, or ColorAuto.
	Color string
	// Background is the background color, or ColorTransparent.
	Background string
	// Width and Height scale the SVG output of Potrace; zero keeps the
	// image size. Posterizer output always keeps the image size.
	Width, Height int

	// Steps is the posterizer layer count, or StepsAuto.
	Steps int
	// StepValues, when set, lists explicit posterizer thresholds and
	// takes precedence over Steps.
	StepValues []int
	// FillStrategy picks per-layer fill intensities.
	FillStrategy FillStrategy
	// RangeDistribution spaces the posterizer thresholds.
	RangeDistribution RangeDistribution
}

// DefaultOptions returns the parameter set both front ends start from.
func DefaultOptions() Options {
	return Options{
		TurnPolicy:        TurnPolicyMinority,
		TurdSize:          2,
		AlphaMax:          1,
		OptCurve:          true,
		OptTolerance:      0.2,
		Threshold:         ThresholdAuto,
		BlackOnWhite:      true,
		Color:             ColorAuto,
		Background:        ColorTransparent,
		Steps:             StepsAuto,
		FillStrategy:      FillDominant,
		RangeDistribution: RangesAuto,
	}
}

// Option adjusts a single parameter, validating it eagerly. A failed
// option aborts the whole SetOptions call and leaves the previous
// parameters in place.
type Option func(*Options) error

// WithTurnPolicy sets the decomposition turn policy.
func WithTurnPolicy(tp TurnPolicy) Option {
	return func(o *Options) error {
		if !tp.valid() {
			return fmt.Errorf("%w: bad turn policy %q", ErrInvalidParameter, tp)
		}
		o.TurnPolicy = tp
		return nil
	}
}

// WithTurdSize sets the minimum kept contour area in pixels.
func WithTurdSize(n int) Option {
	return func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("%w: turd size must not be negative, got %d", ErrInvalidParameter, n)
		}
		o.TurdSize = n
		return nil
	}
}

// WithAlphaMax sets the corner threshold.
func WithAlphaMax(a float64) Option {
	return func(o *Options) error {
		if a < 0 {
			return fmt.Errorf("%w: alpha max must not be negative, got %v", ErrInvalidParameter, a)
		}
		o.AlphaMax = a
		return nil
	}
}

// WithOptCurve enables or disables curve optimization.
func WithOptCurve(enabled bool) Option {
	return func(o *Options) error {
		o.OptCurve = enabled
		return nil
	}
}

// WithOptTolerance sets the curve optimization tolerance.
func WithOptTolerance(t float64) Option {
	return func(o *Options) error {
		if t < 0 {
			return fmt.Errorf("%w: opt tolerance must not be negative, got %v", ErrInvalidParameter, t)
		}
		o.OptTolerance = t
		return nil
	}
}

// WithThreshold sets the luminance threshold, 0..255 or ThresholdAuto.
func WithThreshold(t float64) Option {
	return func(o *Options) error {
		if t != ThresholdAuto && (t < 0 || t > 255) {
			return fmt.Errorf("%w: threshold expected in range 0..255, got %v", ErrInvalidParameter, t)
		}
		o.Threshold = t
		return nil
	}
}

// WithBlackOnWhite selects which side of the threshold is traced.
func WithBlackOnWhite(b bool) Option {
	return func(o *Options) error {
		o.BlackOnWhite = b
		return nil
	}
}

// WithColor sets the fill color (any CSS color, or ColorAuto).
func WithColor(c string) Option {
	return func(o *Options) error {
		o.Color = c
		return nil
	}
}

// WithBackground sets the background color (any CSS color, or
// ColorTransparent).
func WithBackground(c string) Option {
	return func(o *Options) error {
		o.Background = c
		return nil
	}
}

// WithSize sets the output dimensions of the SVG document. Paths are
// scaled accordingly by Potrace.SVG; Posterizer output keeps the image
// size.
func WithSize(width, height int) Option {
	return func(o *Options) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("%w: output size must be positive, got %dx%d", ErrInvalidParameter, width, height)
		}
		o.Width = width
		o.Height = height
		return nil
	}
}

// WithSteps sets the number of posterizer layers, 1..255 or StepsAuto.
// It clears any explicit step values.
func WithSteps(n int) Option {
	return func(o *Options) error {
		if n != StepsAuto && (n < 1 || n > 255) {
			return fmt.Errorf("%w: steps expected in range 1..255, got %d", ErrInvalidParameter, n)
		}
		o.Steps = n
		o.StepValues = nil
		return nil
	}
}

// WithStepValues sets explicit posterizer thresholds. Values must be
// strictly increasing and in 0..255.
func WithStepValues(values ...int) Option {
	return func(o *Options) error {
		if len(values) == 0 {
			return fmt.Errorf("%w: empty steps list", ErrInvalidParameter)
		}
		for i, v := range values {
			if v < 0 || v > 255 {
				return fmt.Errorf("%w: step value %d out of range 0..255", ErrInvalidParameter, v)
			}
			if i > 0 && v <= values[i-1] {
				return fmt.Errorf("%w: step values must be strictly increasing", ErrInvalidParameter)
			}
		}
		o.StepValues = append([]int(nil), values...)
		return nil
	}
}

// WithFillStrategy sets the posterizer fill strategy.
func WithFillStrategy(f FillStrategy) Option {
	return func(o *Options) error {
		if !f.valid() {
			return fmt.Errorf("%w: bad fill strategy %q", ErrInvalidParameter, f)
		}
		o.FillStrategy = f
		return nil
	}
}

// WithRangeDistribution sets the posterizer threshold spacing.
func WithRangeDistribution(r RangeDistribution) Option {
	return func(o *Options) error {
		if !r.valid() {
			return fmt.Errorf("%w: bad range distribution %q", ErrInvalidParameter, r)
		}
		o.RangeDistribution = r
		return nil
	}
}

// tracingEqual reports whether two parameter sets produce the same
// traced curves, ignoring presentation-only fields.
func tracingEqual(a, b Options) bool {
	return a.TurnPolicy == b.TurnPolicy &&
		a.TurdSize == b.TurdSize &&
		a.AlphaMax == b.AlphaMax &&
		a.OptCurve == b.OptCurve &&
		a.OptTolerance == b.OptTolerance &&
		a.Threshold == b.Threshold &&
		a.BlackOnWhite == b.BlackOnWhite
}
