package vtrace

import (
	"fmt"
	"math"
	"strings"
)

// Posterizer runs the tracer several times at different luminance
// thresholds and stacks the results as semi-transparent layers,
// approximating a grayscale rendition of the source.
//
// Thresholds come either from the caller (explicit step values), from an
// equal partition of the traced range, or from multilevel Otsu
// thresholding of the histogram. Like Potrace, a Posterizer instance is
// single-threaded and owns all of its state.
type Posterizer struct {
	potrace *Potrace

	// params is the posterizer's own parameter set. The embedded
	// tracer's threshold is rewritten for every layer, so the
	// posterizer keeps an independent copy of what the caller asked
	// for.
	params Options

	// calculatedThreshold caches the resolved top threshold;
	// ThresholdAuto means not resolved yet.
	calculatedThreshold float64
}

// colorStop is one posterizer layer: a threshold and the fill intensity
// chosen for the histogram segment it covers.
type colorStop struct {
	value          float64
	colorIntensity float64
}

// NewPosterizer creates a Posterizer with default parameters, adjusted
// by the given options.
func NewPosterizer(opts ...Option) (*Posterizer, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return &Posterizer{
		potrace:             p,
		params:              p.Options(),
		calculatedThreshold: ThresholdAuto,
	}, nil
}

// LoadImage loads the source image. See Potrace.LoadImage for accepted
// sources.
func (pz *Posterizer) LoadImage(src any) error {
	pz.calculatedThreshold = ThresholdAuto
	return pz.potrace.LoadImage(src)
}

// SetOptions applies parameter changes to the posterizer and its
// embedded tracer.
func (pz *Posterizer) SetOptions(opts ...Option) error {
	// Start from the caller's parameters, not the tracer's, whose
	// threshold was rewritten by the last rendered layer.
	next := pz.Options()
	for _, opt := range opts {
		if err := opt(&next); err != nil {
			return err
		}
	}
	if err := pz.potrace.SetOptions(func(o *Options) error {
		*o = next
		return nil
	}); err != nil {
		return err
	}
	pz.params = pz.potrace.Options()
	pz.calculatedThreshold = ThresholdAuto
	return nil
}

// Options returns a copy of the current parameters.
func (pz *Posterizer) Options() Options {
	o := pz.params
	o.StepValues = append([]int(nil), pz.params.StepValues...)
	return o
}

func (pz *Posterizer) histogram() *Histogram {
	return pz.potrace.luminance.Histogram()
}

// paramStepsCount resolves the number of layers to produce.
func (pz *Posterizer) paramStepsCount() int {
	o := &pz.params
	if len(o.StepValues) > 0 {
		return len(o.StepValues)
	}
	if o.Steps == StepsAuto && o.Threshold == ThresholdAuto {
		return 4
	}

	colorsCount := pz.paramThreshold()
	if !o.BlackOnWhite {
		colorsCount = 255 - colorsCount
	}

	if o.Steps == StepsAuto {
		if colorsCount > 200 {
			return 4
		}
		return 3
	}

	steps := o.Steps
	if steps < 2 {
		steps = 2
	}
	if float64(steps) > colorsCount {
		steps = int(colorsCount)
	}
	return steps
}

// paramThreshold resolves the top threshold, deriving it from a 2-level
// Otsu split when set to auto. The result is cached until parameters or
// the image change.
func (pz *Posterizer) paramThreshold() float64 {
	if pz.calculatedThreshold != ThresholdAuto {
		return pz.calculatedThreshold
	}
	o := &pz.params
	if o.Threshold != ThresholdAuto {
		pz.calculatedThreshold = o.Threshold
		return pz.calculatedThreshold
	}

	two := pz.histogram().MultilevelThresholding(2, -1, -1)
	switch {
	case o.BlackOnWhite && len(two) > 1:
		pz.calculatedThreshold = float64(two[1])
	case !o.BlackOnWhite && len(two) > 0:
		pz.calculatedThreshold = float64(two[0])
	default:
		pz.calculatedThreshold = 128
	}
	return pz.calculatedThreshold
}

// getRanges produces the ordered color stops for the current
// parameters.
func (pz *Posterizer) getRanges() []colorStop {
	o := &pz.params

	if len(o.StepValues) == 0 {
		if o.RangeDistribution == RangesAuto {
			return pz.getRangesAuto()
		}
		return pz.getRangesEquallyDistributed()
	}

	// Explicit thresholds: order them outward from the traced side and
	// make sure the top threshold itself is included.
	threshold := pz.paramThreshold()
	lookingForDarkPixels := o.BlackOnWhite

	colorStops := make([]float64, 0, len(o.StepValues)+1)
	for _, v := range o.StepValues {
		colorStops = append(colorStops, float64(v))
	}
	if lookingForDarkPixels {
		for i, j := 0, len(colorStops)-1; i < j; i, j = i+1, j-1 {
			colorStops[i], colorStops[j] = colorStops[j], colorStops[i]
		}
	}

	if lookingForDarkPixels && colorStops[0] < threshold {
		colorStops = append([]float64{threshold}, colorStops...)
	} else if !lookingForDarkPixels && colorStops[len(colorStops)-1] < threshold {
		colorStops = append(colorStops, threshold)
	}

	return pz.calcColorIntensity(colorStops)
}

// getRangesAuto derives the color stops from multilevel Otsu
// thresholding of the histogram segment on the traced side.
func (pz *Posterizer) getRangesAuto() []colorStop {
	o := &pz.params
	hist := pz.histogram()
	steps := pz.paramStepsCount()

	var colorStops []float64
	if o.Threshold == ThresholdAuto {
		for _, v := range hist.MultilevelThresholding(steps, -1, -1) {
			colorStops = append(colorStops, float64(v))
		}
	} else {
		threshold := pz.paramThreshold()
		if o.BlackOnWhite {
			for _, v := range hist.MultilevelThresholding(steps-1, 0, threshold) {
				colorStops = append(colorStops, float64(v))
			}
			colorStops = append(colorStops, threshold)
		} else {
			colorStops = append(colorStops, threshold)
			for _, v := range hist.MultilevelThresholding(steps-1, threshold, 255) {
				colorStops = append(colorStops, float64(v))
			}
		}
	}

	if o.BlackOnWhite {
		for i, j := 0, len(colorStops)-1; i < j; i, j = i+1, j-1 {
			colorStops[i], colorStops[j] = colorStops[j], colorStops[i]
		}
	}
	return pz.calcColorIntensity(colorStops)
}

// getRangesEquallyDistributed splits the traced side of the threshold
// into equal intervals.
func (pz *Posterizer) getRangesEquallyDistributed() []colorStop {
	o := &pz.params
	threshold := pz.paramThreshold()
	colorsToThreshold := threshold
	if !o.BlackOnWhite {
		colorsToThreshold = 255 - threshold
	}
	steps := pz.paramStepsCount()

	stepSize := colorsToThreshold / float64(steps)
	colorStops := make([]float64, 0, steps)
	for i := steps - 1; i >= 0; i-- {
		th := math.Min(colorsToThreshold, float64(i+1)*stepSize)
		if !o.BlackOnWhite {
			th = 255 - th
		}
		colorStops = append(colorStops, th)
	}
	return pz.calcColorIntensity(colorStops)
}

// calcColorIntensity picks a representative grey level for the segment
// each stop covers and converts it to a fill intensity. Except under
// FillSpread, which consults no histogram, stops whose segment holds no
// pixels get intensity zero and are later skipped.
func (pz *Posterizer) calcColorIntensity(colorStops []float64) []colorStop {
	o := &pz.params
	blackOnWhite := o.BlackOnWhite
	strategy := o.FillStrategy

	var hist *Histogram
	if strategy != FillSpread {
		hist = pz.histogram()
	}

	base := 0.0
	if !blackOnWhite {
		base = 255
	}
	fullRange := math.Abs(pz.paramThreshold() - base)

	output := make([]colorStop, 0, len(colorStops))
	for index, threshold := range colorStops {
		var nextValue float64
		if index+1 == len(colorStops) {
			nextValue = -1
			if !blackOnWhite {
				nextValue = 256
			}
		} else {
			nextValue = colorStops[index+1]
		}

		var rangeStart, rangeEnd int
		if blackOnWhite {
			rangeStart = int(math.Round(nextValue + 1))
			rangeEnd = int(math.Round(threshold))
		} else {
			rangeStart = int(math.Round(threshold))
			rangeEnd = int(math.Round(nextValue - 1))
		}

		factor := 0.0
		if len(colorStops) > 1 {
			factor = float64(index) / float64(len(colorStops)-1)
		}
		intervalSize := float64(rangeEnd - rangeStart)

		var stats *Stats
		if hist != nil {
			stats = hist.GetStats(float64(rangeStart), float64(rangeEnd))
			if stats.Pixels == 0 {
				output = append(output, colorStop{value: threshold})
				continue
			}
		}

		color := -1.0
		switch strategy {
		case FillSpread:
			// Less saturated fills toward the unsaturated end of the
			// range.
			spread := intervalSize * math.Max(0.5, fullRange/255) * factor
			if blackOnWhite {
				color = float64(rangeStart) + spread
			} else {
				color = float64(rangeEnd) - spread
			}
		case FillDominant:
			tol := clampInt(int(intervalSize), 1, 5)
			color = float64(hist.DominantColor(float64(rangeStart), float64(rangeEnd), tol))
		case FillMean:
			color = stats.Levels.Mean
		case FillMedian:
			color = stats.Levels.Median
		}

		// Keep adjacent layers from landing on nearly the same grey by
		// reserving a tenth of the interval.
		if index != 0 && color != -1 {
			margin := math.Round(intervalSize * 0.1)
			if blackOnWhite {
				color = clampFloat(color, float64(rangeStart), float64(rangeEnd)-margin)
			} else {
				color = clampFloat(color, float64(rangeStart)+margin, float64(rangeEnd))
			}
		}

		intensity := 0.0
		if color != -1 {
			if blackOnWhite {
				intensity = (255 - color) / 255
			} else {
				intensity = color / 255
			}
		}
		output = append(output, colorStop{value: threshold, colorIntensity: intensity})
	}
	return output
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// addExtraColorStop appends one more layer when the last range is wider
// than 25 grey levels and still unsaturated, so fine detail at the dark
// (or bright) extreme is not flattened away.
func (pz *Posterizer) addExtraColorStop(ranges []colorStop) []colorStop {
	o := &pz.params
	blackOnWhite := o.BlackOnWhite
	last := ranges[len(ranges)-1]

	lastRangeFrom := 0.0
	lastRangeTo := last.value
	if !blackOnWhite {
		lastRangeFrom = last.value
		lastRangeTo = 255
	}

	if lastRangeTo-lastRangeFrom <= 25 || last.colorIntensity == 1 {
		return ranges
	}

	hist := pz.histogram()
	levels := hist.GetStats(lastRangeFrom, lastRangeTo).Levels

	potentialNewStop := 25.0
	if levels.Mean+levels.StdDev <= 25 {
		potentialNewStop = levels.Mean + levels.StdDev
	} else if levels.Mean-levels.StdDev <= 25 {
		potentialNewStop = levels.Mean - levels.StdDev
	}
	newColorStop := math.Round(potentialNewStop)

	var mean float64
	if blackOnWhite {
		mean = hist.GetStats(0, newColorStop).Levels.Mean
	} else {
		mean = hist.GetStats(newColorStop, 255).Levels.Mean
	}

	intensity := 0.0
	if !math.IsNaN(mean) {
		if blackOnWhite {
			intensity = (255 - mean) / 255
		} else {
			intensity = mean / 255
		}
	}

	base := 0.0
	if !blackOnWhite {
		base = 255
	}
	return append(ranges, colorStop{
		value:          math.Abs(base - newColorStop),
		colorIntensity: intensity,
	})
}

// pathTags renders one <path> element per surviving color stop. Layers
// are emitted back to front, each with a fill-opacity chosen so the
// stack composites to the layer's intended intensity over the layers
// beneath it.
func (pz *Posterizer) pathTags(noFillColor bool) ([]string, error) {
	if !pz.potrace.imageLoaded {
		return nil, ErrImageNotLoaded
	}

	ranges := pz.getRanges()

	if len(ranges) >= 10 {
		ranges = pz.addExtraColorStop(ranges)
	}

	actualPrevLayersOpacity := 0.0
	tags := make([]string, 0, len(ranges))

	for _, stop := range ranges {
		thisLayerOpacity := stop.colorIntensity
		if thisLayerOpacity == 0 {
			tags = append(tags, "")
			continue
		}

		var calculatedOpacity float64
		if actualPrevLayersOpacity == 0 || thisLayerOpacity == 1 {
			calculatedOpacity = thisLayerOpacity
		} else {
			calculatedOpacity = (actualPrevLayersOpacity - thisLayerOpacity) /
				(actualPrevLayersOpacity - 1)
			calculatedOpacity = math.Round(calculatedOpacity*1000) / 1000
			calculatedOpacity = clampFloat(calculatedOpacity, 0, 1)
		}

		actualPrevLayersOpacity += (1 - actualPrevLayersOpacity) * calculatedOpacity

		if err := pz.potrace.SetOptions(WithThreshold(stop.value)); err != nil {
			return nil, err
		}

		fill := ColorAuto
		if noFillColor {
			fill = ""
		}
		element, err := pz.potrace.pathTagOpacity(fill, nil, fmt.Sprintf("%.3f", calculatedOpacity))
		if err != nil {
			return nil, err
		}

		if calculatedOpacity == 0 || strings.Contains(element, ` d=""`) {
			tags = append(tags, "")
		} else {
			tags = append(tags, element)
		}
	}

	return tags, nil
}

// Symbol wraps the layered paths in a reusable <symbol> element.
func (pz *Posterizer) Symbol(id string) (string, error) {
	tags, err := pz.pathTags(true)
	if err != nil {
		return "", err
	}
	w, h := pz.potrace.luminance.W, pz.potrace.luminance.H
	return fmt.Sprintf(`<symbol viewBox="0 0 %d %d" id="%s">%s</symbol>`,
		w, h, id, strings.Join(tags, "")), nil
}

// SVG renders the layered SVG document.
func (pz *Posterizer) SVG() (string, error) {
	tags, err := pz.pathTags(false)
	if err != nil {
		return "", err
	}
	w, h := pz.potrace.luminance.W, pz.potrace.luminance.H

	lines := []string{svgOpen(w, h)}
	if rect := backgroundRect(pz.params.Background); rect != "" {
		lines = append(lines, "\t"+rect)
	}
	for _, tag := range tags {
		if tag != "" {
			lines = append(lines, "\t"+tag)
		}
	}
	lines = append(lines, "</svg>")
	return strings.Join(lines, "\n"), nil
}
