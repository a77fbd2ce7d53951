package vtrace

import (
	"fmt"
	"image"
	"math"
	"sort"
)

const (
	colorDepth    = 256
	colorRangeEnd = colorDepth - 1
)

// HistogramMode selects the channel a histogram is built over.
type HistogramMode string

// Histogram channel modes.
const (
	ModeLuminance HistogramMode = "luminance"
	ModeR         HistogramMode = "r"
	ModeG         HistogramMode = "g"
	ModeB         HistogramMode = "b"
)

// LevelStats describes the grey levels occurring in a histogram segment.
type LevelStats struct {
	Mean   float64
	Median float64
	StdDev float64
	Unique int
}

// PixelsPerLevelStats describes how pixels distribute over the levels of
// a segment.
type PixelsPerLevelStats struct {
	Mean   float64
	Median float64
	Peak   int
}

// Stats aggregates the statistics of a histogram segment.
type Stats struct {
	Levels         LevelStats
	PixelsPerLevel PixelsPerLevelStats
	Pixels         int
}

// Histogram counts pixels per 8-bit level of one channel. The
// frequency-sorted index and the Otsu between-class lookup table are
// built lazily and cached, as are per-segment stats.
type Histogram struct {
	Data   [colorDepth]int
	Pixels int

	sortedIndexes []int
	cachedStats   map[[2]int]*Stats
	lookupTableH  []float64
}

func histIndex(x, y int) int { return colorDepth*x + y }

// normalizeMinMax clamps a segment to 0..255 after rounding. min and max
// may be passed as -1 to mean the respective end of the range.
func normalizeMinMax(levelMin, levelMax float64) (int, int, error) {
	lo := 0
	if levelMin >= 0 {
		lo = clampInt(int(math.Round(levelMin)), 0, colorRangeEnd)
	}
	hi := colorRangeEnd
	if levelMax >= 0 {
		hi = clampInt(int(math.Round(levelMax)), 0, colorRangeEnd)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%w: invalid histogram range %d..%d", ErrInvalidParameter, lo, hi)
	}
	return lo, hi, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NewHistogram builds a histogram from an image over the given channel.
// Translucent pixels are composited over white first, matching the
// luminance extraction used for tracing.
func NewHistogram(img image.Image, mode HistogramMode) *Histogram {
	h := &Histogram{cachedStats: make(map[[2]int]*Stats)}
	b := img.Bounds()
	h.Pixels = b.Dx() * b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := overWhite(img.At(x, y).RGBA())
			var v uint8
			switch mode {
			case ModeR:
				v = r
			case ModeG:
				v = g
			case ModeB:
				v = bl
			default:
				v = luminance(r, g, bl)
			}
			h.Data[v]++
		}
	}
	return h
}

// histogramOfGray builds a histogram directly from a luminance map.
func histogramOfGray(g *GrayMap) *Histogram {
	h := &Histogram{cachedStats: make(map[[2]int]*Stats)}
	h.Pixels = len(g.Data)
	for _, v := range g.Data {
		h.Data[v]++
	}
	return h
}

// getSortedIndexes returns the levels 0..255 ordered from least to most
// used.
func (h *Histogram) getSortedIndexes() []int {
	if h.sortedIndexes != nil {
		return h.sortedIndexes
	}
	indexes := make([]int, colorDepth)
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return h.Data[indexes[a]] < h.Data[indexes[b]]
	})
	h.sortedIndexes = indexes
	return indexes
}

// buildLookupTable fills the 256x256 between-class weight table
// H[a][b] = S(a..b)^2 / P(a..b) from the P and S prefix tables. It is
// built once and reused by every thresholding query.
func (h *Histogram) buildLookupTable() []float64 {
	p := make([]float64, colorDepth*colorDepth)
	s := make([]float64, colorDepth*colorDepth)
	tbl := make([]float64, colorDepth*colorDepth)
	pixelsTotal := float64(h.Pixels)

	for i := 1; i < colorDepth; i++ {
		idx := histIndex(i, i)
		tmp := float64(h.Data[i]) / pixelsTotal
		p[idx] = tmp
		s[idx] = float64(i) * tmp
	}

	for i := 1; i < colorDepth-1; i++ {
		tmp := float64(h.Data[i+1]) / pixelsTotal
		idx := histIndex(1, i)
		p[idx+1] = p[idx] + tmp
		s[idx+1] = s[idx] + float64(i+1)*tmp
	}

	for i := 2; i < colorDepth; i++ {
		for j := i + 1; j < colorDepth; j++ {
			p[histIndex(i, j)] = p[histIndex(1, j)] - p[histIndex(1, i-1)]
			s[histIndex(i, j)] = s[histIndex(1, j)] - s[histIndex(1, i-1)]
		}
	}

	for i := 1; i < colorDepth; i++ {
		for j := i + 1; j < colorDepth; j++ {
			idx := histIndex(i, j)
			if p[idx] != 0 {
				tbl[idx] = s[idx] * s[idx] / p[idx]
			}
		}
	}

	h.lookupTableH = tbl
	return tbl
}

// MultilevelThresholding finds amount thresholds between levelMin and
// levelMax (pass -1 for the full range) maximizing the between-class
// variance. The enumeration is exhaustive over increasing tuples, so
// cost grows combinatorially with amount.
func (h *Histogram) MultilevelThresholding(amount int, levelMin, levelMax float64) []int {
	lo, hi, err := normalizeMinMax(levelMin, levelMax)
	if err != nil {
		return nil
	}

	if a := hi - lo - 2; amount > a {
		amount = a
	}
	if amount < 1 {
		return nil
	}

	if amount > 4 {
		Logger().Warn("vtrace: computing more than 4 thresholds may take a long time", "amount", amount)
	}

	if h.lookupTableH == nil {
		h.buildLookupTable()
	}
	tbl := h.lookupTableH

	maxSig := 0.0
	var colorStops []int
	indexes := make([]int, amount)

	var iterate func(startingPoint int, prevVariance float64, depth int)
	iterate = func(startingPoint int, prevVariance float64, depth int) {
		sp := startingPoint + 1
		for i := sp; i <= hi-amount+depth; i++ {
			variance := prevVariance + tbl[histIndex(sp, i)]
			indexes[depth] = i
			if depth+1 < amount {
				iterate(i, variance, depth+1)
			} else {
				variance += tbl[histIndex(i+1, hi)]
				if maxSig < variance {
					maxSig = variance
					colorStops = append(colorStops[:0], indexes...)
				}
			}
		}
	}
	iterate(lo, 0, 0)

	return colorStops
}

// AutoThreshold finds a single Otsu threshold for the segment, or -1 if
// the segment is too narrow to split.
func (h *Histogram) AutoThreshold(levelMin, levelMax float64) int {
	v := h.MultilevelThresholding(1, levelMin, levelMax)
	if len(v) == 0 {
		return -1
	}
	return v[0]
}

// DominantColor returns the most frequent level of the segment. Each
// level i is scored by the summed counts of a window of tolerance levels
// centred on i (only i itself when tolerance is 1; an even window reaches
// one level further above i than below). The best-scoring level wins;
// ties go to the level with the higher own count. Returns -1 when no
// window holds any pixels.
func (h *Histogram) DominantColor(levelMin, levelMax float64, tolerance int) int {
	lo, hi, err := normalizeMinMax(levelMin, levelMax)
	if err != nil {
		return -1
	}

	if lo == hi {
		if h.Data[lo] > 0 {
			return lo
		}
		return -1
	}

	if tolerance < 1 {
		tolerance = 1
	}
	first := -((tolerance - 1) / 2)

	dominantIndex := -1
	dominantValue := -1
	for i := lo; i <= hi; i++ {
		tmp := 0
		for j := first; j < first+tolerance; j++ {
			if idx := i + j; idx >= 0 && idx <= colorRangeEnd {
				tmp += h.Data[idx]
			}
		}
		sumIsBigger := tmp > dominantValue
		sumEqualButCenterBigger := tmp == dominantValue &&
			(dominantIndex < 0 || h.Data[i] > h.Data[dominantIndex])
		if sumIsBigger || sumEqualButCenterBigger {
			dominantIndex = i
			dominantValue = tmp
		}
	}

	if dominantValue <= 0 {
		return -1
	}
	return dominantIndex
}

// GetStats computes (and caches) the statistics of a histogram segment.
// An empty segment yields NaN levels and zero pixels.
func (h *Histogram) GetStats(levelMin, levelMax float64) *Stats {
	lo, hi, err := normalizeMinMax(levelMin, levelMax)
	if err != nil {
		return emptyStats()
	}
	if h.cachedStats == nil {
		h.cachedStats = make(map[[2]int]*Stats)
	}
	key := [2]int{lo, hi}
	if s, ok := h.cachedStats[key]; ok {
		return s
	}

	pixelsTotal := 0
	allPixelValuesCombined := 0
	uniqueValues := 0
	mostPixelsPerLevel := 0
	for i := lo; i <= hi; i++ {
		cnt := h.Data[i]
		pixelsTotal += cnt
		allPixelValuesCombined += cnt * i
		if cnt > 0 {
			uniqueValues++
		}
		if cnt > mostPixelsPerLevel {
			mostPixelsPerLevel = cnt
		}
	}

	if pixelsTotal == 0 {
		s := emptyStats()
		h.cachedStats[key] = s
		return s
	}

	meanValue := float64(allPixelValuesCombined) / float64(pixelsTotal)
	pixelsPerLevelMean := math.NaN()
	if hi > lo {
		pixelsPerLevelMean = float64(pixelsTotal) / float64(hi-lo)
	}
	pixelsPerLevelMedian := math.NaN()
	if uniqueValues > 0 {
		pixelsPerLevelMedian = float64(pixelsTotal) / float64(uniqueValues)
	}
	medianPixelIndex := pixelsTotal / 2

	tmpPixelsIterated := 0
	tmpSumOfDeviations := 0.0
	medianValue := math.NaN()
	haveMedian := false

	for _, idx := range h.getSortedIndexes() {
		if idx < lo || idx > hi {
			continue
		}
		count := h.Data[idx]
		tmpPixelsIterated += count
		d := float64(idx) - meanValue
		tmpSumOfDeviations += d * d * float64(count)

		if !haveMedian && tmpPixelsIterated >= medianPixelIndex {
			medianValue = float64(idx)
			haveMedian = true
		}
	}

	s := &Stats{
		Levels: LevelStats{
			Mean:   meanValue,
			Median: medianValue,
			StdDev: math.Sqrt(tmpSumOfDeviations / float64(pixelsTotal)),
			Unique: uniqueValues,
		},
		PixelsPerLevel: PixelsPerLevelStats{
			Mean:   pixelsPerLevelMean,
			Median: pixelsPerLevelMedian,
			Peak:   mostPixelsPerLevel,
		},
		Pixels: pixelsTotal,
	}
	h.cachedStats[key] = s
	return s
}

func emptyStats() *Stats {
	return &Stats{
		Levels: LevelStats{
			Mean:   math.NaN(),
			Median: math.NaN(),
			StdDev: math.NaN(),
		},
		PixelsPerLevel: PixelsPerLevelStats{
			Mean:   math.NaN(),
			Median: math.NaN(),
		},
	}
}
