package vtrace

import (
	"math"
	"testing"
)

// flatHistogram builds a histogram directly from level counts.
func flatHistogram(counts map[int]int) *Histogram {
	h := &Histogram{}
	for level, n := range counts {
		h.Data[level] = n
		h.Pixels += n
	}
	return h
}

func TestAutoThresholdBimodal(t *testing.T) {
	// 40% of pixels at level 30, 60% at level 200.
	h := flatHistogram(map[int]int{30: 4000, 200: 6000})

	got := h.AutoThreshold(-1, -1)
	if got < 30 || got >= 200 {
		t.Errorf("AutoThreshold = %d, want a split between the modes [30,200)", got)
	}
}

func TestAutoThresholdEmptyRange(t *testing.T) {
	h := flatHistogram(map[int]int{100: 10})
	if got := h.AutoThreshold(120, 121); got != -1 {
		t.Errorf("AutoThreshold on a too-narrow segment = %d, want -1", got)
	}
}

func TestMultilevelThresholding(t *testing.T) {
	h := flatHistogram(map[int]int{20: 1000, 120: 1000, 220: 1000})

	stops := h.MultilevelThresholding(2, -1, -1)
	if len(stops) != 2 {
		t.Fatalf("got %d thresholds, want 2", len(stops))
	}
	if stops[0] >= stops[1] {
		t.Fatalf("thresholds %v not increasing", stops)
	}
	if stops[0] < 20 || stops[0] >= 120 {
		t.Errorf("first threshold %d does not separate modes 20 and 120", stops[0])
	}
	if stops[1] < 120 || stops[1] >= 220 {
		t.Errorf("second threshold %d does not separate modes 120 and 220", stops[1])
	}
}

func TestMultilevelThresholdingDegenerate(t *testing.T) {
	h := flatHistogram(map[int]int{10: 100})

	if got := h.MultilevelThresholding(0, -1, -1); got != nil {
		t.Errorf("amount 0: got %v, want nil", got)
	}
	// Amount is clamped by the segment width.
	if got := h.MultilevelThresholding(5, 50, 52); got != nil {
		t.Errorf("narrow segment: got %v, want nil", got)
	}
}

func TestDominantColor(t *testing.T) {
	tests := []struct {
		name      string
		counts    map[int]int
		min, max  float64
		tolerance int
		want      int
	}{
		{
			name:      "single peak",
			counts:    map[int]int{50: 10, 80: 200, 120: 30},
			min:       -1,
			max:       -1,
			tolerance: 1,
			want:      80,
		},
		{
			name:      "restricted range",
			counts:    map[int]int{50: 10, 80: 200, 120: 30},
			min:       90,
			max:       200,
			tolerance: 1,
			want:      120,
		},
		{
			name:      "empty range",
			counts:    map[int]int{50: 10},
			min:       100,
			max:       200,
			tolerance: 1,
			want:      -1,
		},
		{
			name:      "window beats single bin",
			counts:    map[int]int{10: 60, 100: 40, 101: 50, 102: 40},
			min:       -1,
			max:       -1,
			tolerance: 3,
			want:      101,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := flatHistogram(tt.counts)
			if got := h.DominantColor(tt.min, tt.max, tt.tolerance); got != tt.want {
				t.Errorf("DominantColor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	h := flatHistogram(map[int]int{10: 50, 20: 50})

	s := h.GetStats(-1, -1)
	if s.Pixels != 100 {
		t.Errorf("Pixels = %d, want 100", s.Pixels)
	}
	if s.Levels.Mean != 15 {
		t.Errorf("Mean = %v, want 15", s.Levels.Mean)
	}
	if s.Levels.StdDev != 5 {
		t.Errorf("StdDev = %v, want 5", s.Levels.StdDev)
	}
	if s.Levels.Unique != 2 {
		t.Errorf("Unique = %d, want 2", s.Levels.Unique)
	}
	if s.PixelsPerLevel.Peak != 50 {
		t.Errorf("Peak = %d, want 50", s.PixelsPerLevel.Peak)
	}

	// The cache must return the same value for a repeated query.
	if s2 := h.GetStats(-1, -1); s2 != s {
		t.Error("repeated GetStats did not hit the cache")
	}

	empty := h.GetStats(100, 200)
	if empty.Pixels != 0 {
		t.Errorf("empty segment Pixels = %d, want 0", empty.Pixels)
	}
	if !math.IsNaN(empty.Levels.Mean) {
		t.Errorf("empty segment Mean = %v, want NaN", empty.Levels.Mean)
	}
}

func TestHistogramSegmentStats(t *testing.T) {
	h := flatHistogram(map[int]int{10: 50, 20: 50, 200: 300})

	s := h.GetStats(0, 100)
	if s.Pixels != 100 {
		t.Errorf("segment Pixels = %d, want 100", s.Pixels)
	}
	if s.Levels.Mean != 15 {
		t.Errorf("segment Mean = %v, want 15", s.Levels.Mean)
	}
}

func TestHistogramFromGrayMap(t *testing.T) {
	g := &GrayMap{W: 4, H: 1, Data: []uint8{0, 0, 128, 255}}
	h := g.Histogram()

	if h.Pixels != 4 {
		t.Errorf("Pixels = %d, want 4", h.Pixels)
	}
	if h.Data[0] != 2 || h.Data[128] != 1 || h.Data[255] != 1 {
		t.Errorf("unexpected counts: %d at 0, %d at 128, %d at 255",
			h.Data[0], h.Data[128], h.Data[255])
	}
	if g.Histogram() != h {
		t.Error("GrayMap histogram is not cached")
	}
}

func TestNewHistogramModes(t *testing.T) {
	img := grayImage(2, 2, func(x, y int) uint8 { return 100 })

	for _, mode := range []HistogramMode{ModeLuminance, ModeR, ModeG, ModeB} {
		h := NewHistogram(img, mode)
		if h.Pixels != 4 {
			t.Errorf("mode %s: Pixels = %d, want 4", mode, h.Pixels)
		}
		if h.Data[100] != 4 {
			t.Errorf("mode %s: Data[100] = %d, want 4", mode, h.Data[100])
		}
	}
}
