package vtrace

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestOutputBeforeLoad(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.PathTag(ColorAuto, nil); !errors.Is(err, ErrImageNotLoaded) {
		t.Errorf("PathTag error = %v, want ErrImageNotLoaded", err)
	}
	if _, err := p.SVG(); !errors.Is(err, ErrImageNotLoaded) {
		t.Errorf("SVG error = %v, want ErrImageNotLoaded", err)
	}
	if err := p.Trace(); !errors.Is(err, ErrImageNotLoaded) {
		t.Errorf("Trace error = %v, want ErrImageNotLoaded", err)
	}
}

func TestLoadImageErrors(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		src  any
	}{
		{name: "garbage bytes", src: []byte("definitely not an image")},
		{name: "missing file", src: "testdata/no-such-file.png"},
		{name: "unsupported type", src: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.LoadImage(tt.src); !errors.Is(err, ErrDecode) {
				t.Errorf("LoadImage error = %v, want ErrDecode", err)
			}
			if _, err := p.SVG(); !errors.Is(err, ErrImageNotLoaded) {
				t.Errorf("after failed load, SVG error = %v, want ErrImageNotLoaded", err)
			}
		})
	}
}

func TestAllWhiteImage(t *testing.T) {
	img := grayImage(10, 10, func(x, y int) uint8 { return 255 })
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.LoadImage(img); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	tag, err := p.PathTag(ColorAuto, nil)
	if err != nil {
		t.Fatalf("PathTag: %v", err)
	}
	if !strings.Contains(tag, ` d=""`) {
		t.Errorf("all-white path tag should have empty d, got %q", tag)
	}

	svg, err := p.SVG()
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.HasPrefix(svg, "<svg xmlns=") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("malformed SVG document: %q", svg)
	}
}

func TestSVGIdempotent(t *testing.T) {
	p := tracedPotrace(t, squareImage())

	first, err := p.SVG()
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	second, err := p.SVG()
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if first != second {
		t.Error("repeated SVG calls returned different documents")
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	p, err := New(
		WithTurnPolicy(TurnPolicyLeft),
		WithTurdSize(7),
		WithAlphaMax(0.8),
		WithOptCurve(false),
		WithOptTolerance(0.4),
		WithThreshold(100),
		WithBlackOnWhite(false),
		WithColor("red"),
		WithBackground("white"),
		WithSize(300, 200),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := p.Options()
	want := Options{
		TurnPolicy:        TurnPolicyLeft,
		TurdSize:          7,
		AlphaMax:          0.8,
		OptCurve:          false,
		OptTolerance:      0.4,
		Threshold:         100,
		BlackOnWhite:      false,
		Color:             "red",
		Background:        "white",
		Width:             300,
		Height:            200,
		Steps:             StepsAuto,
		FillStrategy:      FillDominant,
		RangeDistribution: RangesAuto,
	}
	if got.StepValues != nil {
		t.Errorf("StepValues = %v, want nil", got.StepValues)
	}
	got.StepValues = nil
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}
}

func TestSetOptionsRejectsAndKeepsState(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = p.SetOptions(WithTurdSize(9), WithThreshold(999))
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("error = %v, want ErrInvalidParameter", err)
	}
	// The failed call must not have applied the valid leading option.
	if got := p.Options().TurdSize; got != 2 {
		t.Errorf("TurdSize = %d after failed SetOptions, want 2", got)
	}
}

func TestParameterChangeInvalidatesCurves(t *testing.T) {
	p := tracedPotrace(t, squareImage())
	if !p.processed {
		t.Fatal("expected processed state after trace")
	}

	// Presentation-only changes keep the cache.
	if err := p.SetOptions(WithColor("red")); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	if !p.processed {
		t.Error("changing the fill color invalidated the cached curves")
	}

	// Tracing parameter changes drop it.
	if err := p.SetOptions(WithTurdSize(0)); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	if p.processed {
		t.Error("changing turd size kept stale curves")
	}
	if _, err := p.SVG(); err != nil {
		t.Fatalf("SVG after invalidation: %v", err)
	}
}

func TestResolveFill(t *testing.T) {
	tests := []struct {
		name         string
		color        string
		blackOnWhite bool
		fill         string
		want         string
	}{
		{name: "auto black", color: ColorAuto, blackOnWhite: true, fill: ColorAuto, want: "black"},
		{name: "auto white", color: ColorAuto, blackOnWhite: false, fill: ColorAuto, want: "white"},
		{name: "configured", color: "#aabbcc", blackOnWhite: true, fill: ColorAuto, want: "#aabbcc"},
		{name: "override", color: "red", blackOnWhite: true, fill: "green", want: "green"},
		{name: "empty override", color: "red", blackOnWhite: true, fill: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(WithColor(tt.color), WithBlackOnWhite(tt.blackOnWhite))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := p.resolveFill(tt.fill); got != tt.want {
				t.Errorf("resolveFill(%q) = %q, want %q", tt.fill, got, tt.want)
			}
		})
	}
}

func TestSymbol(t *testing.T) {
	p := tracedPotrace(t, squareImage())

	sym, err := p.Symbol("glyph")
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	if !strings.HasPrefix(sym, `<symbol viewBox="0 0 10 10" id="glyph">`) {
		t.Errorf("symbol prefix wrong: %q", sym)
	}
	if !strings.Contains(sym, ` fill=""`) {
		t.Errorf("symbol path should carry an empty fill: %q", sym)
	}
	if !strings.HasSuffix(sym, "</symbol>") {
		t.Errorf("symbol suffix wrong: %q", sym)
	}
}

func TestSVGScaling(t *testing.T) {
	p := tracedPotrace(t, squareImage(), WithSize(20, 30))

	svg, err := p.SVG()
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.Contains(svg, `width="20" height="30" viewBox="0 0 20 30"`) {
		t.Errorf("SVG document not scaled: %q", svg)
	}
}

func TestBackgroundRect(t *testing.T) {
	p := tracedPotrace(t, squareImage(), WithBackground("#102030"))

	svg, err := p.SVG()
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.Contains(svg, `<rect x="0" y="0" width="100%" height="100%" fill="#102030" />`) {
		t.Errorf("SVG misses the background rect: %q", svg)
	}
}

func TestBlackOnWhiteInversion(t *testing.T) {
	img := squareImage()

	dark := tracedPotrace(t, img, WithThreshold(128), WithBlackOnWhite(true))
	bright := tracedPotrace(t, img, WithThreshold(128), WithBlackOnWhite(false), WithTurdSize(0))

	if len(dark.Paths()) != 1 {
		t.Fatalf("dark side: %d paths, want 1", len(dark.Paths()))
	}

	// Tracing the bright side of the same threshold turns the square
	// into a hole of the surrounding region.
	if len(bright.Paths()) != 2 {
		t.Fatalf("bright side: %d paths, want 2", len(bright.Paths()))
	}
	if bright.Paths()[0].Sign != SignOuter || bright.Paths()[1].Sign != SignHole {
		t.Errorf("bright side signs = %c,%c, want +,-",
			bright.Paths()[0].Sign, bright.Paths()[1].Sign)
	}
	if got, want := bright.Paths()[1].Area, dark.Paths()[0].Area; got != want {
		t.Errorf("hole area %d differs from square area %d", got, want)
	}
}

func TestAutoThresholdTrace(t *testing.T) {
	// Bimodal image: a dark block at level 30 on a background at 200.
	img := grayImage(100, 100, func(x, y int) uint8 {
		if x < 40 {
			return 30
		}
		return 200
	})
	p := tracedPotrace(t, img)

	if len(p.Paths()) != 1 {
		t.Fatalf("got %d paths, want 1", len(p.Paths()))
	}
	path := p.Paths()[0]
	if path.Sign != SignOuter {
		t.Errorf("Sign = %c, want +", path.Sign)
	}
	if path.Area != 40*100 {
		t.Errorf("Area = %d, want %d: auto threshold failed to isolate the dark block",
			path.Area, 40*100)
	}
}

func TestProgressReporting(t *testing.T) {
	var seen []float64
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.SetProgressFunc(func(f float64) { seen = append(seen, f) })
	if err := p.LoadImage(squareImage()); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if err := p.Trace(); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	if len(seen) == 0 {
		t.Fatal("no progress reported")
	}
	for i, f := range seen {
		if f < 0 || f > 1 {
			t.Errorf("progress %d = %v out of [0,1]", i, f)
		}
		if i > 0 && f < seen[i-1] {
			t.Errorf("progress went backwards: %v after %v", f, seen[i-1])
		}
	}
	if seen[len(seen)-1] != 1 {
		t.Errorf("final progress = %v, want 1", seen[len(seen)-1])
	}
}
