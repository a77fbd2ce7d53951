package vtrace

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{r: 0, g: 0, b: 0, want: 0},
		{r: 255, g: 255, b: 255, want: 255},
		{r: 255, g: 0, b: 0, want: 54},  // round(0.2126*255)
		{r: 0, g: 255, b: 0, want: 182}, // round(0.7153*255)
		{r: 0, g: 0, b: 255, want: 18},  // round(0.0721*255)
		{r: 100, g: 100, b: 100, want: 100},
	}
	for _, tt := range tests {
		if got := luminance(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("luminance(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestGrayMapFromGray(t *testing.T) {
	img := grayImage(3, 2, func(x, y int) uint8 { return uint8(10*y + x) })
	g := NewGrayMap(img)

	if g.W != 3 || g.H != 2 {
		t.Fatalf("size = %dx%d, want 3x2", g.W, g.H)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got, want := g.Data[y*3+x], uint8(10*y+x); got != want {
				t.Errorf("Data[%d,%d] = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestGrayMapAlphaOverWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})   // opaque black
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})     // fully transparent
	img.SetNRGBA(2, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 127})   // half transparent

	g := NewGrayMap(img)
	if g.Data[0] != 0 {
		t.Errorf("opaque black = %d, want 0", g.Data[0])
	}
	if g.Data[1] != 255 {
		t.Errorf("transparent pixel = %d, want 255 (white backdrop)", g.Data[1])
	}
	if g.Data[2] < 120 || g.Data[2] > 135 {
		t.Errorf("half-transparent black = %d, want mid grey", g.Data[2])
	}
}

func TestGrayMapGenericPath(t *testing.T) {
	// RGBA (premultiplied) exercises the generic conversion.
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 0, G: 0, B: 0, A: 255})

	g := NewGrayMap(img)
	if g.Data[0] != 255 || g.Data[1] != 0 {
		t.Errorf("Data = %v, want [255 0]", g.Data)
	}
}

func TestThresholdBitmap(t *testing.T) {
	g := &GrayMap{W: 4, H: 1, Data: []uint8{0, 100, 128, 255}}

	dark := g.Threshold(128, true)
	for x, want := range []bool{true, true, true, false} {
		if dark.Get(x, 0) != want {
			t.Errorf("blackOnWhite: pixel %d = %v, want %v", x, dark.Get(x, 0), want)
		}
	}

	bright := g.Threshold(128, false)
	for x, want := range []bool{false, false, true, true} {
		if bright.Get(x, 0) != want {
			t.Errorf("whiteOnBlack: pixel %d = %v, want %v", x, bright.Get(x, 0), want)
		}
	}
}

func TestLoadImageFromEncoded(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, squareImage()); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Bytes source.
	if err := p.LoadImage(buf.Bytes()); err != nil {
		t.Fatalf("LoadImage bytes: %v", err)
	}
	if err := p.Trace(); err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(p.Paths()) != 1 || p.Paths()[0].Area != 25 {
		t.Errorf("decoded trace mismatch: %d paths", len(p.Paths()))
	}

	// Reader source.
	if err := p.LoadImage(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("LoadImage reader: %v", err)
	}
	if err := p.Trace(); err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(p.Paths()) != 1 {
		t.Errorf("reader trace mismatch: %d paths", len(p.Paths()))
	}
}
