package vtrace

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"

	// Register the decoders the loader accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/vtrace/internal/bitmap"
)

// GrayMap is an 8-bit luminance grid extracted from a source image.
// Translucent pixels are composited over white before conversion, so the
// background behind non-opaque regions reads as white.
type GrayMap struct {
	W, H int
	Data []uint8

	histogram *Histogram
}

// luminance converts 8-bit RGB to the 8-bit Rec.709 weighted sum.
func luminance(r, g, b uint8) uint8 {
	return uint8(math.Round(0.2126*float64(r) + 0.7153*float64(g) + 0.0721*float64(b)))
}

// overWhite composites a 16-bit premultiplied RGBA sample over a white
// background and reduces it to 8-bit channels.
func overWhite(r, g, b, a uint32) (uint8, uint8, uint8) {
	white := uint32(0xffff - a)
	return uint8((r + white) >> 8), uint8((g + white) >> 8), uint8((b + white) >> 8)
}

// NewGrayMap extracts the luminance grid from an image.
func NewGrayMap(img image.Image) *GrayMap {
	b := img.Bounds()
	g := &GrayMap{
		W:    b.Dx(),
		H:    b.Dy(),
		Data: make([]uint8, b.Dx()*b.Dy()),
	}

	switch src := img.(type) {
	case *image.Gray:
		// Grey pixels are fully opaque and the Rec.709 weights sum to
		// one, so the luminance is the pixel value itself.
		for y := 0; y < g.H; y++ {
			row := src.Pix[y*src.Stride:]
			copy(g.Data[y*g.W:(y+1)*g.W], row[:g.W])
		}
	case *image.NRGBA:
		for y := 0; y < g.H; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < g.W; x++ {
				r, gr, bl, a := row[4*x], row[4*x+1], row[4*x+2], row[4*x+3]
				opacity := float64(a) / 255
				rr := 255 + (float64(r)-255)*opacity
				gg := 255 + (float64(gr)-255)*opacity
				bb := 255 + (float64(bl)-255)*opacity
				g.Data[y*g.W+x] = luminance(uint8(math.Round(rr)), uint8(math.Round(gg)), uint8(math.Round(bb)))
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, gr, bl := overWhite(img.At(x, y).RGBA())
				g.Data[(y-b.Min.Y)*g.W+(x-b.Min.X)] = luminance(r, gr, bl)
			}
		}
	}
	return g
}

// Histogram returns the luminance histogram of the map, building it on
// first use.
func (g *GrayMap) Histogram() *Histogram {
	if g.histogram == nil {
		g.histogram = histogramOfGray(g)
	}
	return g.histogram
}

// Threshold produces the 1-bit bitmap for tracing. With blackOnWhite,
// luminance at or below the threshold becomes foreground; otherwise
// luminance at or above it does.
func (g *GrayMap) Threshold(threshold float64, blackOnWhite bool) *bitmap.Bitmap {
	bm := bitmap.New(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			lum := float64(g.Data[y*g.W+x])
			if blackOnWhite {
				if lum <= threshold {
					bm.Set(x, y)
				}
			} else if lum >= threshold {
				bm.Set(x, y)
			}
		}
	}
	return bm
}

// decodeImage turns a loader source into an image.Image. Accepted
// sources: an image.Image (used as is), an io.Reader, raw encoded bytes,
// or a file path.
func decodeImage(src any) (image.Image, error) {
	switch s := src.(type) {
	case image.Image:
		return s, nil
	case io.Reader:
		img, _, err := image.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return img, nil
	case []byte:
		img, _, err := image.Decode(bytes.NewReader(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return img, nil
	case string:
		f, err := os.Open(filepath.Clean(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		defer func() { _ = f.Close() }()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: unsupported image source %T", ErrDecode, src)
	}
}
