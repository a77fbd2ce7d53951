package vtrace

import (
	"fmt"
	"strings"
)

// Potrace traces a single binary threshold of an image into smooth
// vector contours and renders them as SVG.
//
// The usual flow is New, LoadImage, then SVG or PathTag. Parameters may
// be adjusted at any point; changing a tracing parameter after a load
// invalidates the cached curves and the next output call retraces.
//
// A Potrace instance is not safe for concurrent use: the pipeline is
// strictly single-threaded and all state belongs to the instance.
type Potrace struct {
	luminance *GrayMap
	pathlist  []*Path
	roots     []*Path

	imageLoaded bool
	processed   bool

	opts       Options
	onProgress ProgressFunc
}

// New creates a Potrace with default parameters, adjusted by the given
// options.
func New(opts ...Option) (*Potrace, error) {
	p := &Potrace{opts: DefaultOptions()}
	if err := p.SetOptions(opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// SetOptions applies parameter changes. Validation is eager: on error
// nothing is changed. Changing a parameter that affects tracing (rather
// than presentation) drops the cached curves.
func (p *Potrace) SetOptions(opts ...Option) error {
	next := p.opts
	next.StepValues = append([]int(nil), p.opts.StepValues...)
	for _, opt := range opts {
		if err := opt(&next); err != nil {
			return err
		}
	}
	if !tracingEqual(p.opts, next) {
		p.processed = false
	}
	p.opts = next
	return nil
}

// Options returns a copy of the current parameters.
func (p *Potrace) Options() Options {
	o := p.opts
	o.StepValues = append([]int(nil), p.opts.StepValues...)
	return o
}

// SetProgressFunc installs a progress callback for the tracing pipeline.
// Pass nil to remove it.
func (p *Potrace) SetProgressFunc(fn ProgressFunc) {
	p.onProgress = fn
}

// LoadImage reads the source into a luminance grid and makes it the
// instance's current image, releasing any previous state. Accepted
// sources: image.Image, io.Reader, []byte of encoded data, or a file
// path.
func (p *Potrace) LoadImage(src any) error {
	p.imageLoaded = false
	p.processed = false
	p.luminance = nil
	p.pathlist = nil
	p.roots = nil

	img, err := decodeImage(src)
	if err != nil {
		return err
	}
	p.luminance = NewGrayMap(img)
	p.imageLoaded = true
	return nil
}

// Trace runs the full pipeline if the current parameters have not been
// traced yet. Output methods call it implicitly.
func (p *Potrace) Trace() error {
	if !p.imageLoaded {
		return ErrImageNotLoaded
	}
	if p.processed {
		return nil
	}

	threshold := p.opts.Threshold
	if threshold == ThresholdAuto {
		if t := p.luminance.Histogram().AutoThreshold(-1, -1); t >= 0 {
			threshold = float64(t)
		} else {
			threshold = 128
		}
	}

	bm := p.luminance.Threshold(threshold, p.opts.BlackOnWhite)
	p.pathlist = decompose(bm, p.opts.TurdSize, p.opts.TurnPolicy)
	p.roots = buildTree(p.pathlist)
	Logger().Debug("vtrace: decomposed bitmap",
		"paths", len(p.pathlist), "threshold", threshold)

	p.processPath()
	p.processed = true
	return nil
}

// processPath runs the fitting pipeline over every decomposed contour,
// splitting progress evenly across paths and stages.
func (p *Potrace) processPath() {
	n := len(p.pathlist)
	pr := newProgress(p.onProgress)

	for i, path := range p.pathlist {
		sub := pr.sub(float64(i)/float64(n), float64(i+1)/float64(n))

		path.calcSums()
		sub.report(0.2)
		path.calcLon()
		sub.report(0.4)
		path.bestPolygon()
		sub.report(0.6)
		path.adjustVertices()
		sub.report(0.8)

		if path.Sign == SignHole {
			path.Curve.reverse()
		}
		path.Curve.smooth(p.opts.AlphaMax)

		if p.opts.OptCurve {
			if oc := safeOptiCurve(path.Curve, p.opts.OptTolerance); oc != nil {
				path.Curve = oc
			}
		}
		sub.report(1)
	}
	pr.report(1)
}

// safeOptiCurve shields the pipeline from a failing optimization stage:
// the unoptimized curve is a valid result, so any failure here degrades
// output instead of aborting it.
func safeOptiCurve(c *Curve, opttolerance float64) (oc *Curve) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("vtrace: keeping unoptimized curve",
				"err", ErrOptimizationIncomplete, "cause", r)
			oc = nil
		}
	}()
	return c.optiCurve(opttolerance)
}

// Paths returns the traced contours in discovery order. Valid after a
// successful Trace (or any output call).
func (p *Potrace) Paths() []*Path { return p.pathlist }

// Tree returns the roots of the contour containment forest.
func (p *Potrace) Tree() []*Path { return p.roots }

// resolveFill maps ColorAuto through the configured color down to the
// concrete default for the traced side.
func (p *Potrace) resolveFill(fill string) string {
	if fill == ColorAuto {
		fill = p.opts.Color
	}
	if fill == ColorAuto {
		if p.opts.BlackOnWhite {
			return "black"
		}
		return "white"
	}
	return fill
}

// pathData renders all traced contours into one SVG path data string.
func (p *Potrace) pathData(scale Scale) string {
	parts := make([]string, 0, len(p.pathlist))
	for _, path := range p.pathlist {
		parts = append(parts, renderCurve(path.Curve, scale))
	}
	return strings.Join(parts, " ")
}

// pathTagOpacity is the shared implementation of PathTag, with the
// optional fill-opacity attribute used by posterizer layers.
func (p *Potrace) pathTagOpacity(fill string, scale *Scale, fillOpacity string) (string, error) {
	if err := p.Trace(); err != nil {
		return "", err
	}
	sc := unitScale()
	if scale != nil {
		sc = *scale
	}
	return pathTag(p.pathData(sc), p.resolveFill(fill), fillOpacity), nil
}

// PathTag renders the traced image as a single <path> element. Pass
// ColorAuto to fill with the configured color, "" to leave the fill
// attribute empty, or any CSS color to override. A nil scale emits
// image coordinates.
func (p *Potrace) PathTag(fill string, scale *Scale) (string, error) {
	return p.pathTagOpacity(fill, scale, "")
}

// Symbol wraps the traced paths in a reusable <symbol> element carrying
// the image's viewBox and no fill, so a <use> reference can color it.
func (p *Potrace) Symbol(id string) (string, error) {
	tag, err := p.PathTag("", nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<symbol viewBox="0 0 %d %d" id="%s">%s</symbol>`,
		p.luminance.W, p.luminance.H, id, tag), nil
}

// SVG renders the full SVG document, honoring the configured output
// size and background.
func (p *Potrace) SVG() (string, error) {
	if !p.imageLoaded {
		return "", ErrImageNotLoaded
	}

	w, h := p.luminance.W, p.luminance.H
	scale := unitScale()
	if p.opts.Width > 0 {
		w = p.opts.Width
		scale.X = float64(w) / float64(p.luminance.W)
	}
	if p.opts.Height > 0 {
		h = p.opts.Height
		scale.Y = float64(h) / float64(p.luminance.H)
	}

	tag, err := p.PathTag(ColorAuto, &scale)
	if err != nil {
		return "", err
	}

	lines := []string{svgOpen(w, h)}
	if rect := backgroundRect(p.opts.Background); rect != "" {
		lines = append(lines, "\t"+rect)
	}
	lines = append(lines, "\t"+tag, "</svg>")
	return strings.Join(lines, "\n"), nil
}
