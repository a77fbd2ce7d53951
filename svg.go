package vtrace

import (
	"fmt"
	"strings"
)

// Scale multiplies output coordinates per axis; used when the SVG is
// emitted at a size other than the source image.
type Scale struct {
	X, Y float64
}

func unitScale() Scale { return Scale{X: 1, Y: 1} }

// fixed formats a coordinate with at most three decimals, eliding a
// trailing ".000".
func fixed(f float64) string {
	s := fmt.Sprintf("%.3f", f)
	return strings.TrimSuffix(s, ".000")
}

// renderCurve emits the SVG path data for one curve: M to the closing
// point of the last segment, then C for every Bezier and a pair of L
// moves for every corner, and a final Z closing the contour.
func renderCurve(c *Curve, scale Scale) string {
	var b strings.Builder

	start := c.C[(c.N-1)*3+2]
	fmt.Fprintf(&b, "M %s %s", fixed(start.X*scale.X), fixed(start.Y*scale.Y))

	for i := 0; i < c.N; i++ {
		p0 := c.C[3*i]
		p1 := c.C[3*i+1]
		p2 := c.C[3*i+2]
		if c.Tag[i] == TagCurve {
			fmt.Fprintf(&b, " C %s %s, %s %s, %s %s",
				fixed(p0.X*scale.X), fixed(p0.Y*scale.Y),
				fixed(p1.X*scale.X), fixed(p1.Y*scale.Y),
				fixed(p2.X*scale.X), fixed(p2.Y*scale.Y))
		} else {
			fmt.Fprintf(&b, " L %s %s %s %s",
				fixed(p1.X*scale.X), fixed(p1.Y*scale.Y),
				fixed(p2.X*scale.X), fixed(p2.Y*scale.Y))
		}
	}
	b.WriteString(" Z")
	return b.String()
}

// pathTag assembles a <path> element. fillOpacity is included verbatim
// when non-empty, directly after the tag name, matching the attribute
// order of layered posterizer output.
func pathTag(d, fill, fillOpacity string) string {
	var b strings.Builder
	b.WriteString("<path")
	if fillOpacity != "" {
		fmt.Fprintf(&b, " fill-opacity=%q", fillOpacity)
	}
	fmt.Fprintf(&b, " d=%q stroke=\"none\" fill=%q fill-rule=\"evenodd\"/>", d, fill)
	return b.String()
}

// svgOpen emits the document opening tag for the given output size.
func svgOpen(w, h int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" version="1.1">`, w, h, w, h)
}

// backgroundRect emits the background rectangle, or "" for a
// transparent background.
func backgroundRect(background string) string {
	if background == ColorTransparent {
		return ""
	}
	return fmt.Sprintf(`<rect x="0" y="0" width="100%%" height="100%%" fill="%s" />`, background)
}
