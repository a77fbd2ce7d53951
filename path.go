package vtrace

// Sign distinguishes outer contours from holes.
type Sign byte

const (
	// SignOuter marks a contour enclosing foreground pixels.
	SignOuter Sign = '+'
	// SignHole marks a contour enclosing background pixels inside an
	// outer contour.
	SignHole Sign = '-'
)

// Path is one closed contour of a connected region: a cyclic sequence of
// integer pixel-edge points, each step a unit move in a cardinal
// direction. Decomposition fills Pt and Area; the fitting pipeline adds
// Curve. Children holds the contours directly contained in this one.
type Path struct {
	Area int
	Sign Sign
	Pt   []IPoint

	MinX, MinY int
	MaxX, MaxY int

	// Curve is the final fitted curve, set by the tracing pipeline.
	Curve *Curve

	// Children are the contours nested directly inside this one,
	// ordered by discovery. The tree holds owning references only;
	// a path does not point back at its parent.
	Children []*Path

	// fitting workspace
	x0, y0 int
	sums   []sum
	lon    []int
	po     []int
}

// Len returns the number of points on the contour.
func (p *Path) Len() int { return len(p.Pt) }

// sum holds cumulative prefix sums over the contour points, allowing
// least-squares fits over any sub-arc in constant time.
type sum struct {
	x, y, xy, x2, y2 float64
}

// calcSums fills the prefix-sum table. sums[0] is zero and sums[len]
// holds the totals; coordinates are taken relative to the first point to
// keep the products small.
func (p *Path) calcSums() {
	p.x0 = p.Pt[0].X
	p.y0 = p.Pt[0].Y

	n := p.Len()
	p.sums = make([]sum, n+1)
	for i := 0; i < n; i++ {
		x := float64(p.Pt[i].X - p.x0)
		y := float64(p.Pt[i].Y - p.y0)
		s := p.sums[i]
		p.sums[i+1] = sum{
			x:  s.x + x,
			y:  s.y + y,
			xy: s.xy + x*y,
			x2: s.x2 + x*x,
			y2: s.y2 + y*y,
		}
	}
}

// contains reports whether the point (x+0.5, y+0.5) lies inside the
// contour, by the even-odd rule over the contour's unit edges. Only
// horizontal edges can cross the upward ray from the pixel center.
func (p *Path) contains(x, y int) bool {
	inside := false
	n := p.Len()
	for i := 0; i < n; i++ {
		a := p.Pt[i]
		b := p.Pt[(i+1)%n]
		if a.Y != b.Y || a.Y > y {
			continue
		}
		lo, hi := a.X, b.X
		if lo > hi {
			lo, hi = hi, lo
		}
		// The edge spans [lo, hi) in x; the ray sits at x+0.5.
		if lo <= x && x < hi {
			inside = !inside
		}
	}
	return inside
}

// buildTree arranges a flat, discovery-ordered path list into a
// containment forest. Each path becomes a child of the innermost
// previously seen path that contains its first point; holes nest inside
// outer contours and vice versa. The returned slice holds the roots.
func buildTree(paths []*Path) []*Path {
	var roots []*Path
	// Discovery order guarantees a container precedes its contents, so
	// a single backward scan finds the innermost enclosing path.
	for i, p := range paths {
		var parent *Path
		for j := i - 1; j >= 0; j-- {
			q := paths[j]
			if q.MinX <= p.MinX && p.MaxX <= q.MaxX &&
				q.MinY <= p.MinY && p.MaxY <= q.MaxY &&
				q.contains(p.Pt[0].X, p.Pt[0].Y) {
				parent = q
				break
			}
		}
		if parent != nil {
			parent.Children = append(parent.Children, p)
		} else {
			roots = append(roots, p)
		}
	}
	return roots
}
