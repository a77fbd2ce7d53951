package vtrace

import "math"

// Curve optimization: replace runs of consecutive smooth segments by a
// single cubic Bezier when one fits within optTolerance. Candidate spans
// are scored by summed squared deviation and the cheapest segmentation
// is found by dynamic programming over span endpoints.

// convexity threshold: cos of the maximum angle still accepted between
// consecutive span directions.
const optiCos = -0.999847695156

// optiPenalty tries to fit one cubic Bezier over the segments from i to
// j of the curve. It reports false when the span is not convex, bends
// too far, or deviates from the original by more than opttolerance;
// otherwise it fills res with the control points and penalty.
func (c *Curve) optiPenalty(i, j int, res *opti, opttolerance float64, convc []int, areac []float64) bool {
	m := c.N
	vertex := c.Vertex

	if i == j {
		return false
	}

	k := i
	i1 := mod(i+1, m)
	k1 := mod(k+1, m)
	conv := convc[k1]
	if conv == 0 {
		return false
	}
	d := vertex[i].Distance(vertex[i1])
	for k != j {
		k1 = mod(k+1, m)
		k2 := mod(k+2, m)
		if convc[k1] != conv {
			return false
		}
		if fsign(cprod(vertex[i], vertex[i1], vertex[k1], vertex[k2])) != conv {
			return false
		}
		if iprod1(vertex[i], vertex[i1], vertex[k1], vertex[k2]) < d*vertex[k1].Distance(vertex[k2])*optiCos {
			return false
		}
		k = k1
		if k == j {
			break
		}
	}

	p0 := c.C[mod(i, m)*3+2]
	p1 := vertex[mod(i+1, m)]
	p2 := vertex[mod(j, m)]
	p3 := c.C[mod(j, m)*3+2]

	// Signed area swept by the original segments over the span.
	area := areac[j] - areac[i]
	area -= dpara(vertex[0], c.C[i*3+2], c.C[j*3+2]) / 2
	if i >= j {
		area += areac[m]
	}

	a1 := dpara(p0, p1, p2)
	a2 := dpara(p0, p1, p3)
	a3 := dpara(p0, p2, p3)
	a4 := a1 + a3 - a2

	if a2 == a1 {
		// Parallel tangents: no single Bezier can take the span.
		return false
	}

	t := a3 / (a3 - a4)
	s := a2 / (a2 - a1)
	a := a2 * t / 2

	if a == 0 {
		return false
	}

	r := area / a
	alpha := 2 - math.Sqrt(4-r/0.3)

	res.c[0] = p0.Interpolate(p1, t*alpha)
	res.c[1] = p3.Interpolate(p2, s*alpha)
	res.alpha = alpha
	res.t = t
	res.s = s

	p1 = res.c[0]
	p2 = res.c[1]

	res.pen = 0

	// Every original vertex must project onto the candidate within
	// tolerance.
	for k := mod(i+1, m); k != j; {
		k1 = mod(k+1, m)
		t := tangent(p0, p1, p2, p3, vertex[k], vertex[k1])
		if t < -0.5 {
			return false
		}
		pt := bezier(t, p0, p1, p2, p3)
		d := vertex[k].Distance(vertex[k1])
		if d == 0 {
			return false
		}
		d1 := dpara(vertex[k], vertex[k1], pt) / d
		if math.Abs(d1) > opttolerance {
			return false
		}
		if iprod(vertex[k], vertex[k1], pt) < 0 || iprod(vertex[k1], vertex[k], pt) < 0 {
			return false
		}
		res.pen += d1 * d1

		k = k1
	}

	// And so must every original endpoint, against the corridor spanned
	// by the endpoints and the tangent lengths.
	for k := i; k != j; {
		k1 = mod(k+1, m)
		t := tangent(p0, p1, p2, p3, c.C[k*3+2], c.C[k1*3+2])
		if t < -0.5 {
			return false
		}
		pt := bezier(t, p0, p1, p2, p3)
		d := c.C[k*3+2].Distance(c.C[k1*3+2])
		if d == 0 {
			return false
		}
		d1 := dpara(c.C[k*3+2], c.C[k1*3+2], pt) / d
		d2 := dpara(c.C[k*3+2], c.C[k1*3+2], vertex[k1]) / d
		d2 *= 0.75 * c.Alpha[k1]
		if d2 < 0 {
			d1 = -d1
			d2 = -d2
		}
		if d1 < d2-opttolerance {
			return false
		}
		if d1 < d2 {
			res.pen += (d1 - d2) * (d1 - d2)
		}

		k = k1
	}

	return true
}

// optiCurve computes the optimized curve and returns it. The dynamic
// program walks endpoints 0..m, and for each endpoint tries to extend
// every shorter prefix with one merged span.
func (c *Curve) optiCurve(opttolerance float64) *Curve {
	m := c.N
	vertex := c.Vertex

	pt := make([]int, m+1)
	pen := make([]float64, m+1)
	length := make([]int, m+1)
	opt := make([]opti, m+1)

	// Convexity of each smooth vertex; corners break every span.
	convc := make([]int, m)
	for i := 0; i < m; i++ {
		if c.Tag[i] == TagCurve {
			convc[i] = fsign(dpara(vertex[mod(i-1, m)], vertex[i], vertex[mod(i+1, m)]))
		}
	}

	// Cumulative signed area of the smoothed curve relative to its
	// first vertex, used to preserve area across a merge.
	area := 0.0
	areac := make([]float64, m+1)
	p0 := vertex[0]
	for i := 0; i < m; i++ {
		i1 := mod(i+1, m)
		if c.Tag[i1] == TagCurve {
			alpha := c.Alpha[i1]
			area += 0.3 * alpha * (4 - alpha) * dpara(c.C[i*3+2], vertex[i1], c.C[i1*3+2]) / 2
			area += dpara(p0, c.C[i*3+2], c.C[i1*3+2]) / 2
		}
		areac[i+1] = area
	}

	pt[0] = -1
	pen[0] = 0
	length[0] = 0

	var o opti
	for j := 1; j <= m; j++ {
		pt[j] = j - 1
		pen[j] = pen[j-1]
		length[j] = length[j-1] + 1

		for i := j - 2; i >= 0; i-- {
			if !c.optiPenalty(i, mod(j, m), &o, opttolerance, convc, areac) {
				break
			}
			if length[j] > length[i]+1 || (length[j] == length[i]+1 && pen[j] > pen[i]+o.pen) {
				pt[j] = i
				pen[j] = pen[i] + o.pen
				length[j] = length[i] + 1
				opt[j] = o
			}
		}
	}

	om := length[m]
	ocurve := newCurve(om)
	ss := make([]float64, om)
	ts := make([]float64, om)

	j := m
	for i := om - 1; i >= 0; i-- {
		if pt[j] == j-1 {
			ocurve.Tag[i] = c.Tag[mod(j, m)]
			ocurve.C[i*3+0] = c.C[mod(j, m)*3+0]
			ocurve.C[i*3+1] = c.C[mod(j, m)*3+1]
			ocurve.C[i*3+2] = c.C[mod(j, m)*3+2]
			ocurve.Vertex[i] = c.Vertex[mod(j, m)]
			ocurve.Alpha[i] = c.Alpha[mod(j, m)]
			ocurve.Alpha0[i] = c.Alpha0[mod(j, m)]
			ocurve.Beta[i] = c.Beta[mod(j, m)]
			ss[i] = 1
			ts[i] = 1
		} else {
			ocurve.Tag[i] = TagCurve
			ocurve.C[i*3+0] = opt[j].c[0]
			ocurve.C[i*3+1] = opt[j].c[1]
			ocurve.C[i*3+2] = c.C[mod(j, m)*3+2]
			ocurve.Vertex[i] = c.C[mod(j, m)*3+2].Interpolate(vertex[mod(j, m)], opt[j].s)
			ocurve.Alpha[i] = opt[j].alpha
			ocurve.Alpha0[i] = opt[j].alpha
			ss[i] = opt[j].s
			ts[i] = opt[j].t
		}
		j = pt[j]
	}

	// Re-derive beta from the split parameters of adjacent spans.
	for i := 0; i < om; i++ {
		i1 := mod(i+1, om)
		ocurve.Beta[i] = ss[i] / (ss[i] + ts[i1])
	}
	return ocurve
}
