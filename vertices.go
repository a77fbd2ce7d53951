package vtrace

import "math"

// quad is a symmetric 3x3 quadratic form. Evaluating it at a point in
// homogeneous coordinates gives the summed squared distance to a set of
// fitted lines.
type quad struct {
	data [9]float64
}

func (q *quad) at(i, j int) float64 { return q.data[3*i+j] }

// eval computes (x, y, 1)^T Q (x, y, 1).
func (q *quad) eval(w Point) float64 {
	v := [3]float64{w.X, w.Y, 1}
	sum := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum += v[i] * q.at(i, j) * v[j]
		}
	}
	return sum
}

// pointslope fits a straight line through the contour points from cyclic
// index i to j using the prefix sums, returning the centroid and the
// unit direction of least squared deviation.
func (p *Path) pointslope(i, j int) (ctr, dir Point) {
	n := p.Len()
	s := p.sums
	r := 0

	for j >= n {
		j -= n
		r++
	}
	for i >= n {
		i -= n
		r--
	}
	for j < 0 {
		j += n
		r--
	}
	for i < 0 {
		i += n
		r++
	}

	x := s[j+1].x - s[i].x + float64(r)*s[n].x
	y := s[j+1].y - s[i].y + float64(r)*s[n].y
	x2 := s[j+1].x2 - s[i].x2 + float64(r)*s[n].x2
	xy := s[j+1].xy - s[i].xy + float64(r)*s[n].xy
	y2 := s[j+1].y2 - s[i].y2 + float64(r)*s[n].y2
	k := float64(j + 1 - i + r*n)

	ctr = Point{X: x / k, Y: y / k}

	a := (x2 - x*x/k) / k
	b := (xy - x*y/k) / k
	c := (y2 - y*y/k) / k

	// Larger eigenvalue of the covariance matrix; its eigenvector is
	// the direction of the fitted line.
	lambda2 := (a + c + math.Sqrt((a-c)*(a-c)+4*b*b)) / 2
	a -= lambda2
	c -= lambda2

	var l float64
	if math.Abs(a) >= math.Abs(c) {
		l = math.Sqrt(a*a + b*b)
		if l != 0 {
			dir = Point{X: -b / l, Y: a / l}
		}
	} else {
		l = math.Sqrt(c*c + b*b)
		if l != 0 {
			dir = Point{X: -c / l, Y: b / l}
		}
	}
	if l == 0 {
		dir = Point{}
	}
	return ctr, dir
}

// adjustVertices turns the optimal polygon into real-valued vertices:
// for each polygon corner, the intersection point of the two adjacent
// fitted lines, constrained to the unit square around the original
// integer corner. The result is stored in a fresh curve on p.Curve.
func (p *Path) adjustVertices() {
	m := len(p.po)
	po := p.po
	n := p.Len()
	pt := p.Pt
	x0, y0 := p.x0, p.y0

	ctr := make([]Point, m)
	dir := make([]Point, m)
	q := make([]quad, m)

	curve := newCurve(m)
	p.Curve = curve

	for i := 0; i < m; i++ {
		j := po[mod(i+1, m)]
		j = mod(j-po[i], n) + po[i]
		ctr[i], dir[i] = p.pointslope(po[i], j)
	}

	// One quadratic form per polygon edge, measuring squared distance
	// to that edge's fitted line.
	var v [3]float64
	for i := 0; i < m; i++ {
		d := dir[i].X*dir[i].X + dir[i].Y*dir[i].Y
		if d == 0 {
			q[i] = quad{}
			continue
		}
		v[0] = dir[i].Y
		v[1] = -dir[i].X
		v[2] = -v[1]*ctr[i].Y - v[0]*ctr[i].X
		for l := 0; l < 3; l++ {
			for k := 0; k < 3; k++ {
				q[i].data[3*l+k] = v[l] * v[k] / d
			}
		}
	}

	for i := 0; i < m; i++ {
		s := Point{
			X: float64(pt[po[i]].X - x0),
			Y: float64(pt[po[i]].Y - y0),
		}
		j := mod(i-1, m)

		var Q quad
		for l := 0; l < 3; l++ {
			for k := 0; k < 3; k++ {
				Q.data[3*l+k] = q[j].at(l, k) + q[i].at(l, k)
			}
		}

		var w Point
		for {
			det := Q.at(0, 0)*Q.at(1, 1) - Q.at(0, 1)*Q.at(1, 0)
			if det != 0 {
				w.X = (-Q.at(0, 2)*Q.at(1, 1) + Q.at(1, 2)*Q.at(0, 1)) / det
				w.Y = (Q.at(0, 2)*Q.at(1, 0) - Q.at(1, 2)*Q.at(0, 0)) / det
				break
			}
			// Q is singular: both lines are parallel. Add a third,
			// orthogonal constraint through the original corner.
			if Q.at(0, 0) > Q.at(1, 1) {
				v[0] = -Q.at(0, 1)
				v[1] = Q.at(0, 0)
			} else if Q.at(1, 1) != 0 {
				v[0] = -Q.at(1, 1)
				v[1] = Q.at(1, 0)
			} else {
				v[0] = 1
				v[1] = 0
			}
			d := v[0]*v[0] + v[1]*v[1]
			v[2] = -v[1]*s.Y - v[0]*s.X
			for l := 0; l < 3; l++ {
				for k := 0; k < 3; k++ {
					Q.data[3*l+k] += v[l] * v[k] / d
				}
			}
		}

		if math.Abs(w.X-s.X) <= 0.5 && math.Abs(w.Y-s.Y) <= 0.5 {
			curve.Vertex[i] = Point{X: w.X + float64(x0), Y: w.Y + float64(y0)}
			continue
		}

		// The unconstrained minimum fell outside the unit square: take
		// the best point on the square's edges and corners.
		minval := Q.eval(s)
		xmin, ymin := s.X, s.Y

		if Q.at(0, 0) != 0 {
			for z := 0; z < 2; z++ {
				w.Y = s.Y - 0.5 + float64(z)
				w.X = -(Q.at(0, 1)*w.Y + Q.at(0, 2)) / Q.at(0, 0)
				if math.Abs(w.X-s.X) <= 0.5 {
					if cand := Q.eval(w); cand < minval {
						minval = cand
						xmin, ymin = w.X, w.Y
					}
				}
			}
		}
		if Q.at(1, 1) != 0 {
			for z := 0; z < 2; z++ {
				w.X = s.X - 0.5 + float64(z)
				w.Y = -(Q.at(1, 0)*w.X + Q.at(1, 2)) / Q.at(1, 1)
				if math.Abs(w.Y-s.Y) <= 0.5 {
					if cand := Q.eval(w); cand < minval {
						minval = cand
						xmin, ymin = w.X, w.Y
					}
				}
			}
		}
		for l := 0; l < 2; l++ {
			for k := 0; k < 2; k++ {
				w.X = s.X - 0.5 + float64(l)
				w.Y = s.Y - 0.5 + float64(k)
				if cand := Q.eval(w); cand < minval {
					minval = cand
					xmin, ymin = w.X, w.Y
				}
			}
		}

		curve.Vertex[i] = Point{X: xmin + float64(x0), Y: ymin + float64(y0)}
	}
}
