package vtrace

import "math"

// Stage two of the pipeline: find, for every contour vertex, how far a
// single straight segment can reach (calcLon), then choose the polygon
// with the fewest such segments and the least total deviation
// (bestPolygon).

// calcLon computes p.lon[i]: the furthest cyclic index reachable from i
// by one straight sub-path. A sub-path is straight while its edges use
// at most three of the four cardinal directions and every point stays
// within the constraint cone accumulated from the half-integer offsets
// of the points seen so far.
func (p *Path) calcLon() {
	pt := p.Pt
	n := p.Len()

	pivk := make([]int, n)
	nc := make([]int, n)
	p.lon = make([]int, n)

	// nc[i]: the next corner after i, i.e. the first point where both
	// coordinates differ from pt[i]'s successor run.
	k := 0
	for i := n - 1; i >= 0; i-- {
		if pt[i].X != pt[k].X && pt[i].Y != pt[k].Y {
			k = i + 1
		}
		nc[i] = k
	}

	var ct [4]int
	var constraint [2]IPoint
	var cur, off, dk IPoint

	for i := n - 1; i >= 0; i-- {
		ct[0], ct[1], ct[2], ct[3] = 0, 0, 0, 0

		dir := (3 + 3*(pt[mod(i+1, n)].X-pt[i].X) + (pt[mod(i+1, n)].Y - pt[i].Y)) / 2
		ct[dir]++

		constraint[0] = IPoint{}
		constraint[1] = IPoint{}

		k = nc[i]
		k1 := i
		foundk := false
		for {
			dir = (3 + 3*sign(pt[k].X-pt[k1].X) + sign(pt[k].Y-pt[k1].Y)) / 2
			ct[dir]++

			// All four directions used: the straight path must stop at
			// the previous point.
			if ct[0] != 0 && ct[1] != 0 && ct[2] != 0 && ct[3] != 0 {
				pivk[i] = k1
				foundk = true
				break
			}

			cur = IPoint{X: pt[k].X - pt[i].X, Y: pt[k].Y - pt[i].Y}

			if xprodi(constraint[0], cur) < 0 || xprodi(constraint[1], cur) > 0 {
				break
			}

			if abs(cur.X) > 1 || abs(cur.Y) > 1 {
				off.X = cur.X + offUnit(cur.Y >= 0 && (cur.Y > 0 || cur.X < 0))
				off.Y = cur.Y + offUnit(cur.X <= 0 && (cur.X < 0 || cur.Y < 0))
				if xprodi(constraint[0], off) >= 0 {
					constraint[0] = off
				}
				off.X = cur.X + offUnit(cur.Y <= 0 && (cur.Y < 0 || cur.X < 0))
				off.Y = cur.Y + offUnit(cur.X >= 0 && (cur.X > 0 || cur.Y < 0))
				if xprodi(constraint[1], off) <= 0 {
					constraint[1] = off
				}
			}

			k1 = k
			k = nc[k1]
			if !cyclic(k, i, k1) {
				break
			}
		}

		if !foundk {
			// The constraint broke somewhere between k1 and k: advance
			// along direction dk while the cone still permits it.
			dk = IPoint{X: sign(pt[k].X - pt[k1].X), Y: sign(pt[k].Y - pt[k1].Y)}
			cur = IPoint{X: pt[k1].X - pt[i].X, Y: pt[k1].Y - pt[i].Y}

			a := xprodi(constraint[0], cur)
			b := xprodi(constraint[0], dk)
			c := xprodi(constraint[1], cur)
			d := xprodi(constraint[1], dk)

			j := 10000000
			if b < 0 {
				j = a / -b
			}
			if d > 0 {
				j = min(j, -c/d)
			}
			pivk[i] = mod(k1+j, n)
		}
	}

	// Clean up: lon[i] must be the globally longest straight starting at
	// i, monotone in cyclic order.
	j := pivk[n-1]
	p.lon[n-1] = j
	for i := n - 2; i >= 0; i-- {
		if cyclic(i+1, pivk[i], j) {
			j = pivk[i]
		}
		p.lon[i] = j
	}
	for i := n - 1; cyclic(mod(i+1, n), j, p.lon[i]); i-- {
		p.lon[i] = j
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func offUnit(cond bool) int {
	if cond {
		return 1
	}
	return -1
}

// penalty3 measures how badly the points between cyclic indices i and j
// deviate from the straight segment joining them: the root-mean-square
// orthogonal distance multiplied by the segment's length, computed in
// constant time from the prefix sums.
func (p *Path) penalty3(i, j int) float64 {
	n := p.Len()
	pt := p.Pt
	s := p.sums

	var x, y, x2, xy, y2 float64
	var k float64
	if j >= n {
		j -= n
		x = s[j+1].x - s[i].x + s[n].x
		y = s[j+1].y - s[i].y + s[n].y
		x2 = s[j+1].x2 - s[i].x2 + s[n].x2
		xy = s[j+1].xy - s[i].xy + s[n].xy
		y2 = s[j+1].y2 - s[i].y2 + s[n].y2
		k = float64(j+1-i) + float64(n)
	} else {
		x = s[j+1].x - s[i].x
		y = s[j+1].y - s[i].y
		x2 = s[j+1].x2 - s[i].x2
		xy = s[j+1].xy - s[i].xy
		y2 = s[j+1].y2 - s[i].y2
		k = float64(j + 1 - i)
	}

	px := float64(pt[i].X+pt[j].X)/2 - float64(pt[0].X)
	py := float64(pt[i].Y+pt[j].Y)/2 - float64(pt[0].Y)
	ey := float64(pt[j].X - pt[i].X)
	ex := -float64(pt[j].Y - pt[i].Y)

	a := (x2-2*x*px)/k + px*px
	b := (xy-x*py-y*px)/k + px*py
	c := (y2-2*y*py)/k + py*py

	return math.Sqrt(ex*ex*a + 2*ex*ey*b + ey*ey*c)
}

// bestPolygon picks the optimal polygon vertices p.po[0..m): the fewest
// segments first, total penalty3 as the tie-break. Segments are only
// allowed within the spans admitted by lon; the search is a two-pass
// shortest path over the cyclic index DAG.
func (p *Path) bestPolygon() {
	n := p.Len()

	pen := make([]float64, n+1)
	prev := make([]int, n+1)
	clip0 := make([]int, n)
	clip1 := make([]int, n+1)
	seg0 := make([]int, n+1)
	seg1 := make([]int, n+1)

	// clip0[i]: the furthest index reachable in one segment from i.
	for i := 0; i < n; i++ {
		c := mod(p.lon[mod(i-1, n)]-1, n)
		if c == i {
			c = mod(i+1, n)
		}
		if c < i {
			clip0[i] = n
		} else {
			clip0[i] = c
		}
	}

	// clip1[j]: the smallest index that can reach j in one segment.
	j := 1
	for i := 0; i < n; i++ {
		for j <= clip0[i] {
			clip1[j] = i
			j++
		}
	}

	// seg0[j]: the largest index reachable with j segments from 0.
	i := 0
	m := 0
	for ; i < n; m++ {
		seg0[m] = i
		i = clip0[i]
	}
	seg0[m] = n

	// seg1[j]: the smallest index from which n is reachable with m-j
	// segments.
	i = n
	for j := m; j > 0; j-- {
		seg1[j] = i
		i = clip1[i]
	}
	seg1[0] = 0

	// Dynamic programming over the number of segments: for each vertex
	// inside the feasible window of segment count j, keep the cheapest
	// predecessor.
	pen[0] = 0
	for j := 1; j <= m; j++ {
		for i := seg1[j]; i <= seg0[j]; i++ {
			best := -1.0
			for k := seg0[j-1]; k >= clip1[i]; k-- {
				thispen := p.penalty3(k, i) + pen[k]
				if best < 0 || thispen < best {
					prev[i] = k
					best = thispen
				}
			}
			pen[i] = best
		}
	}

	p.po = make([]int, m)
	for i, j := n, m-1; i > 0; j-- {
		i = prev[i]
		p.po[j] = i
	}
}
