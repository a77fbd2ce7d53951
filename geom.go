package vtrace

import "math"

// Geometric primitives shared by the fitting stages. All of them operate
// on points taken from a cyclic per-path array; index arithmetic goes
// through mod and cyclic below.

// mod computes a modulo n, mapping negative values into [0, n).
func mod(a, n int) int {
	switch {
	case a >= n:
		return a % n
	case a >= 0:
		return a
	default:
		return n - 1 - (-1-a)%n
	}
}

// cyclic reports whether b lies in the cyclic interval [a, c).
func cyclic(a, b, c int) bool {
	if a <= c {
		return a <= b && b < c
	}
	return a <= b || b < c
}

// sign returns 1, -1 or 0 according to the sign of i.
func sign(i int) int {
	switch {
	case i > 0:
		return 1
	case i < 0:
		return -1
	default:
		return 0
	}
}

// fsign returns 1, -1 or 0 according to the sign of f.
func fsign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// xprodi computes the cross product of two integer vectors.
func xprodi(p1, p2 IPoint) int {
	return p1.X*p2.Y - p1.Y*p2.X
}

// dpara returns the area of the parallelogram spanned by p1-p0 and
// p2-p0, i.e. twice the signed area of the triangle p0 p1 p2.
func dpara(p0, p1, p2 Point) float64 {
	return (p1.X-p0.X)*(p2.Y-p0.Y) - (p2.X-p0.X)*(p1.Y-p0.Y)
}

// cprod computes the cross product (p1-p0) x (p3-p2).
func cprod(p0, p1, p2, p3 Point) float64 {
	return (p1.X-p0.X)*(p3.Y-p2.Y) - (p3.X-p2.X)*(p1.Y-p0.Y)
}

// iprod computes the inner product (p1-p0) . (p2-p0).
func iprod(p0, p1, p2 Point) float64 {
	return (p1.X-p0.X)*(p2.X-p0.X) + (p1.Y-p0.Y)*(p2.Y-p0.Y)
}

// iprod1 computes the inner product (p1-p0) . (p3-p2).
func iprod1(p0, p1, p2, p3 Point) float64 {
	return (p1.X-p0.X)*(p3.X-p2.X) + (p1.Y-p0.Y)*(p3.Y-p2.Y)
}

// dorthInfty returns the direction that is orthogonal, in the l-infinity
// sense, to the direction from p0 to p2.
func dorthInfty(p0, p2 Point) Point {
	return Point{
		X: float64(-fsign(p2.Y - p0.Y)),
		Y: float64(fsign(p2.X - p0.X)),
	}
}

// ddenom is the denominator used by the smoothing stage: the cross
// product of p2-p0 with its l-infinity orthogonal direction, which is the
// l1 length |dx|+|dy| of p0..p2.
func ddenom(p0, p2 Point) float64 {
	r := dorthInfty(p0, p2)
	return r.Y*(p2.X-p0.X) - r.X*(p2.Y-p0.Y)
}

// bezier evaluates the cubic Bezier p0 p1 p2 p3 at parameter t.
func bezier(t float64, p0, p1, p2, p3 Point) Point {
	s := 1 - t
	// Horner-free expansion keeps this identical to the closed form.
	return Point{
		X: s*s*s*p0.X + 3*s*s*t*p1.X + 3*t*t*s*p2.X + t*t*t*p3.X,
		Y: s*s*s*p0.Y + 3*s*s*t*p1.Y + 3*t*t*s*p2.Y + t*t*t*p3.Y,
	}
}

// tangent finds the parameter t in [0, 1] where the cubic Bezier
// p0 p1 p2 p3 is tangent to the direction q1-q0, or -1 if there is none.
func tangent(p0, p1, p2, p3, q0, q1 Point) float64 {
	A := cprod(p0, p1, q0, q1)
	B := cprod(p1, p2, q0, q1)
	C := cprod(p2, p3, q0, q1)

	a := A - 2*B + C
	b := -2*A + 2*B
	c := A

	d := b*b - 4*a*c
	if a == 0 || d < 0 {
		return -1
	}

	s := math.Sqrt(d)
	r1 := (-b + s) / (2 * a)
	r2 := (-b - s) / (2 * a)

	switch {
	case r1 >= 0 && r1 <= 1:
		return r1
	case r2 >= 0 && r2 <= 1:
		return r2
	default:
		return -1
	}
}
