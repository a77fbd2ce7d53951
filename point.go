package vtrace

import "math"

// Point represents a 2D point or vector with float64 coordinates.
// Curve control points and refined vertices use Point; the jagged
// contours produced by decomposition use the integer IPoint.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Interpolate performs linear interpolation from p to q.
// t=0 returns p, t=1 returns q, intermediate values interpolate.
func (p Point) Interpolate(q Point, t float64) Point {
	return Point{
		X: p.X + t*(q.X-p.X),
		Y: p.Y + t*(q.Y-p.Y),
	}
}

// IPoint represents a point on the integer pixel-edge grid.
type IPoint struct {
	X, Y int
}

// Float converts an integer grid point to a Point.
func (p IPoint) Float() Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}
