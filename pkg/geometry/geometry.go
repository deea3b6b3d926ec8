package geometry

import (
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Vector2 = Point

type LineSegment struct {
	A Point
	B Point
}

type Polyline []Point

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{
		X: a.X + b.X,
		Y: a.Y + b.Y,
	}
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (a Vector2) Dot(b Vector2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func (a Vector2) CrossProductZ(b Vector2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Distance returns the distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// DistanceSquared returns the squared distance between two points,
// avoiding the square root where only comparisons are needed.
func (p Point) DistanceSquared(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Midpoint returns the point halfway between two points.
func (p Point) Midpoint(other Point) Point {
	return Point{
		X: (p.X + other.X) / 2,
		Y: (p.Y + other.Y) / 2,
	}
}

// Scale returns the point scaled by the given factor f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// IsFinite reports whether both coordinates are finite (no NaN or Inf).
func (p Point) IsFinite() bool {
	return !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

func (s LineSegment) Length() float64 {
	return s.A.Distance(s.B)
}

// Distance returns the distance between a point and a line segment.
func (s LineSegment) Distance(p Point) float64 {
	// Line equation, in form ax + by + c = 0:
	// (y1 – y2)x + (x2 – x1)y + (x1y2 – x2y1) = 0
	// Distance to line: abs(a*x0 + b*y0 + c) / sqrt(a^2 + b^2)

	AP := p.Minus(s.A)
	AB := s.A.Minus(s.B)
	mAP := AP.Magnitude()
	mBP := p.Minus(s.B).Magnitude()
	mAB := AB.Magnitude()

	if mAP > mAB || mBP > mAB {
		// closest point on line is outside segment boundaries, so the closest point
		// is the nearest of the two endpoints.
		return math.Min(mAP, mBP)
	}

	return math.Abs(AP.CrossProductZ(AB)) / mAB
}

// Distance returns the minimum distance from p to any segment of the polyline.
func (line Polyline) Distance(p Point) float64 {
	if len(line) == 0 {
		return math.NaN()
	}
	if len(line) == 1 {
		return line[0].Distance(p)
	}
	d := math.Inf(1)
	for i := 1; i < len(line); i++ {
		seg := LineSegment{A: line[i-1], B: line[i]}
		d = math.Min(d, seg.Distance(p))
	}
	return d
}

// Reverse reverses the polyline in place.
func (line Polyline) Reverse() {
	for i, j := 0, len(line)-1; i < j; i, j = i+1, j-1 {
		line[i], line[j] = line[j], line[i]
	}
}

// IsClosed reports whether the polyline's endpoints coincide within eps.
func (line Polyline) IsClosed(eps float64) bool {
	if len(line) < 3 {
		return false
	}
	return line[0].Distance(line[len(line)-1]) <= eps
}
