package geometry

import (
	"math"

	"golang.org/x/xerrors"
)

// arcRecursionLimit bounds the bisection depth of arc flattening the same
// way FlattenConfig.RecursionLimit bounds Bezier subdivision.
const arcRecursionLimit = 32

// EllipseArc is an elliptical arc in center parameterization: the arc runs
// from angle Theta1 to Theta1+DeltaTheta on an ellipse with radii Rx, Ry
// centered at Center and rotated by Phi radians.
type EllipseArc struct {
	Center     Point
	Rx, Ry     float64
	Phi        float64
	Theta1     float64
	DeltaTheta float64
}

// EndpointArc converts an SVG arc command from endpoint parameterization
// (start point, radii, x-axis rotation in radians, large-arc and sweep
// flags, end point) to center parameterization, following the SVG
// implementation notes (section B.2.4). The boolean result is false when
// the arc degenerates to a straight line: coincident endpoints or a zero
// radius, which SVG renders as a lineto.
func EndpointArc(start Point, rx, ry, phi float64, largeArc, sweep bool, end Point) (EllipseArc, bool) {
	rx = math.Abs(rx)
	ry = math.Abs(ry)
	if rx == 0 || ry == 0 || start == end {
		return EllipseArc{}, false
	}

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)

	// Step 1: midpoint coordinates in the rotated frame.
	dx := (start.X - end.X) / 2
	dy := (start.Y - end.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	// Correct out-of-range radii by scaling up.
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// Step 2: center in the rotated frame.
	rxSq := rx * rx
	rySq := ry * ry
	radicand := rxSq*rySq - rxSq*y1p*y1p - rySq*x1p*x1p
	if radicand < 0 {
		// Floating point residue after the radii correction.
		radicand = 0
	} else {
		radicand /= rxSq*y1p*y1p + rySq*x1p*x1p
	}
	coeff := math.Sqrt(radicand)
	if largeArc == sweep {
		coeff = -coeff
	}
	cxp := coeff * rx * y1p / ry
	cyp := -coeff * ry * x1p / rx

	// Step 3: center back in the original frame.
	center := Point{
		X: cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2,
		Y: sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2,
	}

	// Step 4: start angle and sweep extent.
	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	return EllipseArc{
		Center:     center,
		Rx:         rx,
		Ry:         ry,
		Phi:        phi,
		Theta1:     theta1,
		DeltaTheta: delta,
	}, true
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	dot := ux*vx + uy*vy
	norm := math.Sqrt((ux*ux + uy*uy) * (vx*vx + vy*vy))
	c := dot / norm
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	angle := math.Acos(c)
	if ux*vy-uy*vx < 0 {
		return -angle
	}
	return angle
}

// Eval evaluates the arc at parameter t in [0, 1].
func (a EllipseArc) Eval(t float64) Point {
	theta := a.Theta1 + t*a.DeltaTheta
	x := a.Rx * math.Cos(theta)
	y := a.Ry * math.Sin(theta)
	cosPhi := math.Cos(a.Phi)
	sinPhi := math.Sin(a.Phi)
	return Point{
		X: a.Center.X + cosPhi*x - sinPhi*y,
		Y: a.Center.Y + sinPhi*x + cosPhi*y,
	}
}

// Flatten approximates the arc by a polyline whose chords stay within
// distTolerance of the arc, by recursive bisection of the parameter range.
// The result starts at Eval(0) and ends at Eval(1).
func (a EllipseArc) Flatten(distTolerance float64) (Polyline, error) {
	if !(distTolerance > 0) {
		return nil, xerrors.Errorf("distance tolerance %v is not positive: %w",
			distTolerance, ErrInvalidConfig)
	}
	start := a.Eval(0)
	end := a.Eval(1)
	line := Polyline{start}
	line = a.bisect(line, distTolerance, 0, 1, 0)
	if line[len(line)-1] != end {
		line = append(line, end)
	}
	return line, nil
}

// bisect appends the interior points of the arc between parameters t0 and
// t1 to line, splitting at the midpoint while the midpoint is too far from
// the chord.
func (a EllipseArc) bisect(line Polyline, distTolerance, t0, t1 float64, level int) Polyline {
	if level > arcRecursionLimit {
		return line
	}
	p1 := a.Eval(t0)
	p2 := a.Eval(t1)
	tMid := (t0 + t1) / 2
	pMid := a.Eval(tMid)

	chord := p2.Minus(p1)
	chordLen := chord.Magnitude()
	var dist float64
	if chordLen == 0 {
		// Half-turn or degenerate span; the chord collapses, so measure
		// straight to the midpoint.
		dist = p1.Distance(pMid)
	} else {
		dist = math.Abs(pMid.Minus(p1).CrossProductZ(chord)) / chordLen
	}
	if dist <= distTolerance {
		return append(line, pMid)
	}
	line = a.bisect(line, distTolerance, t0, tMid, level+1)
	return a.bisect(line, distTolerance, tMid, t1, level+1)
}
