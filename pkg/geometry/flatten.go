package geometry

// Adaptive flattening of Bezier curves into polylines, following the
// Anti-Grain Geometry 2.5 adaptive subdivision scheme
// (http://antigrain.com/research/adaptive_bezier/).

import (
	"math"

	"golang.org/x/xerrors"
)

// Numeric policy for the flatness and cusp tests. All epsilon comparisons
// funnel through the constants and helpers below; don't introduce new
// literals into the recursion.
const (
	// collinearityEpsilon bounds the cross-product term below which a
	// control point is treated as lying exactly on the chord.
	collinearityEpsilon = 1e-30

	// angleToleranceEpsilon is the smallest angle tolerance worth honoring.
	// Below it the angle test measures floating point noise, so it is
	// skipped and the distance test alone decides.
	angleToleranceEpsilon = 0.01
)

var (
	// ErrInvalidConfig reports a FlattenConfig that fails validation.
	ErrInvalidConfig = xerrors.New("invalid flatten configuration")
	// ErrInvalidGeometry reports a curve with non-finite control points.
	ErrInvalidGeometry = xerrors.New("invalid curve geometry")
)

// significant reports whether a cross-product distance term is large enough
// to treat the control point as off the chord.
func significant(crossDist float64) bool {
	return crossDist > collinearityEpsilon
}

// flatWithin reports whether a control point's chord deviation, expressed as
// the cross-product term crossDist, stays within the distance tolerance for
// a chord of squared length chordLenSq. Both sides are squared to avoid the
// square root.
func flatWithin(crossDist, distToleranceSq, chordLenSq float64) bool {
	return crossDist*crossDist <= distToleranceSq*chordLenSq
}

// foldAngle maps an absolute angle difference into [0, pi].
func foldAngle(da float64) float64 {
	if da >= math.Pi {
		return 2*math.Pi - da
	}
	return da
}

// CubicBezier is a cubic Bezier segment: P0 and P3 are on-curve endpoints,
// P1 and P2 are off-curve control points.
type CubicBezier struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

// QuadBezier is a quadratic Bezier segment with a single control point.
type QuadBezier struct {
	P0 Point
	P1 Point
	P2 Point
}

// FlattenConfig controls the quality of curve flattening. The zero value is
// not valid; use DefaultFlattenConfig as a starting point.
type FlattenConfig struct {
	// DistanceTolerance is the maximum allowed deviation of the curve from
	// its polyline approximation, in coordinate units. Must be positive.
	DistanceTolerance float64

	// AngleTolerance is the maximum allowed direction change between
	// consecutive segments, in radians. Zero disables the angle test and
	// relies on the distance test alone.
	AngleTolerance float64

	// CuspLimit caps refinement near cusps: a turn sharper than pi-CuspLimit
	// radians is accepted as a corner instead of being subdivided further.
	// Zero disables the cap.
	CuspLimit float64

	// RecursionLimit bounds the subdivision depth. When reached, the chord
	// is accepted regardless of flatness. Must be non-negative.
	RecursionLimit int
}

// DefaultFlattenConfig returns defaults tuned for screen-resolution SVG:
// half a pixel of chord deviation, no angle refinement, and the recursion
// ceiling used by AGG.
func DefaultFlattenConfig() FlattenConfig {
	return FlattenConfig{
		DistanceTolerance: 0.5,
		AngleTolerance:    0,
		CuspLimit:         0,
		RecursionLimit:    32,
	}
}

func (cfg FlattenConfig) validate() error {
	if !(cfg.DistanceTolerance > 0) {
		return xerrors.Errorf("distance tolerance %v is not positive: %w",
			cfg.DistanceTolerance, ErrInvalidConfig)
	}
	if !(cfg.AngleTolerance >= 0) {
		return xerrors.Errorf("angle tolerance %v is negative: %w",
			cfg.AngleTolerance, ErrInvalidConfig)
	}
	if !(cfg.CuspLimit >= 0) {
		return xerrors.Errorf("cusp limit %v is negative: %w",
			cfg.CuspLimit, ErrInvalidConfig)
	}
	if cfg.RecursionLimit < 0 {
		return xerrors.Errorf("recursion limit %d is negative: %w",
			cfg.RecursionLimit, ErrInvalidConfig)
	}
	return nil
}

// flattener holds the per-call state of one flattening invocation. Each call
// builds its own flattener, so concurrent Flatten calls share nothing.
type flattener struct {
	distToleranceSq float64
	angleTolerance  float64
	cuspLimit       float64
	recursionLimit  int
	points          Polyline
}

func newFlattener(cfg FlattenConfig) *flattener {
	cusp := 0.0
	if cfg.CuspLimit != 0 {
		// Stored in the form the angle comparisons use: a direction change
		// larger than this is a corner to keep, not a region to refine.
		cusp = math.Pi - cfg.CuspLimit
	}
	return &flattener{
		distToleranceSq: cfg.DistanceTolerance * cfg.DistanceTolerance,
		angleTolerance:  cfg.AngleTolerance,
		cuspLimit:       cusp,
		recursionLimit:  cfg.RecursionLimit,
	}
}

// emit appends p to the output, suppressing exact consecutive duplicates.
func (f *flattener) emit(p Point) {
	if n := len(f.points); n > 0 && f.points[n-1] == p {
		return
	}
	f.points = append(f.points, p)
}

// Eval evaluates the curve at parameter t using the Bernstein form.
func (c CubicBezier) Eval(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// IsFinite reports whether all four control points are finite.
func (c CubicBezier) IsFinite() bool {
	return c.P0.IsFinite() && c.P1.IsFinite() && c.P2.IsFinite() && c.P3.IsFinite()
}

// Flatten approximates the curve by a polyline such that every point of the
// curve lies within cfg.DistanceTolerance of the result. The polyline starts
// exactly at P0 and ends exactly at P3; consecutive duplicate points are
// suppressed, so a fully degenerate curve collapses to a single point and an
// exactly collinear one to its two endpoints.
//
// Degenerate geometry (coincident points, zero-length chords, cusps) is
// handled, not rejected. Reaching cfg.RecursionLimit is not an error either:
// the chord is accepted as-is, trading accuracy for guaranteed termination.
// Only an invalid configuration or non-finite coordinates fail, before any
// subdivision happens.
func (c CubicBezier) Flatten(cfg FlattenConfig) (Polyline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !c.IsFinite() {
		return nil, xerrors.Errorf("cubic %v %v %v %v has a non-finite control point: %w",
			c.P0, c.P1, c.P2, c.P3, ErrInvalidGeometry)
	}
	f := newFlattener(cfg)
	f.emit(c.P0)
	f.cubic(c.P0, c.P1, c.P2, c.P3, 0)
	f.emit(c.P3)
	return f.points, nil
}

// cubic recursively subdivides one (sub)curve, emitting the interior points
// of the approximation. The endpoints p1 and p4 are emitted by the caller.
func (f *flattener) cubic(p1, p2, p3, p4 Point, level int) {
	if level > f.recursionLimit {
		return
	}

	// Midpoints of the control polygon (de Casteljau at t=0.5).
	p12 := p1.Midpoint(p2)
	p23 := p2.Midpoint(p3)
	p34 := p3.Midpoint(p4)
	p123 := p12.Midpoint(p23)
	p234 := p23.Midpoint(p34)
	p1234 := p123.Midpoint(p234)

	// Try to approximate the full curve by a single straight line.
	d := p4.Minus(p1)
	d2 := math.Abs((p2.X-p4.X)*d.Y - (p2.Y-p4.Y)*d.X)
	d3 := math.Abs((p3.X-p4.X)*d.Y - (p3.Y-p4.Y)*d.X)

	var flags int
	if significant(d2) {
		flags |= 2
	}
	if significant(d3) {
		flags |= 1
	}

	switch flags {
	case 0:
		// All collinear, or p1 == p4.
		k := d.X*d.X + d.Y*d.Y
		if k == 0 {
			d2 = p1.DistanceSquared(p2)
			d3 = p4.DistanceSquared(p3)
		} else {
			// Project the control points onto the chord; the parameter
			// values decide which distance applies.
			k = 1 / k
			d2 = k * (p2.Minus(p1)).Dot(d)
			d3 = k * (p3.Minus(p1)).Dot(d)
			if d2 > 0 && d2 < 1 && d3 > 0 && d3 < 1 {
				// Simple collinear case, 1---2---3---4.
				// The two endpoints are enough.
				return
			}
			switch {
			case d2 <= 0:
				d2 = p2.DistanceSquared(p1)
			case d2 >= 1:
				d2 = p2.DistanceSquared(p4)
			default:
				d2 = p2.DistanceSquared(Point{X: p1.X + d2*d.X, Y: p1.Y + d2*d.Y})
			}
			switch {
			case d3 <= 0:
				d3 = p3.DistanceSquared(p1)
			case d3 >= 1:
				d3 = p3.DistanceSquared(p4)
			default:
				d3 = p3.DistanceSquared(Point{X: p1.X + d3*d.X, Y: p1.Y + d3*d.Y})
			}
		}
		if d2 > d3 {
			if d2 < f.distToleranceSq {
				f.emit(p2)
				return
			}
		} else {
			if d3 < f.distToleranceSq {
				f.emit(p3)
				return
			}
		}

	case 1:
		// p1, p2, p4 are collinear; p3 is significant.
		if flatWithin(d3, f.distToleranceSq, d.X*d.X+d.Y*d.Y) {
			if f.angleTolerance < angleToleranceEpsilon {
				f.emit(p23)
				return
			}

			// Angle condition on the second half of the control polygon.
			da1 := foldAngle(math.Abs(
				math.Atan2(p4.Y-p3.Y, p4.X-p3.X) - math.Atan2(p3.Y-p2.Y, p3.X-p2.X)))
			if da1 < f.angleTolerance {
				f.emit(p2)
				f.emit(p3)
				return
			}
			if f.cuspLimit != 0 && da1 > f.cuspLimit {
				f.emit(p3)
				return
			}
		}

	case 2:
		// p1, p3, p4 are collinear; p2 is significant.
		if flatWithin(d2, f.distToleranceSq, d.X*d.X+d.Y*d.Y) {
			if f.angleTolerance < angleToleranceEpsilon {
				f.emit(p23)
				return
			}

			// Angle condition on the first half of the control polygon.
			da1 := foldAngle(math.Abs(
				math.Atan2(p3.Y-p2.Y, p3.X-p2.X) - math.Atan2(p2.Y-p1.Y, p2.X-p1.X)))
			if da1 < f.angleTolerance {
				f.emit(p2)
				f.emit(p3)
				return
			}
			if f.cuspLimit != 0 && da1 > f.cuspLimit {
				f.emit(p2)
				return
			}
		}

	case 3:
		// Regular case.
		if flatWithin(d2+d3, f.distToleranceSq, d.X*d.X+d.Y*d.Y) {
			// The curvature doesn't exceed the distance tolerance, so
			// subdivision can stop here unless the angle test objects.
			if f.angleTolerance < angleToleranceEpsilon {
				f.emit(p23)
				return
			}

			// Angle and cusp conditions on both halves.
			k := math.Atan2(p3.Y-p2.Y, p3.X-p2.X)
			da1 := foldAngle(math.Abs(k - math.Atan2(p2.Y-p1.Y, p2.X-p1.X)))
			da2 := foldAngle(math.Abs(math.Atan2(p4.Y-p3.Y, p4.X-p3.X) - k))
			if da1+da2 < f.angleTolerance {
				f.emit(p23)
				return
			}
			if f.cuspLimit != 0 {
				if da1 > f.cuspLimit {
					f.emit(p2)
					return
				}
				if da2 > f.cuspLimit {
					f.emit(p3)
					return
				}
			}
		}
	}

	// Continue subdivision, left half before right half so the output stays
	// ordered along the curve parameter.
	f.cubic(p1, p12, p123, p1234, level+1)
	f.cubic(p1234, p234, p34, p4, level+1)
}

// Eval evaluates the curve at parameter t.
func (q QuadBezier) Eval(t float64) Point {
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	c := t * t
	return Point{
		X: a*q.P0.X + b*q.P1.X + c*q.P2.X,
		Y: a*q.P0.Y + b*q.P1.Y + c*q.P2.Y,
	}
}

// IsFinite reports whether all three control points are finite.
func (q QuadBezier) IsFinite() bool {
	return q.P0.IsFinite() && q.P1.IsFinite() && q.P2.IsFinite()
}

// Flatten approximates the quadratic curve by a polyline, with the same
// contract as CubicBezier.Flatten. CuspLimit is unused: a quadratic has no
// interior cusps.
func (q QuadBezier) Flatten(cfg FlattenConfig) (Polyline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !q.IsFinite() {
		return nil, xerrors.Errorf("quadratic %v %v %v has a non-finite control point: %w",
			q.P0, q.P1, q.P2, ErrInvalidGeometry)
	}
	f := newFlattener(cfg)
	f.emit(q.P0)
	f.quadratic(q.P0, q.P1, q.P2, 0)
	f.emit(q.P2)
	return f.points, nil
}

func (f *flattener) quadratic(p1, p2, p3 Point, level int) {
	if level > f.recursionLimit {
		return
	}

	p12 := p1.Midpoint(p2)
	p23 := p2.Midpoint(p3)
	p123 := p12.Midpoint(p23)

	d := p3.Minus(p1)
	dist := math.Abs((p2.X-p3.X)*d.Y - (p2.Y-p3.Y)*d.X)

	if significant(dist) {
		// Regular case.
		if flatWithin(dist, f.distToleranceSq, d.X*d.X+d.Y*d.Y) {
			if f.angleTolerance < angleToleranceEpsilon {
				f.emit(p123)
				return
			}
			da := foldAngle(math.Abs(
				math.Atan2(p3.Y-p2.Y, p3.X-p2.X) - math.Atan2(p2.Y-p1.Y, p2.X-p1.X)))
			if da < f.angleTolerance {
				f.emit(p123)
				return
			}
		}
	} else {
		// Collinear case.
		k := d.X*d.X + d.Y*d.Y
		if k == 0 {
			dist = p1.DistanceSquared(p2)
		} else {
			dist = (p2.Minus(p1)).Dot(d) / k
			if dist > 0 && dist < 1 {
				// Simple collinear case, 1---2---3.
				return
			}
			switch {
			case dist <= 0:
				dist = p2.DistanceSquared(p1)
			case dist >= 1:
				dist = p2.DistanceSquared(p3)
			default:
				dist = p2.DistanceSquared(Point{X: p1.X + dist*d.X, Y: p1.Y + dist*d.Y})
			}
		}
		if dist < f.distToleranceSq {
			f.emit(p2)
			return
		}
	}

	f.quadratic(p1, p12, p123, level+1)
	f.quadratic(p123, p23, p3, level+1)
}
