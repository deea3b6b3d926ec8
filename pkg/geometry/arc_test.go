package geometry

import (
	"math"
	"testing"
)

func TestEndpointArcQuarterCircle(t *testing.T) {
	// Unit quarter circle from (1,0) to (0,1), sweeping counterclockwise.
	arc, ok := EndpointArc(Point{X: 1, Y: 0}, 1, 1, 0, false, true, Point{X: 0, Y: 1})
	if !ok {
		t.Fatal("conversion reported a degenerate arc")
	}
	if arc.Center.Distance(Point{}) > 1e-9 {
		t.Errorf("center %v, want origin", arc.Center)
	}
	if math.Abs(arc.DeltaTheta-math.Pi/2) > 1e-9 {
		t.Errorf("sweep %g, want %g", arc.DeltaTheta, math.Pi/2)
	}
	if start := arc.Eval(0); start.Distance(Point{X: 1, Y: 0}) > 1e-9 {
		t.Errorf("Eval(0) = %v, want (1, 0)", start)
	}
	if end := arc.Eval(1); end.Distance(Point{X: 0, Y: 1}) > 1e-9 {
		t.Errorf("Eval(1) = %v, want (0, 1)", end)
	}
}

func TestEndpointArcDegenerate(t *testing.T) {
	if _, ok := EndpointArc(Point{X: 1, Y: 0}, 0, 1, 0, false, true, Point{X: 0, Y: 1}); ok {
		t.Error("zero rx should degenerate to a line")
	}
	if _, ok := EndpointArc(Point{X: 1, Y: 0}, 1, 1, 0, false, true, Point{X: 1, Y: 0}); ok {
		t.Error("coincident endpoints should degenerate to a line")
	}
}

func TestEndpointArcRadiiCorrection(t *testing.T) {
	// Radii too small to span the endpoints must be scaled up, not fail.
	arc, ok := EndpointArc(Point{X: 0, Y: 0}, 1, 1, 0, false, true, Point{X: 10, Y: 0})
	if !ok {
		t.Fatal("conversion reported a degenerate arc")
	}
	if arc.Rx < 5 {
		t.Errorf("rx %g was not scaled up to span the endpoints", arc.Rx)
	}
	if start := arc.Eval(0); start.Distance(Point{}) > 1e-9 {
		t.Errorf("Eval(0) = %v, want (0, 0)", start)
	}
}

func TestArcFlattenTolerance(t *testing.T) {
	arc, ok := EndpointArc(Point{X: 5, Y: 0}, 5, 5, 0, true, true, Point{X: -5, Y: 0})
	if !ok {
		t.Fatal("conversion reported a degenerate arc")
	}
	const tolerance = 0.05
	line, err := arc.Flatten(tolerance)
	if err != nil {
		t.Fatalf("flatten failed: %s", err)
	}
	if len(line) < 3 {
		t.Fatalf("half circle flattened to only %d points", len(line))
	}
	// Every sampled arc point must be close to the polyline, and every
	// polyline vertex must lie on the circle.
	for i := 0; i <= 500; i++ {
		p := arc.Eval(float64(i) / 500)
		if d := line.Distance(p); d > tolerance+1e-9 {
			t.Fatalf("arc point %v is %g away from the polyline, tolerance %g", p, d, tolerance)
		}
	}
	for _, p := range line {
		if math.Abs(p.Distance(arc.Center)-5) > 1e-9 {
			t.Errorf("vertex %v is off the circle", p)
		}
	}
}

func TestArcFlattenInvalidTolerance(t *testing.T) {
	arc := EllipseArc{Rx: 1, Ry: 1, DeltaTheta: 1}
	if _, err := arc.Flatten(0); err == nil {
		t.Error("zero tolerance should fail validation")
	}
}
