package svgpath_test

import (
	"testing"

	"pixelvec/pkg/svgpath"

	"github.com/google/go-cmp/cmp"
)

func TestBasic(t *testing.T) {
	subPaths, err := svgpath.Parse(" \t\r\nM1.e2 2. 1 .2.3 0.4e2 z L 7 8 9 10 H 11 12 13 L 2 2v5C 5 6 7 8 9 10")
	if err != nil {
		t.Errorf("parsing failed: %s", err)
	}
	expected := []*svgpath.SubPath{
		{X: 100, Y: 2, DrawTo: []*svgpath.DrawTo{
			{Command: svgpath.LineTo, X: 1, Y: .2},
			{Command: svgpath.LineTo, X: .3, Y: 40},
			{Command: svgpath.ClosePath, X: 100, Y: 2},
		}},
		{X: 100, Y: 2, DrawTo: []*svgpath.DrawTo{
			{Command: svgpath.LineTo, X: 7, Y: 8},
			{Command: svgpath.LineTo, X: 9, Y: 10},
			{Command: svgpath.LineTo, X: 11, Y: 10},
			{Command: svgpath.LineTo, X: 12, Y: 10},
			{Command: svgpath.LineTo, X: 13, Y: 10},
			{Command: svgpath.LineTo, X: 2, Y: 2},
			{Command: svgpath.LineTo, X: 2, Y: 7},
			{Command: svgpath.CurveTo, X: 9, Y: 10, X1: 5, Y1: 6, X2: 7, Y2: 8},
		}},
	}
	if diff := cmp.Diff(expected, subPaths); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
}

func TestSmoothCurveTo(t *testing.T) {
	// The first S reflects the C control point (8,10) about (10,0); the
	// second S reflects the first's own control point.
	subPaths, err := svgpath.Parse("M 0 0 C 2 10 8 10 10 0 S 18 -10 20 0 S 28 10 30 0")
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	expected := []*svgpath.SubPath{
		{X: 0, Y: 0, DrawTo: []*svgpath.DrawTo{
			{Command: svgpath.CurveTo, X: 10, Y: 0, X1: 2, Y1: 10, X2: 8, Y2: 10},
			{Command: svgpath.CurveTo, X: 20, Y: 0, X1: 12, Y1: -10, X2: 18, Y2: -10},
			{Command: svgpath.CurveTo, X: 30, Y: 0, X1: 22, Y1: 10, X2: 28, Y2: 10},
		}},
	}
	if diff := cmp.Diff(expected, subPaths); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
}

func TestSmoothWithoutPreviousCurve(t *testing.T) {
	// S after a lineto has no control point to reflect; the first control
	// point collapses onto the current point.
	subPaths, err := svgpath.Parse("M 0 0 L 5 5 S 18 -10 20 0")
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	expected := []*svgpath.SubPath{
		{X: 0, Y: 0, DrawTo: []*svgpath.DrawTo{
			{Command: svgpath.LineTo, X: 5, Y: 5},
			{Command: svgpath.CurveTo, X: 20, Y: 0, X1: 5, Y1: 5, X2: 18, Y2: -10},
		}},
	}
	if diff := cmp.Diff(expected, subPaths); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
}

func TestQuadAndSmoothQuad(t *testing.T) {
	subPaths, err := svgpath.Parse("M 0 0 Q 5 10 10 0 T 20 0 t 10 0")
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	expected := []*svgpath.SubPath{
		{X: 0, Y: 0, DrawTo: []*svgpath.DrawTo{
			{Command: svgpath.QuadTo, X: 10, Y: 0, X1: 5, Y1: 10},
			{Command: svgpath.QuadTo, X: 20, Y: 0, X1: 15, Y1: -10},
			{Command: svgpath.QuadTo, X: 30, Y: 0, X1: 25, Y1: 10},
		}},
	}
	if diff := cmp.Diff(expected, subPaths); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
}

func TestArcTo(t *testing.T) {
	// Flags may run together with the following coordinates.
	subPaths, err := svgpath.Parse("M 0 0 A 5 5 0 1,0 10 0 a 2.5 2.5 -30 0 1 5 0")
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	expected := []*svgpath.SubPath{
		{X: 0, Y: 0, DrawTo: []*svgpath.DrawTo{
			{Command: svgpath.ArcTo, X: 10, Y: 0, Rx: 5, Ry: 5, LargeArc: true, Sweep: false},
			{Command: svgpath.ArcTo, X: 15, Y: 0, Rx: 2.5, Ry: 2.5, Rotation: -30, LargeArc: false, Sweep: true},
		}},
	}
	if diff := cmp.Diff(expected, subPaths); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
}

func TestMovetoStartsNewSubPath(t *testing.T) {
	subPaths, err := svgpath.Parse("M 0 0 L 1 1 M 2 2 L 3 3")
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	if len(subPaths) != 2 {
		t.Fatalf("got %d subpaths, want 2", len(subPaths))
	}
	if subPaths[1].X != 2 || subPaths[1].Y != 2 {
		t.Errorf("second subpath starts at (%g, %g), want (2, 2)", subPaths[1].X, subPaths[1].Y)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"M",
		"M 1",
		"M 1 2 C 1 2 3",
		"M 1 2 A 1 1 0 2 0 5 5",
		"M 1 2 L 3 4 garbage",
	}
	for _, data := range bad {
		if _, err := svgpath.Parse(data); err == nil {
			t.Errorf("expected parse of %q to fail", data)
		}
	}
}

func TestToStringRoundTrip(t *testing.T) {
	in := "M 0 0 L 10 0 Q 15 5 20 0 C 25 5 30 5 35 0 A 5 5 0 0 1 45 0 Z"
	subPaths, err := svgpath.Parse(in)
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	out := svgpath.ToString(subPaths)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip changed the path: %s", diff)
	}

	// Parsing the serialized form again must give the same structure.
	again, err := svgpath.Parse(out)
	if err != nil {
		t.Fatalf("reparsing failed: %s", err)
	}
	if diff := cmp.Diff(subPaths, again); diff != "" {
		t.Errorf("reparse differs: %s", diff)
	}
}
