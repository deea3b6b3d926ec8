package svgpath_test

import (
	"math"
	"testing"

	"pixelvec/pkg/svgpath"
)

func checkPoint(t *testing.T, m svgpath.Matrix, x, y, wantX, wantY float64) {
	t.Helper()
	gotX, gotY := m.TransformPoint(x, y)
	if math.Abs(gotX-wantX) > 1e-9 || math.Abs(gotY-wantY) > 1e-9 {
		t.Errorf("transform of (%g, %g) = (%g, %g), want (%g, %g)",
			x, y, gotX, gotY, wantX, wantY)
	}
}

func TestParseTransform(t *testing.T) {
	m, err := svgpath.ParseTransform("translate(10, 20)")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	checkPoint(t, m, 1, 2, 11, 22)

	m, err = svgpath.ParseTransform("scale(2)")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	checkPoint(t, m, 3, 4, 6, 8)

	m, err = svgpath.ParseTransform("rotate(90)")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	checkPoint(t, m, 1, 0, 0, 1)

	m, err = svgpath.ParseTransform("rotate(180 5 5)")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	checkPoint(t, m, 0, 0, 10, 10)

	m, err = svgpath.ParseTransform("skewX(45)")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	checkPoint(t, m, 0, 1, 1, 1)

	// Transforms compose left to right.
	m, err = svgpath.ParseTransform("translate(10 0) scale(2 3)")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	checkPoint(t, m, 1, 1, 12, 3)
}

func TestParseTransformErrors(t *testing.T) {
	bad := []string{
		"frobnicate(1 2)",
		"matrix(1 2 3)",
		"rotate(45 1)",
		"translate(",
	}
	for _, transform := range bad {
		if _, err := svgpath.ParseTransform(transform); err == nil {
			t.Errorf("expected parse of %q to fail", transform)
		}
	}
}

func TestTransformPath(t *testing.T) {
	subPaths, err := svgpath.Parse("M 1 1 C 2 2 3 3 4 4")
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	m, err := svgpath.ParseTransform("translate(1 0) scale(10)")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	m.TransformPath(subPaths)
	if subPaths[0].X != 11 || subPaths[0].Y != 10 {
		t.Errorf("start point (%g, %g), want (11, 10)", subPaths[0].X, subPaths[0].Y)
	}
	c := subPaths[0].DrawTo[0]
	if c.X1 != 21 || c.Y1 != 20 || c.X2 != 31 || c.Y2 != 30 || c.X != 41 || c.Y != 40 {
		t.Errorf("curve coordinates not transformed: %+v", c)
	}
}
