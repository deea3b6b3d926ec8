package svgxml_test

import (
	"math"
	"strings"
	"testing"

	"pixelvec/pkg/svgxml"

	"github.com/google/go-cmp/cmp"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50" viewBox="0 0 100 50">
  <rect x="0" y="0" width="100" height="50" fill="#ffffff"/>
  <g transform="translate(10 0)">
    <path d="M 0 0 L 5 5" fill="#ff0000"/>
    <polygon points="0,0 4,0 4,4"/>
  </g>
  <line x1="1" y1="2" x2="3" y2="4"/>
  <circle cx="10" cy="10" r="5"/>
</svg>`

func TestDrawables(t *testing.T) {
	svg, err := svgxml.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	drawables, err := svg.Drawables()
	if err != nil {
		t.Fatalf("drawables failed: %s", err)
	}

	var kinds []string
	for _, d := range drawables {
		kinds = append(kinds, d.Node.XMLName.Local)
	}
	expected := []string{"rect", "path", "polygon", "line", "circle"}
	if diff := cmp.Diff(expected, kinds); diff != "" {
		t.Fatalf("wrong drawable elements: %s", diff)
	}

	// The path inside the group carries the group's translate.
	path := drawables[1]
	x, y := path.Transform.TransformPoint(path.Path[0].X, path.Path[0].Y)
	if x != 10 || y != 0 {
		t.Errorf("transformed path start (%g, %g), want (10, 0)", x, y)
	}

	// The polygon closes; the polyline form would not.
	polygon := drawables[2]
	if !polygon.Path[0].IsClosed() {
		t.Error("polygon subpath should be closed")
	}

	line := drawables[3]
	x, y = line.Path[0].EndPoint()
	if x != 3 || y != 4 {
		t.Errorf("line end (%g, %g), want (3, 4)", x, y)
	}

	// Circle converts to two half arcs starting at (cx-r, cy).
	circle := drawables[4]
	if circle.Path[0].X != 5 || circle.Path[0].Y != 10 {
		t.Errorf("circle path starts at (%g, %g), want (5, 10)",
			circle.Path[0].X, circle.Path[0].Y)
	}
	arc := circle.Path[0].DrawTo[0]
	if arc.Rx != 5 || arc.Ry != 5 || !arc.LargeArc {
		t.Errorf("unexpected circle arc: %+v", arc)
	}
}

func TestRectPathData(t *testing.T) {
	svg, err := svgxml.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	d, err := svg.Children[0].PathData()
	if err != nil {
		t.Fatalf("path data failed: %s", err)
	}
	if d != "M 0 0 H 100 V 50 H 0 Z" {
		t.Errorf("wrong rect path data: %q", d)
	}
}

func TestBadPoints(t *testing.T) {
	svg, err := svgxml.Parse([]byte(
		`<svg xmlns="http://www.w3.org/2000/svg"><polygon points="1,2 3"/></svg>`))
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	if _, err := svg.Drawables(); err == nil {
		t.Error("expected odd points list to fail")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	svg, err := svgxml.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	data, err := svg.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %s", err)
	}
	out := string(data)
	if !strings.Contains(out, `xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("output missing svg namespace: %s", out)
	}
	if !strings.Contains(out, `d="M 0 0 L 5 5"`) {
		t.Errorf("output missing path data: %s", out)
	}

	again, err := svgxml.Parse(data)
	if err != nil {
		t.Fatalf("reparsing failed: %s", err)
	}
	if len(again.Children) != len(svg.Children) {
		t.Errorf("reparse has %d children, want %d", len(again.Children), len(svg.Children))
	}
}

func TestNewDocument(t *testing.T) {
	svg := svgxml.NewDocument(32, 16)
	if svg.Width != "32" || svg.Height != "16" || svg.ViewBox != "0 0 32 16" {
		t.Errorf("unexpected document dimensions: %+v", svg)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := svgxml.FormatNumber(2.5); got != "2.5" {
		t.Errorf("FormatNumber(2.5) = %q", got)
	}
	if got := svgxml.FormatNumber(3); got != "3" {
		t.Errorf("FormatNumber(3) = %q", got)
	}
	if math.Abs(svgxml.ParseNumber(" 1.25 ")-1.25) > 0 {
		t.Errorf("ParseNumber failed")
	}
}
