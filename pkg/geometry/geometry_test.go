package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLineSegmentDistance(t *testing.T) {
	tests := []struct {
		seg  LineSegment
		p    Point
		want float64
	}{
		{
			seg:  LineSegment{A: Point{X: 0, Y: 0}, B: Point{X: 10, Y: 0}},
			p:    Point{X: 5, Y: 3},
			want: 3,
		},
		{
			seg:  LineSegment{A: Point{X: 0, Y: 0}, B: Point{X: 10, Y: 0}},
			p:    Point{X: -4, Y: 0},
			want: 4,
		},
		{
			seg:  LineSegment{A: Point{X: 0, Y: 0}, B: Point{X: 10, Y: 0}},
			p:    Point{X: 13, Y: 4},
			want: 5,
		},
	}
	for _, test := range tests {
		got := test.seg.Distance(test.p)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("distance from %v to %v incorrect: %s", test.p, test.seg, diff)
		}
	}
}

func TestPolylineDistance(t *testing.T) {
	line := Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	got := line.Distance(Point{X: 12, Y: 5})
	if diff := cmp.Diff(2.0, got); diff != "" {
		t.Errorf("incorrect distance: %s", diff)
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name    string
		line    Polyline
		epsilon float64
		want    Polyline
	}{
		{
			name:    "straight line collapses",
			line:    Polyline{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}},
			epsilon: 0.1,
			want:    Polyline{{0, 0}, {4, 0}},
		},
		{
			name:    "corner survives",
			line:    Polyline{{0, 0}, {5, 0}, {5, 5}},
			epsilon: 0.1,
			want:    Polyline{{0, 0}, {5, 0}, {5, 5}},
		},
		{
			name:    "small wiggle removed",
			line:    Polyline{{0, 0}, {5, 0.05}, {10, 0}},
			epsilon: 0.1,
			want:    Polyline{{0, 0}, {10, 0}},
		},
	}
	for _, test := range tests {
		got := test.line.Simplify(test.epsilon)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: incorrect output: %s", test.name, diff)
		}
	}
}

func TestDropCollinear(t *testing.T) {
	// A unit-step walk around a 3x2 rectangle reduces to its corners.
	ring := Polyline{
		{0, 0}, {1, 0}, {2, 0}, {3, 0},
		{3, 1}, {3, 2},
		{2, 2}, {1, 2}, {0, 2},
		{0, 1}, {0, 0},
	}
	want := Polyline{
		{0, 0}, {3, 0}, {3, 2}, {0, 2}, {0, 0},
	}
	got := ring.DropCollinear()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
}
