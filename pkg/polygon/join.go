package polygon

import (
	"sort"

	"pixelvec/pkg/geometry"

	"github.com/asim/quadtree"
)

var zeroPoint = quadtree.NewPoint(0, 0, nil)

type joinLine struct {
	points geometry.Polyline
	index  int
	dead   bool
}

// endpointTree indexes the endpoints of open polylines so that joining
// does not have to scan every line for every endpoint.
type endpointTree struct {
	quadTree *quadtree.QuadTree
}

func newEndpointTree(min, max geometry.Point) *endpointTree {
	midX := (max.X + min.X) / 2
	midY := (max.Y + min.Y) / 2
	halfWidth := max.X - midX
	halfHeight := max.Y - midY

	// Margin so endpoints on the bounding box edge are not dropped.
	halfWidth += 10
	halfHeight += 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &endpointTree{quadTree: quadtree.New(aabb, 0, nil)}
}

func (t *endpointTree) add(line *joinLine) {
	addOne := func(p geometry.Point) {
		point := quadtree.NewPoint(p.X, p.Y, nil)
		points := t.quadTree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
		if len(points) > 0 {
			pointX, pointY := points[0].Coordinates()
			if pointX == p.X && pointY == p.Y {
				lines := points[0].Data().(map[*joinLine]struct{})
				lines[line] = struct{}{}
				return
			}
		}
		lines := map[*joinLine]struct{}{line: {}}
		t.quadTree.Insert(quadtree.NewPoint(p.X, p.Y, lines))
	}
	addOne(line.points[0])
	addOne(line.points[len(line.points)-1])
}

func (t *endpointTree) remove(line *joinLine) {
	removeOne := func(p geometry.Point) {
		point := quadtree.NewPoint(p.X, p.Y, nil)
		points := t.quadTree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
		if len(points) > 0 {
			pointX, pointY := points[0].Coordinates()
			if pointX == p.X && pointY == p.Y {
				lines := points[0].Data().(map[*joinLine]struct{})
				delete(lines, line)
				if len(lines) == 0 {
					t.quadTree.Remove(points[0])
				}
			}
		}
	}
	removeOne(line.points[0])
	removeOne(line.points[len(line.points)-1])
}

// nearest finds the open line with an endpoint closest to p within
// maxDist. atStart reports which end of the found line matched.
func (t *endpointTree) nearest(p geometry.Point, maxDist float64, exclude *joinLine) (found *joinLine, atStart bool, ok bool) {
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(p.X, p.Y, nil),
		quadtree.NewPoint(maxDist, maxDist, nil))

	type candidate struct {
		line    *joinLine
		atStart bool
		dist    float64
	}
	var candidates []candidate
	seen := map[*joinLine]struct{}{}
	for _, point := range t.quadTree.Search(aabb) {
		for line := range point.Data().(map[*joinLine]struct{}) {
			if line == exclude || line.dead || line.points.IsClosed(closeEnough) {
				continue
			}
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			dStart := p.Distance(line.points[0])
			dEnd := p.Distance(line.points[len(line.points)-1])
			c := candidate{line: line, atStart: true, dist: dStart}
			if dEnd < dStart {
				c.atStart = false
				c.dist = dEnd
			}
			if c.dist <= maxDist {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, false, false
	}

	// Sort by distance; input order breaks ties so results do not depend
	// on map iteration order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].line.index < candidates[j].line.index
	})
	return candidates[0].line, candidates[0].atStart, true
}

// Join merges open polylines whose endpoints lie within maxDist of each
// other. Lines that end up with coincident endpoints are closed exactly.
// Already-closed lines pass through untouched.
func Join(lines []geometry.Polyline, maxDist float64) []geometry.Polyline {
	var output []geometry.Polyline
	var open []*joinLine
	for _, line := range lines {
		if len(line) < 2 || line.IsClosed(closeEnough) {
			output = append(output, line)
			continue
		}
		open = append(open, &joinLine{points: line, index: len(open)})
	}
	if maxDist <= 0 || len(open) < 2 {
		for _, line := range open {
			output = append(output, line.points)
		}
		return output
	}

	min, max, _ := BoundingBox([]Path{{Parts: linesOf(open)}})
	tree := newEndpointTree(min, max)
	for _, line := range open {
		tree.add(line)
	}

	for _, line := range open {
		if line.dead {
			continue
		}
		flipped := false
		for !line.points.IsClosed(closeEnough) {
			end := line.points[len(line.points)-1]
			other, atStart, ok := tree.nearest(end, maxDist, line)
			if !ok {
				// Dead end; try extending from the other side once.
				if flipped {
					break
				}
				line.points.Reverse()
				flipped = true
				continue
			}
			flipped = false

			tree.remove(line)
			tree.remove(other)
			other.dead = true
			if !atStart {
				other.points.Reverse()
			}
			if end == other.points[0] {
				line.points = append(line.points, other.points[1:]...)
			} else {
				line.points = append(line.points, other.points...)
			}
			tree.add(line)
		}
		if flipped {
			line.points.Reverse()
		}

		// Close small remaining gaps between the line's own ends.
		start := line.points[0]
		end := line.points[len(line.points)-1]
		if start != end && start.Distance(end) <= maxDist {
			line.points = append(line.points, start)
		}
	}

	// Output only after every line has had its chance to absorb others.
	for _, line := range open {
		if !line.dead {
			output = append(output, line.points)
		}
	}
	return output
}

func linesOf(lines []*joinLine) []geometry.Polyline {
	out := make([]geometry.Polyline, len(lines))
	for i, line := range lines {
		out[i] = line.points
	}
	return out
}
