package geometry

// Simplify simplifies the polyline using the Douglas-Peucker algorithm:
// points closer than epsilon to the chord of their span are dropped.
// The endpoints are always kept.
func (points Polyline) Simplify(epsilon float64) Polyline {
	if len(points) < 2 {
		return nil
	}

	firstPoint, lastPoint := points[0], points[len(points)-1]
	if len(points) == 2 {
		return Polyline{firstPoint, lastPoint}
	}

	// Find the point with the max distance from the chord.
	chord := LineSegment{A: firstPoint, B: lastPoint}
	dmax := 0.0
	index := 0
	for i := 1; i < len(points)-1; i++ {
		d := chord.Distance(points[i])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax < epsilon {
		return Polyline{firstPoint, lastPoint}
	}

	// Note: both halves include the split point, so the recursion is always
	// called with at least 2 points.
	left := points[:index+1].Simplify(epsilon)
	right := points[index:].Simplify(epsilon)
	return append(left[:len(left)-1], right...)
}

// DropCollinear removes interior points that continue in exactly the same
// direction as the previous step. Pixel-boundary rings produce long runs of
// unit steps; this reduces them to their corners without changing the shape.
func (points Polyline) DropCollinear() Polyline {
	if len(points) < 3 {
		return points
	}
	out := Polyline{points[0]}
	for i := 1; i < len(points)-1; i++ {
		prev := points[i].Minus(out[len(out)-1])
		next := points[i+1].Minus(points[i])
		if prev.CrossProductZ(next) != 0 {
			out = append(out, points[i])
		}
	}
	return append(out, points[len(points)-1])
}
