package polygon

import (
	"fmt"
	"math"

	"pixelvec/pkg/geometry"
	"pixelvec/pkg/svgpath"
	"pixelvec/pkg/svgxml"

	geojson "github.com/paulmach/go.geojson"
)

// closeEnough is the distance below which two endpoints count as the same
// point when merging parts and classifying closed paths.
const closeEnough = 1e-10

// Config controls how drawables become polylines.
type Config struct {
	// Flatten bounds the error of curve approximation.
	Flatten geometry.FlattenConfig

	// JoinDistance, when positive, joins open paths whose endpoints lie
	// within this distance of each other.
	JoinDistance float64

	// SimplifyTolerance, when positive, runs Douglas-Peucker
	// simplification on every part with this tolerance.
	SimplifyTolerance float64
}

func DefaultConfig() Config {
	return Config{Flatten: geometry.DefaultFlattenConfig()}
}

// Path is one drawable element reduced to polylines. Parts are the
// maximal continuous runs: subpaths get merged when one starts where the
// previous one ended.
type Path struct {
	Parts []geometry.Polyline
}

// IsClosed reports whether every part ends where it starts.
func (p *Path) IsClosed() bool {
	for _, part := range p.Parts {
		if !part.IsClosed(closeEnough) {
			return false
		}
	}
	return len(p.Parts) > 0
}

// FromSubPaths flattens path data into polylines. Curves are flattened in
// the element's own coordinates and the transform is applied to the
// resulting points, so arcs survive rotation and skew.
func FromSubPaths(subPaths []*svgpath.SubPath, transform svgpath.Matrix, cfg geometry.FlattenConfig) (Path, error) {
	var path Path
	for _, sub := range subPaths {
		part, err := flattenSubPath(sub, cfg)
		if err != nil {
			return Path{}, err
		}
		if len(part) == 0 {
			continue
		}
		last := len(path.Parts) - 1
		if last >= 0 && path.Parts[last][len(path.Parts[last])-1].Distance(part[0]) <= closeEnough {
			path.Parts[last] = append(path.Parts[last], part[1:]...)
		} else {
			path.Parts = append(path.Parts, part)
		}
	}

	if !transform.IsIdentity() {
		for _, part := range path.Parts {
			for i := range part {
				part[i].X, part[i].Y = transform.TransformPoint(part[i].X, part[i].Y)
			}
		}
	}
	return path, nil
}

// FromDrawable flattens one SVG drawable, then applies joining and
// simplification per the config.
func FromDrawable(drawable *svgxml.Drawable, cfg Config) (Path, error) {
	path, err := FromSubPaths(drawable.Path, drawable.Transform, cfg.Flatten)
	if err != nil {
		return Path{}, err
	}
	if cfg.JoinDistance > 0 {
		path.Parts = Join(path.Parts, cfg.JoinDistance)
	}
	if cfg.SimplifyTolerance > 0 {
		for i, part := range path.Parts {
			path.Parts[i] = part.Simplify(cfg.SimplifyTolerance)
		}
	}
	return path, nil
}

func flattenSubPath(sub *svgpath.SubPath, cfg geometry.FlattenConfig) (geometry.Polyline, error) {
	current := geometry.Point{X: sub.X, Y: sub.Y}
	part := geometry.Polyline{current}

	appendPoint := func(p geometry.Point) {
		if part[len(part)-1] != p {
			part = append(part, p)
		}
		current = p
	}

	for _, drawTo := range sub.DrawTo {
		end := geometry.Point{X: drawTo.X, Y: drawTo.Y}
		switch drawTo.Command {
		case svgpath.LineTo, svgpath.ClosePath:
			appendPoint(end)
		case svgpath.CurveTo:
			curve := geometry.CubicBezier{
				P0: current,
				P1: geometry.Point{X: drawTo.X1, Y: drawTo.Y1},
				P2: geometry.Point{X: drawTo.X2, Y: drawTo.Y2},
				P3: end,
			}
			line, err := curve.Flatten(cfg)
			if err != nil {
				return nil, err
			}
			for _, p := range line[1:] {
				appendPoint(p)
			}
			current = end
		case svgpath.QuadTo:
			curve := geometry.QuadBezier{
				P0: current,
				P1: geometry.Point{X: drawTo.X1, Y: drawTo.Y1},
				P2: end,
			}
			line, err := curve.Flatten(cfg)
			if err != nil {
				return nil, err
			}
			for _, p := range line[1:] {
				appendPoint(p)
			}
			current = end
		case svgpath.ArcTo:
			arc, ok := geometry.EndpointArc(current, drawTo.Rx, drawTo.Ry,
				drawTo.Rotation*math.Pi/180, drawTo.LargeArc, drawTo.Sweep, end)
			if !ok {
				// Zero radius or coincident endpoints degrade to a line.
				appendPoint(end)
				continue
			}
			line, err := arc.Flatten(cfg.DistanceTolerance)
			if err != nil {
				return nil, err
			}
			for _, p := range line[1:] {
				appendPoint(p)
			}
			current = end
		default:
			return nil, fmt.Errorf("unsupported path command %q", drawTo.Command)
		}
	}

	return part, nil
}

// BoundingBox returns the extent of all paths. ok is false when there are
// no points at all.
func BoundingBox(paths []Path) (min, max geometry.Point, ok bool) {
	min = geometry.Point{X: math.Inf(1), Y: math.Inf(1)}
	max = geometry.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, path := range paths {
		for _, part := range path.Parts {
			for _, p := range part {
				min.X = math.Min(min.X, p.X)
				min.Y = math.Min(min.Y, p.Y)
				max.X = math.Max(max.X, p.X)
				max.Y = math.Max(max.Y, p.Y)
				ok = true
			}
		}
	}
	return min, max, ok
}

// ToSVG renders the paths as stroked polylines in a new document sized to
// their bounding box.
func ToSVG(paths []Path) *svgxml.Node {
	min, max, ok := BoundingBox(paths)
	if !ok {
		min = geometry.Point{}
		max = geometry.Point{}
	}
	doc := &svgxml.Node{
		XMLName: svgxml.Name("svg"),
		Version: "1.1",
		Width:   svgxml.FormatNumber(max.X - min.X),
		Height:  svgxml.FormatNumber(max.Y - min.Y),
		ViewBox: fmt.Sprintf("%s %s %s %s",
			svgxml.FormatNumber(min.X), svgxml.FormatNumber(min.Y),
			svgxml.FormatNumber(max.X-min.X), svgxml.FormatNumber(max.Y-min.Y)),
	}

	for _, path := range paths {
		node := &svgxml.Node{
			XMLName: svgxml.Name("path"),
			Fill:    "none",
			Stroke:  "#000000",
		}
		for _, part := range path.Parts {
			if len(part) == 0 {
				continue
			}
			sub := &svgpath.SubPath{X: part[0].X, Y: part[0].Y}
			for _, p := range part[1:] {
				sub.DrawTo = append(sub.DrawTo, &svgpath.DrawTo{
					Command: svgpath.LineTo,
					X:       p.X,
					Y:       p.Y,
				})
			}
			node.Path = append(node.Path, sub)
		}
		doc.Children = append(doc.Children, node)
	}
	return doc
}

// ToGeoJSON renders each path as one feature: Polygon or MultiPolygon
// when every part is closed, LineString or MultiLineString otherwise.
func ToGeoJSON(paths []Path) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for _, path := range paths {
		parts := make([][][]float64, 0, len(path.Parts))
		for _, part := range path.Parts {
			coords := make([][]float64, 0, len(part))
			for _, p := range part {
				coords = append(coords, []float64{p.X, p.Y})
			}
			parts = append(parts, coords)
		}
		if len(parts) == 0 {
			continue
		}

		var feature *geojson.Feature
		if path.IsClosed() {
			if len(parts) == 1 {
				feature = geojson.NewPolygonFeature([][][]float64{parts[0]})
			} else {
				polygons := make([][][][]float64, 0, len(parts))
				for _, part := range parts {
					polygons = append(polygons, [][][]float64{part})
				}
				feature = geojson.NewMultiPolygonFeature(polygons...)
			}
		} else {
			if len(parts) == 1 {
				feature = geojson.NewLineStringFeature(parts[0])
			} else {
				feature = geojson.NewMultiLineStringFeature(parts...)
			}
		}
		collection.AddFeature(feature)
	}
	return collection
}
