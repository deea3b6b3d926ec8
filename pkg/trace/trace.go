package trace

import (
	"fmt"
	"image"
	imgcolor "image/color"
	"sort"
	"strconv"
	"strings"

	"pixelvec/pkg/geometry"
	"pixelvec/pkg/svgxml"
)

// Color is a packed 8-bit RGBA pixel value. Tracing compares pixels for
// exact equality, so the packed form doubles as the map key for the
// color histogram.
type Color uint32

func PackColor(c imgcolor.Color) Color {
	n := imgcolor.NRGBAModel.Convert(c).(imgcolor.NRGBA)
	return Color(uint32(n.R)<<24 | uint32(n.G)<<16 | uint32(n.B)<<8 | uint32(n.A))
}

func (c Color) RGBA8() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the color as an SVG fill value, ignoring alpha.
func (c Color) Hex() string {
	r, g, b, _ := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Opacity returns the alpha channel as a fraction.
func (c Color) Opacity() float64 {
	_, _, _, a := c.RGBA8()
	return float64(a) / 255
}

// Raster is a decoded image with pixels packed for exact-color comparison.
type Raster struct {
	Width  int
	Height int
	Pixels []Color
}

// NewRaster packs an image into a Raster. The image's bounds may start
// anywhere; the raster is always indexed from (0, 0).
func NewRaster(img image.Image) *Raster {
	bounds := img.Bounds()
	r := &Raster{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: make([]Color, bounds.Dx()*bounds.Dy()),
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r.Pixels[i] = PackColor(img.At(x, y))
			i++
		}
	}
	return r
}

func (r *Raster) At(x, y int) Color {
	return r.Pixels[x+y*r.Width]
}

// Background returns the most frequent color. Ties go to the smaller
// packed value so the choice is deterministic.
func (r *Raster) Background() Color {
	counts := make(map[Color]int)
	for _, c := range r.Pixels {
		counts[c]++
	}
	var best Color
	bestCount := -1
	for c, count := range counts {
		if count > bestCount || (count == bestCount && c < best) {
			best = c
			bestCount = count
		}
	}
	return best
}

// Region is one connected area of same-colored pixels. The first ring is
// the outer boundary; any further rings are holes and wind the other way.
// Ring coordinates are pixel-grid corners, so a single pixel at (x, y)
// yields the ring (x,y) (x+1,y) (x+1,y+1) (x,y+1) (x,y).
type Region struct {
	Color Color
	Rings []geometry.Polyline
}

type gridPoint struct {
	X int
	Y int
}

// edge is one directed unit edge of a region boundary. The directions are
// chosen so that walking start→end keeps the region on the right, which
// makes the stitched outer ring wind counter-clockwise in image
// coordinates (y down).
type edge struct {
	start gridPoint
	end   gridPoint
}

// Regions scans the raster and traces every connected non-background
// area, in the order their first pixel appears in row-major scan order.
func (r *Raster) Regions() []Region {
	background := r.Background()
	mask := make([]bool, len(r.Pixels))
	for i, c := range r.Pixels {
		if c == background {
			mask[i] = true
		}
	}

	var regions []Region
	for i, masked := range mask {
		if masked {
			continue
		}
		x := i % r.Width
		y := i / r.Width
		regions = append(regions, Region{
			Color: r.Pixels[i],
			Rings: r.traceRegion(mask, x, y),
		})
	}
	return regions
}

// traceRegion flood fills the same-colored area containing (x0, y0),
// collecting the directed boundary edges, then stitches the edges into
// closed rings.
func (r *Raster) traceRegion(mask []bool, x0, y0 int) []geometry.Polyline {
	val := r.At(x0, y0)
	stack := []gridPoint{{x0, y0}}
	var edges []edge

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		index := p.X + p.Y*r.Width
		if mask[index] {
			continue
		}
		mask[index] = true

		x, y := p.X, p.Y
		neighbors := [4]struct {
			pixel  gridPoint
			border edge
		}{
			{gridPoint{x - 1, y}, edge{gridPoint{x, y + 1}, gridPoint{x, y}}},
			{gridPoint{x, y - 1}, edge{gridPoint{x, y}, gridPoint{x + 1, y}}},
			{gridPoint{x + 1, y}, edge{gridPoint{x + 1, y}, gridPoint{x + 1, y + 1}}},
			{gridPoint{x, y + 1}, edge{gridPoint{x + 1, y + 1}, gridPoint{x, y + 1}}},
		}
		for _, n := range neighbors {
			if n.pixel.X < 0 || n.pixel.X >= r.Width || n.pixel.Y < 0 || n.pixel.Y >= r.Height {
				edges = append(edges, n.border)
				continue
			}
			if r.At(n.pixel.X, n.pixel.Y) == val {
				if !mask[n.pixel.X+n.pixel.Y*r.Width] {
					stack = append(stack, n.pixel)
				}
			} else {
				edges = append(edges, n.border)
			}
		}
	}

	return stitchRings(edges)
}

// stitchRings chains directed edges into closed rings, dropping interior
// points of straight runs as it goes. Each ring starts and ends on the
// same corner point.
func stitchRings(edges []edge) []geometry.Polyline {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.start != b.start {
			return lessPoint(a.start, b.start)
		}
		return lessPoint(a.end, b.end)
	})

	byStart := make(map[gridPoint][]int)
	for i, e := range edges {
		byStart[e.start] = append(byStart[e.start], i)
	}
	used := make([]bool, len(edges))

	// First unused edge leaving p; corner-touching pixels give points
	// with more than one outgoing edge, and sorted order picks the same
	// continuation every time.
	next := func(p gridPoint) (int, bool) {
		for _, i := range byStart[p] {
			if !used[i] {
				return i, true
			}
		}
		return 0, false
	}

	var rings []geometry.Polyline
	for i := range edges {
		if used[i] {
			continue
		}
		origin := edges[i].start
		var ring geometry.Polyline
		lastDiff := gridPoint{}
		e := i
		for {
			used[e] = true
			diff := gridPoint{
				X: edges[e].end.X - edges[e].start.X,
				Y: edges[e].end.Y - edges[e].start.Y,
			}
			if diff != lastDiff {
				ring = append(ring, pointOf(edges[e].start))
			}
			lastDiff = diff
			if edges[e].end == origin {
				ring = append(ring, pointOf(origin))
				break
			}
			var ok bool
			e, ok = next(edges[e].end)
			if !ok {
				break
			}
		}
		// Holes wind opposite to the outer ring.
		if len(rings) > 0 {
			ring.Reverse()
		}
		rings = append(rings, ring)
	}
	return rings
}

func lessPoint(a, b gridPoint) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func pointOf(p gridPoint) geometry.Point {
	return geometry.Point{X: float64(p.X), Y: float64(p.Y)}
}

// PathData serializes the region's rings as SVG path data, using H and V
// for the axis-aligned runs that dominate pixel boundaries.
func (region *Region) PathData() string {
	var d []string
	for _, ring := range region.Rings {
		d = append(d, fmt.Sprintf("M%s,%s",
			svgxml.FormatNumber(ring[0].X), svgxml.FormatNumber(ring[0].Y)))
		last := ring[0]
		for _, p := range ring[1:] {
			switch {
			case p.X == last.X:
				d = append(d, "V"+svgxml.FormatNumber(p.Y))
			case p.Y == last.Y:
				d = append(d, "H"+svgxml.FormatNumber(p.X))
			default:
				d = append(d, fmt.Sprintf("L%s,%s",
					svgxml.FormatNumber(p.X), svgxml.FormatNumber(p.Y)))
			}
			last = p
		}
		d = append(d, "Z")
	}
	return strings.Join(d, " ")
}

// ToSVG traces an image into an SVG document: a background rect covering
// the canvas, then one path per region in scan order. Regions with holes
// get an evenodd fill rule.
func ToSVG(img image.Image) *svgxml.Node {
	raster := NewRaster(img)
	doc := svgxml.NewDocument(raster.Width, raster.Height)

	background := raster.Background()
	rect := &svgxml.Node{
		XMLName: svgxml.Name("rect"),
		X:       "0",
		Y:       "0",
		Width:   strconv.Itoa(raster.Width),
		Height:  strconv.Itoa(raster.Height),
	}
	setFill(rect, background)
	doc.Children = append(doc.Children, rect)

	for _, region := range raster.Regions() {
		node := &svgxml.Node{
			XMLName: svgxml.Name("path"),
			D:       region.PathData(),
		}
		if len(region.Rings) > 1 {
			node.FillRule = "evenodd"
		}
		setFill(node, region.Color)
		doc.Children = append(doc.Children, node)
	}
	return doc
}

func setFill(node *svgxml.Node, c Color) {
	node.Fill = c.Hex()
	if opacity := c.Opacity(); opacity < 1 {
		node.FillOpacity = strconv.FormatFloat(opacity, 'f', 4, 64)
	}
}
