package svgxml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"pixelvec/pkg/svgpath"
)

// SVGNamespace is the XML namespace of SVG documents.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Node is one SVG document element. A single struct covers every element
// kind this tool reads or writes; the per-shape attributes are kept as
// strings so that absent and zero-valued attributes stay distinguishable
// and unknown documents round-trip cleanly.
type Node struct {
	XMLName   xml.Name
	Width     string  `xml:"width,attr,omitempty"`
	Height    string  `xml:"height,attr,omitempty"`
	ViewBox   string  `xml:"viewBox,attr,omitempty"`
	Version   string  `xml:"version,attr,omitempty"`
	ID        string  `xml:"id,attr,omitempty"`
	Styles    string  `xml:"style,attr,omitempty"`
	D         string  `xml:"d,attr,omitempty"`
	Transform string  `xml:"transform,attr,omitempty"`

	Fill        string `xml:"fill,attr,omitempty"`
	FillRule    string `xml:"fill-rule,attr,omitempty"`
	FillOpacity string `xml:"fill-opacity,attr,omitempty"`
	Stroke      string `xml:"stroke,attr,omitempty"`

	// Shape attributes for rect, line, circle and ellipse elements, and
	// the points list of polyline and polygon elements.
	X      string `xml:"x,attr,omitempty"`
	Y      string `xml:"y,attr,omitempty"`
	X1     string `xml:"x1,attr,omitempty"`
	Y1     string `xml:"y1,attr,omitempty"`
	X2     string `xml:"x2,attr,omitempty"`
	Y2     string `xml:"y2,attr,omitempty"`
	CX     string `xml:"cx,attr,omitempty"`
	CY     string `xml:"cy,attr,omitempty"`
	R      string `xml:"r,attr,omitempty"`
	RX     string `xml:"rx,attr,omitempty"`
	RY     string `xml:"ry,attr,omitempty"`
	Points string `xml:"points,attr,omitempty"`

	Children []*Node `xml:",any"`

	// Path holds the parsed form of a path element built or rewritten by
	// this tool; Marshal serializes it back into D.
	Path []*svgpath.SubPath `xml:"-"`
}

// Name returns the xml.Name of an SVG element.
func Name(local string) xml.Name {
	return xml.Name{Local: local}
}

// Parse parses an SVG document.
func Parse(data []byte) (*Node, error) {
	var svg Node
	err := xml.Unmarshal(data, &svg)
	return &svg, err
}

// Marshal serializes the document. Nodes with a parsed Path get their d
// attribute regenerated first.
func (n *Node) Marshal() ([]byte, error) {
	var prepare func(node *Node)
	prepare = func(node *Node) {
		if node.Path != nil {
			node.D = svgpath.ToString(node.Path)
		}
		// The SVG namespace on the root is enough.
		if node != n {
			node.XMLName.Space = ""
		}
		for _, child := range node.Children {
			prepare(child)
		}
	}
	prepare(n)
	return xml.MarshalIndent(n, "", "  ")
}

// NewDocument returns an svg root element with the given pixel dimensions.
func NewDocument(width, height int) *Node {
	return &Node{
		XMLName: xml.Name{Space: SVGNamespace, Local: "svg"},
		Version: "1.1",
		Width:   strconv.Itoa(width),
		Height:  strconv.Itoa(height),
		ViewBox: fmt.Sprintf("0 0 %d %d", width, height),
	}
}

// Drawable is one drawable element: its parsed path data, expressed in the
// element's own coordinates, and the transform accumulated from the element
// and its ancestors.
type Drawable struct {
	Node      *Node
	Path      []*svgpath.SubPath
	Transform svgpath.Matrix
}

// Drawables walks the document and returns every element with geometry
// (path, polyline, polygon, line, rect, circle, ellipse), converting shape
// elements to path data first. Elements that fail to parse abort the walk.
func (n *Node) Drawables() ([]*Drawable, error) {
	var drawables []*Drawable

	var descend func(node *Node, parent svgpath.Matrix) error
	descend = func(node *Node, parent svgpath.Matrix) error {
		local, err := svgpath.ParseTransform(node.Transform)
		if err != nil {
			return fmt.Errorf("element %q: %w", node.XMLName.Local, err)
		}
		matrix := parent.Multiply(local)

		d, err := node.PathData()
		if err != nil {
			return fmt.Errorf("element %q: %w", node.XMLName.Local, err)
		}
		if d != "" {
			path, err := svgpath.Parse(d)
			if err != nil {
				return fmt.Errorf("element %q: %w", node.XMLName.Local, err)
			}
			drawables = append(drawables, &Drawable{
				Node:      node,
				Path:      path,
				Transform: matrix,
			})
		}

		for _, child := range node.Children {
			if err := descend(child, matrix); err != nil {
				return err
			}
		}
		return nil
	}

	if err := descend(n, svgpath.Identity()); err != nil {
		return nil, err
	}
	return drawables, nil
}

// PathData returns the element's geometry as SVG path data, or "" for
// elements without geometry.
func (n *Node) PathData() (string, error) {
	switch n.XMLName.Local {
	case "path":
		return n.D, nil
	case "polyline":
		return pointsToPathData(n.Points, false)
	case "polygon":
		return pointsToPathData(n.Points, true)
	case "line":
		return fmt.Sprintf("M %s %s L %s %s",
			nonEmpty(n.X1), nonEmpty(n.Y1), nonEmpty(n.X2), nonEmpty(n.Y2)), nil
	case "rect":
		x := ParseNumber(n.X)
		y := ParseNumber(n.Y)
		w := ParseNumber(n.Width)
		h := ParseNumber(n.Height)
		if w <= 0 || h <= 0 {
			return "", fmt.Errorf("rect with non-positive size %q x %q", n.Width, n.Height)
		}
		return fmt.Sprintf("M %s %s H %s V %s H %s Z",
			FormatNumber(x), FormatNumber(y),
			FormatNumber(x+w), FormatNumber(y+h), FormatNumber(x)), nil
	case "circle":
		return ellipsePathData(n.CX, n.CY, n.R, n.R), nil
	case "ellipse":
		return ellipsePathData(n.CX, n.CY, n.RX, n.RY), nil
	}
	return "", nil
}

// ellipsePathData builds an ellipse as two half arcs, the same construction
// svg2poly uses for circle and ellipse elements.
func ellipsePathData(cxAttr, cyAttr, rxAttr, ryAttr string) string {
	cx := ParseNumber(cxAttr)
	cy := ParseNumber(cyAttr)
	rx := ParseNumber(rxAttr)
	ry := ParseNumber(ryAttr)
	return fmt.Sprintf("M %s %s a %s %s 0 1 0 %s 0 a %s %s 0 1 0 %s 0 Z",
		FormatNumber(cx-rx), FormatNumber(cy),
		FormatNumber(rx), FormatNumber(ry), FormatNumber(2*rx),
		FormatNumber(rx), FormatNumber(ry), FormatNumber(-2*rx))
}

// pointsToPathData converts a polyline/polygon points attribute to path
// data. Points are "x,y" pairs separated by whitespace and/or commas.
func pointsToPathData(points string, closed bool) (string, error) {
	fields := strings.FieldsFunc(points, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})
	if len(fields) < 4 || len(fields)%2 != 0 {
		return "", fmt.Errorf("points list %q must hold at least two x,y pairs", points)
	}
	var buf strings.Builder
	for i := 0; i < len(fields); i += 2 {
		if i == 0 {
			buf.WriteString("M ")
		} else {
			buf.WriteString(" L ")
		}
		buf.WriteString(fields[i] + " " + fields[i+1])
	}
	if closed {
		buf.WriteString(" Z")
	}
	return buf.String(), nil
}

func nonEmpty(attr string) string {
	if attr == "" {
		return "0"
	}
	return attr
}

// ParseNumber parses an attribute value as a float, treating garbage as 0.
func ParseNumber(n string) float64 {
	val, _ := strconv.ParseFloat(strings.TrimSpace(n), 64)
	return val
}

// FormatNumber formats a float with the shortest exact representation.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
