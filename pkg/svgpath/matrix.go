package svgpath

import (
	"fmt"
	"math"
)

// Matrix is a 2D affine transform:
//
//	⎡ A C E ⎤
//	⎣ B D F ⎦
type Matrix struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{
		A: 1, C: 0, E: 0,
		B: 0, D: 1, F: 0,
	}
}

// Scale returns a transform scaling x by fx and y by fy.
func Scale(fx, fy float64) Matrix {
	return Matrix{
		A: fx, C: 0, E: 0,
		B: 0, D: fy, F: 0,
	}
}

// ParseTransform parses an SVG transform attribute (matrix, translate,
// scale, rotate, skewX, skewY) into a single combined Matrix.
func ParseTransform(transform string) (Matrix, error) {
	m := Identity()

	if transform == "" {
		return m, nil
	}

	functions, err := ParseFunctions(transform)
	if err != nil {
		return m, fmt.Errorf("failed to parse transform: %w", err)
	}

	for _, function := range functions {
		switch function.Name {
		case "matrix":
			if len(function.Args) != 6 {
				return m, fmt.Errorf("6 args required for matrix transform, got %v", function.Args)
			}
			m = m.Multiply(Matrix{
				A: function.Args[0], C: function.Args[2], E: function.Args[4],
				B: function.Args[1], D: function.Args[3], F: function.Args[5],
			})
		case "translate":
			if len(function.Args) != 2 && len(function.Args) != 1 {
				return m, fmt.Errorf("1 or 2 args required for translate transform, got %v", function.Args)
			}
			x := function.Args[0]
			y := 0.0
			if len(function.Args) == 2 {
				y = function.Args[1]
			}
			m = m.Multiply(Matrix{
				A: 1, C: 0, E: x,
				B: 0, D: 1, F: y,
			})
		case "scale":
			if len(function.Args) != 2 && len(function.Args) != 1 {
				return m, fmt.Errorf("1 or 2 args required for scale transform, got %v", function.Args)
			}
			x := function.Args[0]
			// A single scale argument means uniform scaling.
			y := x
			if len(function.Args) == 2 {
				y = function.Args[1]
			}
			m = m.Multiply(Scale(x, y))
		case "rotate":
			//  ⎡ cos(θ)  −sin(θ)  −x⋅cos(θ)+y⋅sin(θ)+x ⎤
			//  ⎢ sin(θ)   cos(θ)  −x⋅sin(θ)−y⋅cos(θ)+y |
			//  ⎣   0        0               1          ⎦
			if len(function.Args) != 1 && len(function.Args) != 3 {
				return m, fmt.Errorf("1 or 3 args required for rotate transform, got %v", function.Args)
			}
			cos := math.Cos(function.Args[0] * math.Pi / 180)
			sin := math.Sin(function.Args[0] * math.Pi / 180)
			x, y := 0.0, 0.0
			if len(function.Args) == 3 {
				x, y = function.Args[1], function.Args[2]
			}
			m = m.Multiply(Matrix{
				A: cos, C: -sin, E: -x*cos + y*sin + x,
				B: sin, D: cos, F: -x*sin - y*cos + y,
			})
		case "skewX":
			if len(function.Args) != 1 {
				return m, fmt.Errorf("1 arg required for skewX transform, got %v", function.Args)
			}
			m = m.Multiply(Matrix{
				A: 1, C: math.Tan(function.Args[0] * math.Pi / 180), E: 0,
				B: 0, D: 1, F: 0,
			})
		case "skewY":
			if len(function.Args) != 1 {
				return m, fmt.Errorf("1 arg required for skewY transform, got %v", function.Args)
			}
			m = m.Multiply(Matrix{
				A: 1, C: 0, E: 0,
				B: math.Tan(function.Args[0] * math.Pi / 180), D: 1, F: 0,
			})
		default:
			return m, fmt.Errorf("unknown transform function %q %v", function.Name, function.Args)
		}
	}

	return m, nil
}

func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.C*other.B,
		B: m.B*other.A + m.D*other.B,
		C: m.A*other.C + m.C*other.D,
		D: m.B*other.C + m.D*other.D,
		E: m.A*other.E + m.C*other.F + m.E,
		F: m.B*other.E + m.D*other.F + m.F,
	}
}

func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// IsIdentity reports whether applying the matrix is a no-op.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// TransformPath applies the matrix to every coordinate of the path in
// place. Arc commands only support transforms that keep an ellipse an
// ellipse aligned with the scaled axes (translation and uniform or
// axis-aligned scale); callers flattening arcs should transform the
// flattened points instead.
func (m Matrix) TransformPath(path []*SubPath) {
	for _, group := range path {
		group.X, group.Y = m.TransformPoint(group.X, group.Y)
		for _, drawTo := range group.DrawTo {
			drawTo.X, drawTo.Y = m.TransformPoint(drawTo.X, drawTo.Y)
			switch drawTo.Command {
			case CurveTo:
				drawTo.X1, drawTo.Y1 = m.TransformPoint(drawTo.X1, drawTo.Y1)
				drawTo.X2, drawTo.Y2 = m.TransformPoint(drawTo.X2, drawTo.Y2)
			case QuadTo:
				drawTo.X1, drawTo.Y1 = m.TransformPoint(drawTo.X1, drawTo.Y1)
			case ArcTo:
				drawTo.Rx *= math.Hypot(m.A, m.B)
				drawTo.Ry *= math.Hypot(m.C, m.D)
			}
		}
	}
}
