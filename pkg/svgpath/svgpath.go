package svgpath

import (
	"fmt"
	"strconv"
	"strings"
)

// The parser follows the SVG 1.1 path grammar
// (https://www.w3.org/TR/SVG11/paths.html#PathDataBNF): a path is
// "wsp* moveto-drawto-command-groups? wsp*", where each group is a moveto
// followed by drawto commands (Z, L, H, V, C, S, Q, T, A, each in absolute
// or relative form), numbers are optionally signed floats with exponents,
// and separators are commas and/or whitespace.
//
// Shorthand commands are resolved during parsing: H and V become full
// linetos, and the reflected control points of S and T are computed here, so
// consumers only ever see absolute Z/L/C/Q/A commands.

type Command string

const (
	ClosePath Command = "Z"
	LineTo    Command = "L"
	CurveTo   Command = "C"
	QuadTo    Command = "Q"
	ArcTo     Command = "A"
)

// SubPath is one moveto command group: a start point and the drawto
// commands that follow it.
type SubPath struct {
	X, Y   float64
	DrawTo []*DrawTo
}

// DrawTo is one drawing command with absolute coordinates. X, Y is always
// the point the command ends at. For CurveTo, X1, Y1 and X2, Y2 are the two
// control points; for QuadTo only X1, Y1 is used. The Rx through Sweep
// fields are only meaningful for ArcTo.
type DrawTo struct {
	Command Command
	X, Y    float64
	X1, Y1  float64
	X2, Y2  float64

	// Arc parameters, as written in the path data. Rotation is the x-axis
	// rotation in degrees.
	Rx, Ry   float64
	Rotation float64
	LargeArc bool
	Sweep    bool
}

type state struct {
	data     string
	index    int
	subPaths []*SubPath
	group    *SubPath
	currentX float64
	currentY float64
	relative bool

	// Control point bookkeeping for the smooth commands. S reflects the
	// previous cubic control point, T the previous quadratic one; both
	// fall back to the current point when the previous command wasn't of
	// the matching kind.
	lastCommand Command
	lastCtrlX   float64
	lastCtrlY   float64
}

// Parse parses SVG path data into subpaths with absolute coordinates.
func Parse(path string) ([]*SubPath, error) {
	s := &state{
		data:  path,
		index: 0,
	}
	err := s.parse()
	return s.subPaths, err
}

func (s *state) parse() error {
	for {
		s.whitespace()

		c := s.peek()
		if c != 'M' && c != 'm' {
			break
		}

		err := s.parseMoveTo()
		if err != nil {
			return err
		}
		s.whitespace()
		err = s.parseDrawToCommands()
		if err != nil {
			return err
		}
	}

	s.whitespace()

	if s.index != len(s.data) {
		return fmt.Errorf("unparsed data: %q", s.data[s.index:])
	}

	return nil
}

// setLast records the command and (for curves) the control point that a
// following smooth command would reflect.
func (s *state) setLast(command Command, ctrlX, ctrlY float64) {
	s.lastCommand = command
	s.lastCtrlX = ctrlX
	s.lastCtrlY = ctrlY
}

// reflectedControl returns the reflection of the previous control point
// about the current point, provided the previous command matches kind;
// otherwise the current point, per the SVG smooth-command rules.
func (s *state) reflectedControl(kind Command) (float64, float64) {
	if s.lastCommand != kind {
		return s.currentX, s.currentY
	}
	return 2*s.currentX - s.lastCtrlX, 2*s.currentY - s.lastCtrlY
}

// parseMoveTo parses one moveto command, plus any trailing coordinate pairs,
// which are implicit linetos.
func (s *state) parseMoveTo() error {
	command := s.next()
	if command != 'M' && command != 'm' {
		return fmt.Errorf("expected \"M\" or \"m\", got %q", string(command))
	}
	s.relative = command == 'm'
	s.whitespace()

	x, y, err := s.parseCoordinatePair()
	if err != nil {
		return err
	}
	if s.relative {
		x += s.currentX
		y += s.currentY
	}
	s.currentX, s.currentY = x, y
	s.setLast("M", 0, 0)

	// The moveto starts a new subpath.
	s.group = nil
	s.ensureSubPath()

	for {
		savedIndex := s.index
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			// backtrack.
			s.index = savedIndex
			break
		}
		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		s.currentX = x
		s.currentY = y
		s.setLast(LineTo, 0, 0)
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: y})
	}

	return nil
}

// ensureSubPath starts a new subpath if there isn't already one.
func (s *state) ensureSubPath() {
	if s.group == nil {
		s.group = &SubPath{X: s.currentX, Y: s.currentY}
		s.subPaths = append(s.subPaths, s.group)
	}
}

// parseDrawToCommands parses 0 or more drawto commands.
func (s *state) parseDrawToCommands() error {
	first := true
	for {
		if !first {
			s.whitespace()
		}
		first = false

		var err error

		c := s.peek()
		switch c {
		case 'L', 'l':
			err = s.parseLineTo()
		case 'H', 'h':
			err = s.parseHorizontalLineTo()
		case 'V', 'v':
			err = s.parseVerticalLineTo()
		case 'C', 'c':
			err = s.parseCurveTo()
		case 'S', 's':
			err = s.parseSmoothCurveTo()
		case 'Q', 'q':
			err = s.parseQuadTo()
		case 'T', 't':
			err = s.parseSmoothQuadTo()
		case 'A', 'a':
			err = s.parseArcTo()
		case 'Z', 'z':
			err = s.parseClosePath()
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}
}

func (s *state) parseClosePath() error {
	c := s.next()
	if c != 'Z' && c != 'z' {
		return fmt.Errorf("expecting \"Z\" or \"z\", got %q", string(c))
	}
	s.ensureSubPath()
	s.group.DrawTo = append(s.group.DrawTo,
		&DrawTo{Command: ClosePath, X: s.group.X, Y: s.group.Y})
	s.currentX = s.group.X
	s.currentY = s.group.Y
	s.setLast(ClosePath, 0, 0)
	s.group = nil
	return nil
}

// command begins an argument-sequence command: it consumes the command
// letter, records the relative flag, and makes sure a subpath exists.
func (s *state) command(upper, lower byte) error {
	c := s.next()
	if c != upper && c != lower {
		return fmt.Errorf("expecting %q or %q, got %q", string(upper), string(lower), string(c))
	}
	s.relative = c == lower
	s.whitespace()
	s.ensureSubPath()
	return nil
}

// argumentSequence parses "argument (comma-wsp? argument)*", where one
// argument is parsed by parseOne. The first argument is required; parsing
// stops (with backtracking) at the first element that is not an argument.
func (s *state) argumentSequence(parseOne func() error) error {
	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		err := parseOne()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		first = false
	}
}

func (s *state) parseLineTo() error {
	if err := s.command('L', 'l'); err != nil {
		return err
	}
	return s.argumentSequence(func() error {
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: y})
		s.currentX = x
		s.currentY = y
		s.setLast(LineTo, 0, 0)
		return nil
	})
}

func (s *state) parseHorizontalLineTo() error {
	if err := s.command('H', 'h'); err != nil {
		return err
	}
	return s.argumentSequence(func() error {
		x, err := s.parseNumber()
		if err != nil {
			return err
		}
		if s.relative {
			x += s.currentX
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: s.currentY})
		s.currentX = x
		s.setLast(LineTo, 0, 0)
		return nil
	})
}

func (s *state) parseVerticalLineTo() error {
	if err := s.command('V', 'v'); err != nil {
		return err
	}
	return s.argumentSequence(func() error {
		y, err := s.parseNumber()
		if err != nil {
			return err
		}
		if s.relative {
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: s.currentX, Y: y})
		s.currentY = y
		s.setLast(LineTo, 0, 0)
		return nil
	})
}

func (s *state) parseCurveTo() error {
	if err := s.command('C', 'c'); err != nil {
		return err
	}
	return s.argumentSequence(func() error {
		x1, y1, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		x2, y2, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		if s.relative {
			x1 += s.currentX
			y1 += s.currentY
			x2 += s.currentX
			y2 += s.currentY
			x += s.currentX
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: CurveTo, X: x, Y: y, X1: x1, Y1: y1, X2: x2, Y2: y2})
		s.currentX = x
		s.currentY = y
		s.setLast(CurveTo, x2, y2)
		return nil
	})
}

func (s *state) parseSmoothCurveTo() error {
	if err := s.command('S', 's'); err != nil {
		return err
	}
	return s.argumentSequence(func() error {
		x2, y2, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		if s.relative {
			x2 += s.currentX
			y2 += s.currentY
			x += s.currentX
			y += s.currentY
		}
		x1, y1 := s.reflectedControl(CurveTo)
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: CurveTo, X: x, Y: y, X1: x1, Y1: y1, X2: x2, Y2: y2})
		s.currentX = x
		s.currentY = y
		s.setLast(CurveTo, x2, y2)
		return nil
	})
}

func (s *state) parseQuadTo() error {
	if err := s.command('Q', 'q'); err != nil {
		return err
	}
	return s.argumentSequence(func() error {
		x1, y1, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		if s.relative {
			x1 += s.currentX
			y1 += s.currentY
			x += s.currentX
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: QuadTo, X: x, Y: y, X1: x1, Y1: y1})
		s.currentX = x
		s.currentY = y
		s.setLast(QuadTo, x1, y1)
		return nil
	})
}

func (s *state) parseSmoothQuadTo() error {
	if err := s.command('T', 't'); err != nil {
		return err
	}
	return s.argumentSequence(func() error {
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		x1, y1 := s.reflectedControl(QuadTo)
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: QuadTo, X: x, Y: y, X1: x1, Y1: y1})
		s.currentX = x
		s.currentY = y
		s.setLast(QuadTo, x1, y1)
		return nil
	})
}

func (s *state) parseArcTo() error {
	if err := s.command('A', 'a'); err != nil {
		return err
	}
	return s.argumentSequence(func() error {
		rx, err := s.parseNonNegativeNumber()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		ry, err := s.parseNonNegativeNumber()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		rotation, err := s.parseNumber()
		if err != nil {
			return err
		}
		if err := s.requiredCommaWhitespace(); err != nil {
			return err
		}
		largeArc, err := s.parseFlag()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		sweep, err := s.parseFlag()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}
		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo, &DrawTo{
			Command:  ArcTo,
			X:        x,
			Y:        y,
			Rx:       rx,
			Ry:       ry,
			Rotation: rotation,
			LargeArc: largeArc,
			Sweep:    sweep,
		})
		s.currentX = x
		s.currentY = y
		s.setLast(ArcTo, 0, 0)
		return nil
	})
}

// parseFlag parses a single "0" or "1". Flags are the one place the grammar
// allows no separator at all, so only one digit is consumed.
func (s *state) parseFlag() (bool, error) {
	c := s.next()
	switch c {
	case '0':
		return false, nil
	case '1':
		return true, nil
	}
	return false, fmt.Errorf("expected flag \"0\" or \"1\", got %q", string(c))
}

// parseCoordinatePair parses "coordinate comma-wsp? coordinate".
func (s *state) parseCoordinatePair() (float64, float64, error) {
	x, err := s.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	s.commaWhitespace()
	y, err := s.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// parseNumber parses an optionally signed number.
func (s *state) parseNumber() (float64, error) {
	c := s.peek()
	if c == '+' || c == '-' {
		s.next()
		n, err := s.parseNonNegativeNumber()
		if c == '-' {
			n = -n
		}
		return n, err
	}
	return s.parseNonNegativeNumber()
}

// parseNonNegativeNumber parses "(digit-sequence | fractional-constant) exponent?".
func (s *state) parseNonNegativeNumber() (float64, error) {
	number := s.digitSequence()
	if number == "" {
		// Possible fractional constant starting with a decimal point
		c := s.next()
		if c != '.' {
			return 0, fmt.Errorf("expected a number, got %q", string(c))
		}
		number = "." + s.digitSequence()
		if number == "." {
			return 0, fmt.Errorf("expected a number, got only a \".\"")
		}
	} else {
		// Check for possible fractional constant
		c := s.peek()
		if c == '.' {
			s.next()
			number += "." + s.digitSequence()
		}
	}

	// Check for possible exponent
	c := s.peek()
	if c == 'E' || c == 'e' {
		s.next()
		sign := ""
		c = s.peek()
		if c == '+' || c == '-' {
			s.next()
			sign = string(c)
		}
		exponent := s.digitSequence()
		if exponent == "" {
			return 0, fmt.Errorf("expected an exponent, got %q", string(c))
		}
		number += "E" + sign + exponent
	}

	return strconv.ParseFloat(number, 64)
}

func (s *state) digitSequence() string {
	var sequence []byte
	for {
		c := s.peek()
		if '0' <= c && c <= '9' {
			sequence = append(sequence, c)
			s.next()
		} else {
			break
		}
	}
	return string(sequence)
}

// whitespace consumes "wsp*", and returns the number of bytes consumed.
func (s *state) whitespace() int {
	count := 0
	for {
		switch s.peek() {
		case ' ', '\t', '\n', '\r':
			s.next()
			count++
		default:
			return count
		}
	}
}

// commaWhitespace consumes an optional "(wsp+ comma? wsp*) | (comma wsp*)",
// and returns true if something was consumed.
func (s *state) commaWhitespace() bool {
	if s.peek() == ',' {
		s.next()
		s.whitespace()
		return true
	}

	consumed := s.whitespace()
	if consumed > 0 {
		if s.peek() == ',' {
			s.next()
		}
		s.whitespace()
		return true
	}

	return false
}

// requiredCommaWhitespace consumes "(wsp+ comma? wsp*) | (comma wsp*)".
func (s *state) requiredCommaWhitespace() error {
	if !s.commaWhitespace() {
		return fmt.Errorf("expected comma or whitespace, got %q", string(s.peek()))
	}
	return nil
}

// peek returns the next byte without consuming it, or 0 at end of data.
func (s *state) peek() byte {
	if s.index < len(s.data) {
		return s.data[s.index]
	}
	return 0
}

// next consumes and returns the next byte, or 0 at end of data.
func (s *state) next() byte {
	if s.index < len(s.data) {
		i := s.index
		s.index++
		return s.data[i]
	}
	return 0
}

// Function is one entry of an SVG transform list, e.g. rotate(45 10 10).
type Function struct {
	Name string
	Args []float64
}

func (s *state) parseFunctions() ([]*Function, error) {
	var functions []*Function
	// (wsp* identifier wsp* "(" wsp* number (comma-wsp number)* wsp* ")" wsp*)*
	for {
		function := &Function{}
		functions = append(functions, function)

		// identifier
		s.whitespace()
		c := s.next()
		if !isLetter(c) {
			return functions, fmt.Errorf("identifier must start with a letter, got %q", string(c))
		}
		function.Name += string(c)
		for {
			c := s.peek()
			if isLetter(c) || ('0' <= c && c <= '9') || c == '_' || c == '-' {
				function.Name += string(s.next())
			} else {
				break
			}
		}

		// Open parenthesis
		s.whitespace()
		c = s.next()
		if c != '(' {
			return functions, fmt.Errorf("expected \"(\", got %q", string(c))
		}

		// First argument (optional)
		s.whitespace()
		oldIndex := s.index
		n, err := s.parseNumber()
		if err != nil {
			s.index = oldIndex
		} else {
			function.Args = append(function.Args, n)
			// Remaining arguments
			for {
				oldIndex = s.index
				s.commaWhitespace()
				n, err = s.parseNumber()
				if err != nil {
					s.index = oldIndex
					break
				}
				function.Args = append(function.Args, n)
			}
		}

		// Close parenthesis
		s.whitespace()
		c = s.next()
		if c != ')' {
			return functions, fmt.Errorf("expected \")\", got %q", string(c))
		}
		s.whitespace()

		if s.peek() == 0 {
			return functions, nil
		}
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// ParseFunctions parses an SVG transform list into its function calls.
func ParseFunctions(functions string) ([]*Function, error) {
	s := &state{
		data:  functions,
		index: 0,
	}
	return s.parseFunctions()
}

// ToString serializes subpaths back to path data. It runs a simple
// serialization and does not try to optimize the path string.
func ToString(groups []*SubPath) string {
	var buf strings.Builder

	n := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	for i, group := range groups {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("M " + n(group.X) + " " + n(group.Y))
		for _, drawTo := range group.DrawTo {
			switch drawTo.Command {
			case LineTo:
				buf.WriteString(" L " + n(drawTo.X) + " " + n(drawTo.Y))
			case CurveTo:
				buf.WriteString(" C " +
					n(drawTo.X1) + " " + n(drawTo.Y1) + " " +
					n(drawTo.X2) + " " + n(drawTo.Y2) + " " +
					n(drawTo.X) + " " + n(drawTo.Y))
			case QuadTo:
				buf.WriteString(" Q " +
					n(drawTo.X1) + " " + n(drawTo.Y1) + " " +
					n(drawTo.X) + " " + n(drawTo.Y))
			case ArcTo:
				buf.WriteString(" A " +
					n(drawTo.Rx) + " " + n(drawTo.Ry) + " " +
					n(drawTo.Rotation) + " " +
					flag(drawTo.LargeArc) + " " + flag(drawTo.Sweep) + " " +
					n(drawTo.X) + " " + n(drawTo.Y))
			case ClosePath:
				buf.WriteString(" Z")
			}
		}
	}

	return buf.String()
}
