package shape

import (
	"fmt"
	"math"
	"strings"

	"github.com/edwinRNDR/openrndr/kartifex"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/image/math/f32"
)

// Precision is the number of significant digits used when writing path data.
const Precision = 8

// Command is a single pre-tokenized SVG path command: the op letter (case
// carries the relative/absolute distinction) and its operands.
type Command struct {
	Op   byte
	Args []float64
}

func (c Command) String() string {
	var sb strings.Builder
	sb.WriteByte(c.Op)
	for _, a := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(num(a).String())
	}
	return sb.String()
}

// cmdArgs is the operand count per SVG path op.
var cmdArgs = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2,
	'A': 7, 'Z': 0,
}

func skipCommaWhitespace(data []byte) int {
	i := 0
	for i < len(data) && (data[i] == ' ' || data[i] == ',' || data[i] == '\n' || data[i] == '\r' || data[i] == '\t') {
		i++
	}
	return i
}

// ParsePathData tokenizes SVG path data into commands with implicit
// repetition resolved: repeated operand groups become their own command,
// with repeated M becoming L per the SVG specification.
func ParsePathData(data []byte) ([]Command, error) {
	var cmds []Command
	var prevOp byte

	i := 0
	for i < len(data) {
		i += skipCommaWhitespace(data[i:])
		if len(data) <= i {
			break
		}

		op := prevOp
		if 'A' <= data[i] && data[i] <= 'z' {
			op = data[i]
			i++
		} else if op == 0 || upperOp(op) == 'Z' {
			// Z takes no operands, so it cannot repeat implicitly
			return nil, fmt.Errorf("bad path: expected command at position %d", i)
		}

		n, ok := cmdArgs[upperOp(op)]
		if !ok {
			return nil, fmt.Errorf("bad path: unknown command %q at position %d", op, i-1)
		}

		args := make([]float64, n)
		for j := 0; j < n; j++ {
			i += skipCommaWhitespace(data[i:])
			f, k := strconv.ParseFloat(data[i:])
			if k == 0 {
				return nil, fmt.Errorf("bad path: expected number at position %d", i)
			}
			args[j] = f
			i += k
		}
		cmds = append(cmds, Command{op, args})

		// an implicitly repeated MoveTo continues as LineTo
		switch op {
		case 'M':
			prevOp = 'L'
		case 'm':
			prevOp = 'l'
		default:
			prevOp = op
		}
	}
	return cmds, nil
}

func upperOp(op byte) byte {
	if 'a' <= op && op <= 'z' {
		return op - 'a' + 'A'
	}
	return op
}

////////////////////////////////////////////////////////////////

// Contour is a chain of segments, optionally closed.
type Contour struct {
	Segments []Segment
	Closed   bool
}

// Ring converts the contour into a kartifex ring, closing open contours
// with a line.
func (c Contour) Ring() kartifex.Ring2 {
	curves := make([]kartifex.Curve2, 0, len(c.Segments)+1)
	for _, s := range c.Segments {
		curves = append(curves, s.Curve())
	}
	if 0 < len(c.Segments) {
		first := c.Segments[0].Start
		last := c.Segments[len(c.Segments)-1].End
		if !last.Equals(first) {
			curves = append(curves, kartifex.Line2{P0: last, P1: first})
		}
	}
	return kartifex.NewRing2(curves)
}

// Length returns the summed arc length of all segments.
func (c Contour) Length() float64 {
	length := 0.0
	for _, s := range c.Segments {
		length += s.Length()
	}
	return length
}

// Flatten approximates the contour by a polyline within the given distance
// tolerance, in the packed form the tessellation layer consumes.
func (c Contour) Flatten(distanceTolerance float64) []f32.Vec2 {
	var pts []f32.Vec2
	for i, s := range c.Segments {
		pos := s.AdaptivePositions(distanceTolerance)
		if 0 < i {
			pos = pos[1:] // segment start repeats the previous end
		}
		for _, p := range pos {
			pts = append(pts, f32.Vec2{float32(p.X), float32(p.Y)})
		}
	}
	return pts
}

////////////////////////////////////////////////////////////////

// Path is a mutable builder over a sequence of contours, mirroring the SVG
// path command set.
type Path struct {
	contours []Contour
	pending  []Segment
	start    kartifex.Vec2
	current  kartifex.Vec2
}

// Pos returns the current pen position.
func (p *Path) Pos() kartifex.Vec2 {
	return p.current
}

// Empty returns true when no segments have been added.
func (p *Path) Empty() bool {
	return len(p.pending) == 0 && len(p.contours) == 0
}

// MoveTo starts a new contour at (x,y), finishing the current contour as an
// open one.
func (p *Path) MoveTo(x, y float64) {
	p.flush(false)
	p.start = kartifex.Vec2{X: x, Y: y}
	p.current = p.start
}

// LineTo adds a line to (x,y).
func (p *Path) LineTo(x, y float64) {
	end := kartifex.Vec2{X: x, Y: y}
	p.pending = append(p.pending, LinearSegment(p.current, end))
	p.current = end
}

// QuadTo adds a quadratic Bézier through control point (cx,cy) to (x,y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	end := kartifex.Vec2{X: x, Y: y}
	p.pending = append(p.pending, QuadraticSegment(p.current, kartifex.Vec2{X: cx, Y: cy}, end))
	p.current = end
}

// CubeTo adds a cubic Bézier through control points (c0x,c0y) and (c1x,c1y)
// to (x,y).
func (p *Path) CubeTo(c0x, c0y, c1x, c1y, x, y float64) {
	end := kartifex.Vec2{X: x, Y: y}
	p.pending = append(p.pending, CubicSegment(p.current, kartifex.Vec2{X: c0x, Y: c0y}, kartifex.Vec2{X: c1x, Y: c1y}, end))
	p.current = end
}

// ArcTo adds an elliptical arc with radii rx and ry, rotated by rot degrees,
// to (x,y), converted to cubic Bézier segments. Radii are normalized per the
// SVG implementation notes: absolute values are used, zero radii degrade to
// a line, and too-small radii are scaled up until the arc exists.
func (p *Path) ArcTo(rx, ry, rot float64, large, sweep bool, x, y float64) {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if kartifex.Equal(rx, 0.0) || kartifex.Equal(ry, 0.0) {
		p.LineTo(x, y)
		return
	}
	if p.current.Equals(kartifex.Vec2{X: x, Y: y}) {
		return
	}
	cx, cy, theta0, theta1 := arcToCenter(p.current.X, p.current.Y, rx, ry, rot, large, sweep, x, y)
	segments := ellipseToSegments(kartifex.Vec2{X: cx, Y: cy}, rx, ry, rot, theta0, theta1)
	// pin the computed endpoints to the commanded ones so contours share
	// vertices exactly
	segments[0].Start = p.current
	segments[len(segments)-1].End = kartifex.Vec2{X: x, Y: y}
	p.pending = append(p.pending, segments...)
	p.current = kartifex.Vec2{X: x, Y: y}
}

// Close closes the current contour back to its starting point.
func (p *Path) Close() {
	if !p.current.Equals(p.start) {
		p.pending = append(p.pending, LinearSegment(p.current, p.start))
	}
	p.flush(true)
	p.current = p.start
}

func (p *Path) flush(closed bool) {
	if 0 < len(p.pending) {
		p.contours = append(p.contours, Contour{Segments: p.pending, Closed: closed})
		p.pending = nil
	}
}

// Contours returns all contours built so far, including the unfinished one.
func (p *Path) Contours() []Contour {
	cs := p.contours
	if 0 < len(p.pending) {
		cs = append(cs[:len(cs):len(cs)], Contour{Segments: p.pending})
	}
	return cs
}

// Region converts the path into a kartifex region, closing open contours.
func (p *Path) Region() kartifex.Region2 {
	var rings []kartifex.Ring2
	for _, c := range p.Contours() {
		rings = append(rings, c.Ring())
	}
	return kartifex.FromRings(rings...)
}

// Length returns the summed arc length of all contours.
func (p *Path) Length() float64 {
	length := 0.0
	for _, c := range p.Contours() {
		length += c.Length()
	}
	return length
}

// String writes the path as SVG path data.
func (p *Path) String() string {
	var sb strings.Builder
	for _, c := range p.Contours() {
		for i, s := range c.Segments {
			if i == 0 {
				fmt.Fprintf(&sb, "M%v %v", num(s.Start.X), num(s.Start.Y))
			}
			switch len(s.Control) {
			case 0:
				fmt.Fprintf(&sb, "L%v %v", num(s.End.X), num(s.End.Y))
			case 1:
				fmt.Fprintf(&sb, "Q%v %v %v %v", num(s.Control[0].X), num(s.Control[0].Y), num(s.End.X), num(s.End.Y))
			default:
				fmt.Fprintf(&sb, "C%v %v %v %v %v %v", num(s.Control[0].X), num(s.Control[0].Y),
					num(s.Control[1].X), num(s.Control[1].Y), num(s.End.X), num(s.End.Y))
			}
		}
		if c.Closed {
			sb.WriteByte('z')
		}
	}
	return sb.String()
}

type num float64

func (f num) String() string {
	s := fmt.Sprintf("%.*g", Precision, float64(f))
	return string(minify.Number([]byte(s), Precision))
}

////////////////////////////////////////////////////////////////

// FromCommands builds a path from tokenized SVG commands, handling relative
// coordinates, single-operand H/V lines, S/T control point reflection and
// elliptical arcs.
func FromCommands(cmds []Command) (*Path, error) {
	p := &Path{}
	var prevOp byte
	var cp kartifex.Vec2 // last control point, for S/T reflection

	for _, cmd := range cmds {
		if len(cmd.Args) != cmdArgs[upperOp(cmd.Op)] {
			return nil, fmt.Errorf("bad command %q: got %d operands", cmd.Op, len(cmd.Args))
		}
		pos := p.Pos()
		rel := kartifex.Vec2{}
		if 'a' <= cmd.Op && cmd.Op <= 'z' {
			rel = pos
		}
		a := cmd.Args
		switch upperOp(cmd.Op) {
		case 'M':
			p.MoveTo(rel.X+a[0], rel.Y+a[1])
		case 'L':
			p.LineTo(rel.X+a[0], rel.Y+a[1])
		case 'H':
			p.LineTo(rel.X+a[0], pos.Y)
		case 'V':
			p.LineTo(pos.X, rel.Y+a[0])
		case 'C':
			p.CubeTo(rel.X+a[0], rel.Y+a[1], rel.X+a[2], rel.Y+a[3], rel.X+a[4], rel.Y+a[5])
			cp = kartifex.Vec2{X: rel.X + a[2], Y: rel.Y + a[3]}
		case 'S':
			c0 := pos
			if op := upperOp(prevOp); op == 'C' || op == 'S' {
				c0 = pos.Mul(2.0).Sub(cp)
			}
			p.CubeTo(c0.X, c0.Y, rel.X+a[0], rel.Y+a[1], rel.X+a[2], rel.Y+a[3])
			cp = kartifex.Vec2{X: rel.X + a[0], Y: rel.Y + a[1]}
		case 'Q':
			p.QuadTo(rel.X+a[0], rel.Y+a[1], rel.X+a[2], rel.Y+a[3])
			cp = kartifex.Vec2{X: rel.X + a[0], Y: rel.Y + a[1]}
		case 'T':
			c := pos
			if op := upperOp(prevOp); op == 'Q' || op == 'T' {
				c = pos.Mul(2.0).Sub(cp)
			}
			p.QuadTo(c.X, c.Y, rel.X+a[0], rel.Y+a[1])
			cp = c
		case 'A':
			large := math.Abs(a[3]-1.0) < kartifex.Epsilon
			sweep := math.Abs(a[4]-1.0) < kartifex.Epsilon
			p.ArcTo(a[0], a[1], a[2], large, sweep, rel.X+a[5], rel.Y+a[6])
		case 'Z':
			p.Close()
		default:
			return nil, fmt.Errorf("bad command %q", cmd.Op)
		}
		prevOp = cmd.Op
	}
	return p, nil
}

// ParseSVGPath parses SVG path data into a path.
func ParseSVGPath(data string) (*Path, error) {
	cmds, err := ParsePathData([]byte(data))
	if err != nil {
		return nil, err
	}
	return FromCommands(cmds)
}

// MustParseSVGPath parses SVG path data and panics on malformed input.
func MustParseSVGPath(data string) *Path {
	p, err := ParseSVGPath(data)
	if err != nil {
		panic(err)
	}
	return p
}

////////////////////////////////////////////////////////////////

// arcToCenter converts an SVG endpoint arc parameterization to a center one,
// returning the ellipse center and the start and end angles in degrees.
// see https://www.w3.org/TR/SVG/implnote.html#ArcImplementationNotes
func arcToCenter(x1, y1, rx, ry, rot float64, large, sweep bool, x2, y2 float64) (float64, float64, float64, float64) {
	if x1 == x2 && y1 == y2 {
		return x1, y1, 0.0, 0.0
	}

	phi := rot * math.Pi / 180.0
	sinphi, cosphi := math.Sincos(phi)
	x1p := cosphi*(x1-x2)/2.0 + sinphi*(y1-y2)/2.0
	y1p := -sinphi*(x1-x2)/2.0 + cosphi*(y1-y2)/2.0

	// scale radii up when they cannot span the endpoints
	radiiCheck := x1p*x1p/rx/rx + y1p*y1p/ry/ry
	if 1.0 < radiiCheck {
		rx *= math.Sqrt(radiiCheck)
		ry *= math.Sqrt(radiiCheck)
	}

	sq := (rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p) / (rx*rx*y1p*y1p + ry*ry*x1p*x1p)
	if sq < 0.0 {
		sq = 0.0
	}
	coef := math.Sqrt(sq)
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := coef * -ry * x1p / rx
	cx := cosphi*cxp - sinphi*cyp + (x1+x2)/2.0
	cy := sinphi*cxp + cosphi*cyp + (y1+y2)/2.0

	ux := (x1p - cxp) / rx
	uy := (y1p - cyp) / ry
	vx := -(x1p + cxp) / rx
	vy := -(y1p + cyp) / ry

	theta := math.Acos(ux / math.Sqrt(ux*ux+uy*uy))
	if uy < 0.0 {
		theta = -theta
	}
	theta *= 180.0 / math.Pi

	delta := math.Acos((ux*vx + uy*vy) / math.Sqrt((ux*ux+uy*uy)*(vx*vx+vy*vy)))
	if ux*vy-uy*vx < 0.0 {
		delta = -delta
	}
	delta *= 180.0 / math.Pi
	if !sweep && 0.0 < delta {
		delta -= 360.0
	} else if sweep && delta < 0.0 {
		delta += 360.0
	}

	return cx, cy, theta, theta + delta
}

// ellipseToSegments approximates the elliptical arc from angle theta0 to
// theta1 (degrees) by cubic Bézier segments, one per quarter turn at most.
func ellipseToSegments(center kartifex.Vec2, rx, ry, rot, theta0, theta1 float64) []Segment {
	phi := rot * math.Pi / 180.0
	sinphi, cosphi := math.Sincos(phi)
	pos := func(theta float64) kartifex.Vec2 {
		sintheta, costheta := math.Sincos(theta)
		dx, dy := rx*costheta, ry*sintheta
		return kartifex.Vec2{
			X: center.X + cosphi*dx - sinphi*dy,
			Y: center.Y + sinphi*dx + cosphi*dy,
		}
	}
	deriv := func(theta float64) kartifex.Vec2 {
		sintheta, costheta := math.Sincos(theta)
		dx, dy := -rx*sintheta, ry*costheta
		return kartifex.Vec2{
			X: cosphi*dx - sinphi*dy,
			Y: sinphi*dx + cosphi*dy,
		}
	}

	t0 := theta0 * math.Pi / 180.0
	t1 := theta1 * math.Pi / 180.0
	n := int(math.Ceil(math.Abs(t1-t0) / (0.5 * math.Pi)))
	if n < 1 {
		n = 1
	}

	segments := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		a0 := t0 + (t1-t0)*float64(i)/float64(n)
		a1 := t0 + (t1-t0)*float64(i+1)/float64(n)
		dt := a1 - a0
		// control point distance for a cubic arc approximation
		alpha := math.Sin(dt) * (math.Sqrt(4.0+3.0*math.Pow(math.Tan(dt/2.0), 2.0)) - 1.0) / 3.0
		p0, p1 := pos(a0), pos(a1)
		segments = append(segments, CubicSegment(
			p0,
			p0.Add(deriv(a0).Mul(alpha)),
			p1.Sub(deriv(a1).Mul(alpha)),
			p1,
		))
	}
	return segments
}
