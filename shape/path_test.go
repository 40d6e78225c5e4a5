package shape

import (
	"math"
	"testing"

	"github.com/edwinRNDR/openrndr/kartifex"
	"github.com/tdewolff/test"
)

func TestParsePathData(t *testing.T) {
	cmds, err := ParsePathData([]byte("M10 0 L20,10"))
	test.Error(t, err, nil)
	test.T(t, len(cmds), 2)
	test.T(t, cmds[0].Op, byte('M'))
	test.Float(t, cmds[0].Args[0], 10.0)
	test.Float(t, cmds[0].Args[1], 0.0)
	test.T(t, cmds[1].Op, byte('L'))
	test.Float(t, cmds[1].Args[0], 20.0)
	test.Float(t, cmds[1].Args[1], 10.0)
}

func TestParsePathDataImplicit(t *testing.T) {
	// repeated operand groups repeat the command, with M continuing as L
	cmds, err := ParsePathData([]byte("M0 0 10 0 10 10z"))
	test.Error(t, err, nil)
	test.T(t, len(cmds), 4)
	test.T(t, cmds[0].Op, byte('M'))
	test.T(t, cmds[1].Op, byte('L'))
	test.T(t, cmds[2].Op, byte('L'))
	test.T(t, cmds[3].Op, byte('Z'))

	cmds, err = ParsePathData([]byte("m0 0 10 0"))
	test.Error(t, err, nil)
	test.T(t, cmds[1].Op, byte('l'))

	cmds, err = ParsePathData([]byte("M0 0C1 1 2 1 3 0 4 -1 5 -1 6 0"))
	test.Error(t, err, nil)
	test.T(t, len(cmds), 3)
	test.T(t, cmds[2].Op, byte('C'))
}

func TestParsePathDataErrors(t *testing.T) {
	_, err := ParsePathData([]byte("M10"))
	test.That(t, err != nil, "missing operand")
	_, err = ParsePathData([]byte("X10 0"))
	test.That(t, err != nil, "unknown command")
	_, err = ParsePathData([]byte("10 0"))
	test.That(t, err != nil, "operands before any command")
	_, err = ParsePathData([]byte("M10 ,, banana"))
	test.That(t, err != nil, "malformed number")
}

func TestFromCommandsAbsolute(t *testing.T) {
	p := MustParseSVGPath("M0 0L10 0Q15 5 10 10C5 15 0 15 0 10z")
	cs := p.Contours()
	test.T(t, len(cs), 1)
	test.That(t, cs[0].Closed, "closed")
	segs := cs[0].Segments
	test.T(t, len(segs), 4) // line, quad, cubic, closing line
	test.T(t, segs[0].End, kartifex.Vec2{X: 10.0, Y: 0.0})
	test.T(t, segs[1].Control[0], kartifex.Vec2{X: 15.0, Y: 5.0})
	test.T(t, len(segs[2].Control), 2)
	test.T(t, segs[3].End, kartifex.Vec2{}, "closed back to start")
}

func TestFromCommandsRelative(t *testing.T) {
	p := MustParseSVGPath("m1 1 l2 0 v2 h-2 z")
	segs := p.Contours()[0].Segments
	test.T(t, segs[0].End, kartifex.Vec2{X: 3.0, Y: 1.0})
	test.T(t, segs[1].End, kartifex.Vec2{X: 3.0, Y: 3.0})
	test.T(t, segs[2].End, kartifex.Vec2{X: 1.0, Y: 3.0})
	test.T(t, segs[3].End, kartifex.Vec2{X: 1.0, Y: 1.0})
}

func TestFromCommandsSmooth(t *testing.T) {
	// S reflects the previous cubic control point
	p := MustParseSVGPath("M0 0C0 2 2 2 2 0S4 -2 4 0")
	segs := p.Contours()[0].Segments
	test.T(t, len(segs), 2)
	test.T(t, segs[1].Control[0], kartifex.Vec2{X: 2.0, Y: -2.0})

	// without a preceding cubic, the first control point is the current point
	p = MustParseSVGPath("M0 0L1 0S3 2 4 0")
	segs = p.Contours()[0].Segments
	test.T(t, segs[1].Control[0], kartifex.Vec2{X: 1.0, Y: 0.0})

	// T reflects the previous quadratic control point
	p = MustParseSVGPath("M0 0Q1 2 2 0T4 0")
	segs = p.Contours()[0].Segments
	test.T(t, segs[1].Control[0], kartifex.Vec2{X: 3.0, Y: -2.0})
}

func TestFromCommandsArc(t *testing.T) {
	// half circle of radius 1 from (0,0) to (2,0)
	p := MustParseSVGPath("M0 0A1 1 0 0 1 2 0")
	segs := p.Contours()[0].Segments
	test.That(t, 2 <= len(segs), "half circle needs at least two cubics")
	test.T(t, segs[0].Start, kartifex.Vec2{})
	end := segs[len(segs)-1].End
	test.That(t, end.Sub(kartifex.Vec2{X: 2.0, Y: 0.0}).Length() < 1e-9, "arc ends at (2,0)")
	for _, s := range segs {
		for _, u := range []float64{0.0, 0.5, 1.0} {
			r := s.Position(u).Sub(kartifex.Vec2{X: 1.0, Y: 0.0}).Length()
			if d := math.Abs(r - 1.0); 1e-3 < d {
				test.Fail(t, "arc radius off by", d)
			}
		}
	}

	// sweep flag flips the side
	p = MustParseSVGPath("M0 0A1 1 0 0 0 2 0")
	mid := p.Contours()[0].Segments[0].End
	test.That(t, 0.0 < mid.Y, "sweep=0 bulges upward")
}

func TestFromCommandsArcDegenerate(t *testing.T) {
	// zero radius degrades to a line
	p := MustParseSVGPath("M0 0A0 1 0 0 1 2 0")
	segs := p.Contours()[0].Segments
	test.T(t, len(segs), 1)
	test.That(t, segs[0].IsLinear(), "line")

	// negative radii use their absolute values
	p = MustParseSVGPath("M0 0A-1 -1 0 0 1 2 0")
	test.That(t, 2 <= len(p.Contours()[0].Segments), "negative radii still draw the arc")

	// too-small radii are scaled up until the arc spans the endpoints
	p = MustParseSVGPath("M0 0A0.1 0.1 0 0 1 2 0")
	segs = p.Contours()[0].Segments
	end := segs[len(segs)-1].End
	test.That(t, end.Sub(kartifex.Vec2{X: 2.0, Y: 0.0}).Length() < 1e-9, "scaled arc reaches the endpoint")
}

func TestPathBuilder(t *testing.T) {
	p := &Path{}
	test.That(t, p.Empty(), "empty")
	p.MoveTo(1.0, 1.0)
	test.T(t, p.Pos(), kartifex.Vec2{X: 1.0, Y: 1.0})
	p.LineTo(4.0, 5.0)
	test.That(t, !p.Empty(), "not empty")
	test.Float(t, p.Length(), 5.0)

	p.MoveTo(10.0, 0.0)
	p.LineTo(11.0, 0.0)
	cs := p.Contours()
	test.T(t, len(cs), 2)
	test.That(t, !cs[0].Closed, "first contour left open")
}

func TestPathString(t *testing.T) {
	p := &Path{}
	p.MoveTo(0.0, 0.0)
	p.LineTo(10.0, 0.0)
	p.QuadTo(15.0, 5.0, 10.0, 10.0)
	p.Close()
	test.String(t, p.String(), "M0 0L10 0Q15 5 10 10L0 0z")

	p = &Path{}
	p.MoveTo(0.5, 0.0)
	p.CubeTo(0.5, 0.25, 0.25, 0.5, 0.0, 0.5)
	test.String(t, p.String(), "M.5 0C.5 .25 .25 .5 0 .5")
}

func TestContourRing(t *testing.T) {
	p := Rectangle(0.0, 0.0, 2.0, 2.0)
	cs := p.Contours()
	test.T(t, len(cs), 1)
	ring := cs[0].Ring()
	test.T(t, len(ring.Curves), 4)
	test.That(t, !ring.IsClockwise(), "counter-clockwise")
	test.That(t, ring.Contains(kartifex.Vec2{X: 1.0, Y: 1.0}), "inside")
	test.That(t, !ring.Contains(kartifex.Vec2{X: 3.0, Y: 1.0}), "outside")

	// an open contour is closed with a line
	open := Line(0.0, 0.0, 2.0, 0.0)
	open.LineTo(2.0, 2.0)
	ring = open.Contours()[0].Ring()
	test.T(t, len(ring.Curves), 3)
	test.T(t, ring.Curves[2].End(), ring.Curves[0].Start())
}

func TestPathRegion(t *testing.T) {
	a := Rectangle(0.0, 0.0, 2.0, 2.0).Region()
	b := Rectangle(1.0, 1.0, 2.0, 2.0).Region()
	u := a.Union(b)
	test.T(t, len(u.Rings), 1)
	test.That(t, u.Contains(kartifex.Vec2{X: 0.5, Y: 0.5}), "a-only point")
	test.That(t, u.Contains(kartifex.Vec2{X: 2.5, Y: 2.5}), "b-only point")
	test.That(t, !u.Contains(kartifex.Vec2{X: 2.5, Y: 0.5}), "outside both")
}

func TestPathRegionCircle(t *testing.T) {
	r := Circle(0.0, 0.0, 1.0).Region()
	test.T(t, len(r.Rings), 1)
	test.That(t, r.Contains(kartifex.Vec2{X: 0.5, Y: 0.0}), "inside")
	test.That(t, !r.Contains(kartifex.Vec2{X: 1.5, Y: 0.0}), "outside")
	b := r.Bounds()
	if d := math.Abs(b.Max.X - 1.0); 1e-6 < d {
		test.Fail(t, "circle bounds off by", d)
	}
}

func TestContourFlatten(t *testing.T) {
	p := Circle(0.0, 0.0, 1.0)
	c := p.Contours()[0]
	pts := c.Flatten(1e-3)
	test.That(t, 8 < len(pts), "circle flattens into many points")
	for _, pt := range pts {
		r := math.Sqrt(float64(pt[0])*float64(pt[0]) + float64(pt[1])*float64(pt[1]))
		if d := math.Abs(r - 1.0); 5e-3 < d {
			test.Fail(t, "flattened point off the circle by", d)
		}
	}
}

func TestPathLength(t *testing.T) {
	c := Circle(0.0, 0.0, 1.0)
	if d := math.Abs(c.Length() - 2.0*math.Pi); 1e-2 < d {
		test.Fail(t, "circumference off by", d)
	}
}

func TestCommandString(t *testing.T) {
	test.String(t, Command{'M', []float64{10.0, 0.5}}.String(), "M 10 .5")
	test.String(t, Command{'Z', nil}.String(), "Z")
}
