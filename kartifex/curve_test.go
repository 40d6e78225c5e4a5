package kartifex

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestLine2(t *testing.T) {
	c := Line2{Vec2{0.0, 0.0}, Vec2{4.0, 2.0}}
	test.T(t, c.Start(), Vec2{0.0, 0.0})
	test.T(t, c.End(), Vec2{4.0, 2.0})
	test.T(t, c.Position(0.5), Vec2{2.0, 1.0})
	test.T(t, c.Position(-1.0), c.Start())
	test.T(t, c.Position(2.0), c.End())
	test.T(t, c.Direction(0.0), Vec2{4.0, 2.0})
	test.T(t, c.Bounds(), Box2{Vec2{0.0, 0.0}, Vec2{4.0, 2.0}})
	test.T(t, c.Reverse(), Line2{Vec2{4.0, 2.0}, Vec2{0.0, 0.0}})
	test.T(t, c.WithEndpoints(Vec2{1.0, 1.0}, Vec2{3.0, 3.0}), Line2{Vec2{1.0, 1.0}, Vec2{3.0, 3.0}})
	test.T(t, c.Transform(Identity.Translate(1.0, 0.0)), Line2{Vec2{1.0, 0.0}, Vec2{5.0, 2.0}})

	left, right := c.SplitAt(0.5)
	test.T(t, left.End(), right.Start())
	test.T(t, left, Line2{Vec2{0.0, 0.0}, Vec2{2.0, 1.0}})
	test.T(t, right, Line2{Vec2{2.0, 1.0}, Vec2{4.0, 2.0}})
}

func TestLine2Split(t *testing.T) {
	c := Line2{Vec2{0.0, 0.0}, Vec2{4.0, 0.0}}
	cs := c.Split([]float64{0.25, 0.5})
	test.T(t, len(cs), 3)
	test.T(t, cs[0], Line2{Vec2{0.0, 0.0}, Vec2{1.0, 0.0}})
	test.T(t, cs[1], Line2{Vec2{1.0, 0.0}, Vec2{2.0, 0.0}})
	test.T(t, cs[2], Line2{Vec2{2.0, 0.0}, Vec2{4.0, 0.0}})

	test.T(t, c.Split(nil)[0], c)
}

func TestQuadraticBezier2(t *testing.T) {
	c := QuadraticBezier2{Vec2{0.0, 0.0}, Vec2{1.0, 1.0}, Vec2{2.0, 0.0}}
	test.T(t, c.Start(), Vec2{0.0, 0.0})
	test.T(t, c.End(), Vec2{2.0, 0.0})
	test.T(t, c.Position(0.5), Vec2{1.0, 0.5})
	test.T(t, c.Direction(0.0), Vec2{2.0, 2.0})
	test.T(t, c.Direction(1.0), Vec2{2.0, -2.0})
	test.T(t, c.Bounds(), Box2{Vec2{0.0, 0.0}, Vec2{2.0, 0.5}})
	test.T(t, c.Reverse(), QuadraticBezier2{Vec2{2.0, 0.0}, Vec2{1.0, 1.0}, Vec2{0.0, 0.0}})

	left, right := c.SplitAt(0.5)
	test.T(t, left.End(), right.Start())
	test.T(t, left.Start(), c.Start())
	test.T(t, right.End(), c.End())
	test.T(t, left.End(), Vec2{1.0, 0.5})
}

func TestCubicBezier2(t *testing.T) {
	c := CubicBezier2{Vec2{0.0, 0.0}, Vec2{0.0, 1.0}, Vec2{2.0, 1.0}, Vec2{2.0, 0.0}}
	test.T(t, c.Start(), Vec2{0.0, 0.0})
	test.T(t, c.End(), Vec2{2.0, 0.0})
	test.T(t, c.Position(0.5), Vec2{1.0, 0.75})
	test.T(t, c.Direction(0.0), Vec2{0.0, 3.0})
	test.T(t, c.Direction(1.0), Vec2{0.0, -3.0})
	test.T(t, c.Bounds(), Box2{Vec2{0.0, 0.0}, Vec2{2.0, 0.75}})
	test.T(t, c.Reverse(), CubicBezier2{Vec2{2.0, 0.0}, Vec2{2.0, 1.0}, Vec2{0.0, 1.0}, Vec2{0.0, 0.0}})

	left, right := c.SplitAt(0.5)
	test.T(t, left.End(), right.Start())
	test.T(t, left.End(), Vec2{1.0, 0.75})

	// splitting at many parameters keeps the pieces glued exactly
	cs := c.Split([]float64{0.25, 0.5, 0.75})
	test.T(t, len(cs), 4)
	for i := 1; i < len(cs); i++ {
		test.T(t, cs[i-1].End(), cs[i].Start())
	}
	test.T(t, cs[0].Start(), c.Start())
	test.T(t, cs[3].End(), c.End())
}

func TestArc2(t *testing.T) {
	c := NewArc2(Vec2{0.0, 0.0}, 1.0, 0.0, 0.5*math.Pi)
	test.T(t, c.Start(), Vec2{1.0, 0.0})
	test.Float(t, c.End().X, 0.0)
	test.Float(t, c.End().Y, 1.0)

	p := c.Position(0.5)
	test.Float(t, p.X, math.Sqrt2/2.0)
	test.Float(t, p.Y, math.Sqrt2/2.0)

	d := c.Direction(0.0)
	test.Float(t, d.X, 0.0)
	test.Float(t, d.Y, 0.5*math.Pi)

	b := c.Bounds()
	test.Float(t, b.Min.X, 0.0)
	test.Float(t, b.Min.Y, 0.0)
	test.Float(t, b.Max.X, 1.0)
	test.Float(t, b.Max.Y, 1.0)

	// bounds of an arc crossing the negative x axis
	b = NewArc2(Vec2{0.0, 0.0}, 2.0, 0.5*math.Pi, 1.5*math.Pi).Bounds()
	test.Float(t, b.Min.X, -2.0)
	test.Float(t, b.Min.Y, -2.0)
	test.Float(t, b.Max.Y, 2.0)
}

func TestArc2Exact(t *testing.T) {
	c := NewArc2(Vec2{3.0, 2.0}, 1.5, 0.25*math.Pi, math.Pi)

	// reversal and splitting preserve endpoints exactly
	r := c.Reverse()
	test.T(t, r.Start(), c.End())
	test.T(t, r.End(), c.Start())

	left, right := c.SplitAt(0.5)
	test.T(t, left.End(), right.Start())
	test.T(t, left.Start(), c.Start())
	test.T(t, right.End(), c.End())

	// endpoint replacement is exact and leaves the geometry alone
	w := c.WithEndpoints(Vec2{1.0, 1.0}, Vec2{2.0, 2.0}).(Arc2)
	test.T(t, w.Start(), Vec2{1.0, 1.0})
	test.T(t, w.End(), Vec2{2.0, 2.0})
	test.T(t, w.C, c.C)
	test.Float(t, w.R, c.R)
}

func TestArc2Transform(t *testing.T) {
	c := NewArc2(Vec2{0.0, 0.0}, 1.0, 0.0, 0.5*math.Pi)
	m := Identity.Translate(1.0, 2.0).Rotate(90.0)
	d := c.Transform(m).(Arc2)
	test.Float(t, d.C.X, 1.0)
	test.Float(t, d.C.Y, 2.0)
	test.Float(t, d.R, 1.0)
	test.Float(t, d.Theta1-d.Theta0, 0.5*math.Pi)

	defer func() {
		test.That(t, recover() != nil, "must panic on non-conformal transform")
	}()
	c.Transform(Identity.Scale(1.0, 2.0))
}

func TestCurve2PositionClamp(t *testing.T) {
	curves := []Curve2{
		Line2{Vec2{0.0, 0.0}, Vec2{1.0, 1.0}},
		QuadraticBezier2{Vec2{0.0, 0.0}, Vec2{1.0, 1.0}, Vec2{2.0, 0.0}},
		CubicBezier2{Vec2{0.0, 0.0}, Vec2{0.0, 1.0}, Vec2{2.0, 1.0}, Vec2{2.0, 0.0}},
		NewArc2(Vec2{0.0, 0.0}, 1.0, 0.25, 1.5),
	}
	for _, c := range curves {
		test.T(t, c.Position(0.0), c.Start())
		test.T(t, c.Position(1.0), c.End())
		test.T(t, c.Position(-0.5), c.Start())
		test.T(t, c.Position(1.5), c.End())
	}
}
