package kartifex

import (
	"fmt"
	"math"
	"sort"
)

// Curve2 is a single parametric 2D curve segment over t in [0,1]. It is a
// closed sum type: the only implementations are Line2, QuadraticBezier2,
// CubicBezier2 and Arc2, so that operations over pairs of curves can
// type-switch exhaustively. Curves are immutable; all operations return new
// curves.
type Curve2 interface {
	// Start returns the exact start point, equal to Position(0).
	Start() Vec2
	// End returns the exact end point, equal to Position(1).
	End() Vec2
	// Position returns the point at parameter t, clamped to [0,1].
	Position(t float64) Vec2
	// Direction returns the derivative at parameter t.
	Direction(t float64) Vec2
	// SplitAt splits the curve at t into two sub-curves sharing the split
	// point exactly. Values of t at or beyond the curve boundary yield a
	// zero-length piece on that side.
	SplitAt(t float64) (Curve2, Curve2)
	// Split splits the curve at every parameter of ts, which must be sorted
	// ascending within (0,1). The sub-curves cover [0,1] in order and share
	// endpoints exactly.
	Split(ts []float64) []Curve2
	// Bounds returns the axis-aligned bounding box of the curve.
	Bounds() Box2
	// Reverse returns the same geometry traversed from End to Start.
	Reverse() Curve2
	// Transform applies an affine transformation.
	Transform(m Matrix) Curve2
	// WithEndpoints returns the curve with its start and end replaced by the
	// given points exactly, leaving interior control geometry untouched.
	WithEndpoints(start, end Vec2) Curve2

	fmt.Stringer
	isCurve2()
}

// splitCurve2 splits c at all of ts, which must be sorted ascending in (0,1),
// renormalizing each split parameter against the remaining right piece.
func splitCurve2(c Curve2, ts []float64) []Curve2 {
	if len(ts) == 0 {
		return []Curve2{c}
	}
	cs := make([]Curve2, 0, len(ts)+1)
	t0 := 0.0
	rem := c
	for _, t := range ts {
		left, right := rem.SplitAt((t - t0) / (1.0 - t0))
		cs = append(cs, left)
		rem = right
		t0 = t
	}
	return append(cs, rem)
}

////////////////////////////////////////////////////////////////

// Line2 is the line segment from P0 to P1.
type Line2 struct {
	P0, P1 Vec2
}

func (c Line2) isCurve2() {}

func (c Line2) Start() Vec2 {
	return c.P0
}

func (c Line2) End() Vec2 {
	return c.P1
}

func (c Line2) Position(t float64) Vec2 {
	if t <= 0.0 {
		return c.P0
	} else if 1.0 <= t {
		return c.P1
	}
	return c.P0.Interpolate(c.P1, t)
}

func (c Line2) Direction(t float64) Vec2 {
	return c.P1.Sub(c.P0)
}

func (c Line2) SplitAt(t float64) (Curve2, Curve2) {
	mid := c.Position(t)
	return Line2{c.P0, mid}, Line2{mid, c.P1}
}

func (c Line2) Split(ts []float64) []Curve2 {
	return splitCurve2(c, ts)
}

func (c Line2) Bounds() Box2 {
	return boxOf(c.P0, c.P1)
}

func (c Line2) Reverse() Curve2 {
	return Line2{c.P1, c.P0}
}

func (c Line2) Transform(m Matrix) Curve2 {
	return Line2{m.Dot(c.P0), m.Dot(c.P1)}
}

func (c Line2) WithEndpoints(start, end Vec2) Curve2 {
	return Line2{start, end}
}

func (c Line2) String() string {
	return fmt.Sprintf("Line2(%v, %v)", c.P0, c.P1)
}

////////////////////////////////////////////////////////////////

// QuadraticBezier2 is a quadratic Bézier curve with control point P1.
type QuadraticBezier2 struct {
	P0, P1, P2 Vec2
}

func (c QuadraticBezier2) isCurve2() {}

func (c QuadraticBezier2) Start() Vec2 {
	return c.P0
}

func (c QuadraticBezier2) End() Vec2 {
	return c.P2
}

func (c QuadraticBezier2) Position(t float64) Vec2 {
	if t <= 0.0 {
		return c.P0
	} else if 1.0 <= t {
		return c.P2
	}
	return quadraticBezierPos(c.P0, c.P1, c.P2, t)
}

func (c QuadraticBezier2) Direction(t float64) Vec2 {
	return quadraticBezierDeriv(c.P0, c.P1, c.P2, math.Max(0.0, math.Min(1.0, t)))
}

func (c QuadraticBezier2) SplitAt(t float64) (Curve2, Curve2) {
	if t <= 0.0 {
		return Line2{c.P0, c.P0}, c
	} else if 1.0 <= t {
		return c, Line2{c.P2, c.P2}
	}
	q0, q1, q2, r0, r1, r2 := quadraticBezierSplit(c.P0, c.P1, c.P2, t)
	return QuadraticBezier2{q0, q1, q2}, QuadraticBezier2{r0, r1, r2}
}

func (c QuadraticBezier2) Split(ts []float64) []Curve2 {
	return splitCurve2(c, ts)
}

func (c QuadraticBezier2) Bounds() Box2 {
	b := boxOf(c.P0, c.P2)
	// extremum per axis where the derivative component vanishes
	if tx := extremumQuadratic(c.P0.X, c.P1.X, c.P2.X); !math.IsNaN(tx) {
		b = b.AddPoint(c.Position(tx))
	}
	if ty := extremumQuadratic(c.P0.Y, c.P1.Y, c.P2.Y); !math.IsNaN(ty) {
		b = b.AddPoint(c.Position(ty))
	}
	return b
}

func (c QuadraticBezier2) Reverse() Curve2 {
	return QuadraticBezier2{c.P2, c.P1, c.P0}
}

func (c QuadraticBezier2) Transform(m Matrix) Curve2 {
	return QuadraticBezier2{m.Dot(c.P0), m.Dot(c.P1), m.Dot(c.P2)}
}

func (c QuadraticBezier2) WithEndpoints(start, end Vec2) Curve2 {
	return QuadraticBezier2{start, c.P1, end}
}

func (c QuadraticBezier2) String() string {
	return fmt.Sprintf("QuadraticBezier2(%v, %v, %v)", c.P0, c.P1, c.P2)
}

func extremumQuadratic(p0, p1, p2 float64) float64 {
	denom := p0 - 2.0*p1 + p2
	if Equal(denom, 0.0) {
		return math.NaN()
	}
	t := (p0 - p1) / denom
	if t <= Epsilon || 1.0-Epsilon <= t {
		return math.NaN()
	}
	return t
}

////////////////////////////////////////////////////////////////

// CubicBezier2 is a cubic Bézier curve with control points P1 and P2.
type CubicBezier2 struct {
	P0, P1, P2, P3 Vec2
}

func (c CubicBezier2) isCurve2() {}

func (c CubicBezier2) Start() Vec2 {
	return c.P0
}

func (c CubicBezier2) End() Vec2 {
	return c.P3
}

func (c CubicBezier2) Position(t float64) Vec2 {
	if t <= 0.0 {
		return c.P0
	} else if 1.0 <= t {
		return c.P3
	}
	return cubicBezierPos(c.P0, c.P1, c.P2, c.P3, t)
}

func (c CubicBezier2) Direction(t float64) Vec2 {
	return cubicBezierDeriv(c.P0, c.P1, c.P2, c.P3, math.Max(0.0, math.Min(1.0, t)))
}

func (c CubicBezier2) SplitAt(t float64) (Curve2, Curve2) {
	if t <= 0.0 {
		return Line2{c.P0, c.P0}, c
	} else if 1.0 <= t {
		return c, Line2{c.P3, c.P3}
	}
	q0, q1, q2, q3, r0, r1, r2, r3 := cubicBezierSplit(c.P0, c.P1, c.P2, c.P3, t)
	return CubicBezier2{q0, q1, q2, q3}, CubicBezier2{r0, r1, r2, r3}
}

func (c CubicBezier2) Split(ts []float64) []Curve2 {
	return splitCurve2(c, ts)
}

func (c CubicBezier2) Bounds() Box2 {
	b := boxOf(c.P0, c.P3)
	for _, t := range extremaCubic(c.P0.X, c.P1.X, c.P2.X, c.P3.X) {
		b = b.AddPoint(c.Position(t))
	}
	for _, t := range extremaCubic(c.P0.Y, c.P1.Y, c.P2.Y, c.P3.Y) {
		b = b.AddPoint(c.Position(t))
	}
	return b
}

func (c CubicBezier2) Reverse() Curve2 {
	return CubicBezier2{c.P3, c.P2, c.P1, c.P0}
}

func (c CubicBezier2) Transform(m Matrix) Curve2 {
	return CubicBezier2{m.Dot(c.P0), m.Dot(c.P1), m.Dot(c.P2), m.Dot(c.P3)}
}

func (c CubicBezier2) WithEndpoints(start, end Vec2) Curve2 {
	return CubicBezier2{start, c.P1, c.P2, end}
}

func (c CubicBezier2) String() string {
	return fmt.Sprintf("CubicBezier2(%v, %v, %v, %v)", c.P0, c.P1, c.P2, c.P3)
}

// extremaCubic returns the parameters in (0,1) where the derivative of the
// cubic polynomial through p0..p3 vanishes.
func extremaCubic(p0, p1, p2, p3 float64) []float64 {
	a := -p0 + 3.0*p1 - 3.0*p2 + p3
	b := 2.0*p0 - 4.0*p1 + 2.0*p2
	c := p1 - p0
	var ts []float64
	t0, t1 := SolveQuadratic(3.0*a, b, c)
	for _, t := range [2]float64{t0, t1} {
		if !math.IsNaN(t) && Epsilon < t && t < 1.0-Epsilon {
			ts = append(ts, t)
		}
	}
	sort.Float64s(ts)
	return ts
}

////////////////////////////////////////////////////////////////

// Arc2 is a circular arc around center C with radius R, from angle Theta0 to
// angle Theta1 (radians, counter-clockwise when Theta0 < Theta1). The exact
// endpoints are stored explicitly so that vertex canonicalization can replace
// them without perturbing the arc geometry.
type Arc2 struct {
	C              Vec2
	R              float64
	Theta0, Theta1 float64

	p0, p1 Vec2
}

// NewArc2 returns the circular arc around c with radius r from angle theta0
// to theta1 in radians. The arc runs counter-clockwise when theta0 < theta1.
func NewArc2(c Vec2, r, theta0, theta1 float64) Arc2 {
	return Arc2{
		C: c, R: r, Theta0: theta0, Theta1: theta1,
		p0: arcPos(c, r, theta0),
		p1: arcPos(c, r, theta1),
	}
}

func arcPos(c Vec2, r, theta float64) Vec2 {
	sintheta, costheta := math.Sincos(theta)
	return Vec2{c.X + r*costheta, c.Y + r*sintheta}
}

func (c Arc2) isCurve2() {}

func (c Arc2) Start() Vec2 {
	return c.p0
}

func (c Arc2) End() Vec2 {
	return c.p1
}

func (c Arc2) Position(t float64) Vec2 {
	if t <= 0.0 {
		return c.p0
	} else if 1.0 <= t {
		return c.p1
	}
	return arcPos(c.C, c.R, c.Theta0+t*(c.Theta1-c.Theta0))
}

func (c Arc2) Direction(t float64) Vec2 {
	theta := c.Theta0 + math.Max(0.0, math.Min(1.0, t))*(c.Theta1-c.Theta0)
	sintheta, costheta := math.Sincos(theta)
	return Vec2{-sintheta, costheta}.Mul(c.R * (c.Theta1 - c.Theta0))
}

func (c Arc2) SplitAt(t float64) (Curve2, Curve2) {
	mid := c.Position(t)
	if t <= 0.0 {
		return Line2{c.p0, c.p0}, c
	} else if 1.0 <= t {
		return c, Line2{c.p1, c.p1}
	}
	theta := c.Theta0 + t*(c.Theta1-c.Theta0)
	left := Arc2{C: c.C, R: c.R, Theta0: c.Theta0, Theta1: theta, p0: c.p0, p1: mid}
	right := Arc2{C: c.C, R: c.R, Theta0: theta, Theta1: c.Theta1, p0: mid, p1: c.p1}
	return left, right
}

func (c Arc2) Split(ts []float64) []Curve2 {
	// renormalization in splitCurve2 is exact for the affine angle mapping
	return splitCurve2(c, ts)
}

func (c Arc2) Bounds() Box2 {
	b := boxOf(c.p0, c.p1)
	// add the axis-aligned extremes covered by the angular span
	for _, theta := range [4]float64{0.0, 0.5 * math.Pi, math.Pi, 1.5 * math.Pi} {
		if angleBetween(theta, c.Theta0, c.Theta1) {
			b = b.AddPoint(arcPos(c.C, c.R, theta))
		}
	}
	return b
}

func (c Arc2) Reverse() Curve2 {
	return Arc2{C: c.C, R: c.R, Theta0: c.Theta1, Theta1: c.Theta0, p0: c.p1, p1: c.p0}
}

// Transform applies m, which must be conformal (uniform scale, rotation,
// translation, or a reflection thereof); a circular arc cannot represent the
// image under a non-conformal transformation.
func (c Arc2) Transform(m Matrix) Curve2 {
	conformal := Equal(m[0][0], m[1][1]) && Equal(m[0][1], -m[1][0]) ||
		Equal(m[0][0], -m[1][1]) && Equal(m[0][1], m[1][0])
	if !conformal {
		panic("cannot transform circular arc by non-conformal matrix")
	}
	scale := math.Sqrt(math.Abs(m.Det()))
	reflected := m.Det() < 0.0
	center := m.Dot(c.C)
	p0, p1 := m.Dot(c.p0), m.Dot(c.p1)
	theta0 := p0.Sub(center).Angle()
	dtheta := c.Theta1 - c.Theta0
	if reflected {
		dtheta = -dtheta
	}
	return Arc2{C: center, R: c.R * scale, Theta0: theta0, Theta1: theta0 + dtheta, p0: p0, p1: p1}
}

func (c Arc2) WithEndpoints(start, end Vec2) Curve2 {
	c.p0, c.p1 = start, end
	return c
}

func (c Arc2) String() string {
	return fmt.Sprintf("Arc2(%v, %g, %g°, %g°)", c.C, c.R, c.Theta0*180.0/math.Pi, c.Theta1*180.0/math.Pi)
}
