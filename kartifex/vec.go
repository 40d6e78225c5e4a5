// Package kartifex implements planar curve geometry and boolean algebra over
// closed regions: parametric curves (lines, quadratic and cubic Béziers,
// circular arcs), curve-curve intersections, rings and regions, and the
// region-splitting engine that underpins union/intersection/difference/xor.
package kartifex

import (
	"fmt"
	"math"
)

// Epsilon is the spatial tolerance: two coordinates closer than this are
// considered equal for geometric tests.
const Epsilon = 1e-10

// ParametricEpsilon is the tolerance on curve parameters: two parameter
// values on the same curve closer than this identify the same point.
const ParametricEpsilon = 1e-6

// Equal returns true if a and b are equal with tolerance Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Interval returns true if t is in [lo,hi] with tolerance Epsilon on the end points.
func Interval(t, lo, hi float64) bool {
	return lo-Epsilon < t && t < hi+Epsilon
}

// angleNorm returns the angle theta in the range [0,2PI).
func angleNorm(theta float64) float64 {
	theta = math.Mod(theta, 2.0*math.Pi)
	if theta < 0.0 {
		theta += 2.0 * math.Pi
	}
	return theta
}

// angleBetween is true when theta is in the range [lower,upper] including the
// end points within Epsilon. Angles may be outside the [0,2PI) range.
func angleBetween(theta, lower, upper float64) bool {
	if upper < lower {
		lower, upper = upper, lower
	}
	theta = lower + angleNorm(theta-lower+Epsilon) - Epsilon
	return lower-Epsilon < theta && theta < upper+Epsilon
}

////////////////////////////////////////////////////////////////

// Vec2 is a coordinate in 2D space.
type Vec2 struct {
	X, Y float64
}

// IsZero returns true if v is exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0.0 && v.Y == 0.0
}

// Equals returns true if v and w are equal with tolerance Epsilon.
func (v Vec2) Equals(w Vec2) bool {
	return Equal(v.X, w.X) && Equal(v.Y, w.Y)
}

// Compare orders vectors lexicographically by X and then Y. It is used to
// pick a canonical representative when merging coincident vertices.
func (v Vec2) Compare(w Vec2) int {
	if v.X < w.X {
		return -1
	} else if w.X < v.X {
		return 1
	} else if v.Y < w.Y {
		return -1
	} else if w.Y < v.Y {
		return 1
	}
	return 0
}

// Neg negates x and y.
func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

// Add adds w to v.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

// Sub subtracts w from v.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v.X - w.X, v.Y - w.Y}
}

// Mul multiplies x and y by f.
func (v Vec2) Mul(f float64) Vec2 {
	return Vec2{f * v.X, f * v.Y}
}

// Div divides x and y by f.
func (v Vec2) Div(f float64) Vec2 {
	return Vec2{v.X / f, v.Y / f}
}

// Rot90CW rotates v by 90 degrees CW.
func (v Vec2) Rot90CW() Vec2 {
	return Vec2{v.Y, -v.X}
}

// Rot90CCW rotates v by 90 degrees CCW.
func (v Vec2) Rot90CCW() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Rot rotates v by phi radians CCW around p0.
func (v Vec2) Rot(phi float64, p0 Vec2) Vec2 {
	sinphi, cosphi := math.Sincos(phi)
	return Vec2{
		p0.X + cosphi*(v.X-p0.X) - sinphi*(v.Y-p0.Y),
		p0.Y + sinphi*(v.X-p0.X) + cosphi*(v.Y-p0.Y),
	}
}

// Dot returns the dot product of v and w.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// PerpDot returns the perp dot product of v and w, ie. zero if aligned and
// |v|*|w| if perpendicular.
func (v Vec2) PerpDot(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of v.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns the squared length of v.
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Angle returns the angle between the x-axis and v.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleBetween returns the angle between v and w.
func (v Vec2) AngleBetween(w Vec2) float64 {
	return math.Atan2(v.PerpDot(w), v.Dot(w))
}

// Norm normalizes v to be of the given length.
func (v Vec2) Norm(length float64) Vec2 {
	d := v.Length()
	if Equal(d, 0.0) {
		return Vec2{}
	}
	return Vec2{v.X / d * length, v.Y / d * length}
}

// Interpolate returns a point between v and w linearly interpolated by t,
// ie. t=0 returns v and t=1 returns w.
func (v Vec2) Interpolate(w Vec2, t float64) Vec2 {
	return Vec2{(1-t)*v.X + t*w.X, (1-t)*v.Y + t*w.Y}
}

func (v Vec2) String() string {
	return fmt.Sprintf("[%g; %g]", v.X, v.Y)
}

////////////////////////////////////////////////////////////////

// Box2 is an axis-aligned bounding box given by its minimum and maximum corners.
type Box2 struct {
	Min, Max Vec2
}

var emptyBox2 = Box2{Vec2{math.Inf(1), math.Inf(1)}, Vec2{math.Inf(-1), math.Inf(-1)}}

// boxOf returns the bounding box of the given points.
func boxOf(ps ...Vec2) Box2 {
	b := emptyBox2
	for _, p := range ps {
		b = b.AddPoint(p)
	}
	return b
}

// IsEmpty returns true when the box contains no points.
func (b Box2) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// AddPoint extends the box to contain p.
func (b Box2) AddPoint(p Vec2) Box2 {
	return Box2{
		Vec2{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Vec2{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest box containing both b and o.
func (b Box2) Union(o Box2) Box2 {
	if o.IsEmpty() {
		return b
	} else if b.IsEmpty() {
		return o
	}
	return b.AddPoint(o.Min).AddPoint(o.Max)
}

// Expand grows the box by d on all sides.
func (b Box2) Expand(d float64) Box2 {
	return Box2{Vec2{b.Min.X - d, b.Min.Y - d}, Vec2{b.Max.X + d, b.Max.Y + d}}
}

// Overlaps returns true when b and o overlap or touch within Epsilon.
func (b Box2) Overlaps(o Box2) bool {
	return b.Min.X <= o.Max.X+Epsilon && o.Min.X <= b.Max.X+Epsilon &&
		b.Min.Y <= o.Max.Y+Epsilon && o.Min.Y <= b.Max.Y+Epsilon
}

// Contains returns true when p lies within the box within Epsilon.
func (b Box2) Contains(p Vec2) bool {
	return Interval(p.X, b.Min.X, b.Max.X) && Interval(p.Y, b.Min.Y, b.Max.Y)
}

// Width returns the horizontal extent of the box.
func (b Box2) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent of the box.
func (b Box2) Height() float64 {
	return b.Max.Y - b.Min.Y
}

func (b Box2) String() string {
	return fmt.Sprintf("[%g; %g]--[%g; %g]", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

////////////////////////////////////////////////////////////////

// SolveQuadratic solves a*x^2 + b*x + c = 0 and returns its real roots in
// ascending order, padded with NaN. Numerically stable, lowest root first,
// see https://math.stackexchange.com/a/2007723
func SolveQuadratic(a, b, c float64) (float64, float64) {
	if a == 0.0 {
		if b == 0.0 {
			if c == 0.0 {
				// all terms disappear, all x satisfy the solution
				return 0.0, math.NaN()
			}
			// linear term disappears, no solutions
			return math.NaN(), math.NaN()
		}
		// quadratic term disappears, solve linear equation
		return -c / b, math.NaN()
	}

	if c == 0.0 {
		// no constant term, one solution at zero and one from solving linearly
		return 0.0, -b / a
	}

	discriminant := b*b - 4.0*a*c
	if discriminant < 0.0 {
		return math.NaN(), math.NaN()
	} else if discriminant == 0.0 {
		return -b / (2.0 * a), math.NaN()
	}

	// Avoid catastrophic cancellation when b and the radical have the same
	// sign by solving for the other root through the Citardauq formula.
	q := math.Sqrt(discriminant)
	if b < 0.0 {
		// apply sign of b
		q = -q
	}
	x1 := -(b + q) / (2.0 * a)
	x2 := c / (a * x1)
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	return x1, x2
}

// SolveCubic solves a*x^3 + b*x^2 + c*x + d = 0 and returns its real roots
// in ascending order, padded with NaN. The trigonometric method is used for
// the three-real-roots case, see Numerical Recipes ch. 5.6.
func SolveCubic(a, b, c, d float64) (float64, float64, float64) {
	if a == 0.0 {
		x1, x2 := SolveQuadratic(b, c, d)
		return x1, x2, math.NaN()
	}

	// normalize to x^3 + B*x^2 + C*x + D = 0
	B := b / a
	C := c / a
	D := d / a

	Q := (B*B - 3.0*C) / 9.0
	R := (2.0*B*B*B - 9.0*B*C + 27.0*D) / 54.0
	if R*R < Q*Q*Q {
		// three real roots
		theta := math.Acos(math.Max(-1.0, math.Min(1.0, R/math.Sqrt(Q*Q*Q))))
		sqrtQ := math.Sqrt(Q)
		x1 := -2.0*sqrtQ*math.Cos(theta/3.0) - B/3.0
		x2 := -2.0*sqrtQ*math.Cos((theta+2.0*math.Pi)/3.0) - B/3.0
		x3 := -2.0*sqrtQ*math.Cos((theta-2.0*math.Pi)/3.0) - B/3.0
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		if x3 < x2 {
			x2, x3 = x3, x2
			if x2 < x1 {
				x1, x2 = x2, x1
			}
		}
		return x1, x2, x3
	}

	A := -math.Cbrt(R + math.Copysign(math.Sqrt(R*R-Q*Q*Q), R))
	var Bt float64
	if A != 0.0 {
		Bt = Q / A
	}
	return A + Bt - B/3.0, math.NaN(), math.NaN()
}
