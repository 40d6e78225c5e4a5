// Package shape provides the rendering-facing path primitives: Bézier
// segments with adaptive sampling and offsetting, and paths assembled from
// SVG-style commands that bridge into the kartifex region algebra.
package shape

import (
	"fmt"
	"math"
	"sort"

	"github.com/edwinRNDR/openrndr/kartifex"
)

// Segment is an immutable Bézier path segment of order 1, 2 or 3: a line
// when it has no control points, quadratic with one, cubic with two. Derived
// quantities are cached lazily; changing the geometry means constructing a
// new Segment.
type Segment struct {
	Start, End kartifex.Vec2
	Control    []kartifex.Vec2

	cache *segmentCache
}

type segmentCache struct {
	length    float64
	hasLength bool
	lut       []kartifex.Vec2
}

// NewSegment constructs a segment from 2, 3 or 4 points: start, zero to two
// control points, and end. Any other point count is an error.
func NewSegment(points ...kartifex.Vec2) (Segment, error) {
	if len(points) < 2 || 4 < len(points) {
		return Segment{}, fmt.Errorf("segment needs 2 to 4 points, got %d", len(points))
	}
	return Segment{
		Start:   points[0],
		End:     points[len(points)-1],
		Control: append([]kartifex.Vec2{}, points[1:len(points)-1]...),
		cache:   &segmentCache{},
	}, nil
}

// LinearSegment returns the line segment from start to end.
func LinearSegment(start, end kartifex.Vec2) Segment {
	return Segment{Start: start, End: end, cache: &segmentCache{}}
}

// QuadraticSegment returns a quadratic Bézier segment.
func QuadraticSegment(start, control, end kartifex.Vec2) Segment {
	return Segment{Start: start, End: end, Control: []kartifex.Vec2{control}, cache: &segmentCache{}}
}

// CubicSegment returns a cubic Bézier segment.
func CubicSegment(start, control0, control1, end kartifex.Vec2) Segment {
	return Segment{Start: start, End: end, Control: []kartifex.Vec2{control0, control1}, cache: &segmentCache{}}
}

// IsLinear returns true when the segment has no control points.
func (s Segment) IsLinear() bool {
	return len(s.Control) == 0
}

// Position returns the point at parameter t, clamped to [0,1].
func (s Segment) Position(t float64) kartifex.Vec2 {
	if t <= 0.0 {
		return s.Start
	} else if 1.0 <= t {
		return s.End
	}
	switch len(s.Control) {
	case 0:
		return s.Start.Interpolate(s.End, t)
	case 1:
		return quadraticPos(s.Start, s.Control[0], s.End, t)
	default:
		return cubicPos(s.Start, s.Control[0], s.Control[1], s.End, t)
	}
}

// Derivative returns the direction of travel at parameter t.
func (s Segment) Derivative(t float64) kartifex.Vec2 {
	t = math.Max(0.0, math.Min(1.0, t))
	switch len(s.Control) {
	case 0:
		return s.End.Sub(s.Start)
	case 1:
		return quadraticDeriv(s.Start, s.Control[0], s.End, t)
	default:
		return cubicDeriv(s.Start, s.Control[0], s.Control[1], s.End, t)
	}
}

// Normal returns the unit normal at parameter t, the derivative rotated a
// quarter turn counter-clockwise.
func (s Segment) Normal(t float64) kartifex.Vec2 {
	return s.Derivative(t).Rot90CCW().Norm(1.0)
}

// Length returns the arc length: exact for linear segments, the sum over the
// adaptively flattened polyline otherwise. The result is cached.
func (s Segment) Length() float64 {
	if s.IsLinear() {
		return s.End.Sub(s.Start).Length()
	}
	if s.cache != nil && s.cache.hasLength {
		return s.cache.length
	}
	length := 0.0
	pts := s.AdaptivePositions(lengthTolerance)
	for i := 1; i < len(pts); i++ {
		length += pts[i].Sub(pts[i-1]).Length()
	}
	if s.cache != nil {
		s.cache.length = length
		s.cache.hasLength = true
	}
	return length
}

const lengthTolerance = 1e-6

// LUT returns size equally spaced positions over [0,1], memoized for
// repeated lookups of the same size.
func (s Segment) LUT(size int) []kartifex.Vec2 {
	if size < 2 {
		size = 2
	}
	if s.cache != nil && len(s.cache.lut) == size {
		return s.cache.lut
	}
	lut := make([]kartifex.Vec2, size)
	for i := range lut {
		lut[i] = s.Position(float64(i) / float64(size-1))
	}
	if s.cache != nil {
		s.cache.lut = lut
	}
	return lut
}

////////////////////////////////////////////////////////////////

const adaptiveRecursionLimit = 16

// AdaptivePositions flattens the segment into a polyline whose deviation
// from the true curve stays below distanceTolerance. Linear segments yield
// their two endpoints.
func (s Segment) AdaptivePositions(distanceTolerance float64) []kartifex.Vec2 {
	pts := []kartifex.Vec2{s.Start}
	switch len(s.Control) {
	case 0:
		// nothing between the endpoints
	case 1:
		pts = adaptiveQuadratic(pts, s.Start, s.Control[0], s.End, distanceTolerance, 0)
	default:
		pts = adaptiveCubic(pts, s.Start, s.Control[0], s.Control[1], s.End, distanceTolerance, 0)
	}
	return append(pts, s.End)
}

func adaptiveQuadratic(dst []kartifex.Vec2, p0, p1, p2 kartifex.Vec2, tolerance float64, depth int) []kartifex.Vec2 {
	if adaptiveRecursionLimit <= depth || distanceToChord(p1, p0, p2) <= tolerance {
		return dst
	}
	q1 := p0.Interpolate(p1, 0.5)
	r1 := p1.Interpolate(p2, 0.5)
	mid := q1.Interpolate(r1, 0.5)
	dst = adaptiveQuadratic(dst, p0, q1, mid, tolerance, depth+1)
	dst = append(dst, mid)
	return adaptiveQuadratic(dst, mid, r1, p2, tolerance, depth+1)
}

func adaptiveCubic(dst []kartifex.Vec2, p0, p1, p2, p3 kartifex.Vec2, tolerance float64, depth int) []kartifex.Vec2 {
	flat := distanceToChord(p1, p0, p3) <= tolerance && distanceToChord(p2, p0, p3) <= tolerance
	if adaptiveRecursionLimit <= depth || flat {
		return dst
	}
	q1 := p0.Interpolate(p1, 0.5)
	m := p1.Interpolate(p2, 0.5)
	r2 := p2.Interpolate(p3, 0.5)
	q2 := q1.Interpolate(m, 0.5)
	r1 := m.Interpolate(r2, 0.5)
	mid := q2.Interpolate(r1, 0.5)
	dst = adaptiveCubic(dst, p0, q1, q2, mid, tolerance, depth+1)
	dst = append(dst, mid)
	return adaptiveCubic(dst, mid, r1, r2, p3, tolerance, depth+1)
}

func distanceToChord(p, a, b kartifex.Vec2) float64 {
	d := b.Sub(a)
	length := d.Length()
	if length < kartifex.Epsilon {
		return p.Sub(a).Length()
	}
	return math.Abs(d.PerpDot(p.Sub(a))) / length
}

////////////////////////////////////////////////////////////////

const (
	searchStarts = 32
	searchSteps  = 8
)

// Nearest returns the parameter and point on the segment closest to p.
// Linear segments project directly, quadratic segments solve the
// perpendicularity condition in closed form, and cubic segments run a
// multi-start Newton descent to avoid local minima.
func (s Segment) Nearest(p kartifex.Vec2) (float64, kartifex.Vec2) {
	switch len(s.Control) {
	case 0:
		d := s.End.Sub(s.Start)
		denom := d.LengthSquared()
		if denom < kartifex.Epsilon {
			return 0.0, s.Start
		}
		t := math.Max(0.0, math.Min(1.0, p.Sub(s.Start).Dot(d)/denom))
		return t, s.Position(t)
	case 1:
		return s.nearestQuadratic(p)
	default:
		return s.nearestCubic(p)
	}
}

// nearestQuadratic solves (B(t)-p)·B'(t) = 0, a cubic in t.
func (s Segment) nearestQuadratic(p kartifex.Vec2) (float64, kartifex.Vec2) {
	// B(t) = a*t^2 + b*t + c
	a := s.Start.Sub(s.Control[0].Mul(2.0)).Add(s.End)
	b := s.Control[0].Sub(s.Start).Mul(2.0)
	c := s.Start.Sub(p)

	x1, x2, x3 := kartifex.SolveCubic(
		2.0*a.Dot(a),
		3.0*a.Dot(b),
		b.Dot(b)+2.0*a.Dot(c),
		b.Dot(c),
	)

	best, bestDist := 0.0, p.Sub(s.Start).LengthSquared()
	for _, t := range []float64{x1, x2, x3, 1.0} {
		if math.IsNaN(t) {
			continue
		}
		t = math.Max(0.0, math.Min(1.0, t))
		if d := p.Sub(s.Position(t)).LengthSquared(); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, s.Position(best)
}

// nearestCubic minimizes the squared distance by Newton iteration from
// multiple evenly spaced starting parameters.
func (s Segment) nearestCubic(p kartifex.Vec2) (float64, kartifex.Vec2) {
	best, bestDist := 0.0, p.Sub(s.Start).LengthSquared()
	for i := 0; i <= searchStarts; i++ {
		t := float64(i) / float64(searchStarts)
		for k := 0; k < searchSteps; k++ {
			diff := s.Position(t).Sub(p)
			d1 := s.Derivative(t)
			d2 := s.secondDerivative(t)
			denom := d1.Dot(d1) + diff.Dot(d2)
			if math.Abs(denom) < kartifex.Epsilon {
				break
			}
			t -= diff.Dot(d1) / denom
			if t < 0.0 || 1.0 < t {
				t = math.Max(0.0, math.Min(1.0, t))
				break
			}
		}
		if d := p.Sub(s.Position(t)).LengthSquared(); d < bestDist {
			best, bestDist = t, d
		}
	}
	if d := p.Sub(s.End).LengthSquared(); d < bestDist {
		best = 1.0
	}
	return best, s.Position(best)
}

func (s Segment) secondDerivative(t float64) kartifex.Vec2 {
	switch len(s.Control) {
	case 0:
		return kartifex.Vec2{}
	case 1:
		return s.Start.Sub(s.Control[0].Mul(2.0)).Add(s.End).Mul(2.0)
	default:
		u := s.Control[1].Sub(s.Control[0].Mul(2.0)).Add(s.Start)
		v := s.End.Sub(s.Control[1].Mul(2.0)).Add(s.Control[0])
		return u.Interpolate(v, t).Mul(6.0)
	}
}

////////////////////////////////////////////////////////////////

// SplitAt splits the segment at t into two segments sharing the split point
// exactly.
func (s Segment) SplitAt(t float64) (Segment, Segment) {
	t = math.Max(0.0, math.Min(1.0, t))
	switch len(s.Control) {
	case 0:
		mid := s.Position(t)
		return LinearSegment(s.Start, mid), LinearSegment(mid, s.End)
	case 1:
		q1 := s.Start.Interpolate(s.Control[0], t)
		r1 := s.Control[0].Interpolate(s.End, t)
		mid := q1.Interpolate(r1, t)
		return QuadraticSegment(s.Start, q1, mid), QuadraticSegment(mid, r1, s.End)
	default:
		q1 := s.Start.Interpolate(s.Control[0], t)
		m := s.Control[0].Interpolate(s.Control[1], t)
		r2 := s.Control[1].Interpolate(s.End, t)
		q2 := q1.Interpolate(m, t)
		r1 := m.Interpolate(r2, t)
		mid := q2.Interpolate(r1, t)
		return CubicSegment(s.Start, q1, q2, mid), CubicSegment(mid, r1, r2, s.End)
	}
}

// Split splits the segment at the sorted parameters in (0,1), adjacent
// pieces sharing their endpoints exactly.
func (s Segment) Split(ts []float64) []Segment {
	out := make([]Segment, 0, len(ts)+1)
	t0 := 0.0
	rest := s
	for _, t := range ts {
		if t <= t0 || 1.0 <= t {
			continue
		}
		var piece Segment
		piece, rest = rest.SplitAt((t - t0) / (1.0 - t0))
		out = append(out, piece)
		t0 = t
	}
	return append(out, rest)
}

// Sub returns the part of the segment between parameters t0 and t1.
func (s Segment) Sub(t0, t1 float64) Segment {
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	if 0.0 < t0 {
		_, s = s.SplitAt(t0)
		t1 = (t1 - t0) / (1.0 - t0)
	}
	if t1 < 1.0 {
		s, _ = s.SplitAt(t1)
	}
	return s
}

// Extrema returns the parameters in (0,1) where an axis derivative
// component vanishes, sorted ascending.
func (s Segment) Extrema() []float64 {
	var ts []float64
	add := func(t float64) {
		if math.IsNaN(t) || t <= kartifex.Epsilon || 1.0-kartifex.Epsilon <= t {
			return
		}
		for _, u := range ts {
			if kartifex.Equal(t, u) {
				return
			}
		}
		ts = append(ts, t)
	}
	switch len(s.Control) {
	case 0:
		return nil
	case 1:
		// derivative is linear per axis
		p0, p1, p2 := s.Start, s.Control[0], s.End
		if denom := p0.X - 2.0*p1.X + p2.X; !kartifex.Equal(denom, 0.0) {
			add((p0.X - p1.X) / denom)
		}
		if denom := p0.Y - 2.0*p1.Y + p2.Y; !kartifex.Equal(denom, 0.0) {
			add((p0.Y - p1.Y) / denom)
		}
	default:
		p0, p1, p2, p3 := s.Start, s.Control[0], s.Control[1], s.End
		for _, axis := range [2][4]float64{
			{p0.X, p1.X, p2.X, p3.X},
			{p0.Y, p1.Y, p2.Y, p3.Y},
		} {
			a := -axis[0] + 3.0*axis[1] - 3.0*axis[2] + axis[3]
			b := 2.0*axis[0] - 4.0*axis[1] + 2.0*axis[2]
			c := axis[1] - axis[0]
			t0, t1 := kartifex.SolveQuadratic(3.0*a, b, c)
			add(t0)
			add(t1)
		}
	}
	sort.Float64s(ts)
	return ts
}

// Bounds returns the axis-aligned bounding box.
func (s Segment) Bounds() kartifex.Box2 {
	return s.Curve().Bounds()
}

// Reverse returns the segment traversed from End to Start.
func (s Segment) Reverse() Segment {
	control := make([]kartifex.Vec2, len(s.Control))
	for i, c := range s.Control {
		control[len(control)-1-i] = c
	}
	return Segment{Start: s.End, End: s.Start, Control: control, cache: &segmentCache{}}
}

// Transform applies an affine transformation to all points.
func (s Segment) Transform(m kartifex.Matrix) Segment {
	control := make([]kartifex.Vec2, len(s.Control))
	for i, c := range s.Control {
		control[i] = m.Dot(c)
	}
	return Segment{Start: m.Dot(s.Start), End: m.Dot(s.End), Control: control, cache: &segmentCache{}}
}

// Curve returns the equivalent kartifex curve.
func (s Segment) Curve() kartifex.Curve2 {
	switch len(s.Control) {
	case 0:
		return kartifex.Line2{P0: s.Start, P1: s.End}
	case 1:
		return kartifex.QuadraticBezier2{P0: s.Start, P1: s.Control[0], P2: s.End}
	default:
		return kartifex.CubicBezier2{P0: s.Start, P1: s.Control[0], P2: s.Control[1], P3: s.End}
	}
}

func (s Segment) String() string {
	switch len(s.Control) {
	case 0:
		return fmt.Sprintf("Segment(%v, %v)", s.Start, s.End)
	case 1:
		return fmt.Sprintf("Segment(%v, %v, %v)", s.Start, s.Control[0], s.End)
	default:
		return fmt.Sprintf("Segment(%v, %v, %v, %v)", s.Start, s.Control[0], s.Control[1], s.End)
	}
}

func quadraticPos(p0, p1, p2 kartifex.Vec2, t float64) kartifex.Vec2 {
	u := 1.0 - t
	return p0.Mul(u * u).Add(p1.Mul(2.0 * u * t)).Add(p2.Mul(t * t))
}

func quadraticDeriv(p0, p1, p2 kartifex.Vec2, t float64) kartifex.Vec2 {
	return p1.Sub(p0).Mul(2.0 * (1.0 - t)).Add(p2.Sub(p1).Mul(2.0 * t))
}

func cubicPos(p0, p1, p2, p3 kartifex.Vec2, t float64) kartifex.Vec2 {
	u := 1.0 - t
	return p0.Mul(u * u * u).
		Add(p1.Mul(3.0 * u * u * t)).
		Add(p2.Mul(3.0 * u * t * t)).
		Add(p3.Mul(t * t * t))
}

func cubicDeriv(p0, p1, p2, p3 kartifex.Vec2, t float64) kartifex.Vec2 {
	u := 1.0 - t
	return p1.Sub(p0).Mul(3.0 * u * u).
		Add(p2.Sub(p1).Mul(6.0 * u * t)).
		Add(p3.Sub(p2).Mul(3.0 * t * t))
}
