package shape

import (
	"math"

	"github.com/edwinRNDR/openrndr/kartifex"
)

// reduceStep is the parameter step used when scanning a piece for the
// largest sub-segment that still passes the simple test.
const reduceStep = 0.01

// simple reports whether the segment can be offset by uniform scaling: its
// end normals stay within 60 degrees of each other and, for cubics, both
// control points lie on the same side of the baseline.
func (s Segment) simple() bool {
	if s.IsLinear() {
		return true
	}
	if len(s.Control) == 2 {
		base := s.End.Sub(s.Start)
		a1 := base.PerpDot(s.Control[0].Sub(s.Start))
		a2 := base.PerpDot(s.Control[1].Sub(s.Start))
		if 0.0 < a1 && a2 < 0.0 || a1 < 0.0 && 0.0 < a2 {
			return false
		}
	}
	n0 := s.Normal(0.0)
	n1 := s.Normal(1.0)
	dot := math.Max(-1.0, math.Min(1.0, n0.Dot(n1)))
	return math.Abs(math.Acos(dot)) < math.Pi/3.0
}

// Reduced splits the segment into simple sub-segments: first at the
// derivative extrema, then each piece is scanned and re-split wherever it
// stops being simple.
func (s Segment) Reduced() []Segment {
	if s.IsLinear() {
		return []Segment{s}
	}

	// pass 1: split at extrema
	var pass1 []Segment
	ts := s.Extrema()
	t0 := 0.0
	for _, t := range append(ts, 1.0) {
		if t-t0 < kartifex.ParametricEpsilon {
			t0 = t
			continue
		}
		pass1 = append(pass1, s.Sub(t0, t))
		t0 = t
	}

	// pass 2: scan each piece for the largest simple prefix
	var out []Segment
	for _, piece := range pass1 {
		t1 := 0.0
		for t1 < 1.0 {
			t2 := t1 + reduceStep
			for t2 <= 1.0 && piece.Sub(t1, t2).simple() {
				t2 += reduceStep
			}
			t2 -= reduceStep
			if t2 <= t1 {
				// not simple even at the smallest step; emit as is
				t2 = math.Min(1.0, t1+reduceStep)
			}
			out = append(out, piece.Sub(t1, math.Min(1.0, t2)))
			t1 = t2
		}
	}
	return out
}

// Offset returns segments tracing the curve displaced by distance along its
// normal; positive distances offset to the left of the direction of travel.
// Linear segments translate directly, curved segments are first reduced to
// simple pieces which are then scaled about their normal-intersection
// origin.
func (s Segment) Offset(distance float64) []Segment {
	if s.IsLinear() {
		n := s.Normal(0.0).Mul(distance)
		return []Segment{LinearSegment(s.Start.Add(n), s.End.Add(n))}
	}
	var out []Segment
	for _, piece := range s.Reduced() {
		out = append(out, piece.scale(distance))
	}
	return out
}

// scale offsets a simple segment by moving its endpoints along their
// normals and re-deriving the control points from the intersection of the
// offset tangents with the rays from the scaling origin.
// see https://pomax.github.io/bezierinfo/#offsetting
func (s Segment) scale(distance float64) Segment {
	n0 := s.Normal(0.0)
	n1 := s.Normal(1.0)
	start := s.Start.Add(n0.Mul(distance))
	end := s.End.Add(n1.Mul(distance))

	origin, ok := lineIntersection(s.Start, s.Start.Add(n0), s.End, s.End.Add(n1))
	if !ok {
		// normals are parallel; the piece is straight enough to translate
		control := make([]kartifex.Vec2, len(s.Control))
		for i, c := range s.Control {
			control[i] = c.Add(n0.Mul(distance))
		}
		return Segment{Start: start, End: end, Control: control, cache: &segmentCache{}}
	}

	switch len(s.Control) {
	case 1:
		// the control point is the intersection of the offset tangents
		c, ok := lineIntersection(start, start.Add(s.Derivative(0.0)), end, end.Add(s.Derivative(1.0)))
		if !ok {
			c = s.Control[0].Add(n0.Mul(distance))
		}
		return QuadraticSegment(start, c, end)
	default:
		c0, ok0 := lineIntersection(start, start.Add(s.Derivative(0.0)), origin, s.Control[0])
		c1, ok1 := lineIntersection(end, end.Add(s.Derivative(1.0)), origin, s.Control[1])
		if !ok0 {
			c0 = s.Control[0].Add(n0.Mul(distance))
		}
		if !ok1 {
			c1 = s.Control[1].Add(n1.Mul(distance))
		}
		return CubicSegment(start, c0, c1, end)
	}
}

// lineIntersection returns the intersection of the infinite lines through
// a0-a1 and b0-b1.
func lineIntersection(a0, a1, b0, b1 kartifex.Vec2) (kartifex.Vec2, bool) {
	da := a1.Sub(a0)
	db := b1.Sub(b0)
	div := da.PerpDot(db)
	if kartifex.Equal(div, 0.0) {
		return kartifex.Vec2{}, false
	}
	t := db.PerpDot(a0.Sub(b0)) / div
	return a0.Add(da.Mul(t)), true
}
