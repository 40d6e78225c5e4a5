package kartifex

import (
	"fmt"
	"math"
	"strings"
)

// flattenTolerance is the maximum deviation between a curve and its
// flattened polyline, used for containment and orientation queries.
const flattenTolerance = 1e-7

// boundaryEpsilon is the distance under which a point is considered to lie
// on a region boundary. It must exceed flattenTolerance so that points
// exactly on a curve are always detected as boundary points.
const boundaryEpsilon = 1e-6

// Ring2 is a closed loop of curves forming one boundary component:
// curve[i].End() equals curve[i+1].Start() within Epsilon, cyclically.
type Ring2 struct {
	Curves []Curve2
}

// NewRing2 returns a ring over the given curves, dropping zero-length
// curves. Empty input yields an empty ring, never an error.
func NewRing2(curves []Curve2) Ring2 {
	var cs []Curve2
	for _, c := range curves {
		if c.Start() == c.End() {
			bounds := c.Bounds()
			if bounds.Width() < Epsilon && bounds.Height() < Epsilon {
				continue // zero length
			}
		}
		cs = append(cs, c)
	}
	return Ring2{Curves: cs}
}

// IsEmpty returns true when the ring has no curves.
func (r Ring2) IsEmpty() bool {
	return len(r.Curves) == 0
}

// Bounds returns the bounding box of all curves in the ring.
func (r Ring2) Bounds() Box2 {
	b := emptyBox2
	for _, c := range r.Curves {
		b = b.Union(c.Bounds())
	}
	return b
}

// Reverse returns the ring traversed in the opposite direction.
func (r Ring2) Reverse() Ring2 {
	cs := make([]Curve2, len(r.Curves))
	for i, c := range r.Curves {
		cs[len(cs)-1-i] = c.Reverse()
	}
	return Ring2{Curves: cs}
}

// Transform applies an affine transformation to all curves.
func (r Ring2) Transform(m Matrix) Ring2 {
	cs := make([]Curve2, len(r.Curves))
	for i, c := range r.Curves {
		cs[i] = c.Transform(m)
	}
	return Ring2{Curves: cs}
}

// Flatten approximates the ring boundary by a closed polyline within the
// given tolerance. The first point is not repeated at the end.
func (r Ring2) Flatten(tolerance float64) []Vec2 {
	if len(r.Curves) == 0 {
		return nil
	}
	pts := []Vec2{r.Curves[0].Start()}
	for _, c := range r.Curves {
		pts = flattenCurve(c, tolerance, pts)
	}
	if 1 < len(pts) && pts[len(pts)-1].Equals(pts[0]) {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// IsClockwise reports the ring orientation using the shoelace formula on the
// flattened boundary.
func (r Ring2) IsClockwise() bool {
	pts := r.Flatten(flattenTolerance)
	area := 0.0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	return area < 0.0
}

// Contains returns true when p lies inside the ring or on its boundary,
// using even-odd ray parity.
func (r Ring2) Contains(p Vec2) bool {
	return 0 <= ringTest(p, r.Flatten(flattenTolerance))
}

func (r Ring2) String() string {
	var sb strings.Builder
	sb.WriteString("Ring2(")
	for i, c := range r.Curves {
		if 0 < i {
			sb.WriteString(", ")
		}
		sb.WriteString(c.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// ringTest classifies p against a closed polyline: 1 inside, 0 on the
// boundary within boundaryEpsilon, -1 outside. Parity uses the half-open
// crossing rule so shared vertices are never counted twice.
func ringTest(p Vec2, pts []Vec2) int {
	if len(pts) < 2 {
		return -1
	}
	inside := false
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		if distancePointSegment(p, a, b) < boundaryEpsilon {
			return 0
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	if inside {
		return 1
	}
	return -1
}

func distancePointSegment(p, a, b Vec2) float64 {
	d := b.Sub(a)
	denom := d.LengthSquared()
	if denom == 0.0 {
		return p.Sub(a).Length()
	}
	t := math.Max(0.0, math.Min(1.0, p.Sub(a).Dot(d)/denom))
	return p.Sub(a.Add(d.Mul(t))).Length()
}

////////////////////////////////////////////////////////////////

// flattenCurve appends a polyline approximation of c within tolerance to
// dst, excluding the curve's start point.
func flattenCurve(c Curve2, tolerance float64, dst []Vec2) []Vec2 {
	switch c := c.(type) {
	case Line2:
		return append(dst, c.P1)
	case QuadraticBezier2:
		return flattenQuadraticBezier(dst, c.P0, c.P1, c.P2, tolerance, 0)
	case CubicBezier2:
		return flattenCubicBezier(dst, c.P0, c.P1, c.P2, c.P3, tolerance, 0)
	case Arc2:
		return flattenArc(dst, c, tolerance)
	default:
		panic(fmt.Sprintf("unsupported curve type %T", c))
	}
}

const maxFlattenDepth = 16

func flattenQuadraticBezier(dst []Vec2, p0, p1, p2 Vec2, tolerance float64, depth int) []Vec2 {
	if maxFlattenDepth <= depth || distancePointSegment(p1, p0, p2) <= tolerance {
		return append(dst, p2)
	}
	q0, q1, q2, r0, r1, r2 := quadraticBezierSplit(p0, p1, p2, 0.5)
	dst = flattenQuadraticBezier(dst, q0, q1, q2, tolerance, depth+1)
	return flattenQuadraticBezier(dst, r0, r1, r2, tolerance, depth+1)
}

func flattenCubicBezier(dst []Vec2, p0, p1, p2, p3 Vec2, tolerance float64, depth int) []Vec2 {
	flat := distancePointSegment(p1, p0, p3) <= tolerance && distancePointSegment(p2, p0, p3) <= tolerance
	if maxFlattenDepth <= depth || flat {
		return append(dst, p3)
	}
	q0, q1, q2, q3, r0, r1, r2, r3 := cubicBezierSplit(p0, p1, p2, p3, 0.5)
	dst = flattenCubicBezier(dst, q0, q1, q2, q3, tolerance, depth+1)
	return flattenCubicBezier(dst, r0, r1, r2, r3, tolerance, depth+1)
}

func flattenArc(dst []Vec2, c Arc2, tolerance float64) []Vec2 {
	dtheta := math.Abs(c.Theta1 - c.Theta0)
	// chord deviation of an arc spanning dphi is R*(1-cos(dphi/2))
	maxStep := 2.0 * math.Acos(math.Max(-1.0, 1.0-tolerance/math.Max(c.R, tolerance)))
	n := 1
	if 0.0 < maxStep {
		n = int(math.Ceil(dtheta / maxStep))
	}
	if n < 1 {
		n = 1
	}
	for i := 1; i < n; i++ {
		dst = append(dst, c.Position(float64(i)/float64(n)))
	}
	return append(dst, c.End())
}
