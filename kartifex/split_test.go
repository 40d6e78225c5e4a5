package kartifex

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

// squareRegion returns the axis-aligned square [x0,x1]x[y0,y1] as a single
// counter-clockwise ring of four lines.
func squareRegion(x0, y0, x1, y1 float64) Region2 {
	return NewRegion2([]Curve2{
		Line2{Vec2{x0, y0}, Vec2{x1, y0}},
		Line2{Vec2{x1, y0}, Vec2{x1, y1}},
		Line2{Vec2{x1, y1}, Vec2{x0, y1}},
		Line2{Vec2{x0, y1}, Vec2{x0, y0}},
	})
}

// circleKappa is the control point offset approximating a quarter circle by
// a cubic Bézier curve.
const circleKappa = 0.5522847498307936

// circleRegion returns a counter-clockwise circle around (cx,cy) with radius
// r, approximated by four cubic Bézier quadrants.
func circleRegion(cx, cy, r float64) Region2 {
	k := r * circleKappa
	e := Vec2{cx + r, cy}
	n := Vec2{cx, cy + r}
	w := Vec2{cx - r, cy}
	s := Vec2{cx, cy - r}
	return NewRegion2([]Curve2{
		CubicBezier2{e, Vec2{cx + r, cy + k}, Vec2{cx + k, cy + r}, n},
		CubicBezier2{n, Vec2{cx - k, cy + r}, Vec2{cx - r, cy + k}, w},
		CubicBezier2{w, Vec2{cx - r, cy - k}, Vec2{cx - k, cy - r}, s},
		CubicBezier2{s, Vec2{cx + k, cy - r}, Vec2{cx + r, cy - k}, e},
	})
}

func TestVertexUnion(t *testing.T) {
	u := NewVertexUnion()
	a := Vec2{2.0, 0.0}
	b := Vec2{1.0, 0.0}
	c := Vec2{3.0, 0.0}

	test.T(t, u.Adjust(a), a) // unknown points map to themselves

	u.Join(a, b)
	test.T(t, u.Adjust(a), b)
	test.T(t, u.Adjust(b), b)

	// joining through either member lands in the same cluster
	u.Join(a, c)
	test.T(t, u.Adjust(c), b)
	test.T(t, u.Adjust(a), b)

	// adjust is idempotent
	test.T(t, u.Adjust(u.Adjust(c)), b)

	test.T(t, u.Roots(), []Vec2{b})
}

func TestVertexUnionRootOrder(t *testing.T) {
	u := NewVertexUnion()
	u.Join(Vec2{5.0, 0.0}, Vec2{4.0, 0.0})
	u.Join(Vec2{1.0, 2.0}, Vec2{1.0, 3.0})

	// roots are the lexicographically smallest cluster members, sorted
	test.T(t, u.Roots(), []Vec2{{1.0, 2.0}, {4.0, 0.0}})
}

func TestSplitDisjoint(t *testing.T) {
	a := squareRegion(0.0, 0.0, 1.0, 1.0)
	b := squareRegion(5.0, 5.0, 6.0, 6.0)

	sa, sb, roots := Split(a, b)
	test.T(t, sa, a)
	test.T(t, sb, b)
	test.T(t, len(roots), 0)
}

func TestSplitSquares(t *testing.T) {
	a := squareRegion(0.0, 0.0, 2.0, 2.0)
	b := squareRegion(1.0, 1.0, 3.0, 3.0)

	sa, sb, roots := Split(a, b)
	test.T(t, roots, []Vec2{{1.0, 2.0}, {2.0, 1.0}})
	test.T(t, len(sa.Rings), 1)
	test.T(t, len(sb.Rings), 1)
	test.T(t, len(sa.Rings[0].Curves), 6)
	test.T(t, len(sb.Rings[0].Curves), 6)

	// every intersection vertex appears bit-identically in both regions
	for _, root := range roots {
		test.That(t, hasVertex(sa, root), "vertex", root, "missing in first region")
		test.That(t, hasVertex(sb, root), "vertex", root, "missing in second region")
	}

	assertGlued(t, sa)
	assertGlued(t, sb)
}

func TestSplitCircles(t *testing.T) {
	a := circleRegion(0.0, 0.0, 1.0)
	b := circleRegion(1.0, 0.0, 1.0)

	sa, sb, roots := Split(a, b)
	test.T(t, len(roots), 2)

	// intersections of two unit circles at distance one
	for _, root := range roots {
		test.That(t, math.Abs(root.X-0.5) < 1e-2, root)
		test.That(t, math.Abs(math.Abs(root.Y)-0.5*math.Sqrt(3.0)) < 1e-2, root)
	}
	test.That(t, roots[0].Y != roots[1].Y)

	for _, root := range roots {
		test.That(t, hasVertex(sa, root), "vertex", root, "missing in first region")
		test.That(t, hasVertex(sb, root), "vertex", root, "missing in second region")
	}

	// each circle gains two cuts
	test.T(t, len(sa.Rings[0].Curves), 6)
	test.T(t, len(sb.Rings[0].Curves), 6)

	assertGlued(t, sa)
	assertGlued(t, sb)
}

func TestSplitIdentical(t *testing.T) {
	a := squareRegion(0.0, 0.0, 1.0, 1.0)
	b := squareRegion(0.0, 0.0, 1.0, 1.0)

	// coincident edges are parallel and yield no discrete intersections
	// beyond the shared corners
	sa, sb, roots := Split(a, b)
	test.T(t, len(roots), 4)
	assertGlued(t, sa)
	assertGlued(t, sb)
}

func TestSplitTouchingCorner(t *testing.T) {
	a := squareRegion(0.0, 0.0, 1.0, 1.0)
	b := squareRegion(1.0, 1.0, 2.0, 2.0)

	// squares touching in one corner split there without producing
	// zero-length pieces
	sa, sb, roots := Split(a, b)
	test.T(t, roots, []Vec2{{1.0, 1.0}})
	test.T(t, len(sa.Rings[0].Curves), 4)
	test.T(t, len(sb.Rings[0].Curves), 4)
	assertGlued(t, sa)
	assertGlued(t, sb)
}

// hasVertex returns true when p occurs bit-identically as a curve endpoint.
func TestSplitTangentCircles(t *testing.T) {
	// externally tangent circles touch at (1,0) only; the tangency must
	// yield one canonical root, not a cluster of near-duplicates
	a := circleRegion(0.0, 0.0, 1.0)
	b := circleRegion(2.0, 0.0, 1.0)

	sa, sb, roots := Split(a, b)
	test.T(t, len(roots), 1)
	test.That(t, roots[0].Sub(Vec2{1.0, 0.0}).Length() < 1e-3, roots[0])

	test.That(t, hasVertex(sa, roots[0]), "vertex", roots[0], "missing in first region")
	test.That(t, hasVertex(sb, roots[0]), "vertex", roots[0], "missing in second region")

	// the contact sits on existing quarter endpoints, so no curve is cut
	test.T(t, len(sa.Rings[0].Curves), 4)
	test.T(t, len(sb.Rings[0].Curves), 4)

	assertGlued(t, sa)
	assertGlued(t, sb)
}

func hasVertex(r Region2, p Vec2) bool {
	for _, ring := range r.Rings {
		for _, c := range ring.Curves {
			if c.Start() == p || c.End() == p {
				return true
			}
		}
	}
	return false
}

// assertGlued checks that consecutive curves of every ring share their
// endpoints bit-identically, including around the wrap.
func assertGlued(t *testing.T, r Region2) {
	t.Helper()
	for _, ring := range r.Rings {
		for i, c := range ring.Curves {
			next := ring.Curves[(i+1)%len(ring.Curves)]
			test.T(t, c.End(), next.Start())
		}
	}
}
