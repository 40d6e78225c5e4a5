package kartifex

import (
	"fmt"
	"math"
	"sort"
)

// Hit is a single intersection between two curves: the parameter on each
// curve and the spatial intersection point.
type Hit struct {
	TA, TB float64
	P      Vec2
}

func (h Hit) String() string {
	return fmt.Sprintf("(t={%g,%g} %v)", h.TA, h.TB, h.P)
}

// maxIntersectionDepth bounds the recursive subdivision of curve-curve
// intersection solving; exceeding it treats the current interval midpoint as
// the intersection instead of recursing further.
const maxIntersectionDepth = 48

// maxIntersectionNodes bounds the total number of box-overlap tests for a
// single curve pair, guaranteeing termination on (near-)coincident curves
// where every subdivision cell keeps overlapping.
const maxIntersectionNodes = 65536

// subdivisionTolerance is the bounding-box size below which recursive
// subdivision considers a curve pair intersecting at a point.
const subdivisionTolerance = 1e-9

// clusterEpsilon is the parametric width under which subdivision leaves
// describe a single intersection. A tangency keeps the boxes overlapping
// over a parameter span of roughly the square root of the spatial
// tolerance, so the scatter is far wider than ParametricEpsilon.
const clusterEpsilon = 1e-4

// exhaustionTolerance is the spatial distance under which an interval
// midpoint counts as converged when the node budget runs out.
const exhaustionTolerance = 1e-8

// Intersect returns the intersections between curves a and b as parametric
// pairs within tolerance. Curves that do not cross nor touch yield an empty
// result, never an error; near-duplicate hits within ParametricEpsilon are
// merged so that a tangency reports a single hit. Parallel or coincident
// overlapping spans are not detected, only discrete intersection points.
func Intersect(a, b Curve2) []Hit {
	var hits []Hit
	switch ca := a.(type) {
	case Line2:
		switch cb := b.(type) {
		case Line2:
			hits = intersectionLineLine(hits, ca, cb)
		case QuadraticBezier2:
			hits = intersectionLineQuad(hits, ca, cb.P0, cb.P1, cb.P2)
		case CubicBezier2:
			hits = intersectionLineCube(hits, ca, cb.P0, cb.P1, cb.P2, cb.P3)
		case Arc2:
			hits = intersectionLineArc(hits, ca, cb)
		default:
			panic(fmt.Sprintf("unsupported curve type %T", b))
		}
	case QuadraticBezier2, CubicBezier2:
		switch b.(type) {
		case Line2:
			return swapHits(Intersect(b, a))
		case QuadraticBezier2, CubicBezier2, Arc2:
			hits = intersectionSubdivide(a, b)
		default:
			panic(fmt.Sprintf("unsupported curve type %T", b))
		}
	case Arc2:
		switch cb := b.(type) {
		case Line2:
			return swapHits(Intersect(b, a))
		case Arc2:
			hits = intersectionArcArc(hits, ca, cb)
		case QuadraticBezier2, CubicBezier2:
			hits = intersectionSubdivide(a, b)
		default:
			panic(fmt.Sprintf("unsupported curve type %T", b))
		}
	default:
		panic(fmt.Sprintf("unsupported curve type %T", a))
	}
	return dedupeHits(hits)
}

func swapHits(hits []Hit) []Hit {
	for i := range hits {
		hits[i].TA, hits[i].TB = hits[i].TB, hits[i].TA
	}
	sortHits(hits)
	return hits
}

func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].TA == hits[j].TA {
			return hits[i].TB < hits[j].TB
		}
		return hits[i].TA < hits[j].TA
	})
}

// dedupeHits merges runs of hits that identify the same intersection within
// ParametricEpsilon on both curves, so tangencies and clustered subdivision
// results report a single hit.
func dedupeHits(hits []Hit) []Hit {
	if len(hits) < 2 {
		return hits
	}
	sortHits(hits)
	out := hits[:1]
	for _, h := range hits[1:] {
		last := &out[len(out)-1]
		if math.Abs(h.TA-last.TA) < ParametricEpsilon && math.Abs(h.TB-last.TB) < ParametricEpsilon ||
			h.P.Equals(last.P) && math.Abs(h.TA-last.TA) < ParametricEpsilon {
			continue
		}
		out = append(out, h)
	}
	return out
}

func addHit(hits []Hit, p Vec2, ta, tb float64) []Hit {
	ta = math.Max(0.0, math.Min(1.0, ta))
	tb = math.Max(0.0, math.Min(1.0, tb))
	return append(hits, Hit{ta, tb, p})
}

////////////////////////////////////////////////////////////////

// see https://www.geometrictools.com/GTE/Mathematics/IntrLine2Line2.h
func intersectionLineLine(hits []Hit, a, b Line2) []Hit {
	if a.P0.Equals(a.P1) || b.P0.Equals(b.P1) {
		return hits // zero-length
	}

	da := a.P1.Sub(a.P0)
	db := b.P1.Sub(b.P0)
	div := da.PerpDot(db)
	if Equal(div, 0.0) {
		// parallel; coincident overlap is not reported as intersections
		return hits
	}

	// handle common endpoint cases exactly to avoid numerical noise
	if a.P0.Equals(b.P0) {
		return addHit(hits, a.P0, 0.0, 0.0)
	} else if a.P0.Equals(b.P1) {
		return addHit(hits, a.P0, 0.0, 1.0)
	} else if a.P1.Equals(b.P0) {
		return addHit(hits, a.P1, 1.0, 0.0)
	} else if a.P1.Equals(b.P1) {
		return addHit(hits, a.P1, 1.0, 1.0)
	}

	ta := db.PerpDot(a.P0.Sub(b.P0)) / div
	tb := da.PerpDot(a.P0.Sub(b.P0)) / div
	if Interval(ta, 0.0, 1.0) && Interval(tb, 0.0, 1.0) {
		hits = addHit(hits, a.P0.Interpolate(a.P1, ta), ta, tb)
	}
	return hits
}

// see https://www.particleincell.com/2013/cubic-line-intersection/
func intersectionLineQuad(hits []Hit, l Line2, p0, p1, p2 Vec2) []Hit {
	if l.P0.Equals(l.P1) {
		return hits // zero-length
	}

	// write line as A.X = bias
	A := Vec2{l.P1.Y - l.P0.Y, l.P0.X - l.P1.X}
	bias := l.P0.Dot(A)

	a := A.Dot(p0.Sub(p1.Mul(2.0)).Add(p2))
	b := A.Dot(p1.Sub(p0).Mul(2.0))
	c := A.Dot(p0) - bias

	r0, r1 := SolveQuadratic(a, b, c)
	horizontal := math.Abs(l.P1.Y-l.P0.Y) <= math.Abs(l.P1.X-l.P0.X)
	for _, root := range [2]float64{r0, r1} {
		if math.IsNaN(root) || !Interval(root, 0.0, 1.0) {
			continue
		}
		pos := quadraticBezierPos(p0, p1, p2, root)
		var s float64
		if horizontal {
			s = (pos.X - l.P0.X) / (l.P1.X - l.P0.X)
		} else {
			s = (pos.Y - l.P0.Y) / (l.P1.Y - l.P0.Y)
		}
		if Interval(s, 0.0, 1.0) {
			hits = addHit(hits, pos, s, root)
		}
	}
	return hits
}

// see https://www.particleincell.com/2013/cubic-line-intersection/
func intersectionLineCube(hits []Hit, l Line2, p0, p1, p2, p3 Vec2) []Hit {
	if l.P0.Equals(l.P1) {
		return hits // zero-length
	}

	// write line as A.X = bias
	A := Vec2{l.P1.Y - l.P0.Y, l.P0.X - l.P1.X}
	bias := l.P0.Dot(A)

	a := A.Dot(p3.Sub(p0).Add(p1.Mul(3.0)).Sub(p2.Mul(3.0)))
	b := A.Dot(p0.Mul(3.0).Sub(p1.Mul(6.0)).Add(p2.Mul(3.0)))
	c := A.Dot(p1.Mul(3.0).Sub(p0.Mul(3.0)))
	d := A.Dot(p0) - bias

	r0, r1, r2 := SolveCubic(a, b, c, d)
	horizontal := math.Abs(l.P1.Y-l.P0.Y) <= math.Abs(l.P1.X-l.P0.X)
	for _, root := range [3]float64{r0, r1, r2} {
		if math.IsNaN(root) || !Interval(root, 0.0, 1.0) {
			continue
		}
		pos := cubicBezierPos(p0, p1, p2, p3, root)
		var s float64
		if horizontal {
			s = (pos.X - l.P0.X) / (l.P1.X - l.P0.X)
		} else {
			s = (pos.Y - l.P0.Y) / (l.P1.Y - l.P0.Y)
		}
		if Interval(s, 0.0, 1.0) {
			hits = addHit(hits, pos, s, root)
		}
	}
	return hits
}

func intersectionLineArc(hits []Hit, l Line2, arc Arc2) []Hit {
	if l.P0.Equals(l.P1) {
		return hits // zero-length
	}

	// solve |l0 + s*d - C|^2 = R^2 for s
	d := l.P1.Sub(l.P0)
	f := l.P0.Sub(arc.C)
	a := d.Dot(d)
	b := 2.0 * f.Dot(d)
	c := f.Dot(f) - arc.R*arc.R

	s0, s1 := SolveQuadratic(a, b, c)
	for _, s := range [2]float64{s0, s1} {
		if math.IsNaN(s) || !Interval(s, 0.0, 1.0) {
			continue
		}
		pos := l.P0.Add(d.Mul(s))
		if t, ok := arc.angleT(pos.Sub(arc.C).Angle()); ok {
			hits = addHit(hits, pos, s, t)
		}
	}
	return hits
}

func intersectionArcArc(hits []Hit, a, b Arc2) []Hit {
	dc := b.C.Sub(a.C)
	d := dc.Length()
	if Equal(d, 0.0) {
		// concentric circles either miss or coincide; coincident overlap is
		// not reported as intersections
		return hits
	} else if a.R+b.R+Epsilon < d || d < math.Abs(a.R-b.R)-Epsilon {
		return hits
	}

	k := (a.R*a.R - b.R*b.R + d*d) / (2.0 * d)
	h2 := a.R*a.R - k*k
	if h2 < 0.0 {
		h2 = 0.0
	}
	h := math.Sqrt(h2)
	u := dc.Div(d)
	mid := a.C.Add(u.Mul(k))
	perp := u.Rot90CCW().Mul(h)

	for i, pos := range [2]Vec2{mid.Add(perp), mid.Sub(perp)} {
		if i == 1 && Equal(h, 0.0) {
			break // tangent circles touch in a single point
		}
		ta, oka := a.angleT(pos.Sub(a.C).Angle())
		tb, okb := b.angleT(pos.Sub(b.C).Angle())
		if oka && okb {
			hits = addHit(hits, pos, ta, tb)
		}
	}
	return hits
}

// angleT maps an absolute angle to the arc parameter t in [0,1], reporting
// whether the angle falls within the arc's angular span within Epsilon.
func (c Arc2) angleT(theta float64) (float64, bool) {
	dtheta := c.Theta1 - c.Theta0
	if Equal(dtheta, 0.0) {
		if Equal(angleNorm(theta-c.Theta0+math.Pi), math.Pi) {
			return 0.0, true
		}
		return 0.0, false
	}
	var off float64
	if 0.0 < dtheta {
		off = angleNorm(theta-c.Theta0+Epsilon) - Epsilon
	} else {
		off = -(angleNorm(c.Theta0-theta+Epsilon) - Epsilon)
	}
	t := off / dtheta
	if !Interval(t, 0.0, 1.0) {
		return 0.0, false
	}
	return math.Max(0.0, math.Min(1.0, t)), true
}

////////////////////////////////////////////////////////////////

// intersectionSubdivide finds intersections between two non-linear curves by
// recursive bisection of both curves until their bounding boxes either
// separate or shrink below subdivisionTolerance.
// see https://cs.nyu.edu/exact/doc/subdiv1.pdf
func intersectionSubdivide(a, b Curve2) []Hit {
	s := &subdivider{a: a, b: b, nodes: maxIntersectionNodes}
	s.recurse(a, b, 0.0, 1.0, 0.0, 1.0, 0)
	return s.cluster()
}

type subdivider struct {
	a, b  Curve2
	hits  []Hit
	nodes int
}

func (s *subdivider) recurse(a, b Curve2, ta0, ta1, tb0, tb1 float64, depth int) {
	ba, bb := a.Bounds(), b.Bounds()
	if !ba.Expand(Epsilon).Overlaps(bb) {
		return
	}

	ta := 0.5 * (ta0 + ta1)
	tb := 0.5 * (tb0 + tb1)
	smallA := ba.Width() < subdivisionTolerance && ba.Height() < subdivisionTolerance
	smallB := bb.Width() < subdivisionTolerance && bb.Height() < subdivisionTolerance
	if smallA && smallB || maxIntersectionDepth <= depth {
		s.hits = addHit(s.hits, s.a.Position(ta), ta, tb)
		return
	}
	if s.nodes <= 0 {
		// budget exhausted: keep midpoints that already converged onto the
		// intersection so a tangency cluster is not truncated
		if s.a.Position(ta).Sub(s.b.Position(tb)).Length() < exhaustionTolerance {
			s.hits = addHit(s.hits, s.a.Position(ta), ta, tb)
		}
		return
	}
	s.nodes--

	a0, a1 := a.SplitAt(0.5)
	b0, b1 := b.SplitAt(0.5)
	if smallA {
		s.recurse(a, b0, ta0, ta1, tb0, tb, depth+1)
		s.recurse(a, b1, ta0, ta1, tb, tb1, depth+1)
	} else if smallB {
		s.recurse(a0, b, ta0, ta, tb0, tb1, depth+1)
		s.recurse(a1, b, ta, ta1, tb0, tb1, depth+1)
	} else {
		s.recurse(a0, b0, ta0, ta, tb0, tb, depth+1)
		s.recurse(a0, b1, ta0, ta, tb, tb1, depth+1)
		s.recurse(a1, b0, ta, ta1, tb0, tb, depth+1)
		s.recurse(a1, b1, ta, ta1, tb, tb1, depth+1)
	}
}

// cluster merges the leaf clouds the recursion emitted into one hit per
// intersection. A clean crossing yields a couple of adjacent leaves, a
// tangency yields a run of them spread over the contact region; either way
// all leaves of one intersection sit within clusterEpsilon of a neighbor on
// both parameters and collapse to their centroid.
func (s *subdivider) cluster() []Hit {
	if len(s.hits) < 2 {
		return s.hits
	}
	sortHits(s.hits)
	var clusters [][]Hit
	for _, h := range s.hits {
		merged := false
		for i := range clusters {
			last := clusters[i][len(clusters[i])-1]
			if math.Abs(h.TA-last.TA) < clusterEpsilon && math.Abs(h.TB-last.TB) < clusterEpsilon {
				clusters[i] = append(clusters[i], h)
				merged = true
				break
			}
		}
		if !merged {
			clusters = append(clusters, []Hit{h})
		}
	}

	hits := make([]Hit, 0, len(clusters))
	for _, c := range clusters {
		ta, tb := 0.0, 0.0
		for _, h := range c {
			ta += h.TA
			tb += h.TB
		}
		ta /= float64(len(c))
		tb /= float64(len(c))
		hits = append(hits, Hit{ta, tb, s.a.Position(ta)})
	}
	sortHits(hits)
	return hits
}
