package kartifex

import (
	"sort"
)

// VertexUnion is a union-find over vertices that canonicalizes
// near-coincident intersection points to a single representative. The
// canonical root of a cluster is its lexicographically smallest member, which
// makes the outcome independent of join order. A VertexUnion lives for the
// duration of a single Split call and never escapes it.
type VertexUnion struct {
	parent map[Vec2]Vec2
	roots  map[Vec2]bool
}

// NewVertexUnion returns an empty vertex union.
func NewVertexUnion() *VertexUnion {
	return &VertexUnion{
		parent: map[Vec2]Vec2{},
		roots:  map[Vec2]bool{},
	}
}

// Join merges the clusters of a and b, keeping the lexicographically smallest
// root as representative.
func (u *VertexUnion) Join(a, b Vec2) {
	ra := u.Adjust(a)
	rb := u.Adjust(b)
	u.roots[ra] = true
	u.roots[rb] = true
	if ra == rb {
		return
	}
	if rb.Compare(ra) < 0 {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra // larger becomes child of smaller
}

// Adjust returns the canonical representative of p, or p itself when it was
// never joined. Adjust is idempotent and compresses the lookup path.
func (u *VertexUnion) Adjust(p Vec2) Vec2 {
	root, ok := u.parent[p]
	if !ok {
		return p
	}
	for {
		next, ok := u.parent[root]
		if !ok {
			break
		}
		root = next
	}
	for p != root {
		next := u.parent[p]
		u.parent[p] = root
		p = next
	}
	return root
}

// Roots returns the canonical vertices introduced by joins: every member of
// the roots set that never became a child, ordered lexicographically.
func (u *VertexUnion) Roots() []Vec2 {
	var rs []Vec2
	for p := range u.roots {
		if _, child := u.parent[p]; !child {
			rs = append(rs, p)
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].Compare(rs[j]) < 0
	})
	return rs
}

////////////////////////////////////////////////////////////////

// splitCurve accumulates the parametric split positions found on one curve
// during a Split pass.
type splitCurve struct {
	curve Curve2
	ts    []float64
}

// Split splits regions a and b at all of their mutual intersection points.
// The returned regions cover the same areas as the inputs, but every curve is
// cut at each intersection with the other region and the cut endpoints are
// replaced by canonical vertices shared bit-identically between both results.
// The third return value holds those canonical vertices. Curves that do not
// intersect anything pass through unmodified, and disjoint regions are
// returned unchanged with no vertices.
//
// Coincident overlapping curve spans are not detected; only discrete
// intersection points split curves.
func Split(a, b Region2) (Region2, Region2, []Vec2) {
	union := NewVertexUnion()
	sa := wrapRegion(a)
	sb := wrapRegion(b)

	qa := queueRegion(sa)
	qb := queueRegion(sb)
	for {
		q := nextQueue(qa, qb)
		if q == nil {
			break
		}
		other := qb
		if q == qb {
			other = qa
		}
		c, x, _ := q.Take()
		qa.Advance(x)
		qb.Advance(x)
		for _, d := range other.ActiveItems() {
			for _, h := range Intersect(c.curve, d.curve) {
				c.ts = append(c.ts, h.TA)
				d.ts = append(d.ts, h.TB)
				union.Join(c.curve.Position(h.TA), d.curve.Position(h.TB))
			}
		}
	}

	return rebuildRegion(sa, union), rebuildRegion(sb, union), union.Roots()
}

func wrapRegion(r Region2) [][]*splitCurve {
	rings := make([][]*splitCurve, len(r.Rings))
	for i, ring := range r.Rings {
		cs := make([]*splitCurve, len(ring.Curves))
		for j, c := range ring.Curves {
			cs[j] = &splitCurve{curve: c}
		}
		rings[i] = cs
	}
	return rings
}

func queueRegion(rings [][]*splitCurve) *SweepQueue[*splitCurve] {
	q := &SweepQueue[*splitCurve]{}
	for _, ring := range rings {
		for _, sc := range ring {
			bounds := sc.curve.Bounds()
			q.Add(sc, bounds.Min.X, bounds.Max.X)
		}
	}
	return q
}

// dedupe sorts the accumulated split parameters and merges any pair closer
// than clusterEpsilon or resolving to the same point within Epsilon, joining
// the collapsed positions in the union instead of emitting two splits.
// Parameters within tolerance of the curve boundary are snapped onto the
// start or end point so no vanishingly short sub-curve is produced. The
// tolerance is clusterEpsilon rather than ParametricEpsilon because hits
// found by subdivision scatter over the tangency contact region.
func (sc *splitCurve) dedupe(union *VertexUnion) []float64 {
	sort.Float64s(sc.ts)
	start, end := sc.curve.Start(), sc.curve.End()
	var ts []float64
	for _, t := range sc.ts {
		p := sc.curve.Position(t)
		if t < clusterEpsilon || p.Equals(start) {
			union.Join(p, start)
			continue
		} else if 1.0-clusterEpsilon < t || p.Equals(end) {
			union.Join(p, end)
			continue
		}
		if 0 < len(ts) {
			prev := ts[len(ts)-1]
			if pp := sc.curve.Position(prev); t-prev < clusterEpsilon || p.Equals(pp) {
				union.Join(p, pp)
				continue
			}
		}
		ts = append(ts, t)
	}
	return ts
}

// pieces splits the curve at its deduplicated parameters and installs the
// union-adjusted canonical endpoints on every piece, dropping pieces that
// collapse to zero length after snapping.
func (sc *splitCurve) pieces(union *VertexUnion) []Curve2 {
	ts := sc.dedupe(union)

	ends := make([]Vec2, 0, len(ts)+2)
	ends = append(ends, union.Adjust(sc.curve.Start()))
	for _, t := range ts {
		ends = append(ends, union.Adjust(sc.curve.Position(t)))
	}
	ends = append(ends, union.Adjust(sc.curve.End()))

	var out []Curve2
	for i, piece := range sc.curve.Split(ts) {
		p0, p1 := ends[i], ends[i+1]
		if p0 == p1 {
			bounds := piece.Bounds()
			if bounds.Width() < Epsilon && bounds.Height() < Epsilon {
				continue // zero length after snapping
			}
		}
		out = append(out, piece.WithEndpoints(p0, p1))
	}
	return out
}

func rebuildRegion(rings [][]*splitCurve, union *VertexUnion) Region2 {
	var out []Ring2
	for _, ring := range rings {
		var curves []Curve2
		for _, sc := range ring {
			curves = append(curves, sc.pieces(union)...)
		}
		if 0 < len(curves) {
			out = append(out, Ring2{Curves: curves})
		}
	}
	return Region2{Rings: out}
}
