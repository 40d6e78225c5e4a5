package kartifex

import (
	"strings"
)

// Region2 is a set of closed rings defining an area under the even-odd fill
// rule: a point is inside when a ray from it crosses the combined boundary
// an odd number of times.
type Region2 struct {
	Rings []Ring2
}

// NewRegion2 returns a region with a single ring over the given curves.
// Degenerate input yields an empty region.
func NewRegion2(curves []Curve2) Region2 {
	ring := NewRing2(curves)
	if ring.IsEmpty() {
		return Region2{}
	}
	return Region2{Rings: []Ring2{ring}}
}

// FromRings returns a region over the given rings, dropping empty ones.
func FromRings(rings ...Ring2) Region2 {
	var rs []Ring2
	for _, r := range rings {
		if !r.IsEmpty() {
			rs = append(rs, r)
		}
	}
	return Region2{Rings: rs}
}

// IsEmpty returns true when the region has no rings.
func (r Region2) IsEmpty() bool {
	return len(r.Rings) == 0
}

// Bounds returns the bounding box of all rings.
func (r Region2) Bounds() Box2 {
	b := emptyBox2
	for _, ring := range r.Rings {
		b = b.Union(ring.Bounds())
	}
	return b
}

// Transform applies an affine transformation to all rings.
func (r Region2) Transform(m Matrix) Region2 {
	rings := make([]Ring2, len(r.Rings))
	for i, ring := range r.Rings {
		rings[i] = ring.Transform(m)
	}
	return Region2{Rings: rings}
}

// Contains returns true when p lies inside the region or on its boundary.
func (r Region2) Contains(p Vec2) bool {
	return 0 <= newRegionTester(r).test(p)
}

func (r Region2) String() string {
	var sb strings.Builder
	sb.WriteString("Region2(")
	for i, ring := range r.Rings {
		if 0 < i {
			sb.WriteString(", ")
		}
		sb.WriteString(ring.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Union returns the region covered by a or b.
func (a Region2) Union(b Region2) Region2 {
	return combine(a, b, opUnion)
}

// Intersection returns the region covered by both a and b.
func (a Region2) Intersection(b Region2) Region2 {
	return combine(a, b, opIntersection)
}

// Difference returns the region covered by a but not b.
func (a Region2) Difference(b Region2) Region2 {
	return combine(a, b, opDifference)
}

// Xor returns the region covered by exactly one of a and b.
func (a Region2) Xor(b Region2) Region2 {
	return combine(a, b, opXor)
}

type regionOp int

const (
	opUnion regionOp = iota
	opIntersection
	opDifference
	opXor
)

// combine splits both regions at their mutual intersections and classifies
// each boundary piece by testing its midpoint against the other region. Kept
// pieces are stitched back into closed rings.
func combine(a, b Region2, op regionOp) Region2 {
	sa, sb, _ := Split(a, b)
	ta := newRegionTester(sb)
	tb := newRegionTester(sa)

	var curves []Curve2
	for _, ring := range sa.Rings {
		for _, c := range ring.Curves {
			m := c.Position(0.5)
			switch place := ta.test(m); place {
			case -1: // outside b
				if op == opUnion || op == opDifference || op == opXor {
					curves = append(curves, c)
				}
			case 1: // inside b
				if op == opIntersection {
					curves = append(curves, c)
				} else if op == opXor {
					curves = append(curves, c.Reverse())
				}
			case 0: // on b's boundary
				aligned := 0.0 < ta.direction(m).Dot(c.Direction(0.5))
				if aligned && (op == opUnion || op == opIntersection) {
					curves = append(curves, c)
				} else if !aligned && op == opDifference {
					curves = append(curves, c)
				}
			}
		}
	}
	for _, ring := range sb.Rings {
		for _, c := range ring.Curves {
			m := c.Position(0.5)
			switch place := tb.test(m); place {
			case -1: // outside a
				if op == opUnion || op == opXor {
					curves = append(curves, c)
				}
			case 1: // inside a
				if op == opIntersection {
					curves = append(curves, c)
				} else if op == opDifference || op == opXor {
					curves = append(curves, c.Reverse())
				}
			case 0:
				// coincident boundary is represented by a's copy
			}
		}
	}
	return stitch(curves)
}

// stitch assembles curves into closed rings by matching exact endpoints.
// Curves produced by Split share bit-identical vertices, so matching is by
// map lookup. Where several curves leave a vertex the sharpest left turn is
// taken. Open chains are dropped.
func stitch(curves []Curve2) Region2 {
	byStart := map[Vec2][]int{}
	for i, c := range curves {
		byStart[c.Start()] = append(byStart[c.Start()], i)
	}

	used := make([]bool, len(curves))
	var rings []Ring2
	for i := range curves {
		if used[i] {
			continue
		}
		chain := []Curve2{curves[i]}
		used[i] = true
		start := curves[i].Start()
		for {
			last := chain[len(chain)-1]
			at := last.End()
			if at == start {
				rings = append(rings, Ring2{Curves: chain})
				break
			}
			next := pickNext(curves, used, byStart[at], last.Direction(1.0))
			if next < 0 {
				break // open chain, drop
			}
			used[next] = true
			chain = append(chain, curves[next])
		}
	}
	return Region2{Rings: rings}
}

// pickNext selects the unused candidate whose outgoing direction turns most
// counter-clockwise relative to the incoming direction.
func pickNext(curves []Curve2, used []bool, candidates []int, incoming Vec2) int {
	best, bestTurn := -1, 0.0
	for _, j := range candidates {
		if used[j] {
			continue
		}
		turn := incoming.AngleBetween(curves[j].Direction(0.0))
		if best < 0 || bestTurn < turn {
			best, bestTurn = j, turn
		}
	}
	return best
}

////////////////////////////////////////////////////////////////

// regionTester answers point classification queries against a region using
// its boundary flattened once up front.
type regionTester struct {
	rings [][]Vec2
}

func newRegionTester(r Region2) *regionTester {
	rings := make([][]Vec2, len(r.Rings))
	for i, ring := range r.Rings {
		rings[i] = ring.Flatten(flattenTolerance)
	}
	return &regionTester{rings: rings}
}

// test classifies p: 1 inside, 0 on the boundary, -1 outside. Even-odd
// parity is accumulated over all rings.
func (rt *regionTester) test(p Vec2) int {
	parity := 0
	for _, pts := range rt.rings {
		switch ringTest(p, pts) {
		case 0:
			return 0
		case 1:
			parity++
		}
	}
	if parity%2 == 1 {
		return 1
	}
	return -1
}

// direction returns the boundary direction at the segment nearest to p.
// Only meaningful when test(p) == 0.
func (rt *regionTester) direction(p Vec2) Vec2 {
	bestDist := -1.0
	var best Vec2
	for _, pts := range rt.rings {
		for i, a := range pts {
			b := pts[(i+1)%len(pts)]
			if d := distancePointSegment(p, a, b); bestDist < 0.0 || d < bestDist {
				bestDist = d
				best = b.Sub(a)
			}
		}
	}
	return best.Norm(1.0)
}
