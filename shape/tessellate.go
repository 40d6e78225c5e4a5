package shape

import (
	"github.com/ByteArena/poly2tri-go"
	"github.com/edwinRNDR/openrndr/kartifex"
)

// Tessellate triangulates the filled path interior within the given
// flattening tolerance. The first contour is the outer boundary and all
// further contours are treated as holes.
func (p *Path) Tessellate(distanceTolerance float64) [][3]kartifex.Vec2 {
	cs := p.Contours()
	if len(cs) == 0 {
		return nil
	}

	outer := contourPolyline(cs[0], distanceTolerance)
	if len(outer) < 3 {
		return nil
	}
	swctx := poly2tri.NewSweepContext(outer, false)
	for _, c := range cs[1:] {
		if hole := contourPolyline(c, distanceTolerance); 3 <= len(hole) {
			swctx.AddHole(hole)
		}
	}
	swctx.Triangulate()

	var triangles [][3]kartifex.Vec2
	for _, tr := range swctx.GetTriangles() {
		triangles = append(triangles, [3]kartifex.Vec2{
			{X: tr.Points[0].X, Y: tr.Points[0].Y},
			{X: tr.Points[1].X, Y: tr.Points[1].Y},
			{X: tr.Points[2].X, Y: tr.Points[2].Y},
		})
	}
	return triangles
}

// contourPolyline flattens a contour into the open polyline poly2tri
// expects: the closing vertex is implied.
func contourPolyline(c Contour, distanceTolerance float64) []*poly2tri.Point {
	var pts []*poly2tri.Point
	var first, last kartifex.Vec2
	for i, s := range c.Segments {
		pos := s.AdaptivePositions(distanceTolerance)
		if i == 0 {
			first = pos[0]
		} else {
			pos = pos[1:]
		}
		for _, p := range pos {
			pts = append(pts, poly2tri.NewPoint(p.X, p.Y))
		}
		last = s.End
	}
	// drop the repeated closing vertex of a closed contour
	if 0 < len(pts) && last.Equals(first) {
		pts = pts[:len(pts)-1]
	}
	return pts
}
