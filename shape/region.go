package shape

import (
	"math"

	"github.com/edwinRNDR/openrndr/kartifex"
)

// FromRegion converts a region back into a path, one closed contour per
// ring. Circular arcs become cubic Bézier segments.
func FromRegion(r kartifex.Region2) *Path {
	p := &Path{}
	for _, ring := range r.Rings {
		for i, c := range ring.Curves {
			if i == 0 {
				start := c.Start()
				p.MoveTo(start.X, start.Y)
			}
			appendCurve(p, c)
		}
		if 0 < len(ring.Curves) {
			p.Close()
		}
	}
	return p
}

func appendCurve(p *Path, c kartifex.Curve2) {
	switch c := c.(type) {
	case kartifex.Line2:
		p.LineTo(c.P1.X, c.P1.Y)
	case kartifex.QuadraticBezier2:
		p.QuadTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y)
	case kartifex.CubicBezier2:
		p.CubeTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	case kartifex.Arc2:
		segments := ellipseToSegments(c.C, c.R, c.R, 0.0, c.Theta0*180.0/math.Pi, c.Theta1*180.0/math.Pi)
		segments[0].Start = c.Start()
		segments[len(segments)-1].End = c.End()
		for _, s := range segments {
			p.CubeTo(s.Control[0].X, s.Control[0].Y, s.Control[1].X, s.Control[1].Y, s.End.X, s.End.Y)
		}
	default:
		panic("unknown curve type")
	}
}
