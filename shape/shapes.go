package shape

import "github.com/edwinRNDR/openrndr/kartifex"

// circleKappa is the control point distance factor that makes a cubic Bézier
// quarter arc pass through the circle at its midpoint.
const circleKappa = 0.5522847498307936

// Line returns an open path from (x1,y1) to (x2,y2).
func Line(x1, y1, x2, y2 float64) *Path {
	p := &Path{}
	p.MoveTo(x1, y1)
	p.LineTo(x2, y2)
	return p
}

// Rectangle returns a closed counter-clockwise rectangle of size (w,h) with
// its bottom-left corner at (x,y).
func Rectangle(x, y, w, h float64) *Path {
	p := &Path{}
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

// Circle returns a closed counter-clockwise circle of radius r centered at
// (cx,cy), approximated by four cubic Bézier quarter arcs.
func Circle(cx, cy, r float64) *Path {
	return Ellipse(cx, cy, r, r)
}

// Ellipse returns a closed counter-clockwise axis-aligned ellipse with radii
// rx and ry centered at (cx,cy).
func Ellipse(cx, cy, rx, ry float64) *Path {
	dx, dy := rx*circleKappa, ry*circleKappa
	p := &Path{}
	p.MoveTo(cx+rx, cy)
	p.CubeTo(cx+rx, cy+dy, cx+dx, cy+ry, cx, cy+ry)
	p.CubeTo(cx-dx, cy+ry, cx-rx, cy+dy, cx-rx, cy)
	p.CubeTo(cx-rx, cy-dy, cx-dx, cy-ry, cx, cy-ry)
	p.CubeTo(cx+dx, cy-ry, cx+rx, cy-dy, cx+rx, cy)
	p.Close()
	return p
}

// RegionOf is a convenience that converts any number of paths into the
// even-odd region covered by all their contours.
func RegionOf(paths ...*Path) kartifex.Region2 {
	var rings []kartifex.Ring2
	for _, p := range paths {
		for _, c := range p.Contours() {
			rings = append(rings, c.Ring())
		}
	}
	return kartifex.FromRings(rings...)
}
