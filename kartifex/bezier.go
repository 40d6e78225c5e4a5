package kartifex

func quadraticBezierPos(p0, p1, p2 Vec2, t float64) Vec2 {
	p0 = p0.Mul((1.0 - t) * (1.0 - t))
	p1 = p1.Mul(2.0 * t * (1.0 - t))
	p2 = p2.Mul(t * t)
	return p0.Add(p1).Add(p2)
}

func quadraticBezierDeriv(p0, p1, p2 Vec2, t float64) Vec2 {
	p0 = p0.Mul(-2.0 + 2.0*t)
	p1 = p1.Mul(2.0 - 4.0*t)
	p2 = p2.Mul(2.0 * t)
	return p0.Add(p1).Add(p2)
}

func cubicBezierPos(p0, p1, p2, p3 Vec2, t float64) Vec2 {
	p0 = p0.Mul((1.0 - t) * (1.0 - t) * (1.0 - t))
	p1 = p1.Mul(3.0 * t * (1.0 - t) * (1.0 - t))
	p2 = p2.Mul(3.0 * t * t * (1.0 - t))
	p3 = p3.Mul(t * t * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

func cubicBezierDeriv(p0, p1, p2, p3 Vec2, t float64) Vec2 {
	p0 = p0.Mul(-3.0 * (1.0 - t) * (1.0 - t))
	p1 = p1.Mul(3.0 * (1.0 - t) * (1.0 - 3.0*t))
	p2 = p2.Mul(3.0 * t * (2.0 - 3.0*t))
	p3 = p3.Mul(3.0 * t * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

// quadraticBezierSplit splits the quadratic Bézier at t using de Casteljau,
// returning the control points of both sub-curves. The sub-curves share the
// split point exactly.
func quadraticBezierSplit(p0, p1, p2 Vec2, t float64) (Vec2, Vec2, Vec2, Vec2, Vec2, Vec2) {
	q0 := p0
	q1 := p0.Interpolate(p1, t)

	r2 := p2
	r1 := p1.Interpolate(p2, t)

	r0 := q1.Interpolate(r1, t)
	q2 := r0
	return q0, q1, q2, r0, r1, r2
}

// cubicBezierSplit splits the cubic Bézier at t using de Casteljau, returning
// the control points of both sub-curves. The sub-curves share the split point
// exactly.
func cubicBezierSplit(p0, p1, p2, p3 Vec2, t float64) (Vec2, Vec2, Vec2, Vec2, Vec2, Vec2, Vec2, Vec2) {
	pm := p1.Interpolate(p2, t)

	q0 := p0
	q1 := p0.Interpolate(p1, t)
	q2 := q1.Interpolate(pm, t)

	r3 := p3
	r2 := p2.Interpolate(p3, t)
	r1 := pm.Interpolate(r2, t)

	r0 := q2.Interpolate(r1, t)
	q3 := r0
	return q0, q1, q2, q3, r0, r1, r2, r3
}
