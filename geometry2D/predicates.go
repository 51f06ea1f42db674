package geometry2D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// orient is twice the signed area of a,b,c, positive when counter-clockwise.
func orient(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// lineDistance is the signed distance of c from the line through a,b, positive
// on the left.
func lineDistance(a, b, c r2.Vec) float64 {
	l := r2.Norm(r2.Sub(b, a))
	if l == 0 {
		return r2.Norm(r2.Sub(c, a))
	}
	return orient(a, b, c) / l
}

func dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

func midpoint(a, b r2.Vec) r2.Vec {
	return r2.Scale(0.5, r2.Add(a, b))
}

// segmentDistance is the distance from p to the closest point of segment a-b.
func segmentDistance(a, b, p r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return dist(a, p)
	}
	t := math.Max(0, math.Min(1, r2.Dot(r2.Sub(p, a), ab)/l2))
	return dist(r2.Add(a, r2.Scale(t, ab)), p)
}

// circumcircle returns the center and radius of the circle through a,b,c. The
// radius is infinite or NaN for collinear points.
func circumcircle(a, b, c r2.Vec) (cc r2.Vec, R float64) {
	var (
		ba, ca = r2.Sub(b, a), r2.Sub(c, a)
		d      = 2 * r2.Cross(ba, ca)
		lb, lc = r2.Norm2(ba), r2.Norm2(ca)
		off    = r2.Vec{X: (ca.Y*lb - ba.Y*lc) / d, Y: (ba.X*lc - ca.X*lb) / d}
	)
	return r2.Add(a, off), r2.Norm(off)
}

// inCircle is positive when d lies inside the circumcircle of the
// counter-clockwise triangle a,b,c, negative outside.
func inCircle(a, b, c, d r2.Vec) float64 {
	var (
		ax_, ay_ = a.X - d.X, a.Y - d.Y
		bx_, by_ = b.X - d.X, b.Y - d.Y
		cx_, cy_ = c.X - d.X, c.Y - d.Y
	)
	return (ax_*ax_+ay_*ay_)*(bx_*cy_-cx_*by_) -
		(bx_*bx_+by_*by_)*(ax_*cy_-cx_*ay_) +
		(cx_*cx_+cy_*cy_)*(ax_*by_-bx_*ay_)
}

// inCircleTol is the magnitude below which inCircle is treated as cocircular.
// The determinant scales as length^4.
func inCircleTol(a, b, c, d r2.Vec) float64 {
	m := math.Max(r2.Norm2(r2.Sub(a, d)), math.Max(r2.Norm2(r2.Sub(b, d)), r2.Norm2(r2.Sub(c, d))))
	return 1.e-12 * m * m
}

func IsIllegalEdge(prX, prY, piX, piY, pjX, pjY, pkX, pkY float64) bool {
	/*
		pr is a new point for candidate triangle pi-pj-pr
		pi-pj is a shared edge between pi-pj-pk and pi-pj-pr
		if pr lies inside the circle defined by pi-pj-pk:
			- The edge pi-pj should be swapped with pr-pk to make two new triangles:
				pi-pr-pk and pj-pk-pr
	*/
	var (
		pr = r2.Vec{X: prX, Y: prY}
		pi = r2.Vec{X: piX, Y: piY}
		pj = r2.Vec{X: pjX, Y: pjY}
		pk = r2.Vec{X: pkX, Y: pkY}
	)
	// Handedness of the base triangle decides the sign of the determinant
	if orient(pi, pj, pk) < 0 {
		return inCircle(pi, pj, pk, pr) < 0
	}
	return inCircle(pi, pj, pk, pr) > 0
}

func triangleArea(a, b, c r2.Vec) float64 {
	return 0.5 * orient(a, b, c)
}

// minAngle is the smallest interior angle of a,b,c in degrees.
func minAngle(a, b, c r2.Vec) float64 {
	angle := func(p, q, r r2.Vec) float64 {
		u, v := r2.Sub(q, p), r2.Sub(r, p)
		return math.Abs(math.Atan2(r2.Cross(u, v), r2.Dot(u, v)))
	}
	m := math.Min(angle(a, b, c), math.Min(angle(b, c, a), angle(c, a, b)))
	return m * 180 / math.Pi
}

// turningAngle is the change of direction in degrees when walking p->v->q.
func turningAngle(p, v, q r2.Vec) float64 {
	u, w := r2.Sub(v, p), r2.Sub(q, v)
	return math.Abs(math.Atan2(r2.Cross(u, w), r2.Dot(u, w))) * 180 / math.Pi
}
