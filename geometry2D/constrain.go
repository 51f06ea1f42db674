package geometry2D

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gomesh2d/types"
)

// onSegment reports whether vertex p lies strictly between a and b, within the
// mesh tolerance of the segment.
func (tm *TriMesh) onSegment(a, b, p int) bool {
	if p == a || p == b {
		return false
	}
	var (
		pa, pb, pp = tm.Points[a], tm.Points[b], tm.Points[p]
		d          = lineDistance(pa, pb, pp)
	)
	if d > tm.tol || d < -tm.tol {
		return false
	}
	ab := r2.Sub(pb, pa)
	t := r2.Dot(r2.Sub(pp, pa), ab) / r2.Norm2(ab)
	return t > 0 && t < 1
}

// firstCrossing turns around a to find the triangle the segment a->b leaves
// through. It returns the crossed edge p,q with p right of the segment and q
// left of it, or a vertex on the segment that splits it.
func (tm *TriMesh) firstCrossing(a, b int) (p, q, split int) {
	var (
		start  = tm.triAround(a)
		k      = start
		pa, pb = tm.Points[a], tm.Points[b]
	)
	for i := 0; i <= len(tm.Tris); i++ {
		v := tm.Tris[k].rotated(a)
		p, q = v[1], v[2]
		if tm.onSegment(a, b, p) {
			return -1, -1, p
		}
		if orient(pa, tm.Points[p], pb) > 0 && orient(pa, tm.Points[q], pb) < 0 {
			return p, q, -1
		}
		next, ok := tm.holder(a, q)
		if !ok || next == start {
			break
		}
		k = next
	}
	fatalf(ErrConvergenceFailure, "no triangle around vertex %d faces vertex %d", a, b)
	return
}

// RecoverEdge makes a-b an edge of the mesh and marks it constrained. Edges
// crossing the segment are flipped away one at a time, re-queueing those whose
// quadrilateral is not yet convex, and the new edges are then made Delaunay
// again. A vertex found on the segment splits it in two.
func (tm *TriMesh) RecoverEdge(a, b int) (err error) {
	if tm.HasEdge(a, b) {
		tm.fix(a, b)
		return
	}
	var (
		p, q, split = tm.firstCrossing(a, b)
		crossings   [][2]int
		pa, pb      = tm.Points[a], tm.Points[b]
	)
	for step := 0; split < 0; step++ {
		if tm.IsFixed(p, q) {
			crossed := types.NewEdgeKey([2]int{p, q}).GetVertices(false)
			return errors.Wrapf(ErrConvergenceFailure, "boundary edge %d-%d crosses boundary edge %d-%d",
				a, b, crossed[0], crossed[1])
		}
		crossings = append(crossings, [2]int{p, q})
		n, ok := tm.holder(q, p)
		if !ok || step > len(tm.Tris) {
			return errors.Wrapf(ErrConvergenceFailure, "boundary edge %d-%d leaves the triangulation", a, b)
		}
		s := tm.Tris[n].opposite(p, q)
		if s == b {
			break
		}
		if tm.onSegment(a, b, s) {
			split = s
			break
		}
		if orient(pa, pb, tm.Points[s]) < 0 {
			p = s
		} else {
			q = s
		}
	}
	if split >= 0 {
		tm.log.Infof("vertex %d lies on boundary edge %d-%d, splitting it", split, a, b)
		if err = tm.RecoverEdge(a, split); err != nil {
			return
		}
		return tm.RecoverEdge(split, b)
	}
	var (
		queue   = crossings
		created [][2]int
		stall   int
	)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		u, v := e[0], e[1]
		k, okK := tm.holder(u, v)
		n, okN := tm.holder(v, u)
		if !okK || !okN {
			return errors.Wrapf(ErrConvergenceFailure, "crossing edge %d-%d vanished while recovering %d-%d",
				u, v, a, b)
		}
		var (
			x      = tm.Tris[k].opposite(u, v)
			y      = tm.Tris[n].opposite(u, v)
			px, py = tm.Points[x], tm.Points[y]
		)
		if orient(tm.Points[u], py, px) <= 0 || orient(py, tm.Points[v], px) <= 0 {
			queue = append(queue, e)
			if stall++; stall > len(queue) {
				return errors.Wrapf(ErrConvergenceFailure, "boundary edge %d-%d cannot be recovered, %d crossings remain",
					a, b, len(queue))
			}
			continue
		}
		stall = 0
		if err = tm.flip(k, n, u, v, x, y); err != nil {
			return
		}
		if tm.crossesLine(a, b, x, y) {
			queue = append(queue, [2]int{x, y})
		} else {
			created = append(created, [2]int{x, y})
		}
	}
	if !tm.HasEdge(a, b) {
		return errors.Wrapf(ErrConvergenceFailure, "boundary edge %d-%d missing after recovery", a, b)
	}
	tm.fix(a, b)
	return tm.legalize(created)
}

// crossesLine reports whether x and y sit strictly on opposite sides of the
// line through a and b.
func (tm *TriMesh) crossesLine(a, b, x, y int) bool {
	if x == a || x == b || y == a || y == b {
		return false
	}
	var (
		pa, pb = tm.Points[a], tm.Points[b]
		dx     = lineDistance(pa, pb, tm.Points[x])
		dy     = lineDistance(pa, pb, tm.Points[y])
	)
	return (dx > tm.tol && dy < -tm.tol) || (dx < -tm.tol && dy > tm.tol)
}
