package geometry2D

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	maxRefinePasses = 256
	maxGradePasses  = 256
	smoothSweeps    = 3
	// qualityAngle is the smallest angle refinement tries to keep, in degrees.
	// Below about 20.7 the circumcenter insertion is known to terminate.
	qualityAngle = 20.
)

// splitRadius is the circumradius, relative to the local size, above which a
// triangle is split. An equilateral triangle of side √2 h sits on it.
var splitRadius = math.Sqrt2 / math.Sqrt(3)

// RegionEdges are the edges on the rim of the meshed region together with any
// constrained edge inside it, each once, in triangle order.
func (tm *TriMesh) RegionEdges() (edges [][2]int) {
	for k, tri := range tm.Tris {
		if !tri.alive || !tri.interior {
			continue
		}
		for i := 0; i < 3; i++ {
			u, w := tri.Verts[i], tri.Verts[(i+1)%3]
			n, ok := tm.holder(w, u)
			inner := ok && tm.Tris[n].interior
			if inner && (!tm.IsFixed(u, w) || n < k) {
				continue
			}
			edges = append(edges, [2]int{u, w})
		}
	}
	return
}

/*
sizeField is the target edge length over the region. Every rim vertex v
carries the local boundary spacing s_v, the shortest incident rim edge at a
hard corner and the mean elsewhere, and the size grows away from it at the
gradation rate. Rim edges are never split, so each one also holds the size up
to its own length close to it:

	h(x) = max( min(H, min_v(s_v + (g-1)|x-v|)), max_e(|e| - (g-1)d(x,e)) )

where H is the uniform target when one is given.
*/
type sizeField struct {
	at      []r2.Vec
	spacing []float64
	rim     [][2]r2.Vec
	target  float64
	grade   float64
	floor   float64 // no triangle with a smaller circumradius is split
}

func (tm *TriMesh) newSizeField(edges [][2]int, corners []int, target, grade float64) (sf *sizeField) {
	sf = &sizeField{target: target, grade: grade}
	isCorner := make(map[int]bool, len(corners))
	for _, v := range corners {
		isCorner[v] = true
	}
	adj, verts := boundaryGraph(edges)
	for _, v := range verts {
		var (
			sum      float64
			shortest = math.Inf(1)
		)
		for _, w := range adj[v] {
			l := dist(tm.Points[v], tm.Points[w])
			sum += l
			shortest = math.Min(shortest, l)
		}
		s := sum / float64(len(adj[v]))
		if isCorner[v] {
			s = shortest
		}
		if target > 0 {
			s = math.Min(s, target)
		}
		sf.at = append(sf.at, tm.Points[v])
		sf.spacing = append(sf.spacing, s)
	}
	shortest := math.Inf(1)
	for _, e := range edges {
		a, b := tm.Points[e[0]], tm.Points[e[1]]
		sf.rim = append(sf.rim, [2]r2.Vec{a, b})
		shortest = math.Min(shortest, dist(a, b))
	}
	if target > 0 {
		shortest = math.Min(shortest, target)
	}
	sf.floor = 0.25 * shortest
	return
}

func (sf *sizeField) At(x r2.Vec) (h float64) {
	h = math.Inf(1)
	if sf.target > 0 {
		h = sf.target
	}
	for i, v := range sf.at {
		h = math.Min(h, sf.spacing[i]+(sf.grade-1)*dist(v, x))
	}
	for _, e := range sf.rim {
		h = math.Max(h, dist(e[0], e[1])-(sf.grade-1)*segmentDistance(e[0], e[1], x))
	}
	return
}

// equivalentSide is the side of the equilateral triangle with the given area.
func equivalentSide(area float64) float64 {
	return math.Sqrt(4 * area / math.Sqrt(3))
}

type splitCandidate struct {
	k    int
	size float64
}

// sortCandidates orders largest first, ties broken on the triangle index so
// the outcome never depends on discovery order.
func sortCandidates(cands []splitCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].size != cands[j].size {
			return cands[i].size > cands[j].size
		}
		return cands[i].k < cands[j].k
	})
}

func (tm *TriMesh) outputVertices() int {
	return len(tm.Points) - 3
}

func (tm *TriMesh) centroid(k int) r2.Vec {
	v := tm.Tris[k].Verts
	return r2.Scale(1./3., r2.Add(tm.Points[v[0]], r2.Add(tm.Points[v[1]], tm.Points[v[2]])))
}

func (tm *TriMesh) size(k int) float64 {
	v := tm.Tris[k].Verts
	return equivalentSide(triangleArea(tm.Points[v[0]], tm.Points[v[1]], tm.Points[v[2]]))
}

func (tm *TriMesh) circumcircle(k int) (r2.Vec, float64) {
	v := tm.Tris[k].Verts
	return circumcircle(tm.Points[v[0]], tm.Points[v[1]], tm.Points[v[2]])
}

func (tm *TriMesh) minAngle(k int) float64 {
	v := tm.Tris[k].Verts
	return minAngle(tm.Points[v[0]], tm.Points[v[1]], tm.Points[v[2]])
}

// isBarrier reports whether edge u->w of a region triangle is one refinement
// must keep whole: a constrained edge or the rim of the region.
func (tm *TriMesh) isBarrier(u, w int) bool {
	if tm.IsFixed(u, w) {
		return true
	}
	n, ok := tm.holder(w, u)
	return !ok || !tm.Tris[n].interior
}

// inDiametral reports whether p lies strictly inside the circle on edge u-w.
func (tm *TriMesh) inDiametral(u, w int, p r2.Vec) bool {
	pu, pw := tm.Points[u], tm.Points[w]
	return dist(p, midpoint(pu, pw)) < 0.5*dist(pu, pw)-tm.tol
}

// walkTo follows the segment from the centroid of region triangle k to p. It
// fails when the segment leaves the region or crosses a constrained edge
// before reaching p.
func (tm *TriMesh) walkTo(k int, p r2.Vec) (at int, loc location, idx int, ok bool) {
	from := tm.centroid(k)
	for step := 0; step <= len(tm.Tris); step++ {
		if tm.contains(k, p) {
			loc, idx = tm.classifyIn(k, p)
			return k, loc, idx, true
		}
		var (
			tri  = tm.Tris[k]
			next = -1
		)
		for i := 0; i < 3 && next < 0; i++ {
			u, w := tri.Verts[i], tri.Verts[(i+1)%3]
			pu, pw := tm.Points[u], tm.Points[w]
			if lineDistance(pu, pw, p) >= -tm.tol {
				continue
			}
			// The segment leaves through u->w with u on its right
			if orient(from, p, pu) > 0 || orient(from, p, pw) < 0 {
				continue
			}
			if tm.isBarrier(u, w) {
				return -1, locOutside, -1, false
			}
			next, _ = tm.holder(w, u)
		}
		if next < 0 {
			break
		}
		k = next
	}
	return -1, locOutside, -1, false
}

// encroaches reports whether p, lying in region triangle at, falls inside the
// diametral circle of a barrier edge bounding the triangles whose circumcircle
// holds p.
func (tm *TriMesh) encroaches(at int, p r2.Vec) bool {
	var (
		seen  = map[int]bool{at: true}
		stack = []int{at}
	)
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		tri := tm.Tris[k]
		for i := 0; i < 3; i++ {
			u, w := tri.Verts[i], tri.Verts[(i+1)%3]
			if tm.isBarrier(u, w) {
				if tm.inDiametral(u, w, p) {
					return true
				}
				continue
			}
			n, _ := tm.holder(w, u)
			if seen[n] {
				continue
			}
			nv := tm.Tris[n].Verts
			a, b, c := tm.Points[nv[0]], tm.Points[nv[1]], tm.Points[nv[2]]
			if inCircle(a, b, c, p) > inCircleTol(a, b, c, p) {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return false
}

/*
splitAtCircumcenter inserts the circumcenter of region triangle k. The point
is refused when it cannot be reached from k inside the region, lands on a
vertex or a barrier edge, or encroaches a barrier edge, which keeps every rim
and constrained edge whole.
*/
func (tm *TriMesh) splitAtCircumcenter(k, maxVertices int) (inserted bool, err error) {
	if !tm.Tris[k].alive || !tm.Tris[k].interior {
		return
	}
	c, R := tm.circumcircle(k)
	if !(R < math.Inf(1)) {
		return
	}
	at, loc, idx, ok := tm.walkTo(k, c)
	if !ok || loc == locOnVertex {
		return
	}
	if loc == locOnEdge {
		tri := tm.Tris[at]
		if tm.isBarrier(tri.Verts[idx], tri.Verts[(idx+1)%3]) {
			return
		}
	}
	if tm.encroaches(at, c) {
		return
	}
	if tm.outputVertices() >= maxVertices {
		return false, errors.Wrapf(ErrResourceFailure, "vertex budget of %d exhausted during refinement", maxVertices)
	}
	err = tm.place(tm.AddPoint(c), at, loc, idx)
	return err == nil, err
}

/*
Refine splits region triangles at their circumcenter, largest first, until
every triangle either fits the size field or cannot be split. A triangle is
too large when its circumradius exceeds splitRadius h at its centroid, and
skinny when its smallest angle is under qualityAngle. A live triangle never
changes, so one found acceptable or refused a point is not looked at again.
*/
func (tm *TriMesh) Refine(sf *sizeField, maxVertices int) (inserted int, err error) {
	settled := make(map[int]bool)
	for pass := 0; pass < maxRefinePasses; pass++ {
		var cands []splitCandidate
		for _, k := range tm.interiorTris() {
			if settled[k] {
				continue
			}
			_, R := tm.circumcircle(k)
			tooLarge := R > splitRadius*sf.At(tm.centroid(k))
			skinny := R >= sf.floor && tm.minAngle(k) < qualityAngle
			if !tooLarge && !skinny {
				settled[k] = true
				continue
			}
			cands = append(cands, splitCandidate{k: k, size: R})
		}
		if len(cands) == 0 {
			tm.log.Debugf("refinement settled after %d passes, %d points inserted", pass, inserted)
			return
		}
		sortCandidates(cands)
		var ok bool
		for _, c := range cands {
			if ok, err = tm.splitAtCircumcenter(c.k, maxVertices); err != nil {
				return
			}
			if ok {
				inserted++
			} else {
				settled[c.k] = true
			}
		}
	}
	err = errors.Wrapf(ErrConvergenceFailure, "refinement did not settle in %d passes", maxRefinePasses)
	return
}

// star lists the triangles around v counter-clockwise with the link vertex
// each one starts from, so triangle i is v, link[i], link[i+1]. closed is
// false when v is on the rim of the mesh.
func (tm *TriMesh) star(v int) (tris, link []int, closed bool) {
	start := tm.triAround(v)
	k := start
	for i := 0; i <= len(tm.Tris); i++ {
		verts := tm.Tris[k].rotated(v)
		tris = append(tris, k)
		link = append(link, verts[1])
		next, ok := tm.holder(v, verts[2])
		if !ok {
			return nil, nil, false
		}
		if next == start {
			return tris, link, true
		}
		k = next
	}
	return nil, nil, false
}

// smoothVertex moves inserted vertex v to the mean of its neighbours when that
// raises the smallest angle around it and keeps it off every barrier edge.
func (tm *TriMesh) smoothVertex(v int) (moved bool, err error) {
	tris, link, closed := tm.star(v)
	if !closed {
		return
	}
	var (
		sum    r2.Vec
		before = 180.
		after  = 180.
		n      = len(link)
	)
	for i, k := range tris {
		if !tm.Tris[k].interior || tm.IsFixed(v, link[i]) {
			return
		}
		before = math.Min(before, tm.minAngle(k))
		sum = r2.Add(sum, tm.Points[link[i]])
	}
	p := r2.Scale(1/float64(n), sum)
	for i := range tris {
		u, w := link[i], link[(i+1)%n]
		pu, pw := tm.Points[u], tm.Points[w]
		if lineDistance(pu, pw, p) <= tm.tol {
			return
		}
		if tm.isBarrier(u, w) && tm.inDiametral(u, w, p) {
			return
		}
		after = math.Min(after, minAngle(p, pu, pw))
	}
	if after <= before {
		return
	}
	tm.Points[v] = p
	stack := make([][2]int, 0, 2*n)
	for i := range link {
		stack = append(stack, [2]int{v, link[i]}, [2]int{link[i], link[(i+1)%n]})
	}
	return true, tm.legalize(stack)
}

// Smooth relaxes the inserted vertices for a few sweeps, stopping early once a
// sweep moves nothing. Input vertices never move.
func (tm *TriMesh) Smooth(sweeps int) (moved int, err error) {
	for sweep := 0; sweep < sweeps; sweep++ {
		var count int
		for v := tm.super[2] + 1; v < len(tm.Points); v++ {
			var ok bool
			if ok, err = tm.smoothVertex(v); err != nil {
				return
			}
			if ok {
				count++
			}
		}
		moved += count
		if count == 0 {
			break
		}
	}
	return
}

/*
Grade splits the larger of two neighbouring region triangles whose sizes
differ by more than ratio, as long as the larger one is still above the size
field. It stops once no such pair is left. Pairs where no point may be added,
next to a rim edge that is kept whole or already at the local size, are
reported and accepted.
*/
func (tm *TriMesh) Grade(sf *sizeField, ratio float64, maxVertices int) (inserted int, err error) {
	refused := make(map[int]bool)
	for pass := 0; pass < maxGradePasses; pass++ {
		var (
			cands  []splitCandidate
			queued = make(map[int]bool)
			pairs  int
		)
		for _, k := range tm.interiorTris() {
			tri := tm.Tris[k]
			for i := 0; i < 3; i++ {
				n, ok := tm.holder(tri.Verts[(i+1)%3], tri.Verts[i])
				if !ok || n < k || !tm.Tris[n].interior {
					continue
				}
				big, small := k, n
				if tm.size(n) > tm.size(k) {
					big, small = n, k
				}
				sizeBig := tm.size(big)
				if sizeBig <= ratio*tm.size(small) {
					continue
				}
				pairs++
				if refused[big] || queued[big] || sizeBig <= sf.At(tm.centroid(big)) {
					continue
				}
				queued[big] = true
				cands = append(cands, splitCandidate{k: big, size: sizeBig})
			}
		}
		if len(cands) == 0 {
			if pairs > 0 {
				tm.log.Warnf("%d neighbouring triangle pairs exceed gradation %g where no point can be added",
					pairs, ratio)
			}
			return
		}
		sortCandidates(cands)
		var ok bool
		for _, c := range cands {
			if ok, err = tm.splitAtCircumcenter(c.k, maxVertices); err != nil {
				return
			}
			if ok {
				inserted++
			} else {
				refused[c.k] = true
			}
		}
	}
	err = errors.Wrapf(ErrConvergenceFailure, "gradation %g not reached in %d passes", ratio, maxGradePasses)
	return
}
