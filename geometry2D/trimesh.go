package geometry2D

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gomesh2d/types"
)

// Tri is a counter-clockwise triangle of the working mesh. Dead triangles stay
// in TriMesh.Tris so that indices held by the caller never shift.
type Tri struct {
	Verts    [3]int
	alive    bool
	interior bool
}

// opposite is the vertex of the triangle that is not on edge a-b.
func (tri Tri) opposite(a, b int) int {
	for _, v := range tri.Verts {
		if v != a && v != b {
			return v
		}
	}
	fatalf(ErrConvergenceFailure, "triangle %v is degenerate on edge %d-%d", tri.Verts, a, b)
	return -1
}

// rotated returns the vertices starting at v, keeping the winding.
func (tri Tri) rotated(v int) (verts [3]int) {
	for i := 0; i < 3; i++ {
		if tri.Verts[i] == v {
			return [3]int{tri.Verts[i], tri.Verts[(i+1)%3], tri.Verts[(i+2)%3]}
		}
	}
	fatalf(ErrConvergenceFailure, "vertex %d is not on triangle %v", v, tri.Verts)
	return
}

/*
TriMesh is the working triangulation of one session. Adjacency is kept as a
map from each directed edge to the triangle that holds it in counter-clockwise
order, so the neighbour across edge a->b is the holder of b->a. Maps are only
ever used for lookup, never ranged over, which keeps the output independent of
map ordering.
*/
type TriMesh struct {
	Points   []r2.Vec
	Tris     []Tri
	owner    map[types.EdgeInt]int
	fixed    map[types.EdgeKey]bool
	vtri     []int
	last     int
	tol      float64
	flips    int
	maxFlips int
	log      *zap.SugaredLogger
	super    [3]int
}

func NewTriMesh(capacity int, tol float64) (tm *TriMesh) {
	tm = &TriMesh{
		Points:   make([]r2.Vec, 0, capacity),
		Tris:     make([]Tri, 0, 2*capacity),
		owner:    make(map[types.EdgeInt]int, 6*capacity),
		fixed:    make(map[types.EdgeKey]bool),
		vtri:     make([]int, 0, capacity),
		last:     -1,
		tol:      tol,
		maxFlips: 1 << 20,
		log:      zap.NewNop().Sugar(),
	}
	if capacity > 1<<10 {
		tm.maxFlips = 1024 * capacity
	}
	return
}

// Enclose adds the three vertices of a triangle that holds box well inside it.
// Every later point must fall within the box.
func (tm *TriMesh) Enclose(box *BoundingBox) {
	var (
		c = box.Centroid()
		L = 50 * box.Extent()
	)
	if L == 0 {
		L = 50
	}
	tm.super[0] = tm.AddPoint(r2.Vec{X: c.X - L, Y: c.Y - L})
	tm.super[1] = tm.AddPoint(r2.Vec{X: c.X + L, Y: c.Y - L})
	tm.super[2] = tm.AddPoint(r2.Vec{X: c.X, Y: c.Y + L})
	tm.AddTri(tm.super[0], tm.super[1], tm.super[2], false)
}

func (tm *TriMesh) isSuper(v int) bool {
	return v == tm.super[0] || v == tm.super[1] || v == tm.super[2]
}

func (tm *TriMesh) touchesSuper(k int) bool {
	for _, v := range tm.Tris[k].Verts {
		if tm.isSuper(v) {
			return true
		}
	}
	return false
}

func (tm *TriMesh) AddPoint(p r2.Vec) (v int) {
	v = len(tm.Points)
	tm.Points = append(tm.Points, p)
	tm.vtri = append(tm.vtri, -1)
	return
}

func (tm *TriMesh) AddTri(a, b, c int, interior bool) (k int) {
	k = len(tm.Tris)
	tm.Tris = append(tm.Tris, Tri{Verts: [3]int{a, b, c}, alive: true, interior: interior})
	tm.owner[types.NewEdgeInt([2]int{a, b})] = k
	tm.owner[types.NewEdgeInt([2]int{b, c})] = k
	tm.owner[types.NewEdgeInt([2]int{c, a})] = k
	tm.vtri[a], tm.vtri[b], tm.vtri[c] = k, k, k
	tm.last = k
	return
}

func (tm *TriMesh) removeTri(k int) {
	tri := &tm.Tris[k]
	tri.alive = false
	for i := 0; i < 3; i++ {
		key := types.NewEdgeInt([2]int{tri.Verts[i], tri.Verts[(i+1)%3]})
		if tm.owner[key] == k {
			delete(tm.owner, key)
		}
	}
}

// triAround returns a live triangle incident to v.
func (tm *TriMesh) triAround(v int) (k int) {
	if k = tm.vtri[v]; k >= 0 && tm.Tris[k].alive {
		return
	}
	for k = len(tm.Tris) - 1; k >= 0; k-- {
		tri := tm.Tris[k]
		if tri.alive && (tri.Verts[0] == v || tri.Verts[1] == v || tri.Verts[2] == v) {
			tm.vtri[v] = k
			return
		}
	}
	fatalf(ErrConvergenceFailure, "vertex %d has no triangle", v)
	return
}

// holder returns the live triangle holding directed edge a->b.
func (tm *TriMesh) holder(a, b int) (k int, ok bool) {
	k, ok = tm.owner[types.NewEdgeInt([2]int{a, b})]
	return
}

func (tm *TriMesh) HasEdge(a, b int) bool {
	e := types.NewEdgeInt([2]int{a, b})
	if _, ok := tm.owner[e]; ok {
		return true
	}
	_, ok := tm.owner[e.Reverse()]
	return ok
}

func (tm *TriMesh) IsFixed(a, b int) bool {
	return tm.fixed[types.NewEdgeKey([2]int{a, b})]
}

func (tm *TriMesh) fix(a, b int) {
	tm.fixed[types.NewEdgeKey([2]int{a, b})] = true
}

func (tm *TriMesh) unfix(a, b int) {
	delete(tm.fixed, types.NewEdgeKey([2]int{a, b}))
}

type location uint8

const (
	locOutside location = iota
	locInside
	locOnEdge
	locOnVertex
)

// classifyIn reports where p sits relative to triangle k, which must contain
// it. For locOnEdge idx is the edge number i (Verts[i]->Verts[i+1]), for
// locOnVertex it is the vertex.
func (tm *TriMesh) classifyIn(k int, p r2.Vec) (loc location, idx int) {
	tri := tm.Tris[k]
	for _, v := range tri.Verts {
		if dist(tm.Points[v], p) <= tm.tol {
			return locOnVertex, v
		}
	}
	for i := 0; i < 3; i++ {
		a, b := tm.Points[tri.Verts[i]], tm.Points[tri.Verts[(i+1)%3]]
		d := lineDistance(a, b, p)
		if d <= tm.tol && d >= -tm.tol {
			return locOnEdge, i
		}
	}
	return locInside, -1
}

func (tm *TriMesh) contains(k int, p r2.Vec) bool {
	tri := tm.Tris[k]
	for i := 0; i < 3; i++ {
		a, b := tm.Points[tri.Verts[i]], tm.Points[tri.Verts[(i+1)%3]]
		if lineDistance(a, b, p) < -tm.tol {
			return false
		}
	}
	return true
}

// Locate walks from the most recent triangle towards p. The walk cannot
// cycle on a Delaunay mesh, but a constrained one can trap it, so after a
// bounded number of steps it falls back to a scan in triangle order.
func (tm *TriMesh) Locate(p r2.Vec) (k int, loc location, idx int) {
	k = tm.last
	if k < 0 || !tm.Tris[k].alive {
		for k = len(tm.Tris) - 1; k >= 0 && !tm.Tris[k].alive; k-- {
		}
		if k < 0 {
			return -1, locOutside, -1
		}
	}
	limit := 2*len(tm.Tris) + 8
	for step := 0; step < limit; step++ {
		var (
			tri   = tm.Tris[k]
			moved bool
		)
		for i := 0; i < 3; i++ {
			va, vb := tri.Verts[i], tri.Verts[(i+1)%3]
			if lineDistance(tm.Points[va], tm.Points[vb], p) < -tm.tol {
				nb, ok := tm.holder(vb, va)
				if !ok {
					return -1, locOutside, -1
				}
				k, moved = nb, true
				break
			}
		}
		if !moved {
			loc, idx = tm.classifyIn(k, p)
			return
		}
	}
	for k = range tm.Tris {
		if tm.Tris[k].alive && tm.contains(k, p) {
			loc, idx = tm.classifyIn(k, p)
			return
		}
	}
	return -1, locOutside, -1
}

// InsertPoint adds p to the mesh and restores the Delaunay property around
// it. A point within tolerance of an existing vertex is not added; that
// vertex is returned with inserted false. Unless splitFixed is set, a point
// landing on a constrained edge is refused the same way with v = -1.
func (tm *TriMesh) InsertPoint(p r2.Vec, splitFixed bool) (v int, inserted bool, err error) {
	k, loc, idx := tm.Locate(p)
	switch loc {
	case locOutside:
		err = errors.Wrapf(ErrConvergenceFailure, "point (%g,%g) lies outside the triangulation", p.X, p.Y)
		return -1, false, err
	case locOnVertex:
		return idx, false, nil
	case locOnEdge:
		tri := tm.Tris[k]
		if !splitFixed && tm.IsFixed(tri.Verts[idx], tri.Verts[(idx+1)%3]) {
			return -1, false, nil
		}
	}
	v = tm.AddPoint(p)
	err = tm.place(v, k, loc, idx)
	return v, err == nil, err
}

// InsertVertex triangulates a point already stored at index v. When another
// vertex sits at the same place that vertex is returned instead and v is left
// out of the mesh.
func (tm *TriMesh) InsertVertex(v int) (at int, err error) {
	k, loc, idx := tm.Locate(tm.Points[v])
	switch loc {
	case locOutside:
		return -1, errors.Wrapf(ErrConvergenceFailure, "vertex %d lies outside the triangulation", v)
	case locOnVertex:
		return idx, nil
	}
	return v, tm.place(v, k, loc, idx)
}

func (tm *TriMesh) place(v, k int, loc location, idx int) (err error) {
	tri := tm.Tris[k]
	if loc == locOnEdge {
		return tm.splitEdge(tri.Verts[idx], tri.Verts[(idx+1)%3], v)
	}
	a, b, c := tri.Verts[0], tri.Verts[1], tri.Verts[2]
	tm.removeTri(k)
	tm.AddTri(a, b, v, tri.interior)
	tm.AddTri(b, c, v, tri.interior)
	tm.AddTri(c, a, v, tri.interior)
	return tm.legalize([][2]int{{a, b}, {b, c}, {c, a}})
}

// splitEdge puts vertex v, which must lie on edge a-b, into the mesh by
// splitting the one or two triangles sharing the edge. A constrained edge
// stays constrained as two halves.
func (tm *TriMesh) splitEdge(a, b, v int) (err error) {
	var (
		k, okK = tm.holder(a, b)
		n, okN = tm.holder(b, a)
		stack  [][2]int
	)
	if !okK {
		k, n, okK, okN = n, -1, okN, false
		a, b = b, a
	}
	if !okK {
		return errors.Wrapf(ErrConvergenceFailure, "edge %d-%d is not in the mesh", a, b)
	}
	triK := tm.Tris[k]
	c := triK.opposite(a, b)
	tm.removeTri(k)
	tm.AddTri(a, v, c, triK.interior)
	tm.AddTri(v, b, c, triK.interior)
	stack = append(stack, [2]int{b, c}, [2]int{c, a})
	if okN {
		triN := tm.Tris[n]
		d := triN.opposite(a, b)
		tm.removeTri(n)
		tm.AddTri(b, v, d, triN.interior)
		tm.AddTri(v, a, d, triN.interior)
		stack = append(stack, [2]int{a, d}, [2]int{d, b})
	}
	if tm.IsFixed(a, b) {
		tm.unfix(a, b)
		tm.fix(a, v)
		tm.fix(v, b)
	}
	return tm.legalize(stack)
}

// legalize is Lawson's flip loop. Each entry is an edge to test; edges are
// looked up in both directions since earlier flips may have removed either
// side. Constrained edges and edges on the rim of the region are never
// flipped.
func (tm *TriMesh) legalize(stack [][2]int) (err error) {
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a, b := e[0], e[1]
		k, ok := tm.holder(a, b)
		if !ok {
			if k, ok = tm.holder(b, a); !ok {
				continue
			}
			a, b = b, a
		}
		n, ok := tm.holder(b, a)
		if !ok || tm.IsFixed(a, b) || tm.Tris[k].interior != tm.Tris[n].interior {
			continue
		}
		var (
			c              = tm.Tris[k].opposite(a, b)
			d              = tm.Tris[n].opposite(a, b)
			pa, pb, pc, pd = tm.Points[a], tm.Points[b], tm.Points[c], tm.Points[d]
		)
		if inCircle(pa, pb, pc, pd) <= inCircleTol(pa, pb, pc, pd) {
			continue
		}
		// The flipped pair must both stay counter-clockwise
		if orient(pa, pd, pc) <= 0 || orient(pd, pb, pc) <= 0 {
			continue
		}
		if err = tm.flip(k, n, a, b, c, d); err != nil {
			return
		}
		stack = append(stack, [2]int{a, d}, [2]int{d, b}, [2]int{b, c}, [2]int{c, a})
	}
	return
}

// flip replaces triangles a,b,c (k) and b,a,d (n) by a,d,c and d,b,c.
func (tm *TriMesh) flip(k, n, a, b, c, d int) (err error) {
	tm.flips++
	if tm.flips > tm.maxFlips {
		return errors.Wrapf(ErrConvergenceFailure, "edge flip budget of %d exhausted", tm.maxFlips)
	}
	interior := tm.Tris[k].interior
	tm.removeTri(k)
	tm.removeTri(n)
	tm.AddTri(a, d, c, interior)
	tm.AddTri(d, b, c, interior)
	return
}

// LiveTris returns the indices of live triangles in creation order.
func (tm *TriMesh) LiveTris() (I []int) {
	for k, tri := range tm.Tris {
		if tri.alive {
			I = append(I, k)
		}
	}
	return
}
