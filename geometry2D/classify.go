package geometry2D

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// FixedEdges lists the constrained edges of the mesh, each once, in triangle
// order.
func (tm *TriMesh) FixedEdges() (edges [][2]int) {
	for k, tri := range tm.Tris {
		if !tri.alive {
			continue
		}
		for i := 0; i < 3; i++ {
			u, w := tri.Verts[i], tri.Verts[(i+1)%3]
			if !tm.IsFixed(u, w) {
				continue
			}
			if n, ok := tm.holder(w, u); ok && n < k {
				continue
			}
			edges = append(edges, [2]int{u, w})
		}
	}
	return
}

/*
MarkInterior flags the triangles that make up the meshed region and returns
how many there are.

Without constraints the region is the convex hull, every triangle that does
not use a vertex of the enclosing triangle. With constraints, the depth of a
triangle is the least number of constrained edges crossed on the way to it from
the enclosing triangle. Odd depth is inside, which handles nested loops and
islands inside holes without knowing the orientation of any loop.
*/
func (tm *TriMesh) MarkInterior(constrained bool) (count int) {
	if !constrained {
		for k := range tm.Tris {
			tri := &tm.Tris[k]
			tri.interior = tri.alive && !tm.touchesSuper(k)
			if tri.interior {
				count++
			}
		}
		return
	}
	var (
		depth    = make([]int, len(tm.Tris))
		frontier []int
	)
	for k := range depth {
		depth[k] = -1
		if tm.Tris[k].alive && tm.touchesSuper(k) {
			depth[k] = 0
			frontier = append(frontier, k)
		}
	}
	for level := 0; len(frontier) > 0; level++ {
		var next []int
		for i := 0; i < len(frontier); i++ {
			tri := tm.Tris[frontier[i]]
			for j := 0; j < 3; j++ {
				u, w := tri.Verts[j], tri.Verts[(j+1)%3]
				n, ok := tm.holder(w, u)
				if !ok || depth[n] >= 0 {
					continue
				}
				if tm.IsFixed(u, w) {
					next = append(next, n)
					continue
				}
				depth[n] = level
				frontier = append(frontier, n)
			}
		}
		frontier = frontier[:0]
		for _, n := range next {
			if depth[n] < 0 {
				depth[n] = level + 1
				frontier = append(frontier, n)
			}
		}
	}
	for k := range tm.Tris {
		tri := &tm.Tris[k]
		tri.interior = tri.alive && depth[k]%2 == 1
		if tri.interior {
			count++
		}
	}
	return
}

// CarveHoles removes from the region every triangle reachable from a hole
// point without crossing a constrained edge. Seeds outside the region are
// skipped. It returns the number of triangles removed.
func (tm *TriMesh) CarveHoles(holes []r2.Vec, box *BoundingBox) (carved int) {
	for i, h := range holes {
		k := -1
		if box.PointInside(h) {
			k, _, _ = tm.Locate(h)
		}
		if k < 0 || !tm.Tris[k].interior {
			tm.log.Warnf("hole point %d at (%g,%g) is not inside the meshed region, ignored", i, h.X, h.Y)
			continue
		}
		stack := []int{k}
		tm.Tris[k].interior = false
		for len(stack) > 0 {
			k = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			carved++
			tri := tm.Tris[k]
			for j := 0; j < 3; j++ {
				u, w := tri.Verts[j], tri.Verts[(j+1)%3]
				if tm.IsFixed(u, w) {
					continue
				}
				if n, ok := tm.holder(w, u); ok && tm.Tris[n].interior {
					tm.Tris[n].interior = false
					stack = append(stack, n)
				}
			}
		}
	}
	return
}

// boundaryGraph maps each constrained vertex to its constrained neighbours in
// edge order, along with the vertices sorted ascending.
func boundaryGraph(edges [][2]int) (adj map[int][]int, verts []int) {
	adj = make(map[int][]int)
	for _, e := range edges {
		for i := 0; i < 2; i++ {
			v, w := e[i], e[1-i]
			if _, ok := adj[v]; !ok {
				verts = append(verts, v)
			}
			adj[v] = append(adj[v], w)
		}
	}
	sort.Ints(verts)
	return
}

// Corners returns the hard corners of the constrained edge set: vertices where
// the boundary turns by at least angle degrees, plus every vertex that is not
// on exactly two constrained edges (open ends and junctions).
func (tm *TriMesh) Corners(edges [][2]int, angle float64) (corners []int) {
	adj, verts := boundaryGraph(edges)
	for _, v := range verts {
		nbrs := adj[v]
		if len(nbrs) != 2 {
			corners = append(corners, v)
			continue
		}
		if turningAngle(tm.Points[nbrs[0]], tm.Points[v], tm.Points[nbrs[1]]) >= angle {
			corners = append(corners, v)
		}
	}
	return
}
