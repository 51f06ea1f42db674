package geometry2D

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gomesh2d/types"
	"github.com/notargets/gomesh2d/utils"
)

/*
InternalMesh is the validated geometry of one triangulation call. Vertex i of
the caller is vertex i here; there is no index offset anywhere in the engine.
Vertices that coincide with an earlier one keep their slot in Points but are
represented by Alias[i], the lowest index of their group.
*/
type InternalMesh struct {
	Points []r2.Vec
	Alias  []int
	Holes  []r2.Vec
	Box    *BoundingBox
	Tol    float64
	edges  [][2]int
}

func (im *InternalMesh) N() int { return len(im.Points) }

// Merged maps every aliased vertex to the vertex that stands for it.
func (im *InternalMesh) Merged() (merged map[int]int) {
	merged = make(map[int]int)
	for i, a := range im.Alias {
		if a != i {
			merged[i] = a
		}
	}
	return
}

func (im *InternalMesh) rep(i int) int {
	for im.Alias[i] != i {
		i = im.Alias[i]
	}
	return i
}

// Constraints are the input edges in input order on representative vertices,
// without repeats in either direction and without edges merged to a point.
func (im *InternalMesh) Constraints() (edges [][2]int, collapsed int) {
	seen := make(map[types.EdgeKey]bool, len(im.edges))
	for _, e := range im.edges {
		a, b := im.rep(e[0]), im.rep(e[1])
		if a == b {
			collapsed++
			continue
		}
		key := types.NewEdgeKey([2]int{a, b})
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, [2]int{a, b})
	}
	return
}

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

func readPoints(name string, M utils.Matrix) (pts []r2.Vec, err error) {
	if M.IsEmpty() {
		return
	}
	nr, nc := M.Dims()
	if nc != 2 {
		return nil, invalidf("%s must have 2 columns, has %d", name, nc)
	}
	pts = make([]r2.Vec, nr)
	for i := 0; i < nr; i++ {
		x, y := M.At(i, 0), M.At(i, 1)
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return nil, invalidf("%s row %d is not finite: (%v,%v)", name, i, x, y)
		}
		pts[i] = r2.Vec{X: x, Y: y}
	}
	return
}

func readEdges(E utils.Matrix, N int) (edges [][2]int, err error) {
	if E.IsEmpty() {
		return
	}
	nr, nc := E.Dims()
	if nc != 2 {
		return nil, invalidf("edges must have 2 columns, has %d", nc)
	}
	edges = make([][2]int, nr)
	for i := 0; i < nr; i++ {
		var I utils.Index
		if I, err = utils.NewFromIntegral(E.Row(i)); err != nil {
			return nil, invalidf("edge %d: %v", i, err)
		}
		for _, v := range I {
			if v < 0 || v >= N {
				return nil, invalidf("edge %d references vertex %d, have %d vertices", i, v, N)
			}
		}
		if I[0] == I[1] {
			return nil, invalidf("edge %d is a self edge on vertex %d", i, I[0])
		}
		edges[i] = [2]int{I[0], I[1]}
	}
	return
}

// Ingest validates the caller geometry and builds the engine representation.
func Ingest(V, E, H utils.Matrix, p Parameters) (im *InternalMesh, err error) {
	log := p.Logger()
	if V.IsEmpty() {
		return nil, invalidf("empty vertex set")
	}
	N, _ := V.Dims()
	if N > types.MaxEdgeVertex-3 || N > p.MaxVertices {
		return nil, errors.Wrapf(ErrResourceFailure, "%d vertices exceed the vertex budget", N)
	}
	im = &InternalMesh{}
	if im.Points, err = readPoints("vertices", V); err != nil {
		return nil, err
	}
	if im.edges, err = readEdges(E, N); err != nil {
		return nil, err
	}
	if len(im.edges) == 0 && p.RequireBoundary {
		return nil, invalidf("boundary edges are required")
	}
	if im.Holes, err = readPoints("holes", H); err != nil {
		return nil, err
	}
	im.Box = NewBoundingBox(im.Points)
	im.Tol = utils.NODETOL * im.Box.Extent()
	unique := im.merge()
	if unique < 3 {
		return nil, invalidf("need at least 3 distinct vertices, have %d", unique)
	}
	if im.collinear() {
		return nil, invalidf("all %d distinct vertices are collinear", unique)
	}
	if unique < N {
		log.Infof("merged %d coincident vertices", N-unique)
	}
	log.Debugf("ingested %d vertices, %d edges, %d holes", N, len(im.edges), len(im.Holes))
	return
}

// merge aliases vertices closer than Tol using a sweep along x, and returns
// the number of distinct vertices.
func (im *InternalMesh) merge() (unique int) {
	N := len(im.Points)
	im.Alias = utils.NewRange(0, N-1)
	order := utils.NewRange(0, N-1)
	sort.SliceStable(order, func(i, j int) bool {
		return im.Points[order[i]].X < im.Points[order[j]].X
	})
	var find func(i int) int
	find = func(i int) int {
		if im.Alias[i] != i {
			im.Alias[i] = find(im.Alias[i])
		}
		return im.Alias[i]
	}
	for ii, i := range order {
		for _, j := range order[ii+1:] {
			if im.Points[j].X-im.Points[i].X > im.Tol {
				break
			}
			if dist(im.Points[i], im.Points[j]) > im.Tol {
				continue
			}
			ri, rj := find(i), find(j)
			if ri > rj {
				ri, rj = rj, ri
			}
			im.Alias[rj] = ri
		}
	}
	for i := range im.Alias {
		if find(i) == i {
			unique++
		}
	}
	return
}

func (im *InternalMesh) collinear() bool {
	var (
		p0       = im.Points[0]
		p1       r2.Vec
		farthest float64
	)
	for i, p := range im.Points {
		if d := dist(p0, p); im.Alias[i] == i && d > farthest {
			farthest, p1 = d, p
		}
	}
	for i, p := range im.Points {
		if d := lineDistance(p0, p1, p); im.Alias[i] == i && math.Abs(d) > im.Tol {
			return false
		}
	}
	return true
}
