package geometry2D

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gomesh2d/types"
	"github.com/notargets/gomesh2d/utils"
)

/*
Result is a finished mesh. The first N rows of V2 are the caller's vertices in
their original order, including any that were merged into another; inserted
points follow. F2 holds one counter-clockwise triangle per row, as float valued
0-based indices into V2.
*/
type Result struct {
	V2, F2  utils.Matrix
	Corners []int       // hard corner vertices, ascending
	Steiner int         // inserted points
	Merged  map[int]int // vertex -> the vertex that replaced it
}

func (r *Result) NumVerts() (n int) {
	n, _ = r.V2.Dims()
	return
}

func (r *Result) NumTris() (n int) {
	n, _ = r.F2.Dims()
	return
}

func (r *Result) Vertex(i int) r2.Vec {
	return r2.Vec{X: r.V2.At(i, 0), Y: r.V2.At(i, 1)}
}

func (r *Result) Triangle(k int) (tri [3]int) {
	for i := 0; i < 3; i++ {
		tri[i] = int(r.F2.At(k, i))
	}
	return
}

// Edges counts the triangles on each edge of the mesh; rim edges count one.
func (r *Result) Edges() (edges map[types.EdgeKey]int) {
	edges = make(map[types.EdgeKey]int, 3*r.NumTris())
	for k := 0; k < r.NumTris(); k++ {
		tri := r.Triangle(k)
		for i := 0; i < 3; i++ {
			edges[types.NewEdgeKey([2]int{tri[i], tri[(i+1)%3]})]++
		}
	}
	return
}

// BoundaryEdges returns the rim of the mesh as an M x 2 table, in triangle
// order and oriented with the region on the left.
func (r *Result) BoundaryEdges() utils.Matrix {
	var (
		count = r.Edges()
		rows  [][]int
	)
	for k := 0; k < r.NumTris(); k++ {
		tri := r.Triangle(k)
		for i := 0; i < 3; i++ {
			u, w := tri[i], tri[(i+1)%3]
			if count[types.NewEdgeKey([2]int{u, w})] == 1 {
				rows = append(rows, []int{u, w})
			}
		}
	}
	return utils.NewMatrixFromRows(2, rows...)
}

func (r *Result) HasEdge(a, b int) bool {
	for k := 0; k < r.NumTris(); k++ {
		tri := r.Triangle(k)
		for i := 0; i < 3; i++ {
			u, w := tri[i], tri[(i+1)%3]
			if (u == a && w == b) || (u == b && w == a) {
				return true
			}
		}
	}
	return false
}

func (tm *TriMesh) interiorTris() (I []int) {
	for k, tri := range tm.Tris {
		if tri.alive && tri.interior {
			I = append(I, k)
		}
	}
	return
}

// extract numbers the vertices for the caller: input vertices keep their
// index, the enclosing triangle's three are dropped and inserted points close
// the gap.
func (s *Session) extract() (res *Result, err error) {
	var (
		im, tm  = s.mesh, s.tm
		N       = im.N()
		steiner = len(tm.Points) - N - 3
		N2      = N + steiner
		tris    = tm.interiorTris()
		vdata   = make([]float64, 2*N2)
		fdata   = make([]float64, 3*len(tris))
	)
	renumber := func(v int) int {
		switch {
		case v < N:
			return v
		case v >= N+3:
			return v - 3
		}
		fatalf(ErrConvergenceFailure, "enclosing vertex %d reached the region", v)
		return -1
	}
	for i, pt := range tm.Points {
		if i >= N && i < N+3 {
			continue
		}
		j := renumber(i)
		vdata[2*j], vdata[2*j+1] = pt.X, pt.Y
	}
	for j, k := range tris {
		verts := tm.Tris[k].Verts
		if orient(tm.Points[verts[0]], tm.Points[verts[1]], tm.Points[verts[2]]) <= 0 {
			return nil, errors.Wrapf(ErrConvergenceFailure, "triangle %v is inverted or flat", verts)
		}
		for i, v := range verts {
			fdata[3*j+i] = float64(renumber(v))
		}
	}
	res = &Result{
		V2:      utils.NewMatrix(N2, 2, vdata),
		F2:      utils.NewMatrix(len(tris), 3, fdata),
		Steiner: steiner,
		Merged:  im.Merged(),
	}
	for _, v := range s.corners {
		res.Corners = append(res.Corners, renumber(v))
	}
	return
}
