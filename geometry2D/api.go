package geometry2D

import (
	"github.com/notargets/gomesh2d/utils"
)

// Triangulate meshes the region bounded by E over V, less the holes marked by
// H, in a session of its own. Failures wrap one of the Err* kinds.
func Triangulate(V, E, H utils.Matrix, opts Options) (res *Result, err error) {
	var s *Session
	if s, err = NewSession(opts); err != nil {
		return
	}
	return s.Triangulate(V, E, H)
}

// TriangulateOK is Triangulate reduced to a success flag. V2 and F2 are empty
// when ok is false.
func TriangulateOK(V, E, H utils.Matrix, opts Options) (ok bool, V2, F2 utils.Matrix) {
	res, err := Triangulate(V, E, H, opts)
	if err != nil {
		return false, utils.Matrix{}, utils.Matrix{}
	}
	return true, res.V2, res.F2
}

// TriangulateScaffold triangulates the polygon through exactly the given
// points, keeping every boundary vertex as a corner.
func TriangulateScaffold(V, E utils.Matrix) (res *Result, err error) {
	return Triangulate(V, E, utils.Matrix{}, ScaffoldOptions())
}

func Points(pts ...[2]float64) utils.Matrix {
	rows := make([][]float64, len(pts))
	for i := range pts {
		rows[i] = pts[i][:]
	}
	return utils.NewMatrixFromRows(2, rows...)
}

func Segments(edges ...[2]int) utils.Matrix {
	rows := make([][]int, len(edges))
	for i := range edges {
		rows[i] = edges[i][:]
	}
	return utils.NewMatrixFromRows(2, rows...)
}
