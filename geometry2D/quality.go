package geometry2D

import (
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
)

type MeshQuality struct {
	Triangles     int
	Area          float64
	MinAngle      float64 // degrees
	MaxSizeRatio  float64 // equivalent side ratio over neighbouring triangles
	BoundaryEdges int
}

// Neighbours lists each pair of triangles sharing an edge once, i < j.
func (r *Result) Neighbours() (pairs [][2]int) {
	K := r.NumTris()
	if K == 0 {
		return
	}
	SpEToV_Tmp := sparse.NewDOK(K, r.NumVerts())
	for k := 0; k < K; k++ {
		for _, v := range r.Triangle(k) {
			SpEToV_Tmp.Set(k, v, 1)
		}
	}
	SpEToE := sparse.NewCSR(K, K, nil, nil, nil)
	SpEToV := SpEToV_Tmp.ToCSR()
	SpEToE.Mul(SpEToV, SpEToV.T())
	// Two shared vertices make an edge neighbour
	SpEToE.DoNonZero(func(i, j int, v float64) {
		if i < j && v == 2 {
			pairs = append(pairs, [2]int{i, j})
		}
	})
	return
}

func (r *Result) Quality() (q MeshQuality) {
	q.Triangles = r.NumTris()
	if q.Triangles == 0 {
		return
	}
	var (
		areas = make([]float64, q.Triangles)
		sizes = make([]float64, q.Triangles)
	)
	q.MinAngle = 180
	for k := range areas {
		tri := r.Triangle(k)
		a, b, c := r.Vertex(tri[0]), r.Vertex(tri[1]), r.Vertex(tri[2])
		areas[k] = triangleArea(a, b, c)
		sizes[k] = equivalentSide(areas[k])
		q.MinAngle = math.Min(q.MinAngle, minAngle(a, b, c))
	}
	q.Area = floats.Sum(areas)
	pairs := r.Neighbours()
	q.MaxSizeRatio = 1
	for _, p := range pairs {
		s1, s2 := sizes[p[0]], sizes[p[1]]
		q.MaxSizeRatio = math.Max(q.MaxSizeRatio, math.Max(s1, s2)/math.Min(s1, s2))
	}
	q.BoundaryEdges = 3*q.Triangles - 2*len(pairs)
	return
}
