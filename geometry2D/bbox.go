package geometry2D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(Geometry []r2.Vec) (Box *BoundingBox) {
	if len(Geometry) == 0 {
		return nil
	}
	Box = new(BoundingBox)
	Box.XMin[0], Box.XMin[1] = Geometry[0].X, Geometry[0].Y
	Box.XMax[0], Box.XMax[1] = Geometry[0].X, Geometry[0].Y
	for _, point := range Geometry {
		X := [2]float64{point.X, point.Y}
		for i := 0; i < 2; i++ {
			if X[i] < Box.XMin[i] {
				Box.XMin[i] = X[i]
			}
			if X[i] > Box.XMax[i] {
				Box.XMax[i] = X[i]
			}
		}
	}
	return Box
}

func (bb *BoundingBox) Centroid() (centroid r2.Vec) {
	return r2.Vec{
		X: 0.5 * (bb.XMax[0] + bb.XMin[0]),
		Y: 0.5 * (bb.XMax[1] + bb.XMin[1]),
	}
}

// Extent is the larger of the two side lengths.
func (bb *BoundingBox) Extent() float64 {
	return math.Max(bb.XMax[0]-bb.XMin[0], bb.XMax[1]-bb.XMin[1])
}

func (bb *BoundingBox) PointInside(point r2.Vec) (within bool) {
	X := [2]float64{point.X, point.Y}
	for ii := 0; ii < 2; ii++ {
		if X[ii] > bb.XMax[ii] || X[ii] < bb.XMin[ii] {
			return false
		}
	}
	return true
}
