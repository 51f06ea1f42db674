package utils

import (
	"fmt"
	"math"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	if size <= 0 {
		return Index{}
	}
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func NewFromFloat(IF []float64) (r Index) {
	r = make(Index, len(IF))
	for i, val := range IF {
		r[i] = int(val)
	}
	return
}

// NewFromIntegral is NewFromFloat that refuses values carrying a fraction,
// which is how a connectivity table with garbage in it is detected.
func NewFromIntegral(IF []float64) (r Index, err error) {
	r = make(Index, len(IF))
	for i, val := range IF {
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
			err = fmt.Errorf("value %v at position %d is not an integer", val, i)
			return
		}
		r[i] = int(val)
	}
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

func (I Index) AddInPlace(val int) (r Index) {
	for i := range I {
		I[i] += val
	}
	return I
}

func (I Index) ToFloat() (F []float64) {
	F = make([]float64, len(I))
	for i, val := range I {
		F[i] = float64(val)
	}
	return
}
