package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Empty matrices are valid and report zero dimensions
	{
		var M Matrix
		nr, nc := M.Dims()
		assert.Equal(t, 0, nr)
		assert.Equal(t, 0, nc)
		assert.True(t, M.IsEmpty())
		assert.True(t, NewMatrix(0, 2).IsEmpty())
		assert.Nil(t, M.Data())
	}
	// Rows of integral tables
	{
		F := NewMatrixFromRows(3, []int{0, 1, 2}, []int{2, 3, 0})
		nr, nc := F.Dims()
		assert.Equal(t, 2, nr)
		assert.Equal(t, 3, nc)
		assert.Equal(t, Index{2, 3, 0}, F.IndexRow(1))
	}
	// Read only matrices refuse writes
	{
		M := NewMatrix(1, 2, []float64{1, 2})
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 3) })
		assert.Panics(t, func() { M.SetRow(0, []float64{3, 4}) })
		// A copy of the header made before SetReadOnly stays writable
		C := NewMatrix(1, 2, []float64{1, 2})
		D := C
		C.SetReadOnly("C")
		assert.NotPanics(t, func() { D.Set(0, 0, 3) })
		assert.Equal(t, 3., C.At(0, 0))
	}
}

func TestIndex(t *testing.T) {
	{ // Inclusive ranges
		assert.Equal(t, Index{1, 2, 3}, NewRange(1, 3))
		assert.Equal(t, Index{}, NewRange(3, 2))
	}
	{
		I, err := NewFromIntegral([]float64{1, 2, 3})
		assert.NoError(t, err)
		assert.Equal(t, Index{1, 2, 3}, I)
		_, err = NewFromIntegral([]float64{1, 2.5})
		assert.Error(t, err)
	}
	{
		I := Index{1, 2, 3}
		assert.Equal(t, Index{0, 1, 2}, I.Add(-1))
		assert.Equal(t, Index{1, 2, 3}, I)
		I.AddInPlace(1)
		assert.Equal(t, Index{2, 3, 4}, I)
		assert.Equal(t, []float64{2, 3, 4}, I.ToFloat())
	}
}
