package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is the dense, row-major array used for every coordinate and
// connectivity table crossing a package boundary. A zero Matrix is a valid
// empty (0 x 0) array.
type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if nr == 0 || nc == 0 {
		// gonum refuses zero length dimensions
		return Matrix{name: "empty"}
	}
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		m,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// NewMatrixFromRows packs fixed width rows, e.g. [][2]float64 vertex pairs
// or [][3]int triangle tuples, into a Matrix.
func NewMatrixFromRows[T ~float64 | ~int](nc int, rows ...[]T) (R Matrix) {
	var (
		nr   = len(rows)
		data = make([]float64, nr*nc)
	)
	for i, row := range rows {
		if len(row) != nc {
			panic(fmt.Errorf("row %d has %d columns, expected %d", i, len(row), nc))
		}
		for j, val := range row {
			data[i*nc+j] = float64(val)
		}
	}
	return NewMatrix(nr, nc, data)
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int) {
	if m.M == nil {
		return 0, 0
	}
	return m.M.Dims()
}
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix       { return m.M.T() }

func (m Matrix) IsEmpty() bool {
	nr, _ := m.Dims()
	return nr == 0
}

func (m Matrix) Data() []float64 {
	if m.M == nil {
		return nil
	}
	return m.M.RawMatrix().Data
}

// Chainable methods (extended)
func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetRow(i, data)
	return m
}

// Row returns a view of row i, writes through the view change the receiver.
func (m Matrix) Row(i int) []float64 {
	return m.M.RawRowView(i)
}

// IndexRow reads row i of an integer valued table (edges, triangles).
func (m Matrix) IndexRow(i int) (I Index) {
	return NewFromFloat(m.Row(i))
}

func (m Matrix) String() string {
	if m.M == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", mat.Formatted(m.M, mat.Squeeze()))
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
