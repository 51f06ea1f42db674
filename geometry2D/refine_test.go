package geometry2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSizeField(t *testing.T) {
	{
		cc, R := circumcircle(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 0, Y: 1})
		assert.InDelta(t, 0.5, cc.X, 1.e-15)
		assert.InDelta(t, 0.5, cc.Y, 1.e-15)
		assert.InDelta(t, math.Sqrt2/2, R, 1.e-15)
		_, R = circumcircle(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 2, Y: 0})
		assert.False(t, R < math.Inf(1))
	}
	{
		a, b := r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}
		assert.InDelta(t, 2., segmentDistance(a, b, r2.Vec{X: 0.5, Y: 2}), 1.e-15)
		assert.InDelta(t, 5., segmentDistance(a, b, r2.Vec{X: 4, Y: 4}), 1.e-15)
		assert.InDelta(t, 1., segmentDistance(a, a, r2.Vec{X: 0, Y: 1}), 1.e-15)
	}
	{ // A long rim edge holds the size up close to it, the target wins far away
		sf := &sizeField{
			at:      []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}},
			spacing: []float64{0.1, 0.1},
			rim:     [][2]r2.Vec{{{X: 0, Y: 0}, {X: 1, Y: 0}}},
			target:  0.1,
			grade:   1.3,
		}
		assert.InDelta(t, 1., sf.At(r2.Vec{X: 0.5, Y: 0}), 1.e-12)
		assert.InDelta(t, 0.4, sf.At(r2.Vec{X: 0.5, Y: 2}), 1.e-12)
		assert.InDelta(t, 0.1, sf.At(r2.Vec{X: 0.5, Y: 5}), 1.e-12)
		// Without a target the size grows from the rim vertices
		sf.target = 0
		assert.InDelta(t, 0.1+0.3*5, sf.At(r2.Vec{X: 0, Y: 5}), 1.e-12)
	}
}

// newRegionSquare is the unit square with its four sides constrained.
func newRegionSquare(t *testing.T) (tm *TriMesh) {
	tm = newSquareMesh()
	for v := 0; v < 4; v++ {
		_, err := tm.InsertVertex(v)
		require.NoError(t, err)
	}
	for _, e := range [][2]int{{0, 1}, {1, 3}, {3, 2}, {2, 0}} {
		require.NoError(t, tm.RecoverEdge(e[0], e[1]))
	}
	require.Equal(t, 2, tm.MarkInterior(true))
	return
}

func TestCircumcenterInsertion(t *testing.T) {
	{ // Walking stays inside the region
		tm := newRegionSquare(t)
		k := tm.interiorTris()[0]
		at, loc, _, ok := tm.walkTo(k, r2.Vec{X: 0.9, Y: 0.8})
		require.True(t, ok)
		assert.Equal(t, locInside, loc)
		assert.True(t, tm.contains(at, r2.Vec{X: 0.9, Y: 0.8}))
		_, _, _, ok = tm.walkTo(k, r2.Vec{X: 2, Y: 0.5})
		assert.False(t, ok)
		_, _, _, ok = tm.walkTo(k, r2.Vec{X: 0.5, Y: -1})
		assert.False(t, ok)
	}
	{ // Points close to a side fall in its diametral circle
		tm := newRegionSquare(t)
		p := r2.Vec{X: 0.5, Y: 0.05}
		at, _, _, ok := tm.walkTo(tm.interiorTris()[0], p)
		require.True(t, ok)
		assert.True(t, tm.encroaches(at, p))
		p = r2.Vec{X: 0.5, Y: 0.5}
		at, _, _, ok = tm.walkTo(tm.interiorTris()[0], p)
		require.True(t, ok)
		assert.False(t, tm.encroaches(at, p))
		assert.True(t, tm.isBarrier(0, 1))
		assert.True(t, tm.isBarrier(1, 0))
	}
	{ // The circumcenter of a half square is the middle of the diagonal
		tm := newRegionSquare(t)
		inserted, err := tm.splitAtCircumcenter(tm.interiorTris()[0], 100)
		require.NoError(t, err)
		require.True(t, inserted)
		assert.Equal(t, 4, len(tm.interiorTris()))
		checkTriMesh(t, tm)
		v := len(tm.Points) - 1
		assert.InDelta(t, 0.5, tm.Points[v].X, 1.e-15)
		assert.InDelta(t, 0.5, tm.Points[v].Y, 1.e-15)

		tris, link, closed := tm.star(v)
		require.True(t, closed)
		assert.Equal(t, 4, len(tris))
		assert.ElementsMatch(t, []int{0, 1, 2, 3}, link)
		// Corners keep their place
		ok, err := tm.smoothVertex(0)
		require.NoError(t, err)
		assert.False(t, ok)

		// A displaced inserted vertex relaxes back to the middle
		tm.Points[v] = r2.Vec{X: 0.6, Y: 0.55}
		moved, err := tm.Smooth(smoothSweeps)
		require.NoError(t, err)
		assert.Greater(t, moved, 0)
		assert.InDelta(t, 0.5, tm.Points[v].X, 1.e-12)
		assert.InDelta(t, 0.5, tm.Points[v].Y, 1.e-12)
		checkTriMesh(t, tm)
		moved, err = tm.Smooth(smoothSweeps)
		require.NoError(t, err)
		assert.Equal(t, 0, moved)
	}
	{ // The vertex budget is checked before a point is added
		tm := newRegionSquare(t)
		_, err := tm.splitAtCircumcenter(tm.interiorTris()[0], 4)
		assert.Equal(t, KindResourceFailure, KindOf(err))
		assert.Equal(t, 7, len(tm.Points))
	}
	{ // Region edges of the square are its four sides, kept whole by refinement
		tm := newRegionSquare(t)
		rim := tm.RegionEdges()
		assert.Equal(t, 4, len(rim))
		sf := tm.newSizeField(rim, []int{0, 1, 2, 3}, 0.1, DefaultGradation)
		assert.InDelta(t, 0.025, sf.floor, 1.e-15)
		_, err := tm.Refine(sf, 1000)
		require.NoError(t, err)
		checkTriMesh(t, tm)
		for _, e := range rim {
			assert.True(t, tm.IsFixed(e[0], e[1]))
		}
	}
}
