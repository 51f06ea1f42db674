package InputParameters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var squareWithHole = []byte(`
Title: "Square with a square hole"
Vertices:
  - [0, 0]
  - [4, 0]
  - [4, 4]
  - [0, 4]
  - [1, 1]
  - [3, 1]
  - [3, 3]
  - [1, 3]
Edges:
  - [0, 1]
  - [1, 2]
  - [2, 3]
  - [3, 0]
  - [4, 5]
  - [5, 6]
  - [6, 7]
  - [7, 4]
Holes:
  - [2, 2]
Options:
  AngleDetection: 30
  TargetEdgeLength: 0.5
  Verbosity: warn
`)

func TestMeshInput(t *testing.T) {
	{ // Parse a run description
		var mi MeshInput
		require.NoError(t, mi.Parse(squareWithHole))
		assert.Equal(t, "Square with a square hole", mi.Title)
		assert.Equal(t, 8, len(mi.Vertices))
		assert.Equal(t, [2]float64{3, 1}, mi.Vertices[5])
		assert.Equal(t, [2]int{7, 4}, mi.Edges[7])
		require.NotNil(t, mi.Options.AngleDetection)
		assert.Equal(t, 30., *mi.Options.AngleDetection)
		assert.Nil(t, mi.Options.NoInsert)
		assert.Equal(t, "warn", mi.Options.Verbosity)

		V, E, H := mi.Geometry()
		nr, nc := V.Dims()
		assert.Equal(t, 8, nr)
		assert.Equal(t, 2, nc)
		nr, _ = E.Dims()
		assert.Equal(t, 8, nr)
		assert.Equal(t, []float64{2, 2}, H.Row(0))

		var buf bytes.Buffer
		mi.Print(&buf)
		assert.Contains(t, buf.String(), "Options[AngleDetection] = 30.00000\n")
		assert.Contains(t, buf.String(), "Options[Verbosity] = warn\n")
	}
	{ // The scaffold preset replaces the options
		var mi MeshInput
		require.NoError(t, mi.Parse([]byte("Scaffold: true\nOptions:\n  NoInsert: false\n")))
		o := mi.MeshOptions()
		require.NotNil(t, o.NoInsert)
		assert.True(t, *o.NoInsert)
		assert.True(t, o.RequireBoundary)
	}
	{
		var mi MeshInput
		require.NoError(t, mi.Parse([]byte("Options:\n  IgnoreEdges: true\n")))
		assert.True(t, mi.MeshOptions().IgnoreEdges)
		var buf bytes.Buffer
		mi.Print(&buf)
		assert.Contains(t, buf.String(), "Options[IgnoreEdges] = true\n")
	}
	{
		var mi MeshInput
		assert.Error(t, mi.Parse([]byte("Vertices: [[a, b]]\n")))
		assert.Error(t, mi.Parse([]byte("Edges: {a: 1}\n")))
	}
}
