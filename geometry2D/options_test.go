package geometry2D

import (
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	{ // Defaults
		p, err := DefaultOptions().Resolve()
		require.NoError(t, err)
		assert.Equal(t, "silent", p.Verbosity)
		assert.Equal(t, DefaultAngleDetection, p.AngleDetection)
		assert.Equal(t, DefaultGradation, p.Gradation)
		assert.Equal(t, DefaultMaxVertices, p.MaxVertices)
		assert.False(t, p.NoInsert)
		assert.False(t, p.HasTarget())
		assert.NotNil(t, p.Logger())
	}
	{ // Scaffold preset
		p, err := ScaffoldOptions().Resolve()
		require.NoError(t, err)
		assert.Equal(t, ScaffoldAngleDetection, p.AngleDetection)
		assert.Equal(t, ScaffoldGradation, p.Gradation)
		assert.True(t, p.NoInsert)
		assert.True(t, p.IgnoreHoles)
		assert.True(t, p.RequireBoundary)
	}
	{ // No insertion wins over a target size
		p, err := Options{NoInsert: Bool(true), TargetEdgeLength: Float(0.5)}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 0.5, p.TargetEdgeLength)
		assert.False(t, p.HasTarget())
		p, err = Options{TargetEdgeLength: Float(0.5)}.Resolve()
		require.NoError(t, err)
		assert.True(t, p.HasTarget())
	}
	{ // Explicit zero values are kept, not defaulted
		p, err := Options{AngleDetection: Float(0), Gradation: Float(1)}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 0., p.AngleDetection)
		assert.Equal(t, 1., p.Gradation)
	}
	{ // Options read from YAML
		var o Options
		require.NoError(t, yaml.Unmarshal([]byte("NoInsert: true\nAngleDetection: 30\nVerbosity: warn\n"), &o))
		p, err := o.Resolve()
		require.NoError(t, err)
		assert.True(t, p.NoInsert)
		assert.Equal(t, 30., p.AngleDetection)
		assert.Equal(t, "warn", p.Verbosity)
		assert.Nil(t, o.TargetEdgeLength)
	}
}
