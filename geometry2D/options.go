package geometry2D

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/notargets/gomesh2d/logger"
)

const (
	// DefaultAngleDetection is the corner threshold of the configurable path.
	DefaultAngleDetection = 45.
	// ScaffoldAngleDetection makes every boundary vertex a hard corner.
	ScaffoldAngleDetection = 0.
	DefaultGradation       = 1.3
	ScaffoldGradation      = 30.
	DefaultMaxVertices     = 1 << 22
)

/*
Options are the caller facing meshing controls. A nil pointer means "not set"
and takes the engine default when resolved. NoInsert always wins: with it set,
TargetEdgeLength and Gradation are accepted but inert.
*/
type Options struct {
	Verbosity        string   `json:"Verbosity,omitempty"`
	AngleDetection   *float64 `json:"AngleDetection,omitempty"` // degrees
	NoInsert         *bool    `json:"NoInsert,omitempty"`
	Gradation        *float64 `json:"Gradation,omitempty"`
	TargetEdgeLength *float64 `json:"TargetEdgeLength,omitempty"`
	IgnoreHoles      bool     `json:"IgnoreHoles,omitempty"`
	IgnoreEdges      bool     `json:"IgnoreEdges,omitempty"` // mesh the convex hull of V
	RequireBoundary  bool     `json:"RequireBoundary,omitempty"`
	MaxVertices      int      `json:"MaxVertices,omitempty"`
	// Logger receives diagnostics when Verbosity is not silent, falling back
	// to logger.Log
	Logger *zap.Logger `json:"-"`
}

// Parameters is the resolved, validated form of Options consumed by a Session.
type Parameters struct {
	Verbosity        string
	AngleDetection   float64
	NoInsert         bool
	Gradation        float64
	TargetEdgeLength float64 // 0 when unset
	IgnoreHoles      bool
	IgnoreEdges      bool
	RequireBoundary  bool
	MaxVertices      int
	log              *zap.SugaredLogger
}

func DefaultOptions() Options {
	return Options{}
}

// ScaffoldOptions is the fixed preset of the scaffold entry point: keep the
// input point set and every corner, boundary required, holes ignored.
func ScaffoldOptions() Options {
	return Options{
		Verbosity:       logger.Silent,
		AngleDetection:  Float(ScaffoldAngleDetection),
		NoInsert:        Bool(true),
		Gradation:       Float(ScaffoldGradation),
		IgnoreHoles:     true,
		RequireBoundary: true,
	}
}

func Float(f float64) *float64 { return &f }
func Bool(b bool) *bool        { return &b }

func (o Options) Resolve() (p Parameters, err error) {
	p = Parameters{
		Verbosity:       logger.Silent,
		AngleDetection:  DefaultAngleDetection,
		Gradation:       DefaultGradation,
		IgnoreHoles:     o.IgnoreHoles,
		IgnoreEdges:     o.IgnoreEdges,
		RequireBoundary: o.RequireBoundary,
		MaxVertices:     DefaultMaxVertices,
	}
	if o.Verbosity != "" {
		p.Verbosity = o.Verbosity
	}
	if o.AngleDetection != nil {
		p.AngleDetection = *o.AngleDetection
	}
	if o.NoInsert != nil {
		p.NoInsert = *o.NoInsert
	}
	if o.Gradation != nil {
		p.Gradation = *o.Gradation
	}
	if o.TargetEdgeLength != nil {
		p.TargetEdgeLength = *o.TargetEdgeLength
		if !(p.TargetEdgeLength > 0) || math.IsInf(p.TargetEdgeLength, 0) {
			err = errors.Wrapf(ErrConfigurationRejected, "target edge length must be positive and finite, have %v",
				p.TargetEdgeLength)
			return
		}
	}
	if o.MaxVertices != 0 {
		p.MaxVertices = o.MaxVertices
	}
	switch {
	case math.IsNaN(p.AngleDetection) || p.AngleDetection < 0 || p.AngleDetection > 180:
		err = errors.Wrapf(ErrConfigurationRejected, "angle detection must lie in [0,180] degrees, have %v",
			p.AngleDetection)
	case math.IsNaN(p.Gradation) || math.IsInf(p.Gradation, 0) || p.Gradation < 1:
		err = errors.Wrapf(ErrConfigurationRejected, "gradation must be a finite ratio >= 1, have %v", p.Gradation)
	case p.MaxVertices < 3:
		err = errors.Wrapf(ErrConfigurationRejected, "vertex budget must allow a triangle, have %d", p.MaxVertices)
	}
	if err != nil {
		return
	}
	var l *zap.Logger
	if l, err = logger.Sub(o.Logger, p.Verbosity); err != nil {
		err = errors.Wrapf(ErrConfigurationRejected, "verbosity: %v", err)
		return
	}
	p.log = l.Sugar()
	return
}

func (p Parameters) Logger() *zap.SugaredLogger {
	if p.log == nil {
		return zap.NewNop().Sugar()
	}
	return p.log
}

// HasTarget reports whether a uniform size was requested and can take effect.
func (p Parameters) HasTarget() bool {
	return p.TargetEdgeLength > 0 && !p.NoInsert
}
