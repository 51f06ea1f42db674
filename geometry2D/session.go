package geometry2D

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gomesh2d/utils"
)

/*
Session owns every intermediate structure of exactly one triangulation call.
It is not safe for concurrent use and refuses to run twice; callers that mesh
in parallel create one Session per call.
*/
type Session struct {
	params  Parameters
	log     *zap.SugaredLogger
	used    bool
	mesh    *InternalMesh
	tm      *TriMesh
	live    int
	corners []int
}

func NewSession(opts Options) (s *Session, err error) {
	var p Parameters
	if p, err = opts.Resolve(); err != nil {
		return
	}
	s = &Session{params: p, log: p.Logger()}
	return
}

func (s *Session) Parameters() Parameters { return s.params }

// Live is the number of working buffers the session currently holds. It is
// zero before and after Triangulate, whatever the outcome.
func (s *Session) Live() int { return s.live }

func (s *Session) release() {
	if s.mesh != nil {
		s.mesh = nil
		s.live--
	}
	if s.tm != nil {
		s.tm = nil
		s.live--
	}
}

func (s *Session) dump(name string, M utils.Matrix) {
	if M.IsEmpty() || !s.log.Desugar().Core().Enabled(zap.DebugLevel) {
		return
	}
	s.log.Debugf("%s =\n%v", name, mat.Formatted(M, mat.Squeeze()))
}

// Triangulate meshes the region bounded by edges E over vertices V, less the
// regions marked by hole points H. On failure no partial result is returned.
func (s *Session) Triangulate(V, E, H utils.Matrix) (res *Result, err error) {
	if s.used {
		return nil, errors.Wrap(ErrResourceFailure, "session already used")
	}
	s.used = true
	// Local copies only, the caller's matrices stay writable
	V.SetReadOnly("V")
	E.SetReadOnly("E")
	H.SetReadOnly("H")
	defer s.release()
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, recoverMeshPanic(r)
		}
		if err != nil {
			s.log.Errorf("triangulation failed: %v", err)
		}
	}()
	s.dump("V", V)
	s.dump("E", E)
	if s.mesh, err = Ingest(V, E, H, s.params); err != nil {
		return nil, err
	}
	s.live++
	s.tm = NewTriMesh(s.mesh.N()+3, s.mesh.Tol)
	s.tm.log = s.log
	s.live++
	if err = s.build(); err != nil {
		return nil, err
	}
	if res, err = s.extract(); err != nil {
		return nil, err
	}
	s.dump("V2", res.V2)
	s.dump("F2", res.F2)
	s.log.Infof("%d vertices (%d inserted), %d triangles", res.NumVerts(), res.Steiner, res.NumTris())
	return
}

func (s *Session) build() (err error) {
	var (
		im = s.mesh
		tm = s.tm
		p  = s.params
	)
	for _, pt := range im.Points {
		tm.AddPoint(pt)
	}
	tm.Enclose(im.Box)
	for i := range im.Points {
		if im.Alias[i] != i {
			continue
		}
		var at int
		if at, err = tm.InsertVertex(i); err != nil {
			return
		}
		if at != i {
			im.Alias[i] = at
		}
	}
	edges, collapsed := im.Constraints()
	if collapsed > 0 {
		s.log.Infof("dropped %d edges joining merged vertices", collapsed)
	}
	if p.IgnoreEdges && len(edges) > 0 {
		s.log.Infof("ignoring %d edges, meshing the convex hull", len(edges))
		edges = nil
	}
	for _, e := range edges {
		if err = tm.RecoverEdge(e[0], e[1]); err != nil {
			return
		}
	}
	if tm.MarkInterior(len(edges) > 0) == 0 {
		return errors.Wrap(ErrConvergenceFailure, "the edges do not enclose a region")
	}
	switch {
	case len(im.Holes) == 0:
	case p.IgnoreHoles || len(edges) == 0:
		s.log.Infof("ignoring %d hole points", len(im.Holes))
	default:
		tm.CarveHoles(im.Holes, im.Box)
		if len(tm.interiorTris()) == 0 {
			return errors.Wrap(ErrConvergenceFailure, "holes remove the whole region")
		}
	}
	rim := tm.RegionEdges()
	s.corners = tm.Corners(rim, p.AngleDetection)
	s.log.Debugf("%d rim edges, %d hard corners", len(rim), len(s.corners))
	if p.NoInsert {
		if p.TargetEdgeLength > 0 {
			s.log.Infof("target edge length %g has no effect without point insertion", p.TargetEdgeLength)
		}
		return
	}
	var inserted, graded, moved, more int
	sf := tm.newSizeField(rim, s.corners, p.TargetEdgeLength, p.Gradation)
	if inserted, err = tm.Refine(sf, p.MaxVertices); err != nil {
		return
	}
	if moved, err = tm.Smooth(smoothSweeps); err != nil {
		return
	}
	if graded, err = tm.Grade(sf, p.Gradation, p.MaxVertices); err != nil {
		return
	}
	if graded > 0 {
		if more, err = tm.Smooth(smoothSweeps); err != nil {
			return
		}
		moved += more
	}
	s.log.Debugf("refinement inserted %d points, gradation %d, %d smoothing moves", inserted, graded, moved)
	return
}
