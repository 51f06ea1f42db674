package InputParameters

import (
	"fmt"
	"io"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gomesh2d/geometry2D"
	"github.com/notargets/gomesh2d/utils"
)

// Parameters obtained from the YAML input file. Vertex numbers in Edges are
// 0-based.
type MeshInput struct {
	Title    string             `json:"Title"`
	Vertices [][2]float64       `json:"Vertices"`
	Edges    [][2]int           `json:"Edges"`
	Holes    [][2]float64       `json:"Holes"`
	Scaffold bool               `json:"Scaffold"` // use the fixed scaffold preset, Options are ignored
	Options  geometry2D.Options `json:"Options"`
	// Mesh names a MEDIT or SU2 file supplying Vertices and Edges instead
	Mesh string `json:"Mesh"`
}

func (mi *MeshInput) Parse(data []byte) error {
	return yaml.Unmarshal(data, mi)
}

// Geometry returns the vertex, edge and hole tables in engine form.
func (mi *MeshInput) Geometry() (V, E, H utils.Matrix) {
	V = geometry2D.Points(mi.Vertices...)
	E = geometry2D.Segments(mi.Edges...)
	H = geometry2D.Points(mi.Holes...)
	return
}

func (mi *MeshInput) MeshOptions() geometry2D.Options {
	if mi.Scaffold {
		return geometry2D.ScaffoldOptions()
	}
	return mi.Options
}

func (mi *MeshInput) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", mi.Title)
	if mi.Mesh != "" {
		fmt.Fprintf(w, "[%s]\t= Mesh\n", mi.Mesh)
	}
	fmt.Fprintf(w, "[%d]\t\t\t\t= Vertices\n", len(mi.Vertices))
	fmt.Fprintf(w, "[%d]\t\t\t\t= Edges\n", len(mi.Edges))
	fmt.Fprintf(w, "[%d]\t\t\t\t= Holes\n", len(mi.Holes))
	if mi.Scaffold {
		fmt.Fprintf(w, "[scaffold]\t\t\t= Options\n")
		return
	}
	opts := map[string]string{}
	o := mi.Options
	if o.Verbosity != "" {
		opts["Verbosity"] = o.Verbosity
	}
	if o.AngleDetection != nil {
		opts["AngleDetection"] = fmt.Sprintf("%8.5f", *o.AngleDetection)
	}
	if o.NoInsert != nil {
		opts["NoInsert"] = fmt.Sprintf("%v", *o.NoInsert)
	}
	if o.Gradation != nil {
		opts["Gradation"] = fmt.Sprintf("%8.5f", *o.Gradation)
	}
	if o.TargetEdgeLength != nil {
		opts["TargetEdgeLength"] = fmt.Sprintf("%8.5f", *o.TargetEdgeLength)
	}
	if o.IgnoreHoles {
		opts["IgnoreHoles"] = "true"
	}
	if o.IgnoreEdges {
		opts["IgnoreEdges"] = "true"
	}
	if o.RequireBoundary {
		opts["RequireBoundary"] = "true"
	}
	if o.MaxVertices != 0 {
		opts["MaxVertices"] = fmt.Sprintf("%d", o.MaxVertices)
	}
	keys := make([]string, len(opts))
	i := 0
	for k := range opts {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "Options[%s] = %s\n", key, opts[key])
	}
}
