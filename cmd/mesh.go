/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/gomesh2d/InputParameters"
	"github.com/notargets/gomesh2d/geometry2D"
	"github.com/notargets/gomesh2d/logger"
	"github.com/notargets/gomesh2d/readfiles"
	"github.com/notargets/gomesh2d/utils"
)

type MeshRun struct {
	InputFile  string
	OutputFile string // empty writes MEDIT to stdout
	Overrides  geometry2D.Options
	Scaffold   bool
}

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Triangulate a bounded region and write the mesh",
	Long: `
Reads the region from a YAML run description, a MEDIT (.mesh), SU2 (.su2) or Gmsh (.msh)
file and writes the triangulation as MEDIT or SU2, chosen by the output file
extension.

gomesh2d mesh -I input.yaml -O output.su2 --hsiz 0.1`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			mr = &MeshRun{}
			o  = &mr.Overrides
			f  = cmd.Flags()
		)
		if viper.GetBool("profile") {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		}
		mr.InputFile, _ = f.GetString("inputFile")
		mr.OutputFile, _ = f.GetString("outputFile")
		mr.Scaffold, _ = f.GetBool("scaffold")
		if len(mr.InputFile) == 0 {
			err = fmt.Errorf("must supply an input file (-I, --inputFile) in .yaml, .mesh, .su2 or .msh format")
			fmt.Fprintf(os.Stderr, "Example File:%s\n", exampleFile)
			return
		}
		if f.Changed("noInsert") {
			b, _ := f.GetBool("noInsert")
			o.NoInsert = geometry2D.Bool(b)
		}
		if f.Changed("angle") {
			a, _ := f.GetFloat64("angle")
			o.AngleDetection = geometry2D.Float(a)
		}
		if f.Changed("hgrad") {
			g, _ := f.GetFloat64("hgrad")
			o.Gradation = geometry2D.Float(g)
		}
		if f.Changed("hsiz") {
			h, _ := f.GetFloat64("hsiz")
			o.TargetEdgeLength = geometry2D.Float(h)
		}
		o.IgnoreHoles, _ = f.GetBool("ignoreHoles")
		o.IgnoreEdges, _ = f.GetBool("ignoreEdges")
		return RunMesh(mr, os.Stdout)
	},
}

var exampleFile = `
########################################
Title: "Unit square"
Vertices: [[0, 0], [1, 0], [1, 1], [0, 1]]
Edges: [[0, 1], [1, 2], [2, 3], [3, 0]]
Holes: []
Options:
  AngleDetection: 45
  Gradation: 1.3
  TargetEdgeLength: 0.1
########################################
`

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("inputFile", "I", "", "region to mesh, a YAML run description or a .mesh, .su2 or .msh (Gmsh 2.2) file")
	MeshCmd.Flags().StringP("outputFile", "O", "", "mesh file to write, .mesh or .su2 (default MEDIT on stdout)")
	MeshCmd.Flags().Bool("noInsert", false, "keep the input point set, no points are added")
	MeshCmd.Flags().Float64("angle", geometry2D.DefaultAngleDetection, "corner detection angle in degrees")
	MeshCmd.Flags().Float64("hgrad", geometry2D.DefaultGradation, "size ratio allowed between neighbouring triangles")
	MeshCmd.Flags().Float64("hsiz", 0, "target edge length of inserted points")
	MeshCmd.Flags().Bool("ignoreHoles", false, "mesh the hole interiors too")
	MeshCmd.Flags().Bool("ignoreEdges", false, "drop the input edges and mesh the convex hull of the points")
	MeshCmd.Flags().Bool("scaffold", false, "fixed preset: no insertion, every boundary vertex a corner, holes ignored")
}

// stderr receives the echo of the run description.
var stderr io.Writer = os.Stderr

func sugar() *zap.SugaredLogger {
	if logger.Sugar == nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar
}

// RunMesh meshes mr.InputFile and writes the result, to stdout when no
// output file is named.
func RunMesh(mr *MeshRun, stdout io.Writer) (err error) {
	var (
		log     = sugar()
		mi      *InputParameters.MeshInput
		V, E, H utils.Matrix
		res     *geometry2D.Result
	)
	if mi, V, E, H, err = processInput(mr.InputFile); err != nil {
		return
	}
	mi.Scaffold = mi.Scaffold || mr.Scaffold
	opts := mi.MeshOptions()
	if !mi.Scaffold {
		opts = mergeOptions(opts, mr.Overrides)
	}
	if opts.Verbosity == "" {
		opts.Verbosity = viper.GetString("logLevel")
	}
	opts.Logger = logger.Log
	if mi.Title != "" {
		log.Infof("meshing \"%s\"", mi.Title)
	}
	if logger.Log != nil && logger.Log.Core().Enabled(zap.InfoLevel) {
		mi.Print(stderr)
	}

	if res, err = geometry2D.Triangulate(V, E, H, opts); err != nil {
		log.Errorf("%s: %v", geometry2D.KindOf(err), err)
		return
	}
	q := res.Quality()
	log.Infow("mesh complete",
		"vertices", res.NumVerts(), "steiner", res.Steiner, "triangles", q.Triangles,
		"area", q.Area, "minAngle", q.MinAngle, "maxSizeRatio", q.MaxSizeRatio)
	log.Debugf("memory: %s", utils.GetMemUsage())

	out := &readfiles.Mesh{
		V:       res.V2,
		F:       res.F2,
		Edges:   res.BoundaryEdges(),
		Corners: res.Corners,
	}
	if mr.OutputFile == "" {
		return readfiles.WriteMedit(stdout, out)
	}
	return readfiles.WriteMeshFile(mr.OutputFile, out)
}

// mergeOptions lays the command line settings over those of the input file.
func mergeOptions(o, flags geometry2D.Options) geometry2D.Options {
	if flags.Verbosity != "" {
		o.Verbosity = flags.Verbosity
	}
	if flags.NoInsert != nil {
		o.NoInsert = flags.NoInsert
	}
	if flags.AngleDetection != nil {
		o.AngleDetection = flags.AngleDetection
	}
	if flags.Gradation != nil {
		o.Gradation = flags.Gradation
	}
	if flags.TargetEdgeLength != nil {
		o.TargetEdgeLength = flags.TargetEdgeLength
	}
	o.IgnoreHoles = o.IgnoreHoles || flags.IgnoreHoles
	o.IgnoreEdges = o.IgnoreEdges || flags.IgnoreEdges
	return o
}

func processInput(fileName string) (mi *InputParameters.MeshInput, V, E, H utils.Matrix, err error) {
	var data []byte
	mi = &InputParameters.MeshInput{}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml":
		if data, err = os.ReadFile(fileName); err != nil {
			err = errors.Wrapf(err, "unable to read input file %s", fileName)
			return
		}
		if err = mi.Parse(data); err != nil {
			err = errors.Wrapf(err, "unable to parse input file %s", fileName)
			return
		}
		if mi.Mesh == "" {
			V, E, H = mi.Geometry()
			return
		}
		meshFile := mi.Mesh
		if !filepath.IsAbs(meshFile) {
			meshFile = filepath.Join(filepath.Dir(fileName), meshFile)
		}
		_, _, H = mi.Geometry()
		V, E, err = readRegion(meshFile)
	default:
		mi.Title = filepath.Base(fileName)
		V, E, err = readRegion(fileName)
	}
	return
}

// readRegion takes the points and boundary edges of a mesh file, ignoring
// any triangles in it.
func readRegion(fileName string) (V, E utils.Matrix, err error) {
	var m *readfiles.Mesh
	if m, err = readfiles.ReadMeshFile(fileName); err != nil {
		return
	}
	return m.V, m.Edges, nil
}
