package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/notargets/gomesh2d/utils"
)

// Mesh is a planar mesh as stored on disk. Indices are 0-based in memory
// whatever the file convention.
type Mesh struct {
	V       utils.Matrix // Nv x 2 coordinates
	Edges   utils.Matrix // boundary edges, M x 2
	Markers []string     // boundary label of each edge
	F       utils.Matrix // triangles, K x 3, may be empty
	Corners []int
}

func (m *Mesh) markerOf(i int) string {
	if i < len(m.Markers) && m.Markers[i] != "" {
		return m.Markers[i]
	}
	return "boundary"
}

// markerGroups lists the edge rows of each marker, markers in order of first
// appearance.
func (m *Mesh) markerGroups() (labels []string, groups map[string][]int) {
	nE, _ := m.Edges.Dims()
	groups = make(map[string][]int)
	for i := 0; i < nE; i++ {
		label := m.markerOf(i)
		if _, ok := groups[label]; !ok {
			labels = append(labels, label)
		}
		groups[label] = append(groups[label], i)
	}
	return
}

type Format uint8

const (
	FormatUnknown Format = iota
	FormatSU2
	FormatMedit
	FormatGmsh // read only
)

func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".su2":
		return FormatSU2
	case ".mesh":
		return FormatMedit
	case ".msh":
		return FormatGmsh
	}
	return FormatUnknown
}

func ReadMeshFile(filename string) (m *Mesh, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return nil, errors.Wrapf(err, "unable to open file %s", filename)
	}
	defer file.Close()
	switch FormatOf(filename) {
	case FormatSU2:
		return ReadSU2(file)
	case FormatMedit:
		return ReadMedit(file)
	case FormatGmsh:
		return ReadGmsh22(file)
	}
	return nil, errors.Errorf("unknown mesh format for file %s", filename)
}

func WriteMeshFile(filename string, m *Mesh) (err error) {
	var (
		file   *os.File
		format = FormatOf(filename)
	)
	switch format {
	case FormatUnknown:
		return errors.Errorf("unknown mesh format for file %s", filename)
	case FormatGmsh:
		return errors.Errorf("writing Gmsh files is not supported, use .mesh or .su2 for %s", filename)
	}
	if file, err = os.Create(filename); err != nil {
		return errors.Wrapf(err, "unable to create file %s", filename)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	if format == FormatSU2 {
		err = WriteSU2(w, m)
	} else {
		err = WriteMedit(w, m)
	}
	if err != nil {
		return
	}
	return w.Flush()
}

// The readers panic on malformed input deep inside the line parsing, like the
// rest of this package; this turns that back into an error at the API.
func recoverRead(format string, err *error) {
	if r := recover(); r != nil {
		switch v := r.(type) {
		case error:
			*err = errors.Wrapf(v, "reading %s", format)
		default:
			*err = errors.Errorf("reading %s: %v", format, v)
		}
	}
}

func getLine(reader *bufio.Reader) (line string) {
	var (
		err error
	)
	line, err = reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if len(line) != 0 {
				return strings.TrimRight(line, "\r")
			}
			err = fmt.Errorf("early end of file")
		}
		panic(err)
	}
	line = strings.TrimRight(line[:len(line)-1], "\r") // Strip away the newline
	return
}

func skipLines(n int, reader *bufio.Reader) {
	for i := 0; i < n; i++ {
		getLine(reader)
	}
}
