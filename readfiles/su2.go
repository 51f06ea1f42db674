package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gomesh2d/utils"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE     SU2ElementType = 3
	ELType_Triangle SU2ElementType = 5
)

// ReadSU2 reads a 2D SU2 mesh: the triangles of NELEM, the points of NPOIN
// and the line elements of every marker as boundary edges.
func ReadSU2(r io.Reader) (m *Mesh, err error) {
	defer recoverRead("su2", &err)
	reader := bufio.NewReader(r)

	if dim := readNumber(reader); dim != 2 {
		panic(fmt.Errorf("NDIME = %d, only 2 dimensional meshes are supported", dim))
	}
	m = &Mesh{}
	_, m.F = readElements(reader)
	m.V = readVertices(reader)
	m.Edges, m.Markers = readBCs(reader)
	return
}

func readBCs(reader *bufio.Reader) (Edges utils.Matrix, Markers []string) {
	var (
		nType  int
		v1, v2 int
		err    error
		rows   [][]int
	)
	NBCs := readNumber(reader)
	for n := 0; n < NBCs; n++ {
		label := readLabel(reader)
		nEdges := readNumber(reader)
		for i := 0; i < nEdges; i++ {
			line := getLineNoComments(reader)
			if _, err = fmt.Sscanf(line, "%d %d %d", &nType, &v1, &v2); err != nil {
				panic(err)
			}
			if SU2ElementType(nType) != ELType_LINE {
				panic(fmt.Errorf("marker %s: BCs should only contain line elements in 2D", label))
			}
			rows = append(rows, []int{v1, v2})
			Markers = append(Markers, label)
		}
	}
	Edges = utils.NewMatrixFromRows(2, rows...)
	return
}

func readVertices(reader *bufio.Reader) (V utils.Matrix) {
	var (
		n    int
		x, y float64
		err  error
	)
	Nv := readNumber(reader)
	V = utils.NewMatrix(Nv, 2)
	for i := 0; i < Nv; i++ {
		line := getLineNoComments(reader)
		if n, err = fmt.Sscanf(line, "%g %g", &x, &y); err != nil {
			panic(err)
		}
		if n != 2 {
			panic("unable to read coordinates")
		}
		V.Set(i, 0, x)
		V.Set(i, 1, y)
	}
	return
}

func readElements(reader *bufio.Reader) (K int, EToV utils.Matrix) {
	var (
		n          int
		nType      int
		v1, v2, v3 int
		err        error
	)
	// EToV is K x 3
	K = readNumber(reader)
	EToV = utils.NewMatrix(K, 3)
	for k := 0; k < K; k++ {
		line := getLineNoComments(reader)
		if n, err = fmt.Sscanf(line, "%d %d %d %d", &nType, &v1, &v2, &v3); err != nil {
			panic(err)
		}
		if n != 4 {
			panic("unable to read vertices")
		}
		if SU2ElementType(nType) != ELType_Triangle {
			panic(fmt.Errorf("element %d has type %d, only triangles are supported", k, nType))
		}
		EToV.SetRow(k, []float64{float64(v1), float64(v2), float64(v3)})
	}
	return
}

func getToken(reader *bufio.Reader) (token string) {
	var (
		line string
		err  error
	)
	line = getLineNoComments(reader)
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = fmt.Errorf("badly formed input line [%s], should have an =", line)
		panic(err)
	}
	token = line[ind+1:]
	return
}

func readLabel(reader *bufio.Reader) (label string) {
	var (
		err error
	)
	token := getToken(reader)
	if _, err = fmt.Sscanf(token, "%s", &label); err != nil {
		err = fmt.Errorf("unable to read label from token: [%s]", token)
		panic(err)
	}
	label = strings.Trim(label, " ")
	return
}

func readNumber(reader *bufio.Reader) (num int) {
	var (
		err error
	)
	token := getToken(reader)
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = fmt.Errorf("unable to read number from token: [%s]", token)
		panic(err)
	}
	return
}

// getLineNoComments skips blank lines and lines starting with %.
func getLineNoComments(reader *bufio.Reader) (line string) {
	for {
		line = strings.TrimSpace(getLine(reader))
		if len(line) != 0 && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

// WriteSU2 writes the triangles, points and boundary markers of m, edges
// grouped under one MARKER_TAG per distinct marker.
func WriteSU2(w io.Writer, m *Mesh) (err error) {
	var (
		K, _   = m.F.Dims()
		Nv, _  = m.V.Dims()
		b      strings.Builder
		labels []string
		groups map[string][]int
	)
	fmt.Fprintf(&b, "NDIME= 2\n")
	fmt.Fprintf(&b, "NELEM= %d\n", K)
	for k := 0; k < K; k++ {
		tri := m.F.IndexRow(k)
		fmt.Fprintf(&b, "%d %d %d %d %d\n", ELType_Triangle, tri[0], tri[1], tri[2], k)
	}
	fmt.Fprintf(&b, "NPOIN= %d\n", Nv)
	for i := 0; i < Nv; i++ {
		fmt.Fprintf(&b, "%s %s %d\n", formatFloat(m.V.At(i, 0)), formatFloat(m.V.At(i, 1)), i)
	}
	labels, groups = m.markerGroups()
	fmt.Fprintf(&b, "NMARK= %d\n", len(labels))
	for _, label := range labels {
		fmt.Fprintf(&b, "MARKER_TAG= %s\n", label)
		fmt.Fprintf(&b, "MARKER_ELEMS= %d\n", len(groups[label]))
		for _, i := range groups[label] {
			e := m.Edges.IndexRow(i)
			fmt.Fprintf(&b, "%d %d %d\n", ELType_LINE, e[0], e[1])
		}
	}
	_, err = io.WriteString(w, b.String())
	return
}

// formatFloat writes the shortest text that reads back to the same value.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
