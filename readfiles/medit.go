package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gomesh2d/utils"
)

// medit is a whitespace token stream over a MEDIT .mesh file. Keywords and
// counts may share a line with data, # starts a comment.
type medit struct {
	reader *bufio.Reader
	tokens []string
}

// next returns the next token, or false at the end of the input.
func (md *medit) next() (token string, ok bool) {
	for len(md.tokens) == 0 {
		line, err := md.reader.ReadString('\n')
		if ind := strings.Index(line, "#"); ind >= 0 {
			line = line[:ind]
		}
		md.tokens = strings.Fields(line)
		if err != nil {
			if err != io.EOF {
				panic(err)
			}
			if len(md.tokens) == 0 {
				return
			}
		}
	}
	token, md.tokens = md.tokens[0], md.tokens[1:]
	return token, true
}

func (md *medit) mustNext(what string) string {
	token, ok := md.next()
	if !ok {
		panic(fmt.Errorf("early end of file reading %s", what))
	}
	return token
}

func (md *medit) readInt(what string) int {
	token := md.mustNext(what)
	num, err := strconv.Atoi(token)
	if err != nil {
		panic(fmt.Errorf("unable to read %s from token: [%s]", what, token))
	}
	return num
}

func (md *medit) readFloat(what string) float64 {
	token := md.mustNext(what)
	x, err := strconv.ParseFloat(token, 64)
	if err != nil {
		panic(fmt.Errorf("unable to read %s from token: [%s]", what, token))
	}
	return x
}

// readTable reads n rows of nc integers followed by a reference, shifting the
// 1-based vertex numbers to 0-based.
func (md *medit) readTable(n, nc int, what string) (T utils.Matrix, refs []int) {
	T = utils.NewMatrix(n, nc)
	refs = make([]int, n)
	for i := 0; i < n; i++ {
		I := utils.NewIndex(nc)
		for j := range I {
			I[j] = md.readInt(what)
		}
		I.AddInPlace(-1)
		T.SetRow(i, I.ToFloat())
		refs[i] = md.readInt(what + " reference")
	}
	return
}

/*
ReadMedit reads a 2D MEDIT (INRIA .mesh) file. Vertices, Edges, Triangles and
Corners are read; the edge references become the boundary markers.
Vertex references and RequiredVertices are skipped.
*/
func ReadMedit(r io.Reader) (m *Mesh, err error) {
	defer recoverRead("medit", &err)
	var (
		md  = &medit{reader: bufio.NewReader(r)}
		dim = 2
	)
	m = &Mesh{}
	for {
		keyword, ok := md.next()
		if !ok || keyword == "End" {
			break
		}
		switch keyword {
		case "MeshVersionFormatted":
			md.readInt("version")
		case "Dimension":
			if dim = md.readInt("dimension"); dim != 2 {
				panic(fmt.Errorf("Dimension = %d, only 2 dimensional meshes are supported", dim))
			}
		case "Vertices":
			Nv := md.readInt("vertex count")
			m.V = utils.NewMatrix(Nv, 2)
			for i := 0; i < Nv; i++ {
				m.V.Set(i, 0, md.readFloat("x coordinate"))
				m.V.Set(i, 1, md.readFloat("y coordinate"))
				md.readInt("vertex reference")
			}
		case "Edges":
			var refs []int
			m.Edges, refs = md.readTable(md.readInt("edge count"), 2, "edge vertex")
			m.Markers = make([]string, len(refs))
			for i, ref := range refs {
				m.Markers[i] = strconv.Itoa(ref)
			}
		case "Triangles":
			m.F, _ = md.readTable(md.readInt("triangle count"), 3, "triangle vertex")
		case "Corners", "RequiredVertices":
			n := md.readInt(keyword + " count")
			I := utils.NewIndex(n)
			for i := range I {
				I[i] = md.readInt(keyword)
			}
			if keyword == "Corners" {
				m.Corners = I.AddInPlace(-1)
			}
		default:
			panic(fmt.Errorf("unsupported MEDIT keyword [%s]", keyword))
		}
	}
	return
}

// WriteMedit writes m as a MEDIT file with 1-based numbering. Each distinct
// marker gets reference number 1, 2, ... in order of first appearance.
func WriteMedit(w io.Writer, m *Mesh) (err error) {
	var (
		Nv, _ = m.V.Dims()
		nE, _ = m.Edges.Dims()
		K, _  = m.F.Dims()
		b     strings.Builder
		ref   = make(map[string]int)
	)
	fmt.Fprintf(&b, "MeshVersionFormatted 2\n\nDimension 2\n\n")
	fmt.Fprintf(&b, "Vertices\n%d\n", Nv)
	for i := 0; i < Nv; i++ {
		fmt.Fprintf(&b, "%s %s 0\n", formatFloat(m.V.At(i, 0)), formatFloat(m.V.At(i, 1)))
	}
	if nE != 0 {
		labels, _ := m.markerGroups()
		for i, label := range labels {
			ref[label] = i + 1
		}
		fmt.Fprintf(&b, "\nEdges\n%d\n", nE)
		for i := 0; i < nE; i++ {
			e := m.Edges.IndexRow(i).AddInPlace(1)
			fmt.Fprintf(&b, "%d %d %d\n", e[0], e[1], ref[m.markerOf(i)])
		}
	}
	if K != 0 {
		fmt.Fprintf(&b, "\nTriangles\n%d\n", K)
		for k := 0; k < K; k++ {
			tri := m.F.IndexRow(k).AddInPlace(1)
			fmt.Fprintf(&b, "%d %d %d 0\n", tri[0], tri[1], tri[2])
		}
	}
	if len(m.Corners) != 0 {
		fmt.Fprintf(&b, "\nCorners\n%d\n", len(m.Corners))
		for _, v := range utils.Index(m.Corners).Add(1) {
			fmt.Fprintf(&b, "%d\n", v)
		}
	}
	fmt.Fprintf(&b, "\nEnd\n")
	_, err = io.WriteString(w, b.String())
	return
}
