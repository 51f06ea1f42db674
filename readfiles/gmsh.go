package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gomesh2d/utils"
)

// Gmsh 2.2 element type numbers of interest in 2D
const (
	gmshLine     = 1
	gmshTriangle = 2
)

// ReadGmsh22 reads an ASCII Gmsh MSH 2.2 file. Line elements become the
// boundary edges, marked with their physical group name, and triangles fill F.
// The z coordinate is dropped and other element types are skipped.
func ReadGmsh22(r io.Reader) (m *Mesh, err error) {
	var (
		scanner   = bufio.NewScanner(r)
		names     = make(map[int]string)
		nodeIndex = make(map[int]int)
		edges     [][]int
		tris      [][]int
	)
	m = &Mesh{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "$MeshFormat":
			if err = readMeshFormat22(scanner); err != nil {
				return nil, err
			}

		case "$PhysicalNames":
			if err = readPhysicalNames(scanner, names); err != nil {
				return nil, err
			}

		case "$Nodes":
			if m.V, err = readNodes22(scanner, nodeIndex); err != nil {
				return nil, err
			}

		case "$Elements":
			if edges, tris, m.Markers, err = readElements22(scanner, nodeIndex, names); err != nil {
				return nil, err
			}

		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				// Skip data sections
				skipSection(scanner, "$End"+line[1:])
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	m.Edges = utils.NewMatrixFromRows(2, edges...)
	m.F = utils.NewMatrixFromRows(3, tris...)
	return
}

func skipSection(scanner *bufio.Scanner, endMarker string) {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endMarker {
			break
		}
	}
}

func readMeshFormat22(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}
	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2") {
		return fmt.Errorf("MSH version %s, only 2.2 is supported", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary MSH files are not supported")
	}
	skipSection(scanner, "$EndMeshFormat")
	return nil
}

func readPhysicalNames(scanner *bufio.Scanner, names map[int]string) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}
	numNames, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	for i := 0; i < numNames; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading physical names")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			continue
		}
		tag, _ := strconv.Atoi(parts[1])
		// Names may contain spaces
		names[tag] = strings.Trim(strings.Join(parts[2:], " "), "\"")
	}
	skipSection(scanner, "$EndPhysicalNames")
	return nil
}

func readNodes22(scanner *bufio.Scanner, nodeIndex map[int]int) (V utils.Matrix, err error) {
	if !scanner.Scan() {
		return V, fmt.Errorf("unexpected EOF in Nodes")
	}
	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return V, fmt.Errorf("invalid node count: %s", scanner.Text())
	}
	V = utils.NewMatrix(numNodes, 2)
	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return V, fmt.Errorf("unexpected EOF reading nodes")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return V, fmt.Errorf("invalid node line: %s", scanner.Text())
		}
		nodeID, err1 := strconv.Atoi(parts[0])
		x, err2 := strconv.ParseFloat(parts[1], 64)
		y, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return V, fmt.Errorf("invalid node line: %s", scanner.Text())
		}
		nodeIndex[nodeID] = i
		V.Set(i, 0, x)
		V.Set(i, 1, y)
	}
	skipSection(scanner, "$EndNodes")
	return
}

func readElements22(scanner *bufio.Scanner, nodeIndex map[int]int,
	names map[int]string) (edges, tris [][]int, markers []string, err error) {
	if !scanner.Scan() {
		return nil, nil, nil, fmt.Errorf("unexpected EOF in Elements")
	}
	numElements, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return nil, nil, nil, fmt.Errorf("unexpected EOF reading elements")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return nil, nil, nil, fmt.Errorf("invalid element line")
		}
		elemID, _ := strconv.Atoi(parts[0])
		elemType, _ := strconv.Atoi(parts[1])
		numTags, _ := strconv.Atoi(parts[2])
		if len(parts) < 3+numTags {
			return nil, nil, nil, fmt.Errorf("invalid element tags")
		}

		var numNodes int
		switch elemType {
		case gmshLine:
			numNodes = 2
		case gmshTriangle:
			numNodes = 3
		default:
			// Points and higher order or 3D elements play no part here
			continue
		}
		nodeStart := 3 + numTags
		if len(parts) < nodeStart+numNodes {
			return nil, nil, nil, fmt.Errorf("element %d: expected %d nodes, got %d",
				elemID, numNodes, len(parts)-nodeStart)
		}
		nodes := make([]int, numNodes)
		for j := range nodes {
			nodeID, _ := strconv.Atoi(parts[nodeStart+j])
			idx, ok := nodeIndex[nodeID]
			if !ok {
				return nil, nil, nil, fmt.Errorf("element %d: unknown node %d", elemID, nodeID)
			}
			nodes[j] = idx
		}
		if elemType == gmshTriangle {
			tris = append(tris, nodes)
			continue
		}

		var physicalTag int
		if numTags > 0 {
			physicalTag, _ = strconv.Atoi(parts[3])
		}
		tagName, ok := names[physicalTag]
		if !ok {
			tagName = fmt.Sprintf("boundary_%d", physicalTag)
		}
		edges = append(edges, nodes)
		markers = append(markers, tagName)
	}
	skipSection(scanner, "$EndElements")
	return
}
