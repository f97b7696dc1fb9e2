package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/etch/pkg/math3d"
)

// maxOBJLine bounds a single OBJ record. Long polygon records in exported
// scans can exceed bufio's default token size.
const maxOBJLine = 1 << 20

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads OBJ records from r.
//
// Only v, vt, vn and f records are used; everything else is skipped.
// Malformed numbers read as 0 and malformed face indices read as 1.
// Polygons are fan-triangulated around their first vertex.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxOBJLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			// v x y z [w]
			if len(fields) >= 4 {
				mesh.Vertices = append(mesh.Vertices, parseVec3(fields[1:4]))
			}
		case "vt":
			// vt u v [w]
			if len(fields) >= 3 {
				tc := math3d.V3(parseFloat(fields[1]), parseFloat(fields[2]), 0)
				if len(fields) >= 4 {
					tc.Z = parseFloat(fields[3])
				}
				mesh.TexCoords = append(mesh.TexCoords, tc)
			}
		case "vn":
			if len(fields) >= 4 {
				mesh.Normals = append(mesh.Normals, parseVec3(fields[1:4]))
			}
		case "f":
			// f v[/vt[/vn]] ...
			if len(fields) >= 4 {
				mesh.addPolygon(parseFace(fields[1:], len(mesh.Vertices)))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return mesh, nil
}

// addPolygon appends idx as a triangle fan.
func (m *Mesh) addPolygon(idx []int) {
	for i := 1; i+1 < len(idx); i++ {
		m.Faces = append(m.Faces, Tri(idx[0], idx[i], idx[i+1]))
	}
}

// parseFace resolves the position index of every face token.
// Positive indices are 1-based; zero and negative indices are relative to
// the vertex count seen so far.
func parseFace(tokens []string, vertexCount int) []int {
	idx := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		pos, _, _ := strings.Cut(tok, "/")
		n, err := strconv.Atoi(pos)
		if err != nil {
			n = 1
		}
		if n > 0 {
			idx = append(idx, n-1)
		} else {
			idx = append(idx, vertexCount+n)
		}
	}
	return idx
}

func parseVec3(fields []string) math3d.Vec3 {
	return math3d.V3(parseFloat(fields[0]), parseFloat(fields[1]), parseFloat(fields[2]))
}

// parseFloat reads malformed numbers as 0. Out-of-range values keep the
// infinity ParseFloat returns with ErrRange.
func parseFloat(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return float32(f)
}
