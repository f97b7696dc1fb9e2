// Package models provides 3D model loading and representation for etch.
package models

import (
	"github.com/taigrr/etch/pkg/math3d"
)

// degenerateLenSq is the squared cross-product length below which a face is
// treated as having no usable normal.
const degenerateLenSq = 1e-12

// minExtent is the smallest bounding-box diagonal CenterAndScale will
// rescale. Smaller meshes are only re-centered.
const minExtent = 1e-6

// Mesh represents a 3D mesh with vertex attributes and polygon faces.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3 // Positions
	TexCoords []math3d.Vec3 // Optional (u, v, w)
	Normals   []math3d.Vec3 // Optional, one per vertex when present
	Faces     []Face
}

// Face is an ordered list of 0-based vertex indices.
// Loaders fan-triangulate polygons, so faces normally hold exactly 3 indices.
type Face struct {
	V []int
}

// Tri creates a triangle face.
func Tri(a, b, c int) Face {
	return Face{V: []int{a, b, c}}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
	}
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Position returns the position of vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) Position(i int) math3d.Vec3 {
	return m.Vertices[i]
}

// Triangle returns the vertex indices of face i.
// ok is false unless the face has exactly 3 in-range indices.
// Implements render.MeshRenderer interface.
func (m *Mesh) Triangle(i int) (idx [3]int, ok bool) {
	if i < 0 || i >= len(m.Faces) {
		return idx, false
	}
	f := m.Faces[i]
	if !m.isTriangle(f) {
		return idx, false
	}
	copy(idx[:], f.V)
	return idx, true
}

// TriangleVertices returns the three positions referenced by f.
func (m *Mesh) TriangleVertices(f Face) (v0, v1, v2 math3d.Vec3, ok bool) {
	if !m.isTriangle(f) {
		return v0, v1, v2, false
	}
	return m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]], true
}

// TriangleNormals returns the per-vertex normals referenced by f.
// Indices past the end of Normals default to +Z.
func (m *Mesh) TriangleNormals(f Face) (n0, n1, n2 math3d.Vec3, ok bool) {
	if len(m.Normals) == 0 || !m.isTriangle(f) {
		return n0, n1, n2, false
	}
	return m.normal(f.V[0]), m.normal(f.V[1]), m.normal(f.V[2]), true
}

func (m *Mesh) normal(i int) math3d.Vec3 {
	if i < len(m.Normals) {
		return m.Normals[i]
	}
	return math3d.V3(0, 0, 1)
}

func (m *Mesh) isTriangle(f Face) bool {
	if len(f.V) != 3 {
		return false
	}
	for _, v := range f.V {
		if v < 0 || v >= len(m.Vertices) {
			return false
		}
	}
	return true
}

// EstimateNormals replaces Normals with averaged face normals.
// Every triangle contributes its unit normal to each of its vertices, and
// each vertex normal is the mean of its contributions. Vertices that no
// triangle touches get +Z.
func (m *Mesh) EstimateNormals() {
	sums := make([]math3d.Vec3, len(m.Vertices))
	counts := make([]int, len(m.Vertices))

	for _, f := range m.Faces {
		v0, v1, v2, ok := m.TriangleVertices(f)
		if !ok {
			continue
		}

		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if n.LenSq() < degenerateLenSq {
			continue
		}
		n = n.Normalize()

		for _, idx := range f.V {
			sums[idx] = sums[idx].Add(n)
			counts[idx]++
		}
	}

	normals := make([]math3d.Vec3, len(m.Vertices))
	for i := range normals {
		if counts[i] == 0 {
			normals[i] = math3d.V3(0, 0, 1)
			continue
		}
		normals[i] = sums[i].Div(float32(counts[i]))
	}
	m.Normals = normals
}

// BoundingBox computes the axis-aligned bounding box.
// An empty mesh returns two zero vectors.
func (m *Mesh) BoundingBox() (min, max math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}

	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// CenterAndScale moves the bounding-box center to the origin and scales the
// mesh uniformly so the box diagonal equals target.
func (m *Mesh) CenterAndScale(target float32) {
	min, max := m.BoundingBox()
	center := min.Add(max).Scale(0.5)

	scale := float32(1)
	if extent := max.Sub(min).Len(); extent >= minExtent {
		scale = target / extent
	}

	for i, v := range m.Vertices {
		m.Vertices[i] = v.Sub(center).Scale(scale)
	}
}
