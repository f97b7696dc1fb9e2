package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/etch/pkg/math3d"
)

// LoadGLTF loads a glTF (.gltf) or binary glTF (.glb) file.
// Every triangle primitive of every mesh is merged into one Mesh, keeping
// the file's counter-clockwise winding.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := appendGLTFMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	// Partial normal data is worse than none; let the caller estimate.
	if len(mesh.Normals) != len(mesh.Vertices) {
		mesh.Normals = nil
	}
	if len(mesh.TexCoords) != len(mesh.Vertices) {
		mesh.TexCoords = nil
	}

	return mesh, nil
}

// appendGLTFMesh extracts geometry from a glTF mesh into mesh.
func appendGLTFMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have no faces to draw
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		base := len(mesh.Vertices)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, math3d.V3(p[0], p[1], p[2]))
		}

		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err := modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
			for _, n := range normals {
				mesh.Normals = append(mesh.Normals, math3d.V3(n[0], n[1], n[2]))
			}
		}

		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
			for _, uv := range uvs {
				// glTF puts V=0 at the top; OBJ and etch put it at the bottom.
				mesh.TexCoords = append(mesh.TexCoords, math3d.V3(uv[0], 1-uv[1], 0))
			}
		}

		if prim.Indices == nil {
			// Unindexed: consecutive triples
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, Tri(base+i, base+i+1, base+i+2))
			}
			continue
		}

		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Tri(
				base+int(indices[i]),
				base+int(indices[i+1]),
				base+int(indices[i+2]),
			))
		}
	}

	return nil
}
