package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load loads a mesh, choosing the format from the file extension.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported format: %q (use .obj, .glb or .gltf)", ext)
	}
}
