package models

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/taigrr/etch/pkg/math3d"
)

// NewUVSphere generates a latitude/longitude sphere centered at the origin.
//
// It has (lat+1)*(lon+1) vertices, with rings running from +Y to -Y, and
// 2*lat*lon triangles. The seam and the poles repeat vertices, so the
// poles produce zero-area triangles.
func NewUVSphere(lat, lon int, radius float32) *Mesh {
	mesh := NewMesh(fmt.Sprintf("sphere-%dx%d", lat, lon))
	if lat <= 0 || lon <= 0 {
		return mesh
	}

	mesh.Vertices = make([]math3d.Vec3, 0, (lat+1)*(lon+1))
	for i := 0; i <= lat; i++ {
		theta := math32.Pi * float32(i) / float32(lat)
		y := math32.Cos(theta)
		r := math32.Sin(theta)

		for j := 0; j <= lon; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(lon)
			v := math3d.V3(r*math32.Cos(phi), y, r*math32.Sin(phi))
			mesh.Vertices = append(mesh.Vertices, v.Scale(radius))
		}
	}

	mesh.Faces = make([]Face, 0, 2*lat*lon)
	for i := range lat {
		for j := range lon {
			a := i*(lon+1) + j
			b := a + lon + 1
			c := a + 1
			d := b + 1
			mesh.Faces = append(mesh.Faces, Tri(a, b, c), Tri(c, b, d))
		}
	}

	return mesh
}
