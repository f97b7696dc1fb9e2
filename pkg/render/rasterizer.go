package render

import (
	"github.com/taigrr/etch/pkg/math3d"
)

// MeshRenderer is the read-only view of a mesh the rasterizer draws.
// It keeps render free of a models import.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	Position(i int) math3d.Vec3
	Triangle(i int) (idx [3]int, ok bool)
}

// Stats counts what happened to the triangles handed to DrawTriangle.
type Stats struct {
	Tested   int // Triangles submitted
	Rejected int // Dropped for leaving the [-1, 1] NDC square
	Culled   int // Dropped as back faces
	Drawn    int // Filled and outlined
}

// Rasterizer scan-converts projected triangles into a framebuffer.
// There is no depth buffer: later triangles overwrite earlier ones.
type Rasterizer struct {
	fb *Framebuffer

	// Wireframe draws only the triangle outlines (x-ray mode).
	Wireframe bool
	// DisableBackfaceCulling draws both sides of every triangle.
	DisableBackfaceCulling bool
	// BaseColor is the surface color DrawMesh shades, channels in [0, 1].
	BaseColor math3d.Vec3

	Stats Stats

	projected []math3d.Vec3 // Scratch for DrawMesh
}

// NewRasterizer creates a new rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		fb:        fb,
		BaseColor: math3d.V3(1, 1, 1),
	}
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetFramebuffer retargets the rasterizer, e.g. after a terminal resize.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
}

// ResetStats clears the triangle counters (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// IsInsideTriangle reports whether pixel (px, py) lies inside the triangle
// (x0, y0), (x1, y1), (x2, y2).
//
// It compares the signs of the three edge cross products. A zero product has
// sign 0, so points exactly on an edge count as inside only when all three
// products are zero; the outline drawn by DrawTriangle covers the edges.
func IsInsideTriangle(px, py, x0, y0, x1, y1, x2, y2 int) bool {
	a := sign((x0-px)*(y1-y0) - (x1-x0)*(y0-py))
	b := sign((x1-px)*(y2-y1) - (x2-x1)*(y1-py))
	c := sign((x2-px)*(y0-y2) - (x0-x2)*(y2-py))
	return a == b && a == c
}

// DrawTriangle fills and outlines a triangle given in normalized device
// coordinates. It returns false if the triangle was rejected or culled.
//
// A triangle is rejected when any vertex leaves the [-1, 1] square in x or y
// (there is no clipping) and culled when its normal faces away from viewDir.
func (r *Rasterizer) DrawTriangle(a, b, c, viewDir math3d.Vec3, color Color) bool {
	r.Stats.Tested++

	if !inNDC(a) || !inNDC(b) || !inNDC(c) {
		r.Stats.Rejected++
		return false
	}

	if !r.DisableBackfaceCulling {
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if n.Dot(viewDir) < 0 {
			r.Stats.Culled++
			return false
		}
	}

	ax, ay := r.toScreen(a)
	bx, by := r.toScreen(b)
	cx, cy := r.toScreen(c)

	if !r.Wireframe {
		minX, maxX := min(ax, bx, cx), max(ax, bx, cx)
		minY, maxY := min(ay, by, cy), max(ay, by, cy)

		// Upper bounds are exclusive; the outline covers the far edges.
		for x := minX; x < maxX; x++ {
			for y := minY; y < maxY; y++ {
				if IsInsideTriangle(x, y, ax, ay, bx, by, cx, cy) {
					r.fb.SetPixel(x, y, color)
				}
			}
		}
	}

	r.fb.DrawLine(ax, ay, bx, by, color)
	r.fb.DrawLine(bx, by, cx, cy, color)
	r.fb.DrawLine(cx, cy, ax, ay, color)

	r.Stats.Drawn++
	return true
}

// DrawMesh draws every triangle of mesh transformed by mvp.
//
// Vertices are projected once. Each face is flat shaded from its untransformed
// (object-space) positions, so the light stays fixed to the model rather than
// the world.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, mvp math3d.Mat4, lightDir, viewDir math3d.Vec3) {
	n := mesh.VertexCount()
	if cap(r.projected) < n {
		r.projected = make([]math3d.Vec3, n)
	}
	projected := r.projected[:n]
	for i := range projected {
		projected[i] = mvp.MulVec3(mesh.Position(i))
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		idx, ok := mesh.Triangle(i)
		if !ok {
			continue
		}

		intensity := FaceIntensity(
			mesh.Position(idx[0]),
			mesh.Position(idx[1]),
			mesh.Position(idx[2]),
			lightDir,
		)

		r.DrawTriangle(
			projected[idx[0]],
			projected[idx[1]],
			projected[idx[2]],
			viewDir,
			ShadeColor(r.BaseColor, intensity),
		)
	}
}

// toScreen maps NDC x and y to pixel coordinates, truncating toward zero.
// NDC +y is up while pixel rows grow downwards.
func (r *Rasterizer) toScreen(v math3d.Vec3) (x, y int) {
	x = int((v.X + 1) * 0.5 * float32(r.fb.Width))
	y = int((1 - (v.Y+1)*0.5) * float32(r.fb.Height))
	return x, y
}

func inNDC(v math3d.Vec3) bool {
	return v.IsFinite() && v.X >= -1 && v.X <= 1 && v.Y >= -1 && v.Y <= 1
}
