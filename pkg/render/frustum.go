package render

import (
	"github.com/taigrr/etch/pkg/math3d"
)

// offscreenMargin keeps boxes that only graze a plane.
const offscreenMargin = 1e-5

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float32
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum plus the eye plane
// (clip w = 0). Every normal points inward.
type Frustum struct {
	Planes [6]Plane
	Eye    Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a projection matrix
// (Gribb/Hartmann). With a full model-view-projection matrix the planes
// are in the model's object space.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	var f Frustum

	// Row i element j is at m[i + j*4]
	row := func(i int) (math3d.Vec3, float32) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	n0, d0 := row(0)
	n1, d1 := row(1)
	n2, d2 := row(2)
	n3, d3 := row(3)

	f.Planes[FrustumLeft] = Plane{n3.Add(n0), d3 + d0}
	f.Planes[FrustumRight] = Plane{n3.Sub(n0), d3 - d0}
	f.Planes[FrustumBottom] = Plane{n3.Add(n1), d3 + d1}
	f.Planes[FrustumTop] = Plane{n3.Sub(n1), d3 - d1}
	f.Planes[FrustumNear] = Plane{n3.Add(n2), d3 + d2}
	f.Planes[FrustumFar] = Plane{n3.Sub(n2), d3 - d2}
	f.Eye = Plane{n3, d3}

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	f.Eye.Normalize()

	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// MeshBounds returns the bounding box of every vertex in mesh.
// An empty mesh gives a zero box.
func MeshBounds(mesh MeshRenderer) AABB {
	n := mesh.VertexCount()
	if n == 0 {
		return AABB{}
	}
	box := AABB{Min: mesh.Position(0), Max: mesh.Position(0)}
	for i := 1; i < n; i++ {
		p := mesh.Position(i)
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// positive returns the corner furthest along n.
func (b AABB) positive(n math3d.Vec3) math3d.Vec3 {
	return math3d.V3(
		pick(n.X >= 0, b.Max.X, b.Min.X),
		pick(n.Y >= 0, b.Max.Y, b.Min.Y),
		pick(n.Z >= 0, b.Max.Z, b.Min.Z),
	)
}

// negative returns the corner furthest against n.
func (b AABB) negative(n math3d.Vec3) math3d.Vec3 {
	return math3d.V3(
		pick(n.X >= 0, b.Min.X, b.Max.X),
		pick(n.Y >= 0, b.Min.Y, b.Max.Y),
		pick(n.Z >= 0, b.Min.Z, b.Max.Z),
	)
}

func pick(cond bool, a, b float32) float32 {
	if cond {
		return a
	}
	return b
}

// Offscreen reports whether every point of box projects outside the
// [-1, 1] NDC square. That holds when the box is wholly in front of the eye
// and wholly outside one of the four side planes. Depth is not considered,
// since the rasterizer draws regardless of depth.
func (f Frustum) Offscreen(box AABB) bool {
	if f.Eye.DistanceToPoint(box.negative(f.Eye.Normal)) <= offscreenMargin {
		return false
	}
	for _, i := range [...]int{FrustumLeft, FrustumRight, FrustumBottom, FrustumTop} {
		plane := f.Planes[i]
		if plane.DistanceToPoint(box.positive(plane.Normal)) < -offscreenMargin {
			return true
		}
	}
	return false
}
