package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/etch/pkg/math3d"
)

// Camera represents a perspective camera looking from Position at Target.
type Camera struct {
	// Placement in world space
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	// Projection parameters
	FOV         float32 // Vertical field of view in radians
	AspectRatio float32 // Width / Height
	Near        float32 // Near clipping plane
	Far         float32 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera at the origin looking down -Z, with a 45°
// field of view. Its view matrix is the identity.
func NewCamera() *Camera {
	return &Camera{
		Position:      math3d.Zero3(),
		Target:        math3d.Forward(),
		Up:            math3d.Up(),
		FOV:           math32.Pi / 4,
		AspectRatio:   4.0 / 3.0,
		Near:          0.1,
		Far:           100,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.invalidateView()
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.invalidateView()
}

// SetUp sets the camera's up hint.
func (c *Camera) SetUp(up math3d.Vec3) {
	c.Up = up
	c.invalidateView()
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float32) {
	c.FOV = fov
	c.invalidateProjection()
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float32) {
	c.AspectRatio = aspect
	c.invalidateProjection()
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float32) {
	c.Near = near
	c.Far = far
	c.invalidateProjection()
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined projection * view matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

func (c *Camera) invalidateView() {
	c.viewDirty = true
	c.viewProjDirty = true
}

func (c *Camera) invalidateProjection() {
	c.projDirty = true
	c.viewProjDirty = true
}
