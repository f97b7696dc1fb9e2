// Package scene builds and draws the etch scene: a grid of randomly rotated
// copies of one mesh in front of a fixed camera.
package scene

import (
	"log/slog"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/taigrr/etch/pkg/config"
	"github.com/taigrr/etch/pkg/math3d"
	"github.com/taigrr/etch/pkg/models"
	"github.com/taigrr/etch/pkg/render"
)

// PrepareMesh loads the configured model and normalizes it to
// cfg.TargetSize. A model that cannot be loaded is replaced by a UV sphere.
func PrepareMesh(cfg config.Config, log *slog.Logger) *models.Mesh {
	mesh, err := models.Load(cfg.Model)
	if err != nil {
		log.Warn("model unavailable, using sphere",
			"path", cfg.Model,
			"error", err,
		)
		mesh = models.NewUVSphere(cfg.Sphere.Lat, cfg.Sphere.Lon, cfg.Sphere.Radius)
	}

	if len(mesh.Normals) == 0 {
		mesh.EstimateNormals()
	}
	mesh.CenterAndScale(cfg.TargetSize)

	log.Debug("mesh ready",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
	)
	return mesh
}

// Instance places one copy of the mesh.
type Instance struct {
	Translate math3d.Mat4
	Rotate    math3d.Mat4
}

// Model returns the instance's model matrix with an extra spin about Y
// applied before the translation.
func (in Instance) Model(spin float32) math3d.Mat4 {
	return in.Translate.Mul(math3d.RotateY(spin)).Mul(in.Rotate)
}

// NewRand returns the generator used for instance rotations.
// A zero seed draws a fresh one; the seed in use is returned either way.
func NewRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed)), seed
}

// Instances lays out (2R+1)² instances on the grid, x in the outer loop and
// y in the inner one. Each gets a random rotation about cfg.RotationAxis in
// [-360°, 360°).
func Instances(cfg config.Config, rng *rand.Rand) []Instance {
	radius := 0
	if cfg.Grid.Radius != nil {
		radius = *cfg.Grid.Radius
	}

	side := 2*radius + 1
	out := make([]Instance, 0, side*side)
	for x := -radius; x <= radius; x++ {
		for y := -radius; y <= radius; y++ {
			pos := math3d.V3(
				float32(x)*cfg.Grid.Spacing,
				float32(y)*cfg.Grid.Spacing,
				cfg.Grid.Depth,
			)
			degrees := rng.Float32()*720 - 360
			out = append(out, Instance{
				Translate: math3d.Translate(pos),
				Rotate:    math3d.Rotate(cfg.RotationAxis, degrees*math32.Pi/180),
			})
		}
	}
	return out
}

// Renderer draws instances through a camera into the rasterizer's
// framebuffer.
type Renderer struct {
	Camera     *render.Camera
	Rasterizer *render.Rasterizer
	Light      math3d.Vec3
	ViewDir    math3d.Vec3

	// Skipped counts instances of the last Render that fell wholly outside
	// the frame and were never rasterized.
	Skipped int
}

// NewRenderer creates a renderer for fb using the projection and lighting
// settings in cfg. The camera sits at the origin looking down -Z.
func NewRenderer(cfg config.Config, fb *render.Framebuffer) *Renderer {
	cam := render.NewCamera()
	cam.SetFOV(cfg.FOVRadians())
	cam.SetAspectRatio(fb.Aspect())
	cam.SetClipPlanes(cfg.Near, cfg.Far)

	rast := render.NewRasterizer(fb)
	rast.Wireframe = cfg.Wireframe
	rast.DisableBackfaceCulling = !cfg.Culling()

	return &Renderer{
		Camera:     cam,
		Rasterizer: rast,
		Light:      cfg.Light,
		ViewDir:    cfg.ViewDir,
	}
}

// Resize retargets the renderer to fb and updates the aspect ratio.
func (r *Renderer) Resize(fb *render.Framebuffer) {
	r.Rasterizer.SetFramebuffer(fb)
	r.Camera.SetAspectRatio(fb.Aspect())
}

// Render draws every instance in order. Draw order is the only visibility
// rule: later instances paint over earlier ones. Instances whose bounds
// project wholly outside the frame are skipped. onInstance, if not nil, is
// called after each instance, skipped or not.
func (r *Renderer) Render(mesh render.MeshRenderer, instances []Instance, spin float32, onInstance func()) {
	r.Skipped = 0
	bounds := render.MeshBounds(mesh)
	viewProj := r.Camera.ViewProjectionMatrix()

	for _, in := range instances {
		mvp := viewProj.Mul(in.Model(spin))
		if render.NewFrustumFromMatrix(mvp).Offscreen(bounds) {
			r.Skipped++
		} else {
			r.Rasterizer.DrawMesh(mesh, mvp, r.Light, r.ViewDir)
		}
		if onInstance != nil {
			onInstance()
		}
	}
}
