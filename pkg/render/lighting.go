package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/etch/pkg/math3d"
)

// Flat shading terms. Intensity never drops below Ambient.
const (
	Ambient = 0.3
	Diffuse = 0.7
)

// FaceIntensity returns the flat shading intensity of a triangle lit by a
// directional light travelling along lightDir.
//
// The face normal is normalize(cross(v1-v0, v2-v0)); the diffuse factor is
// its dot product with the direction towards the light, clamped to [0, 1].
// Degenerate faces get ambient light only.
func FaceIntensity(v0, v1, v2, lightDir math3d.Vec3) float32 {
	n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	lum := n.Dot(lightDir.Negate().Normalize())
	if math32.IsNaN(lum) {
		lum = 0
	}
	return Ambient + Diffuse*clamp01(lum)
}

// ShadeColor scales base by intensity, channel by channel.
func ShadeColor(base math3d.Vec3, intensity float32) Color {
	return ColorFromVec3(base.Scale(intensity))
}

func clamp01(f float32) float32 {
	return math32.Max(0, math32.Min(1, f))
}
