package render

import (
	"image/color"

	"github.com/taigrr/etch/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
	ColorSky   = color.RGBA{102, 153, 255, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// ColorFromVec3 converts a color with channels in [0, 1] to 8-bit RGB.
// Each channel is multiplied by 255 and truncated toward zero. Values past
// either end saturate and NaN becomes 0.
func ColorFromVec3(v math3d.Vec3) Color {
	return RGB(channel(v.X), channel(v.Y), channel(v.Z))
}

func channel(f float32) uint8 {
	f *= 255
	switch {
	case f >= 255:
		return 255
	case f > 0:
		return uint8(f)
	default:
		// Negative and NaN
		return 0
	}
}
