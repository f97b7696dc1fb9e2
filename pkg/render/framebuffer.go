// Package render provides software rasterization and image output for etch.
package render

import (
	"image"
)

// Framebuffer is a 2D array of pixels with (0, 0) at the top left.
type Framebuffer struct {
	Width  int     // Width in pixels
	Height int     // Height in pixels
	Pixels []Color // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Pixels start black with zero alpha.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Aspect returns width / height.
func (fb *Framebuffer) Aspect() float32 {
	return float32(fb.Width) / float32(fb.Height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Writes outside the frame are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns the zero color if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) with an integer DDA.
//
// The error term starts at half the major extent and loses the minor extent
// every step. A negative error takes a diagonal step and is paid back with
// the major extent; otherwise the step runs along the major axis. The line
// always covers max(|dx|, |dy|)+1 pixels, start and end included.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx, dy := x1-x0, y1-y0
	sx, sy := sign(dx), sign(dy)
	dx, dy = abs(dx), abs(dy)

	// Axial step, minor and major extents
	var px, py, minor, major int
	if dx > dy {
		px, py, minor, major = sx, 0, dy, dx
	} else {
		px, py, minor, major = 0, sy, dx, dy
	}

	x, y := x0, y0
	e := major / 2
	fb.SetPixel(x, y, c)

	for range major {
		e -= minor
		if e < 0 {
			e += major
			x += sx
			y += sy
		} else {
			x += px
			y += py
		}
		fb.SetPixel(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}
