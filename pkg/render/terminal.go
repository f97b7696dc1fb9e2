package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalSize returns the framebuffer size that fills a cols x rows
// terminal area. Each cell shows two stacked pixels.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw converts the framebuffer to terminal cells and draws them on the
// screen.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ (upper half block) with fg=top pixel and bg=bottom pixel
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor maps never-drawn pixels to the terminal default.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
