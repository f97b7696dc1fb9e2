package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// MaxImageSide is the largest width or height Encode will produce.
const MaxImageSide = 1 << 15

// Format is an output image format.
type Format string

// Supported output formats.
const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatTGA  Format = "tga"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatPPM, FormatPNG, FormatWebP, FormatTGA:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (use ppm, png, webp or tga)", name)
	}
}

// FormatFromPath infers the format from a file extension.
// Unknown extensions and "-" (stdout) give PPM.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "pnm" {
		return FormatPPM
	}
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatPPM
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool {
	return f != FormatPPM
}

// Encode writes the framebuffer to w in the given format.
// Raster formats are upscaled by an integer factor with nearest-neighbour
// sampling; PPM is always written at native size.
func (fb *Framebuffer) Encode(w io.Writer, format Format, scale int) error {
	if format == FormatPPM {
		return fb.WriteText(w)
	}

	if scale > 1 && (fb.Width > MaxImageSide/scale || fb.Height > MaxImageSide/scale) {
		return fmt.Errorf("%dx%d at scale %d exceeds %d pixels per side", fb.Width, fb.Height, scale, MaxImageSide)
	}

	img := fb.scaled(scale)

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("%s encode: %w", format, err)
	}
	return nil
}

// scaled returns an opaque copy of the frame, scale times larger.
func (fb *Framebuffer) scaled(scale int) *image.RGBA {
	src := fb.ToImage()
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
	}
	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
