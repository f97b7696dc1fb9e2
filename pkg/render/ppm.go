package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteText writes the framebuffer as a plain-text PPM (P3) image.
//
// Every pixel is written as "r g b " followed by a newline at the end of each
// row, and the image ends with one blank line.
func (fb *Framebuffer) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height)

	// r, g and b are at most 3 digits each
	buf := make([]byte, 0, 12)
	for y := range fb.Height {
		for _, c := range fb.Pixels[y*fb.Width : (y+1)*fb.Width] {
			buf = buf[:0]
			buf = strconv.AppendUint(buf, uint64(c.R), 10)
			buf = append(buf, ' ')
			buf = strconv.AppendUint(buf, uint64(c.G), 10)
			buf = append(buf, ' ')
			buf = strconv.AppendUint(buf, uint64(c.B), 10)
			buf = append(buf, ' ')
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}

// String returns the P3 text produced by WriteText.
func (fb *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow(16 + fb.Width*fb.Height*12 + fb.Height + 1)
	_ = fb.WriteText(&sb)
	return sb.String()
}
