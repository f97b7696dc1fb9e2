package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestWriteTextExact(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.SetPixel(0, 0, RGB(255, 0, 0))
	fb.SetPixel(1, 0, RGB(0, 255, 0))
	fb.SetPixel(0, 1, RGB(0, 0, 255))
	// (1, 1) never drawn

	want := "P3\n2 2\n255\n" +
		"255 0 0 0 255 0 \n" +
		"0 0 255 0 0 0 \n" +
		"\n"

	var buf bytes.Buffer
	if err := fb.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := fb.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestWriteTextLayout(t *testing.T) {
	fb := NewFramebuffer(7, 3)
	fb.Clear(RGB(102, 153, 255))

	lines := strings.Split(fb.String(), "\n")
	// header(3) + rows(3) + blank line + trailing split element
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}
	if lines[1] != "7 3" {
		t.Errorf("size line = %q", lines[1])
	}
	for _, row := range lines[3:6] {
		if row != strings.Repeat("102 153 255 ", 7) {
			t.Errorf("row = %q", row)
		}
	}
	if lines[6] != "" || lines[7] != "" {
		t.Errorf("missing trailing blank line")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTextError(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	if err := fb.WriteText(failWriter{}); err == nil {
		t.Error("expected write error")
	}
}
