package render

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/taigrr/etch/pkg/math3d"
)

// mockMesh implements MeshRenderer for testing.
type mockMesh struct {
	vertices []math3d.Vec3
	faces    [][]int
}

func (m *mockMesh) VertexCount() int               { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int             { return len(m.faces) }
func (m *mockMesh) Position(i int) math3d.Vec3     { return m.vertices[i] }
func (m *mockMesh) Triangle(i int) ([3]int, bool) {
	f := m.faces[i]
	if len(f) != 3 {
		return [3]int{}, false
	}
	return [3]int{f[0], f[1], f[2]}, true
}

var (
	towardsViewer = math3d.V3(0, 0, 1)

	// Counter-clockwise in NDC, so its normal is +Z.
	triA = math3d.V3(-0.5, -0.5, 0)
	triB = math3d.V3(0.5, -0.5, 0)
	triC = math3d.V3(0, 0.5, 0)
)

func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	return NewRasterizer(fb), fb
}

func countColored(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestIsInsideTriangle(t *testing.T) {
	// Screen-space triangle (5,15) (15,15) (10,5)
	tests := []struct {
		name   string
		px, py int
		want   bool
	}{
		{"center", 10, 12, true},
		{"near apex", 10, 7, true},
		{"outside left", 2, 12, false},
		{"outside below", 10, 17, false},
		{"outside right of apex", 14, 6, false},
		{"vertex", 5, 15, false},
		{"bottom edge", 10, 15, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInsideTriangle(tc.px, tc.py, 5, 15, 15, 15, 10, 5); got != tc.want {
				t.Errorf("IsInsideTriangle(%d, %d) = %v, want %v", tc.px, tc.py, got, tc.want)
			}
			// Winding does not matter.
			if got := IsInsideTriangle(tc.px, tc.py, 5, 15, 10, 5, 15, 15); got != tc.want {
				t.Errorf("reversed IsInsideTriangle(%d, %d) = %v, want %v", tc.px, tc.py, got, tc.want)
			}
		})
	}
}

func TestIsInsideDegenerateTriangle(t *testing.T) {
	// All three cross products vanish for a point on a zero-area triangle.
	if !IsInsideTriangle(2, 2, 0, 0, 4, 4, 8, 8) {
		t.Error("collinear point should have all-zero signs")
	}
}

func TestDrawTriangleFills(t *testing.T) {
	r, fb := createTestRasterizer(20, 20)

	if !r.DrawTriangle(triA, triB, triC, towardsViewer, ColorRed) {
		t.Fatal("front-facing triangle should be drawn")
	}

	// Pixel corners: (5,15) (15,15) (10,5)
	for _, p := range [][2]int{{10, 10}, {10, 12}, {8, 13}, {5, 15}, {15, 15}, {10, 5}} {
		if got := fb.GetPixel(p[0], p[1]); got != ColorRed {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}
	for _, p := range [][2]int{{0, 0}, {2, 12}, {19, 19}, {16, 15}, {10, 17}} {
		if got := fb.GetPixel(p[0], p[1]); got != (Color{}) {
			t.Errorf("pixel %v = %v, want untouched", p, got)
		}
	}

	if r.Stats != (Stats{Tested: 1, Drawn: 1}) {
		t.Errorf("stats = %+v", r.Stats)
	}
}

func TestDrawTriangleRejectsOutsideNDC(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c math3d.Vec3
	}{
		{"x past right", math3d.V3(-0.5, -0.5, 0), math3d.V3(1.01, -0.5, 0), triC},
		{"x past left", math3d.V3(-1.5, -0.5, 0), triB, triC},
		{"y past top", triA, triB, math3d.V3(0, 2, 0)},
		{"y past bottom", triA, math3d.V3(0.5, -1.2, 0), triC},
		{"NaN", triA, triB, math3d.V3(math32.NaN(), 0, 0)},
		{"Inf", triA, math3d.V3(math32.Inf(1), 0, 0), triC},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(20, 20)
			if r.DrawTriangle(tc.a, tc.b, tc.c, towardsViewer, ColorRed) {
				t.Error("triangle should be rejected")
			}
			if n := countColored(fb, ColorRed); n != 0 {
				t.Errorf("%d pixels drawn, want 0", n)
			}
			if r.Stats.Rejected != 1 || r.Stats.Drawn != 0 {
				t.Errorf("stats = %+v", r.Stats)
			}
		})
	}
}

func TestDrawTriangleBoundaryIsInside(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)
	ok := r.DrawTriangle(
		math3d.V3(-1, -1, 0),
		math3d.V3(1, -1, 0),
		math3d.V3(1, 1, 0),
		towardsViewer, ColorWhite,
	)
	if !ok {
		t.Error("vertices on the NDC border should be accepted")
	}
}

func TestDrawTriangleBackfaceCulling(t *testing.T) {
	r, fb := createTestRasterizer(20, 20)

	// Clockwise: normal is -Z
	if r.DrawTriangle(triA, triC, triB, towardsViewer, ColorRed) {
		t.Error("back-facing triangle should be culled")
	}
	if n := countColored(fb, ColorRed); n != 0 {
		t.Errorf("%d pixels drawn for culled triangle", n)
	}
	if r.Stats.Culled != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}

	// Looking the other way flips the decision.
	if !r.DrawTriangle(triA, triC, triB, towardsViewer.Negate(), ColorRed) {
		t.Error("triangle should face a reversed view direction")
	}

	r.ResetStats()
	r.DisableBackfaceCulling = true
	if !r.DrawTriangle(triA, triC, triB, towardsViewer, ColorBlue) {
		t.Error("culling disabled: triangle should be drawn")
	}
	if r.Stats.Culled != 0 || r.Stats.Drawn != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}
}

func TestDrawTriangleWireframe(t *testing.T) {
	r, fb := createTestRasterizer(20, 20)
	r.Wireframe = true

	r.DrawTriangle(triA, triB, triC, towardsViewer, ColorGreen)

	if got := fb.GetPixel(10, 12); got == ColorGreen {
		t.Error("wireframe should not fill the interior")
	}
	for _, p := range [][2]int{{5, 15}, {10, 15}, {15, 15}, {10, 5}} {
		if got := fb.GetPixel(p[0], p[1]); got != ColorGreen {
			t.Errorf("outline pixel %v = %v, want green", p, got)
		}
	}
}

func TestDrawMesh(t *testing.T) {
	mesh := &mockMesh{
		vertices: []math3d.Vec3{triA, triB, triC, math3d.V3(0.9, 0.9, 0)},
		faces: [][]int{
			{0, 1, 2},
			{0, 1, 2, 3}, // not a triangle, skipped
		},
	}

	tests := []struct {
		name     string
		lightDir math3d.Vec3
		want     Color
	}{
		{"lit head-on", math3d.V3(0, 0, -1), RGB(255, 255, 255)},
		{"lit from behind", math3d.V3(0, 0, 1), RGB(76, 76, 76)},
		{"default sun", math3d.V3(0.1, 0.1, -1), RGB(253, 253, 253)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(20, 20)
			r.DrawMesh(mesh, math3d.Identity(), tc.lightDir, towardsViewer)

			if got := fb.GetPixel(10, 12); got != tc.want {
				t.Errorf("center = %v, want %v", got, tc.want)
			}
			if r.Stats.Tested != 1 {
				t.Errorf("tested = %d, want 1", r.Stats.Tested)
			}
		})
	}
}

func TestDrawMeshUsesTransform(t *testing.T) {
	mesh := &mockMesh{
		vertices: []math3d.Vec3{triA, triB, triC},
		faces:    [][]int{{0, 1, 2}},
	}

	r, fb := createTestRasterizer(20, 20)
	// Pushing it right by one NDC unit moves a vertex out of frame.
	r.DrawMesh(mesh, math3d.Translate(math3d.V3(1, 0, 0)), math3d.V3(0, 0, -1), towardsViewer)
	if r.Stats.Rejected != 1 || countColored(fb, ColorWhite) != 0 {
		t.Errorf("translated triangle should be rejected, stats = %+v", r.Stats)
	}

	// Shading is taken from object space, so rotating the mesh about Y by
	// 180° flips it to a back face without changing its color.
	r.ResetStats()
	r.DisableBackfaceCulling = true
	r.DrawMesh(mesh, math3d.RotateY(math32.Pi), math3d.V3(0, 0, -1), towardsViewer)
	if got := fb.GetPixel(10, 12); got != ColorWhite {
		t.Errorf("center = %v, want white", got)
	}
}

func TestRasterizerRetarget(t *testing.T) {
	r, _ := createTestRasterizer(32, 24)

	fb := NewFramebuffer(8, 4)
	r.SetFramebuffer(fb)
	if r.Framebuffer() != fb {
		t.Error("SetFramebuffer did not retarget")
	}
}

func BenchmarkDrawTriangle(b *testing.B) {
	r, _ := createTestRasterizer(800, 600)

	for b.Loop() {
		r.DrawTriangle(triA, triB, triC, towardsViewer, ColorWhite)
	}
}

func BenchmarkDrawMesh(b *testing.B) {
	// Grid of small triangles covering the frame
	const n = 40
	mesh := &mockMesh{}
	for y := range n + 1 {
		for x := range n + 1 {
			mesh.vertices = append(mesh.vertices, math3d.V3(
				-0.9+1.8*float32(x)/n,
				-0.9+1.8*float32(y)/n,
				0,
			))
		}
	}
	for y := range n {
		for x := range n {
			a := y*(n+1) + x
			mesh.faces = append(mesh.faces, []int{a, a + 1, a + n + 1}, []int{a + 1, a + n + 2, a + n + 1})
		}
	}

	r, _ := createTestRasterizer(800, 600)
	light := math3d.V3(0.1, 0.1, -1)

	for b.Loop() {
		r.DrawMesh(mesh, math3d.Identity(), light, towardsViewer)
	}
}
