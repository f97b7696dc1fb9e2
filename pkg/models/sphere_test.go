package models

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/taigrr/etch/pkg/math3d"
)

func TestUVSphereTopology(t *testing.T) {
	tests := []struct {
		lat, lon int
	}{
		{20, 20},
		{3, 4},
		{1, 1},
	}

	for _, tc := range tests {
		m := NewUVSphere(tc.lat, tc.lon, 1)
		if got, want := m.VertexCount(), (tc.lat+1)*(tc.lon+1); got != want {
			t.Errorf("%dx%d: vertices = %d, want %d", tc.lat, tc.lon, got, want)
		}
		if got, want := m.TriangleCount(), 2*tc.lat*tc.lon; got != want {
			t.Errorf("%dx%d: triangles = %d, want %d", tc.lat, tc.lon, got, want)
		}
		for i := range m.Faces {
			if _, ok := m.Triangle(i); !ok {
				t.Errorf("%dx%d: face %d out of range", tc.lat, tc.lon, i)
			}
		}
	}
}

func TestUVSphereFaceOrder(t *testing.T) {
	m := NewUVSphere(20, 20, 1.5)

	// First quad: a=0, b=21, c=1, d=22
	if got := m.Faces[0].V; got[0] != 0 || got[1] != 21 || got[2] != 1 {
		t.Errorf("face 0 = %v, want [0 21 1]", got)
	}
	if got := m.Faces[1].V; got[0] != 1 || got[1] != 21 || got[2] != 22 {
		t.Errorf("face 1 = %v, want [1 21 22]", got)
	}
}

func TestUVSphereRadius(t *testing.T) {
	m := NewUVSphere(8, 12, 1.5)
	for i, v := range m.Vertices {
		if d := math32.Abs(v.Len() - 1.5); d > 1e-5 {
			t.Errorf("vertex %d at distance %v, want 1.5", i, v.Len())
		}
	}

	if m.Vertices[0] != math3d.V3(0, 1.5, 0) {
		t.Errorf("north pole = %v, want (0, 1.5, 0)", m.Vertices[0])
	}
}

func TestUVSphereEmpty(t *testing.T) {
	m := NewUVSphere(0, 10, 1)
	if m.VertexCount() != 0 || m.TriangleCount() != 0 {
		t.Errorf("zero segments should give an empty mesh")
	}
}
