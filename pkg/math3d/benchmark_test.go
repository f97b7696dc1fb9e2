package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := Rotate(V3(1, 1, 1), 0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Perspective(0.8, 1.333, 0.1, 100).Mul(Translate(V3(1, 2, -30)))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkRotate(b *testing.B) {
	axis := V3(1, 1, 1)

	for b.Loop() {
		_ = Rotate(axis, 1.1)
	}
}

func BenchmarkModelViewProjection(b *testing.B) {
	// Per-instance transform as built by the scene driver
	proj := Perspective(0.785, 1.333, 0.1, 100)
	view := LookAt(Zero3(), Forward(), Up())
	trans := Translate(V3(8, -8, -30))
	rot := Rotate(V3(1, 1, 1), 2.5)

	for b.Loop() {
		_ = proj.Mul(view).Mul(trans).Mul(rot)
	}
}
