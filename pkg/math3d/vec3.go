// Package math3d provides 3D math primitives for the etch rasterizer.
package math3d

import "github.com/chewxy/math32"

// Vec3 represents a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 creates a new Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return Vec3{0, 1, 0}
}

// Forward returns the world forward vector (0, 0, -1).
func Forward() Vec3 {
	return Vec3{0, 0, -1}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float32) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// ScalarMul returns the scalar product s * v.
func ScalarMul(s float32, v Vec3) Vec3 {
	return Vec3{s * v.X, s * v.Y, s * v.Z}
}

// Div returns the scalar division a / s.
// Dividing by zero follows IEEE-754 and yields Inf or NaN components.
func (a Vec3) Div(s float32) Vec3 {
	return Vec3{a.X / s, a.Y / s, a.Z / s}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the right-handed cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// LenSq returns the squared length (no sqrt).
func (a Vec3) LenSq() float32 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float32 {
	return math32.Sqrt(a.LenSq())
}

// Normalize returns the unit vector in the same direction.
// The caller must ensure the vector has non-zero length; a zero vector
// normalizes to NaN components.
func (a Vec3) Normalize() Vec3 {
	return a.Div(a.Len())
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math32.Min(a.X, b.X),
		math32.Min(a.Y, b.Y),
		math32.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math32.Max(a.X, b.X),
		math32.Max(a.Y, b.Y),
		math32.Max(a.Z, b.Z),
	}
}

// IsFinite reports whether every component is neither NaN nor infinite.
func (a Vec3) IsFinite() bool {
	return isFinite(a.X) && isFinite(a.Y) && isFinite(a.Z)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
