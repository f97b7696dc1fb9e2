package math3d

// Vec4 represents a homogeneous 3D point.
type Vec4 struct {
	X, Y, Z, W float32
}

// V4FromV3 creates a Vec4 from Vec3 with specified W.
func V4FromV3(v Vec3, w float32) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// PerspectiveDivide returns Vec3 after dividing by W.
// W must be non-zero; a zero W yields Inf or NaN components.
func (v Vec4) PerspectiveDivide() Vec3 {
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}
