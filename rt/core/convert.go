package core

import "github.com/go-gl/mathgl/mgl32"

// The tracking service reports poses in its start-of-service frame: right handed,
// Z up, Y forward. Rendering uses a right handed Y-up frame with the camera looking
// down -Z. The two are related by a -90 degree turn about X, which in components is
// (x, y, z) -> (x, z, -y).

// ConvertPosition maps a start-of-service position into the render frame.
func ConvertPosition(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{p[0], p[2], -p[1]}
}

// ConvertOrientation maps a start-of-service rotation into the render frame.
// The rotation is conjugated by the axis change, which only permutes and flips the
// vector part, so unit length is preserved exactly.
func ConvertOrientation(q mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.V[0], q.V[2], -q.V[1]}}
}

// InvertPosition maps a render frame position back into the start-of-service frame.
func InvertPosition(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{p[0], -p[2], p[1]}
}

// InvertOrientation maps a render frame rotation back into the start-of-service frame.
func InvertOrientation(q mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.V[0], -q.V[2], q.V[1]}}
}

// PoseVectors turns the service's wire layout into mgl32 types.
// Orientation arrives as (x, y, z, w).
func PoseVectors(translation [3]float64, orientation [4]float64) (mgl32.Vec3, mgl32.Quat) {
	pos := mgl32.Vec3{float32(translation[0]), float32(translation[1]), float32(translation[2])}
	rot := mgl32.Quat{
		W: float32(orientation[3]),
		V: mgl32.Vec3{float32(orientation[0]), float32(orientation[1]), float32(orientation[2])},
	}
	return pos, rot
}
