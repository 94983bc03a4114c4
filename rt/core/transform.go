package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rigid placement in render space. Cameras never scale, so unlike a
// scene node there is no scale term.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Dirty    bool
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Dirty:    true,
	}
}

func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()

	return translate.Mul4(rotate)
}

func (t *Transform) WorldToObject() mgl32.Mat4 {
	// inv(M) = inv(R) * inv(T), inverse rotation is the conjugate for a unit quat.
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invRotate.Mul4(invTranslate)
}
