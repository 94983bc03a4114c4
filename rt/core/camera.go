package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFovY float32 = 65.0
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 100.0
)

// HeightOffset lifts the tracked point to eye height above the grid.
var HeightOffset = mgl32.Vec3{0, 1.3, 0}

// CameraState is the render camera driven by tracked poses.
// Matrices are rebuilt lazily on the next Get call after a setter runs.
type CameraState struct {
	Transform Transform
	Aspect    float32
	FovY      float32 // degrees
	Near      float32
	Far       float32

	projection      mgl32.Mat4
	view            mgl32.Mat4
	projectionDirty bool
}

func NewCameraState() *CameraState {
	return &CameraState{
		Transform:       *NewTransform(),
		Aspect:          1.0,
		FovY:            DefaultFovY,
		Near:            DefaultNear,
		Far:             DefaultFar,
		projectionDirty: true,
	}
}

func (c *CameraState) SetAspectRatio(aspect float32) {
	c.Aspect = aspect
	c.projectionDirty = true
}

func (c *CameraState) SetPosition(p mgl32.Vec3) {
	c.Transform.Position = p
	c.Transform.Dirty = true
}

func (c *CameraState) SetRotation(q mgl32.Quat) {
	c.Transform.Rotation = q
	c.Transform.Dirty = true
}

func (c *CameraState) Position() mgl32.Vec3 { return c.Transform.Position }
func (c *CameraState) Rotation() mgl32.Quat { return c.Transform.Rotation }

func (c *CameraState) GetProjectionMatrix() mgl32.Mat4 {
	if c.projectionDirty {
		c.projection = mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
		c.projectionDirty = false
	}
	return c.projection
}

// GetViewMatrix returns the inverse of the camera's world transform.
func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	if c.Transform.Dirty {
		c.view = c.Transform.WorldToObject()
		c.Transform.Dirty = false
	}
	return c.view
}

// GetForward is the viewing direction in render space (-Z in camera space).
func (c *CameraState) GetForward() mgl32.Vec3 {
	return c.Transform.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (c *CameraState) GetUp() mgl32.Vec3 {
	return c.Transform.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

func (c *CameraState) GetRight() mgl32.Vec3 {
	return c.Transform.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// AspectFromProjection recovers width/height from a matrix built by mgl32.Perspective.
func AspectFromProjection(m mgl32.Mat4) float32 {
	if m.At(0, 0) == 0 {
		return 0
	}
	return m.At(1, 1) / m.At(0, 0)
}
