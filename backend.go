package posegrid

import (
	"github.com/gekko3d/posegrid/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewport is the drawable surface size in pixels.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 0
	}
	return float32(v.Width) / float32(v.Height)
}

// GridRenderer draws the static ground grid with the supplied camera matrices.
type GridRenderer interface {
	Render(projection, view mgl32.Mat4)
	Release()
}

// Backend is the GPU side of a frame: it owns the surface, hands out grid
// renderers and brackets each frame with a clear and a submit.
type Backend interface {
	Resize(vp Viewport) error
	NewGridRenderer(mesh core.GridMesh, color [4]float32) (GridRenderer, error)
	BeginFrame(clear [4]float32, vp Viewport) error
	DrawText(items []core.TextItem)
	EndFrame() error
	Release()
}

// headlessBackend draws nothing. It lets an App run its pose and camera logic
// without a window, e.g. from tests or tools.
type headlessBackend struct{}

type headlessGrid struct{}

func (headlessGrid) Render(projection, view mgl32.Mat4) {}
func (headlessGrid) Release()                           {}

func (headlessBackend) Resize(vp Viewport) error { return nil }
func (headlessBackend) NewGridRenderer(mesh core.GridMesh, color [4]float32) (GridRenderer, error) {
	return headlessGrid{}, nil
}
func (headlessBackend) BeginFrame(clear [4]float32, vp Viewport) error { return nil }
func (headlessBackend) DrawText(items []core.TextItem)                 {}
func (headlessBackend) EndFrame() error                                { return nil }
func (headlessBackend) Release()                                       {}
