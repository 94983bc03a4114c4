package posegrid

import (
	"github.com/gekko3d/posegrid/rt/core"
	"github.com/gekko3d/posegrid/rt/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const hudFontSize = 16

// ClientModule puts a WebGPU backend behind an existing glfw window. The window
// must have been created with glfw.ClientAPI set to glfw.NoAPI.
type ClientModule struct {
	Window *glfw.Window
	Text   bool
}

func (mod ClientModule) Install(app *App, cmd *Commands) {
	if mod.Window == nil {
		panic("ClientModule: Window is nil")
	}

	// https://github.com/cogentcore/webgpu
	device, err := gpu.NewDevice(mod.Window)
	if err != nil {
		panic(err)
	}

	if mod.Text {
		tr, err := core.NewMonoTextRenderer(hudFontSize)
		if err != nil {
			app.Logger().Warnf("HUD font: %v", err)
		} else if err := device.EnableText(tr); err != nil {
			app.Logger().Warnf("HUD pass: %v", err)
		}
	}

	cmd.UseBackend("wgpu", &gpuBackend{device: device})
}

// gpuBackend adapts gpu.Device to Backend.
type gpuBackend struct {
	device *gpu.Device
}

func (b *gpuBackend) Resize(vp Viewport) error {
	b.device.Resize(vp.Width, vp.Height)
	return nil
}

func (b *gpuBackend) NewGridRenderer(mesh core.GridMesh, color [4]float32) (GridRenderer, error) {
	pass, err := gpu.NewGridRenderPass(b.device, mesh, color)
	if err != nil {
		return nil, err
	}
	return pass, nil
}

func (b *gpuBackend) BeginFrame(clear [4]float32, vp Viewport) error {
	return b.device.BeginFrame(clear, 0, 0, vp.Width, vp.Height)
}

func (b *gpuBackend) DrawText(items []core.TextItem) {
	b.device.DrawText(items)
}

func (b *gpuBackend) EndFrame() error {
	return b.device.EndFrame()
}

func (b *gpuBackend) Release() {
	b.device.Release()
}

var _ GridRenderer = (*gpu.GridRenderPass)(nil)
