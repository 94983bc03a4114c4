package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/posegrid/rt/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var ErrNoFrame = errors.New("no frame in progress")

// Device owns the WebGPU objects behind one window surface and brackets each
// frame: BeginFrame acquires the swapchain texture and opens a clearing render
// pass, EndFrame closes, submits and presents it.
type Device struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	Text *TextRenderPass

	frame *frame
}

type frame struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
}

// NewDevice creates a surface for the window and configures it for its current
// framebuffer size with vsync presentation.
func NewDevice(window *glfw.Window) (*Device, error) {
	width, height := window.GetFramebufferSize()
	return NewDeviceForSurface(wgpuglfw.GetSurfaceDescriptor(window), width, height)
}

func NewDeviceForSurface(desc *wgpu.SurfaceDescriptor, width, height int) (*Device, error) {
	d := &Device{}
	d.Instance = wgpu.CreateInstance(nil)
	d.Surface = d.Instance.CreateSurface(desc)

	adapter, err := d.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	d.Adapter = adapter

	d.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "posegrid device",
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	d.Queue = d.Device.GetQueue()

	caps := d.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		d.Release()
		return nil, errors.New("surface reports no formats")
	}
	d.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	d.Surface.Configure(d.Adapter, d.Device, d.Config)

	return d, nil
}

// EnableText sets up the overlay pass. Overlay text is optional, so a failure
// leaves the device usable without it.
func (d *Device) EnableText(tr *core.TextRenderer) error {
	if d.Text != nil {
		return nil
	}
	pass, err := NewTextRenderPass(d.Device, d.Queue, d.Config.Format, tr)
	if err != nil {
		return err
	}
	d.Text = pass
	return nil
}

// Resize reconfigures the swapchain. Zero sizes are ignored, the surface keeps
// its previous configuration until a usable size arrives.
func (d *Device) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if d.Config.Width == uint32(width) && d.Config.Height == uint32(height) {
		return
	}
	d.Config.Width = uint32(width)
	d.Config.Height = uint32(height)
	d.Surface.Configure(d.Adapter, d.Device, d.Config)
}

func (d *Device) BeginFrame(clear [4]float32, x, y, width, height int) error {
	if d.frame != nil {
		d.abortFrame()
	}

	texture, err := d.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("create surface view: %w", err)
	}
	encoder, err := d.Device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		texture.Release()
		return fmt.Errorf("create command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "posegrid frame",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(clear[0]),
				G: float64(clear[1]),
				B: float64(clear[2]),
				A: float64(clear[3]),
			},
		}},
	})
	pass.SetViewport(float32(x), float32(y), float32(width), float32(height), 0, 1)

	d.frame = &frame{texture: texture, view: view, encoder: encoder, pass: pass}
	return nil
}

// Pass is the render pass of the frame in progress, nil outside a frame.
func (d *Device) Pass() *wgpu.RenderPassEncoder {
	if d.frame == nil {
		return nil
	}
	return d.frame.pass
}

func (d *Device) DrawText(items []core.TextItem) {
	if d.frame == nil || d.Text == nil || len(items) == 0 {
		return
	}
	d.Text.Upload(items, int(d.Config.Width), int(d.Config.Height))
	d.Text.Draw(d.frame.pass)
}

func (d *Device) EndFrame() error {
	f := d.frame
	if f == nil {
		return ErrNoFrame
	}
	d.frame = nil
	defer f.texture.Release()
	defer f.view.Release()
	defer f.encoder.Release()

	if err := f.pass.End(); err != nil {
		f.pass.Release()
		return fmt.Errorf("end render pass: %w", err)
	}
	f.pass.Release()

	cmd, err := f.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	d.Queue.Submit(cmd)
	d.Surface.Present()
	return nil
}

func (d *Device) abortFrame() {
	f := d.frame
	d.frame = nil
	_ = f.pass.End()
	f.pass.Release()
	f.encoder.Release()
	f.view.Release()
	f.texture.Release()
}

func (d *Device) Release() {
	if d.frame != nil {
		d.abortFrame()
	}
	if d.Text != nil {
		d.Text.Release()
		d.Text = nil
	}
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}
	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}
	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}
	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
	if d.Instance != nil {
		d.Instance.Release()
		d.Instance = nil
	}
}
