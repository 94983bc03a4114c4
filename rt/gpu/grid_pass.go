package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/posegrid/rt/core"
	"github.com/gekko3d/posegrid/rt/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// GridUniformSize is mvp (64) + color (16).
const GridUniformSize = 80

// ClipSpaceFix remaps OpenGL-style depth [-1, 1] to WebGPU's [0, 1].
var ClipSpaceFix = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// GridRenderPass draws a static line-list grid into the device's current pass.
type GridRenderPass struct {
	Pipeline      *wgpu.RenderPipeline
	BindGroup     *wgpu.BindGroup
	VertexBuffer  *wgpu.Buffer
	UniformBuffer *wgpu.Buffer
	VertexCount   uint32
	Color         [4]float32

	device *Device
}

func NewGridRenderPass(d *Device, mesh core.GridMesh, color [4]float32) (*GridRenderPass, error) {
	if len(mesh.Vertices) == 0 {
		return nil, errors.New("grid mesh has no vertices")
	}

	shaderModule, err := d.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "GridShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.GridWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("create grid shader: %w", err)
	}
	defer shaderModule.Release()

	pipeline, err := d.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "GridPipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.GridVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{{
					Format:         wgpu.VertexFormatFloat32x3,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    d.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create grid pipeline: %w", err)
	}

	p := &GridRenderPass{
		Pipeline:    pipeline,
		VertexCount: uint32(len(mesh.Vertices)),
		Color:       color,
		device:      d,
	}

	vSize := uint64(len(mesh.Vertices)) * uint64(unsafe.Sizeof(core.GridVertex{}))
	p.VertexBuffer, err = d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "GridVertexBuffer",
		Size:  vSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create grid vertex buffer: %w", err)
	}
	d.Queue.WriteBuffer(p.VertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&mesh.Vertices[0])), vSize))

	p.UniformBuffer, err = d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "GridUniformBuffer",
		Size:  GridUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create grid uniform buffer: %w", err)
	}

	p.BindGroup, err = d.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "GridBG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  p.UniformBuffer,
			Size:    GridUniformSize,
		}},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create grid bind group: %w", err)
	}

	return p, nil
}

// GridUniforms packs the WGSL GridUniforms struct.
func GridUniforms(projection, view mgl32.Mat4, color [4]float32) []byte {
	buf := make([]byte, GridUniformSize)
	mvp := ClipSpaceFix.Mul4(projection).Mul4(view)
	for i, v := range mvp {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range color {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	return buf
}

// Render uploads the camera matrices and records one draw. Outside a frame it
// does nothing.
func (p *GridRenderPass) Render(projection, view mgl32.Mat4) {
	pass := p.device.Pass()
	if pass == nil {
		return
	}

	p.device.Queue.WriteBuffer(p.UniformBuffer, 0, GridUniforms(projection, view, p.Color))

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.Draw(p.VertexCount, 1, 0, 0)
}

func (p *GridRenderPass) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.UniformBuffer != nil {
		p.UniformBuffer.Release()
		p.UniformBuffer = nil
	}
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
		p.VertexBuffer = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}
