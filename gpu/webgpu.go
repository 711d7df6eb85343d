// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/embedview/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed points.wgsl
var pointsShader string

// minPointBuffer is the smallest point buffer allocated, so that an
// empty point cloud still has a valid storage binding.
const minPointBuffer = 16

// WebGPU is the [Backend] implementation on top of wgpu.
// With a nil Surface it renders into an offscreen texture.
type WebGPU struct {

	// ClearColor is the background color of each frame.
	ClearColor color.Color

	// PowerPreference selects between integrated and discrete adapters.
	PowerPreference wgpu.PowerPreference

	instance    *wgpu.Instance
	ownInstance bool
	surface     *wgpu.Surface
	adapter     *wgpu.Adapter
	device      *wgpu.Device
	queue       *wgpu.Queue
	config      *wgpu.SurfaceConfiguration
	format      wgpu.TextureFormat
	size        image.Point

	target     *wgpu.Texture
	targetView *wgpu.TextureView

	shader    *wgpu.ShaderModule
	pipeline  *wgpu.RenderPipeline
	uniforms  *wgpu.Buffer
	bindGroup *wgpu.BindGroup

	// bound is the point buffer bindGroup refers to.
	bound *wgpu.Buffer

	// maxBinding is the device storage buffer binding limit in bytes.
	maxBinding uint64
}

// NewWebGPU returns a backend that presents to the given surface,
// created from instance. Both may be nil for offscreen rendering.
func NewWebGPU(instance *wgpu.Instance, surface *wgpu.Surface) *WebGPU {
	return &WebGPU{
		ClearColor:      color.RGBA{12, 14, 22, 255},
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
		instance:        instance,
		surface:         surface,
	}
}

// Offscreen reports whether frames go to an offscreen texture.
func (wg *WebGPU) Offscreen() bool {
	return wg.surface == nil
}

func (wg *WebGPU) Init(size image.Point) error {
	if wg.instance == nil {
		wg.instance = wgpu.CreateInstance(nil)
		wg.ownInstance = true
	}
	adapter, err := wg.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: wg.surface,
		PowerPreference:   wg.PowerPreference,
	})
	if err != nil {
		return fmt.Errorf("%w: adapter: %w", ErrNoDevice, err)
	}
	if adapter == nil {
		return fmt.Errorf("%w: no adapter", ErrNoDevice)
	}
	wg.adapter = adapter
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "embedview"})
	if err != nil {
		return fmt.Errorf("%w: device: %w", ErrNoDevice, err)
	}
	wg.device = device
	wg.queue = device.GetQueue()
	wg.maxBinding = device.GetLimits().Limits.MaxStorageBufferBindingSize
	wg.size = size

	if err := wg.configureTarget(); err != nil {
		return err
	}
	if err := wg.configurePipeline(); err != nil {
		return err
	}
	wg.uniforms, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "uniforms",
		Size:  uint64(UniformsSize),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu.WebGPU: uniform buffer: %w", err)
	}
	return nil
}

// configureTarget configures the surface, or creates the offscreen
// texture, for the current size.
func (wg *WebGPU) configureTarget() error {
	width, height := uint32(max(wg.size.X, 1)), uint32(max(wg.size.Y, 1))
	if !wg.Offscreen() {
		caps := wg.surface.GetCapabilities(wg.adapter)
		if len(caps.Formats) == 0 {
			return fmt.Errorf("%w: surface has no formats", ErrNoDevice)
		}
		wg.format = caps.Formats[0]
		alpha := wgpu.CompositeAlphaModeAuto
		if len(caps.AlphaModes) > 0 {
			alpha = caps.AlphaModes[0]
		}
		wg.config = &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      wg.format,
			Width:       width,
			Height:      height,
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   alpha,
		}
		wg.surface.Configure(wg.adapter, wg.device, wg.config)
		return nil
	}

	wg.releaseTarget()
	wg.format = wgpu.TextureFormatRGBA8UnormSrgb
	tex, err := wg.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "offscreen",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wg.format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu.WebGPU: offscreen texture: %w", err)
	}
	wg.target = tex
	wg.targetView, err = tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu.WebGPU: offscreen view: %w", err)
	}
	return nil
}

func (wg *WebGPU) releaseTarget() {
	if wg.targetView != nil {
		wg.targetView.Release()
		wg.targetView = nil
	}
	if wg.target != nil {
		wg.target.Release()
		wg.target = nil
	}
}

func (wg *WebGPU) configurePipeline() error {
	shader, err := wg.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "points",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: pointsShader},
	})
	if err != nil {
		return fmt.Errorf("gpu.WebGPU: shader: %w", err)
	}
	wg.shader = shader
	wg.pipeline, err = wg.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "points",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    wg.format,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu.WebGPU: pipeline: %w", err)
	}
	return nil
}

func (wg *WebGPU) SetSize(size image.Point) {
	if wg.device == nil || size == wg.size {
		return
	}
	wg.size = size
	wg.WaitIdle()
	errors.Log(wg.configureTarget())
}

// pointBuffer is a storage buffer created by [WebGPU.NewPointBuffer].
type pointBuffer struct {
	buf  *wgpu.Buffer
	size int
}

func (pb *pointBuffer) Size() int { return pb.size }

func (pb *pointBuffer) Destroy() {
	if pb.buf == nil {
		return
	}
	pb.buf.Destroy()
	pb.buf.Release()
	pb.buf = nil
}

func (wg *WebGPU) NewPointBuffer(data []float32) (Buffer, error) {
	size := max(len(data)*4, minPointBuffer)
	if err := CheckPointBuffer(uint64(size), wg.maxBinding); err != nil {
		return nil, err
	}
	buf, err := wg.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "points",
		Size:  uint64(size),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := wg.queue.WriteBuffer(buf, 0, wgpu.ToBytes(data)); err != nil {
			buf.Destroy()
			buf.Release()
			return nil, err
		}
	}
	return &pointBuffer{buf: buf, size: size}, nil
}

func (wg *WebGPU) WriteUniforms(u *Uniforms) error {
	return wg.queue.WriteBuffer(wg.uniforms, 0, wgpu.ToBytes([]Uniforms{*u}))
}

// bind makes sure the bind group refers to buf.
func (wg *WebGPU) bind(buf *wgpu.Buffer) error {
	if wg.bindGroup != nil && wg.bound == buf {
		return nil
	}
	if wg.bindGroup != nil {
		wg.bindGroup.Release()
		wg.bindGroup = nil
	}
	layout := wg.pipeline.GetBindGroupLayout(0)
	defer layout.Release()
	bg, err := wg.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "points",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: wg.uniforms, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}
	wg.bindGroup = bg
	wg.bound = buf
	return nil
}

func (wg *WebGPU) clearValue() wgpu.Color {
	r, g, b, a := wg.ClearColor.RGBA()
	return wgpu.Color{
		R: float64(r) / 0xffff,
		G: float64(g) / 0xffff,
		B: float64(b) / 0xffff,
		A: float64(a) / 0xffff,
	}
}

func (wg *WebGPU) Draw(points Buffer, vertexCount uint32) error {
	pb, ok := points.(*pointBuffer)
	if !ok || pb.buf == nil {
		return fmt.Errorf("gpu.WebGPU: Draw: invalid point buffer %T", points)
	}
	if err := wg.bind(pb.buf); err != nil {
		return err
	}

	view := wg.targetView
	if !wg.Offscreen() {
		tex, err := wg.surface.GetCurrentTexture()
		if err != nil {
			return err
		}
		defer tex.Release()
		view, err = tex.CreateView(nil)
		if err != nil {
			return err
		}
		defer view.Release()
	}

	cmd, err := wg.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	rp := cmd.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wg.clearValue(),
		}},
	})
	rp.SetPipeline(wg.pipeline)
	rp.SetBindGroup(0, wg.bindGroup, nil)
	if vertexCount > 0 {
		rp.Draw(vertexCount, 1, 0, 0)
	}
	rp.End()
	rp.Release() // must happen before Finish
	cmdBuffer, err := cmd.Finish(nil)
	if err != nil {
		return err
	}
	wg.queue.Submit(cmdBuffer)
	cmdBuffer.Release()
	if !wg.Offscreen() {
		wg.surface.Present()
	}
	if Debug {
		slog.Debug("gpu.WebGPU: frame", "vertices", vertexCount)
	}
	return nil
}

func (wg *WebGPU) Busy() bool {
	if wg.device == nil {
		return false
	}
	return !wg.device.Poll(false, nil)
}

func (wg *WebGPU) WaitIdle() {
	if wg.device == nil {
		return
	}
	wg.device.Poll(true, nil)
}

func (wg *WebGPU) Release() {
	if wg.device != nil {
		wg.device.Poll(true, nil)
	}
	if wg.bindGroup != nil {
		wg.bindGroup.Release()
		wg.bindGroup = nil
	}
	wg.bound = nil
	if wg.uniforms != nil {
		wg.uniforms.Destroy()
		wg.uniforms.Release()
		wg.uniforms = nil
	}
	if wg.pipeline != nil {
		wg.pipeline.Release()
		wg.pipeline = nil
	}
	if wg.shader != nil {
		wg.shader.Release()
		wg.shader = nil
	}
	wg.releaseTarget()
	if wg.queue != nil {
		wg.queue.Release()
		wg.queue = nil
	}
	if wg.device != nil {
		wg.device.Release()
		wg.device = nil
	}
	if wg.adapter != nil {
		wg.adapter.Release()
		wg.adapter = nil
	}
	if wg.surface != nil {
		wg.surface.Release()
		wg.surface = nil
	}
	if wg.ownInstance && wg.instance != nil {
		wg.instance.Release()
		wg.instance = nil
	}
}
