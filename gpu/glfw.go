// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// note: this file contains the glfw dependencies, for desktop platform builds.
// Everything here must be called on the main thread.

// Window is a glfw window with a WebGPU surface.
type Window struct {
	*glfw.Window

	// Instance is the WebGPU instance the surface was created from.
	Instance *wgpu.Instance

	// Surface presents to the window. It is owned by the [WebGPU]
	// backend returned from [Window.Backend].
	Surface *wgpu.Surface
}

// GLFWCreateWindow initializes glfw and opens a window of the given size
// with a WebGPU surface and no client API context.
// IMPORTANT: must be called on the main initial thread!
func GLFWCreateWindow(size image.Point, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("gpu: glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(size.X, size.Y, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("gpu: glfw window: %w", err)
	}
	inst := wgpu.CreateInstance(nil)
	w := &Window{
		Window:   window,
		Instance: inst,
		Surface:  inst.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window)),
	}
	return w, nil
}

// Backend returns a [WebGPU] backend presenting to the window.
func (w *Window) Backend() *WebGPU {
	return NewWebGPU(w.Instance, w.Surface)
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() image.Point {
	x, y := w.GetFramebufferSize()
	return image.Point{x, y}
}

// PollEvents processes pending window events, and returns false
// once the window has been asked to close.
func (w *Window) PollEvents() bool {
	if w.ShouldClose() {
		return false
	}
	glfw.PollEvents()
	return true
}

// Terminate destroys the window and shuts glfw down.
// Call after the backend has been released.
func (w *Window) Terminate() {
	w.Destroy()
	if w.Instance != nil {
		w.Instance.Release()
		w.Instance = nil
	}
	glfw.Terminate()
}
