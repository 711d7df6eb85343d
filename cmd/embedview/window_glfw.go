// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package main

import (
	"image"

	"cogentcore.org/embedview/events"
	"cogentcore.org/embedview/gpu"
	"cogentcore.org/embedview/viewer"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// windowHost shows the viewer in a glfw window.
// All of its methods run on the main thread.
type windowHost struct {
	win     *gpu.Window
	backend *gpu.WebGPU
	cursor  image.Point
}

func newWindowHost(size image.Point, title string) (host, error) {
	win, err := gpu.GLFWCreateWindow(size, title)
	if err != nil {
		return nil, err
	}
	return &windowHost{win: win, backend: win.Backend()}, nil
}

func (h *windowHost) Backend() *gpu.WebGPU { return h.backend }

func (h *windowHost) SetTitle(title string) { h.win.SetTitle(title) }

func (h *windowHost) Poll() bool { return h.win.PollEvents() }

func (h *windowHost) Close() { h.win.Terminate() }

func (h *windowHost) Attach(v *viewer.Viewer) {
	ctrl := v.Controller()
	w := h.win.Window
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			ctrl.HandlePointer(events.NewPointer(events.PointerDown, events.Left, h.cursor))
		case glfw.Release:
			ctrl.HandlePointer(events.NewPointer(events.PointerUp, events.Left, h.cursor))
		}
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		h.cursor = image.Point{int(x), int(y)}
		ctrl.HandlePointer(events.NewPointer(events.PointerMove, events.NoButton, h.cursor))
	})
	w.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered {
			ctrl.HandlePointer(events.NewPointer(events.PointerLeave, events.NoButton, h.cursor))
		}
	})
	w.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		// glfw reports a positive offset for scrolling up
		ctrl.Wheel(events.MouseScroll{Where: h.cursor, Delta: float32(-yoff)})
	})
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeySpace:
			ctrl.TogglePlay()
		case glfw.KeyR:
			ctrl.Reset()
		case glfw.KeyEscape:
			h.win.SetShouldClose(true)
		}
	})
	w.SetCharCallback(func(_ *glfw.Window, char rune) {
		switch char {
		case '+', '=':
			ctrl.ZoomIn()
		case '-', '_':
			ctrl.ZoomOut()
		}
	})
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		v.Resize(image.Point{width, height})
	})
	v.Resize(h.win.Size())
}
