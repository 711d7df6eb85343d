// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interact translates raw pointer and wheel input into camera
// deltas and playback commands for the render loop.
package interact

import (
	"image"

	"cogentcore.org/embedview/camera"
	"cogentcore.org/embedview/events"
)

var (
	// Sensitivity is the rotation in radians per pixel of pointer drag.
	Sensitivity = float32(0.01)
)

// Sink receives the output of a [Controller]. Every camera delta
// is expected to trigger an immediate render.
type Sink interface {

	// ApplyCamera applies the given delta to the camera and renders.
	ApplyCamera(d camera.Delta)

	// SetPlaying turns auto-rotation on or off.
	SetPlaying(playing bool)

	// TogglePlaying flips auto-rotation.
	TogglePlaying()
}

// Controller holds the drag state of pointer input and emits camera
// deltas to its [Sink]. It never touches camera or render state itself.
// A Controller must be used from a single goroutine, typically the
// one delivering window events.
type Controller struct {
	sink Sink

	// dragging is true between a pointer down and the next up or leave.
	dragging bool

	// last is the most recent pointer position while dragging.
	last image.Point
}

// NewController returns a new Controller sending to the given sink.
func NewController(sink Sink) *Controller {
	return &Controller{sink: sink}
}

// Dragging returns true while a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// HandlePointer dispatches the given pointer event by type.
func (c *Controller) HandlePointer(ev events.Pointer) {
	switch ev.Type {
	case events.PointerDown:
		c.PointerDown(ev.Where)
	case events.PointerMove:
		c.PointerMove(ev.Where)
	case events.PointerUp:
		c.PointerUp()
	case events.PointerLeave:
		c.PointerLeave()
	}
}

// PointerDown records the anchor position and starts dragging.
func (c *Controller) PointerDown(pos image.Point) {
	c.dragging = true
	c.last = pos
}

// PointerMove rotates the camera by the distance moved since the last
// recorded position, if dragging: horizontal motion rotates around Y and
// vertical motion around X.
func (c *Controller) PointerMove(pos image.Point) {
	if !c.dragging {
		return
	}
	del := pos.Sub(c.last)
	c.last = pos
	if del == (image.Point{}) {
		return
	}
	c.sink.ApplyCamera(camera.RotateDelta(float32(del.Y)*Sensitivity, float32(del.X)*Sensitivity, 0))
}

// PointerUp ends dragging.
func (c *Controller) PointerUp() {
	c.dragging = false
}

// PointerLeave ends dragging.
func (c *Controller) PointerLeave() {
	c.dragging = false
}

// Wheel zooms in for a negative delta and out for a positive one,
// by one [camera.ZoomStep]. It returns true, meaning the event was
// consumed and the surface must not scroll natively.
func (c *Controller) Wheel(ev events.MouseScroll) bool {
	switch {
	case ev.Delta < 0:
		c.ZoomIn()
	case ev.Delta > 0:
		c.ZoomOut()
	}
	return true
}

// ZoomIn zooms in by one [camera.ZoomStep].
func (c *Controller) ZoomIn() {
	c.sink.ApplyCamera(camera.ZoomDelta(camera.ZoomStep))
}

// ZoomOut zooms out by one [camera.ZoomStep].
func (c *Controller) ZoomOut() {
	c.sink.ApplyCamera(camera.ZoomDelta(1 / camera.ZoomStep))
}

// Reset resets rotation and zoom, regardless of drag or play state.
func (c *Controller) Reset() {
	c.sink.ApplyCamera(camera.ResetDelta())
}

// Play turns auto-rotation on.
func (c *Controller) Play() {
	c.sink.SetPlaying(true)
}

// Pause turns auto-rotation off.
func (c *Controller) Pause() {
	c.sink.SetPlaying(false)
}

// TogglePlay flips auto-rotation.
func (c *Controller) TogglePlay() {
	c.sink.TogglePlaying()
}
