// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/embedview/base/errors"
	"cogentcore.org/embedview/camera"
	"cogentcore.org/embedview/points"
)

// Renderer manages the point cloud's device resources through a [Backend].
// It is not safe for concurrent use: every method must be called from
// the goroutine that runs the render loop.
//
// If the backend reports [ErrNoDevice] at Init, the Renderer goes into
// disabled mode, in which every other method is a no-op.
type Renderer struct {

	// Backend is the device implementation.
	Backend Backend

	size        image.Point
	points      Buffer
	pointCount  int
	initialized bool
	disabled    bool
	disposed    bool
	pending     bool
	frames      int
}

// NewRenderer returns a new [Renderer] drawing through the given backend.
func NewRenderer(b Backend) *Renderer {
	return &Renderer{Backend: b}
}

// Init acquires the device and builds the pipeline for a target of
// the given size, then allocates an empty point buffer so that frames
// can be drawn before any data arrives. A missing device is not an
// error: the renderer logs a warning and becomes disabled.
func (rn *Renderer) Init(size image.Point) error {
	if rn.initialized || rn.disabled || rn.disposed {
		return nil
	}
	rn.size = size
	err := rn.Backend.Init(size)
	if errors.Is(err, ErrNoDevice) {
		slog.Warn("gpu.Renderer: rendering disabled", "err", err)
		rn.disabled = true
		return nil
	}
	if err != nil {
		return errors.Log(fmt.Errorf("gpu.Renderer Init: %w", err))
	}
	rn.initialized = true
	return rn.UpdatePoints(nil)
}

// active reports whether the device is usable.
func (rn *Renderer) active() bool {
	return rn.initialized && !rn.disabled && !rn.disposed
}

// Disabled reports whether no device could be obtained.
func (rn *Renderer) Disabled() bool {
	return rn.disabled
}

// Disposed reports whether [Renderer.Dispose] has been called.
func (rn *Renderer) Disposed() bool {
	return rn.disposed
}

// PointCount returns the number of points in the current buffer.
func (rn *Renderer) PointCount() int {
	return rn.pointCount
}

// VertexCount returns the number of vertices the next frame draws.
func (rn *Renderer) VertexCount() uint32 {
	return uint32(rn.pointCount * VerticesPerPoint)
}

// Pending reports whether a frame request was deferred because the
// device was busy.
func (rn *Renderer) Pending() bool {
	return rn.pending
}

// Frames returns the number of frames submitted so far.
func (rn *Renderer) Frames() int {
	return rn.frames
}

// Size returns the current render target size.
func (rn *Renderer) Size() image.Point {
	return rn.size
}

// SetSize updates the render target after a resize.
// Empty sizes, as reported for minimized windows, are ignored.
func (rn *Renderer) SetSize(size image.Point) {
	if size.X <= 0 || size.Y <= 0 || size == rn.size {
		return
	}
	rn.size = size
	if rn.active() {
		rn.Backend.SetSize(size)
	}
}

// UpdatePoints replaces the point buffer with one holding pts.
// The new buffer is allocated first: on failure the previous buffer
// and count stay in place and the error is returned. On success the
// device is drained before the old buffer is destroyed, so it is never
// freed while a submitted frame still reads it.
func (rn *Renderer) UpdatePoints(pts []points.Point) error {
	if !rn.active() {
		return nil
	}
	buf, err := rn.Backend.NewPointBuffer(points.Flatten(pts))
	if err != nil {
		return errors.Log(fmt.Errorf("gpu.Renderer UpdatePoints: %d points: %w", len(pts), err))
	}
	if rn.points != nil {
		rn.Backend.WaitIdle()
		rn.points.Destroy()
	}
	rn.points = buf
	rn.pointCount = len(pts)
	if Debug {
		slog.Debug("gpu.Renderer: point buffer", "points", rn.pointCount, "bytes", buf.Size())
	}
	return nil
}

// RenderFrame uploads the uniforms for the given camera and time and
// submits one frame. If the device is still busy with the previous
// frame, nothing is submitted, the request is marked pending and
// [ErrBusy] is returned.
func (rn *Renderer) RenderFrame(cam camera.State, time float32) error {
	if !rn.active() {
		return nil
	}
	if rn.Backend.Busy() {
		rn.pending = true
		return ErrBusy
	}
	rn.pending = false
	u := Uniforms{
		Transform: cam.Transform(),
		Time:      time,
		Zoom:      cam.Zoom,
		Aspect:    rn.aspect(),
	}
	if err := rn.Backend.WriteUniforms(&u); err != nil {
		return errors.Log(fmt.Errorf("gpu.Renderer RenderFrame: uniforms: %w", err))
	}
	if err := rn.Backend.Draw(rn.points, rn.VertexCount()); err != nil {
		return errors.Log(fmt.Errorf("gpu.Renderer RenderFrame: draw: %w", err))
	}
	rn.frames++
	return nil
}

func (rn *Renderer) aspect() float32 {
	if rn.size.X <= 0 || rn.size.Y <= 0 {
		return 1
	}
	return float32(rn.size.X) / float32(rn.size.Y)
}

// Dispose waits for the device to go idle and releases every resource.
// It is safe to call more than once, and in disabled mode.
func (rn *Renderer) Dispose() {
	if rn.disposed {
		return
	}
	rn.disposed = true
	if rn.points != nil {
		rn.Backend.WaitIdle()
		rn.points.Destroy()
		rn.points = nil
	}
	rn.pointCount = 0
	rn.pending = false
	rn.Backend.Release()
}
