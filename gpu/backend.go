// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import "image"

// Buffer is a device-resident storage buffer holding packed point positions.
type Buffer interface {
	// Size returns the allocated size in bytes.
	Size() int

	// Destroy frees the device memory. The buffer must not be in use
	// by any submitted work.
	Destroy()
}

// Backend is the device-level half of the point renderer.
// All methods are called from the render goroutine.
type Backend interface {
	// Init acquires an adapter and device and builds the pipeline and
	// uniform buffer for a target of the given size. It returns an error
	// wrapping [ErrNoDevice] when no usable device exists.
	Init(size image.Point) error

	// SetSize reconfigures the render target after a resize.
	SetSize(size image.Point)

	// NewPointBuffer allocates a storage buffer holding data,
	// which is 3 float32 values per point.
	NewPointBuffer(data []float32) (Buffer, error)

	// WriteUniforms uploads the per-frame uniform block.
	WriteUniforms(u *Uniforms) error

	// Draw records and submits one frame drawing vertexCount vertices
	// from the given point buffer, and presents it.
	Draw(points Buffer, vertexCount uint32) error

	// Busy reports whether previously submitted work is still executing.
	Busy() bool

	// WaitIdle blocks until all submitted work has completed.
	WaitIdle()

	// Release frees every device resource. It must be safe to call
	// after a failed or partial Init, and more than once.
	Release()
}
