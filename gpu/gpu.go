// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu owns the WebGPU resources used to draw an embedding point cloud:
// the device and queue, the render pipeline, the uniform buffer and the point
// storage buffer. Points are expanded into screen-facing quads in the vertex
// shader, so no vertex buffers are bound.
//
// [Renderer] holds the lifecycle rules (disabled mode, buffer swaps, frame
// coalescing, disposal) and talks to the device through the [Backend]
// interface, which is implemented by [WebGPU].
package gpu

import (
	"fmt"

	"cogentcore.org/embedview/base/errors"
)

// Debug turns on verbose logging of resource creation and frame submission.
var Debug = false

// VerticesPerPoint is the number of vertices drawn for each point:
// two triangles forming a quad.
const VerticesPerPoint = 6

var (
	// ErrNoDevice is returned by [Backend.Init] when no compatible
	// adapter or device can be obtained.
	ErrNoDevice = errors.New("gpu: no compatible WebGPU adapter or device")

	// ErrBusy is returned by [Renderer.RenderFrame] when the previous
	// frame has not finished on the device. The request is remembered
	// and will be honored by the next call.
	ErrBusy = errors.New("gpu: previous frame still in flight")

	// ErrTooManyPoints is returned by [Backend.NewPointBuffer] when the
	// point data does not fit in one storage buffer binding.
	ErrTooManyPoints = errors.New("gpu: point set exceeds the storage binding limit")
)

// CheckPointBuffer returns [ErrTooManyPoints] if a point buffer of size
// bytes cannot be bound under the device limit of maxBinding bytes.
// A zero limit is treated as unknown and accepts any size.
func CheckPointBuffer(size, maxBinding uint64) error {
	if maxBinding == 0 || size <= maxBinding {
		return nil
	}
	return fmt.Errorf("%w: %d bytes, limit %d", ErrTooManyPoints, size, maxBinding)
}
