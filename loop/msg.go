// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import (
	"fmt"
	"image"

	"cogentcore.org/embedview/camera"
)

// Kinds are the kinds of [Msg].
type Kinds int32

const (
	// RenderMsg requests a frame without changing anything.
	RenderMsg Kinds = iota

	// CameraMsg applies Msg.Camera and requests a frame.
	CameraMsg

	// PlayMsg switches to [Running].
	PlayMsg

	// PauseMsg switches to [Stopped].
	PauseMsg

	// ToggleMsg switches between [Running] and [Stopped].
	ToggleMsg

	// DataMsg replaces the point set with the projection of
	// Msg.Embeddings and requests a frame.
	DataMsg

	// ResizeMsg resizes the render target to Msg.Size.
	ResizeMsg
)

var kindNames = map[Kinds]string{
	RenderMsg: "Render",
	CameraMsg: "Camera",
	PlayMsg:   "Play",
	PauseMsg:  "Pause",
	ToggleMsg: "Toggle",
	DataMsg:   "Data",
	ResizeMsg: "Resize",
}

func (k Kinds) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kinds(%d)", int32(k))
}

// Msg is a request posted to a [Loop] from any goroutine and applied
// on the loop goroutine. Only the field matching Kind is used.
type Msg struct {
	Kind Kinds

	// Camera is the delta for a [CameraMsg].
	Camera camera.Delta

	// Embeddings is the new data set for a [DataMsg].
	// It is not modified by the loop.
	Embeddings [][]float32

	// Size is the new target size for a [ResizeMsg].
	Size image.Point
}

func (m Msg) String() string {
	switch m.Kind {
	case CameraMsg:
		return fmt.Sprintf("Camera{reset: %v, rotate: %v, zoom: %g}", m.Camera.Reset, m.Camera.Rotate, m.Camera.Zoom)
	case DataMsg:
		return fmt.Sprintf("Data{%d}", len(m.Embeddings))
	case ResizeMsg:
		return fmt.Sprintf("Resize{%v}", m.Size)
	}
	return m.Kind.String()
}
