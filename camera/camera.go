// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera provides the orbit camera state of the point cloud view:
// a rotation and a zoom factor, and the transform computed from them.
package camera

import (
	"fmt"

	"cogentcore.org/embedview/math32"
)

const (
	// MinZoom is the smallest allowed zoom factor.
	MinZoom float32 = 0.1

	// MaxZoom is the largest allowed zoom factor.
	MaxZoom float32 = 5.0

	// DefaultZoom is the zoom factor after a [State.Reset].
	DefaultZoom float32 = 1.0

	// ZoomStep is the multiplicative zoom step for one zoom in / out
	// action or one wheel notch.
	ZoomStep float32 = 1.2

	// Distance is how far the camera is backed away from the
	// origin along -Z, in render-space units.
	Distance float32 = 3
)

// State is the camera state: rotation in radians around each axis, and zoom.
// Rotation is unbounded; it wraps implicitly through the trigonometric
// functions. Zoom is always within [MinZoom, MaxZoom].
type State struct {

	// Rotation around the X, Y and Z axes, in radians.
	Rotation math32.Vector3

	// Zoom is the scale factor applied in the vertex stage.
	Zoom float32
}

// NewState returns a camera State in the default (reset) configuration.
func NewState() State {
	st := State{}
	st.Reset()
	return st
}

// Reset sets the rotation to zero and the zoom to [DefaultZoom].
func (st *State) Reset() {
	st.Rotation = math32.Vector3{}
	st.Zoom = DefaultZoom
}

// Rotate adds the given angles, in radians, to the rotation.
func (st *State) Rotate(dx, dy, dz float32) {
	st.Rotation = st.Rotation.Add(math32.Vec3(dx, dy, dz))
}

// ZoomBy multiplies the zoom by the given factor, clamped to
// [MinZoom, MaxZoom]. Non-positive or NaN factors are ignored.
func (st *State) ZoomBy(factor float32) {
	if !(factor > 0) {
		return
	}
	st.Zoom = ClampZoom(st.Zoom * factor)
}

// ZoomIn zooms in by one [ZoomStep].
func (st *State) ZoomIn() {
	st.ZoomBy(ZoomStep)
}

// ZoomOut zooms out by one [ZoomStep].
func (st *State) ZoomOut() {
	st.ZoomBy(1 / ZoomStep)
}

// Transform returns the combined view transform: the rotation applied
// in the order Y, then X, then Z, followed by the fixed translation
// that backs the camera away by [Distance].
func (st *State) Transform() math32.Matrix4 {
	rot := math32.RotationZ(st.Rotation.Z).Mul(math32.RotationX(st.Rotation.X).Mul(math32.RotationY(st.Rotation.Y)))
	return math32.Translation4(0, 0, -Distance).Mul(rot)
}

func (st State) String() string {
	return fmt.Sprintf("rotation: %v zoom: %g", st.Rotation, st.Zoom)
}

// ClampZoom clamps the given zoom to [MinZoom, MaxZoom].
// A NaN zoom becomes [DefaultZoom].
func ClampZoom(zoom float32) float32 {
	if math32.IsNaN(zoom) {
		return DefaultZoom
	}
	return math32.Clamp(zoom, MinZoom, MaxZoom)
}
