// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import "cogentcore.org/embedview/math32"

// Delta is a change to a camera [State], as emitted by input handling
// and consumed by the render loop.
type Delta struct {

	// Reset resets the camera before the rest of the delta is applied.
	Reset bool

	// Rotate is added to the rotation, in radians.
	Rotate math32.Vector3

	// Zoom multiplies the zoom; 0 means no change.
	Zoom float32
}

// RotateDelta returns a Delta that rotates by the given angles.
func RotateDelta(dx, dy, dz float32) Delta {
	return Delta{Rotate: math32.Vec3(dx, dy, dz)}
}

// ZoomDelta returns a Delta that multiplies the zoom by factor.
func ZoomDelta(factor float32) Delta {
	return Delta{Zoom: factor}
}

// ResetDelta returns a Delta that resets the camera.
func ResetDelta() Delta {
	return Delta{Reset: true}
}

// IsZero returns true if applying the delta would not change anything.
func (d Delta) IsZero() bool {
	return !d.Reset && d.Rotate.IsNil() && (d.Zoom == 0 || d.Zoom == 1)
}

// Apply applies the given delta to the state.
func (st *State) Apply(d Delta) {
	if d.Reset {
		st.Reset()
	}
	if !d.Rotate.IsNil() {
		st.Rotate(d.Rotate.X, d.Rotate.Y, d.Rotate.Z)
	}
	if d.Zoom != 0 {
		st.ZoomBy(d.Zoom)
	}
}
