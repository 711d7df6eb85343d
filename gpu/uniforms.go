// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"unsafe"

	"cogentcore.org/embedview/math32"
)

// Uniforms is the per-frame uniform block. Its layout matches the
// Uniforms struct in points.wgsl, padded to a multiple of 16 bytes.
type Uniforms struct {

	// Transform is the column-major camera transform.
	Transform math32.Matrix4

	// Time is the animation time in seconds.
	Time float32

	// Zoom is the camera zoom factor.
	Zoom float32

	// Aspect is the target width divided by its height.
	Aspect float32

	pad float32
}

// UniformsSize is the size of [Uniforms] in bytes.
const UniformsSize = int(unsafe.Sizeof(Uniforms{}))
