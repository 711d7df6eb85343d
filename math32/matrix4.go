// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix4 is 4x4 matrix organized internally as column matrix,
// which is the layout WGSL expects for a mat4x4<f32> in a uniform buffer.
// Element (row r, column c) is at index c*4+r.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotationX returns a rotation matrix of the given angle in radians
// around the X axis.
func RotationX(angle float32) Matrix4 {
	s, c := Sincos(angle)
	m := Identity4()
	m[5] = c
	m[6] = s
	m[9] = -s
	m[10] = c
	return m
}

// RotationY returns a rotation matrix of the given angle in radians
// around the Y axis.
func RotationY(angle float32) Matrix4 {
	s, c := Sincos(angle)
	m := Identity4()
	m[0] = c
	m[2] = -s
	m[8] = s
	m[10] = c
	return m
}

// RotationZ returns a rotation matrix of the given angle in radians
// around the Z axis.
func RotationZ(angle float32) Matrix4 {
	s, c := Sincos(angle)
	m := Identity4()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// Translation4 returns a translation matrix for the given offsets.
func Translation4(x, y, z float32) Matrix4 {
	m := Identity4()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// Mul returns the matrix product m * other.
// Applied to a point, other is applied first, then m:
// the multiplication order is the reverse of the "logical" order.
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var r Matrix4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// MulVector3AsPoint multiplies the given point by this matrix,
// treating it as a homogeneous point with w = 1.
func (m Matrix4) MulVector3AsPoint(v Vector3) Vector3 {
	return Vec3(
		m[0]*v.X+m[4]*v.Y+m[8]*v.Z+m[12],
		m[1]*v.X+m[5]*v.Y+m[9]*v.Z+m[13],
		m[2]*v.X+m[6]*v.Y+m[10]*v.Z+m[14],
	)
}
