// Copyright 2021 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const StandardTol = float32(1.0e-6)

func TolAssertEqualVector(t *testing.T, tol float32, vt, va Vector3) {
	t.Helper()
	assert.InDelta(t, vt.X, va.X, float64(tol))
	assert.InDelta(t, vt.Y, va.Y, float64(tol))
	assert.InDelta(t, vt.Z, va.Z, float64(tol))
}

func TestMatrix4(t *testing.T) {
	vx := Vec3(1, 0, 0)
	vy := Vec3(0, 1, 0)
	vz := Vec3(0, 0, 1)

	assert.Equal(t, vx, Identity4().MulVector3AsPoint(vx))
	assert.Equal(t, Vec3(2, 3, 4), Translation4(1, 3, 4).MulVector3AsPoint(vx))

	TolAssertEqualVector(t, StandardTol, Vec3(0, 0, -1), RotationY(Pi/2).MulVector3AsPoint(vx))
	TolAssertEqualVector(t, StandardTol, vz, RotationX(Pi/2).MulVector3AsPoint(vy))
	TolAssertEqualVector(t, StandardTol, vy, RotationZ(Pi/2).MulVector3AsPoint(vx))

	// multiplication order is *reverse* of "logical" order:
	// rotate 90 around Z first (x -> y), then translate.
	m := Translation4(0, 0, -3).Mul(RotationZ(Pi / 2))
	TolAssertEqualVector(t, StandardTol, Vec3(0, 1, -3), m.MulVector3AsPoint(vx))

	assert.Equal(t, RotationX(0.3), Identity4().Mul(RotationX(0.3)))
	assert.Equal(t, RotationX(0.3), RotationX(0.3).Mul(Identity4()))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0.1), Clamp(0.01, 0.1, 5))
	assert.Equal(t, float32(5), Clamp(7, 0.1, 5))
	assert.Equal(t, float32(1), Clamp(1, 0.1, 5))
}
