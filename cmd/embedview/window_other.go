// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build offscreen || !((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package main

import (
	"image"

	"cogentcore.org/embedview/base/errors"
)

func newWindowHost(size image.Point, title string) (host, error) {
	return nil, errors.New("embedview: no window support in this build")
}
