// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"cogentcore.org/embedview/gpu"
	"cogentcore.org/embedview/viewer"
)

// host is what the viewer is shown in: a desktop window or nothing.
type host interface {

	// Backend returns the GPU backend drawing into the host.
	Backend() *gpu.WebGPU

	// Attach routes the host input events to v.
	Attach(v *viewer.Viewer)

	// SetTitle shows title on the host, if it has a title bar.
	SetTitle(title string)

	// Poll processes pending host events and returns false
	// once the host wants to quit.
	Poll() bool

	// Close releases the host, after the viewer has been disposed.
	Close()
}

// headlessHost renders into an offscreen texture and never quits
// on its own; interrupt the process to stop it.
type headlessHost struct {
	backend *gpu.WebGPU
}

func newHeadlessHost() *headlessHost {
	return &headlessHost{backend: gpu.NewWebGPU(nil, nil)}
}

func (h *headlessHost) Backend() *gpu.WebGPU    { return h.backend }
func (h *headlessHost) Attach(v *viewer.Viewer) {}
func (h *headlessHost) SetTitle(title string)   {}
func (h *headlessHost) Poll() bool              { return true }
func (h *headlessHost) Close()                  {}
