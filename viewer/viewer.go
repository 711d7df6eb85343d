// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewer provides [Viewer], the embedding point cloud viewer
// as seen by its host: construct it with [New], call [Viewer.Init] and
// [Viewer.Run] on the GPU goroutine, feed it data with
// [Viewer.OnDataChanged] and input through [Viewer.Controller], and
// release it with [Viewer.Dispose].
package viewer

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/embedview/base/errors"
	"cogentcore.org/embedview/gpu"
	"cogentcore.org/embedview/interact"
	"cogentcore.org/embedview/live"
	"cogentcore.org/embedview/loop"
)

// MaxLabels is the number of labels shown by the overlay.
const MaxLabels = 10

// Options are the construction inputs of a [Viewer].
// Start from [DefaultOptions], which turns AutoRotate on. Zero sizes,
// rotate steps and intervals get defaults in [New], but a zero AutoRotate
// is kept as is: a zero Options value starts paused.
type Options struct {

	// Embeddings is the initial data set.
	Embeddings [][]float32

	// Labels are the overlay labels. Their number is independent
	// of the number of embeddings.
	Labels []string

	// SessionID selects the push channel; empty disables live updates.
	SessionID string

	// AutoRotate starts the viewer playing. It is true in
	// [DefaultOptions] and false in a zero Options.
	AutoRotate bool

	// Size is the render target size.
	Size image.Point

	// RotateStep is the auto-rotation per frame in radians.
	RotateStep float32

	// FrameInterval is the frame period.
	FrameInterval time.Duration
}

// DefaultOptions returns the default [Options].
func DefaultOptions() Options {
	return Options{
		AutoRotate:    true,
		Size:          image.Point{800, 600},
		RotateStep:    loop.DefaultRotateStep,
		FrameInterval: loop.DefaultFrameInterval,
	}
}

// Viewer wires the render loop, the renderer, the interaction controller
// and the live update listener together.
type Viewer struct {

	// Options are the construction inputs.
	Options Options

	// Renderer owns the GPU resources.
	Renderer *gpu.Renderer

	// Loop runs the frames.
	Loop *loop.Loop

	// Listener receives pushed data sets.
	Listener *live.Listener

	controller *interact.Controller

	mu       sync.Mutex
	labels   []string
	running  bool
	disposed atomic.Bool
}

// New returns a new [Viewer] rendering through backend and listening
// on source, which may be nil when there is no push channel.
func New(opts Options, backend gpu.Backend, source live.Source) *Viewer {
	if opts.Size.X <= 0 || opts.Size.Y <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.RotateStep == 0 {
		opts.RotateStep = loop.DefaultRotateStep
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = loop.DefaultFrameInterval
	}
	v := &Viewer{Options: opts}
	v.Renderer = gpu.NewRenderer(backend)
	v.Loop = loop.New(v.Renderer, opts.AutoRotate)
	v.Loop.RotateStep = opts.RotateStep
	v.Loop.FrameInterval = opts.FrameInterval
	v.controller = interact.NewController(v.Loop)
	v.Listener = live.NewListener(source, opts.SessionID, v.OnDataChanged)
	v.labels = opts.Labels
	return v
}

// Init initializes the renderer and queues the initial data set.
// It must be called on the GPU goroutine. A missing GPU is not an
// error: the viewer then stays blank.
func (v *Viewer) Init() error {
	if v.disposed.Load() {
		return nil
	}
	if err := v.Renderer.Init(v.Options.Size); err != nil {
		return err
	}
	v.Loop.SetData(v.Options.Embeddings)
	return nil
}

// Run starts the live listener and runs the render loop until ctx is
// done, the loop is closed or [Viewer.Dispose] is called. It must be
// called on the GPU goroutine, after [Viewer.Init]. When Run returns
// because of Dispose, it releases the GPU resources itself.
func (v *Viewer) Run(ctx context.Context) error {
	v.mu.Lock()
	if v.disposed.Load() {
		v.mu.Unlock()
		return nil
	}
	v.running = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.running = false
		disposed := v.disposed.Load()
		v.mu.Unlock()
		if disposed {
			v.Renderer.Dispose()
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := v.Listener.Start(ctx); err != nil {
		// the viewer stays usable with the data it has
		slog.Warn("viewer: live updates unavailable", "err", err)
	}
	err := v.Loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// OnDataChanged replaces the data set. It may be called from any
// goroutine; the new points are uploaded before the next frame.
func (v *Viewer) OnDataChanged(embeddings [][]float32) {
	if v.disposed.Load() {
		return
	}
	v.Loop.SetData(embeddings)
}

// Resize changes the render target size. It may be called from any goroutine.
func (v *Viewer) Resize(size image.Point) {
	v.Loop.Resize(size)
}

// Controller returns the interaction controller for pointer and wheel input.
func (v *Viewer) Controller() *interact.Controller {
	return v.controller
}

// Play starts auto-rotation.
func (v *Viewer) Play() { v.controller.Play() }

// Pause stops auto-rotation.
func (v *Viewer) Pause() { v.controller.Pause() }

// TogglePlay flips auto-rotation.
func (v *Viewer) TogglePlay() { v.controller.TogglePlay() }

// Reset restores the default camera.
func (v *Viewer) Reset() { v.controller.Reset() }

// ZoomIn zooms in one step.
func (v *Viewer) ZoomIn() { v.controller.ZoomIn() }

// ZoomOut zooms out one step.
func (v *Viewer) ZoomOut() { v.controller.ZoomOut() }

// SetLabels replaces the overlay labels.
func (v *Viewer) SetLabels(labels []string) {
	v.mu.Lock()
	v.labels = labels
	v.mu.Unlock()
}

// Labels returns up to the first [MaxLabels] labels, for the overlay.
func (v *Viewer) Labels() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := min(len(v.labels), MaxLabels)
	ls := make([]string, n)
	copy(ls, v.labels[:n])
	return ls
}

// Disposed reports whether [Viewer.Dispose] has been called.
func (v *Viewer) Disposed() bool {
	return v.disposed.Load()
}

// Dispose closes the live listener, stops the loop and releases the GPU
// resources. If [Viewer.Run] is active, the release happens on its
// goroutine as it returns. Dispose is safe to call more than once.
func (v *Viewer) Dispose() {
	v.mu.Lock()
	if v.disposed.Load() {
		v.mu.Unlock()
		return
	}
	v.disposed.Store(true)
	running := v.running
	v.mu.Unlock()
	v.Listener.Close()
	v.Loop.Close()
	if !running {
		v.Renderer.Dispose()
	}
}
