// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loop provides the render loop: the one goroutine that owns
// the camera and the [gpu.Renderer]. Everything else reaches it by
// posting a [Msg], which is applied before the next frame.
package loop

import (
	"context"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"cogentcore.org/embedview/camera"
	"cogentcore.org/embedview/events"
	"cogentcore.org/embedview/gpu"
	"cogentcore.org/embedview/points"
)

// States are the playback states of a [Loop].
type States int32

const (
	// Stopped loops only render on request.
	Stopped States = iota

	// Running loops advance the rotation and render on every tick.
	Running
)

func (st States) String() string {
	if st == Running {
		return "Running"
	}
	return "Stopped"
}

const (
	// DefaultRotateStep is the auto-rotation per tick, in radians.
	DefaultRotateStep = float32(0.005)

	// DefaultFrameInterval is the tick period, about one display refresh.
	DefaultFrameInterval = time.Second / 60

	// DefaultRetryInterval is how long a coalesced frame waits before
	// it is retried.
	DefaultRetryInterval = 2 * time.Millisecond

	// DefaultPollInterval is the period of the Poll hook.
	DefaultPollInterval = 8 * time.Millisecond
)

// Loop is the render loop. Create it with [New], feed it with [Loop.Post]
// (or the helpers built on it) from any goroutine, and drive it with
// [Loop.Run] on the goroutine that owns the GPU.
type Loop struct {

	// Renderer draws the frames.
	Renderer *gpu.Renderer

	// RotateStep is added to the Y rotation on every tick while [Running].
	RotateStep float32

	// FrameInterval is the tick period.
	FrameInterval time.Duration

	// RetryInterval is the delay before a frame deferred by
	// [gpu.ErrBusy] is retried.
	RetryInterval time.Duration

	// Poll, if set, is called every PollInterval on the loop goroutine,
	// typically to pump window system events. Returning false stops the loop.
	Poll func() bool

	// PollInterval is the period of Poll.
	PollInterval time.Duration

	cam     camera.State
	state   States
	start   time.Time
	queue   events.Queue[Msg]
	wake    chan struct{}
	done    chan struct{}
	closed  atomic.Bool
	request bool

	// fps accounting
	fpsFrames int
	fpsStart  time.Time
}

// New returns a new [Loop] drawing with the given renderer.
// It starts in [Running] if autoRotate is true.
func New(rn *gpu.Renderer, autoRotate bool) *Loop {
	lp := &Loop{
		Renderer:      rn,
		RotateStep:    DefaultRotateStep,
		FrameInterval: DefaultFrameInterval,
		RetryInterval: DefaultRetryInterval,
		PollInterval:  DefaultPollInterval,
		cam:           camera.NewState(),
		start:         time.Now(),
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	lp.queue.Init()
	if autoRotate {
		lp.state = Running
	}
	return lp
}

// State returns the playback state. It must only be called on the
// loop goroutine, or when the loop is not running.
func (lp *Loop) State() States {
	return lp.state
}

// Camera returns the camera state, under the same rule as [Loop.State].
func (lp *Loop) Camera() camera.State {
	return lp.cam
}

// Post queues m for the loop goroutine. It never blocks and may be
// called from any goroutine. Messages posted after Close are dropped.
func (lp *Loop) Post(m Msg) {
	if lp.closed.Load() {
		return
	}
	lp.queue.Send(m)
	select {
	case lp.wake <- struct{}{}:
	default:
	}
}

// ApplyCamera posts a camera delta.
func (lp *Loop) ApplyCamera(d camera.Delta) {
	lp.Post(Msg{Kind: CameraMsg, Camera: d})
}

// SetPlaying posts a play or pause request.
func (lp *Loop) SetPlaying(playing bool) {
	if playing {
		lp.Post(Msg{Kind: PlayMsg})
	} else {
		lp.Post(Msg{Kind: PauseMsg})
	}
}

// TogglePlaying posts a play/pause toggle.
func (lp *Loop) TogglePlaying() {
	lp.Post(Msg{Kind: ToggleMsg})
}

// SetData posts a replacement data set.
func (lp *Loop) SetData(embeddings [][]float32) {
	lp.Post(Msg{Kind: DataMsg, Embeddings: embeddings})
}

// Resize posts a new render target size.
func (lp *Loop) Resize(size image.Point) {
	lp.Post(Msg{Kind: ResizeMsg, Size: size})
}

// RequestRender posts a request for one frame.
func (lp *Loop) RequestRender() {
	lp.Post(Msg{Kind: RenderMsg})
}

// Close stops the loop. [Loop.Run] returns once it sees the close.
// Close is safe to call more than once and from any goroutine.
func (lp *Loop) Close() {
	if lp.closed.CompareAndSwap(false, true) {
		close(lp.done)
	}
}

// Closed reports whether Close has been called.
func (lp *Loop) Closed() bool {
	return lp.closed.Load()
}

// Run runs the loop until Close is called, Poll returns false, or ctx
// is done, in which case the loop is closed and ctx.Err() returned.
// It must be called on the goroutine that owns the GPU.
func (lp *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(lp.FrameInterval)
	defer ticker.Stop()

	var pollC <-chan time.Time
	if lp.Poll != nil {
		pt := time.NewTicker(lp.PollInterval)
		defer pt.Stop()
		pollC = pt.C
	}

	retry := time.NewTimer(lp.RetryInterval)
	retry.Stop()
	defer retry.Stop()
	retrying := false

	lp.Step()
	for {
		select {
		case <-ctx.Done():
			lp.Close()
			return ctx.Err()
		case <-lp.done:
			return nil
		case <-lp.wake:
			lp.Step()
		case <-ticker.C:
			lp.Tick()
		case <-retry.C:
			retrying = false
			lp.request = true
			lp.Step()
		case <-pollC:
			if !lp.Poll() {
				lp.Close()
				return nil
			}
		}
		if lp.Renderer.Pending() && !retrying && !lp.closed.Load() {
			retry.Reset(lp.RetryInterval)
			retrying = true
		}
	}
}

// Step applies every queued message and then renders if anything
// requested a frame. It must be called on the loop goroutine.
func (lp *Loop) Step() {
	lp.drain()
	if lp.request {
		lp.render()
	}
}

// Tick is one timer tick: it applies queued messages, advances the
// rotation when [Running], and renders when running or requested.
// It must be called on the loop goroutine.
func (lp *Loop) Tick() {
	lp.drain()
	if lp.state == Running {
		lp.cam.Rotate(0, lp.RotateStep, 0)
		lp.request = true
	}
	if lp.request {
		lp.render()
	}
}

func (lp *Loop) drain() {
	for {
		m, ok := lp.queue.Next()
		if !ok {
			return
		}
		lp.apply(m)
	}
}

func (lp *Loop) apply(m Msg) {
	switch m.Kind {
	case RenderMsg:
		lp.request = true
	case CameraMsg:
		lp.cam.Apply(m.Camera)
		lp.request = true
	case PlayMsg:
		lp.state = Running
	case PauseMsg:
		lp.state = Stopped
	case ToggleMsg:
		if lp.state == Running {
			lp.state = Stopped
		} else {
			lp.state = Running
		}
	case DataMsg:
		if err := lp.Renderer.UpdatePoints(points.Project(m.Embeddings)); err != nil {
			// previous data stays authoritative; no new frame for this update
			return
		}
		lp.request = true
	case ResizeMsg:
		lp.Renderer.SetSize(m.Size)
		lp.request = true
	default:
		slog.Warn("loop: unknown message", "msg", m)
	}
}

// render draws one frame. On [gpu.ErrBusy] the renderer marks the
// frame pending and Run retries it after RetryInterval.
func (lp *Loop) render() {
	lp.request = false
	if lp.Renderer.RenderFrame(lp.cam, lp.elapsed()) == nil {
		lp.countFrame()
	}
}

func (lp *Loop) elapsed() float32 {
	return float32(time.Since(lp.start).Seconds())
}

func (lp *Loop) countFrame() {
	if !gpu.Debug {
		return
	}
	now := time.Now()
	if lp.fpsFrames == 0 {
		lp.fpsStart = now
	}
	lp.fpsFrames++
	if d := now.Sub(lp.fpsStart); d >= time.Second {
		slog.Debug("loop: fps", "fps", float64(lp.fpsFrames)/d.Seconds(), "points", lp.Renderer.PointCount())
		lp.fpsFrames = 0
	}
}
