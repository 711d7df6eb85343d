// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cogentcore.org/embedview/camera"
	"cogentcore.org/embedview/gpu"
	"cogentcore.org/embedview/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBuffer struct{ n int }

func (tb *testBuffer) Size() int { return tb.n * 4 }
func (tb *testBuffer) Destroy()  {}

type testBackend struct {
	initErr  error
	releases atomic.Int32

	mu       sync.Mutex
	vertices []uint32
}

func (tb *testBackend) Init(size image.Point) error { return tb.initErr }
func (tb *testBackend) SetSize(size image.Point)    {}
func (tb *testBackend) NewPointBuffer(data []float32) (gpu.Buffer, error) {
	return &testBuffer{n: len(data)}, nil
}
func (tb *testBackend) WriteUniforms(u *gpu.Uniforms) error { return nil }
func (tb *testBackend) Draw(pts gpu.Buffer, vertexCount uint32) error {
	tb.mu.Lock()
	tb.vertices = append(tb.vertices, vertexCount)
	tb.mu.Unlock()
	return nil
}
func (tb *testBackend) Busy() bool { return false }
func (tb *testBackend) WaitIdle()  {}
func (tb *testBackend) Release()   { tb.releases.Add(1) }

func (tb *testBackend) draws() []uint32 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return append([]uint32(nil), tb.vertices...)
}

func (tb *testBackend) last() uint32 {
	d := tb.draws()
	if len(d) == 0 {
		return 0
	}
	return d[len(d)-1]
}

// testSource hands its onMessage callback to the test.
type testSource struct {
	mu        sync.Mutex
	onMessage func([]byte)
	closed    bool
}

func (ts *testSource) Subscribe(ctx context.Context, sessionID string, onMessage func([]byte)) (func(), error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.onMessage = onMessage
	return func() {
		ts.mu.Lock()
		ts.closed = true
		ts.mu.Unlock()
	}, nil
}

func (ts *testSource) send(msg string) bool {
	ts.mu.Lock()
	f := ts.onMessage
	ts.mu.Unlock()
	if f == nil {
		return false
	}
	f([]byte(msg))
	return true
}

func updateMsg(k int) string {
	s := `{"type":"embeddings_update","embeddings":[`
	for i := range k {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("[%g,0.5,0.5]", float32(i)/float32(k))
	}
	return s + "]}"
}

func TestDefaults(t *testing.T) {
	v := New(Options{}, &testBackend{}, nil)
	assert.Equal(t, image.Point{800, 600}, v.Options.Size)
	assert.Equal(t, loop.DefaultRotateStep, v.Loop.RotateStep)
	assert.Equal(t, loop.Stopped, v.Loop.State(), "zero Options start paused")
	assert.True(t, DefaultOptions().AutoRotate)

	v = New(DefaultOptions(), &testBackend{}, nil)
	assert.Equal(t, loop.Running, v.Loop.State())
}

func TestLabels(t *testing.T) {
	labels := make([]string, 25)
	for i := range labels {
		labels[i] = fmt.Sprintf("doc %d", i)
	}
	opts := DefaultOptions()
	opts.Labels = labels
	opts.Embeddings = [][]float32{{1, 2, 3}}
	v := New(opts, &testBackend{}, nil)
	got := v.Labels()
	assert.Len(t, got, MaxLabels)
	assert.Equal(t, "doc 9", got[9])

	v.SetLabels([]string{"a"})
	assert.Equal(t, []string{"a"}, v.Labels())
	v.SetLabels(nil)
	assert.Empty(t, v.Labels())
}

func TestInitialData(t *testing.T) {
	tb := &testBackend{}
	opts := DefaultOptions()
	opts.AutoRotate = false
	opts.Embeddings = [][]float32{{1, 0, 0}, {0, 1, 0}}
	v := New(opts, tb, nil)
	require.NoError(t, v.Init())
	v.Loop.Step()
	assert.Equal(t, []uint32{12}, tb.draws())
}

func TestLiveUpdate(t *testing.T) {
	tb := &testBackend{}
	src := &testSource{}
	opts := DefaultOptions()
	opts.AutoRotate = false
	opts.SessionID = "s1"
	v := New(opts, tb, src)
	require.NoError(t, v.Init())
	require.NoError(t, v.Listener.Start(context.Background()))
	v.Loop.Step()

	require.True(t, src.send(updateMsg(7)))
	v.Loop.Step()
	assert.Equal(t, uint32(42), tb.last())

	// malformed updates leave the data in place
	src.send(`{"type":"embeddings_update"}`)
	src.send(`{"type":"embeddings_update","embeddings":"nope"}`)
	v.Loop.RequestRender()
	v.Loop.Step()
	assert.Equal(t, uint32(42), tb.last())

	v.Dispose()
	assert.True(t, src.closed)
}

func TestControls(t *testing.T) {
	tb := &testBackend{}
	v := New(DefaultOptions(), tb, nil)
	require.NoError(t, v.Init())
	v.Pause()
	v.Loop.Step()
	for range 5 {
		v.Loop.Tick()
	}
	assert.Equal(t, float32(0), v.Loop.Camera().Rotation.Y)

	v.ZoomIn()
	v.Loop.Step()
	assert.InDelta(t, camera.ZoomStep, v.Loop.Camera().Zoom, 1e-6)
	v.ZoomOut()
	v.ZoomOut()
	v.Loop.Step()
	assert.InDelta(t, 1/camera.ZoomStep, v.Loop.Camera().Zoom, 1e-6)
	v.Reset()
	v.Loop.Step()
	assert.Equal(t, camera.NewState(), v.Loop.Camera())

	v.TogglePlay()
	v.Loop.Tick()
	assert.Equal(t, loop.Running, v.Loop.State())
	assert.InDelta(t, loop.DefaultRotateStep, v.Loop.Camera().Rotation.Y, 1e-6)
}

func TestDisposeTwice(t *testing.T) {
	tb := &testBackend{}
	v := New(DefaultOptions(), tb, nil)
	require.NoError(t, v.Init())
	v.Loop.Step()
	n := len(tb.draws())

	v.Dispose()
	v.Dispose()
	assert.True(t, v.Disposed())
	assert.Equal(t, int32(1), tb.releases.Load())

	v.OnDataChanged([][]float32{{1, 1, 1}})
	v.Loop.Tick()
	v.Loop.Step()
	assert.Len(t, tb.draws(), n, "no draws after dispose")
	assert.NoError(t, v.Run(context.Background()))
}

func TestDisabled(t *testing.T) {
	tb := &testBackend{initErr: gpu.ErrNoDevice}
	v := New(DefaultOptions(), tb, nil)
	require.NoError(t, v.Init())
	assert.True(t, v.Renderer.Disabled())
	v.OnDataChanged([][]float32{{1, 1, 1}})
	v.Loop.Tick()
	assert.Empty(t, tb.draws())
	v.Dispose()
	v.Dispose()
}

func TestRun(t *testing.T) {
	tb := &testBackend{}
	src := &testSource{}
	opts := DefaultOptions()
	opts.AutoRotate = false
	opts.SessionID = "s1"
	v := New(opts, tb, src)
	require.NoError(t, v.Init())

	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background()) }()

	assert.Eventually(t, func() bool { return src.send(updateMsg(5)) }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return tb.last() == 30 }, time.Second, time.Millisecond)

	v.Dispose()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Dispose")
	}
	assert.Equal(t, int32(1), tb.releases.Load())
	v.Dispose()
	assert.Equal(t, int32(1), tb.releases.Load())
}

func TestRunContextCancel(t *testing.T) {
	tb := &testBackend{}
	v := New(DefaultOptions(), tb, nil)
	require.NoError(t, v.Init())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
	assert.Equal(t, int32(0), tb.releases.Load())
	v.Dispose()
	assert.Equal(t, int32(1), tb.releases.Load())
}
