// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushServer upgrades /ws/{session} connections and sends them the
// given frames, then waits for the client to close.
func pushServer(t *testing.T, paths chan<- string, frames ...string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Log(err)
			return
		}
		defer conn.Close()
		if paths != nil {
			paths <- r.URL.Path
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketSourceURL(t *testing.T) {
	ws := NewWebSocketSource("ws://host/ws/{session}")
	assert.Equal(t, "ws://host/ws/a%20b", ws.SessionURL("a b"))
	ws = NewWebSocketSource("ws://host/push")
	assert.Equal(t, "ws://host/push?session=s1", ws.SessionURL("s1"))
}

func TestWebSocketSource(t *testing.T) {
	paths := make(chan string, 1)
	srv := pushServer(t, paths,
		`{"type":"embeddings_update","embeddings":[[1,0,0],[0,1,0],[0,0,1]]}`,
		`{"type":"embeddings_update"}`,
		`{"type":"embeddings_update","embeddings":[[0.5,0.5,0.5]]}`,
	)
	defer srv.Close()

	got := make(chan [][]float32, 4)
	ls := NewListener(NewWebSocketSource(wsURL(srv)+"/ws/{session}"), "s42", func(e [][]float32) { got <- e })
	require.NoError(t, ls.Start(context.Background()))
	defer ls.Close()

	assert.Equal(t, "/ws/s42", <-paths)
	for _, n := range []int{3, 1} {
		select {
		case e := <-got:
			assert.Len(t, e, n)
		case <-time.After(2 * time.Second):
			t.Fatal("no update delivered")
		}
	}
	ls.Close()
	select {
	case e := <-got:
		t.Fatalf("unexpected update after close: %v", e)
	default:
	}
}

func TestWebSocketSourceNoSession(t *testing.T) {
	_, err := NewWebSocketSource("ws://localhost:1/{session}").Subscribe(context.Background(), "", func([]byte) {})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestWebSocketSourceReconnect(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := conns.Add(1)
		msg := `{"type":"embeddings_update","embeddings":[[1,1,1]]}`
		if n > 1 {
			msg = `{"type":"embeddings_update","embeddings":[[1,1,1],[0,0,0]]}`
		}
		conn.WriteMessage(websocket.TextMessage, []byte(msg))
		if n == 1 {
			// drop the first connection
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	src := NewWebSocketSource(wsURL(srv) + "/{session}")
	src.Reconnect = Reconnect{MaxAttempts: 3, BaseDelay: 5 * time.Millisecond}
	got := make(chan int, 4)
	unsub, err := src.Subscribe(context.Background(), "s", func(msg []byte) {
		um, err := ParseUpdate(msg)
		if assert.NoError(t, err) {
			got <- len(*um.Embeddings)
		}
	})
	require.NoError(t, err)
	defer unsub()
	for _, n := range []int{1, 2} {
		select {
		case v := <-got:
			assert.Equal(t, n, v)
		case <-time.After(2 * time.Second):
			t.Fatal("no update delivered")
		}
	}
	assert.Equal(t, int32(2), conns.Load())
}

func TestWebSocketSourceFirstDialNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/{session}"
	srv.Close()

	ws := NewWebSocketSource(addr)
	ws.Reconnect = Reconnect{MaxAttempts: 5, BaseDelay: time.Second}
	start := time.Now()
	_, err := ws.Subscribe(context.Background(), "s1", func([]byte) {})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), ws.Reconnect.BaseDelay)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1.json"),
		[]byte(`{"type":"embeddings_update","embeddings":[[0,0,0]]}`), 0o644))

	src := NewFileSource(dir)
	src.Initial = true
	got := make(chan [][]float32, 4)
	ls := NewListener(src, "s1", func(e [][]float32) { got <- e })
	require.NoError(t, ls.Start(context.Background()))
	defer ls.Close()

	select {
	case e := <-got:
		assert.Len(t, e, 1)
	case <-time.After(time.Second):
		t.Fatal("initial contents not delivered")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"),
		[]byte(`{"type":"embeddings_update","embeddings":[[0,0,0]]}`), 0o644))
	tmp := filepath.Join(dir, "s1.json.tmp")
	require.NoError(t, os.WriteFile(tmp,
		[]byte(`{"type":"embeddings_update","embeddings":[[0,0,0],[1,1,1],[0.5,0.5,0.5]]}`), 0o644))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "s1.json")))

	select {
	case e := <-got:
		assert.Len(t, e, 3)
	case <-time.After(2 * time.Second):
		t.Fatal("update not delivered")
	}
}

func TestFileSourceInvalidSession(t *testing.T) {
	_, err := NewFileSource(t.TempDir()).Subscribe(context.Background(), "../x", func([]byte) {})
	assert.Error(t, err)
}
