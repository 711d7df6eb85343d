// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer echoes every message back with a "re: " prefix.
func echoServer(t *testing.T) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Log(err)
			return
		}
		defer conn.Close()
		for {
			typ, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(typ, append([]byte("re: "), msg...)); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	c, err := Connect(wsURL(srv))
	require.NoError(t, err)

	got := make(chan string, 1)
	c.OnMessage(func(typ MessageTypes, msg []byte) {
		assert.Equal(t, TextMessage, typ)
		got <- string(msg)
	})
	closed := make(chan struct{})
	c.OnClose(func() { close(closed) })

	require.NoError(t, c.Send(TextMessage, []byte("hello")))
	select {
	case msg := <-got:
		assert.Equal(t, "re: hello", msg)
	case <-time.After(time.Second):
		t.Fatal("no echo")
	}

	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("OnClose not called")
	}
}

func TestServerClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		conn.Close()
	}))
	defer srv.Close()

	c, err := Connect(wsURL(srv))
	require.NoError(t, err)
	c.OnMessage(func(typ MessageTypes, msg []byte) {})
	select {
	case <-c.Done():
		assert.True(t, websocket.IsCloseError(c.Err(), websocket.CloseNormalClosure))
	case <-time.After(time.Second):
		t.Fatal("read loop did not end")
	}
}

func TestConnectError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err := Connect(wsURL(srv))
	assert.ErrorContains(t, err, "404")
}

func TestMessageTypesString(t *testing.T) {
	assert.Equal(t, "Text", TextMessage.String())
	assert.Equal(t, "Binary", BinaryMessage.String())
}
