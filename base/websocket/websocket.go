// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package websocket provides a simple WebSocket client
// on top of gorilla/websocket.
package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/embedview/base/errors"
	"github.com/gorilla/websocket"
)

// MessageTypes are the types of WebSocket messages.
type MessageTypes int

const (
	// TextMessage is a UTF-8 text data message.
	TextMessage MessageTypes = websocket.TextMessage

	// BinaryMessage is a binary data message.
	BinaryMessage MessageTypes = websocket.BinaryMessage
)

func (mt MessageTypes) String() string {
	switch mt {
	case TextMessage:
		return "Text"
	case BinaryMessage:
		return "Binary"
	}
	return fmt.Sprintf("MessageTypes(%d)", int(mt))
}

// CloseTimeout is how long [Client.Close] waits to write the close frame.
var CloseTimeout = time.Second

// Client represents a WebSocket client connection.
// You can use [Connect] to create a new Client.
type Client struct {

	// URL is the address the client is connected to.
	URL string

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// done is a channel that is closed when the connection is closed.
	done chan struct{}

	// err is the error that ended the read loop, if any.
	err error

	closing   atomic.Bool
	closeOnce sync.Once
	doneOnce  sync.Once
}

// Connect connects to a WebSocket server and returns a [Client].
func Connect(url string) (*Client, error) {
	return ConnectContext(context.Background(), url, nil)
}

// ConnectContext is like [Connect], with a context bounding the
// handshake and optional request headers.
func ConnectContext(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket: dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("websocket: dial %s: %w", url, err)
	}
	return &Client{URL: url, conn: conn, done: make(chan struct{})}, nil
}

// OnMessage sets a callback function to be called when a message is received.
// The callback runs on the client's read goroutine.
// This function can only be called once.
func (c *Client) OnMessage(f func(typ MessageTypes, msg []byte)) {
	go func() {
		defer c.doneOnce.Do(func() { close(c.done) })
		for {
			typ, msg, err := c.conn.ReadMessage()
			if err != nil {
				c.err = err
				if c.closing.Load() {
					return
				}
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					slog.Info("websocket: connection closed", "url", c.URL)
				} else {
					errors.Log(err)
				}
				return
			}
			f(MessageTypes(typ), msg)
		}
	}()
}

// Send sends a message to the WebSocket server with the given type and message.
func (c *Client) Send(typ MessageTypes, msg []byte) error {
	return c.conn.WriteMessage(int(typ), msg)
}

// Close cleanly closes the WebSocket connection by sending a close
// frame and then closing the network connection. Once the connection
// is closed, the read loop started by [Client.OnMessage] ends and
// triggers [Client.OnClose]. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		werr := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(CloseTimeout))
		if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
			err = werr
		}
		err = errors.Join(err, c.conn.Close())
	})
	return err
}

// OnClose sets a callback function to be called when the connection is closed.
// This function can only be called once, after [Client.OnMessage].
func (c *Client) OnClose(f func()) {
	go func() {
		<-c.done
		f()
	}()
}

// Done returns a channel that is closed when the read loop ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the read loop. It is only valid
// after [Client.Done] is closed.
func (c *Client) Err() error {
	return c.err
}
