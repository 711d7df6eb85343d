// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"cogentcore.org/embedview/base/errors"
	"cogentcore.org/embedview/base/websocket"
)

// SessionPlaceholder is replaced by the session id in [WebSocketSource.URL].
const SessionPlaceholder = "{session}"

// WebSocketSource is a [Source] reading text frames from a WebSocket.
// When the channel closes the current data set stays in place; the
// Reconnect policy decides whether a new connection is attempted.
type WebSocketSource struct {

	// URL is the endpoint, with [SessionPlaceholder] standing for the
	// session id. Without a placeholder, the id is added as the
	// "session" query parameter.
	URL string

	// Header holds extra handshake headers.
	Header http.Header

	// Reconnect is the policy for channels that close after they were
	// established. A failing first dial is not retried: Subscribe returns
	// its error at once, so that starting the viewer never waits on the
	// network.
	Reconnect Reconnect
}

// NewWebSocketSource returns a new [WebSocketSource] for the given URL.
func NewWebSocketSource(url string) *WebSocketSource {
	return &WebSocketSource{URL: url}
}

// SessionURL returns the endpoint for the given session.
func (ws *WebSocketSource) SessionURL(session string) string {
	if strings.Contains(ws.URL, SessionPlaceholder) {
		return strings.ReplaceAll(ws.URL, SessionPlaceholder, url.PathEscape(session))
	}
	u, err := url.Parse(ws.URL)
	if err != nil {
		return ws.URL
	}
	q := u.Query()
	q.Set("session", session)
	u.RawQuery = q.Encode()
	return u.String()
}

func (ws *WebSocketSource) Subscribe(ctx context.Context, sessionID string, onMessage func(msg []byte)) (func(), error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	addr := ws.SessionURL(sessionID)
	c, err := websocket.ConnectContext(ctx, addr, ws.Header)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ws.serve(ctx, c, addr, onMessage)
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

// serve delivers the messages of c until ctx ends, reconnecting
// according to the policy when the channel closes.
func (ws *WebSocketSource) serve(ctx context.Context, c *websocket.Client, addr string, onMessage func(msg []byte)) {
	for {
		c.OnMessage(func(typ websocket.MessageTypes, msg []byte) {
			if typ != websocket.TextMessage {
				slog.Warn("live: ignoring non-text frame", "type", typ, "url", addr)
				return
			}
			onMessage(msg)
		})
		select {
		case <-ctx.Done():
			c.Close()
			<-c.Done()
			return
		case <-c.Done():
		}
		slog.Warn("live: push channel closed, keeping current data", "url", addr, "err", c.Err())

		err := ws.Reconnect.Retry(ctx, func() error {
			nc, err := websocket.ConnectContext(ctx, addr, ws.Header)
			if err != nil {
				return err
			}
			c = nc
			return nil
		})
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, ErrReconnectDisabled) {
				slog.Warn("live: giving up on push channel", "url", addr, "err", err)
			}
			return
		}
		slog.Info("live: push channel reconnected", "url", addr)
	}
}
