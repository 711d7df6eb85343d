// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"cogentcore.org/embedview/base/errors"
	"cogentcore.org/embedview/live"
	"github.com/gorilla/websocket"
)

// pusher sends embedding updates to each websocket client.
type pusher struct {
	upgrader websocket.Upgrader

	// Interval is the time between updates.
	Interval time.Duration

	// Next returns the i-th embedding set sent on a connection.
	Next func(i int) [][]float32
}

func newPusher(interval time.Duration) *pusher {
	return &pusher{Interval: interval}
}

func (p *pusher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := r.PathValue("session")
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if errors.Log(err) != nil {
		return
	}
	defer conn.Close()
	slog.Info("embedpush: connected", "session", session)

	// the reader notices the client going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		vs := p.Next(i)
		msg, err := json.Marshal(live.UpdateMessage{Type: live.EmbeddingsUpdate, Embeddings: &vs})
		if errors.Log(err) != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Info("embedpush: disconnected", "session", session, "err", err)
			return
		}
		select {
		case <-gone:
			slog.Info("embedpush: disconnected", "session", session)
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// randomClusters returns count 3D points around the given number of
// random centers in the unit cube, deterministic in seed.
func randomClusters(seed uint64, count, clusters int) [][]float32 {
	rnd := rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
	clusters = max(clusters, 1)
	centers := make([][3]float32, clusters)
	for i := range centers {
		for j := range 3 {
			centers[i][j] = 0.2 + 0.6*rnd.Float32()
		}
	}
	vs := make([][]float32, count)
	for i := range vs {
		c := centers[i%clusters]
		v := make([]float32, 3)
		for j := range v {
			v[j] = c[j] + 0.08*float32(rnd.NormFloat64())
		}
		vs[i] = v
	}
	return vs
}
