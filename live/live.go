// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package live receives server-pushed replacements of the embedding set.
//
// A [Source] delivers raw messages for a session; a [Listener] parses
// them as [UpdateMessage] values and hands accepted embedding sets to
// its sink. Sources run on their own goroutines and never touch render
// state: the sink is expected to post the data to the render loop.
package live

import (
	"context"
	"encoding/json"
	"fmt"

	"cogentcore.org/embedview/base/errors"
)

// EmbeddingsUpdate is the only recognized message type.
const EmbeddingsUpdate = "embeddings_update"

var (
	// ErrNoSession is returned by sources asked to subscribe
	// without a session id.
	ErrNoSession = errors.New("live: no session id")

	// ErrUnknownType is returned by [ParseUpdate] for messages whose
	// type is not [EmbeddingsUpdate].
	ErrUnknownType = errors.New("live: unknown message type")

	// ErrNoEmbeddings is returned by [ParseUpdate] for update messages
	// without an embeddings field.
	ErrNoEmbeddings = errors.New("live: update without embeddings")

	// ErrNotNumeric is returned by [ParseUpdate] for embeddings that
	// contain null rows or null components.
	ErrNotNumeric = errors.New("live: embeddings must be lists of numbers")
)

// UpdateMessage is a message on the push channel.
type UpdateMessage struct {

	// Type is the message type, [EmbeddingsUpdate] for data replacements.
	Type string `json:"type"`

	// Embeddings is the complete new embedding set.
	// It is nil when the field is missing or null.
	Embeddings *[][]float32 `json:"embeddings,omitempty"`
}

// ParseUpdate decodes data as an [UpdateMessage] and checks that it is an
// embeddings update carrying a well-formed set of numeric vectors.
func ParseUpdate(data []byte) (*UpdateMessage, error) {
	// pointers tell null rows and components apart from real values,
	// which encoding/json would otherwise turn into empty slices and zeros
	var wire struct {
		Type       string         `json:"type"`
		Embeddings *[]*[]*float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("live: malformed message: %w", err)
	}
	if wire.Type != EmbeddingsUpdate {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, wire.Type)
	}
	if wire.Embeddings == nil {
		return nil, ErrNoEmbeddings
	}
	rows := *wire.Embeddings
	embs := make([][]float32, len(rows))
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: row %d is null", ErrNotNumeric, i)
		}
		v := make([]float32, len(*row))
		for j, x := range *row {
			if x == nil {
				return nil, fmt.Errorf("%w: row %d component %d is null", ErrNotNumeric, i, j)
			}
			v[j] = *x
		}
		embs[i] = v
	}
	return &UpdateMessage{Type: wire.Type, Embeddings: &embs}, nil
}

// Source is a push channel delivering raw messages for a session.
type Source interface {

	// Subscribe starts delivering messages for the given session to
	// onMessage, which may be called from any goroutine but never
	// concurrently with itself. The returned function stops delivery;
	// once it returns, onMessage is no longer called. It must be safe
	// to call more than once.
	Subscribe(ctx context.Context, sessionID string, onMessage func(msg []byte)) (unsubscribe func(), err error)
}
