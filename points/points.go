// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package points provides the embedding data model and the projection
// of N-dimensional embedding vectors to 3D render-space points.
package points

// Embedding is one semantic vector, typically for a document or a
// text chunk. It is immutable once received: embedding sets are
// always replaced wholesale, never patched in place.
type Embedding struct {

	// ID identifies the embedded document or chunk.
	ID string `json:"id" yaml:"id"`

	// Vector is the embedding itself, of any dimension D >= 0.
	Vector []float32 `json:"vector" yaml:"vector"`

	// Label is an optional human readable label.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Point is a projected render-space position.
type Point struct {
	X, Y, Z float32
}

// Vectors returns the Vector of each embedding, in order.
func Vectors(embs []Embedding) [][]float32 {
	vs := make([][]float32, len(embs))
	for i := range embs {
		vs[i] = embs[i].Vector
	}
	return vs
}

// Labels returns the Label of each embedding, in order.
// Embeddings without a label contribute their ID.
func Labels(embs []Embedding) []string {
	ls := make([]string, len(embs))
	for i := range embs {
		ls[i] = embs[i].Label
		if ls[i] == "" {
			ls[i] = embs[i].ID
		}
	}
	return ls
}
