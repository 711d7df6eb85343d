// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectEmpty(t *testing.T) {
	assert.Empty(t, Project(nil))
	assert.Empty(t, Project([][]float32{}))
	assert.NotNil(t, Project(nil))
}

func TestProjectAxes(t *testing.T) {
	got := Project([][]float32{{1, 0, 0}, {0, 1, 0}})
	assert.Equal(t, []Point{{1, -1, -1}, {-1, 1, -1}}, got)
}

func TestProjectLength(t *testing.T) {
	in := [][]float32{
		{},
		{0.5},
		{0.5, 0.25},
		{0.5, 0.25, 1, 0.9, 0.1},
		nil,
	}
	got := Project(in)
	assert.Len(t, got, len(in))
	assert.Equal(t, Point{-1, -1, -1}, got[0])
	assert.Equal(t, Point{0, -1, -1}, got[1])
	assert.Equal(t, Point{0, -0.5, -1}, got[2])
	assert.Equal(t, Point{0, -0.5, 1}, got[3])
	assert.Equal(t, Point{-1, -1, -1}, got[4])
}

func TestProjectNoClamp(t *testing.T) {
	got := Project([][]float32{{2, -1, 0.5}})
	assert.Equal(t, []Point{{3, -3, 0}}, got)
}

func TestProjectDeterministic(t *testing.T) {
	in := [][]float32{{0.1, 0.2, 0.3}, {0.9, 0.8, 0.7}}
	assert.Equal(t, Project(in), Project(in))
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, []float32{1, -1, -1, -1, 1, -1}, Flatten([]Point{{1, -1, -1}, {-1, 1, -1}}))
	assert.Empty(t, Flatten(nil))
}

func TestEmbeddingHelpers(t *testing.T) {
	embs := []Embedding{
		{ID: "a", Vector: []float32{1, 0, 0}, Label: "Contract"},
		{ID: "b", Vector: []float32{0, 1, 0}},
	}
	assert.Equal(t, [][]float32{{1, 0, 0}, {0, 1, 0}}, Vectors(embs))
	assert.Equal(t, []string{"Contract", "b"}, Labels(embs))
	assert.Equal(t, []Point{{1, -1, -1}, {-1, 1, -1}}, ProjectEmbeddings(embs))
}
