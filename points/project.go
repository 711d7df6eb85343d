// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package points

// Project maps each embedding vector to a 3D point using its first
// three components (a missing component counts as 0), each mapped
// through v*2-1. This takes [0,1] components to [-1,1]. Components
// outside [0,1] are not clamped: callers that need bounded output must
// normalize upstream (see dataset.Normalize).
//
// Project is pure and deterministic, and the result always has the
// same length as the input.
func Project(embeddings [][]float32) []Point {
	pts := make([]Point, len(embeddings))
	for i, v := range embeddings {
		pts[i] = Point{
			X: component(v, 0)*2 - 1,
			Y: component(v, 1)*2 - 1,
			Z: component(v, 2)*2 - 1,
		}
	}
	return pts
}

// ProjectEmbeddings is [Project] over the vectors of the given embeddings.
func ProjectEmbeddings(embs []Embedding) []Point {
	return Project(Vectors(embs))
}

// Flatten returns the points as x0, y0, z0, x1, ... for upload
// into a storage buffer.
func Flatten(pts []Point) []float32 {
	fl := make([]float32, 0, len(pts)*3)
	for _, p := range pts {
		fl = append(fl, p.X, p.Y, p.Z)
	}
	return fl
}

func component(v []float32, i int) float32 {
	if i < len(v) {
		return v[i]
	}
	return 0
}
