// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import "cogentcore.org/embedview/math32"

// Normalize returns a copy of vectors in which each component is min-max
// scaled into [0,1] over the whole set, so that the projection covers
// the render cube. A component with no spread maps to 0.5. Components a
// vector does not have are left missing. The input is not modified.
func Normalize(vectors [][]float32) [][]float32 {
	dims := 0
	for _, v := range vectors {
		dims = max(dims, len(v))
	}
	lo := make([]float32, dims)
	hi := make([]float32, dims)
	seen := make([]bool, dims)
	for _, v := range vectors {
		for d, x := range v {
			if math32.IsNaN(x) {
				continue
			}
			if !seen[d] {
				lo[d], hi[d], seen[d] = x, x, true
				continue
			}
			lo[d] = min(lo[d], x)
			hi[d] = max(hi[d], x)
		}
	}

	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		nv := make([]float32, len(v))
		for d, x := range v {
			span := hi[d] - lo[d]
			switch {
			case math32.IsNaN(x):
				nv[d] = x
			case span == 0:
				nv[d] = 0.5
			default:
				nv[d] = (x - lo[d]) / span
			}
		}
		out[i] = nv
	}
	return out
}
