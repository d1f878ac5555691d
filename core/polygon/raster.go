// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package polygon

type rasterKey struct {
	source   string
	vertsKey string
}

// Rasterizer - converts polygons to the flat pixel indices they enclose on
// a cube and memoizes the result. Rasterisation is a full grid scan so
// repeated lookups for the same shape must not redo it. Vertices are
// immutable after creation, so entries only leave the cache through
// Invalidate or Clear.
type Rasterizer struct {
	cache map[rasterKey][]int
}

func MakeRasterizer() *Rasterizer {
	return &Rasterizer{
		cache: map[rasterKey][]int{},
	}
}

// IndicesInside - flat indices (y*width+x) of every pixel whose centre lies
// inside the polygon. Result is ordered row-major and may be empty.
func (r *Rasterizer) IndicesInside(source string, verts []Vertex, width int, height int) []int {
	key := rasterKey{source: source, vertsKey: VertsKey(verts)}
	if idxs, ok := r.cache[key]; ok {
		return idxs
	}

	idxs := []int{}
	if len(verts) >= MinVertexCount {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if Contains(verts, float64(x), float64(y)) {
					idxs = append(idxs, y*width+x)
				}
			}
		}
	}

	r.cache[key] = idxs
	return idxs
}

// Invalidate - drops the memoized index set for one polygon
func (r *Rasterizer) Invalidate(source string, verts []Vertex) {
	delete(r.cache, rasterKey{source: source, vertsKey: VertsKey(verts)})
}

// Clear - drops everything, eg when a cube is reloaded
func (r *Rasterizer) Clear() {
	r.cache = map[rasterKey][]int{}
}

// CachedCount - number of memoized index sets, for cache stats reporting
func (r *Rasterizer) CachedCount() int {
	return len(r.cache)
}
