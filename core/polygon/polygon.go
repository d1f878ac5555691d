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

// Polygon geometry over image pixel space: containment tests, hit testing
// and the canonical vertex form used to compare polygon shapes.
package polygon

import (
	"fmt"
	"math"
	"strings"
)

// Vertex - a polygon corner in data pixel coordinates
type Vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MinVertexCount - fewer vertices can't enclose any area
const MinVertexCount = 3

// Canonical - the rotation/reflection invariant form of a vertex loop. The
// same shape drawn from a different starting corner or in the opposite
// winding order canonicalises identically: of all rotations of the sequence
// and of its reverse, the lexicographically smallest wins.
func Canonical(verts []Vertex) []Vertex {
	n := len(verts)
	if n == 0 {
		return []Vertex{}
	}

	reversed := make([]Vertex, n)
	for i, v := range verts {
		reversed[n-1-i] = v
	}

	best := rotation(verts, 0)
	for _, seq := range [][]Vertex{verts, reversed} {
		for r := 0; r < n; r++ {
			cand := rotation(seq, r)
			if lessVerts(cand, best) {
				best = cand
			}
		}
	}
	return best
}

func rotation(verts []Vertex, start int) []Vertex {
	n := len(verts)
	result := make([]Vertex, n)
	for i := 0; i < n; i++ {
		result[i] = verts[(start+i)%n]
	}
	return result
}

func lessVerts(a []Vertex, b []Vertex) bool {
	for i := range a {
		if a[i].X != b[i].X {
			return a[i].X < b[i].X
		}
		if a[i].Y != b[i].Y {
			return a[i].Y < b[i].Y
		}
	}
	return false
}

// VertsKey - canonical form encoded as a map key string
func VertsKey(verts []Vertex) string {
	canon := Canonical(verts)
	parts := make([]string, len(canon))
	for i, v := range canon {
		parts[i] = fmt.Sprintf("%v,%v", v.X, v.Y)
	}
	return strings.Join(parts, ";")
}

// SameShape - true if two vertex loops describe the same polygon up to
// rotation and winding direction
func SameShape(a []Vertex, b []Vertex) bool {
	if len(a) != len(b) {
		return false
	}
	return VertsKey(a) == VertsKey(b)
}

// Contains - even-odd ray cast containment test. The loop is implicitly
// closed from the last vertex back to the first. Points exactly on a
// horizontal edge are outside.
func Contains(verts []Vertex, x float64, y float64) bool {
	n := len(verts)
	if n < MinVertexCount {
		return false
	}

	inside := false
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]

		if (float64(a.Y) > y) != (float64(b.Y) > y) {
			crossX := float64(b.X-a.X)*(y-float64(a.Y))/float64(b.Y-a.Y) + float64(a.X)
			if x < crossX {
				inside = !inside
			}
		}
	}
	return inside
}

// SegmentDistance - distance from (px,py) to the closest point on the
// segment (x1,y1)-(x2,y2)
func SegmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	vx := x2 - x1
	vy := y2 - y1

	lenSq := vx*vx + vy*vy
	t := 0.0
	if lenSq > 0 {
		t = ((px-x1)*vx + (py-y1)*vy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	dx := px - (x1 + t*vx)
	dy := py - (y1 + t*vy)
	return math.Sqrt(dx*dx + dy*dy)
}

// NearVertex - true if (x,y) is within radius of any vertex
func NearVertex(verts []Vertex, x float64, y float64, radius float64) bool {
	for _, v := range verts {
		dx := x - float64(v.X)
		dy := y - float64(v.Y)
		if math.Sqrt(dx*dx+dy*dy) <= radius {
			return true
		}
	}
	return false
}

// NearEdge - true if (x,y) is within radius of any edge of the closed loop
func NearEdge(verts []Vertex, x float64, y float64, radius float64) bool {
	n := len(verts)
	if n < 2 {
		return false
	}

	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		if SegmentDistance(x, y, float64(a.X), float64(a.Y), float64(b.X), float64(b.Y)) <= radius {
			return true
		}
	}
	return false
}
