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

// Point and polygon annotations: the mutable lists a user builds up by
// sampling pixels and drawing regions, and the merge rules applied when an
// annotation file is imported on top of them.
package annotation

import (
	"math"

	"github.com/pkg/errors"

	"github.com/iken008/hyperspec-viewer/core/cube"
	"github.com/iken008/hyperspec-viewer/core/polygon"
)

// DeleteRadiusPx - default hit test radius for click-to-delete
const DeleteRadiusPx = 8

// Point - a sampled pixel. Source is the cube path it was sampled against,
// empty meaning "whatever cube is current".
type Point struct {
	X        int
	Y        int
	Label    string
	Source   string
	Visible  bool
	ColorIdx int
}

func (p *Point) Color() RGB {
	return PaletteColor(p.ColorIdx)
}

// Polygon - a sampled region. Vertices are immutable after creation.
type Polygon struct {
	Verts    []polygon.Vertex
	Label    string
	Source   string
	Visible  bool
	ColorIdx int
}

func (p *Polygon) Color() RGB {
	return PaletteColor(p.ColorIdx)
}

// MergeResult - what importing one annotation onto the store did
type MergeResult int

const (
	// MergeAdded - new entry, appended
	MergeAdded MergeResult = iota
	// MergeSkippedExact - same source, geometry and label already present
	MergeSkippedExact
	// MergeUpdated - same source and geometry, label/visibility carried over
	MergeUpdated
)

func (m MergeResult) String() string {
	switch m {
	case MergeAdded:
		return "added"
	case MergeSkippedExact:
		return "skipped"
	case MergeUpdated:
		return "updated"
	}
	return "unknown"
}

// Store - the annotation lists. Insertion order is display order. Colour
// ordinals advance independently for points and polygons and only reset
// with the lists.
type Store struct {
	Points   []*Point
	Polygons []*Polygon

	nextPointColor int
	nextPolyColor  int
}

func MakeStore() *Store {
	return &Store{
		Points:   []*Point{},
		Polygons: []*Polygon{},
	}
}

// AddPoint - appends a visible unlabelled point in the next palette colour
func (s *Store) AddPoint(x int, y int, source string) *Point {
	p := &Point{
		X:        x,
		Y:        y,
		Source:   source,
		Visible:  true,
		ColorIdx: s.nextPointColor,
	}
	s.nextPointColor++
	s.Points = append(s.Points, p)
	return p
}

// AddPolygon - appends a visible unlabelled polygon in the next palette
// colour. The vertex loop must enclose area.
func (s *Store) AddPolygon(verts []polygon.Vertex, source string) (*Polygon, error) {
	if len(verts) < polygon.MinVertexCount {
		return nil, errors.Errorf("polygon needs at least %v vertices, got %v", polygon.MinVertexCount, len(verts))
	}

	p := &Polygon{
		Verts:    append([]polygon.Vertex{}, verts...),
		Source:   source,
		Visible:  true,
		ColorIdx: s.nextPolyColor,
	}
	s.nextPolyColor++
	s.Polygons = append(s.Polygons, p)
	return p, nil
}

// DeletePointNear - removes the single nearest point if it is within
// radius of the click. Never removes more than one even if several are in
// range. Returns the removed point so callers can invalidate caches.
func (s *Store) DeletePointNear(x float64, y float64, radius float64) (*Point, bool) {
	if len(s.Points) == 0 {
		return nil, false
	}

	nearest := 0
	nearestDist := math.Inf(1)
	for i, p := range s.Points {
		dx := float64(p.X) - x
		dy := float64(p.Y) - y
		d := math.Sqrt(dx*dx + dy*dy)
		if d < nearestDist {
			nearest = i
			nearestDist = d
		}
	}

	if nearestDist > radius {
		return nil, false
	}
	return s.deletePointAt(nearest), true
}

// DeletePolygonNear - removes the first polygon hit by a three tier test:
// containment of the click, then any vertex within radius, then any edge
// within radius*1.5. Each tier is tried across all polygons before the
// next gets a look, so an enclosing polygon always beats a nearby edge.
func (s *Store) DeletePolygonNear(x float64, y float64, radius float64) (*Polygon, bool) {
	for _, pg := range s.Polygons {
		if len(pg.Verts) < polygon.MinVertexCount {
			continue
		}
		if polygon.Contains(pg.Verts, x, y) {
			return s.deletePolygon(pg), true
		}
	}

	for _, pg := range s.Polygons {
		if polygon.NearVertex(pg.Verts, x, y, radius) {
			return s.deletePolygon(pg), true
		}
	}

	for _, pg := range s.Polygons {
		if polygon.NearEdge(pg.Verts, x, y, radius*1.5) {
			return s.deletePolygon(pg), true
		}
	}

	return nil, false
}

// DeleteLastPoint - undo for the most recent sample
func (s *Store) DeleteLastPoint() (*Point, bool) {
	if len(s.Points) == 0 {
		return nil, false
	}
	return s.deletePointAt(len(s.Points) - 1), true
}

// DeletePointAt / DeletePolygonAt - removal by list position, eg from a
// selection listing
func (s *Store) DeletePointAt(i int) (*Point, bool) {
	if i < 0 || i >= len(s.Points) {
		return nil, false
	}
	return s.deletePointAt(i), true
}

func (s *Store) DeletePolygonAt(i int) (*Polygon, bool) {
	if i < 0 || i >= len(s.Polygons) {
		return nil, false
	}
	pg := s.Polygons[i]
	s.Polygons = append(s.Polygons[:i], s.Polygons[i+1:]...)
	return pg, true
}

func (s *Store) deletePointAt(i int) *Point {
	p := s.Points[i]
	s.Points = append(s.Points[:i], s.Points[i+1:]...)
	return p
}

func (s *Store) deletePolygon(pg *Polygon) *Polygon {
	for i, cand := range s.Polygons {
		if cand == pg {
			s.Polygons = append(s.Polygons[:i], s.Polygons[i+1:]...)
			break
		}
	}
	return pg
}

// ReassignColors - realigns every entry's palette ordinal with its list
// position and restarts both counters from the list lengths. Run after a
// bulk merge so imported entries cycle colours the same way freshly drawn
// ones would.
func (s *Store) ReassignColors() {
	for i, p := range s.Points {
		p.ColorIdx = i
	}
	for i, pg := range s.Polygons {
		pg.ColorIdx = i
	}
	s.nextPointColor = len(s.Points) % len(Palette)
	s.nextPolyColor = len(s.Polygons) % len(Palette)
}

// ResetAll - clears both lists and restarts both colour cycles
func (s *Store) ResetAll() {
	s.Points = []*Point{}
	s.Polygons = []*Polygon{}
	s.nextPointColor = 0
	s.nextPolyColor = 0
}

// MergePoint - folds an imported point into the store. An exact duplicate
// (same source, position and label) is skipped. A geometry duplicate keeps
// the existing entry but backfills an empty label and takes the incoming
// visibility. Anything else is appended as new.
func (s *Store) MergePoint(in Point) MergeResult {
	for _, p := range s.Points {
		if p.X != in.X || p.Y != in.Y || !cube.SameSource(p.Source, in.Source) {
			continue
		}

		if p.Label == in.Label {
			return MergeSkippedExact
		}
		if p.Label == "" && in.Label != "" {
			p.Label = in.Label
		}
		p.Visible = in.Visible
		return MergeUpdated
	}

	added := s.AddPoint(in.X, in.Y, in.Source)
	added.Label = in.Label
	added.Visible = in.Visible
	return MergeAdded
}

// MergePolygon - same rules as MergePoint, with geometry compared up to
// rotation and winding direction
func (s *Store) MergePolygon(in Polygon) (MergeResult, error) {
	if len(in.Verts) < polygon.MinVertexCount {
		return MergeSkippedExact, errors.Errorf("imported polygon has %v vertices", len(in.Verts))
	}

	for _, pg := range s.Polygons {
		if !polygon.SameShape(pg.Verts, in.Verts) || !cube.SameSource(pg.Source, in.Source) {
			continue
		}

		if pg.Label == in.Label {
			return MergeSkippedExact, nil
		}
		if pg.Label == "" && in.Label != "" {
			pg.Label = in.Label
		}
		pg.Visible = in.Visible
		return MergeUpdated, nil
	}

	added, err := s.AddPolygon(in.Verts, in.Source)
	if err != nil {
		return MergeSkippedExact, err
	}
	added.Label = in.Label
	added.Visible = in.Visible
	return MergeAdded, nil
}
