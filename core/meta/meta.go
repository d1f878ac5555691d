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

// Annotation session persistence: the meta JSON file holding annotations,
// processing settings and the plot range, and the merge rules for loading
// one on top of an existing session.
package meta

import (
	"fmt"
	"path"

	"github.com/iken008/hyperspec-viewer/core/annotation"
	"github.com/iken008/hyperspec-viewer/core/fileaccess"
	"github.com/iken008/hyperspec-viewer/core/polygon"
	"github.com/iken008/hyperspec-viewer/core/transform"
)

const FileVersion = "1.0"

type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SourceRef - which cube file an annotation was sampled against. The full
// path is authoritative, the basename is kept for relocated files.
type SourceRef struct {
	PathFull     string  `json:"path_full"`
	PathBasename string  `json:"path_basename"`
	Coords       *Coords `json:"coords,omitempty"`
}

type ProcessingMeta struct {
	Mode          string `json:"mode"`
	DenoiseMedian bool   `json:"denoise_median"`
	SmoothSavgol  bool   `json:"smooth_savgol"`
	SGOrder       string `json:"sg_order"`
	SNV           bool   `json:"snv"`
	MedianWindow  int    `json:"median_window"`
	SGWindow      int    `json:"sg_window"`
}

type PlotRangeMeta struct {
	WlMin float64 `json:"wl_min"`
	WlMax float64 `json:"wl_max"`
}

type SpectrumEntry struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Visible bool      `json:"visible"`
	Source  SourceRef `json:"source"`
}

type PolygonEntry struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Visible   bool      `json:"visible"`
	Source    SourceRef `json:"source"`
	Vertices  [][2]int  `json:"vertices"`
	NumPixels int       `json:"num_pixels"`
}

// File - the persisted session
type File struct {
	Version    string          `json:"version"`
	Processing ProcessingMeta  `json:"processing"`
	PlotRange  *PlotRangeMeta  `json:"plot_range,omitempty"`
	Spectra    []SpectrumEntry `json:"spectra"`
	Polygons   []PolygonEntry  `json:"polygons"`
}

// PointID / PolygonID - listing and export identifiers, 1-based position
func PointID(idx int) string {
	return fmt.Sprintf("sp%04d", idx+1)
}

func PolygonID(idx int) string {
	return fmt.Sprintf("pg%04d", idx+1)
}

func makeSourceRef(source string) SourceRef {
	ref := SourceRef{PathFull: source}
	if source != "" {
		ref.PathBasename = path.Base(source)
	}
	return ref
}

func processingMeta(cfg transform.ProcessingConfig) ProcessingMeta {
	return ProcessingMeta{
		Mode:          string(cfg.Mode),
		DenoiseMedian: cfg.Denoise,
		SmoothSavgol:  cfg.Smooth,
		SGOrder:       cfg.SGDeriv.String(),
		SNV:           cfg.SNV,
		MedianWindow:  cfg.MedianWindow,
		SGWindow:      cfg.SGWindow,
	}
}

// Build - snapshots a session as a File. pixelCount supplies each
// polygon's enclosed pixel count for the num_pixels field, may return 0
// when the polygon's source isn't loadable.
func Build(store *annotation.Store, cfg transform.ProcessingConfig, plotRange *PlotRangeMeta, pixelCount func(pg *annotation.Polygon) int) *File {
	f := &File{
		Version:    FileVersion,
		Processing: processingMeta(cfg),
		PlotRange:  plotRange,
		Spectra:    []SpectrumEntry{},
		Polygons:   []PolygonEntry{},
	}

	if f.PlotRange != nil && f.PlotRange.WlMax < f.PlotRange.WlMin {
		f.PlotRange = &PlotRangeMeta{WlMin: f.PlotRange.WlMax, WlMax: f.PlotRange.WlMin}
	}

	for i, p := range store.Points {
		ref := makeSourceRef(p.Source)
		ref.Coords = &Coords{X: p.X, Y: p.Y}
		f.Spectra = append(f.Spectra, SpectrumEntry{
			ID:      PointID(i),
			Label:   p.Label,
			Visible: p.Visible,
			Source:  ref,
		})
	}

	for j, pg := range store.Polygons {
		verts := make([][2]int, len(pg.Verts))
		for k, v := range pg.Verts {
			verts[k] = [2]int{v.X, v.Y}
		}

		f.Polygons = append(f.Polygons, PolygonEntry{
			ID:        PolygonID(j),
			Label:     pg.Label,
			Visible:   pg.Visible,
			Source:    makeSourceRef(pg.Source),
			Vertices:  verts,
			NumPixels: pixelCount(store.Polygons[j]),
		})
	}

	return f
}

// Save - writes the session snapshot as indented JSON
func Save(fs fileaccess.FileAccess, bucket string, savePath string, store *annotation.Store, cfg transform.ProcessingConfig, plotRange *PlotRangeMeta, pixelCount func(pg *annotation.Polygon) int) error {
	return fs.WriteJSON(bucket, savePath, Build(store, cfg, plotRange, pixelCount))
}

func vertsFromEntry(entry PolygonEntry) []polygon.Vertex {
	verts := make([]polygon.Vertex, len(entry.Vertices))
	for i, v := range entry.Vertices {
		verts[i] = polygon.Vertex{X: v[0], Y: v[1]}
	}
	return verts
}
