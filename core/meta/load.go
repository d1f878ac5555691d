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

package meta

import (
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/iken008/hyperspec-viewer/core/annotation"
	"github.com/iken008/hyperspec-viewer/core/cube"
	"github.com/iken008/hyperspec-viewer/core/fileaccess"
	"github.com/iken008/hyperspec-viewer/core/polygon"
	"github.com/iken008/hyperspec-viewer/core/transform"
	"github.com/iken008/hyperspec-viewer/core/utils"
)

// LoadResult - what a meta load did to the session
type LoadResult struct {
	Processing transform.ProcessingConfig
	PlotRange  *PlotRangeMeta

	AddedPoints     int
	SkippedPoints   int
	AddedPolygons   int
	SkippedPolygons int

	// Resolvable .hdr sources among the imported entries, in encounter
	// order. Callers auto-load the first one when no cube is on screen.
	HDRCandidates []string

	// Basenames of .hdr sources that couldn't be found, sorted
	MissingSources []string
}

// Load - reads a meta JSON file and merges its annotations into the store.
// Duplicate entries are skipped or label-backfilled per the store's merge
// rules. A malformed file fails before the store is touched. Processing
// settings are overlaid on cur field by field, invalid values keep the
// current ones.
func Load(fs fileaccess.FileAccess, bucket string, jsonPath string, store *annotation.Store, cur transform.ProcessingConfig) (*LoadResult, error) {
	var f File
	if err := fs.ReadJSON(bucket, jsonPath, &f, false); err != nil {
		return nil, errors.Wrapf(err, "failed to read meta JSON %v", jsonPath)
	}

	jsonDir := path.Dir(jsonPath)
	result := &LoadResult{
		Processing:    overlayProcessing(cur, f.Processing),
		PlotRange:     f.PlotRange,
		HDRCandidates: []string{},
	}
	missing := map[string]bool{}

	for _, entry := range f.Spectra {
		if entry.Source.Coords == nil {
			result.SkippedPoints++
			continue
		}

		src := resolveSourcePath(fs, bucket, jsonDir, sourcePathOf(entry.Source))
		trackSource(fs, bucket, src, result, missing)

		label := entry.Label
		if label == "" {
			label = entry.ID
		}

		merged := store.MergePoint(annotation.Point{
			X:       entry.Source.Coords.X,
			Y:       entry.Source.Coords.Y,
			Label:   label,
			Source:  src,
			Visible: entry.Visible,
		})
		if merged == annotation.MergeAdded {
			result.AddedPoints++
		} else {
			result.SkippedPoints++
		}
	}

	for _, entry := range f.Polygons {
		verts := vertsFromEntry(entry)
		if len(verts) < polygon.MinVertexCount {
			result.SkippedPolygons++
			continue
		}

		src := resolveSourcePath(fs, bucket, jsonDir, sourcePathOf(entry.Source))
		trackSource(fs, bucket, src, result, missing)

		label := entry.Label
		if label == "" {
			label = entry.ID
		}

		merged, err := store.MergePolygon(annotation.Polygon{
			Verts:   verts,
			Label:   label,
			Source:  src,
			Visible: entry.Visible,
		})
		if err != nil || merged != annotation.MergeAdded {
			result.SkippedPolygons++
		} else {
			result.AddedPolygons++
		}
	}

	// Imported entries join the palette cycle by their final list position
	store.ReassignColors()

	result.MissingSources = utils.GetMapKeys(missing)
	sort.Strings(result.MissingSources)
	return result, nil
}

func overlayProcessing(cur transform.ProcessingConfig, in ProcessingMeta) transform.ProcessingConfig {
	cfg := cur

	if in.Mode == string(transform.Reflectance) || in.Mode == string(transform.Absorbance) {
		cfg.Mode = transform.Mode(in.Mode)
	}
	cfg.Denoise = in.DenoiseMedian
	cfg.Smooth = in.SmoothSavgol
	cfg.SNV = in.SNV

	if deriv, err := transform.ParseDerivOrder(in.SGOrder); err == nil {
		cfg.SGDeriv = deriv
	}
	if in.MedianWindow > 0 {
		cfg.MedianWindow = in.MedianWindow
	}
	if in.SGWindow > 0 {
		cfg.SGWindow = in.SGWindow
	}
	return cfg
}

func sourcePathOf(ref SourceRef) string {
	if ref.PathFull != "" {
		return ref.PathFull
	}
	return ref.PathBasename
}

// resolveSourcePath - maps a persisted source path back to a real file.
// Relative paths resolve against the JSON's directory, then its parent. A stale absolute
// .hdr path is retried by basename in the JSON's directory and then its
// parent, which covers the common case of a relocated session folder.
func resolveSourcePath(fs fileaccess.FileAccess, bucket string, jsonDir string, sp string) string {
	if sp == "" {
		return ""
	}

	if !path.IsAbs(sp) {
		cand := path.Join(jsonDir, sp)
		if exists, _ := fs.ObjectExists(bucket, cand); exists {
			sp = cand
		} else {
			cand = path.Join(path.Dir(jsonDir), sp)
			if exists, _ := fs.ObjectExists(bucket, cand); exists {
				sp = cand
			}
		}
	}

	if exists, _ := fs.ObjectExists(bucket, sp); !exists && cube.IsLikelySourcePath(sp) {
		base := path.Base(sp)
		cand := path.Join(jsonDir, base)
		if ok, _ := fs.ObjectExists(bucket, cand); ok {
			return cand
		}

		cand = path.Join(path.Dir(jsonDir), base)
		if ok, _ := fs.ObjectExists(bucket, cand); ok {
			return cand
		}
	}

	return sp
}

func trackSource(fs fileaccess.FileAccess, bucket string, src string, result *LoadResult, missing map[string]bool) {
	if src == "" || !cube.IsLikelySourcePath(src) {
		return
	}

	if exists, _ := fs.ObjectExists(bucket, src); exists {
		if !utils.ItemInSlice(src, result.HDRCandidates) {
			result.HDRCandidates = append(result.HDRCandidates, src)
		}
	} else {
		missing[strings.ToLower(path.Base(src))] = true
	}
}
