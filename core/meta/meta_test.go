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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iken008/hyperspec-viewer/core/annotation"
	"github.com/iken008/hyperspec-viewer/core/fileaccess"
	"github.com/iken008/hyperspec-viewer/core/polygon"
	"github.com/iken008/hyperspec-viewer/core/transform"
)

const testBucket = "viewer"

var testVerts = []polygon.Vertex{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}

func makeSavedSession(t *testing.T, fs *fileaccess.MemAccess) {
	store := annotation.MakeStore()
	p := store.AddPoint(3, 4, "/data/scan.hdr")
	p.Label = "quartz"
	pg, err := store.AddPolygon(testVerts, "/data/scan.hdr")
	assert.NoError(t, err)
	pg.Label = "vein"

	cfg := transform.DefaultConfig()
	cfg.Mode = transform.Absorbance
	cfg.SNV = true
	cfg.SGDeriv = transform.Deriv2
	cfg.MedianWindow = 7
	cfg.SGWindow = 15

	err = Save(fs, testBucket, "/session/meta.json", store, cfg,
		&PlotRangeMeta{WlMin: 500, WlMax: 900},
		func(pg *annotation.Polygon) int { return 6 })
	assert.NoError(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	fs := fileaccess.MakeMemAccess()
	fs.WriteObject(testBucket, "/data/scan.hdr", []byte("ENVI"))
	makeSavedSession(t, fs)

	var f File
	assert.NoError(t, fs.ReadJSON(testBucket, "/session/meta.json", &f, false))
	assert.Equal(t, FileVersion, f.Version)
	assert.Equal(t, "sp0001", f.Spectra[0].ID)
	assert.Equal(t, "quartz", f.Spectra[0].Label)
	assert.Equal(t, "scan.hdr", f.Spectra[0].Source.PathBasename)
	assert.Equal(t, 3, f.Spectra[0].Source.Coords.X)
	assert.Equal(t, "pg0001", f.Polygons[0].ID)
	assert.Equal(t, [][2]int{{0, 0}, {4, 0}, {4, 4}}, f.Polygons[0].Vertices)
	assert.Equal(t, 6, f.Polygons[0].NumPixels)
	assert.Equal(t, "2nd", f.Processing.SGOrder)

	// Load into an empty session restores everything
	store := annotation.MakeStore()
	result, err := Load(fs, testBucket, "/session/meta.json", store, transform.DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, 1, result.AddedPoints)
	assert.Equal(t, 1, result.AddedPolygons)
	assert.Equal(t, 0, result.SkippedPoints)
	assert.Equal(t, []string{"/data/scan.hdr"}, result.HDRCandidates)
	assert.Empty(t, result.MissingSources)

	assert.Equal(t, "quartz", store.Points[0].Label)
	assert.Equal(t, testVerts, store.Polygons[0].Verts)

	assert.Equal(t, transform.Absorbance, result.Processing.Mode)
	assert.True(t, result.Processing.SNV)
	assert.Equal(t, transform.Deriv2, result.Processing.SGDeriv)
	assert.Equal(t, 7, result.Processing.MedianWindow)
	assert.Equal(t, 15, result.Processing.SGWindow)
	assert.Equal(t, 500.0, result.PlotRange.WlMin)
}

func TestLoadDuplicatesSkipped(t *testing.T) {
	fs := fileaccess.MakeMemAccess()
	fs.WriteObject(testBucket, "/data/scan.hdr", []byte("ENVI"))
	makeSavedSession(t, fs)

	// Session already holds identical annotations
	store := annotation.MakeStore()
	p := store.AddPoint(3, 4, "/data/scan.hdr")
	p.Label = "quartz"
	pg, _ := store.AddPolygon(testVerts, "/data/scan.hdr")
	pg.Label = "vein"

	result, err := Load(fs, testBucket, "/session/meta.json", store, transform.DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, 0, result.AddedPoints)
	assert.Equal(t, 1, result.SkippedPoints)
	assert.Equal(t, 1, result.SkippedPolygons)
	assert.Equal(t, 1, len(store.Points))
	assert.Equal(t, 1, len(store.Polygons))
}

func TestLoadMalformedNoMutation(t *testing.T) {
	fs := fileaccess.MakeMemAccess()
	fs.WriteObject(testBucket, "/session/meta.json", []byte("{not json"))

	store := annotation.MakeStore()
	_, err := Load(fs, testBucket, "/session/meta.json", store, transform.DefaultConfig())
	assert.Error(t, err)
	assert.Equal(t, 0, len(store.Points))

	_, err = Load(fs, testBucket, "/session/nothere.json", store, transform.DefaultConfig())
	assert.Error(t, err)
}

func TestLoadResolvesRelocatedSource(t *testing.T) {
	fs := fileaccess.MakeMemAccess()

	f := File{
		Version: FileVersion,
		Spectra: []SpectrumEntry{{
			ID:      "sp0001",
			Visible: true,
			Source: SourceRef{
				PathFull:     "/old/machine/scan.hdr",
				PathBasename: "scan.hdr",
				Coords:       &Coords{X: 1, Y: 2},
			},
		}},
	}
	assert.NoError(t, fs.WriteJSON(testBucket, "/session/meta.json", &f))
	// The cube moved next to the JSON file
	fs.WriteObject(testBucket, "/session/scan.hdr", []byte("ENVI"))

	store := annotation.MakeStore()
	result, err := Load(fs, testBucket, "/session/meta.json", store, transform.DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, 1, result.AddedPoints)
	assert.Equal(t, "/session/scan.hdr", store.Points[0].Source)
	assert.Equal(t, []string{"/session/scan.hdr"}, result.HDRCandidates)

	// Unlabelled entries fall back to their id
	assert.Equal(t, "sp0001", store.Points[0].Label)
}

func TestLoadUnlabelledPolygonGetsID(t *testing.T) {
	fs := fileaccess.MakeMemAccess()

	f := File{
		Version: FileVersion,
		Polygons: []PolygonEntry{{
			ID:       "pg0001",
			Visible:  true,
			Source:   SourceRef{PathFull: "/data/scan.hdr"},
			Vertices: [][2]int{{0, 0}, {4, 0}, {4, 4}},
		}},
	}
	assert.NoError(t, fs.WriteJSON(testBucket, "/session/meta.json", &f))

	store := annotation.MakeStore()
	result, err := Load(fs, testBucket, "/session/meta.json", store, transform.DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, 1, result.AddedPolygons)

	// Unlabelled polygons fall back to their id, same as points
	assert.Equal(t, "pg0001", store.Polygons[0].Label)

	// A second load of the same file is now an exact duplicate
	result, err = Load(fs, testBucket, "/session/meta.json", store, transform.DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, 0, result.AddedPolygons)
	assert.Equal(t, 1, result.SkippedPolygons)
	assert.Equal(t, "pg0001", store.Polygons[0].Label)
}

func TestLoadReassignsColors(t *testing.T) {
	fs := fileaccess.MakeMemAccess()

	f := File{
		Version: FileVersion,
		Spectra: []SpectrumEntry{{
			ID:      "sp0001",
			Label:   "imported",
			Visible: true,
			Source: SourceRef{
				PathFull: "/data/scan.hdr",
				Coords:   &Coords{X: 9, Y: 9},
			},
		}},
	}
	assert.NoError(t, fs.WriteJSON(testBucket, "/session/meta.json", &f))

	// Two samples then an undo leaves the colour cycle one ahead of the list
	store := annotation.MakeStore()
	store.AddPoint(1, 1, "/data/scan.hdr")
	store.AddPoint(2, 2, "/data/scan.hdr")
	store.DeleteLastPoint()

	_, err := Load(fs, testBucket, "/session/meta.json", store, transform.DefaultConfig())
	assert.NoError(t, err)

	// Merge realigns ordinals with list position
	assert.Equal(t, 2, len(store.Points))
	assert.Equal(t, 0, store.Points[0].ColorIdx)
	assert.Equal(t, 1, store.Points[1].ColorIdx)

	// The next sample continues the cycle from the list length
	fresh := store.AddPoint(3, 3, "/data/scan.hdr")
	assert.Equal(t, 2, fresh.ColorIdx)
}

func TestLoadMissingSource(t *testing.T) {
	fs := fileaccess.MakeMemAccess()

	f := File{
		Version: FileVersion,
		Spectra: []SpectrumEntry{{
			ID:      "sp0001",
			Label:   "orphan",
			Visible: true,
			Source: SourceRef{
				PathFull: "/gone/other.hdr",
				Coords:   &Coords{X: 0, Y: 0},
			},
		}},
	}
	assert.NoError(t, fs.WriteJSON(testBucket, "/session/meta.json", &f))

	store := annotation.MakeStore()
	result, err := Load(fs, testBucket, "/session/meta.json", store, transform.DefaultConfig())
	assert.NoError(t, err)

	// The point is kept, its source just flagged missing
	assert.Equal(t, 1, result.AddedPoints)
	assert.Equal(t, []string{"other.hdr"}, result.MissingSources)
	assert.Empty(t, result.HDRCandidates)
}
