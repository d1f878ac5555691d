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

package export

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/iken008/hyperspec-viewer/core/annotation"
	"github.com/iken008/hyperspec-viewer/core/cube"
	"github.com/iken008/hyperspec-viewer/core/fileaccess"
	"github.com/iken008/hyperspec-viewer/core/logger"
	"github.com/iken008/hyperspec-viewer/core/polygon"
	"github.com/iken008/hyperspec-viewer/core/timestamper"
)

type stubReader struct {
	cubes map[string]*cube.Cube
}

func (r *stubReader) Read(path string) (*cube.Cube, error) {
	c, ok := r.cubes[path]
	if !ok {
		return nil, errors.Errorf("no cube at %v", path)
	}
	return c, nil
}

func mustCube(data []float32, w, h, b int, wl []float64) *cube.Cube {
	c, err := cube.New(data, w, h, b, wl)
	if err != nil {
		panic(err)
	}
	return c
}

// Current cube: 2x2, 2 bands at 500/510nm. Values chosen to be exact in
// float32 so CSV output is stable.
func makeExportSetup(alts map[string]*cube.Cube) (*cube.SourceSet, *Exporter) {
	current := mustCube([]float32{
		0.25, 0.5,
		0.75, 1.0,
		0.5, 0.5,
		0.5, 0.5,
	}, 2, 2, 2, []float64{500, 510})

	ts := &timestamper.MockTimeNowStamper{
		QueuedTimeStamps: []int64{1000, 1001, 1002, 1003, 1004, 1005, 1006, 1007},
	}
	log := &logger.NullLogger{}
	sources := cube.NewSourceSet(&stubReader{cubes: alts}, ts, log, 0)
	sources.SetCurrent(current, "/data/scan.hdr")

	return sources, MakeExporter(sources, polygon.MakeRasterizer(), log)
}

func TestPointRawOnMasterCurrent(t *testing.T) {
	sources, exp := makeExportSetup(nil)
	current, _ := sources.Current()

	pt := &annotation.Point{X: 1, Y: 0, Visible: true}
	assert.Equal(t, []float64{0.75, 1.0}, exp.PointRawOnMaster(pt, current.Wavelengths))
}

func TestPointRawOnMasterCrossSource(t *testing.T) {
	alt := mustCube([]float32{0.25, 0.75}, 1, 1, 2, []float64{505, 515})
	sources, exp := makeExportSetup(map[string]*cube.Cube{"/data/other.hdr": alt})
	current, _ := sources.Current()

	pt := &annotation.Point{X: 0, Y: 0, Source: "/data/other.hdr", Visible: true}
	row := exp.PointRawOnMaster(pt, current.Wavelengths)

	// 500nm is below the source range, 510nm interpolates halfway
	assert.True(t, math.IsNaN(row[0]))
	assert.InDelta(t, 0.5, row[1], 1e-12)
}

func TestPointRawOnMasterOutOfRange(t *testing.T) {
	// Source wavelengths entirely below the master grid: all NaN
	alt := mustCube([]float32{0.25, 0.75}, 1, 1, 2, []float64{100, 110})
	sources, exp := makeExportSetup(map[string]*cube.Cube{"/data/uv.hdr": alt})
	current, _ := sources.Current()

	pt := &annotation.Point{X: 0, Y: 0, Source: "/data/uv.hdr", Visible: true}
	for _, v := range exp.PointRawOnMaster(pt, current.Wavelengths) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestPointRawOnMasterMissingSource(t *testing.T) {
	sources, exp := makeExportSetup(nil)
	current, _ := sources.Current()

	pt := &annotation.Point{X: 0, Y: 0, Source: "/nowhere/gone.hdr", Visible: true}
	for _, v := range exp.PointRawOnMaster(pt, current.Wavelengths) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestPolygonRawStats(t *testing.T) {
	_, exp := makeExportSetup(nil)

	pg := &annotation.Polygon{
		Verts:   []polygon.Vertex{{X: -1, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 1}, {X: -1, Y: 1}},
		Source:  "/data/scan.hdr",
		Visible: true,
	}

	wl, mean, std, n := exp.PolygonRawStats(pg)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float64{500, 510}, wl)
	assert.Equal(t, []float64{0.5, 0.75}, mean)
	assert.Equal(t, []float64{0.25, 0.25}, std)

	// Zero pixel polygons report nothing
	empty := &annotation.Polygon{
		Verts:   []polygon.Vertex{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}},
		Source:  "/data/scan.hdr",
		Visible: true,
	}
	_, _, _, n = exp.PolygonRawStats(empty)
	assert.Equal(t, 0, n)
}

func TestWriteCSV(t *testing.T) {
	_, exp := makeExportSetup(nil)
	fs := fileaccess.MakeMemAccess()

	store := annotation.MakeStore()
	p := store.AddPoint(0, 0, "/data/scan.hdr")
	p.Label = "quartz"
	_, err := store.AddPolygon([]polygon.Vertex{{X: -1, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 1}, {X: -1, Y: 1}}, "/data/scan.hdr")
	assert.NoError(t, err)

	assert.NoError(t, exp.WriteCSV(fs, "viewer", "/out/spectra.csv", store))

	data, err := fs.ReadObject("viewer", "/out/spectra.csv")
	assert.NoError(t, err)

	expected := `# note: values are RAW REFLECTANCE (no absorbance transform, no denoise/smoothing/SNV).
# note: polygon columns are mean and std over pixels INSIDE each polygon (raw reflectance).
# note: wavelength_nm is the master axis; other HSI spectra are interpolated onto it.
# labels:, quartz, pg0001 (mean), pg0001 (std)
# sources:, scan.hdr@x=0;y=0, scan.hdr, scan.hdr
wavelength_nm,sp0001,pg0001_mean,pg0001_std
500,0.25,0.5,0.25
510,0.5,0.75,0.25
`
	assert.Equal(t, expected, string(data))
}

func TestWriteCSVNoCube(t *testing.T) {
	ts := &timestamper.MockTimeNowStamper{QueuedTimeStamps: []int64{1}}
	sources := cube.NewSourceSet(nil, ts, &logger.NullLogger{}, 0)
	exp := MakeExporter(sources, polygon.MakeRasterizer(), &logger.NullLogger{})

	err := exp.WriteCSV(fileaccess.MakeMemAccess(), "viewer", "/out/spectra.csv", annotation.MakeStore())
	assert.Error(t, err)
}
