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

// Tabular spectra export. Every annotation's raw reflectance is resampled
// onto the current cube's wavelength axis (the master grid) so all CSV
// columns share one axis, with NaN where a source has no coverage. Display
// mode and preprocessing never leak into exports.
package export

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/iken008/hyperspec-viewer/core/annotation"
	"github.com/iken008/hyperspec-viewer/core/cube"
	"github.com/iken008/hyperspec-viewer/core/logger"
	"github.com/iken008/hyperspec-viewer/core/polygon"
	"github.com/iken008/hyperspec-viewer/core/transform"
)

// Exporter - produces master-grid raw spectra for points and polygons
type Exporter struct {
	sources *cube.SourceSet
	rast    *polygon.Rasterizer
	log     logger.ILogger
}

func MakeExporter(sources *cube.SourceSet, rast *polygon.Rasterizer, log logger.ILogger) *Exporter {
	return &Exporter{
		sources: sources,
		rast:    rast,
		log:     log,
	}
}

func nanVector(n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = math.NaN()
	}
	return result
}

// PointRawOnMaster - the point's raw band vector on the master axis. A
// point sampled on the current cube already shares the axis and is returned
// untouched. Cross-source points are interpolated from their own wavelength
// grid, NaN outside its range. An unresolvable source is an all-NaN row.
func (e *Exporter) PointRawOnMaster(pt *annotation.Point, master []float64) []float64 {
	if e.sources.IsCurrent(pt.Source) {
		current, _ := e.sources.Current()
		if current == nil {
			return nanVector(len(master))
		}
		return current.Spectrum(pt.X, pt.Y)
	}

	src := e.sources.CubeFor(pt.Source)
	if src == nil {
		return nanVector(len(master))
	}

	xs, ys := sortDedupByWavelength(src.Wavelengths, src.Spectrum(pt.X, pt.Y))
	return interpToMaster(master, xs, ys)
}

// PolygonRawStats - NaN-aware mean and population std of the raw spectra
// inside a polygon, on the polygon's own source wavelength grid. No mode
// conversion and no preprocessing. Returns nils and zero for an
// unresolvable source or an empty polygon.
func (e *Exporter) PolygonRawStats(pg *annotation.Polygon) ([]float64, []float64, []float64, int) {
	src := e.sources.CubeFor(pg.Source)
	if src == nil || len(src.Wavelengths) == 0 {
		return nil, nil, nil, 0
	}

	idxs := e.rast.IndicesInside(cube.NormSourcePath(pg.Source), pg.Verts, src.Width, src.Height)
	if len(idxs) == 0 {
		return nil, nil, nil, 0
	}

	mean := make([]float64, src.Bands)
	std := make([]float64, src.Bands)
	col := make([]float64, len(idxs))
	for b := 0; b < src.Bands; b++ {
		for i, idx := range idxs {
			col[i] = src.SpectrumAt(idx)[b]
		}
		mean[b] = transform.NaNMean(col)
		std[b] = transform.NaNPopStd(col)
	}

	return src.Wavelengths, mean, std, len(idxs)
}

// sortDedupByWavelength - source samples ordered by wavelength with
// exactly-equal wavelengths collapsed to their first occurrence, which
// linear interpolation requires
func sortDedupByWavelength(wl []float64, y []float64) ([]float64, []float64) {
	order := make([]int, len(wl))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return wl[order[a]] < wl[order[b]]
	})

	xs := []float64{}
	ys := []float64{}
	for _, idx := range order {
		if len(xs) > 0 && wl[idx] == xs[len(xs)-1] {
			continue
		}
		xs = append(xs, wl[idx])
		ys = append(ys, y[idx])
	}
	return xs, ys
}

// interpToMaster - linear interpolation of (xs,ys) onto the master axis.
// Master positions outside the source range become NaN, extrapolation
// would invent data.
func interpToMaster(master []float64, xs []float64, ys []float64) []float64 {
	result := nanVector(len(master))
	if len(xs) == 0 {
		return result
	}

	if len(xs) == 1 {
		for i, w := range master {
			if w == xs[0] {
				result[i] = ys[0]
			}
		}
		return result
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return result
	}

	for i, w := range master {
		if w < xs[0] || w > xs[len(xs)-1] {
			continue
		}
		result[i] = pl.Predict(w)
	}
	return result
}
