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

// Memoized spectral sampling. Redraws hit these caches constantly (slider
// drags recompute every visible annotation), so raw band vectors, processed
// slices and polygon statistics are each cached at their own level with
// explicit invalidation hooks.
package spectrum

import (
	"github.com/iken008/hyperspec-viewer/core/annotation"
	"github.com/iken008/hyperspec-viewer/core/cube"
	"github.com/iken008/hyperspec-viewer/core/logger"
	"github.com/iken008/hyperspec-viewer/core/polygon"
	"github.com/iken008/hyperspec-viewer/core/transform"
	"github.com/iken008/hyperspec-viewer/core/utils"
)

// PointKey - identifies a sampled pixel across sources. Source is stored
// normalized so differently spelled paths share entries.
type PointKey struct {
	Source string
	X      int
	Y      int
}

type pointProcKey struct {
	PointKey
	Cfg transform.ProcessingConfig
	ILo int
	IHi int
}

type polyStatsKey struct {
	Source   string
	VertsKey string
	Cfg      transform.ProcessingConfig
	ILo      int
	IHi      int
}

// PolygonStats - per-band statistics over the pixels a polygon encloses
type PolygonStats struct {
	Wavelengths []float64
	Mean        []float64
	Std         []float64
	PixelCount  int
}

// Stats - hit/miss counters per cache level
type Stats struct {
	RawHits    int64
	RawMisses  int64
	ProcHits   int64
	ProcMisses int64
	PolyHits   int64
	PolyMisses int64
}

// Cache - the three level spectrum cache. Raw full-band vectors are cached
// separately from processed slices so a processing change reuses the fetch,
// and polygon stats sit above both since they aggregate many pixels.
type Cache struct {
	sources *cube.SourceSet
	rast    *polygon.Rasterizer
	log     logger.ILogger

	ptRaw     map[PointKey][]float64
	ptProc    map[pointProcKey][]float64
	polyStats map[polyStatsKey]*PolygonStats

	stats Stats
}

func MakeCache(sources *cube.SourceSet, rast *polygon.Rasterizer, log logger.ILogger) *Cache {
	return &Cache{
		sources:   sources,
		rast:      rast,
		log:       log,
		ptRaw:     map[PointKey][]float64{},
		ptProc:    map[pointProcKey][]float64{},
		polyStats: map[polyStatsKey]*PolygonStats{},
	}
}

func (c *Cache) pointKey(source string, x int, y int) PointKey {
	return PointKey{Source: cube.NormSourcePath(source), X: x, Y: y}
}

// sliceBounds - clamped inclusive band range [iLo, iHi] as slice indices
func sliceBounds(n int, iLo int, iHi int) (int, int) {
	lo := utils.Clamp(iLo, 0, n)
	hi := utils.Clamp(iHi+1, 0, n)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// GetPointSlice - the processed band slice for a point, plotted against the
// current cube's wavelength axis. Returns nils when the point's source
// can't be resolved. The raw full-band vector is cached independently of
// the processed slice.
func (c *Cache) GetPointSlice(pt *annotation.Point, cfg transform.ProcessingConfig, iLo int, iHi int) ([]float64, []float64) {
	current, _ := c.sources.Current()
	if current == nil {
		return nil, nil
	}

	key := c.pointKey(pt.Source, pt.X, pt.Y)
	procKey := pointProcKey{PointKey: key, Cfg: cfg, ILo: iLo, IHi: iHi}

	wlLo, wlHi := sliceBounds(len(current.Wavelengths), iLo, iHi)
	wl := current.Wavelengths[wlLo:wlHi]

	if proc, ok := c.ptProc[procKey]; ok {
		c.stats.ProcHits++
		return wl, proc
	}
	c.stats.ProcMisses++

	raw := c.rawPoint(key, pt)
	if raw == nil {
		return nil, nil
	}

	lo, hi := sliceBounds(len(raw), iLo, iHi)
	proc := transform.Process(transform.ApplyMode(raw[lo:hi], cfg.Mode), cfg, c.log)
	c.ptProc[procKey] = proc
	return wl, proc
}

func (c *Cache) rawPoint(key PointKey, pt *annotation.Point) []float64 {
	if raw, ok := c.ptRaw[key]; ok {
		c.stats.RawHits++
		return raw
	}
	c.stats.RawMisses++

	src := c.sources.CubeFor(pt.Source)
	if src == nil {
		return nil
	}

	raw := src.Spectrum(pt.X, pt.Y)
	c.ptRaw[key] = raw
	return raw
}

// GetPolygonStats - NaN-aware per-band mean and population std over the
// pixels inside a polygon. Every pixel's spectrum is mode-converted and
// processed individually before aggregation; smoothing a mean spectrum is
// not the same as averaging smoothed ones once derivatives or SNV are on.
// Returns nil for an unresolvable source or a polygon enclosing no pixels.
func (c *Cache) GetPolygonStats(pg *annotation.Polygon, cfg transform.ProcessingConfig, iLo int, iHi int) *PolygonStats {
	current, _ := c.sources.Current()
	if current == nil {
		return nil
	}

	src := c.sources.CubeFor(pg.Source)
	if src == nil {
		return nil
	}

	key := polyStatsKey{
		Source:   cube.NormSourcePath(pg.Source),
		VertsKey: polygon.VertsKey(pg.Verts),
		Cfg:      cfg,
		ILo:      iLo,
		IHi:      iHi,
	}

	if stats, ok := c.polyStats[key]; ok {
		c.stats.PolyHits++
		return stats
	}
	c.stats.PolyMisses++

	idxs := c.rast.IndicesInside(key.Source, pg.Verts, src.Width, src.Height)
	if len(idxs) == 0 {
		return nil
	}

	lo, hi := sliceBounds(src.Bands, iLo, iHi)
	bands := hi - lo

	processed := make([][]float64, 0, len(idxs))
	for _, idx := range idxs {
		y := src.SpectrumAt(idx)
		proc := transform.Process(transform.ApplyMode(y[lo:hi], cfg.Mode), cfg, c.log)
		processed = append(processed, proc)
		if len(proc) != bands {
			// Derivative/SNV stages preserve length, but guard anyway
			bands = len(proc)
		}
	}

	mean := make([]float64, bands)
	std := make([]float64, bands)
	col := make([]float64, len(processed))
	for b := 0; b < bands; b++ {
		for i, row := range processed {
			col[i] = row[b]
		}
		mean[b] = transform.NaNMean(col)
		std[b] = transform.NaNPopStd(col)
	}

	wlLo, wlHi := sliceBounds(len(current.Wavelengths), iLo, iHi)
	stats := &PolygonStats{
		Wavelengths: current.Wavelengths[wlLo:wlHi],
		Mean:        mean,
		Std:         std,
		PixelCount:  len(idxs),
	}
	c.polyStats[key] = stats
	return stats
}

// InvalidatePoint - drops the raw vector and every processed slice for one
// point. Called when that point is deleted.
func (c *Cache) InvalidatePoint(source string, x int, y int) {
	key := c.pointKey(source, x, y)
	delete(c.ptRaw, key)

	for k := range c.ptProc {
		if k.PointKey == key {
			delete(c.ptProc, k)
		}
	}
}

// InvalidatePolygon - drops the rasterization and every stats entry for one
// polygon shape
func (c *Cache) InvalidatePolygon(source string, verts []polygon.Vertex) {
	norm := cube.NormSourcePath(source)
	c.rast.Invalidate(norm, verts)

	vertsKey := polygon.VertsKey(verts)
	for k := range c.polyStats {
		if k.Source == norm && k.VertsKey == vertsKey {
			delete(c.polyStats, k)
		}
	}
}

// InvalidateProcessed - clears the processed slice and polygon stats
// levels but keeps raw vectors and rasterizations. Called on processing
// config changes, where the raw fetch is still valid.
func (c *Cache) InvalidateProcessed(reason string) {
	c.ptProc = map[pointProcKey][]float64{}
	c.polyStats = map[polyStatsKey]*PolygonStats{}
	c.log.Debugf("Processed spectrum caches cleared: %v", reason)
}

// InvalidateAll - clears every level. Called on cube (re)load.
func (c *Cache) InvalidateAll(reason string) {
	c.ptRaw = map[PointKey][]float64{}
	c.ptProc = map[pointProcKey][]float64{}
	c.polyStats = map[polyStatsKey]*PolygonStats{}
	c.rast.Clear()
	c.log.Debugf("Spectrum caches cleared: %v", reason)
}

// Stats - snapshot of the hit/miss counters
func (c *Cache) Stats() Stats {
	return c.stats
}
