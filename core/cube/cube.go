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

// Hyperspectral cube model: a H x W image where every pixel carries a full
// band vector, plus the wavelength axis those bands were sampled at.
// Cubes are immutable once built, a fresh load replaces them wholesale.
package cube

import (
	"fmt"
	"math"
	"sort"

	"github.com/iken008/hyperspec-viewer/core/utils"
)

// Cube - one loaded hyperspectral image. Data is stored flat, band-fastest:
// the band vector of pixel (x,y) starts at ((y*Width)+x)*Bands.
type Cube struct {
	Data        []float32
	Width       int
	Height      int
	Bands       int
	Wavelengths []float64
}

// New - builds a cube, defaulting the wavelength axis to band indices when
// the source had no wavelength metadata. Single-band 2D images are passed
// in with bands=1, which is the promoted [H,W,1] form.
func New(data []float32, width int, height int, bands int, wavelengths []float64) (*Cube, error) {
	if width <= 0 || height <= 0 || bands <= 0 {
		return nil, fmt.Errorf("invalid cube shape: %vx%vx%v", width, height, bands)
	}
	if len(data) != width*height*bands {
		return nil, fmt.Errorf("cube data length %v does not match shape %vx%vx%v", len(data), width, height, bands)
	}

	if len(wavelengths) == 0 {
		wavelengths = make([]float64, bands)
		for i := range wavelengths {
			wavelengths[i] = float64(i)
		}
	}

	if len(wavelengths) != bands {
		return nil, fmt.Errorf("wavelength count %v does not match band count %v", len(wavelengths), bands)
	}

	return &Cube{
		Data:        data,
		Width:       width,
		Height:      height,
		Bands:       bands,
		Wavelengths: wavelengths,
	}, nil
}

// Spectrum - the full band vector for pixel (x,y), copied out as float64
// so downstream processing never touches cube storage.
func (c *Cube) Spectrum(x int, y int) []float64 {
	x = utils.Clamp(x, 0, c.Width-1)
	y = utils.Clamp(y, 0, c.Height-1)

	start := (y*c.Width + x) * c.Bands
	result := make([]float64, c.Bands)
	for b := 0; b < c.Bands; b++ {
		result[b] = float64(c.Data[start+b])
	}
	return result
}

// SpectrumAt - band vector for a flat pixel index as returned by the
// polygon rasteriser.
func (c *Cube) SpectrumAt(flatIdx int) []float64 {
	y := flatIdx / c.Width
	x := flatIdx % c.Width
	return c.Spectrum(x, y)
}

// NearestBand - index of the band whose wavelength is closest to wl.
// Works by absolute difference so it stays well-defined even if the axis
// isn't monotonic, it's just not geometrically meaningful then.
func (c *Cube) NearestBand(wl float64) int {
	best := 0
	bestDiff := math.Inf(1)
	for i, w := range c.Wavelengths {
		diff := math.Abs(w - wl)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// BandRange - maps a wavelength window onto an inclusive band index range.
// Inverted inputs are swapped rather than rejected, same for the resulting
// indices on a descending wavelength axis.
func (c *Cube) BandRange(wlMin float64, wlMax float64) (int, int) {
	if wlMax < wlMin {
		wlMin, wlMax = wlMax, wlMin
	}

	iLo := c.NearestBand(wlMin)
	iHi := c.NearestBand(wlMax)
	if iHi < iLo {
		iLo, iHi = iHi, iLo
	}
	return iLo, iHi
}

// WavelengthResolution - median spacing of the wavelength axis, used for
// slider step sizing. Falls back to 1 for degenerate axes.
func (c *Cube) WavelengthResolution() float64 {
	if len(c.Wavelengths) < 2 {
		return 1.0
	}

	diffs := []float64{}
	for i := 1; i < len(c.Wavelengths); i++ {
		d := math.Abs(c.Wavelengths[i] - c.Wavelengths[i-1])
		if !math.IsNaN(d) && !math.IsInf(d, 0) {
			diffs = append(diffs, d)
		}
	}
	if len(diffs) == 0 {
		return 1.0
	}

	sort.Float64s(diffs)
	mid := len(diffs) / 2
	res := diffs[mid]
	if len(diffs)%2 == 0 {
		res = (diffs[mid-1] + diffs[mid]) / 2
	}

	if math.IsNaN(res) || math.IsInf(res, 0) || res <= 0 {
		return 1.0
	}
	return res
}

// DefaultFilterWindows - median/SG window sizes sized to the band count,
// applied once when the first cube of a session loads.
func DefaultFilterWindows(bands int) (int, int) {
	if bands >= 1000 {
		return 21, 51
	}
	if bands >= 200 {
		return 7, 15
	}

	med := bands / 10
	if med > 7 {
		med = 7
	}
	med = utils.OddUp(med)
	if med < 3 {
		med = 3
	}

	sg := bands / 5
	if sg > 11 {
		sg = 11
	}
	sg = utils.OddUp(sg)
	if sg < 3 {
		sg = 3
	}

	return med, sg
}
