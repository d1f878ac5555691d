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

package transform

import "math"

// Cubes arrive as normalised reflectance, raw digital counts or 16-bit
// scaled integers and rarely say which. A fixed threshold on the max value
// sorts unit-scale from 16-bit data without needing metadata.
const sixteenBitThreshold = 1.5

// ApplyMode - converts a raw band vector into the display unit. Identity
// for reflectance. For absorbance the vector is rescaled to [0,1] if it
// looks 16-bit, clipped away from zero, then -log10'd, so the output is
// always finite.
func ApplyMode(y []float64, mode Mode) []float64 {
	if mode != Absorbance {
		return y
	}

	maxv := math.Inf(-1)
	for _, v := range y {
		if !math.IsNaN(v) && v > maxv {
			maxv = v
		}
	}

	scale := 1.0
	if !math.IsInf(maxv, 0) && maxv > sixteenBitThreshold {
		scale = 1.0 / 65535.0
	}

	result := make([]float64, len(y))
	for i, v := range y {
		r := v * scale
		if r < 1e-8 {
			r = 1e-8
		}
		if r > 1.0 {
			r = 1.0
		}
		a := -math.Log10(r)
		if a == 0 {
			// Fully reflective bands give -log10(1) = -0, keep it positive
			a = 0
		}
		result[i] = a
	}
	return result
}
