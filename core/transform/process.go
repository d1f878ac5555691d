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

import (
	"github.com/iken008/hyperspec-viewer/core/logger"
	"github.com/iken008/hyperspec-viewer/core/utils"
)

// Fallback smoothing window when the Savitzky-Golay fit fails
const boxFallbackWindow = 7

// Process - runs the preprocessing chain on a band vector already in
// display units (see ApplyMode). Order is fixed: median denoise, then
// Savitzky-Golay smooth/differentiate, then SNV. Steps whose window can't
// fit the signal are skipped, the rest still run.
func Process(y []float64, cfg ProcessingConfig, log logger.ILogger) []float64 {
	result := y

	if cfg.Denoise {
		if k, ok := SafeWindowLength(len(result), cfg.MedianWindow, MedianMinWindow); ok {
			result = MedianFilter(result, k)
		} else {
			log.Debugf("Median filter skipped, %v bands is too short", len(result))
		}
	}

	if cfg.Smooth {
		result = smooth(result, cfg, log)
	}

	if cfg.SNV {
		result = ApplySNV(result)
	}

	return result
}

func smooth(y []float64, cfg ProcessingConfig, log logger.ILogger) []float64 {
	k, ok := SafeWindowLength(len(y), cfg.SGWindow, SGMinWindow)
	if !ok {
		log.Debugf("Smoothing skipped, %v bands is too short", len(y))
		return y
	}
	if k <= SGPolyOrder {
		// Window must exceed the polynomial order for the fit to exist
		k = utils.OddUp(SGPolyOrder + 3)
		if k > len(y) {
			log.Debugf("Smoothing skipped, %v bands is too short", len(y))
			return y
		}
	}

	smoothed, err := SavGolFilter(y, k, cfg.SGDeriv)
	if err != nil {
		log.Errorf("Savitzky-Golay failed (%v), falling back to box filter", err)
		bk, ok := SafeWindowLength(len(y), boxFallbackWindow, SGMinWindow)
		if !ok {
			return y
		}
		return BoxFilter(y, bk)
	}

	// Second derivative curves plot inverted so absorption features point up
	if cfg.SGDeriv == Deriv2 {
		for i := range smoothed {
			smoothed[i] = -smoothed[i]
		}
	}
	return smoothed
}
