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

import "sort"

// MedianFilter - sliding window median with zero padding at the edges,
// matching the behaviour of the usual signal processing routines. k must
// be odd and <= len(y), callers size it via SafeWindowLength.
func MedianFilter(y []float64, k int) []float64 {
	n := len(y)
	result := make([]float64, n)
	half := k / 2
	window := make([]float64, k)

	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			idx := i - half + j
			if idx < 0 || idx >= n {
				window[j] = 0
			} else {
				window[j] = y[idx]
			}
		}
		sort.Float64s(window)
		result[i] = window[k/2]
	}

	return result
}

// BoxFilter - moving average with zero padding, the fallback smoother when
// the Savitzky-Golay fit fails. Never computes derivatives.
func BoxFilter(y []float64, k int) []float64 {
	n := len(y)
	result := make([]float64, n)
	half := k / 2
	// Even k keeps the "same" convolution alignment where the extra tap
	// trails the centre
	lead := k - 1 - half

	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < k; j++ {
			idx := i - lead + j
			if idx >= 0 && idx < n {
				sum += y[idx]
			}
		}
		result[i] = sum / float64(k)
	}

	return result
}
