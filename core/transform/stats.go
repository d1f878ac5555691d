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
	"math"

	"gonum.org/v1/gonum/stat"
)

// NaN-aware reducers. Corrupted bands show up as NaN in real cubes; they
// get dropped from the statistics rather than poisoning them. gonum's
// reducers aren't NaN-aware so we filter first.

// NaNMean - mean of the finite-or-infinite (non-NaN) values, NaN if none
func NaNMean(y []float64) float64 {
	vals := dropNaNs(y)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// NaNPopStd - population standard deviation (ddof=0) ignoring NaNs
func NaNPopStd(y []float64) float64 {
	vals := dropNaNs(y)
	if len(vals) == 0 {
		return math.NaN()
	}

	mean := stat.Mean(vals, nil)
	sumSq := 0.0
	for _, v := range vals {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(vals)))
}

func dropNaNs(y []float64) []float64 {
	result := y
	for i, v := range y {
		if math.IsNaN(v) {
			// First NaN found, switch to a filtered copy
			result = make([]float64, 0, len(y))
			result = append(result, y[:i]...)
			for _, w := range y[i+1:] {
				if !math.IsNaN(w) {
					result = append(result, w)
				}
			}
			break
		}
	}
	return result
}

// ApplySNV - Standard Normal Variate: centre on the mean, scale by the
// standard deviation. Constant or degenerate input is only centred, which
// keeps a flat spectrum flat instead of turning it into NaNs.
func ApplySNV(y []float64) []float64 {
	m := NaNMean(y)
	s := NaNPopStd(y)

	result := make([]float64, len(y))
	if math.IsNaN(s) || math.IsInf(s, 0) || s == 0 {
		for i, v := range y {
			result[i] = v - m
		}
		return result
	}

	for i, v := range y {
		result[i] = (v - m) / s
	}
	return result
}
