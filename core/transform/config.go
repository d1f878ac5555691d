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

// Spectral display transforms: reflectance/absorbance conversion and the
// denoise/smooth/normalise preprocessing chain applied to every plotted
// spectrum.
package transform

import "fmt"

// Mode - the display unit spectra are converted to before preprocessing
type Mode string

const (
	Reflectance Mode = "Reflectance"
	Absorbance  Mode = "Absorbance"
)

// DerivOrder - Savitzky-Golay derivative order
type DerivOrder int

const (
	Deriv0 DerivOrder = 0
	Deriv1 DerivOrder = 1
	Deriv2 DerivOrder = 2
)

// String - the form persisted in meta JSON
func (d DerivOrder) String() string {
	switch d {
	case Deriv1:
		return "1st"
	case Deriv2:
		return "2nd"
	}
	return "0th"
}

func ParseDerivOrder(s string) (DerivOrder, error) {
	switch s {
	case "0th":
		return Deriv0, nil
	case "1st":
		return Deriv1, nil
	case "2nd":
		return Deriv2, nil
	}
	return Deriv0, fmt.Errorf("invalid derivative order: %v", s)
}

const (
	// SG polynomial order is fixed, only window and derivative vary
	SGPolyOrder = 2

	SGMinWindow     = 3
	MedianMinWindow = 3
)

// ProcessingConfig - everything that influences how a raw band vector
// becomes a displayed curve. Deliberately a plain comparable value: it is
// passed explicitly to every transform and embedded directly in cache keys,
// so there is no "current config" global anywhere.
type ProcessingConfig struct {
	Mode         Mode
	Denoise      bool
	Smooth       bool
	SNV          bool
	MedianWindow int
	SGWindow     int
	SGDeriv      DerivOrder
}

// DefaultConfig - raw reflectance, no preprocessing. Window sizes get
// resized to the cube's band count on first load.
func DefaultConfig() ProcessingConfig {
	return ProcessingConfig{
		Mode:         Reflectance,
		MedianWindow: 5,
		SGWindow:     11,
		SGDeriv:      Deriv0,
	}
}
