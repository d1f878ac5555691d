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

package annotation

// RGB - annotation display colour
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Palette - the 10 colour cycle annotations are drawn in. Points and
// polygons each advance through it with their own ordinal counter.
var Palette = [10]RGB{
	{31, 119, 180},
	{255, 127, 14},
	{44, 160, 44},
	{214, 39, 40},
	{148, 103, 189},
	{140, 86, 75},
	{227, 119, 194},
	{127, 127, 127},
	{188, 189, 34},
	{23, 190, 207},
}

// PaletteColor - colour for the entry created at the given ordinal. A pure
// function of the ordinal, so colours survive save/load without storing RGB
func PaletteColor(ordinal int) RGB {
	if ordinal < 0 {
		ordinal = -ordinal
	}
	return Palette[ordinal%len(Palette)]
}
