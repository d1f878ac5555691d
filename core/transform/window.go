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

import "github.com/iken008/hyperspec-viewer/core/utils"

// SafeWindowLength - filter kernel size that is guaranteed usable on a
// signal of length n. Narrowed plot ranges can shrink a spectrum below the
// configured window, in which case the window shrinks with it (rounded to
// odd). ok=false means the signal is too short to filter at all.
func SafeWindowLength(n int, base int, min int) (int, bool) {
	if n < min {
		return 0, false
	}

	k := base
	if n < base {
		k = utils.OddUp(n)
	}
	if k < min {
		k = min
	}

	if k > n {
		return 0, false
	}
	return k, true
}
