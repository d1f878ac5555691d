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

package cube

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/iken008/hyperspec-viewer/core/fileaccess"
	"github.com/iken008/hyperspec-viewer/core/logger"
)

const testHdr = `ENVI
description = {
 Test cube written by unit tests}
samples = 2
lines = 2
bands = 3
header offset = 0
data type = 4
interleave = bsq
byte order = 0
wavelength = {
 500.0, 510.0,
 520.0}
`

func writeTestENVI(fs fileaccess.FileAccess) {
	fs.WriteObject("cubes", "small.hdr", []byte(testHdr))

	// BSQ: all of band 0, then band 1, then band 2. Pixel (x,y) value is
	// 10*band + (y*2+x) so every pixel/band combination is distinct.
	raw := []byte{}
	for band := 0; band < 3; band++ {
		for pix := 0; pix < 4; pix++ {
			v := float32(10*band + pix)
			raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
		}
	}
	fs.WriteObject("cubes", "small.img", raw)
}

func Example_enviReader() {
	fs := fileaccess.MakeMemAccess()
	writeTestENVI(fs)

	reader := MakeENVIReader(fs, "cubes", &logger.NullLogger{})
	c, err := reader.Read("small.hdr")
	fmt.Println(err)
	fmt.Printf("shape: %vx%vx%v\n", c.Width, c.Height, c.Bands)
	fmt.Println("wavelengths:", c.Wavelengths)
	fmt.Printf("spectrum(1,0): %.0f\n", c.Spectrum(1, 0))
	fmt.Printf("spectrum(0,1): %.0f\n", c.Spectrum(0, 1))

	// Output:
	// <nil>
	// shape: 2x2x3
	// wavelengths: [500 510 520]
	// spectrum(1,0): [1 11 21]
	// spectrum(0,1): [2 12 22]
}

func Example_enviReaderMissingData() {
	fs := fileaccess.MakeMemAccess()
	fs.WriteObject("cubes", "orphan.hdr", []byte(testHdr))

	reader := MakeENVIReader(fs, "cubes", &logger.NullLogger{})
	_, err := reader.Read("orphan.hdr")
	fmt.Println(err)

	// Output:
	// no ENVI data file found for header orphan.hdr
}
