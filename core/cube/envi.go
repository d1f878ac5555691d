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
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/iken008/hyperspec-viewer/core/fileaccess"
	"github.com/iken008/hyperspec-viewer/core/logger"
)

// Minimal ENVI format reader: a text .hdr describing shape/type/interleave
// plus a raw binary data file next to it. Covers the cubes the viewer deals
// with day to day; anything fancier should come in through its own Reader.

type ENVIReader struct {
	fs   fileaccess.FileAccess
	root string
	log  logger.ILogger
}

func MakeENVIReader(fs fileaccess.FileAccess, root string, log logger.ILogger) ENVIReader {
	return ENVIReader{fs: fs, root: root, log: log}
}

type enviHeader struct {
	samples      int
	lines        int
	bands        int
	dataType     int
	headerOffset int
	bigEndian    bool
	interleave   string
	wavelengths  []float64
}

func (r ENVIReader) Read(path string) (*Cube, error) {
	hdrData, err := r.fs.ReadObject(r.root, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read ENVI header %v", path)
	}

	hdr, err := parseENVIHeader(string(hdrData))
	if err != nil {
		return nil, errors.Wrapf(err, "bad ENVI header %v", path)
	}

	dataPath, err := r.findDataFile(path)
	if err != nil {
		return nil, err
	}

	raw, err := r.fs.ReadObject(r.root, dataPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read ENVI data %v", dataPath)
	}

	data, err := decodeENVIData(raw, hdr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode ENVI data %v", dataPath)
	}

	r.log.Debugf("Loaded ENVI cube %v: %vx%vx%v", path, hdr.samples, hdr.lines, hdr.bands)
	return New(data, hdr.samples, hdr.lines, hdr.bands, hdr.wavelengths)
}

// findDataFile - the binary file sits next to the header under a handful of
// conventional names, probe them in order.
func (r ENVIReader) findDataFile(hdrPath string) (string, error) {
	base := strings.TrimSuffix(hdrPath, ".hdr")
	base = strings.TrimSuffix(base, ".HDR")

	candidates := []string{base, base + ".img", base + ".dat", base + ".raw", base + ".bsq", base + ".bil", base + ".bip"}
	for _, candidate := range candidates {
		if candidate == hdrPath {
			continue
		}
		exists, err := r.fs.ObjectExists(r.root, candidate)
		if err == nil && exists {
			return candidate, nil
		}
	}

	return "", errors.Errorf("no ENVI data file found for header %v", hdrPath)
}

func parseENVIHeader(text string) (enviHeader, error) {
	hdr := enviHeader{interleave: "bsq"}

	if !strings.HasPrefix(strings.TrimSpace(text), "ENVI") {
		return hdr, errors.New("missing ENVI magic")
	}

	for _, kv := range splitENVIFields(text) {
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "samples":
			hdr.samples, _ = strconv.Atoi(val)
		case "lines":
			hdr.lines, _ = strconv.Atoi(val)
		case "bands":
			hdr.bands, _ = strconv.Atoi(val)
		case "data type":
			hdr.dataType, _ = strconv.Atoi(val)
		case "header offset":
			hdr.headerOffset, _ = strconv.Atoi(val)
		case "byte order":
			hdr.bigEndian = val == "1"
		case "interleave":
			hdr.interleave = strings.ToLower(val)
		case "wavelength":
			hdr.wavelengths = parseFloatList(val)
		}
	}

	if hdr.samples <= 0 || hdr.lines <= 0 {
		return hdr, errors.New("missing or invalid samples/lines")
	}
	// 2D single-band images often omit the bands field, promote to [H,W,1]
	if hdr.bands <= 0 {
		hdr.bands = 1
	}

	return hdr, nil
}

// splitENVIFields - "key = value" lines, where a { starts a block value
// that runs until the matching }.
func splitENVIFields(text string) [][2]string {
	result := [][2]string{}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}

		key := line[:eq]
		val := strings.TrimSpace(line[eq+1:])

		if strings.HasPrefix(val, "{") {
			for !strings.Contains(val, "}") && i+1 < len(lines) {
				i++
				val += " " + strings.TrimSpace(lines[i])
			}
			val = strings.TrimPrefix(strings.TrimSpace(val), "{")
			val = strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(val, "}")), ",")
		}

		result = append(result, [2]string{key, val})
	}

	return result
}

// parseFloatList - wavelength values, comma separated. Thousands separators
// crop up in headers written by spreadsheet tooling, so bare commas inside
// numbers are tolerated by stripping whitespace per item only.
func parseFloatList(val string) []float64 {
	result := []float64{}
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		f, err := strconv.ParseFloat(item, 64)
		if err != nil {
			continue
		}
		result = append(result, f)
	}
	return result
}

func decodeENVIData(raw []byte, hdr enviHeader) ([]float32, error) {
	sampleBytes := map[int]int{1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 12: 2}
	size, ok := sampleBytes[hdr.dataType]
	if !ok {
		return nil, errors.Errorf("unsupported ENVI data type %v", hdr.dataType)
	}

	count := hdr.samples * hdr.lines * hdr.bands
	if len(raw) < hdr.headerOffset+count*size {
		return nil, errors.Errorf("ENVI data too short: have %v bytes, need %v", len(raw), hdr.headerOffset+count*size)
	}
	raw = raw[hdr.headerOffset:]

	var order binary.ByteOrder = binary.LittleEndian
	if hdr.bigEndian {
		order = binary.BigEndian
	}

	readSample := func(idx int) float32 {
		off := idx * size
		switch hdr.dataType {
		case 1:
			return float32(raw[off])
		case 2:
			return float32(int16(order.Uint16(raw[off:])))
		case 3:
			return float32(int32(order.Uint32(raw[off:])))
		case 4:
			return math.Float32frombits(order.Uint32(raw[off:]))
		case 5:
			return float32(math.Float64frombits(order.Uint64(raw[off:])))
		default: // 12
			return float32(order.Uint16(raw[off:]))
		}
	}

	w, h, b := hdr.samples, hdr.lines, hdr.bands
	data := make([]float32, count)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for band := 0; band < b; band++ {
				var src int
				switch hdr.interleave {
				case "bip":
					src = (y*w+x)*b + band
				case "bil":
					src = (y*b+band)*w + x
				default: // bsq
					src = (band*h+y)*w + x
				}
				data[(y*w+x)*b+band] = readSample(src)
			}
		}
	}

	return data, nil
}
