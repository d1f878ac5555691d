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

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/iken008/hyperspec-viewer/core/annotation"
	"github.com/iken008/hyperspec-viewer/core/fileaccess"
	"github.com/iken008/hyperspec-viewer/core/meta"
)

// WriteCSV - exports every annotation as one or two columns on the master
// wavelength axis. Points export one raw column, polygons a mean and a std
// column. Polygons whose source can't be resolved or that enclose no
// pixels are silently omitted.
func (e *Exporter) WriteCSV(fs fileaccess.FileAccess, bucket string, csvPath string, store *annotation.Store) error {
	current, _ := e.sources.Current()
	if current == nil || len(current.Wavelengths) == 0 {
		return errors.New("no wavelength axis available for export")
	}
	master := current.Wavelengths

	cols := [][]float64{}
	ids := []string{}
	labels := []string{}
	sourceTags := []string{}

	for i, pt := range store.Points {
		cols = append(cols, e.PointRawOnMaster(pt, master))
		ids = append(ids, meta.PointID(i))

		label := pt.Label
		if label == "" {
			label = fmt.Sprintf("(%v,%v)", pt.X, pt.Y)
		}
		labels = append(labels, label)

		base := ""
		if pt.Source != "" {
			base = path.Base(pt.Source)
		}
		sourceTags = append(sourceTags, fmt.Sprintf("%v@x=%v;y=%v", base, pt.X, pt.Y))
	}

	for j, pg := range store.Polygons {
		wlSrc, mean, std, n := e.PolygonRawStats(pg)
		if n == 0 {
			e.log.Debugf("CSV export skipping polygon %v: no pixels or missing source", meta.PolygonID(j))
			continue
		}

		xs, meanSorted := sortDedupByWavelength(wlSrc, mean)
		_, stdSorted := sortDedupByWavelength(wlSrc, std)
		cols = append(cols, interpToMaster(master, xs, meanSorted))
		ids = append(ids, meta.PolygonID(j)+"_mean")
		cols = append(cols, interpToMaster(master, xs, stdSorted))
		ids = append(ids, meta.PolygonID(j)+"_std")

		label := pg.Label
		if label == "" {
			label = meta.PolygonID(j)
		}
		labels = append(labels, label+" (mean)")
		labels = append(labels, label+" (std)")

		base := ""
		if pg.Source != "" {
			base = path.Base(pg.Source)
		}
		sourceTags = append(sourceTags, base, base)
	}

	var buf bytes.Buffer
	buf.WriteString("# note: values are RAW REFLECTANCE (no absorbance transform, no denoise/smoothing/SNV).\n")
	buf.WriteString("# note: polygon columns are mean and std over pixels INSIDE each polygon (raw reflectance).\n")
	buf.WriteString("# note: wavelength_nm is the master axis; other HSI spectra are interpolated onto it.\n")
	buf.WriteString("# labels:, " + strings.Join(labels, ", ") + "\n")
	buf.WriteString("# sources:, " + strings.Join(sourceTags, ", ") + "\n")

	w := csv.NewWriter(&buf)
	if err := w.Write(append([]string{"wavelength_nm"}, ids...)); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	row := make([]string, len(cols)+1)
	for i, wl := range master {
		row[0] = formatCSVValue(wl)
		for c, col := range cols {
			row[c+1] = formatCSVValue(col[i])
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "failed to write CSV row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "failed to flush CSV")
	}

	return fs.WriteObject(bucket, csvPath, buf.Bytes())
}

func formatCSVValue(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
