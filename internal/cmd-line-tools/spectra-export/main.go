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

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/iken008/hyperspec-viewer/core/annotation"
	"github.com/iken008/hyperspec-viewer/core/awsutil"
	"github.com/iken008/hyperspec-viewer/core/cube"
	"github.com/iken008/hyperspec-viewer/core/export"
	"github.com/iken008/hyperspec-viewer/core/fileaccess"
	"github.com/iken008/hyperspec-viewer/core/logger"
	"github.com/iken008/hyperspec-viewer/core/meta"
	"github.com/iken008/hyperspec-viewer/core/polygon"
	"github.com/iken008/hyperspec-viewer/core/timestamper"
	"github.com/iken008/hyperspec-viewer/core/transform"
)

func main() {
	fmt.Println("================================")
	fmt.Println("=  Spectra CSV export utility  =")
	fmt.Println("================================")

	ilog := &logger.StdOutLogger{}

	var argHDRPath = flag.String("hdr", "", "Path to ENVI header of the cube to treat as current (optional if meta references one)")
	var argMetaPath = flag.String("meta", "", "Path to annotation meta JSON to export from")
	var argOutPath = flag.String("out", "spectra_simple.csv", "Path to write the CSV to")
	var argOutBucket = flag.String("out-bucket", "", "S3 bucket to write the CSV to instead of the local filesystem")
	var argLogLevel = flag.String("log-level", "info", "Log level: debug, info, error")

	flag.Parse()

	level, err := logger.GetLogLevel(*argLogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	ilog.SetLogLevel(level)

	if len(*argMetaPath) <= 0 {
		log.Fatalln("meta not set")
	}

	// Bucket is the filesystem root, so paths pass through unchanged
	fs := &fileaccess.FSAccess{}
	reader := cube.MakeENVIReader(fs, "", ilog)
	sources := cube.NewSourceSet(reader, &timestamper.UnixTimeNowStamper{}, ilog, 0)

	store := annotation.MakeStore()
	result, err := meta.Load(fs, "", *argMetaPath, store, transform.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to load meta: %v", err)
	}

	ilog.Infof("Loaded meta: %v points, %v polygons (%v/%v skipped as duplicates)",
		result.AddedPoints, result.AddedPolygons, result.SkippedPoints, result.SkippedPolygons)
	for _, missing := range result.MissingSources {
		ilog.Infof("Missing source cube: %v", missing)
	}

	hdrPath := *argHDRPath
	if len(hdrPath) <= 0 {
		// Fall back to the first loadable cube the meta references
		if len(result.HDRCandidates) <= 0 {
			log.Fatalln("hdr not set and meta references no loadable cube")
		}
		hdrPath = result.HDRCandidates[0]
	}

	current, err := reader.Read(hdrPath)
	if err != nil {
		log.Fatalf("Failed to load cube %v: %v", hdrPath, err)
	}
	sources.SetCurrent(current, hdrPath)
	ilog.Infof("Loaded cube %v: %vx%v pixels, %v bands", hdrPath, current.Width, current.Height, current.Bands)

	var outFS fileaccess.FileAccess = fs
	outBucket := ""
	if len(*argOutBucket) > 0 {
		sess, err := awsutil.GetSession()
		if err != nil {
			log.Fatalf("AWS GetSession failed: %v", err)
		}
		svc, err := awsutil.GetS3(sess)
		if err != nil {
			log.Fatalf("AWS GetS3 failed: %v", err)
		}
		outFS = fileaccess.MakeS3Access(svc)
		outBucket = *argOutBucket
	}

	exporter := export.MakeExporter(sources, polygon.MakeRasterizer(), ilog)
	if err := exporter.WriteCSV(outFS, outBucket, *argOutPath, store); err != nil {
		ilog.Errorf("Export error: %v", err)
		os.Exit(1)
	}

	ilog.Infof("Export complete: %v", *argOutPath)
}
