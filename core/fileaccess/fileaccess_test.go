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

package fileaccess

import (
	"fmt"
	"os"
)

type testData struct {
	Name        string `json:"name"`
	Value       int    `json:"value"`
	Description string `json:"description"`
}

// Same sequence run against every implementation, so local FS, S3 and the
// in-memory mock all behave alike from the caller's point of view
func runTest(fs FileAccess, bucket string) {
	// Write pretty printed JSON
	fmt.Printf("JSON: %v\n", fs.WriteJSON(bucket, "the-files/meta.json", testData{Name: "Hello", Value: 778, Description: "World"}))

	// Check file exists, should fail
	exists, err := fs.ObjectExists(bucket, "the-files/cube.raw")
	fmt.Printf("Exists1: %v|%v\n", exists, err)

	// Write binary data
	fmt.Printf("Binary: %v\n", fs.WriteObject(bucket, "the-files/cube.raw", []byte{250, 130, 10, 0, 33}))

	// Check file exists, should exist now...
	exists, err = fs.ObjectExists(bucket, "the-files/cube.raw")
	fmt.Printf("Exists2: %v|%v\n", exists, err)

	// Read each back/verify their contents
	var contents testData
	err = fs.ReadJSON(bucket, "the-files/meta.json", &contents, false)
	fmt.Printf("Read JSON: %v, %v\n", err, contents)

	data, err := fs.ReadObject(bucket, "the-files/cube.raw")
	fmt.Printf("Read Binary: %v, %v\n", err, data)

	// Read bad path, then check that this is a not found error
	err = fs.ReadJSON(bucket, "the-files/metazzz.json", &contents, false)
	fmt.Printf("Read bad path, got not found error: %v\n", fs.IsNotFoundError(err))

	// Read bad path with emptyIfNotFound set, should be quietly ignored
	err = fs.ReadJSON(bucket, "the-files/metazzz.json", &contents, true)
	fmt.Printf("Read bad path tolerant: %v\n", err)

	// Read the binary file as JSON, should fail to deserialise and get a different error
	err = fs.ReadJSON(bucket, "the-files/cube.raw", &contents, false)
	fmt.Printf("Not a \"not found\" error: %v\n", !fs.IsNotFoundError(err))

	// List files
	listing, err := fs.ListObjects(bucket, "the-files/")
	fmt.Printf("Listing: %v, %v\n", err, listing)

	// Delete bin file
	fmt.Printf("Delete bin: %v\n", fs.DeleteObject(bucket, "the-files/cube.raw"))

	// Check listing changed
	listing, err = fs.ListObjects(bucket, "the-files/")
	fmt.Printf("Listing2: %v, %v\n", err, listing)
}

func Example_localFileSystem() {
	dir, err := os.MkdirTemp("", "fstest")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	fs := &FSAccess{}
	runTest(fs, dir)

	// Output:
	// JSON: <nil>
	// Exists1: false|<nil>
	// Binary: <nil>
	// Exists2: true|<nil>
	// Read JSON: <nil>, {Hello 778 World}
	// Read Binary: <nil>, [250 130 10 0 33]
	// Read bad path, got not found error: true
	// Read bad path tolerant: <nil>
	// Not a "not found" error: true
	// Listing: <nil>, [the-files/cube.raw the-files/meta.json]
	// Delete bin: <nil>
	// Listing2: <nil>, [the-files/meta.json]
}

func Example_memAccess() {
	fs := MakeMemAccess()
	runTest(fs, "test-bucket")

	// Output:
	// JSON: <nil>
	// Exists1: false|<nil>
	// Binary: <nil>
	// Exists2: true|<nil>
	// Read JSON: <nil>, {Hello 778 World}
	// Read Binary: <nil>, [250 130 10 0 33]
	// Read bad path, got not found error: true
	// Read bad path tolerant: <nil>
	// Not a "not found" error: true
	// Listing: <nil>, [the-files/cube.raw the-files/meta.json]
	// Delete bin: <nil>
	// Listing2: <nil>, [the-files/meta.json]
}
