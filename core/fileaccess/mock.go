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
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/iken008/hyperspec-viewer/core/utils"
)

var errMemNotFound = fmt.Errorf("object not found")

// In-memory implementation for tests. Objects are keyed bucket/path.
type MemAccess struct {
	objects map[string][]byte
}

func MakeMemAccess() *MemAccess {
	return &MemAccess{objects: map[string][]byte{}}
}

func (m *MemAccess) ListObjects(bucket string, prefix string) ([]string, error) {
	result := []string{}
	for key := range m.objects {
		if strings.HasPrefix(key, bucket+"/"+prefix) {
			result = append(result, key[len(bucket)+1:])
		}
	}
	sort.Strings(result)
	return result, nil
}

func (m *MemAccess) ObjectExists(bucket string, path string) (bool, error) {
	_, ok := m.objects[bucket+"/"+path]
	return ok, nil
}

func (m *MemAccess) ReadObject(bucket string, path string) ([]byte, error) {
	data, ok := m.objects[bucket+"/"+path]
	if !ok {
		return nil, errMemNotFound
	}
	return data, nil
}

func (m *MemAccess) WriteObject(bucket string, path string, data []byte) error {
	m.objects[bucket+"/"+path] = data
	return nil
}

func (m *MemAccess) ReadJSON(bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	fileData, err := m.ReadObject(bucket, path)
	if err != nil {
		if emptyIfNotFound && m.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	return json.Unmarshal(fileData, itemsPtr)
}

func (m *MemAccess) WriteJSON(bucket string, path string, itemsPtr interface{}) error {
	fileData, err := json.MarshalIndent(itemsPtr, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		return err
	}

	return m.WriteObject(bucket, path, fileData)
}

func (m *MemAccess) DeleteObject(bucket string, path string) error {
	key := bucket + "/" + path
	if _, ok := m.objects[key]; !ok {
		return errMemNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *MemAccess) IsNotFoundError(err error) bool {
	return err == errMemNotFound
}
