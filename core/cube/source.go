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
	"path/filepath"
	"strings"

	"github.com/iken008/hyperspec-viewer/core/logger"
	"github.com/iken008/hyperspec-viewer/core/timestamper"
)

// Annotations remember which cube they were sampled against, so redraws and
// exports can pull band vectors out of cubes other than the one on screen.
// SourceSet owns the current cube plus a small LRU cache of those alternates.

// Reader - decodes a cube from a source path. Implemented by ENVIReader
// here, or by whatever HSI decoding library the embedding app prefers.
type Reader interface {
	Read(path string) (*Cube, error)
}

// NormSourcePath - canonical form of a source path used everywhere a path
// is compared or used as a cache key: absolute, cleaned, case-insensitive.
func NormSourcePath(p string) string {
	if p == "" {
		return ""
	}

	norm := strings.ReplaceAll(p, "\\", "/")
	abs, err := filepath.Abs(norm)
	if err != nil {
		abs = norm
	}
	return strings.ToLower(filepath.Clean(abs))
}

// SameSource - true if two paths refer to the same cube file.
func SameSource(a string, b string) bool {
	return NormSourcePath(a) == NormSourcePath(b)
}

// IsLikelySourcePath - cheap check used when scanning imported annotation
// entries for loadable cubes.
func IsLikelySourcePath(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), ".hdr")
}

type cachedSource struct {
	cube            *Cube // nil records a failed load so we don't retry every redraw
	lastReadUnixSec int64
}

// SourceSet - the current cube and lazily loaded alternate sources.
// Alternates are bounded LRU; letting them accumulate for a whole session
// is an unbounded-growth trap with large cubes.
type SourceSet struct {
	reader      Reader
	ts          timestamper.ITimeStamper
	log         logger.ILogger
	maxCached   int
	current     *Cube
	currentPath string
	cache       map[string]*cachedSource
}

const DefaultMaxCachedSources = 8

func NewSourceSet(reader Reader, ts timestamper.ITimeStamper, log logger.ILogger, maxCached int) *SourceSet {
	if maxCached <= 0 {
		maxCached = DefaultMaxCachedSources
	}
	return &SourceSet{
		reader:    reader,
		ts:        ts,
		log:       log,
		maxCached: maxCached,
		cache:     map[string]*cachedSource{},
	}
}

// SetCurrent - replaces the on-screen cube. Any cached alternate for the
// same path is dropped so a reload actually rereads the file.
func (s *SourceSet) SetCurrent(c *Cube, sourcePath string) {
	s.current = c
	s.currentPath = NormSourcePath(sourcePath)
	delete(s.cache, s.currentPath)
}

func (s *SourceSet) Current() (*Cube, string) {
	return s.current, s.currentPath
}

// IsCurrent - empty source is the "sampled on whatever is loaded" sentinel.
func (s *SourceSet) IsCurrent(source string) bool {
	if source == "" {
		return true
	}
	return NormSourcePath(source) == s.currentPath
}

// CubeFor - resolves a source path to a cube: the current one if it
// matches, else a cached or freshly loaded alternate. Returns nil when the
// source can't be read; the failure is remembered until Clear.
func (s *SourceSet) CubeFor(source string) *Cube {
	if s.IsCurrent(source) {
		return s.current
	}

	norm := NormSourcePath(source)
	if entry, ok := s.cache[norm]; ok {
		entry.lastReadUnixSec = s.ts.GetTimeNowSec()
		return entry.cube
	}

	var loaded *Cube
	if s.reader != nil && IsLikelySourcePath(norm) {
		c, err := s.reader.Read(source)
		if err != nil {
			s.log.Errorf("Failed to load source cube %v: %v", source, err)
		} else {
			loaded = c
		}
	}

	s.cache[norm] = &cachedSource{cube: loaded, lastReadUnixSec: s.ts.GetTimeNowSec()}
	s.evictIfNeeded()
	return loaded
}

func (s *SourceSet) evictIfNeeded() {
	for len(s.cache) > s.maxCached {
		oldestPath := ""
		oldestTime := int64(0)
		for p, entry := range s.cache {
			if oldestPath == "" || entry.lastReadUnixSec < oldestTime {
				oldestPath = p
				oldestTime = entry.lastReadUnixSec
			}
		}

		delete(s.cache, oldestPath)
		s.log.Debugf("Evicted cached source cube: %v", oldestPath)
	}
}

// Clear - drops all cached alternates, including remembered failures.
func (s *SourceSet) Clear() {
	s.cache = map[string]*cachedSource{}
}

// CachedSourceCount - how many alternate sources are currently held.
func (s *SourceSet) CachedSourceCount() int {
	return len(s.cache)
}
