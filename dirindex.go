// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rpmpack

import "strings"

// dirIndex assigns DIRNAMES slots to directory prefixes on the write side,
// matching the reuse rule in add_file: a prefix already present in DIRNAMES
// is reused rather than duplicated.
type dirIndex struct {
	dirs  []string
	index map[string]int32
}

func newDirIndex() *dirIndex {
	return &dirIndex{index: make(map[string]int32)}
}

// splitPath divides an absolute install path into the DIRNAMES-style
// directory prefix (including the trailing slash, possibly empty) and the
// BASENAMES-style leaf name.
func splitPath(path string) (dir, base string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i+1], path[i+1:]
}

// indexFor returns dir's slot in DIRNAMES, appending a new slot if dir has
// not been seen before.
func (d *dirIndex) indexFor(dir string) int32 {
	if i, ok := d.index[dir]; ok {
		return i
	}
	i := int32(len(d.dirs))
	d.dirs = append(d.dirs, dir)
	d.index[dir] = i
	return i
}

// names returns the DIRNAMES slice built so far, in assignment order.
func (d *dirIndex) names() []string {
	return append([]string(nil), d.dirs...)
}

// joinPath reassembles an install path from a DIRNAMES/BASENAMES pair, the
// inverse of splitPath.
func joinPath(dir, base string) string {
	return dir + base
}
