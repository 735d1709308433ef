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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPathAndJoinPath(t *testing.T) {
	dir, base := splitPath("/usr/lib/hi.txt")
	assert.Equal(t, "/usr/lib/", dir)
	assert.Equal(t, "hi.txt", base)
	assert.Equal(t, "/usr/lib/hi.txt", joinPath(dir, base))
}

func TestSplitPathNoSlash(t *testing.T) {
	dir, base := splitPath("noslash")
	assert.Equal(t, "", dir)
	assert.Equal(t, "noslash", base)
}

func TestDirIndexReusesExistingSlot(t *testing.T) {
	d := newDirIndex()
	a := d.indexFor("/usr/lib/")
	b := d.indexFor("/usr/share/")
	c := d.indexFor("/usr/lib/")
	assert.Equal(t, a, c)
	assert.NotEqual(t, a, b)
	assert.Equal(t, []string{"/usr/lib/", "/usr/share/"}, d.names())
}
