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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFromPaths(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.txt")
	bPath := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(aPath, []byte("file a contents"), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte("file b contents, a bit longer"), 0o644))

	header := helloHeader("gzip", 6)
	w := &memFile{}
	lead := Lead{Type: BinaryPackage, Name: "paths-test", OSNum: leadOSNum}
	require.NoError(t, BuildFromPaths(w, lead, header, []string{bPath, aPath}, true))

	w.pos = 0
	pkg, err := ReadPackage(w)
	require.NoError(t, err)
	require.NoError(t, pkg.Validate())

	files, err := pkg.Header().Files()
	require.NoError(t, err)
	require.Len(t, files, 2)
	// BuildFromPaths sorts its input for reproducibility.
	assert.Equal(t, aPath, files[0].Name)
	assert.Equal(t, bPath, files[1].Name)

	ar, err := pkg.ReadArchive()
	require.NoError(t, err)
	hdr, err := ar.Next()
	require.NoError(t, err)
	body, err := io.ReadAll(ar)
	require.NoError(t, err)
	assert.Equal(t, "file a contents", string(body))
	assert.EqualValues(t, len("file a contents"), hdr.Size)
}
