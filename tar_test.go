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
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestTar(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	tw := tar.NewWriter(buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "usr/lib/", Typeflag: tar.TypeDir, Mode: 0755}))
	body := []byte("tar file contents")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "usr/lib/hi.txt", Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(body))}))
	_, err := tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	return buf
}

func TestBuildFromTar(t *testing.T) {
	src := buildTestTar(t)
	header := helloHeader("gzip", 6)
	w := &memFile{}
	lead := Lead{Type: BinaryPackage, Name: "tar-test", OSNum: leadOSNum}
	require.NoError(t, BuildFromTar(w, lead, header, src, false))

	w.pos = 0
	pkg, err := ReadPackage(w)
	require.NoError(t, err)
	require.NoError(t, pkg.Validate())

	files, err := pkg.Header().Files()
	require.NoError(t, err)
	require.Len(t, files, 2)

	ar, err := pkg.ReadArchive()
	require.NoError(t, err)
	var gotReg bool
	for {
		hdr, err := ar.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Name == "/usr/lib/hi.txt" {
			body, err := io.ReadAll(ar)
			require.NoError(t, err)
			assert.Equal(t, "tar file contents", string(body))
			gotReg = true
		}
	}
	assert.True(t, gotReg)
}
