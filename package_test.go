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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageStringSummary(t *testing.T) {
	w := buildHelloPackage(t, true)
	pkg, err := ReadPackage(w)
	require.NoError(t, err)
	assert.Equal(t, "hello-0.1.2-debug (x86_64)", pkg.String())
}

func TestPackageValidateDetectsFileSizeMismatch(t *testing.T) {
	header := helloHeader("gzip", 1)
	header.AddFile(FileInfo{Name: "/usr/lib/a.txt", Size: 3})

	w := &memFile{}
	ab, err := NewArchiveBuilder(w, Lead{Type: BinaryPackage, Name: "x", OSNum: leadOSNum}, header, true)
	require.NoError(t, err)
	fw, err := ab.NextFile()
	require.NoError(t, err)
	_, err = fw.Write([]byte("ab!"))
	require.NoError(t, err)
	require.NoError(t, fw.Close())
	require.NoError(t, ab.Finish())
	w.pos = 0

	pkg, err := ReadPackage(w)
	require.NoError(t, err)
	// Directly tamper with the parsed FILESIZES entry so the archive frame
	// and the header table disagree.
	pkg.header.table.Set(tagFileSizes, NewInt32Value([]int32{99}))
	err = pkg.Validate()
	require.Error(t, err)
}

func TestPackageValidateDetectsInstalledSizeMismatch(t *testing.T) {
	w := buildHelloPackage(t, true)
	pkg, err := ReadPackage(w)
	require.NoError(t, err)
	pkg.header.table.Set(tagSize, NewInt32Value([]int32{999999}))

	err = pkg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installed size mismatch")
}

func TestArchiveReaderUncompressedBytes(t *testing.T) {
	w := buildHelloPackage(t, true)
	pkg, err := ReadPackage(w)
	require.NoError(t, err)
	ar, err := pkg.ReadArchive()
	require.NoError(t, err)

	var total int64
	for {
		hdr, err := ar.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		n, err := io.Copy(io.Discard, ar)
		require.NoError(t, err)
		total += n
		_ = hdr
	}
	// The counter covers the whole decompressed CPIO stream (frame headers,
	// padding and trailer as well as bodies), so it exceeds the body total
	// and equals the PAYLOAD_SIZE the builder recorded.
	wantPayload, ok := pkg.Signature().UncompressedArchiveSize()
	require.True(t, ok)
	assert.Less(t, total, ar.UncompressedBytes())
	assert.EqualValues(t, wantPayload, ar.UncompressedBytes())
}
