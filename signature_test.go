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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderSignatureHasFixedLength(t *testing.T) {
	for _, withSHA1 := range []bool{false, true} {
		ph := placeholderSignature(withSHA1)
		buf := &bytes.Buffer{}
		require.NoError(t, ph.write(buf))
		placeholderLen := buf.Len()

		ph.setHeaderAndArchiveSize(123456)
		ph.setUncompressedArchiveSize(654321)
		ph.setHeaderAndArchiveMD5(bytes.Repeat([]byte{0xAB}, 16))
		if withSHA1 {
			ph.setHeaderSHA1(bytes.Repeat([]byte{0xCD}, 20))
		}
		final := &bytes.Buffer{}
		require.NoError(t, ph.write(final))

		assert.Equalf(t, placeholderLen, final.Len(),
			"withSHA1=%v: placeholder length %d must match final length %d so back-patching doesn't shift the archive",
			withSHA1, placeholderLen, final.Len())
	}
}

func TestSignatureReadWriteRoundTrip(t *testing.T) {
	ph := placeholderSignature(true)
	ph.setHeaderAndArchiveSize(10)
	ph.setUncompressedArchiveSize(20)
	ph.setHeaderAndArchiveMD5(bytes.Repeat([]byte{1}, 16))
	ph.setHeaderSHA1(bytes.Repeat([]byte{2}, 20))

	buf := &bytes.Buffer{}
	require.NoError(t, ph.write(buf))

	got, err := readSignature(buf)
	require.NoError(t, err)

	size, ok := got.HeaderAndArchiveSize()
	require.True(t, ok)
	assert.EqualValues(t, 10, size)

	payload, ok := got.UncompressedArchiveSize()
	require.True(t, ok)
	assert.EqualValues(t, 20, payload)

	md5sum, ok := got.HeaderAndArchiveMD5()
	require.True(t, ok)
	assert.Equal(t, bytes.Repeat([]byte{1}, 16), md5sum)

	sha1hex, ok := got.HeaderSHA1()
	require.True(t, ok)
	assert.Equal(t, "0202020202020202020202020202020202020202", sha1hex)
}

func TestSignatureMissingRequiredTag(t *testing.T) {
	table := NewIndexTable()
	table.Set(sigMD5, NewBinaryValue(make([]byte, 16)))
	buf := &bytes.Buffer{}
	enc, err := table.encode(true)
	require.NoError(t, err)
	buf.Write(enc)

	_, err = readSignature(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing SIZE entry")
}
