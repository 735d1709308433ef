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
	"compress/gzip"
	"hash"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// compressWriter is the minimal streaming encoder contract the builder
// depends on: write, optionally flush, and close onto the underlying sink.
type compressWriter interface {
	io.Writer
	Close() error
}

type flusher interface {
	Flush() error
}

// countingWriter counts bytes passed through it, giving the builder the
// uncompressed archive byte count without depending on compressor internals.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// countingReader mirrors countingWriter for the read side, used to recover
// PAYLOAD_SIZE during validation.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func validateCompressionLevel(level int) error {
	if level < 1 || level > 9 {
		return badConfig("compression level must be between 1 and 9 (was %d)", level)
	}
	return nil
}

// newCompressWriter returns a streaming encoder for name (one of gzip,
// bzip2, xz) writing to w at the given level. xz has no tunable level in
// the library this wraps; the level is still validated for consistency
// with the other two compressors but otherwise ignored.
func newCompressWriter(name string, level int, w io.Writer) (compressWriter, error) {
	if err := validateCompressionLevel(level); err != nil {
		return nil, err
	}
	switch name {
	case "gzip":
		return gzip.NewWriterLevel(w, level)
	case "bzip2":
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: level})
	case "xz":
		return xz.NewWriter(w)
	default:
		return nil, badConfig("unsupported payload compressor %q", name)
	}
}

// newDecompressReader returns a streaming decoder for name, reading from r.
func newDecompressReader(name string, r io.Reader) (io.Reader, error) {
	switch name {
	case "gzip":
		return gzip.NewReader(r)
	case "bzip2":
		return bzip2.NewReader(r, nil)
	case "xz":
		return xz.NewReader(r)
	default:
		return nil, invalidData("unsupported payload compressor %q", name)
	}
}

// hashRange feeds the bytes of rs in [start, end) into h, restoring rs's
// prior read position before returning. Used to compute the signature
// digests, which cover byte ranges of the file that were already written
// (or, on read, already parsed) by the time the digest is needed.
func hashRange(rs io.ReadSeeker, start, end int64, h hash.Hash) ([]byte, error) {
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to record seek position before hashing")
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "failed to seek to start of hash range")
	}
	if _, err := io.CopyN(h, rs, end-start); err != nil {
		return nil, errors.Wrap(err, "failed to read hash range")
	}
	if _, err := rs.Seek(cur, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "failed to restore seek position after hashing")
	}
	return h.Sum(nil), nil
}
