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
	"crypto/md5"
	"crypto/sha1"
	"io"
	"runtime"

	"github.com/cavaliercoder/go-cpio"
	"github.com/pkg/errors"
)

// ArchiveBuilder drives the streaming write pipeline described in the
// package's write sequence: lead, placeholder signature, header, then each
// file's body through the CPIO/compressor stack, finishing with a
// back-patched signature once the real digests are known.
//
// The zero value is not usable; construct one with NewArchiveBuilder.
// Exactly one of Finish or Close must be called once every file has been
// written.
type ArchiveBuilder struct {
	w    io.ReadWriteSeeker
	header *HeaderView

	files []FileInfo
	next  int

	sigStart    int64
	headerStart int64
	archiveStart int64

	withSHA1 bool

	cw   *countingWriter
	comp compressWriter
	cpioW  *cpio.Writer

	openFile bool
	finished bool
	closed   bool
}

// NewArchiveBuilder records the lead and header, writes the fixed preamble,
// a placeholder signature, and the header table to w, and opens the
// compressed CPIO stream for the files already present in header's file
// table. withSHA1 controls whether the finished signature carries a SHA1
// entry in addition to the always-present MD5.
func NewArchiveBuilder(w io.ReadWriteSeeker, lead Lead, header *HeaderView, withSHA1 bool) (*ArchiveBuilder, error) {
	if err := writeLead(w, lead); err != nil {
		return nil, err
	}
	sigStart, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to record signature start offset")
	}
	placeholder := placeholderSignature(withSHA1)
	if err := placeholder.write(w); err != nil {
		return nil, err
	}
	headerStart, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to record header start offset")
	}
	if err := header.write(w); err != nil {
		return nil, err
	}
	archiveStart, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to record archive start offset")
	}

	files, err := header.Files()
	if err != nil {
		return nil, err
	}
	level, err := header.PayloadCompressionLevel()
	if err != nil {
		return nil, err
	}
	comp, err := newCompressWriter(header.PayloadCompressor(), level, w)
	if err != nil {
		return nil, err
	}
	// cw wraps comp (not w) so it counts uncompressed bytes flowing out of
	// the CPIO writer, matching what ArchiveReader.UncompressedBytes counts
	// on the read side.
	cw := &countingWriter{w: comp}

	ab := &ArchiveBuilder{
		w:            w,
		header:       header,
		files:        files,
		sigStart:     sigStart,
		headerStart:  headerStart,
		archiveStart: archiveStart,
		withSHA1:     withSHA1,
		cw:           cw,
		comp:         comp,
		cpioW:          cpio.NewWriter(cw),
	}
	runtime.SetFinalizer(ab, func(a *ArchiveBuilder) { a.Close() })
	return ab, nil
}

// FileWriter is the per-file writer returned by NextFile. The caller must
// write exactly the file's declared size before calling Close.
type FileWriter struct {
	ab        *ArchiveBuilder
	remaining int64
}

// NextFile advances to the next file recorded in the header's file table,
// in the order AddFile committed them, and returns a writer for its body.
// Calling NextFile before the previous FileWriter has been closed, or after
// every file has been written, returns ErrWrongFileOrder.
func (a *ArchiveBuilder) NextFile() (*FileWriter, error) {
	if a.finished || a.closed {
		return nil, ErrWriteAfterClose
	}
	if a.openFile {
		return nil, errors.Wrap(ErrWrongFileOrder, "previous file writer was not closed")
	}
	if a.next >= len(a.files) {
		return nil, errors.Wrap(ErrWrongFileOrder, "no more files recorded in the header file table")
	}
	fi := a.files[a.next]
	a.next++
	a.openFile = true

	links := 1
	if fi.Mode&0040000 != 0 { // directory
		links = 2
	}
	hdr := &cpio.Header{
		Name:  fi.Name,
		Mode:  cpio.FileMode(fi.Mode),
		Size:  fi.Size,
		Links: links,
		Mtime: fi.MTime.Unix(),
		Ino:   int64(fi.Inode),
	}
	if err := a.cpioW.WriteHeader(hdr); err != nil {
		return nil, errors.Wrapf(err, "failed to write archive frame header for %q", fi.Name)
	}
	return &FileWriter{ab: a, remaining: fi.Size}, nil
}

// Write streams file body bytes into the current archive frame. Writing
// more than the file's declared size returns an error.
func (f *FileWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > f.remaining {
		return 0, errors.New("write exceeds declared file size")
	}
	n, err := f.ab.cpioW.Write(p)
	f.remaining -= int64(n)
	return n, err
}

// Close finishes the current file frame. It is an error to close a
// FileWriter before writing its full declared size.
func (f *FileWriter) Close() error {
	f.ab.openFile = false
	if f.remaining != 0 {
		return errors.Errorf("file writer closed with %d bytes remaining", f.remaining)
	}
	return nil
}

// Finish closes the CPIO trailer, finalizes the compressed stream, and
// back-patches the signature with the real digests and sizes. It is an
// error to call Finish before every file recorded in the header has been
// written.
func (a *ArchiveBuilder) Finish() error {
	if a.finished {
		return nil
	}
	if a.next != len(a.files) {
		return errors.Errorf("finish called with %d of %d files written", a.next, len(a.files))
	}
	if a.openFile {
		return errors.New("finish called with a file writer still open")
	}
	if err := a.cpioW.Close(); err != nil {
		return errors.Wrap(err, "failed to close archive trailer")
	}
	if fl, ok := a.comp.(flusher); ok {
		if err := fl.Flush(); err != nil {
			return errors.Wrap(err, "failed to flush compressed stream")
		}
	}
	if err := a.comp.Close(); err != nil {
		return errors.Wrap(err, "failed to close compressed stream")
	}

	endPos, err := a.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "failed to record end of archive offset")
	}

	md5sum, err := hashRange(a.w, a.headerStart, endPos, md5.New())
	if err != nil {
		return err
	}
	var sha1sum []byte
	if a.withSHA1 {
		sha1sum, err = hashRange(a.w, a.headerStart, a.archiveStart, sha1.New())
		if err != nil {
			return err
		}
	}

	sig := placeholderSignature(a.withSHA1)
	sig.setHeaderAndArchiveSize(uint64(endPos - a.headerStart))
	sig.setUncompressedArchiveSize(uint64(a.cw.n))
	sig.setHeaderAndArchiveMD5(md5sum)
	if a.withSHA1 {
		sig.setHeaderSHA1(sha1sum)
	}

	if _, err := a.w.Seek(a.sigStart, io.SeekStart); err != nil {
		return errors.Wrap(err, "failed to seek back to signature start")
	}
	if err := sig.write(a.w); err != nil {
		return err
	}
	if _, err := a.w.Seek(endPos, io.SeekStart); err != nil {
		return errors.Wrap(err, "failed to restore writer position after finishing")
	}
	a.finished = true
	return nil
}

// Close finalizes the builder if it has not already been finished,
// swallowing errors from this best-effort fallback path. It is the
// backstop for callers that abandon a builder without calling Finish; the
// finalizer installed by NewArchiveBuilder invokes it as a last resort, but
// callers should not rely on the finalizer and should call Close (or
// Finish) explicitly.
func (a *ArchiveBuilder) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.finished {
		return nil
	}
	_ = a.Finish()
	return nil
}
