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
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cavaliercoder/go-cpio"
	"github.com/pkg/errors"
)

// Package is a parsed RPM package file: the lead, the two index-table
// sections, and the byte offsets needed to reach the compressed archive
// without reading it eagerly.
type Package struct {
	r io.ReadSeeker

	lead      Lead
	signature SignatureView
	header    *HeaderView

	headerStart  int64
	archiveStart int64
}

// ReadPackage parses the lead, signature, and header sections from r,
// recording the archive's start offset but not reading any file bytes.
func ReadPackage(r io.ReadSeeker) (*Package, error) {
	lead, err := readLead(r)
	if err != nil {
		return nil, err
	}
	signature, err := readSignature(r)
	if err != nil {
		return nil, err
	}
	headerStart, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to record header start offset")
	}
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	archiveStart, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to record archive start offset")
	}
	return &Package{
		r:            r,
		lead:         lead,
		signature:    signature,
		header:       header,
		headerStart:  headerStart,
		archiveStart: archiveStart,
	}, nil
}

// Lead returns the package's preamble.
func (p *Package) Lead() Lead { return p.lead }

// Signature returns the package's signature section.
func (p *Package) Signature() SignatureView { return p.signature }

// Header returns the package's header section.
func (p *Package) Header() *HeaderView { return p.header }

// ArchiveReader iterates a package's compressed CPIO archive file by file.
// Read reads the body of the entry most recently returned by Next.
type ArchiveReader struct {
	cr   *countingReader
	cpioR *cpio.Reader
	done bool
}

// ReadArchive seeks to the start of the compressed archive and returns an
// iterator over its files. No file bytes are read until Next and Read are
// called.
func (p *Package) ReadArchive() (*ArchiveReader, error) {
	if _, err := p.r.Seek(p.archiveStart, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "failed to seek to archive start")
	}
	dec, err := newDecompressReader(p.header.PayloadCompressor(), p.r)
	if err != nil {
		return nil, err
	}
	cr := &countingReader{r: dec}
	return &ArchiveReader{cr: cr, cpioR: cpio.NewReader(cr)}, nil
}

// Next advances to the next file in the archive, returning its frame
// header. It returns io.EOF after the CPIO trailer entry.
func (a *ArchiveReader) Next() (*cpio.Header, error) {
	if a.done {
		return nil, io.EOF
	}
	hdr, err := a.cpioR.Next()
	if err == io.EOF {
		a.done = true
	}
	return hdr, err
}

// Read reads from the body of the file most recently returned by Next.
func (a *ArchiveReader) Read(p []byte) (int, error) {
	return a.cpioR.Read(p)
}

// UncompressedBytes returns the number of uncompressed archive bytes
// consumed so far.
func (a *ArchiveReader) UncompressedBytes() int64 { return a.cr.n }

// Validate performs the ordered integrity checks the package format
// guarantees: the header+archive byte range matches SIZE, its MD5 matches
// MD5, the header-only bytes match SHA1 (if present), each file's declared
// size and (if recorded) MD5 match its archive frame and body, the
// accumulated file sizes match SIZE, and the decompressed byte count
// matches PAYLOAD_SIZE (if present).
func (p *Package) Validate() error {
	end, err := p.r.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.Wrap(err, "failed to seek to end of file")
	}
	wantSize, _ := p.signature.HeaderAndArchiveSize()
	gotSize := uint64(end - p.headerStart)
	if gotSize != wantSize {
		return invalidData("header+archive size mismatch: file has %d bytes, SIZE says %d", gotSize, wantSize)
	}

	wantMD5, _ := p.signature.HeaderAndArchiveMD5()
	gotMD5, err := hashRange(p.r, p.headerStart, end, md5.New())
	if err != nil {
		return err
	}
	if string(gotMD5) != string(wantMD5) {
		return invalidData("MD5 mismatch over header+archive bytes: file has %x, signature says %x", gotMD5, wantMD5)
	}

	if wantSHA1, ok := p.signature.HeaderSHA1(); ok {
		gotSHA1, err := hashRange(p.r, p.headerStart, p.archiveStart, sha1.New())
		if err != nil {
			return err
		}
		if hex.EncodeToString(gotSHA1) != wantSHA1 {
			return invalidData("SHA1 mismatch over header bytes: file has %s, signature says %s", hex.EncodeToString(gotSHA1), wantSHA1)
		}
	}

	files, err := p.header.Files()
	if err != nil {
		return err
	}
	ar, err := p.ReadArchive()
	if err != nil {
		return err
	}
	var accumulated int64
	for i := 0; ; i++ {
		hdr, err := ar.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to read archive frame")
		}
		if i >= len(files) {
			return invalidData("archive contains more files than the header file table (%d)", len(files))
		}
		fi := files[i]
		if hdr.Size != fi.Size {
			return invalidData("file %q size mismatch: archive frame has %d bytes, FILESIZES says %d", fi.Name, hdr.Size, fi.Size)
		}
		accumulated += hdr.Size
		if fi.MD5 != "" {
			h := md5.New()
			if _, err := io.Copy(h, ar); err != nil {
				return errors.Wrapf(err, "failed to read body of %q", fi.Name)
			}
			gotMD5 := hex.EncodeToString(h.Sum(nil))
			if gotMD5 != fi.MD5 {
				return invalidData("file %q MD5 mismatch: body hashes to %s, FILEMD5S says %s", fi.Name, gotMD5, fi.MD5)
			}
		}
	}

	if installedSize, ok := p.header.Table().GetNthInt32(tagSize, 0); ok {
		wantInstalled := uint64(uint32(installedSize))
		if gotInstalled := uint64(accumulated); gotInstalled != wantInstalled {
			return invalidData("installed size mismatch: file bodies total %d bytes, header SIZE says %d", gotInstalled, wantInstalled)
		}
	}

	if wantPayload, ok := p.signature.UncompressedArchiveSize(); ok {
		gotPayload := uint64(ar.UncompressedBytes())
		if gotPayload != wantPayload {
			return invalidData("uncompressed archive size mismatch: decoder produced %d bytes, PAYLOAD_SIZE says %d", gotPayload, wantPayload)
		}
	}
	return nil
}

// String returns a short human-readable summary: the lead's name followed
// by the header's ARCH in parentheses.
func (p *Package) String() string {
	return fmt.Sprintf("%s (%s)", p.lead.Name, p.header.ArchName())
}
