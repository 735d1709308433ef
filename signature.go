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
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

// signatureSchema lists the tags SignatureView validates. Public-key
// signature tags are deliberately absent: they are carried through
// untouched by the generic IndexTable but never required or type-checked,
// per spec section 4.3.
var signatureSchema = []schemaEntry{
	{required: true, name: "SIZE", tag: sigSize, typ: TypeInt32, fixedCount: count(1)},
	{required: false, name: "PAYLOAD_SIZE", tag: sigPayloadSize, typ: TypeInt32, fixedCount: count(1)},
	{required: false, name: "SHA1", tag: sigSHA1, typ: TypeString},
	{required: true, name: "MD5", tag: sigMD5, typ: TypeBinary, fixedCount: count(16)},
}

// SignatureView is a schema projection over an IndexTable carrying
// cryptographic integrity metadata: sizes and digests that span the header
// and archive sections.
type SignatureView struct {
	table *IndexTable
}

// readSignature parses a SignatureView from r, including the 8-byte data
// padding the signature section always carries, and validates it against
// the signature schema.
func readSignature(r io.Reader) (SignatureView, error) {
	table, err := decodeIndexTable(r, true)
	if err != nil {
		return SignatureView{}, errors.Wrap(err, "failed to read signature section")
	}
	sv := SignatureView{table: table}
	if err := sv.validate(); err != nil {
		return SignatureView{}, err
	}
	return sv, nil
}

func (s SignatureView) validate() error {
	for _, e := range signatureSchema {
		if err := s.table.validateEntry("Signature", e); err != nil {
			return err
		}
	}
	return nil
}

// placeholderSignature returns a SignatureView with every integrity field
// present and zeroed, whose encoded length matches any subsequent real
// value the builder will substitute in: SIZE and PAYLOAD_SIZE are
// zero-valued Int32s, and MD5 is 16 zero bytes. SHA1 is included only if
// withSHA1 is true, so its encoded length also stays fixed once chosen.
func placeholderSignature(withSHA1 bool) SignatureView {
	table := NewIndexTable()
	table.Set(sigSize, NewInt32Value([]int32{0}))
	table.Set(sigPayloadSize, NewInt32Value([]int32{0}))
	table.Set(sigMD5, NewBinaryValue(make([]byte, 16)))
	if withSHA1 {
		table.Set(sigSHA1, NewStringValue(zeroHexString(40)))
	}
	return SignatureView{table: table}
}

func zeroHexString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

// write serializes the SignatureView with 8-byte data padding.
func (s SignatureView) write(w io.Writer) error {
	encoded, err := s.table.encode(true)
	if err != nil {
		return errors.Wrap(err, "failed to encode signature section")
	}
	_, err = w.Write(encoded)
	return errors.Wrap(err, "failed to write signature section")
}

// HeaderSHA1 returns the lowercase hex SHA-1 of the header table bytes, if
// present.
func (s SignatureView) HeaderSHA1() (string, bool) {
	return s.table.GetString(sigSHA1)
}

// HeaderAndArchiveMD5 returns the 16-byte MD5 of the header table plus
// compressed archive bytes.
func (s SignatureView) HeaderAndArchiveMD5() ([]byte, bool) {
	return s.table.GetBinary(sigMD5)
}

// HeaderAndArchiveSize returns the combined byte length of the header table
// and compressed archive, reinterpreting the stored Int32 as unsigned.
func (s SignatureView) HeaderAndArchiveSize() (uint64, bool) {
	n, ok := s.table.GetNthInt32(sigSize, 0)
	if !ok {
		return 0, false
	}
	return uint64(uint32(n)), true
}

// UncompressedArchiveSize returns the uncompressed archive byte length, if
// present.
func (s SignatureView) UncompressedArchiveSize() (uint64, bool) {
	n, ok := s.table.GetNthInt32(sigPayloadSize, 0)
	if !ok {
		return 0, false
	}
	return uint64(uint32(n)), true
}

// setHeaderAndArchiveSize installs the SIZE field, masking to 32 bits.
func (s SignatureView) setHeaderAndArchiveSize(n uint64) {
	s.table.Set(sigSize, NewInt32Value([]int32{int32(uint32(n))}))
}

// setUncompressedArchiveSize installs the PAYLOAD_SIZE field.
func (s SignatureView) setUncompressedArchiveSize(n uint64) {
	s.table.Set(sigPayloadSize, NewInt32Value([]int32{int32(uint32(n))}))
}

// setHeaderAndArchiveMD5 installs the MD5 field. sum must be 16 bytes.
func (s SignatureView) setHeaderAndArchiveMD5(sum []byte) {
	s.table.Set(sigMD5, NewBinaryValue(sum))
}

// setHeaderSHA1 installs the SHA1 field from a raw digest.
func (s SignatureView) setHeaderSHA1(sum []byte) {
	s.table.Set(sigSHA1, NewStringValue(hex.EncodeToString(sum)))
}

// hasSHA1 reports whether this view carries a SHA1 entry.
func (s SignatureView) hasSHA1() bool {
	return s.table.Has(sigSHA1)
}
