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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	leadMagic        = 0xedabeedb
	leadVersionMajor = 3
	leadVersionMinor = 0
	leadArch         = 1
	leadOSNum        = 1
	leadSigType      = 5
	leadNameSize     = 66
	leadSize         = 96
)

// PackageType distinguishes a binary package from a source package, encoded
// in the Lead's type field.
type PackageType uint16

const (
	// BinaryPackage is an installable, compiled package.
	BinaryPackage PackageType = 0
	// SourcePackage carries the sources used to build a BinaryPackage.
	SourcePackage PackageType = 1
)

// Lead is the fixed 96-byte identifying block at the start of an RPM
// package file (historically called the "lead").
type Lead struct {
	Type PackageType
	// Name is the full "name-version-release" string, trimmed of any
	// trailing NUL padding on read.
	Name string
	// OSNum is written on read but is otherwise unused: every package
	// written by this library uses 1 (Linux), the only value the reader
	// accepts.
	OSNum uint16
}

// readLead parses the 96-byte Lead from the start of r.
func readLead(r io.Reader) (Lead, error) {
	var buf [leadSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Lead{}, errors.Wrap(err, "failed to read lead")
	}

	magic := binary.BigEndian.Uint32(buf[0:4])
	if magic != leadMagic {
		return Lead{}, invalidData("Not an RPM package (invalid magic number)")
	}
	major, minor := buf[4], buf[5]
	if major != leadVersionMajor || minor != leadVersionMinor {
		return Lead{}, invalidData(
			"unsupported format version %d.%d (only version %d.%d is supported)",
			major, minor, leadVersionMajor, leadVersionMinor)
	}
	ptypeNum := binary.BigEndian.Uint16(buf[6:8])
	ptype := PackageType(ptypeNum)
	if ptype != BinaryPackage && ptype != SourcePackage {
		return Lead{}, invalidData("invalid package type (%d)", ptypeNum)
	}
	// buf[8:10] is the arch field, historically unused; ignored on read.
	name := buf[10:76]
	i := len(name)
	for i > 0 && name[i-1] == 0 {
		i--
	}
	osnum := binary.BigEndian.Uint16(buf[76:78])
	if osnum != leadOSNum {
		return Lead{}, invalidData("invalid OS number (%d, only linux (1) is supported)", osnum)
	}
	sigType := binary.BigEndian.Uint16(buf[78:80])
	if sigType != leadSigType {
		return Lead{}, invalidData("invalid RPM signature type (%d)", sigType)
	}
	// buf[80:96] is the reserved field; must be all-zero on disk but is not
	// validated, matching the original implementation.

	return Lead{Type: ptype, Name: string(name[:i]), OSNum: leadOSNum}, nil
}

// writeLead serializes a Lead in the on-disk 96-byte layout. Names longer
// than 65 bytes are truncated to fit the 66-byte NUL-padded field.
func writeLead(w io.Writer, l Lead) error {
	var buf [leadSize]byte
	binary.BigEndian.PutUint32(buf[0:4], leadMagic)
	buf[4] = leadVersionMajor
	buf[5] = leadVersionMinor
	binary.BigEndian.PutUint16(buf[6:8], uint16(l.Type))
	binary.BigEndian.PutUint16(buf[8:10], leadArch)

	name := []byte(l.Name)
	if len(name) > leadNameSize-1 {
		name = name[:leadNameSize-1]
	}
	copy(buf[10:76], name)
	// remainder of the 66-byte name field is left zero (NUL padding).

	binary.BigEndian.PutUint16(buf[76:78], leadOSNum)
	binary.BigEndian.PutUint16(buf[78:80], leadSigType)
	// buf[80:96] stays zero: the 16 reserved bytes.

	_, err := w.Write(buf[:])
	return errors.Wrap(err, "failed to write lead")
}
