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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLeadRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		lead Lead
	}{
		{"binary", Lead{Type: BinaryPackage, Name: "hello-0.1.2-debug", OSNum: leadOSNum}},
		{"source", Lead{Type: SourcePackage, Name: "hello-0.1.2-debug.src", OSNum: leadOSNum}},
		{"max length name", Lead{Type: BinaryPackage, Name: strings.Repeat("a", 65), OSNum: leadOSNum}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := writeLead(buf, tc.lead); err != nil {
				t.Fatalf("writeLead: %v", err)
			}
			if buf.Len() != leadSize {
				t.Fatalf("writeLead produced %d bytes, want %d", buf.Len(), leadSize)
			}
			got, err := readLead(buf)
			if err != nil {
				t.Fatalf("readLead: %v", err)
			}
			if d := cmp.Diff(tc.lead, got); d != "" {
				t.Errorf("lead round trip mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestLeadTruncatesLongNames(t *testing.T) {
	buf := &bytes.Buffer{}
	longName := strings.Repeat("x", 200)
	if err := writeLead(buf, Lead{Type: BinaryPackage, Name: longName, OSNum: leadOSNum}); err != nil {
		t.Fatalf("writeLead: %v", err)
	}
	got, err := readLead(buf)
	if err != nil {
		t.Fatalf("readLead: %v", err)
	}
	if len(got.Name) != leadNameSize-1 {
		t.Errorf("truncated name length = %d, want %d", len(got.Name), leadNameSize-1)
	}
}

func TestReadLeadInvalidMagic(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := writeLead(buf, Lead{Type: BinaryPackage, Name: "x", OSNum: leadOSNum}); err != nil {
		t.Fatalf("writeLead: %v", err)
	}
	corrupted := buf.Bytes()
	corrupted[0] = 0
	_, err := readLead(bytes.NewReader(corrupted))
	if err == nil || !strings.Contains(err.Error(), "Not an RPM package") {
		t.Errorf("readLead with bad magic = %v, want an error mentioning 'Not an RPM package'", err)
	}
}

func TestReadLeadTruncatedInput(t *testing.T) {
	_, err := readLead(bytes.NewReader([]byte{0xed, 0xab}))
	if err == nil {
		t.Error("readLead on truncated input: want error, got nil")
	}
}

func TestReadLeadRejectsBadVersion(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := writeLead(buf, Lead{Type: BinaryPackage, Name: "x", OSNum: leadOSNum}); err != nil {
		t.Fatalf("writeLead: %v", err)
	}
	b := buf.Bytes()
	b[5] = 1 // minor version
	_, err := readLead(bytes.NewReader(b))
	if err == nil || !strings.Contains(err.Error(), "unsupported format version") {
		t.Errorf("readLead with bad version = %v, want unsupported format version error", err)
	}
}
