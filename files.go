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
	"path"
	"sort"

	"github.com/pkg/errors"
)

// BuildFromPaths adds every path in files to header's file table (sorted
// for reproducibility), then opens an ArchiveBuilder on w and streams each
// file's contents from disk. It is a convenience wrapper around AddFile
// plus NextFile/Write/Close for the common case of packaging files already
// present on disk; callers with other data sources should drive
// ArchiveBuilder directly.
func BuildFromPaths(w io.ReadWriteSeeker, lead Lead, header *HeaderView, files []string, withSHA1 bool) error {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	for _, f := range sorted {
		fi, err := os.Stat(f)
		if err != nil {
			return errors.Wrapf(err, "failed to stat %q", f)
		}
		header.AddFile(FileInfo{
			Name:      path.Join("/", f),
			Size:      fi.Size(),
			Mode:      uint16(fi.Mode().Perm()) | 0100000,
			MTime:     fi.ModTime(),
			UserName:  "root",
			GroupName: "root",
		})
	}

	ab, err := NewArchiveBuilder(w, lead, header, withSHA1)
	if err != nil {
		return err
	}
	for _, f := range sorted {
		if err := streamFileBody(ab, f); err != nil {
			return err
		}
	}
	return ab.Finish()
}

func streamFileBody(ab *ArchiveBuilder, name string) error {
	r, err := os.Open(name)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", name)
	}
	defer r.Close()

	fw, err := ab.NextFile()
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return errors.Wrapf(err, "failed to stream %q into archive", name)
	}
	return fw.Close()
}
