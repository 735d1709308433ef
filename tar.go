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
	"io"
	"path"

	"github.com/pkg/errors"
)

// BuildFromTar reads every entry of a tar stream into memory, adds each to
// header's file table, then opens an ArchiveBuilder on w and streams the
// buffered bodies into it. The whole tar stream is read once; it need not
// be seekable.
func BuildFromTar(w io.ReadWriteSeeker, lead Lead, header *HeaderView, inp io.Reader, withSHA1 bool) error {
	type bufferedFile struct {
		info FileInfo
		body []byte
	}
	var buffered []bufferedFile

	t := tar.NewReader(inp)
	for {
		th, err := t.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to read tar stream")
		}

		var body []byte
		mode := uint16(th.Mode)
		switch th.Typeflag {
		case tar.TypeDir:
			mode |= 0040000
		case tar.TypeSymlink:
			body = []byte(th.Linkname)
			mode |= 0120000
		case tar.TypeReg:
			b, err := io.ReadAll(t)
			if err != nil {
				return errors.Wrapf(err, "failed to read tar entry %q", th.Name)
			}
			body = b
			mode |= 0100000
		default:
			return errors.Errorf("unsupported tar entry type %d (%q)", th.Typeflag, th.Name)
		}

		owner, group := th.Uname, th.Gname
		if owner == "" {
			owner = "root"
		}
		if group == "" {
			group = "root"
		}

		fi := FileInfo{
			Name:      path.Join("/", th.Name),
			Size:      int64(len(body)),
			Mode:      mode,
			MTime:     th.ModTime,
			UserName:  owner,
			GroupName: group,
		}
		if th.Typeflag == tar.TypeSymlink {
			fi.LinkTo = th.Linkname
		}
		header.AddFile(fi)
		buffered = append(buffered, bufferedFile{info: fi, body: body})
	}

	ab, err := NewArchiveBuilder(w, lead, header, withSHA1)
	if err != nil {
		return err
	}
	for _, bf := range buffered {
		fw, err := ab.NextFile()
		if err != nil {
			return err
		}
		if _, err := fw.Write(bf.body); err != nil {
			return errors.Wrapf(err, "failed to write body of %q", bf.info.Name)
		}
		if err := fw.Close(); err != nil {
			return err
		}
	}
	return ab.Finish()
}
