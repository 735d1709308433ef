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
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// scriptTwin pairs an install-script tag with its interpreter-path twin;
// if the script is present, the twin must be too.
type scriptTwin struct {
	name, prog     string
	scriptTag      int32
	progTag        int32
}

var scriptTwins = []scriptTwin{
	{name: "PREIN", prog: "PREINPROG", scriptTag: tagPrein, progTag: tagPreinProg},
	{name: "POSTIN", prog: "POSTINPROG", scriptTag: tagPostin, progTag: tagPostinProg},
	{name: "PREUN", prog: "PREUNPROG", scriptTag: tagPreun, progTag: tagPreunProg},
	{name: "POSTUN", prog: "POSTUNPROG", scriptTag: tagPostun, progTag: tagPostunProg},
}

type depGroup struct {
	section              string
	nameTag, flagsTag, versionTag int32
}

var dependencyGroups = []depGroup{
	{section: "PROVIDE", nameTag: tagProvideName, flagsTag: tagProvideFlags, versionTag: tagProvideVersion},
	{section: "REQUIRE", nameTag: tagRequireName, flagsTag: tagRequireFlags, versionTag: tagRequireVersion},
	{section: "CONFLICT", nameTag: tagConflictName, flagsTag: tagConflictFlags, versionTag: tagConflictVersion},
	{section: "OBSOLETE", nameTag: tagObsoleteName, flagsTag: tagObsoleteFlags, versionTag: tagObsoleteVersion},
}

// fileTableArray is one of the per-file parallel arrays that must agree in
// length with the active naming scheme's file count, when present.
type fileTableArray struct {
	name string
	tag  int32
}

var fileTableArrays = []fileTableArray{
	{"FILESIZES", tagFileSizes},
	{"FILEMODES", tagFileModes},
	{"FILERDEVS", tagFileRDevs},
	{"FILEMTIMES", tagFileMTimes},
	{"FILEMD5S", tagFileMD5s},
	{"FILELINKTOS", tagFileLinkTos},
	{"FILEUSERNAME", tagFileUserName},
	{"FILEGROUPNAME", tagFileGroupName},
	{"FILELANGS", tagFileLangs},
	{"FILEFLAGS", tagFileFlags},
	{"FILEDEVICES", tagFileDevices},
	{"FILEINODES", tagFileINodes},
}

var identitySchema = []schemaEntry{
	{required: true, name: "NAME", tag: tagName, typ: TypeString},
	{required: true, name: "VERSION", tag: tagVersion, typ: TypeString},
	{required: true, name: "RELEASE", tag: tagRelease, typ: TypeString},
	{required: true, name: "SUMMARY", tag: tagSummary, typ: TypeI18nString},
	{required: true, name: "DESCRIPTION", tag: tagDescription, typ: TypeI18nString},
	{required: true, name: "SIZE", tag: tagSize, typ: TypeInt32, fixedCount: count(1)},
	{required: false, name: "VENDOR", tag: tagVendor, typ: TypeString},
	{required: true, name: "LICENSE", tag: tagLicense, typ: TypeString},
	{required: true, name: "GROUP", tag: tagGroup, typ: TypeI18nString},
	{required: false, name: "URL", tag: tagURL, typ: TypeString},
	{required: true, name: "OS", tag: tagOS, typ: TypeString},
	{required: true, name: "ARCH", tag: tagArch, typ: TypeString},
	{required: false, name: "ARCHIVESIZE", tag: tagArchiveSize, typ: TypeInt32, fixedCount: count(1)},
	{required: true, name: "PAYLOADFORMAT", tag: tagPayloadFormat, typ: TypeString},
	{required: true, name: "PAYLOADCOMPRESSOR", tag: tagPayloadCompressor, typ: TypeString},
	{required: true, name: "PAYLOADFLAGS", tag: tagPayloadFlags, typ: TypeString},
}

// HeaderView is a schema projection over an IndexTable carrying package
// identity, install scripts, the file table, dependency tables, the
// changelog, and build metadata.
type HeaderView struct {
	table           *IndexTable
	useOldFilenames bool
	dirs            *dirIndex
}

// FileInfo is one reconstructed entry of the header's file table.
type FileInfo struct {
	Name      string
	Size      int64
	Mode      uint16
	RDev      uint16
	MTime     time.Time
	MD5       string
	LinkTo    string
	Flags     int32
	UserName  string
	GroupName string
	Device    int32
	Inode     int32
	Lang      string
}

// ChangeLogEntry is one reconstructed entry of the header's changelog.
type ChangeLogEntry struct {
	Time time.Time
	Name string
	Text string
}

// NewHeaderView builds an empty HeaderView pre-populated with defaults for
// every required tag, using the legacy OLDFILENAMES naming scheme until
// EnableCompressedFileNames is called.
func NewHeaderView() *HeaderView {
	t := NewIndexTable()
	t.Set(tagName, NewStringValue(""))
	t.Set(tagVersion, NewStringValue(""))
	t.Set(tagRelease, NewStringValue(""))
	t.Set(tagSummary, NewI18nStringValue([]string{""}))
	t.Set(tagDescription, NewI18nStringValue([]string{""}))
	t.Set(tagSize, NewInt32Value([]int32{0}))
	t.Set(tagLicense, NewStringValue(""))
	t.Set(tagGroup, NewI18nStringValue([]string{""}))
	t.Set(tagOS, NewStringValue("linux"))
	t.Set(tagArch, NewStringValue("noarch"))
	t.Set(tagPayloadFormat, NewStringValue("cpio"))
	t.Set(tagPayloadCompressor, NewStringValue("gzip"))
	t.Set(tagPayloadFlags, NewStringValue("9"))
	t.Set(tagOldFilenames, NewStringArrayValue(nil))
	t.Set(tagProvideName, NewStringArrayValue(nil))
	t.Set(tagProvideFlags, NewInt32Value(nil))
	t.Set(tagProvideVersion, NewStringArrayValue(nil))
	t.Set(tagRequireName, NewStringArrayValue(nil))
	t.Set(tagRequireFlags, NewInt32Value(nil))
	t.Set(tagRequireVersion, NewStringArrayValue(nil))
	return &HeaderView{table: t, useOldFilenames: true}
}

// EnableCompressedFileNames switches an empty HeaderView from the legacy
// OLDFILENAMES scheme to the DIRNAMES/BASENAMES/DIRINDEXES scheme, and adds
// the rpmlib marker dependency that read() uses to detect the scheme.
func (h *HeaderView) EnableCompressedFileNames() {
	if !h.useOldFilenames {
		return
	}
	h.useOldFilenames = false
	h.dirs = newDirIndex()
	h.table.Set(tagDirnames, NewStringArrayValue(nil))
	h.table.Set(tagBasenames, NewStringArrayValue(nil))
	h.table.Set(tagDirIndexes, NewInt32Value(nil))

	names, _ := h.table.GetStringArray(tagRequireName)
	flags, _ := h.table.Get(tagRequireFlags)
	versions, _ := h.table.GetStringArray(tagRequireVersion)
	flagVals, _ := flags.Int32()
	h.table.Set(tagRequireName, NewStringArrayValue(append(names, requireCompressedFileNames)))
	h.table.Set(tagRequireFlags, NewInt32Value(append(flagVals, 0)))
	h.table.Set(tagRequireVersion, NewStringArrayValue(append(versions, "")))
}

// readHeader parses a HeaderView from r (no 8-byte padding) and validates
// it against the header schema.
func readHeader(r io.Reader) (*HeaderView, error) {
	table, err := decodeIndexTable(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header section")
	}
	h := &HeaderView{table: table}
	requireNames, _ := table.GetStringArray(tagRequireName)
	h.useOldFilenames = !containsString(requireNames, requireCompressedFileNames)
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func (h *HeaderView) validate() error {
	for _, e := range identitySchema {
		if err := h.table.validateEntry("Header", e); err != nil {
			return err
		}
	}
	if err := h.table.expectStringValue("Header", "OS", tagOS, "linux"); err != nil {
		return err
	}
	if err := h.table.expectStringValue("Header", "PAYLOADFORMAT", tagPayloadFormat, "cpio"); err != nil {
		return err
	}
	compressor, _ := h.table.GetString(tagPayloadCompressor)
	switch compressor {
	case "gzip", "bzip2", "xz":
	default:
		return invalidData("Incorrect value for PAYLOADCOMPRESSOR entry (tag %d) in Header section (was %q, must be one of gzip, bzip2, xz)",
			tagPayloadCompressor, compressor)
	}

	for _, twin := range scriptTwins {
		if h.table.Has(twin.scriptTag) && !h.table.Has(twin.progTag) {
			return invalidData("Missing %s entry (tag %d) in Header section (required because %s is present)",
				twin.prog, twin.progTag, twin.name)
		}
	}

	for _, g := range dependencyGroups {
		nameCount, flagsCount, versionCount := 0, 0, 0
		if v, ok := h.table.Get(g.nameTag); ok {
			nameCount = v.Count()
		}
		if v, ok := h.table.Get(g.flagsTag); ok {
			flagsCount = v.Count()
		}
		if v, ok := h.table.Get(g.versionTag); ok {
			versionCount = v.Count()
		}
		if nameCount != flagsCount || nameCount != versionCount {
			return invalidData("Counts for %sNAME, %sFLAGS and %sVERSION entries in Header section don't match (%d, %d, %d)",
				g.section, g.section, g.section, nameCount, flagsCount, versionCount)
		}
	}

	changeTimeCount, changeNameCount, changeTextCount := 0, 0, 0
	if v, ok := h.table.Get(tagChangelogTime); ok {
		changeTimeCount = v.Count()
	}
	if v, ok := h.table.Get(tagChangelogName); ok {
		changeNameCount = v.Count()
	}
	if v, ok := h.table.Get(tagChangelogText); ok {
		changeTextCount = v.Count()
	}
	if changeTimeCount != changeNameCount || changeTimeCount != changeTextCount {
		return invalidData("Counts for CHANGELOGTIME, CHANGELOGNAME and CHANGELOGTEXT entries in Header section don't match (%d, %d, %d)",
			changeTimeCount, changeNameCount, changeTextCount)
	}

	fileCount, err := h.fileCount()
	if err != nil {
		return err
	}
	for _, fa := range fileTableArrays {
		v, ok := h.table.Get(fa.tag)
		if !ok {
			continue
		}
		if v.Count() != fileCount {
			return invalidData("Counts for %s entry (tag %d) and the active file naming scheme in Header section don't match (%d vs. %d)",
				fa.name, fa.tag, v.Count(), fileCount)
		}
	}
	return nil
}

// fileCount determines the number of files from the active naming scheme,
// validating the compressed scheme's cross-array invariants along the way.
func (h *HeaderView) fileCount() (int, error) {
	if h.useOldFilenames {
		v, ok := h.table.Get(tagOldFilenames)
		if !ok {
			return 0, nil
		}
		return v.Count(), nil
	}
	dirnames, ok := h.table.GetStringArray(tagDirnames)
	if !ok {
		return 0, invalidData("Missing DIRNAMES entry (tag %d) in Header section", tagDirnames)
	}
	basenames, ok := h.table.GetStringArray(tagBasenames)
	if !ok {
		return 0, invalidData("Missing BASENAMES entry (tag %d) in Header section", tagBasenames)
	}
	dirIndexesVal, ok := h.table.Get(tagDirIndexes)
	if !ok {
		return 0, invalidData("Missing DIRINDEXES entry (tag %d) in Header section", tagDirIndexes)
	}
	dirIndexes, _ := dirIndexesVal.Int32()
	if len(dirIndexes) != len(basenames) {
		return 0, invalidData("Counts for BASENAMES entry (tag %d) and DIRINDEXES entry (tag %d) in Header section don't match (%d vs. %d)",
			tagBasenames, tagDirIndexes, len(basenames), len(dirIndexes))
	}
	for _, idx := range dirIndexes {
		if idx < 0 || int(idx) >= len(dirnames) {
			return 0, invalidData("DIRINDEXES entry (tag %d) in Header section references out-of-range DIRNAMES index %d", tagDirIndexes, idx)
		}
	}
	return len(basenames), nil
}

// AddFile appends fi to the header's file table, assigning it to the active
// naming scheme and keeping every parallel array in lockstep. fi.Size is
// also added to the header's SIZE (total installed size) entry.
func (h *HeaderView) AddFile(fi FileInfo) {
	if total, ok := h.table.GetNthInt32(tagSize, 0); ok {
		h.table.Set(tagSize, NewInt32Value([]int32{int32(uint32(total) + uint32(fi.Size))}))
	}

	if h.useOldFilenames {
		names, _ := h.table.GetStringArray(tagOldFilenames)
		h.table.Set(tagOldFilenames, NewStringArrayValue(append(names, fi.Name)))
	} else {
		dir, base := splitPath(fi.Name)
		idx := h.dirs.indexFor(dir)
		h.table.Set(tagDirnames, NewStringArrayValue(h.dirs.names()))
		basenames, _ := h.table.GetStringArray(tagBasenames)
		h.table.Set(tagBasenames, NewStringArrayValue(append(basenames, base)))
		dirIndexesVal, _ := h.table.Get(tagDirIndexes)
		dirIndexes, _ := dirIndexesVal.Int32()
		h.table.Set(tagDirIndexes, NewInt32Value(append(dirIndexes, idx)))
	}

	h.appendInt32(tagFileSizes, int32(uint32(fi.Size)))
	h.appendInt16(tagFileModes, int16(fi.Mode))
	h.appendInt16(tagFileRDevs, int16(fi.RDev))
	h.appendInt32(tagFileMTimes, timeToTimestamp(fi.MTime))
	h.appendString(tagFileMD5s, fi.MD5)
	h.appendString(tagFileLinkTos, fi.LinkTo)
	h.appendString(tagFileUserName, fi.UserName)
	h.appendString(tagFileGroupName, fi.GroupName)
	h.appendString(tagFileLangs, fi.Lang)
	h.appendInt32(tagFileFlags, fi.Flags)
	h.appendInt32(tagFileDevices, fi.Device)
	h.appendInt32(tagFileINodes, fi.Inode)
}

func (h *HeaderView) appendInt32(tag int32, v int32) {
	if !h.table.Has(tag) {
		h.table.Set(tag, NewInt32Value(nil))
	}
	h.table.PushInt32(tag, v)
}

func (h *HeaderView) appendInt16(tag int32, v int16) {
	if !h.table.Has(tag) {
		h.table.Set(tag, NewInt16Value(nil))
	}
	h.table.PushInt16(tag, v)
}

func (h *HeaderView) appendString(tag int32, v string) {
	if !h.table.Has(tag) {
		h.table.Set(tag, NewStringArrayValue(nil))
	}
	h.table.PushString(tag, v)
}

// Files reconstructs every FileInfo in the header's file table, in table
// order, using the naming scheme active at load time.
func (h *HeaderView) Files() ([]FileInfo, error) {
	n, err := h.fileCount()
	if err != nil {
		return nil, err
	}
	names, err := h.fileNames(n)
	if err != nil {
		return nil, err
	}
	sizes, _ := h.table.Get(tagFileSizes)
	sizeVals, _ := sizes.Int32()
	modes, _ := h.table.Get(tagFileModes)
	modeVals, _ := modes.Int16()
	rdevs, _ := h.table.Get(tagFileRDevs)
	rdevVals, _ := rdevs.Int16()
	mtimes, _ := h.table.Get(tagFileMTimes)
	mtimeVals, _ := mtimes.Int32()
	md5s, _ := h.table.GetStringArray(tagFileMD5s)
	links, _ := h.table.GetStringArray(tagFileLinkTos)
	users, _ := h.table.GetStringArray(tagFileUserName)
	groups, _ := h.table.GetStringArray(tagFileGroupName)
	langs, _ := h.table.GetStringArray(tagFileLangs)
	flags, _ := h.table.Get(tagFileFlags)
	flagVals, _ := flags.Int32()
	devices, _ := h.table.Get(tagFileDevices)
	deviceVals, _ := devices.Int32()
	inodes, _ := h.table.Get(tagFileINodes)
	inodeVals, _ := inodes.Int32()

	at := func(vals []int32, i int) int32 {
		if i < len(vals) {
			return vals[i]
		}
		return 0
	}
	atS := func(vals []string, i int) string {
		if i < len(vals) {
			return vals[i]
		}
		return ""
	}

	out := make([]FileInfo, n)
	for i := 0; i < n; i++ {
		fi := FileInfo{Name: names[i]}
		fi.Size = int64(uint32(at(sizeVals, i)))
		if i < len(modeVals) {
			fi.Mode = uint16(modeVals[i])
		}
		if i < len(rdevVals) {
			fi.RDev = uint16(rdevVals[i])
		}
		fi.MTime = timestampToTime(at(mtimeVals, i))
		fi.MD5 = atS(md5s, i)
		fi.LinkTo = atS(links, i)
		fi.UserName = atS(users, i)
		fi.GroupName = atS(groups, i)
		fi.Lang = atS(langs, i)
		fi.Flags = at(flagVals, i)
		fi.Device = at(deviceVals, i)
		fi.Inode = at(inodeVals, i)
		out[i] = fi
	}
	return out, nil
}

func (h *HeaderView) fileNames(n int) ([]string, error) {
	if h.useOldFilenames {
		names, _ := h.table.GetStringArray(tagOldFilenames)
		return names, nil
	}
	dirnames, _ := h.table.GetStringArray(tagDirnames)
	basenames, _ := h.table.GetStringArray(tagBasenames)
	dirIndexesVal, _ := h.table.Get(tagDirIndexes)
	dirIndexes, _ := dirIndexesVal.Int32()
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = joinPath(dirnames[dirIndexes[i]], basenames[i])
	}
	return names, nil
}

// Changelog reconstructs every ChangeLogEntry, in table order.
func (h *HeaderView) Changelog() []ChangeLogEntry {
	times, _ := h.table.Get(tagChangelogTime)
	timeVals, _ := times.Int32()
	names, _ := h.table.GetStringArray(tagChangelogName)
	texts, _ := h.table.GetStringArray(tagChangelogText)
	out := make([]ChangeLogEntry, len(timeVals))
	for i := range out {
		out[i] = ChangeLogEntry{Time: timestampToTime(timeVals[i]), Name: names[i], Text: texts[i]}
	}
	return out
}

// AddChangelogEntry appends one changelog record.
func (h *HeaderView) AddChangelogEntry(e ChangeLogEntry) {
	h.appendInt32(tagChangelogTime, timeToTimestamp(e.Time))
	h.appendString(tagChangelogName, e.Name)
	h.appendString(tagChangelogText, e.Text)
}

// PackageName, VersionString, ReleaseString and the other identity
// accessors expose the user-visible header fields their name suggests.
func (h *HeaderView) PackageName() string { s, _ := h.table.GetString(tagName); return s }

// VersionString returns the header's VERSION tag.
func (h *HeaderView) VersionString() string { s, _ := h.table.GetString(tagVersion); return s }

// ReleaseString returns the header's RELEASE tag.
func (h *HeaderView) ReleaseString() string { s, _ := h.table.GetString(tagRelease); return s }

// SummaryText returns the header's SUMMARY tag.
func (h *HeaderView) SummaryText() string {
	s, _ := h.table.GetNthString(tagSummary, 0)
	return s
}

// DescriptionText returns the header's DESCRIPTION tag.
func (h *HeaderView) DescriptionText() string {
	s, _ := h.table.GetNthString(tagDescription, 0)
	return s
}

// LicenseName returns the header's LICENSE tag.
func (h *HeaderView) LicenseName() string { s, _ := h.table.GetString(tagLicense); return s }

// VendorName returns the header's VENDOR tag, if present.
func (h *HeaderView) VendorName() (string, bool) { return h.table.GetString(tagVendor) }

// GroupName returns the header's GROUP tag.
func (h *HeaderView) GroupName() string {
	s, _ := h.table.GetNthString(tagGroup, 0)
	return s
}

// URLString returns the header's URL tag, if present.
func (h *HeaderView) URLString() (string, bool) { return h.table.GetString(tagURL) }

// ArchName returns the header's ARCH tag.
func (h *HeaderView) ArchName() string { s, _ := h.table.GetString(tagArch); return s }

// BuildTime returns the header's BUILDTIME tag, if present.
func (h *HeaderView) BuildTime() (time.Time, bool) {
	n, ok := h.table.GetNthInt32(tagBuildTime, 0)
	if !ok {
		return time.Time{}, false
	}
	return timestampToTime(n), true
}

// BuildHost returns the header's BUILDHOST tag, if present.
func (h *HeaderView) BuildHost() (string, bool) { return h.table.GetString(tagBuildHost) }

// PayloadCompressor returns the header's PAYLOADCOMPRESSOR tag.
func (h *HeaderView) PayloadCompressor() string {
	s, _ := h.table.GetString(tagPayloadCompressor)
	return s
}

// PayloadCompressionLevel returns the header's PAYLOADFLAGS tag parsed as
// an integer compression level.
func (h *HeaderView) PayloadCompressionLevel() (int, error) {
	s, _ := h.table.GetString(tagPayloadFlags)
	level, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidData("PAYLOADFLAGS entry (tag %d) in Header section is not a decimal integer (%q)", tagPayloadFlags, s)
	}
	return level, nil
}

// SetName sets the header's NAME tag.
func (h *HeaderView) SetName(name string) { h.table.Set(tagName, NewStringValue(name)) }

// SetVersion sets the header's VERSION tag.
func (h *HeaderView) SetVersion(v string) { h.table.Set(tagVersion, NewStringValue(v)) }

// SetRelease sets the header's RELEASE tag.
func (h *HeaderView) SetRelease(v string) { h.table.Set(tagRelease, NewStringValue(v)) }

// SetSummary sets the header's SUMMARY tag.
func (h *HeaderView) SetSummary(v string) { h.table.Set(tagSummary, NewI18nStringValue([]string{v})) }

// SetDescription sets the header's DESCRIPTION tag.
func (h *HeaderView) SetDescription(v string) {
	h.table.Set(tagDescription, NewI18nStringValue([]string{v}))
}

// SetLicense sets the header's LICENSE tag.
func (h *HeaderView) SetLicense(v string) { h.table.Set(tagLicense, NewStringValue(v)) }

// SetVendor sets the header's VENDOR tag.
func (h *HeaderView) SetVendor(v string) { h.table.Set(tagVendor, NewStringValue(v)) }

// SetGroup sets the header's GROUP tag.
func (h *HeaderView) SetGroup(v string) { h.table.Set(tagGroup, NewI18nStringValue([]string{v})) }

// SetURL sets the header's URL tag.
func (h *HeaderView) SetURL(v string) { h.table.Set(tagURL, NewStringValue(v)) }

// SetArch sets the header's ARCH tag.
func (h *HeaderView) SetArch(v string) { h.table.Set(tagArch, NewStringValue(v)) }

// SetBuildTime sets the header's BUILDTIME tag.
func (h *HeaderView) SetBuildTime(t time.Time) {
	h.table.Set(tagBuildTime, NewInt32Value([]int32{timeToTimestamp(t)}))
}

// SetBuildHost sets the header's BUILDHOST tag.
func (h *HeaderView) SetBuildHost(v string) { h.table.Set(tagBuildHost, NewStringValue(v)) }

// SetScript installs a script body and its interpreter path for one of the
// four lifecycle hooks, named exactly "PREIN", "POSTIN", "PREUN" or
// "POSTUN"; any other name returns ErrBadConfig.
func (h *HeaderView) SetScript(hook string, body, interpreter string) error {
	for _, twin := range scriptTwins {
		if twin.name == hook {
			h.table.Set(twin.scriptTag, NewStringValue(body))
			h.table.Set(twin.progTag, NewStringValue(interpreter))
			return nil
		}
	}
	return badConfig("unknown script hook %q", hook)
}

// SetProvides, SetRequires, SetConflicts and SetObsoletes install one
// dependency group's three parallel arrays. names, flags and versions must
// have identical length.
func (h *HeaderView) SetProvides(names []string, flags []int32, versions []string) error {
	return h.setDependencyGroup(dependencyGroups[0], names, flags, versions)
}

// SetRequires installs the REQUIRE dependency group.
func (h *HeaderView) SetRequires(names []string, flags []int32, versions []string) error {
	return h.setDependencyGroup(dependencyGroups[1], names, flags, versions)
}

// SetConflicts installs the CONFLICT dependency group.
func (h *HeaderView) SetConflicts(names []string, flags []int32, versions []string) error {
	return h.setDependencyGroup(dependencyGroups[2], names, flags, versions)
}

// SetObsoletes installs the OBSOLETE dependency group.
func (h *HeaderView) SetObsoletes(names []string, flags []int32, versions []string) error {
	return h.setDependencyGroup(dependencyGroups[3], names, flags, versions)
}

func (h *HeaderView) setDependencyGroup(g depGroup, names []string, flags []int32, versions []string) error {
	if len(names) != len(flags) || len(names) != len(versions) {
		return badConfig("%sNAME, %sFLAGS and %sVERSION must have equal length (%d, %d, %d)",
			g.section, g.section, g.section, len(names), len(flags), len(versions))
	}
	h.table.Set(g.nameTag, NewStringArrayValue(names))
	h.table.Set(g.flagsTag, NewInt32Value(flags))
	h.table.Set(g.versionTag, NewStringArrayValue(versions))
	return nil
}

// Table exposes the underlying IndexTable for advanced or opaque tags not
// covered by a typed accessor.
func (h *HeaderView) Table() *IndexTable { return h.table }

// write serializes the HeaderView without data padding.
func (h *HeaderView) write(w io.Writer) error {
	encoded, err := h.table.encode(false)
	if err != nil {
		return errors.Wrap(err, "failed to encode header section")
	}
	_, err = w.Write(encoded)
	return errors.Wrap(err, "failed to write header section")
}
