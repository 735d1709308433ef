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

// Signature section tags.
const (
	sigSHA1        = 269
	sigSize        = 1000
	sigMD5         = 1004
	sigPayloadSize = 1007
)

// Header section tags. Only a subset of the format's tags is defined here;
// the on-disk format carries many more that this library treats as opaque
// via the generic IndexTable accessors.
const (
	tagHeaderI18NTable = 100

	tagName        = 1000
	tagVersion     = 1001
	tagRelease     = 1002
	tagSummary     = 1004
	tagDescription = 1005
	tagBuildTime   = 1006
	tagBuildHost   = 1007
	tagSize        = 1009
	tagVendor      = 1011
	tagLicense     = 1014
	tagGroup       = 1016
	tagURL         = 1020
	tagOS          = 1021
	tagArch        = 1022

	tagPrein      = 1023
	tagPostin     = 1024
	tagPreun      = 1025
	tagPostun     = 1026
	tagPreinProg  = 1085
	tagPostinProg = 1086
	tagPreunProg  = 1087
	tagPostunProg = 1088

	tagOldFilenames   = 1027
	tagFileSizes      = 1028
	tagFileModes      = 1030
	tagFileRDevs      = 1033
	tagFileMTimes     = 1034
	tagFileMD5s       = 1035
	tagFileLinkTos    = 1036
	tagFileFlags      = 1037
	tagFileUserName   = 1039
	tagFileGroupName  = 1040
	tagSourceRPM      = 1044
	tagFileVerify     = 1045
	tagArchiveSize    = 1046
	tagProvideName    = 1047
	tagRequireFlags   = 1048
	tagRequireName    = 1049
	tagRequireVersion = 1050

	tagConflictName    = 1054
	tagConflictVersion = 1055
	tagConflictFlags   = 1053

	tagChangelogTime = 1080
	tagChangelogName = 1081
	tagChangelogText = 1082

	tagFileDevices = 1095
	tagFileINodes  = 1096
	tagFileLangs   = 1097

	tagProvideVersion = 1113
	tagProvideFlags   = 1112

	tagOptFlags = 1122

	tagDirIndexes = 1116
	tagBasenames  = 1117
	tagDirnames   = 1118

	tagObsoleteName    = 1090
	tagObsoleteVersion = 1115
	tagObsoleteFlags   = 1114

	tagPayloadFormat     = 1124
	tagPayloadCompressor = 1125
	tagPayloadFlags      = 1126
)

// requireCompressedFileNames is the marker string that, when present in
// REQUIRENAME, selects the compressed (DIRNAMES/BASENAMES/DIRINDEXES)
// file-naming scheme over the legacy OLDFILENAMES scheme.
const requireCompressedFileNames = "rpmlib(CompressedFileNames)"
