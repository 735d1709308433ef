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

import "time"

// timestampToTime converts a tag's raw i32 seconds-since-epoch value to a
// time.Time, treating the bit pattern as an unsigned 32-bit quantity. RPM
// timestamps (BUILDTIME, FILEMTIMES, CHANGELOGTIME) are logically unsigned,
// but stored in i32 index slots, so a negative i32 like -1 means year 2106,
// not a time before the epoch.
func timestampToTime(raw int32) time.Time {
	seconds := int64(uint32(raw))
	return time.Unix(seconds, 0).UTC()
}

// timeToTimestamp converts a time.Time to the raw i32 used on disk, clamping
// times before 1970 to 0 and times at or after 2^32 seconds to 0xFFFFFFFF.
func timeToTimestamp(t time.Time) int32 {
	seconds := t.Unix()
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= int64(1)<<32 {
		seconds = int64(1)<<32 - 1
	}
	return int32(uint32(seconds))
}
