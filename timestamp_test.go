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

import "testing"

func TestTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []int64{0, 54321, 1520908554, 0xFFFFFFFF} {
		raw := timeToTimestamp(timestampToTime(int32(uint32(seconds))))
		got := int64(uint32(raw))
		if got != seconds {
			t.Errorf("round trip of %d: got %d", seconds, got)
		}
	}
}

func TestTimestampClampsBelowEpoch(t *testing.T) {
	ts := timestampToTime(0x7FFFFFFF)
	ts = ts.AddDate(-200, 0, 0)
	raw := timeToTimestamp(ts)
	if raw != 0 {
		t.Errorf("timeToTimestamp(pre-1970) = %d, want 0", raw)
	}
}

func TestBuildTimeYear2038AndBeyond(t *testing.T) {
	got := timestampToTime(0x7FFFFFFF)
	if want := "2038-01-19 03:14:07 +0000 UTC"; got.String() != want {
		t.Errorf("timestampToTime(0x7FFFFFFF) = %s, want %s", got, want)
	}
	// -1 as an i32 is 0xFFFFFFFF as a u32: year 2106, not a moment before 1970.
	negOne := timestampToTime(-1)
	if negOne.Year() != 2106 {
		t.Errorf("timestampToTime(-1).Year() = %d, want 2106", negOne.Year())
	}
}
