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

import "github.com/pkg/errors"

var (
	// ErrInvalidData is the sentinel wrapped by every format and integrity
	// violation: bad framing, schema mismatches, cross-array mismatches, and
	// digest/size mismatches. Use errors.Is(err, ErrInvalidData) to detect
	// any of these.
	ErrInvalidData = errors.New("invalid rpm data")

	// ErrBadConfig is returned for writer-side input validation errors, such
	// as an unsupported compressor name or an out-of-range compression
	// level. It is distinct from ErrInvalidData because it reflects a bad
	// caller request, not a malformed package.
	ErrBadConfig = errors.New("invalid rpm builder configuration")

	// ErrWriteAfterClose is returned by ArchiveBuilder.NextFile once the
	// builder has been finished or closed.
	ErrWriteAfterClose = errors.New("write after close")

	// ErrWrongFileOrder is returned by ArchiveBuilder.NextFile when the
	// previous FileWriter has not been closed, or when every file recorded
	// in the header's file table has already been handed out.
	ErrWrongFileOrder = errors.New("wrong file addition order")
)

// invalidData formats a message and wraps it under ErrInvalidData, matching
// the single InvalidData error kind from the format's error design: one
// sentinel, many precise messages.
func invalidData(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidData, format, args...)
}

// badConfig formats a message and wraps it under ErrBadConfig.
func badConfig(format string, args ...interface{}) error {
	return errors.Wrapf(ErrBadConfig, format, args...)
}
