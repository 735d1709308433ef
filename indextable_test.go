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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allVariantsTable() *IndexTable {
	t := NewIndexTable()
	t.Set(100, NewNullValue())
	t.Set(101, NewCharValue([]byte("ab")))
	t.Set(102, NewInt8Value([]int8{-1, 2, 3}))
	t.Set(103, NewInt16Value([]int16{}))
	t.Set(104, NewInt32Value([]int32{1, 2, 3}))
	t.Set(105, NewInt64Value([]int64{}))
	t.Set(106, NewStringValue("hello"))
	t.Set(107, NewBinaryValue([]byte{0, 1, 2, 3}))
	t.Set(108, NewStringArrayValue([]string{"one", "two"}))
	t.Set(109, NewI18nStringValue([]string{"en", "fr"}))
	return t
}

func TestIndexTableAllVariantsRoundTrip(t *testing.T) {
	table := allVariantsTable()
	encoded, err := table.encode(false)
	require.NoError(t, err)

	got, err := decodeIndexTable(bytes.NewReader(encoded), false)
	require.NoError(t, err)

	for _, tag := range table.Tags() {
		want, _ := table.Get(tag)
		gotVal, ok := got.Get(tag)
		assert.Truef(t, ok, "missing tag %d after round trip", tag)
		assert.Truef(t, want.equal(gotVal), "tag %d round trip mismatch: %+v vs %+v", tag, want, gotVal)
	}
}

func TestIndexTableRoundTripBothPaddingModes(t *testing.T) {
	for _, pad := range []bool{true, false} {
		table := allVariantsTable()
		encoded, err := table.encode(pad)
		require.NoError(t, err)
		if pad {
			assert.Zero(t, len(encoded)%8, "padded encoding must be a multiple of 8 bytes")
		}
		got, err := decodeIndexTable(bytes.NewReader(encoded), pad)
		require.NoError(t, err)
		for _, tag := range table.Tags() {
			want, _ := table.Get(tag)
			gotVal, _ := got.Get(tag)
			assert.True(t, want.equal(gotVal), "tag %d mismatch under pad=%v", tag, pad)
		}
	}
}

func TestIndexTypeCodeRoundTrip(t *testing.T) {
	for code := TypeNull; code <= TypeI18nString; code++ {
		if IndexType(int32(code)) != code {
			t.Errorf("type code round trip failed for %v", code)
		}
	}
}

func TestIndexTableGetSetHas(t *testing.T) {
	table := NewIndexTable()
	assert.False(t, table.Has(1))
	table.Set(1, NewStringValue("x"))
	assert.True(t, table.Has(1))
	v, ok := table.Get(1)
	require.True(t, ok)
	s, ok := v.Str()
	require.True(t, ok)
	assert.Equal(t, "x", s)
}

func TestIndexTableOrderedIteration(t *testing.T) {
	table := NewIndexTable()
	table.Set(50, NewNullValue())
	table.Set(10, NewNullValue())
	table.Set(30, NewNullValue())
	assert.Equal(t, []int32{10, 30, 50}, table.Tags())
}

func TestPushMutators(t *testing.T) {
	table := NewIndexTable()
	table.Set(1, NewStringArrayValue([]string{"a"}))
	table.PushString(1, "b")
	arr, _ := table.GetStringArray(1)
	assert.Equal(t, []string{"a", "b"}, arr)

	table.Set(2, NewInt32Value([]int32{1}))
	table.PushInt32(2, 2)
	v, _ := table.Get(2)
	ints, _ := v.Int32()
	assert.Equal(t, []int32{1, 2}, ints)
}

func TestPushStringPanicsOnMissingTag(t *testing.T) {
	table := NewIndexTable()
	assert.Panics(t, func() { table.PushString(999, "x") })
}

func TestPushStringPanicsOnWrongVariant(t *testing.T) {
	table := NewIndexTable()
	table.Set(1, NewInt32Value([]int32{1}))
	assert.Panics(t, func() { table.PushString(1, "x") })
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := decodeIndexTable(bytes.NewReader(make([]byte, 16)), false)
	assert.Error(t, err)
}

func TestDecodeRejectsDuplicateTags(t *testing.T) {
	table := allVariantsTable()
	encoded, err := table.encode(false)
	require.NoError(t, err)
	// Duplicate the first index entry by overwriting the second entry's tag
	// bytes with the first entry's tag bytes.
	copy(encoded[32:36], encoded[16:20])
	_, err = decodeIndexTable(bytes.NewReader(encoded), false)
	assert.Error(t, err)
}

func TestDecodeRejectsUnterminatedString(t *testing.T) {
	_, err := decodeIndexValue(TypeString, 1, []byte("no terminator"))
	assert.Error(t, err)
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	_, err := decodeIndexValue(TypeString, 1, append([]byte{0xff, 0xfe}, 0))
	assert.Error(t, err)
}

func TestAlignment(t *testing.T) {
	assert.Equal(t, 1, TypeChar.alignment())
	assert.Equal(t, 2, TypeInt16.alignment())
	assert.Equal(t, 4, TypeInt32.alignment())
	assert.Equal(t, 8, TypeInt64.alignment())
	assert.Equal(t, 1, TypeString.alignment())
}

func TestSchemaValidateMissingRequired(t *testing.T) {
	table := NewIndexTable()
	err := table.validateEntry("Test", schemaEntry{required: true, name: "FOO", tag: 1, typ: TypeString})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing FOO entry (tag 1) in Test section")
}

func TestSchemaValidateTypeMismatch(t *testing.T) {
	table := NewIndexTable()
	table.Set(1, NewInt32Value([]int32{1}))
	err := table.validateEntry("Test", schemaEntry{required: true, name: "FOO", tag: 1, typ: TypeString})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect type for FOO entry (tag 1) in Test section")
}

func TestSchemaValidateCountMismatch(t *testing.T) {
	table := NewIndexTable()
	table.Set(1, NewInt32Value([]int32{1, 2}))
	err := table.validateEntry("Test", schemaEntry{required: true, name: "FOO", tag: 1, typ: TypeInt32, fixedCount: count(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect number of values for FOO entry (tag 1) in Test section")
}

func TestExpectStringValue(t *testing.T) {
	table := NewIndexTable()
	table.Set(1, NewStringValue("linux"))
	assert.NoError(t, table.expectStringValue("Test", "OS", 1, "linux"))
	err := table.expectStringValue("Test", "OS", 1, "windows")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `was "linux"`)
}
