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

// Package rpmpack reads, validates, and writes RPM package files: the
// fixed-size lead, the two tagged index tables (signature and header), and
// the compressed CPIO payload stream.
package rpmpack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const indexMagic = 0x8eade801

// IndexType identifies which of the ten on-disk variants an IndexValue
// holds.
type IndexType int32

// The ten index value type codes, as they appear on disk.
const (
	TypeNull IndexType = iota
	TypeChar
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeString
	TypeBinary
	TypeStringArray
	TypeI18nString
)

func (t IndexType) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeChar:
		return "Char"
	case TypeInt8:
		return "Int8"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeString:
		return "String"
	case TypeBinary:
		return "Binary"
	case TypeStringArray:
		return "StringArray"
	case TypeI18nString:
		return "I18nString"
	default:
		return fmt.Sprintf("IndexType(%d)", int32(t))
	}
}

// alignment returns the byte alignment the data region must respect before
// this type's encoded value begins. Only the integer array types are
// aligned; some versions of rpm fail when integers are not aligned, and
// other versions fail when non-integers are aligned.
func (t IndexType) alignment() int {
	switch t {
	case TypeInt16:
		return 2
	case TypeInt32:
		return 4
	case TypeInt64:
		return 8
	default:
		return 1
	}
}

// IndexValue is a tagged sum of the ten value variants an IndexTable entry
// can hold. Zero value is a Null. Use the New*Value constructors to build
// one, and the per-variant accessors (Char, Int8, Int16, Int32, Int64, Str,
// Binary, StringArray, I18nStrings; each reports ok=false on a type
// mismatch instead of panicking) to read one back.
type IndexValue struct {
	typ         IndexType
	char        []byte
	int8s       []int8
	int16s      []int16
	int32s      []int32
	int64s      []int64
	str         string
	binary      []byte
	strArray    []string
	i18nStrings []string
}

// Type reports which variant this value holds.
func (v IndexValue) Type() IndexType { return v.typ }

// Count reports the on-disk count field for this value: byte length for
// Char/Int8/Binary, element count for numeric arrays and StringArray/
// I18nString, and always 1 for Null and String.
func (v IndexValue) Count() int {
	switch v.typ {
	case TypeNull:
		return 1
	case TypeChar:
		return len(v.char)
	case TypeInt8:
		return len(v.int8s)
	case TypeInt16:
		return len(v.int16s)
	case TypeInt32:
		return len(v.int32s)
	case TypeInt64:
		return len(v.int64s)
	case TypeString:
		return 1
	case TypeBinary:
		return len(v.binary)
	case TypeStringArray:
		return len(v.strArray)
	case TypeI18nString:
		return len(v.i18nStrings)
	default:
		return 0
	}
}

// NewNullValue returns a Null index value.
func NewNullValue() IndexValue { return IndexValue{typ: TypeNull} }

// NewCharValue returns a Char index value.
func NewCharValue(b []byte) IndexValue { return IndexValue{typ: TypeChar, char: b} }

// NewInt8Value returns an Int8 index value.
func NewInt8Value(v []int8) IndexValue { return IndexValue{typ: TypeInt8, int8s: v} }

// NewInt16Value returns an Int16 index value.
func NewInt16Value(v []int16) IndexValue { return IndexValue{typ: TypeInt16, int16s: v} }

// NewInt32Value returns an Int32 index value.
func NewInt32Value(v []int32) IndexValue { return IndexValue{typ: TypeInt32, int32s: v} }

// NewInt64Value returns an Int64 index value.
func NewInt64Value(v []int64) IndexValue { return IndexValue{typ: TypeInt64, int64s: v} }

// NewStringValue returns a String index value.
func NewStringValue(s string) IndexValue { return IndexValue{typ: TypeString, str: s} }

// NewBinaryValue returns a Binary index value.
func NewBinaryValue(b []byte) IndexValue { return IndexValue{typ: TypeBinary, binary: b} }

// NewStringArrayValue returns a StringArray index value.
func NewStringArrayValue(v []string) IndexValue {
	return IndexValue{typ: TypeStringArray, strArray: v}
}

// NewI18nStringValue returns an I18nString index value.
func NewI18nStringValue(v []string) IndexValue {
	return IndexValue{typ: TypeI18nString, i18nStrings: v}
}

// Char returns the Char payload, if this value holds one.
func (v IndexValue) Char() ([]byte, bool) {
	if v.typ != TypeChar {
		return nil, false
	}
	return v.char, true
}

// Int8 returns the Int8 payload, if this value holds one.
func (v IndexValue) Int8() ([]int8, bool) {
	if v.typ != TypeInt8 {
		return nil, false
	}
	return v.int8s, true
}

// Int16 returns the Int16 payload, if this value holds one.
func (v IndexValue) Int16() ([]int16, bool) {
	if v.typ != TypeInt16 {
		return nil, false
	}
	return v.int16s, true
}

// Int32 returns the Int32 payload, if this value holds one.
func (v IndexValue) Int32() ([]int32, bool) {
	if v.typ != TypeInt32 {
		return nil, false
	}
	return v.int32s, true
}

// Int64 returns the Int64 payload, if this value holds one.
func (v IndexValue) Int64() ([]int64, bool) {
	if v.typ != TypeInt64 {
		return nil, false
	}
	return v.int64s, true
}

// Str returns the String payload, if this value holds one.
func (v IndexValue) Str() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.str, true
}

// Binary returns the Binary payload, if this value holds one.
func (v IndexValue) Binary() ([]byte, bool) {
	if v.typ != TypeBinary {
		return nil, false
	}
	return v.binary, true
}

// StringArray returns the StringArray payload, if this value holds one.
func (v IndexValue) StringArray() ([]string, bool) {
	if v.typ != TypeStringArray {
		return nil, false
	}
	return v.strArray, true
}

// I18nStrings returns the I18nString payload, if this value holds one.
func (v IndexValue) I18nStrings() ([]string, bool) {
	if v.typ != TypeI18nString {
		return nil, false
	}
	return v.i18nStrings, true
}

func (v IndexValue) equal(o IndexValue) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeChar:
		return bytes.Equal(v.char, o.char)
	case TypeInt8:
		return int8sEqual(v.int8s, o.int8s)
	case TypeInt16:
		return int16sEqual(v.int16s, o.int16s)
	case TypeInt32:
		return int32sEqual(v.int32s, o.int32s)
	case TypeInt64:
		return int64sEqual(v.int64s, o.int64s)
	case TypeString:
		return v.str == o.str
	case TypeBinary:
		return bytes.Equal(v.binary, o.binary)
	case TypeStringArray:
		return stringsEqual(v.strArray, o.strArray)
	case TypeI18nString:
		return stringsEqual(v.i18nStrings, o.i18nStrings)
	}
	return false
}

func int8sEqual(a, b []int8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int16sEqual(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int32sEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int64sEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// encode returns the on-disk bytes for this value's data (not including any
// alignment padding before it, which the table writer inserts separately).
func (v IndexValue) encode() ([]byte, error) {
	buf := &bytes.Buffer{}
	switch v.typ {
	case TypeNull:
		return nil, nil
	case TypeChar:
		return append([]byte(nil), v.char...), nil
	case TypeInt8:
		for _, n := range v.int8s {
			buf.WriteByte(byte(n))
		}
		return buf.Bytes(), nil
	case TypeInt16:
		if err := binary.Write(buf, binary.BigEndian, v.int16s); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case TypeInt32:
		if err := binary.Write(buf, binary.BigEndian, v.int32s); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case TypeInt64:
		if err := binary.Write(buf, binary.BigEndian, v.int64s); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case TypeString:
		buf.WriteString(v.str)
		buf.WriteByte(0)
		return buf.Bytes(), nil
	case TypeBinary:
		return append([]byte(nil), v.binary...), nil
	case TypeStringArray, TypeI18nString:
		strs := v.strArray
		if v.typ == TypeI18nString {
			strs = v.i18nStrings
		}
		for _, s := range strs {
			buf.WriteString(s)
			buf.WriteByte(0)
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Errorf("unsupported index type %v", v.typ)
	}
}

// decodeIndexValue parses count elements of typ out of data.
func decodeIndexValue(typ IndexType, count uint32, data []byte) (IndexValue, error) {
	switch typ {
	case TypeNull:
		return NewNullValue(), nil
	case TypeChar:
		if uint32(len(data)) < count {
			return IndexValue{}, invalidData("truncated Char entry")
		}
		return NewCharValue(append([]byte(nil), data[:count]...)), nil
	case TypeInt8:
		if uint32(len(data)) < count {
			return IndexValue{}, invalidData("truncated Int8 entry")
		}
		out := make([]int8, count)
		for i := range out {
			out[i] = int8(data[i])
		}
		return NewInt8Value(out), nil
	case TypeInt16:
		if uint32(len(data)) < count*2 {
			return IndexValue{}, invalidData("truncated Int16 entry")
		}
		out := make([]int16, count)
		for i := range out {
			out[i] = int16(binary.BigEndian.Uint16(data[i*2:]))
		}
		return NewInt16Value(out), nil
	case TypeInt32:
		if uint32(len(data)) < count*4 {
			return IndexValue{}, invalidData("truncated Int32 entry")
		}
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(binary.BigEndian.Uint32(data[i*4:]))
		}
		return NewInt32Value(out), nil
	case TypeInt64:
		if uint32(len(data)) < count*8 {
			return IndexValue{}, invalidData("truncated Int64 entry")
		}
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(binary.BigEndian.Uint64(data[i*8:]))
		}
		return NewInt64Value(out), nil
	case TypeString:
		if count != 1 {
			return IndexValue{}, invalidData("invalid count in index entry for type String (was %d, but must be 1)", count)
		}
		s, _, err := readNulString(data)
		if err != nil {
			return IndexValue{}, err
		}
		return NewStringValue(s), nil
	case TypeBinary:
		if uint32(len(data)) < count {
			return IndexValue{}, invalidData("truncated Binary entry")
		}
		return NewBinaryValue(append([]byte(nil), data[:count]...)), nil
	case TypeStringArray, TypeI18nString:
		strs := make([]string, count)
		rest := data
		for i := uint32(0); i < count; i++ {
			s, n, err := readNulString(rest)
			if err != nil {
				return IndexValue{}, err
			}
			strs[i] = s
			rest = rest[n:]
		}
		if typ == TypeStringArray {
			return NewStringArrayValue(strs), nil
		}
		return NewI18nStringValue(strs), nil
	default:
		return IndexValue{}, invalidData("invalid type number in index entry (%d)", typ)
	}
}

// readNulString reads a single NUL-terminated, UTF-8 validated string from
// the start of data, returning the string and the number of bytes consumed
// (including the terminator).
func readNulString(data []byte) (string, int, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", 0, invalidData("unterminated string in header data")
	}
	if !utf8.Valid(data[:i]) {
		return "", 0, invalidData("invalid UTF-8 in header string entry")
	}
	return string(data[:i]), i + 1, nil
}

// IndexTable is an ordered mapping from 32-bit tag to IndexValue: the
// self-describing, alignment-padded, offset-indexed store that underpins
// both the signature and header sections.
type IndexTable struct {
	values map[int32]IndexValue
}

// NewIndexTable returns an empty IndexTable.
func NewIndexTable() *IndexTable {
	return &IndexTable{values: make(map[int32]IndexValue)}
}

// Get returns the value for tag, if present.
func (t *IndexTable) Get(tag int32) (IndexValue, bool) {
	v, ok := t.values[tag]
	return v, ok
}

// Set stores value under tag, overwriting any previous value.
func (t *IndexTable) Set(tag int32, value IndexValue) {
	t.values[tag] = value
}

// Has reports whether tag is present.
func (t *IndexTable) Has(tag int32) bool {
	_, ok := t.values[tag]
	return ok
}

// Tags returns every tag present, in ascending order: the order entries are
// serialized in and the order iteration is guaranteed to follow.
func (t *IndexTable) Tags() []int32 {
	tags := make([]int32, 0, len(t.values))
	for tag := range t.values {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// GetString returns the tag's value as a string, if it is present and has
// type String.
func (t *IndexTable) GetString(tag int32) (string, bool) {
	v, ok := t.Get(tag)
	if !ok {
		return "", false
	}
	return v.Str()
}

// GetBinary returns the tag's value as bytes, if it is present and has type
// Binary.
func (t *IndexTable) GetBinary(tag int32) ([]byte, bool) {
	v, ok := t.Get(tag)
	if !ok {
		return nil, false
	}
	return v.Binary()
}

// GetStringArray returns the tag's value as a string slice, if it is
// present and has type StringArray or I18nString.
func (t *IndexTable) GetStringArray(tag int32) ([]string, bool) {
	v, ok := t.Get(tag)
	if !ok {
		return nil, false
	}
	if v.typ == TypeI18nString {
		return v.I18nStrings()
	}
	return v.StringArray()
}

// GetNthString returns the nth element of tag's StringArray/I18nString
// value, if present and in range.
func (t *IndexTable) GetNthString(tag int32, n int) (string, bool) {
	arr, ok := t.GetStringArray(tag)
	if !ok || n < 0 || n >= len(arr) {
		return "", false
	}
	return arr[n], true
}

// GetNthInt16 returns the nth element of tag's Int16 value, if present and
// in range.
func (t *IndexTable) GetNthInt16(tag int32, n int) (int16, bool) {
	v, ok := t.Get(tag)
	if !ok {
		return 0, false
	}
	arr, ok := v.Int16()
	if !ok || n < 0 || n >= len(arr) {
		return 0, false
	}
	return arr[n], true
}

// GetNthInt32 returns the nth element of tag's Int32 value, if present and
// in range.
func (t *IndexTable) GetNthInt32(tag int32, n int) (int32, bool) {
	v, ok := t.Get(tag)
	if !ok {
		return 0, false
	}
	arr, ok := v.Int32()
	if !ok || n < 0 || n >= len(arr) {
		return 0, false
	}
	return arr[n], true
}

// PushString appends s to the existing StringArray entry at tag. This is a
// programmer-contract operation, not a user-facing one: calling it on a
// missing tag or a tag of the wrong variant is an internal bug and panics,
// rather than returning a recoverable error.
func (t *IndexTable) PushString(tag int32, s string) {
	v, ok := t.values[tag]
	if !ok {
		panic(fmt.Sprintf("rpmpack: PushString on missing tag %d", tag))
	}
	arr, ok := v.StringArray()
	if !ok {
		panic(fmt.Sprintf("rpmpack: PushString on non-StringArray tag %d", tag))
	}
	v.strArray = append(arr, s)
	t.values[tag] = v
}

// PushInt16 appends n to the existing Int16 entry at tag. See PushString for
// the panic-on-contract-violation policy.
func (t *IndexTable) PushInt16(tag int32, n int16) {
	v, ok := t.values[tag]
	if !ok {
		panic(fmt.Sprintf("rpmpack: PushInt16 on missing tag %d", tag))
	}
	arr, ok := v.Int16()
	if !ok {
		panic(fmt.Sprintf("rpmpack: PushInt16 on non-Int16 tag %d", tag))
	}
	v.int16s = append(arr, n)
	t.values[tag] = v
}

// PushInt32 appends n to the existing Int32 entry at tag. See PushString for
// the panic-on-contract-violation policy.
func (t *IndexTable) PushInt32(tag int32, n int32) {
	v, ok := t.values[tag]
	if !ok {
		panic(fmt.Sprintf("rpmpack: PushInt32 on missing tag %d", tag))
	}
	arr, ok := v.Int32()
	if !ok {
		panic(fmt.Sprintf("rpmpack: PushInt32 on non-Int32 tag %d", tag))
	}
	v.int32s = append(arr, n)
	t.values[tag] = v
}

// schemaEntry describes one recognized tag for a SignatureView or
// HeaderView: whether it's required, its human name (used in error
// messages), its tag number, its expected type, and (if any) its expected
// count.
type schemaEntry struct {
	required   bool
	name       string
	tag        int32
	typ        IndexType
	fixedCount *int
}

func count(n int) *int { return &n }

// validateEntry checks a single schema entry against the table, producing the
// precise messages spec.md describes for missing tags, type mismatches, and
// count mismatches.
func (t *IndexTable) validateEntry(section string, e schemaEntry) error {
	v, ok := t.Get(e.tag)
	if !ok {
		if e.required {
			return invalidData("Missing %s entry (tag %d) in %s section", e.name, e.tag, section)
		}
		return nil
	}
	if v.Type() != e.typ {
		return invalidData("Incorrect type for %s entry (tag %d) in %s section (was %s, must be %s)",
			e.name, e.tag, section, v.Type(), e.typ)
	}
	if e.fixedCount != nil && v.Count() != *e.fixedCount {
		return invalidData("Incorrect number of values for %s entry (tag %d) in %s section (was %d, but must be %d)",
			e.name, e.tag, section, v.Count(), *e.fixedCount)
	}
	return nil
}

// expectCount reports a mismatch between two parallel arrays' counts.
func (t *IndexTable) expectCount(section, nameA string, tagA int32, countA int, nameB string, tagB int32) error {
	var countB int
	if v, ok := t.Get(tagB); ok {
		countB = v.Count()
	}
	if countA != countB {
		return invalidData("Counts for %s entry (tag %d) and %s entry (tag %d) in %s section don't match (%d vs. %d)",
			nameA, tagA, nameB, tagB, section, countA, countB)
	}
	return nil
}

// expectStringValue fails when tag's string value does not equal want.
func (t *IndexTable) expectStringValue(section, name string, tag int32, want string) error {
	got, _ := t.GetString(tag)
	if got != want {
		return invalidData("Incorrect value for %s entry (tag %d) in %s section (was %q, but must be %q)",
			name, tag, section, got, want)
	}
	return nil
}

// encode serializes the table in the on-disk layout: header, index, data
// region. When pad8 is true, the data region is padded with zero bytes to a
// multiple of 8, as required when the table is embedded in the signature
// section; the header/metadata section is not padded.
func (t *IndexTable) encode(pad8 bool) ([]byte, error) {
	tags := t.Tags()
	data := &bytes.Buffer{}
	offsets := make([]uint32, len(tags))
	for i, tag := range tags {
		v := t.values[tag]
		align := v.Type().alignment()
		if rem := data.Len() % align; rem != 0 {
			data.Write(make([]byte, align-rem))
		}
		offsets[i] = uint32(data.Len())
		encoded, err := v.encode()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode tag %d", tag)
		}
		data.Write(encoded)
	}
	dataLen := data.Len()
	if pad8 {
		if rem := data.Len() % 8; rem != 0 {
			data.Write(make([]byte, 8-rem))
		}
	}

	out := &bytes.Buffer{}
	var hdr [16]byte
	binary.BigEndian.PutUint32(hdr[0:4], indexMagic)
	// hdr[4:8] is the reserved field, left zero.
	binary.BigEndian.PutUint32(hdr[8:12], uint32(len(tags)))
	binary.BigEndian.PutUint32(hdr[12:16], uint32(dataLen))
	out.Write(hdr[:])

	for i, tag := range tags {
		v := t.values[tag]
		var entry [16]byte
		binary.BigEndian.PutUint32(entry[0:4], uint32(tag))
		binary.BigEndian.PutUint32(entry[4:8], uint32(v.Type()))
		binary.BigEndian.PutUint32(entry[8:12], offsets[i])
		binary.BigEndian.PutUint32(entry[12:16], uint32(v.Count()))
		out.Write(entry[:])
	}
	out.Write(data.Bytes())
	return out.Bytes(), nil
}

// decodeIndexTable parses an IndexTable from r. When pad8 is true, the
// stated data-region length is rounded up to a multiple of 8 before reading,
// matching the padding encode applies for the signature section.
func decodeIndexTable(r io.Reader, pad8 bool) (*IndexTable, error) {
	var hdr [16]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read index table header")
	}
	magic := binary.BigEndian.Uint32(hdr[0:4])
	if magic != indexMagic {
		return nil, invalidData("invalid magic number for index table (%08x)", magic)
	}
	reserved := binary.BigEndian.Uint32(hdr[4:8])
	if reserved != 0 {
		return nil, invalidData("invalid reserved field for index table (%08x)", reserved)
	}
	numValues := binary.BigEndian.Uint32(hdr[8:12])
	dataSize := binary.BigEndian.Uint32(hdr[12:16])

	type rawEntry struct {
		tag, typ       int32
		offset, cnt    uint32
	}
	entries := make([]rawEntry, numValues)
	seen := make(map[int32]bool, numValues)
	var entryBuf [16]byte
	for i := range entries {
		if _, err := io.ReadFull(r, entryBuf[:]); err != nil {
			return nil, errors.Wrap(err, "failed to read index entry")
		}
		e := rawEntry{
			tag:    int32(binary.BigEndian.Uint32(entryBuf[0:4])),
			typ:    int32(binary.BigEndian.Uint32(entryBuf[4:8])),
			offset: binary.BigEndian.Uint32(entryBuf[8:12]),
			cnt:    binary.BigEndian.Uint32(entryBuf[12:16]),
		}
		if seen[e.tag] {
			return nil, invalidData("repeated tag in index table (%d)", e.tag)
		}
		seen[e.tag] = true
		entries[i] = e
	}

	readSize := dataSize
	if pad8 {
		readSize = ((dataSize + 7) / 8) * 8
	}
	data := make([]byte, readSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.Wrap(err, "failed to read index data region")
	}

	table := NewIndexTable()
	for _, e := range entries {
		typ := IndexType(e.typ)
		if typ < TypeNull || typ > TypeI18nString {
			return nil, invalidData("invalid type number in index entry (%d)", e.typ)
		}
		if e.offset > uint32(len(data)) {
			return nil, invalidData("index entry offset out of range for tag %d", e.tag)
		}
		value, err := decodeIndexValue(typ, e.cnt, data[e.offset:])
		if err != nil {
			return nil, err
		}
		table.Set(e.tag, value)
	}
	return table, nil
}
