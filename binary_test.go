// Copyright 2020 Michael J. Fromberger. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plist

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBasicFixture decodes the same hand-crafted bplist00 buffer the
// teacher package's own TestBasic used, confirming this reimplementation
// agrees with a known-good binary layout.
func TestBasicFixture(t *testing.T) {
	const testInput = "bplist00\xd1\x01\x02_\x10\x18NSHTTPCookieAcceptPolicy\x10" +
		"\x02\x08\x0b&\x00\x00\x00\x00\x00\x00\x01\x01\x00\x00\x00\x00\x00\x00" +
		"\x00\x03\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00("

	v, err := decodeBinary([]byte(testInput))
	require.NoError(t, err)
	require.Equal(t, KindDict, v.Kind())
	require.Len(t, v.Dict(), 1)
	require.Equal(t, int64(2), v.Dict()["NSHTTPCookieAcceptPolicy"].Int())
}

func roundTripBinary(t *testing.T, v *Value) *Value {
	t.Helper()
	data, err := encodeBinary(v)
	require.NoError(t, err)
	require.True(t, isBinary(data))
	got, err := decodeBinary(data)
	require.NoError(t, err)
	return got
}

func TestBinaryRoundTripScalars(t *testing.T) {
	cases := []*Value{
		NewBool(true),
		NewBool(false),
		NewInt(0),
		NewInt(1),
		NewInt(127),
		NewInt(128),
		NewInt(255),
		NewInt(256),
		NewInt(65535),
		NewInt(65536),
		NewInt(1<<31 - 1),
		NewInt(-1),
		NewInt(-128),
		NewInt(-1 << 63),
		NewReal(0),
		NewReal(-1.5),
		NewReal(3.14159265),
		NewDateValue(NewDate(0)),
		NewDateValue(NewDate(338610664)),
		NewString(""),
		NewString("hello"),
		NewData(nil),
		NewData([]byte{0, 1, 2, 3, 255}),
	}
	for _, v := range cases {
		t.Run(fmt.Sprintf("%v", v.Kind()), func(t *testing.T) {
			got := roundTripBinary(t, v)
			require.True(t, Equal(v, got))
		})
	}
}

func TestBinaryIntegerWidths(t *testing.T) {
	cases := []struct {
		v        int64
		wantSize int // body byte width
	}{
		{0, 1},
		{1, 1},
		{127, 1},
		{128, 1},
		{255, 1},
		{256, 2},
		{65535, 2},
		{65536, 4},
		{1<<31 - 1, 4},
		{-1, 8},
		{-128, 8},
		{-1 << 63, 8},
	}
	for _, c := range cases {
		data, err := encodeBinary(NewInt(c.v))
		require.NoError(t, err)
		// The root object immediately follows the 8-byte magic.
		header := data[len(binaryMagic)]
		require.Equal(t, byte(0x10), header&0xf0)
		width := 1 << (header & 0xf)
		require.Equalf(t, c.wantSize, width, "value %d", c.v)

		got, err := decodeBinary(data)
		require.NoError(t, err)
		require.Equal(t, c.v, got.Int())
	}
}

func TestBinaryEmptyContainers(t *testing.T) {
	got := roundTripBinary(t, NewArray(nil))
	require.Equal(t, KindArray, got.Kind())
	require.Empty(t, got.Array())

	got = roundTripBinary(t, NewDict(nil))
	require.Equal(t, KindDict, got.Kind())
	require.Empty(t, got.Dict())
}

func TestBinaryArrayCountExtension(t *testing.T) {
	for _, n := range []int{14, 15, 16} {
		elems := make([]*Value, n)
		for i := range elems {
			elems[i] = NewInt(int64(i))
		}
		v := NewArray(elems)
		data, err := encodeBinary(v)
		require.NoError(t, err)
		header := data[len(binaryMagic)]
		require.Equal(t, byte(0xA0), header&0xf0)
		if n < 15 {
			require.Equal(t, byte(n), header&0xf)
		} else {
			require.Equal(t, byte(0xf), header&0xf)
		}
		got, err := decodeBinary(data)
		require.NoError(t, err)
		require.True(t, Equal(v, got))
	}
}

func TestBinaryArray256Header(t *testing.T) {
	elems := make([]*Value, 256)
	for i := range elems {
		elems[i] = NewInt(int64(i))
	}
	data, err := encodeBinary(NewArray(elems))
	require.NoError(t, err)
	require.Equal(t, byte(0xAF), data[len(binaryMagic)])
	// Embedded integer encoding 256 follows directly: header 0x11 (2-byte
	// body) then the big-endian value 256.
	require.Equal(t, byte(0x11), data[len(binaryMagic)+1])
}

func TestBinaryDict256Entries(t *testing.T) {
	m := make(map[string]*Value, 256)
	for i := 0; i < 256; i++ {
		m[fmt.Sprintf("%03d", i)] = NewInt(int64(i))
	}
	v := NewDict(m)
	data, err := encodeBinary(v)
	require.NoError(t, err)
	require.Equal(t, byte(0xDF), data[len(binaryMagic)])

	got, err := decodeBinary(data)
	require.NoError(t, err)
	require.True(t, Equal(v, got))
	require.Len(t, got.Dict(), 256)
}

func TestBinaryDictOrderIndependentOutput(t *testing.T) {
	v1 := NewDict(map[string]*Value{"k": NewInt(-3455), "a": NewBool(true), "z": NewString("last")})
	v2 := NewDict(map[string]*Value{"z": NewString("last"), "k": NewInt(-3455), "a": NewBool(true)})
	d1, err := encodeBinary(v1)
	require.NoError(t, err)
	d2, err := encodeBinary(v2)
	require.NoError(t, err)
	require.Equal(t, d1, d2)
}

func TestBinaryTrailerGeometryForSingleEntryDict(t *testing.T) {
	v := NewDict(map[string]*Value{"k": NewInt(-3455)})
	data, err := encodeBinary(v)
	require.NoError(t, err)

	trailer := parseTrailer(data[len(data)-trailerLen:])
	require.Equal(t, 1, trailer.offsetByteSize)
	require.Equal(t, 1, trailer.objRefSize)
	require.Equal(t, 3, trailer.numObjects) // dict, key, value
	require.Equal(t, 0, trailer.rootObject)
}

func TestBinaryBoolSingletonBytes(t *testing.T) {
	v := NewDict(map[string]*Value{"a": NewBool(true), "b": NewBool(false)})
	data, err := encodeBinary(v)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "\x09"))
	require.True(t, strings.Contains(string(data), "\x08"))
}

func TestBinaryDateHeader(t *testing.T) {
	v := NewDict(map[string]*Value{"d": NewDateValue(NewDate(338610664))})
	data, err := encodeBinary(v)
	require.NoError(t, err)
	idx := strings.IndexByte(string(data), 0x33)
	require.GreaterOrEqual(t, idx, 0)
	body := data[idx+1 : idx+9]
	require.Equal(t, float64(338610664), bytesToDouble(body))
}

func TestBinaryDataLargeBlob(t *testing.T) {
	blob := make([]byte, 10*1024)
	for i := range blob {
		blob[i] = byte(i)
	}
	v := NewData(blob)
	data, err := encodeBinary(v)
	require.NoError(t, err)
	require.Equal(t, byte(0x4f), data[len(binaryMagic)])
	got, err := decodeBinary(data)
	require.NoError(t, err)
	require.Equal(t, blob, got.Data())
}

func TestBinaryNonASCIIStringRoundTrip(t *testing.T) {
	v := NewString("héllo wörld 中文")
	got := roundTripBinary(t, v)
	require.True(t, Equal(v, got))

	data, err := encodeBinary(v)
	require.NoError(t, err)
	require.Equal(t, byte(0x60), data[len(binaryMagic)]&0xf0)
}

func TestBinaryTruncatedTrailerErrors(t *testing.T) {
	_, err := decodeBinary([]byte("bplist00short"))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindBinaryTrailerInvalid, perr.Kind)
}

func TestBinaryEmptyInputErrors(t *testing.T) {
	_, err := decodeBinary(nil)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestBinaryUnknownTagErrors(t *testing.T) {
	v := NewInt(5)
	data, err := encodeBinary(v)
	require.NoError(t, err)
	// Corrupt the root object's header nibble to an unused high nibble (0x7).
	corrupt := append([]byte(nil), data...)
	corrupt[len(binaryMagic)] = 0x70 | (corrupt[len(binaryMagic)] & 0xf)
	_, err = decodeBinary(corrupt)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindBinaryUnknownTag, perr.Kind)
}

func TestBinarySingletonZeroRejected(t *testing.T) {
	v := NewBool(true)
	data, err := encodeBinary(v)
	require.NoError(t, err)
	corrupt := append([]byte(nil), data...)
	corrupt[len(binaryMagic)] = 0x00
	_, err = decodeBinary(corrupt)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindBinaryUnsupportedSingleton, perr.Kind)
}

func TestBinaryDictKeyNotStringErrors(t *testing.T) {
	// Build a dict-shaped object table by hand where the "key" ref points
	// at an integer instead of a string.
	var buf []byte
	buf = append(buf, binaryMagic...)
	offsets := []int{}

	offsets = append(offsets, len(buf)) // object 0: dict {1:2}
	buf = append(buf, 0xD1, 0x01, 0x02)

	offsets = append(offsets, len(buf)) // object 1: integer key (invalid)
	buf = append(buf, 0x11, 0x00, 0x2a)

	offsets = append(offsets, len(buf)) // object 2: integer value
	buf = append(buf, 0x10, 0x07)

	offsetTableOffset := len(buf)
	for _, off := range offsets {
		buf = append(buf, byte(off))
	}
	buf = append(buf, make([]byte, 6)...)
	buf = append(buf, 1, 1)
	buf = append(buf, intToBytes(3, 8, false)...)
	buf = append(buf, intToBytes(0, 8, false)...)
	buf = append(buf, intToBytes(uint64(offsetTableOffset), 8, false)...)

	_, err := decodeBinary(buf)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindBinaryDictKeyNotString, perr.Kind)
}

func TestBinaryObjectOutOfRangeErrors(t *testing.T) {
	v := NewArray([]*Value{NewInt(1)})
	data, err := encodeBinary(v)
	require.NoError(t, err)
	corrupt := append([]byte(nil), data...)
	// The single element ref byte directly follows the array header.
	corrupt[len(binaryMagic)+1] = 0xFF
	_, err = decodeBinary(corrupt)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindBinaryObjectOutOfRange, perr.Kind)
}

func TestBinaryNestedTree(t *testing.T) {
	v := NewDict(map[string]*Value{
		"name": NewString("widget"),
		"tags": NewArray([]*Value{NewString("a"), NewString("b"), NewString("c")}),
		"meta": NewDict(map[string]*Value{
			"count":   NewInt(3),
			"enabled": NewBool(true),
			"ratio":   NewReal(0.5),
		}),
	})
	got := roundTripBinary(t, v)
	require.True(t, Equal(v, got))
}
