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
	"unicode/utf16"
)

const (
	binaryMagic   = "bplist00"
	trailerLen    = 32
	trailerMagicN = len(binaryMagic)
)

// binaryTrailer is the decoded form of the 32-byte trailer at the end of a
// bplist00 file.
type binaryTrailer struct {
	offsetByteSize    int
	objRefSize        int
	numObjects        int
	rootObject        int
	offsetTableOffset int
}

// parseTrailer decodes the last 32 bytes of a binary plist. Precondition:
// len(b) == trailerLen.
func parseTrailer(b []byte) binaryTrailer {
	return binaryTrailer{
		offsetByteSize:    int(b[6]),
		objRefSize:        int(b[7]),
		numObjects:        int(bytesToInt(b[8:16], false)),
		rootObject:        int(bytesToInt(b[16:24], false)),
		offsetTableOffset: int(bytesToInt(b[24:32], false)),
	}
}

// binaryDecoder holds the transient state needed to resolve objects out of
// a single bplist00 buffer. It is built fresh for every decode call and
// shares no state across calls.
type binaryDecoder struct {
	data    []byte
	offsets []int
	trailer binaryTrailer
}

// decodeBinary parses a complete bplist00 buffer (including the 8-byte
// magic) into a Value tree.
func decodeBinary(data []byte) (*Value, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if len(data) < trailerMagicN+2+trailerLen {
		return nil, wrapError(KindBinaryTrailerInvalid, nil, "file too small (%d bytes)", len(data))
	}

	t := parseTrailer(data[len(data)-trailerLen:])
	if t.offsetByteSize < 1 || t.objRefSize < 1 {
		return nil, newError(KindBinaryTrailerInvalid, "zero-width offset or ref size in trailer")
	}
	if t.numObjects < 0 || t.numObjects > len(data) {
		return nil, newError(KindBinaryTrailerInvalid, "object count %d out of range for input of length %d", t.numObjects, len(data))
	}
	tableEnd := t.offsetTableOffset + t.offsetByteSize*t.numObjects
	if t.offsetTableOffset < 0 || t.offsetTableOffset > len(data) || tableEnd > len(data)-trailerLen {
		logger().Printf("plist: trailer offset table out of bounds: tableEnd=%d limit=%d", tableEnd, len(data)-trailerLen)
		return nil, newError(KindBinaryTrailerInvalid, "offset table [%d,%d) exceeds input of length %d", t.offsetTableOffset, tableEnd, len(data))
	}

	d := &binaryDecoder{data: data, trailer: t}
	d.offsets = make([]int, t.numObjects)
	for i := 0; i < t.numObjects; i++ {
		base := t.offsetTableOffset + t.offsetByteSize*i
		d.offsets[i] = int(bytesToInt(data[base:base+t.offsetByteSize], false))
	}

	if t.rootObject < 0 || t.rootObject >= t.numObjects {
		return nil, newError(KindBinaryObjectOutOfRange, "root object %d out of range [0,%d)", t.rootObject, t.numObjects)
	}
	return d.resolve(t.rootObject)
}

func (d *binaryDecoder) resolve(ref int) (*Value, error) {
	if ref < 0 || ref >= len(d.offsets) {
		return nil, newError(KindBinaryObjectOutOfRange, "object reference %d out of range [0,%d)", ref, len(d.offsets))
	}
	off := d.offsets[ref]
	if off < 0 || off >= len(d.data) {
		return nil, newError(KindBinaryObjectOutOfRange, "object %d offset %d out of range", ref, off)
	}
	// While this object is being resolved its offset reads as -1, so a
	// container that refers back to one of its ancestors fails the check
	// above instead of recursing without end.
	d.offsets[ref] = -1
	defer func() { d.offsets[ref] = off }()
	tag := d.data[off]
	switch hi := tag >> 4; hi {
	case 0x0:
		switch tag & 0xf {
		case 0x8:
			return NewBool(false), nil
		case 0x9:
			return NewBool(true), nil
		default:
			return nil, newError(KindBinaryUnsupportedSingleton, "header byte 0x%02x", tag)
		}

	case 0x1:
		size := 1 << (tag & 0xf)
		body, err := d.slice(off+1, size)
		if err != nil {
			return nil, err
		}
		return NewInt(int64(bytesToInt(body, false))), nil

	case 0x2:
		size := 1 << (tag & 0xf)
		body, err := d.slice(off+1, size)
		if err != nil {
			return nil, err
		}
		return NewReal(decodeReal(body)), nil

	case 0x3:
		if tag&0xf != 0x3 {
			return nil, newError(KindBinaryUnknownTag, "unrecognized date marker 0x%02x", tag)
		}
		body, err := d.slice(off+1, 8)
		if err != nil {
			return nil, err
		}
		return NewDateValue(NewDate(bytesToDouble(body))), nil

	case 0x4:
		count, shift, err := d.readCount(off, tag)
		if err != nil {
			return nil, err
		}
		body, err := d.slice(off+1+shift, count)
		if err != nil {
			return nil, err
		}
		return NewData(body), nil

	case 0x5:
		count, shift, err := d.readCount(off, tag)
		if err != nil {
			return nil, err
		}
		body, err := d.slice(off+1+shift, count)
		if err != nil {
			return nil, err
		}
		return NewString(string(body)), nil

	case 0x6:
		count, shift, err := d.readCount(off, tag)
		if err != nil {
			return nil, err
		}
		body, err := d.slice(off+1+shift, count*2)
		if err != nil {
			return nil, err
		}
		units := make([]uint16, count)
		for i := range units {
			units[i] = uint16(body[2*i])<<8 | uint16(body[2*i+1])
		}
		return NewString(string(utf16.Decode(units))), nil

	case 0xA:
		count, shift, err := d.readCount(off, tag)
		if err != nil {
			return nil, err
		}
		start := off + 1 + shift
		elems := make([]*Value, count)
		for i := 0; i < count; i++ {
			ref, err := d.readRef(start + i*d.trailer.objRefSize)
			if err != nil {
				return nil, err
			}
			v, err := d.resolve(ref)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return NewArray(elems), nil

	case 0xD:
		count, shift, err := d.readCount(off, tag)
		if err != nil {
			return nil, err
		}
		keyStart := off + 1 + shift
		valStart := keyStart + count*d.trailer.objRefSize
		m := make(map[string]*Value, count)
		for i := 0; i < count; i++ {
			kref, err := d.readRef(keyStart + i*d.trailer.objRefSize)
			if err != nil {
				return nil, err
			}
			kv, err := d.resolve(kref)
			if err != nil {
				return nil, err
			}
			if kv.Kind() != KindString {
				return nil, newError(KindBinaryDictKeyNotString, "dict key %d resolved to a %s", i, kv.Kind())
			}
			vref, err := d.readRef(valStart + i*d.trailer.objRefSize)
			if err != nil {
				return nil, err
			}
			vv, err := d.resolve(vref)
			if err != nil {
				return nil, err
			}
			m[kv.String()] = vv
		}
		return NewDict(m), nil
	}
	return nil, newError(KindBinaryUnknownTag, "unrecognized tag high nibble 0x%x", tag>>4)
}

// readCount decodes the low-nibble count-or-overflow rule shared by data,
// string, array, and dict objects. It returns the count and the number of
// extra bytes consumed immediately after the header byte (0 unless the
// nibble was 0xf).
func (d *binaryDecoder) readCount(off int, tag byte) (count, shift int, err error) {
	low := tag & 0xf
	if low != 0xf {
		return int(low), 0, nil
	}
	if off+1 >= len(d.data) {
		return 0, 0, newError(KindBinaryTrailerInvalid, "truncated inline count at offset %d", off)
	}
	intTag := d.data[off+1]
	size := 1 << (intTag & 0xf)
	body, err := d.slice(off+2, size)
	if err != nil {
		return 0, 0, err
	}
	count = int(bytesToInt(body, false))
	if count < 0 || count > len(d.data) {
		return 0, 0, newError(KindBinaryObjectOutOfRange, "inline count %d at offset %d exceeds input of length %d", count, off, len(d.data))
	}
	return count, 1 + size, nil
}

func (d *binaryDecoder) readRef(at int) (int, error) {
	body, err := d.slice(at, d.trailer.objRefSize)
	if err != nil {
		return 0, err
	}
	return int(bytesToInt(body, false)), nil
}

func (d *binaryDecoder) slice(start, n int) ([]byte, error) {
	if start < 0 || n < 0 || start+n > len(d.data) {
		return nil, newError(KindBinaryObjectOutOfRange, "slice [%d,%d) exceeds input of length %d", start, start+n, len(d.data))
	}
	return d.data[start : start+n], nil
}
