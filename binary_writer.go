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
	"bytes"
	"unicode/utf16"
)

// planNode is one entry in the flattened object plan built by (*binaryEncoder).plan:
// every scalar and every container in the tree, in the fixed traversal
// order that assigns object ids (root is id 0).
type planNode struct {
	val     *Value
	keys    []string // populated only for KindDict nodes, lexicographically sorted
	keyIDs  []int    // object id assigned to each entry of keys, same order
	valIDs  []int    // object id assigned to the value for each entry of keys
	elemIDs []int    // populated only for KindArray nodes
}

// binaryEncoder accumulates the object table during a single write call. It
// emits forward into buf (see SPEC_FULL.md §9 "Forward emission") instead
// of the prepend-heavy strategy of the original C++ implementation: the
// on-disk layout only depends on final object positions, not the order in
// which bytes were appended while building it.
type binaryEncoder struct {
	nodes      []planNode
	objRefSize int
	buf        bytes.Buffer
	offsets    []int
}

// encodeBinary renders v as a complete bplist00 file.
func encodeBinary(v *Value) ([]byte, error) {
	e := &binaryEncoder{}
	if _, err := e.plan(v); err != nil {
		return nil, err
	}
	e.objRefSize = minBytesFor(uint64(len(e.nodes) - 1))
	e.offsets = make([]int, len(e.nodes))

	for id, n := range e.nodes {
		e.offsets[id] = e.buf.Len()
		if err := e.emit(n); err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, len(binaryMagic)+e.buf.Len()+e.objRefSize*len(e.nodes)+trailerLen)
	out = append(out, binaryMagic...)
	out = append(out, e.buf.Bytes()...)

	offsetTableOffset := len(out)
	offsetByteSize := minBytesFor(uint64(offsetTableOffset))
	for _, off := range e.offsets {
		out = append(out, intToBytes(uint64(off+len(binaryMagic)), offsetByteSize, false)...)
	}

	var zero [6]byte
	out = append(out, zero[:]...)
	out = append(out, byte(offsetByteSize), byte(e.objRefSize))
	out = append(out, intToBytes(uint64(len(e.nodes)), 8, false)...)
	out = append(out, intToBytes(0, 8, false)...) // root object is always id 0
	out = append(out, intToBytes(uint64(offsetTableOffset), 8, false)...)
	return out, nil
}

// plan performs the depth-first pre-pass: it assigns every object in the
// tree a stable id (the value passed to the top-level call gets id 0) and
// records dict key orderings and child ids once, so the emission pass and
// the offset table agree on size without recomputing anything.
func (e *binaryEncoder) plan(v *Value) (int, error) {
	if v == nil {
		return 0, newError(KindTypeNotSerializable, "nil value in tree")
	}
	id := len(e.nodes)
	e.nodes = append(e.nodes, planNode{val: v})

	switch v.Kind() {
	case KindBool, KindInt, KindReal, KindDate, KindString, KindData:
		return id, nil

	case KindArray:
		elems := v.Array()
		ids := make([]int, len(elems))
		for i, el := range elems {
			childID, err := e.plan(el)
			if err != nil {
				return 0, err
			}
			ids[i] = childID
		}
		e.nodes[id].elemIDs = ids
		return id, nil

	case KindDict:
		keys := v.SortedKeys()
		m := v.Dict()
		keyIDs := make([]int, len(keys))
		for i, k := range keys {
			kid, err := e.plan(NewString(k))
			if err != nil {
				return 0, err
			}
			keyIDs[i] = kid
		}
		valIDs := make([]int, len(keys))
		for i, k := range keys {
			vid, err := e.plan(m[k])
			if err != nil {
				return 0, err
			}
			valIDs[i] = vid
		}
		e.nodes[id].keys = keys
		e.nodes[id].keyIDs = keyIDs
		e.nodes[id].valIDs = valIDs
		return id, nil
	}
	return 0, newError(KindTypeNotSerializable, "unrecognized value kind %v", v.Kind())
}

func (e *binaryEncoder) emit(n planNode) error {
	v := n.val
	switch v.Kind() {
	case KindBool:
		if v.Bool() {
			e.buf.WriteByte(0x09)
		} else {
			e.buf.WriteByte(0x08)
		}
		return nil

	case KindInt:
		body := regulateNullBytes(intToBytes(uint64(v.Int()), 8, false), 1)
		body = padToWidth(body, nextPow2Width(len(body)))
		e.buf.WriteByte(0x10 | byte(log2Width(len(body))))
		e.buf.Write(body)
		return nil

	case KindReal:
		body := regulateNullBytes(doubleToBytes(v.Real()), 4)
		body = padToWidth(body, nextPow2Width(len(body)))
		e.buf.WriteByte(0x20 | byte(log2Width(len(body))))
		e.buf.Write(body)
		return nil

	case KindDate:
		e.buf.WriteByte(0x33)
		e.buf.Write(doubleToBytes(v.DateValue().AppleEpoch()))
		return nil

	case KindData:
		data := v.Data()
		e.writeCountedHeader(0x40, len(data))
		e.buf.Write(data)
		return nil

	case KindString:
		s := v.String()
		if isASCII(s) {
			e.writeCountedHeader(0x50, len(s))
			e.buf.WriteString(s)
			return nil
		}
		units := utf16.Encode([]rune(s))
		e.writeCountedHeader(0x60, len(units))
		for _, u := range units {
			e.buf.WriteByte(byte(u >> 8))
			e.buf.WriteByte(byte(u))
		}
		return nil

	case KindArray:
		e.writeCountedHeader(0xA0, len(n.elemIDs))
		for _, id := range n.elemIDs {
			e.buf.Write(intToBytes(uint64(id), e.objRefSize, false))
		}
		return nil

	case KindDict:
		e.writeCountedHeader(0xD0, len(n.keys))
		for _, id := range n.keyIDs {
			e.buf.Write(intToBytes(uint64(id), e.objRefSize, false))
		}
		for _, id := range n.valIDs {
			e.buf.Write(intToBytes(uint64(id), e.objRefSize, false))
		}
		return nil
	}
	return newError(KindTypeNotSerializable, "unrecognized value kind %v", v.Kind())
}

// writeCountedHeader writes a header byte for the tag family (data, string,
// array, dict) that shares the "low nibble is count, or 0xf plus an inline
// integer object" encoding.
func (e *binaryEncoder) writeCountedHeader(tag byte, n int) {
	if n < 15 {
		e.buf.WriteByte(tag | byte(n))
		return
	}
	e.buf.WriteByte(tag | 0xf)
	body := regulateNullBytes(intToBytes(uint64(n), 8, false), 1)
	body = padToWidth(body, nextPow2Width(len(body)))
	e.buf.WriteByte(0x10 | byte(log2Width(len(body))))
	e.buf.Write(body)
}

func padToWidth(b []byte, width int) []byte {
	if len(b) >= width {
		return b[len(b)-width:]
	}
	out := make([]byte, width)
	copy(out[width-len(b):], b)
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}
