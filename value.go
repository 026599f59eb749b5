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
	"sort"
)

// Kind identifies which variant of the plist value model a Value holds.
type Kind int

const (
	// KindInvalid is the zero value of Kind; a zero Value is never valid.
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindReal
	KindDate
	KindString
	KindData
	KindArray
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindDate:
		return "date"
	case KindString:
		return "string"
	case KindData:
		return "data"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	}
	return "invalid"
}

// Value is a tagged, recursive property-list value: one of Bool, Int, Real,
// Date, String, Data, Array, or Dict. The zero Value has Kind KindInvalid
// and must not be serialized.
//
// A Value is immutable from the caller's perspective once built: mutator
// methods are not provided. Build a tree bottom-up with the constructors
// below, or obtain one from a reader.
type Value struct {
	kind Kind

	boolVal   bool
	intVal    int64
	realVal   float64
	dateVal   Date
	stringVal string
	dataVal   []byte
	arrayVal  []*Value
	dictVal   map[string]*Value
}

// NewBool returns a Value holding a boolean.
func NewBool(b bool) *Value { return &Value{kind: KindBool, boolVal: b} }

// NewInt returns a Value holding a 64-bit signed integer.
func NewInt(i int64) *Value { return &Value{kind: KindInt, intVal: i} }

// NewReal returns a Value holding a 64-bit float.
func NewReal(f float64) *Value { return &Value{kind: KindReal, realVal: f} }

// NewDateValue returns a Value holding a Date.
func NewDateValue(d Date) *Value { return &Value{kind: KindDate, dateVal: d} }

// NewString returns a Value holding a UTF-8 string.
func NewString(s string) *Value { return &Value{kind: KindString, stringVal: s} }

// NewData returns a Value holding opaque bytes. The slice is copied.
func NewData(b []byte) *Value {
	return &Value{kind: KindData, dataVal: append([]byte(nil), b...)}
}

// NewArray returns a Value holding an ordered sequence of elements. The
// slice of element pointers is copied (the *Value elements themselves are
// shared, consistent with a value tree where no node is ever mutated after
// construction).
func NewArray(elems []*Value) *Value {
	return &Value{kind: KindArray, arrayVal: append([]*Value(nil), elems...)}
}

// NewDict returns a Value holding a key/value mapping. The map is copied
// one level deep. Keys must be unique, which a Go map guarantees by
// construction.
func NewDict(m map[string]*Value) *Value {
	cp := make(map[string]*Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return &Value{kind: KindDict, dictVal: cp}
}

// Kind reports which variant v holds.
func (v *Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload, panicking if v.Kind() != KindBool.
func (v *Value) Bool() bool {
	v.mustBe(KindBool)
	return v.boolVal
}

// Int returns the integer payload, panicking if v.Kind() != KindInt.
func (v *Value) Int() int64 {
	v.mustBe(KindInt)
	return v.intVal
}

// Real returns the float payload, panicking if v.Kind() != KindReal.
func (v *Value) Real() float64 {
	v.mustBe(KindReal)
	return v.realVal
}

// DateValue returns the Date payload, panicking if v.Kind() != KindDate.
func (v *Value) DateValue() Date {
	v.mustBe(KindDate)
	return v.dateVal
}

// String returns the string payload, panicking if v.Kind() != KindString.
func (v *Value) String() string {
	v.mustBe(KindString)
	return v.stringVal
}

// Data returns the byte payload, panicking if v.Kind() != KindData. The
// returned slice must not be modified by the caller.
func (v *Value) Data() []byte {
	v.mustBe(KindData)
	return v.dataVal
}

// Array returns the element slice, panicking if v.Kind() != KindArray. The
// returned slice must not be modified by the caller.
func (v *Value) Array() []*Value {
	v.mustBe(KindArray)
	return v.arrayVal
}

// Dict returns the key/value map, panicking if v.Kind() != KindDict. The
// returned map must not be modified by the caller.
func (v *Value) Dict() map[string]*Value {
	v.mustBe(KindDict)
	return v.dictVal
}

// SortedKeys returns the keys of a Dict value in lexicographic order, which
// is the order every writer in this package iterates a dict in.
func (v *Value) SortedKeys() []string {
	v.mustBe(KindDict)
	keys := make([]string, 0, len(v.dictVal))
	for k := range v.dictVal {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *Value) mustBe(want Kind) {
	if v.kind != want {
		panic(fmt.Sprintf("plist: Value.%s called on a %s value", want, v.kind))
	}
}

// Equal reports whether a and b represent the same plist value tree. Dict
// comparison ignores insertion order (plist dicts have none); Array
// comparison is order-sensitive.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindBool:
		return a.boolVal == b.boolVal
	case KindInt:
		return a.intVal == b.intVal
	case KindReal:
		return a.realVal == b.realVal
	case KindDate:
		return a.dateVal.appleSeconds == b.dateVal.appleSeconds
	case KindString:
		return a.stringVal == b.stringVal
	case KindData:
		if len(a.dataVal) != len(b.dataVal) {
			return false
		}
		for i := range a.dataVal {
			if a.dataVal[i] != b.dataVal[i] {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arrayVal) != len(b.arrayVal) {
			return false
		}
		for i := range a.arrayVal {
			if !Equal(a.arrayVal[i], b.arrayVal[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.dictVal) != len(b.dictVal) {
			return false
		}
		for k, av := range a.dictVal {
			bv, ok := b.dictVal[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
