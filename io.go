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
	"io"
	"os"
)

// ReadBytes auto-detects the wire format of data (binary or XML) and
// decodes it into a value tree.
func ReadBytes(data []byte) (*Value, error) {
	return decodeBytes(data)
}

// ReadReader reads all of r and decodes it like ReadBytes.
func ReadReader(r io.Reader) (*Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "reading plist stream")
	}
	return decodeBytes(data)
}

// ReadFile reads and decodes the plist at path.
func ReadFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(KindIO, err, "reading plist file %q", path)
	}
	return decodeBytes(data)
}

// WriteBinaryBytes renders v as a complete bplist00 byte buffer.
func WriteBinaryBytes(v *Value) ([]byte, error) {
	return encodeBinary(v)
}

// WriteBinaryWriter writes v to w in binary form.
func WriteBinaryWriter(w io.Writer, v *Value) error {
	data, err := encodeBinary(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return wrapError(KindIO, err, "writing binary plist")
	}
	return nil
}

// WriteBinaryFile writes v to path in binary form, creating or truncating
// the file. The file handle is always closed before return, including on a
// write failure.
func WriteBinaryFile(path string, v *Value) (err error) {
	f, ferr := os.Create(path)
	if ferr != nil {
		return wrapError(KindIO, ferr, "creating plist file %q", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = wrapError(KindIO, cerr, "closing plist file %q", path)
		}
	}()
	return WriteBinaryWriter(f, v)
}

// WriteXMLBytes renders v as a complete plist XML document.
func WriteXMLBytes(v *Value) ([]byte, error) {
	return encodeXML(v)
}

// WriteXMLWriter writes v to w in XML form.
func WriteXMLWriter(w io.Writer, v *Value) error {
	data, err := encodeXML(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return wrapError(KindIO, err, "writing xml plist")
	}
	return nil
}

// WriteXMLFile writes v to path in XML form, creating or truncating the
// file. The file handle is always closed before return, including on a
// write failure.
func WriteXMLFile(path string, v *Value) (err error) {
	f, ferr := os.Create(path)
	if ferr != nil {
		return wrapError(KindIO, ferr, "creating plist file %q", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = wrapError(KindIO, cerr, "closing plist file %q", path)
		}
	}()
	return WriteXMLWriter(f, v)
}
