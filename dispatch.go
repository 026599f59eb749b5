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

import "bytes"

// isBinary reports whether data begins with the bplist00 magic.
func isBinary(data []byte) bool {
	return bytes.HasPrefix(data, []byte(binaryMagic))
}

// decodeBytes auto-detects the wire format of data and decodes it.
func decodeBytes(data []byte) (*Value, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if isBinary(data) {
		return decodeBinary(data)
	}
	return decodeXML(bytes.NewReader(data))
}
