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
	"encoding/base64"
	"strings"
)

// base64LineWidth is the standard MIME line length plist.app and friends
// wrap <data> contents at.
const base64LineWidth = 76

// LineEndingLF and LineEndingCRLF are the two line-ending styles
// Base64Encode accepts, matching the host-dependent behavior described for
// XML <data> elements: LF on POSIX, CRLF on Windows.
const (
	LineEndingLF   = "\n"
	LineEndingCRLF = "\r\n"
)

// Base64Encode encodes data as standard base64, inserting lineEnding every
// base64LineWidth characters, matching the way Apple's plist writers wrap
// <data> element contents.
func Base64Encode(data []byte, lineEnding string) string {
	raw := base64.StdEncoding.EncodeToString(data)
	if len(raw) <= base64LineWidth {
		return raw
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i += base64LineWidth {
		end := i + base64LineWidth
		if end > len(raw) {
			end = len(raw)
		}
		if i > 0 {
			sb.WriteString(lineEnding)
		}
		sb.WriteString(raw[i:end])
	}
	return sb.String()
}

// Base64Decode decodes s, a base64 string that may contain interior
// whitespace (spaces, tabs, CR, LF) as inserted by Base64Encode or by a
// plist.app-authored file.
func Base64Decode(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, wrapError(KindXMLParse, err, "decoding base64 data")
	}
	return data, nil
}
