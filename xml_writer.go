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
	"runtime"
	"strconv"
	"strings"
)

const (
	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	xmlDoctype     = `<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n"
)

// dataLineEnding picks the line ending used to wrap base64 <data> contents:
// CRLF on Windows, LF everywhere else, matching the host-dependent behavior
// Apple's own plist writers use.
func dataLineEnding() string {
	if runtime.GOOS == "windows" {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// encodeXML renders v as a complete plist XML document.
func encodeXML(v *Value) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(xmlDeclaration)
	sb.WriteString(xmlDoctype)
	sb.WriteString(`<plist version="1.0">` + "\n")
	if err := writeXMLValue(&sb, v, 0); err != nil {
		return nil, err
	}
	sb.WriteString("\n</plist>\n")
	return []byte(sb.String()), nil
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("\t")
	}
}

func writeXMLValue(sb *strings.Builder, v *Value, depth int) error {
	indent(sb, depth)
	switch v.Kind() {
	case KindBool:
		if v.Bool() {
			sb.WriteString("<true/>")
		} else {
			sb.WriteString("<false/>")
		}
		return nil

	case KindInt:
		sb.WriteString("<integer>")
		sb.WriteString(strconv.FormatInt(v.Int(), 10))
		sb.WriteString("</integer>")
		return nil

	case KindReal:
		sb.WriteString("<real>")
		sb.WriteString(strconv.FormatFloat(v.Real(), 'g', -1, 64))
		sb.WriteString("</real>")
		return nil

	case KindDate:
		sb.WriteString("<date>")
		sb.WriteString(v.DateValue().ISO8601())
		sb.WriteString("</date>")
		return nil

	case KindString:
		sb.WriteString("<string>")
		sb.WriteString(xmlEscape(v.String()))
		sb.WriteString("</string>")
		return nil

	case KindData:
		sb.WriteString("<data>")
		encoded := Base64Encode(v.Data(), dataLineEnding())
		if encoded != "" {
			sb.WriteString(dataLineEnding())
			sb.WriteString(encoded)
			sb.WriteString(dataLineEnding())
			indent(sb, depth)
		}
		sb.WriteString("</data>")
		return nil

	case KindArray:
		elems := v.Array()
		if len(elems) == 0 {
			sb.WriteString("<array/>")
			return nil
		}
		sb.WriteString("<array>\n")
		for _, el := range elems {
			if err := writeXMLValue(sb, el, depth+1); err != nil {
				return err
			}
			sb.WriteString("\n")
		}
		indent(sb, depth)
		sb.WriteString("</array>")
		return nil

	case KindDict:
		keys := v.SortedKeys()
		if len(keys) == 0 {
			sb.WriteString("<dict/>")
			return nil
		}
		m := v.Dict()
		sb.WriteString("<dict>\n")
		for _, k := range keys {
			indent(sb, depth+1)
			sb.WriteString("<key>")
			sb.WriteString(xmlEscape(k))
			sb.WriteString("</key>\n")
			if err := writeXMLValue(sb, m[k], depth+1); err != nil {
				return err
			}
			sb.WriteString("\n")
		}
		indent(sb, depth)
		sb.WriteString("</dict>")
		return nil
	}
	return newError(KindTypeNotSerializable, "unrecognized value kind %v", v.Kind())
}
