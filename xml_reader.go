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
	"strconv"
	"strings"
)

// decodeXML reads a full plist XML document from r and returns its root
// value.
func decodeXML(r io.Reader) (*Value, error) {
	root, err := parseDOM(r)
	if err != nil {
		return nil, err
	}
	if root.name != "plist" {
		return nil, newError(KindXMLUnknownNode, "root element is <%s>, not <plist>", root.name)
	}
	if len(root.children) == 0 {
		return nil, newError(KindXMLParse, "<plist> has no content element")
	}
	return xmlNodeToValue(root.children[0])
}

func xmlNodeToValue(n *domNode) (*Value, error) {
	switch n.name {
	case "dict":
		return xmlNodeToDict(n)
	case "array":
		elems := make([]*Value, 0, len(n.children))
		for _, c := range n.children {
			v, err := xmlNodeToValue(c)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return NewArray(elems), nil
	case "string":
		return NewString(n.text), nil
	case "integer":
		i, err := strconv.ParseInt(strings.TrimSpace(n.text), 10, 64)
		if err != nil {
			return nil, wrapError(KindXMLParse, err, "parsing <integer>%s</integer>", n.text)
		}
		return NewInt(i), nil
	case "real":
		f, err := strconv.ParseFloat(strings.TrimSpace(n.text), 64)
		if err != nil {
			return nil, wrapError(KindXMLParse, err, "parsing <real>%s</real>", n.text)
		}
		return NewReal(f), nil
	case "true":
		return NewBool(true), nil
	case "false":
		return NewBool(false), nil
	case "data":
		b, err := Base64Decode(n.text)
		if err != nil {
			return nil, err
		}
		return NewData(b), nil
	case "date":
		d, err := ParseISO8601(strings.TrimSpace(n.text))
		if err != nil {
			return nil, err
		}
		return NewDateValue(d), nil
	}
	return nil, newError(KindXMLUnknownNode, "unrecognized tag <%s>", n.name)
}

func xmlNodeToDict(n *domNode) (*Value, error) {
	m := make(map[string]*Value)
	children := n.children
	if len(children)%2 != 0 {
		return nil, newError(KindXMLDictMalformed, "<dict> has an odd number of children (%d)", len(children))
	}
	for i := 0; i < len(children); i += 2 {
		keyNode := children[i]
		if keyNode.name != "key" {
			return nil, newError(KindXMLDictMalformed, "expected <key> at position %d, found <%s>", i, keyNode.name)
		}
		valNode := children[i+1]
		if valNode.name == "key" {
			return nil, newError(KindXMLDictMalformed, "two consecutive <key> elements at position %d", i)
		}
		v, err := xmlNodeToValue(valNode)
		if err != nil {
			return nil, err
		}
		if _, dup := m[keyNode.text]; dup {
			return nil, newError(KindXMLDictMalformed, "duplicate dict key %q", keyNode.text)
		}
		m[keyNode.text] = v
	}
	return NewDict(m), nil
}
