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
	"encoding/xml"
	"io"
	"strings"
)

// domNode is a minimal document tree node. XML tokenization itself is
// delegated to encoding/xml's generic Decoder (see SPEC_FULL.md §1
// "out of scope" collaborators); this type is the DOM the plist XML reader
// walks. The XML writer does not build a DOM; it emits text directly.
type domNode struct {
	name     string
	text     string
	children []*domNode
}

// parseDOM reads a complete XML document from r and returns its root
// element node.
func parseDOM(r io.Reader) (*domNode, error) {
	dec := xml.NewDecoder(r)
	var root *domNode
	var stack []*domNode
	var textBuf strings.Builder

	flushText := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		top.text += textBuf.String()
		textBuf.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapError(KindXMLParse, err, "tokenizing xml document")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			flushText()
			n := &domNode{name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			flushText()
			stack = stack[:len(stack)-1]
		case xml.CharData:
			textBuf.Write(t)
		}
	}
	if root == nil {
		return nil, newError(KindXMLParse, "no root element found")
	}
	return root, nil
}

// child returns the first direct child of n with the given tag name, or nil.
func (n *domNode) child(name string) *domNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// xmlEscape escapes s for use as XML character data.
func xmlEscape(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		// xml.EscapeText only fails on a write error, which strings.Builder
		// never produces.
		panic(err)
	}
	return sb.String()
}
