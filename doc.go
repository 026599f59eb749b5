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

// Package plist reads and writes Apple property lists, in both the XML and
// the binary v0 ("bplist00") wire formats.
//
// A property list is represented in memory as a tree of *Value. Readers
// auto-detect the wire format from the first bytes of the input; writers
// produce either format on request. See ReadFile, ReadReader, ReadBytes,
// WriteBinaryBytes and WriteXMLBytes for the primary entry points.
package plist
