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
	"log"
	"sync"
)

var (
	logMu  sync.Mutex
	pkgLog *log.Logger = log.Default()
)

// SetLogger overrides the *log.Logger used for diagnostic messages emitted
// while decoding malformed input (e.g. an offset table that runs past the
// end of the file). Passing nil restores the default logger. This package
// never logs during a successful operation.
func SetLogger(l *log.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = log.Default()
	}
	pkgLog = l
}

func logger() *log.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return pkgLog
}
