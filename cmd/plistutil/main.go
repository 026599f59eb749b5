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

// Command plistutil reads a property list in either wire format and
// re-emits it as XML, as binary, or as a human-readable dump. It exists as
// a manual round-trip smoke test for the plist package.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/animetrics/goplist"
)

func main() {
	in := flag.String("in", "", "input plist path, or - for stdin (required)")
	out := flag.String("out", "", "output path, or empty for stdout")
	format := flag.String("format", "xml", "output format: binary, xml, or dump")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "plistutil: -in is required")
		os.Exit(2)
	}

	v, err := readInput(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "plistutil: %v\n", err)
		os.Exit(1)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "plistutil: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := writeOutput(w, v, *format); err != nil {
		fmt.Fprintf(os.Stderr, "plistutil: %v\n", err)
		os.Exit(1)
	}
}

func readInput(path string) (*plist.Value, error) {
	if path == "-" {
		return plist.ReadReader(os.Stdin)
	}
	return plist.ReadFile(path)
}

func writeOutput(w io.Writer, v *plist.Value, format string) error {
	switch format {
	case "binary":
		return plist.WriteBinaryWriter(w, v)
	case "xml":
		return plist.WriteXMLWriter(w, v)
	case "dump":
		dumpValue(w, v, 0)
		return nil
	}
	return fmt.Errorf("unknown -format %q (want binary, xml, or dump)", format)
}

func dumpValue(w io.Writer, v *plist.Value, depth int) {
	pad := func() {
		for i := 0; i < depth; i++ {
			fmt.Fprint(w, "  ")
		}
	}
	pad()
	switch v.Kind() {
	case plist.KindBool:
		fmt.Fprintf(w, "bool: %v\n", v.Bool())
	case plist.KindInt:
		fmt.Fprintf(w, "int: %d\n", v.Int())
	case plist.KindReal:
		fmt.Fprintf(w, "real: %g\n", v.Real())
	case plist.KindDate:
		fmt.Fprintf(w, "date: %s\n", v.DateValue().ISO8601())
	case plist.KindString:
		fmt.Fprintf(w, "string: %q\n", v.String())
	case plist.KindData:
		fmt.Fprintf(w, "data: %d bytes\n", len(v.Data()))
	case plist.KindArray:
		fmt.Fprintf(w, "array: %d elements\n", len(v.Array()))
		for _, el := range v.Array() {
			dumpValue(w, el, depth+1)
		}
	case plist.KindDict:
		keys := make([]string, 0, len(v.Dict()))
		for k := range v.Dict() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "dict: %d entries\n", len(keys))
		m := v.Dict()
		for _, k := range keys {
			pad()
			fmt.Fprintf(w, "  %q:\n", k)
			dumpValue(w, m[k], depth+2)
		}
	}
}
