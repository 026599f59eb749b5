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

import "time"

// appleToPosixOffset is the number of seconds between the POSIX epoch
// (1970-01-01T00:00:00Z) and the Apple epoch (2001-01-01T00:00:00Z).
const appleToPosixOffset = 978307200

// iso8601Layout is the only ISO-8601 form this codec reads or writes:
// seconds resolution, always in UTC ("Z" suffix, no fractional part).
const iso8601Layout = "2006-01-02T15:04:05Z"

// Date represents a plist <date>, stored internally as seconds since the
// Apple epoch (2001-01-01T00:00:00Z), matching the wire representation
// exactly so round-trips never accumulate floating-point drift from a unit
// conversion.
type Date struct {
	appleSeconds float64
}

// NewDate builds a Date directly from Apple-epoch seconds, as found in a
// binary plist's <date> object body.
func NewDate(appleSeconds float64) Date {
	return Date{appleSeconds: appleSeconds}
}

// NewDateFromTime builds a Date from a wall-clock time.Time.
func NewDateFromTime(t time.Time) Date {
	return Date{appleSeconds: float64(t.UTC().Unix()-appleToPosixOffset) + float64(t.Nanosecond())/1e9}
}

// Time converts d to a UTC time.Time.
func (d Date) Time() time.Time {
	sec := int64(d.appleSeconds)
	nsec := int64((d.appleSeconds - float64(sec)) * 1e9)
	return time.Unix(sec+appleToPosixOffset, nsec).UTC()
}

// AppleEpoch returns the number of seconds since 2001-01-01T00:00:00Z.
func (d Date) AppleEpoch() float64 { return d.appleSeconds }

// PosixEpoch returns the number of seconds since 1970-01-01T00:00:00Z.
func (d Date) PosixEpoch() float64 { return d.appleSeconds + appleToPosixOffset }

// ISO8601 renders d as an ISO-8601 UTC timestamp with second resolution,
// e.g. "2001-01-01T00:00:00Z".
func (d Date) ISO8601() string {
	return d.Time().Truncate(time.Second).Format(iso8601Layout)
}

// ParseISO8601 parses a timestamp of the form "YYYY-MM-DDThh:mm:ssZ" into a
// Date.
func ParseISO8601(s string) (Date, error) {
	t, err := time.Parse(iso8601Layout, s)
	if err != nil {
		return Date{}, wrapError(KindXMLParse, err, "parsing iso-8601 date %q", s)
	}
	return NewDateFromTime(t), nil
}

// CompareDates returns -1, 0, or 1 as a is before, equal to, or after b,
// comparing Apple-epoch seconds directly.
func CompareDates(a, b Date) int {
	switch {
	case a.appleSeconds < b.appleSeconds:
		return -1
	case a.appleSeconds > b.appleSeconds:
		return 1
	default:
		return 0
	}
}

// SecondsSince returns the whole number of seconds between a and b (a - b),
// truncated toward zero.
func SecondsSince(a, b Date) int64 {
	return int64(a.appleSeconds - b.appleSeconds)
}
