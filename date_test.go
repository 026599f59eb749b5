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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDateAppleEpochZero(t *testing.T) {
	d := NewDate(0)
	require.Equal(t, "2001-01-01T00:00:00Z", d.ISO8601())
	require.Equal(t, float64(978307200), d.PosixEpoch())
}

func TestDateISO8601RoundTrip(t *testing.T) {
	d := NewDate(338610664)
	parsed, err := ParseISO8601(d.ISO8601())
	require.NoError(t, err)
	require.Equal(t, 0, CompareDates(d, parsed))
}

func TestDateFromTimeRoundTrip(t *testing.T) {
	d1 := NewDate(12345)
	d2 := NewDateFromTime(d1.Time())
	require.InDelta(t, d1.AppleEpoch(), d2.AppleEpoch(), 1e-6)
}

func TestCompareDates(t *testing.T) {
	a := NewDate(100)
	b := NewDate(200)
	require.Equal(t, -1, CompareDates(a, b))
	require.Equal(t, 1, CompareDates(b, a))
	require.Equal(t, 0, CompareDates(a, a))
}

func TestSecondsSince(t *testing.T) {
	a := NewDate(200)
	b := NewDate(150)
	require.Equal(t, int64(50), SecondsSince(a, b))
}

func TestParseISO8601Invalid(t *testing.T) {
	_, err := ParseISO8601("not-a-date")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindXMLParse, perr.Kind)
}
