/* Copyright 2025 Replog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package app

import (
	"strings"
	"testing"
	"time"

	"github.com/replog/replog/pkg/assert"
)

func TestSigDocEncode(t *testing.T) {
	testCases := []struct {
		doc      sigDoc
		expected string
	}{
		{
			doc:      sigDoc{"b": 1, "a": "x", "c": nil},
			expected: `{"a":"x","b":1,"c":null}`,
		},
		{
			doc:      sigDoc{"flag": true, "weight": 82.5},
			expected: `{"flag":true,"weight":82.5}`,
		},
		{
			doc:      sigDoc{"sets": []sigDoc{{"reps": 5}, {"reps": 8}}},
			expected: `{"sets":[{"reps":5},{"reps":8}]}`,
		},
		{
			doc:      sigDoc{"at": time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)},
			expected: `{"at":1736157600000}`,
		},
	}

	for _, tc := range testCases {
		var sb strings.Builder
		tc.doc.encode(&sb)

		assert.Equalf(t, sb.String(), tc.expected, "encoding mismatch for %+v", tc.doc)
	}
}

func TestSignatureOf_numberForms(t *testing.T) {
	// Whole floats and ints encode to the same decimal form
	intSig := signatureOf(sigDoc{"weight": 100})
	floatSig := signatureOf(sigDoc{"weight": 100.0})

	assert.Equal(t, intSig, floatSig, "100 and 100.0 should produce the same signature")
}

func TestSignatureOf_unicodeNormalization(t *testing.T) {
	composed := "Café"
	decomposed := "Café"

	measuredAt := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)

	s1 := weightSignature(82.5, measuredAt, composed)
	s2 := weightSignature(82.5, measuredAt, decomposed)

	assert.Equal(t, s1, s2, "NFC and NFD forms should produce the same signature")
}

func TestSignatureOf_timeZones(t *testing.T) {
	utc := time.Date(2025, time.January, 6, 13, 0, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*60*60))

	s1 := weightSignature(82.5, utc, "")
	s2 := weightSignature(82.5, est, "")

	assert.Equal(t, s1, s2, "the same instant should produce the same signature in any zone")
}

func TestExerciseKey(t *testing.T) {
	testCases := []struct {
		a     string
		b     string
		match bool
	}{
		{a: "Bench Press", b: "bench press", match: true},
		{a: "BENCH PRESS", b: "bench press", match: true},
		{a: "Café Curl", b: "café curl", match: true},
		{a: "Bench Press", b: "Incline Bench Press", match: false},
	}

	for _, tc := range testCases {
		got := exerciseKey(tc.a) == exerciseKey(tc.b)

		assert.Equalf(t, got, tc.match, "key match mismatch for %q and %q", tc.a, tc.b)
	}
}

func TestRoutineSignature(t *testing.T) {
	slots := func(targetWeight float64) []sigDoc {
		return []sigDoc{
			routineSlotSigDoc("Bench Press", 1, "barbell", 3, 5, targetWeight),
			routineSlotSigDoc("Squat", 2, "barbell", 3, 5, 140),
		}
	}

	s1 := routineSignature("Push Day", "", slots(100))
	s2 := routineSignature("Push Day", "", slots(100))
	s3 := routineSignature("Push Day", "", slots(102.5))

	assert.Equal(t, s1, s2, "identical routines should produce the same signature")
	assert.NotEqual(t, s1, s3, "different target weights should produce different signatures")
}

func TestSessionSignature(t *testing.T) {
	startedAt := time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)

	sets := []sigDoc{
		setSigDoc("Bench Press", 1, 5, 100, "", startedAt.Add(5*time.Minute)),
	}

	s1 := sessionSignature("routine-sig", "monday", "", nil, &startedAt, nil, sets, nil)
	s2 := sessionSignature("routine-sig", "monday", "", nil, &startedAt, nil, sets, nil)
	s3 := sessionSignature("routine-sig", "monday", "", nil, nil, nil, sets, nil)
	s4 := sessionSignature("", "monday", "", nil, &startedAt, nil, sets, nil)

	assert.Equal(t, s1, s2, "identical sessions should produce the same signature")
	assert.NotEqual(t, s1, s3, "a nil timestamp should produce a different signature")
	assert.NotEqual(t, s1, s4, "an ad hoc session should produce a different signature")
}
