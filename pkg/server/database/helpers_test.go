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

package database

import (
	"encoding/json"
	"testing"

	"github.com/replog/replog/pkg/assert"
	"github.com/pkg/errors"
)

func TestToNullString(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{
			input:    "alice@example.com",
			expected: true,
		},
		{
			input:    "",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := ToNullString(tc.input)

			assert.Equal(t, got.Valid, tc.expected, "Valid mismatch")
			assert.Equal(t, got.String, tc.input, "String mismatch")
		})
	}
}

func TestNullStringJSON(t *testing.T) {
	t.Run("marshal valid", func(t *testing.T) {
		b, err := json.Marshal(ToNullString("foo"))
		if err != nil {
			t.Fatal(errors.Wrap(err, "marshaling"))
		}

		assert.Equal(t, string(b), `"foo"`, "result mismatch")
	})

	t.Run("marshal null", func(t *testing.T) {
		b, err := json.Marshal(ToNullString(""))
		if err != nil {
			t.Fatal(errors.Wrap(err, "marshaling"))
		}

		assert.Equal(t, string(b), "null", "result mismatch")
	})

	t.Run("unmarshal string", func(t *testing.T) {
		var got NullString
		if err := json.Unmarshal([]byte(`"bar"`), &got); err != nil {
			t.Fatal(errors.Wrap(err, "unmarshaling"))
		}

		assert.Equal(t, got.Valid, true, "Valid mismatch")
		assert.Equal(t, got.String, "bar", "String mismatch")
	})

	t.Run("unmarshal null", func(t *testing.T) {
		var got NullString
		if err := json.Unmarshal([]byte("null"), &got); err != nil {
			t.Fatal(errors.Wrap(err, "unmarshaling"))
		}

		assert.Equal(t, got.Valid, false, "Valid mismatch")
	})
}
