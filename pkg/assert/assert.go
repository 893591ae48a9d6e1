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

// Package assert provides functions to assert a condition in tests
package assert

import (
	"fmt"
	"io"
	"net/http"
	"reflect"
	"testing"
)

// Equal fails a test if the actual does not match the expected
func Equal(t *testing.T, a interface{}, b interface{}, message string) {
	t.Helper()

	if a != b {
		t.Errorf("%s: got %+v, want %+v", message, a, b)
	}
}

// Equalf fails a test if the actual does not match the expected, and
// terminates the test run immediately. The message is a format string.
func Equalf(t *testing.T, a interface{}, b interface{}, format string, args ...interface{}) {
	t.Helper()

	if a != b {
		t.Fatalf("%s: got %+v, want %+v", fmt.Sprintf(format, args...), a, b)
	}
}

// NotEqual fails a test if the actual matches the expected
func NotEqual(t *testing.T, a interface{}, b interface{}, message string) {
	t.Helper()

	if a == b {
		t.Errorf("%s: got %+v, which should not equal %+v", message, a, b)
	}
}

// DeepEqual fails a test if the actual does not deeply equal the expected
func DeepEqual(t *testing.T, a interface{}, b interface{}, message string) {
	t.Helper()

	if !reflect.DeepEqual(a, b) {
		t.Errorf("%s: got %+v, want %+v", message, a, b)
	}
}

// StatusCodeEquals fails a test if the response's status code does not
// match the expected. It prints out the response body to help debugging.
func StatusCodeEquals(t *testing.T, res *http.Response, expected int, message string) {
	t.Helper()

	if res.StatusCode != expected {
		body, err := io.ReadAll(res.Body)
		if err != nil {
			t.Fatal("reading response body while diagnosing status code mismatch")
		}

		t.Errorf("%s: status code got %d, want %d. Body: %s", message, res.StatusCode, expected, string(body))
	}
}
