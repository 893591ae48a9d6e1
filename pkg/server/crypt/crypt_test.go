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

package crypt

import (
	"encoding/base64"
	"testing"

	"github.com/replog/replog/pkg/assert"
	"github.com/pkg/errors"
)

func TestGetRandomStr(t *testing.T) {
	// Execute
	s1, err := GetRandomStr(32)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}
	s2, err := GetRandomStr(32)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	// Test
	assert.NotEqual(t, s1, s2, "two random strings should not collide")

	decoded, err := base64.StdEncoding.DecodeString(s1)
	if err != nil {
		t.Fatal(errors.Wrap(err, "decoding the result"))
	}
	assert.Equal(t, len(decoded), 32, "decoded length mismatch")
}
