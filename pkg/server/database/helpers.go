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
	"database/sql"
	"encoding/json"
)

// NullString is a nullable string
type NullString struct {
	sql.NullString
}

// ToNullString creates a NullString with the given string. An empty
// string becomes null.
func ToNullString(v string) NullString {
	return NullString{sql.NullString{String: v, Valid: v != ""}}
}

// MarshalJSON marshals the NullString into JSON
func (v NullString) MarshalJSON() ([]byte, error) {
	if v.Valid {
		return json.Marshal(v.String)
	}

	return json.Marshal(nil)
}

// UnmarshalJSON unmarshals the given JSON into the NullString
func (v *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s != nil {
		v.Valid = true
		v.String = *s
	} else {
		v.Valid = false
	}

	return nil
}
