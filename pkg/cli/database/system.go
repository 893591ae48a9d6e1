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
	"github.com/pkg/errors"
)

// GetSystem scans the given system configuration record onto the destination
func GetSystem(db *DB, key string, dest interface{}) error {
	if err := db.QueryRow("SELECT value FROM system WHERE key = ?", key).Scan(dest); err != nil {
		return errors.Wrapf(err, "finding system config for %s", key)
	}

	return nil
}

// InsertSystem inserts a system configuration record
func InsertSystem(db *DB, key string, val interface{}) error {
	if _, err := db.Exec("INSERT INTO system (key, value) VALUES (?, ?)", key, val); err != nil {
		return errors.Wrapf(err, "inserting system config for %s", key)
	}

	return nil
}

// UpdateSystem updates a system configuration record
func UpdateSystem(db *DB, key string, val interface{}) error {
	if _, err := db.Exec("UPDATE system SET value = ? WHERE key = ?", val, key); err != nil {
		return errors.Wrapf(err, "updating system config for %s", key)
	}

	return nil
}

// UpsertSystem inserts the system configuration record if it is missing,
// and updates it otherwise
func UpsertSystem(db *DB, key string, val interface{}) error {
	var count int
	if err := db.QueryRow("SELECT count(*) FROM system WHERE key = ?", key).Scan(&count); err != nil {
		return errors.Wrapf(err, "counting system config for %s", key)
	}

	if count == 0 {
		return InsertSystem(db, key, val)
	}

	return UpdateSystem(db, key, val)
}

// DeleteSystem deletes the system configuration record with the given key
func DeleteSystem(db *DB, key string) error {
	if _, err := db.Exec("DELETE FROM system WHERE key = ?", key); err != nil {
		return errors.Wrapf(err, "deleting system config for %s", key)
	}

	return nil
}
