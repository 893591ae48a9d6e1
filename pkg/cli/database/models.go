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

// Operation is a pending mutation queued for delivery to the server.
// UUID doubles as the idempotency key: the server applies an operation
// at most once per (user, uuid).
type Operation struct {
	UUID      string `json:"uuid"`
	Type      string `json:"type"`
	Data      string `json:"data"`
	QueuedAt  int64  `json:"queued_at"`
	LastError string `json:"last_error"`
}

// NewOperation constructs an operation with the given data
func NewOperation(uuid, typ, data string, queuedAt int64) Operation {
	return Operation{
		UUID:     uuid,
		Type:     typ,
		Data:     data,
		QueuedAt: queuedAt,
	}
}

// Insert inserts a new pending operation
func (o Operation) Insert(db *DB) error {
	_, err := db.Exec("INSERT INTO sync_queue (uuid, type, data, queued_at, last_error) VALUES (?, ?, ?, ?, ?)",
		o.UUID, o.Type, o.Data, o.QueuedAt, o.LastError)

	if err != nil {
		return errors.Wrapf(err, "inserting operation with uuid %s", o.UUID)
	}

	return nil
}

// UpdateLastError records the most recent server rejection for the operation.
// It is cleared implicitly when the operation is eventually applied and removed.
func (o Operation) UpdateLastError(db *DB, message string) error {
	_, err := db.Exec("UPDATE sync_queue SET last_error = ? WHERE uuid = ?", message, o.UUID)
	if err != nil {
		return errors.Wrapf(err, "updating last error for operation with uuid %s", o.UUID)
	}

	return nil
}

// Expunge hard-deletes the operation from the queue
func (o Operation) Expunge(db *DB) error {
	_, err := db.Exec("DELETE FROM sync_queue WHERE uuid = ?", o.UUID)
	if err != nil {
		return errors.Wrap(err, "expunging an operation locally")
	}

	return nil
}
