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

// Package queue implements the local queue of pending operations. Operations
// are held in first-in-first-out order until the server acknowledges them.
package queue

import (
	"encoding/json"
	"sync"

	"github.com/replog/replog/pkg/cli/database"
	"github.com/replog/replog/pkg/cli/utils"
	"github.com/replog/replog/pkg/clock"
	"github.com/pkg/errors"
)

// Queue is a durable FIFO of operations awaiting delivery. If the local
// database is unavailable, it degrades to an in-memory list that does not
// survive the process.
type Queue struct {
	db    *database.DB
	clock clock.Clock

	mu     sync.Mutex
	memory []database.Operation
}

// New creates a queue backed by the given database. A nil database puts the
// queue in the in-memory fallback mode.
func New(db *database.DB, c clock.Clock) *Queue {
	return &Queue{
		db:    db,
		clock: c,
	}
}

// Durable indicates whether queued operations survive a restart
func (q *Queue) Durable() bool {
	return q.db != nil
}

// Enqueue appends an operation with the given type and payload. It assigns
// the operation id and the queued timestamp, and returns the operation along
// with the resulting queue size.
func (q *Queue) Enqueue(operationType string, payload interface{}) (database.Operation, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return database.Operation{}, 0, errors.Wrap(err, "marshalling payload")
	}

	uuid, err := utils.GenerateUUID()
	if err != nil {
		return database.Operation{}, 0, errors.Wrap(err, "generating operation id")
	}

	op := database.NewOperation(uuid, operationType, string(data), q.clock.Now().UnixNano())

	if q.db == nil {
		q.mu.Lock()
		defer q.mu.Unlock()

		q.memory = append(q.memory, op)
		return op, len(q.memory), nil
	}

	if err := op.Insert(q.db); err != nil {
		return database.Operation{}, 0, errors.Wrap(err, "inserting operation")
	}

	size, err := q.Count()
	if err != nil {
		return database.Operation{}, 0, errors.Wrap(err, "counting queue")
	}

	return op, size, nil
}

// ListQueued returns pending operations in the order they were queued. A
// non-positive limit returns all pending operations.
func (q *Queue) ListQueued(limit int) ([]database.Operation, error) {
	if q.db == nil {
		q.mu.Lock()
		defer q.mu.Unlock()

		ret := make([]database.Operation, len(q.memory))
		copy(ret, q.memory)
		if limit > 0 && len(ret) > limit {
			ret = ret[:limit]
		}
		return ret, nil
	}

	query := "SELECT uuid, type, data, queued_at, last_error FROM sync_queue ORDER BY queued_at ASC, rowid ASC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying the queue")
	}
	defer rows.Close()

	var ret []database.Operation
	for rows.Next() {
		var op database.Operation
		if err := rows.Scan(&op.UUID, &op.Type, &op.Data, &op.QueuedAt, &op.LastError); err != nil {
			return nil, errors.Wrap(err, "scanning an operation")
		}

		ret = append(ret, op)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating the queue")
	}

	return ret, nil
}

// Count returns the number of pending operations
func (q *Queue) Count() (int, error) {
	if q.db == nil {
		q.mu.Lock()
		defer q.mu.Unlock()

		return len(q.memory), nil
	}

	var count int
	err := q.db.QueryRow("SELECT count(*) FROM sync_queue").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "counting the queue")
	}

	return count, nil
}

// RemoveAcknowledged removes the operations with the given ids. Only
// operations the server acknowledged as applied or duplicate should be
// removed; rejected operations stay queued.
func (q *Queue) RemoveAcknowledged(uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}

	if q.db == nil {
		q.mu.Lock()
		defer q.mu.Unlock()

		acked := map[string]bool{}
		for _, uuid := range uuids {
			acked[uuid] = true
		}

		remaining := q.memory[:0]
		for _, op := range q.memory {
			if !acked[op.UUID] {
				remaining = append(remaining, op)
			}
		}
		q.memory = remaining

		return nil
	}

	tx, err := q.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	for _, uuid := range uuids {
		op := database.Operation{UUID: uuid}
		if err := op.Expunge(tx); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "removing operation with uuid %s", uuid)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing a transaction")
	}

	return nil
}

// SetLastError records the latest server rejection for an operation so it can
// be surfaced to the user. The operation stays queued.
func (q *Queue) SetLastError(uuid, message string) error {
	if q.db == nil {
		q.mu.Lock()
		defer q.mu.Unlock()

		for i := range q.memory {
			if q.memory[i].UUID == uuid {
				q.memory[i].LastError = message
			}
		}

		return nil
	}

	op := database.Operation{UUID: uuid}
	if err := op.UpdateLastError(q.db, message); err != nil {
		return errors.Wrap(err, "updating last error")
	}

	return nil
}
