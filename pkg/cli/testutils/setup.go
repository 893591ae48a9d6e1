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

package testutils

import (
	"testing"

	"github.com/replog/replog/pkg/cli/database"
)

// Queued timestamps are nanoseconds, matching queue.Enqueue
const (
	queuedAt1 = int64(1704067200000000000)
	queuedAt2 = int64(1704067260000000000)
	queuedAt3 = int64(1704067320000000000)
)

// Setup1 seeds the queue with a single pending operation
func Setup1(t *testing.T, db *database.DB) {
	database.MustExec(t, "seeding operation 1", db,
		"INSERT INTO sync_queue (uuid, type, data, queued_at) VALUES (?, ?, ?, ?)",
		"f0d0fbb7-31ff-45ae-9f0f-4e429c0c797f", "session_set.create", `{"sessionId":1,"exerciseId":2,"reps":8,"weight":100}`, queuedAt1)
}

// Setup2 seeds the queue with operations of mixed types and ages
func Setup2(t *testing.T, db *database.DB) {
	database.MustExec(t, "seeding operation 1", db,
		"INSERT INTO sync_queue (uuid, type, data, queued_at) VALUES (?, ?, ?, ?)",
		"f0d0fbb7-31ff-45ae-9f0f-4e429c0c797f", "session_set.create", `{"sessionId":1,"exerciseId":2,"reps":8,"weight":100}`, queuedAt1)
	database.MustExec(t, "seeding operation 2", db,
		"INSERT INTO sync_queue (uuid, type, data, queued_at) VALUES (?, ?, ?, ?)",
		"43827b9a-c2b0-4c06-a290-97991c896653", "bodyweight.create", `{"weight":80.5}`, queuedAt2)
	database.MustExec(t, "seeding operation 3", db,
		"INSERT INTO sync_queue (uuid, type, data, queued_at, last_error) VALUES (?, ?, ?, ?, ?)",
		"3e065d55-6d47-42f2-a6bf-f5844130b2d2", "session.update", `{"sessionId":1,"name":"push day"}`, queuedAt3, "session not found")
}
