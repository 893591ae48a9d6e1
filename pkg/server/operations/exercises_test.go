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

package operations

import (
	"testing"

	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/testutils"
)

func TestFindOrCreateExercise(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")

	// First call creates
	exercise, created, err := FindOrCreateExercise(db, user, "Bench Press")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, created, true, "created mismatch")
	assert.Equal(t, exercise.Name, "Bench Press", "Name mismatch")

	// Same name reuses
	got, created, err := FindOrCreateExercise(db, user, "Bench Press")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, created, false, "created mismatch")
	assert.Equal(t, got.ID, exercise.ID, "ID mismatch")

	// Case differences also reuse
	got, created, err = FindOrCreateExercise(db, user, "bench press")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, created, false, "created mismatch")
	assert.Equal(t, got.ID, exercise.ID, "ID mismatch")
	assert.Equal(t, got.Name, "Bench Press", "existing name was not kept")

	var count int64
	testutils.MustExec(t, db.Model(&database.Exercise{}).Count(&count), "counting exercises")
	assert.Equal(t, count, int64(1), "exercise count mismatch")
}

func TestFindOrCreateExercise_perUser(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	anotherUser := testutils.SetupUserData(db, "another@test.com", "password123")

	e1, created, err := FindOrCreateExercise(db, user, "Squat")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, created, true, "created mismatch")

	// The same name under a different user is a different exercise
	e2, created, err := FindOrCreateExercise(db, anotherUser, "Squat")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, created, true, "created mismatch")
	assert.NotEqual(t, e2.ID, e1.ID, "exercises were shared across users")
}

func TestGetUserExercise(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	anotherUser := testutils.SetupUserData(db, "another@test.com", "password123")
	exercise := testutils.SetupExerciseData(db, user, "Squat")

	t.Run("owner", func(t *testing.T) {
		got, err := GetUserExercise(db, user, exercise.ID)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, got.ID, exercise.ID, "ID mismatch")
	})

	t.Run("non-owner", func(t *testing.T) {
		_, err := GetUserExercise(db, anotherUser, exercise.ID)
		assert.Equal(t, err, ErrExerciseNotFound, "error mismatch")
	})
}
