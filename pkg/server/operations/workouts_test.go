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
	"time"

	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/clock"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/testutils"
)

func TestGetWorkoutSession(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	anotherUser := testutils.SetupUserData(db, "another@test.com", "password123")
	session := testutils.SetupSessionData(db, user, 0, "Leg day")

	t.Run("owner", func(t *testing.T) {
		got, err := GetWorkoutSession(db, user, session.ID)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, got.ID, session.ID, "ID mismatch")
		assert.Equal(t, got.Name, "Leg day", "Name mismatch")
	})

	t.Run("non-owner", func(t *testing.T) {
		_, err := GetWorkoutSession(db, anotherUser, session.ID)
		assert.Equal(t, err, ErrSessionNotFound, "error mismatch")
	})

	t.Run("nonexistent", func(t *testing.T) {
		_, err := GetWorkoutSession(db, user, 404)
		assert.Equal(t, err, ErrSessionNotFound, "error mismatch")
	})
}

func TestUpdateWorkoutSession(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	exercise := testutils.SetupExerciseData(db, user, "Squat")
	session := testutils.SetupSessionData(db, user, 0, "Leg day")

	c := clock.NewMock()
	c.SetNow(time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))

	if _, err := CreateSessionSet(db, c, user, SessionSetCreateParams{
		SessionID:  session.ID,
		ExerciseID: exercise.ID,
		Reps:       5,
		Weight:     100,
	}); err != nil {
		t.Fatal(err)
	}

	// Execute
	newNotes := "heavy triples"
	endedAt := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)
	got, discarded, err := UpdateWorkoutSession(db, user, SessionUpdateParams{
		SessionID: session.ID,
		Notes:     &newNotes,
		EndedAt:   &endedAt,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Test that the session closed normally
	assert.Equal(t, discarded, false, "discarded mismatch")
	assert.Equal(t, got.Notes, "heavy triples", "Notes mismatch")
	assert.Equal(t, got.Name, "Leg day", "Name mismatch")
	if got.EndedAt == nil {
		t.Fatal("EndedAt was nil")
	}
	assert.Equal(t, got.EndedAt.UTC(), endedAt, "EndedAt mismatch")

	var count int64
	testutils.MustExec(t, db.Model(&database.WorkoutSession{}).Count(&count), "counting sessions")
	assert.Equal(t, count, int64(1), "session count mismatch")
}

// Ending a session with zero logged sets deletes it instead of closing
// it. A later fetch reads as not found.
func TestUpdateWorkoutSession_discardOnEmpty(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	exercise := testutils.SetupExerciseData(db, user, "Squat")
	session := testutils.SetupSessionData(db, user, 0, "Leg day")

	c := clock.NewMock()
	c.SetNow(time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))

	// An explicitly started slot does not stop the discard; only logged
	// sets do
	if _, err := StartSessionExercise(db, c, user, session.ID, exercise.ID); err != nil {
		t.Fatal(err)
	}

	endedAt := time.Date(2025, 3, 10, 18, 5, 0, 0, time.UTC)
	_, discarded, err := UpdateWorkoutSession(db, user, SessionUpdateParams{
		SessionID: session.ID,
		EndedAt:   &endedAt,
	})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, discarded, true, "discarded mismatch")

	_, err = GetWorkoutSession(db, user, session.ID)
	assert.Equal(t, err, ErrSessionNotFound, "error mismatch")

	var sessionCount, progressCount int64
	testutils.MustExec(t, db.Model(&database.WorkoutSession{}).Count(&sessionCount), "counting sessions")
	testutils.MustExec(t, db.Model(&database.SessionExerciseProgress{}).Count(&progressCount), "counting progress")
	assert.Equal(t, sessionCount, int64(0), "session count mismatch")
	assert.Equal(t, progressCount, int64(0), "progress count mismatch")
}

func TestUpdateWorkoutSession_partialFields(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	session := testutils.SetupSessionData(db, user, 0, "Leg day")

	newName := "Leg day (deload)"
	got, discarded, err := UpdateWorkoutSession(db, user, SessionUpdateParams{
		SessionID: session.ID,
		Name:      &newName,
	})
	if err != nil {
		t.Fatal(err)
	}

	// No end timestamp was sent, so the empty session is not discarded
	assert.Equal(t, discarded, false, "discarded mismatch")
	assert.Equal(t, got.Name, "Leg day (deload)", "Name mismatch")
	if got.StartedAt == nil {
		t.Fatal("StartedAt was cleared")
	}
	if got.EndedAt != nil {
		t.Errorf("EndedAt was %v, want nil", got.EndedAt)
	}
}

func TestUpdateWorkoutSession_ownership(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	anotherUser := testutils.SetupUserData(db, "another@test.com", "password123")
	session := testutils.SetupSessionData(db, user, 0, "Leg day")

	newName := "hijacked"
	_, _, err := UpdateWorkoutSession(db, anotherUser, SessionUpdateParams{
		SessionID: session.ID,
		Name:      &newName,
	})

	assert.Equal(t, err, ErrSessionNotFound, "error mismatch")
}

func TestHasActiveSession(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")

	t.Run("no sessions", func(t *testing.T) {
		got, err := HasActiveSession(db, user)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, got, false, "result mismatch")
	})

	session := testutils.SetupSessionData(db, user, 0, "Leg day")

	t.Run("started session", func(t *testing.T) {
		got, err := HasActiveSession(db, user)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, got, true, "result mismatch")
	})

	t.Run("ended session", func(t *testing.T) {
		endedAt := time.Now()
		testutils.MustExec(t, db.Model(&database.WorkoutSession{}).Where("id = ?", session.ID).Update("ended_at", &endedAt), "ending session")

		got, err := HasActiveSession(db, user)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, got, false, "result mismatch")
	})
}
