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
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/clock"
	"github.com/replog/replog/pkg/server/presenters"
	"github.com/replog/replog/pkg/server/testutils"
)

func TestDispatch_sessionSetCreate(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	exercise := testutils.SetupExerciseData(db, user, "Squat")
	session := testutils.SetupSessionData(db, user, 0, "Leg day")

	c := clock.NewMock()
	c.SetNow(time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))

	raw := json.RawMessage(fmt.Sprintf(`{"sessionId": %d, "exerciseId": %d, "reps": 5, "weight": 100}`, session.ID, exercise.ID))
	params, err := ParseParams(TypeSessionSetCreate, raw)
	if err != nil {
		t.Fatal(err)
	}

	result, err := Dispatch(db, c, user, params)
	if err != nil {
		t.Fatal(err)
	}

	presented, ok := result.(presenters.SessionSet)
	if !ok {
		t.Fatalf("result was %T, want presenters.SessionSet", result)
	}

	assert.Equal(t, presented.SessionID, session.ID, "SessionID mismatch")
	assert.Equal(t, presented.ExerciseID, exercise.ID, "ExerciseID mismatch")
	assert.Equal(t, presented.SetIndex, 1, "SetIndex mismatch")
	assert.Equal(t, presented.Reps, 5, "Reps mismatch")
}

func TestDispatch_sessionDiscard(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	session := testutils.SetupSessionData(db, user, 0, "Leg day")

	c := clock.NewMock()
	c.SetNow(time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))

	endedAt := time.Date(2025, 3, 10, 18, 5, 0, 0, time.UTC)
	result, err := Dispatch(db, c, user, SessionUpdateParams{
		SessionID: session.ID,
		EndedAt:   &endedAt,
	})
	if err != nil {
		t.Fatal(err)
	}

	presented, ok := result.(presenters.SessionDiscarded)
	if !ok {
		t.Fatalf("result was %T, want presenters.SessionDiscarded", result)
	}

	assert.Equal(t, presented.Discarded, true, "Discarded mismatch")
	assert.Equal(t, presented.SessionID, session.ID, "SessionID mismatch")
}

func TestDispatch_rejectsInvalidParams(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")

	c := clock.NewMock()
	c.SetNow(time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))

	_, err := Dispatch(db, c, user, SessionSetDeleteParams{SetID: 404})

	assert.Equal(t, err, ErrSetNotFound, "error mismatch")
}
