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

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/testutils"
)

func TestGetProgress(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	exercise := testutils.SetupExerciseData(db, user, "Squat")
	workoutSession := testutils.SetupSessionData(db, user, 0, "Leg day")

	startedAt := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	completedAt := startedAt.Add(10 * time.Minute)
	progress := database.SessionExerciseProgress{
		SessionID:   workoutSession.ID,
		ExerciseID:  exercise.ID,
		Position:    1,
		Status:      database.ProgressStatusCompleted,
		StartedAt:   &startedAt,
		CompletedAt: &completedAt,
	}
	testutils.MustExec(t, db.Save(&progress), "preparing progress")

	path := fmt.Sprintf("/api/v1/sessions/%d/progress", workoutSession.ID)
	res := testutils.HTTPAuthDo(t, db, testutils.MakeReq(server.URL, "GET", path, ""), user)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

	var resp GetProgressResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatal(errors.Wrap(err, "decoding response"))
	}

	assert.Equal(t, len(resp.Progress), 1, "progress count mismatch")
	assert.Equal(t, resp.Progress[0].ExerciseID, exercise.ID, "exercise id mismatch")
	assert.Equal(t, resp.Progress[0].Status, database.ProgressStatusCompleted, "status mismatch")
	if resp.Progress[0].DurationSeconds == nil {
		t.Fatal("expected duration to be derived")
	}
	assert.Equal(t, *resp.Progress[0].DurationSeconds, int64(600), "duration mismatch")
}

func TestGetProgress_ownership(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	other := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	workoutSession := testutils.SetupSessionData(db, owner, 0, "Leg day")

	path := fmt.Sprintf("/api/v1/sessions/%d/progress", workoutSession.ID)
	res := testutils.HTTPAuthDo(t, db, testutils.MakeReq(server.URL, "GET", path, ""), other)

	assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")
}
