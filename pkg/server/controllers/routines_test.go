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
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/testutils"
)

func TestUpdateTargetWeight(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	exercise := testutils.SetupExerciseData(db, user, "Squat")
	routine := testutils.SetupRoutineData(db, user, "SL 5x5", []int{exercise.ID}, 5, 5)

	dat := url.Values{}
	dat.Set("target_weight", "82.5")
	path := fmt.Sprintf("/api/v1/routines/%d/exercises/%d", routine.ID, exercise.ID)
	req := testutils.MakeFormReq(server.URL, "PATCH", path, dat)
	res := testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

	var routineExercise database.RoutineExercise
	testutils.MustExec(t, db.Where("routine_id = ? AND exercise_id = ?", routine.ID, exercise.ID).First(&routineExercise), "finding routine exercise")
	assert.Equal(t, routineExercise.TargetWeight, 82.5, "target weight mismatch")
}

// The direct path refuses while a session is active; the same mutation
// through the sync batch is accepted because it may have been queued
// before the session started.
func TestUpdateTargetWeight_activeSession(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	exercise := testutils.SetupExerciseData(db, user, "Squat")
	routine := testutils.SetupRoutineData(db, user, "SL 5x5", []int{exercise.ID}, 5, 5)
	testutils.SetupSessionData(db, user, routine.ID, "Leg day")

	dat := url.Values{}
	dat.Set("target_weight", "82.5")
	path := fmt.Sprintf("/api/v1/routines/%d/exercises/%d", routine.ID, exercise.ID)
	req := testutils.MakeFormReq(server.URL, "PATCH", path, dat)
	res := testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusConflict, "status code mismatch")

	var routineExercise database.RoutineExercise
	testutils.MustExec(t, db.Where("routine_id = ? AND exercise_id = ?", routine.ID, exercise.ID).First(&routineExercise), "finding routine exercise")
	assert.Equal(t, routineExercise.TargetWeight, float64(0), "target weight should be unchanged")

	// The sync-batch path performs no active-session check
	body := fmt.Sprintf(`{
		"operations": [
			{"operationId": "op-1", "operationType": "routine_exercise.target_weight.update", "payload": {"routineId": %d, "exerciseId": %d, "targetWeight": 82.5}}
		]
	}`, routine.ID, exercise.ID)
	res = testutils.HTTPAuthDo(t, db, testutils.MakeReq(server.URL, "POST", "/api/v1/sync/operations", body), user)
	assert.StatusCodeEquals(t, res, http.StatusOK, "sync status code mismatch")

	var result app.SyncResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatal(errors.Wrap(err, "decoding response"))
	}
	assert.Equal(t, result.Results[0].Status, app.StatusApplied, "sync result status mismatch")

	testutils.MustExec(t, db.Where("routine_id = ? AND exercise_id = ?", routine.ID, exercise.ID).First(&routineExercise), "finding routine exercise")
	assert.Equal(t, routineExercise.TargetWeight, 82.5, "target weight mismatch after sync")
}

func TestUpdateTargetWeight_nonWeightedEquipment(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	exercise := testutils.SetupExerciseData(db, user, "Band pull-apart")

	routine := database.Routine{UserID: user.ID, Name: "Rehab"}
	testutils.MustExec(t, db.Save(&routine), "preparing routine")

	routineExercise := database.RoutineExercise{
		RoutineID:  routine.ID,
		ExerciseID: exercise.ID,
		Position:   1,
		Equipment:  database.EquipmentBand,
	}
	testutils.MustExec(t, db.Save(&routineExercise), "preparing routine exercise")

	dat := url.Values{}
	dat.Set("target_weight", "20")
	path := fmt.Sprintf("/api/v1/routines/%d/exercises/%d", routine.ID, exercise.ID)
	req := testutils.MakeFormReq(server.URL, "PATCH", path, dat)
	res := testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")
}

func TestUpdateTargetWeight_endedSessionNotActive(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	exercise := testutils.SetupExerciseData(db, user, "Squat")
	routine := testutils.SetupRoutineData(db, user, "SL 5x5", []int{exercise.ID}, 5, 5)

	workoutSession := testutils.SetupSessionData(db, user, routine.ID, "Leg day")
	endedAt := time.Now()
	testutils.MustExec(t, db.Model(&workoutSession).Update("ended_at", &endedAt), "ending session")

	dat := url.Values{}
	dat.Set("target_weight", "85")
	path := fmt.Sprintf("/api/v1/routines/%d/exercises/%d", routine.ID, exercise.ID)
	req := testutils.MakeFormReq(server.URL, "PATCH", path, dat)
	res := testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")
}
