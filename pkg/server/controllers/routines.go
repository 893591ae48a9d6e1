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
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/context"
	"github.com/replog/replog/pkg/server/operations"
	"github.com/replog/replog/pkg/server/presenters"
)

// errActiveSession is an error for changing a target weight while a
// workout session is in progress
var errActiveSession = errors.New("a session is in progress")

// NewRoutines creates a new Routines controller
func NewRoutines(app *app.App) *Routines {
	return &Routines{
		app: app,
	}
}

// Routines is a controller for routine mutations that bypass the sync queue
type Routines struct {
	app *app.App
}

// TargetWeightForm is the form data for updating a target weight
type TargetWeightForm struct {
	TargetWeight float64 `json:"targetWeight" schema:"target_weight"`
}

// UpdateTargetWeight handles PATCH /api/v1/routines/{routineID}/exercises/{exerciseID}.
// Unlike the sync-batch handler for the same mutation, this path refuses to
// run while the user has an active session. The sync path accepts the
// operation regardless because it may have been queued before the session
// started.
func (c *Routines) UpdateTargetWeight(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "updating target weight")
		return
	}

	vars := mux.Vars(r)
	routineID, err := strconv.Atoi(vars["routineID"])
	if err != nil {
		handleJSONError(w, errors.Wrap(errInvalidPayload, "invalid routine id"), "parsing routine id")
		return
	}
	exerciseID, err := strconv.Atoi(vars["exerciseID"])
	if err != nil {
		handleJSONError(w, errors.Wrap(errInvalidPayload, "invalid exercise id"), "parsing exercise id")
		return
	}

	var form TargetWeightForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, errors.Wrap(errInvalidPayload, err.Error()), "parsing payload")
		return
	}

	active, err := operations.HasActiveSession(c.app.DB, *user)
	if err != nil {
		handleJSONError(w, err, "checking for an active session")
		return
	}
	if active {
		handleJSONError(w, errActiveSession, "updating target weight")
		return
	}

	tx := c.app.DB.Begin()

	routineExercise, err := operations.UpdateTargetWeight(tx, *user, operations.TargetWeightUpdateParams{
		RoutineID:    routineID,
		ExerciseID:   exerciseID,
		TargetWeight: form.TargetWeight,
	})
	if err != nil {
		tx.Rollback()
		handleJSONError(w, err, "updating target weight")
		return
	}

	if err := tx.Commit().Error; err != nil {
		handleJSONError(w, errors.Wrap(err, "committing transaction"), "updating target weight")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentRoutineExercise(routineExercise))
}
