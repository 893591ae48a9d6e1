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

// NewWorkouts creates a new Workouts controller
func NewWorkouts(app *app.App) *Workouts {
	return &Workouts{
		app: app,
	}
}

// Workouts is a controller for workout session reads
type Workouts struct {
	app *app.App
}

// GetProgressResponse is the response for the session progress endpoint
type GetProgressResponse struct {
	Progress []presenters.Progress `json:"progress"`
}

// GetProgress handles GET /api/v1/sessions/{sessionID}/progress
func (c *Workouts) GetProgress(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "getting progress")
		return
	}

	vars := mux.Vars(r)
	sessionID, err := strconv.Atoi(vars["sessionID"])
	if err != nil {
		handleJSONError(w, errors.Wrap(errInvalidPayload, "invalid session id"), "parsing session id")
		return
	}

	progresses, err := operations.ListSessionProgress(c.app.DB, *user, sessionID)
	if err != nil {
		handleJSONError(w, err, "listing progress")
		return
	}

	respondJSON(w, http.StatusOK, GetProgressResponse{
		Progress: presenters.PresentProgresses(progresses),
	})
}
