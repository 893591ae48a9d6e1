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

	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/context"
)

// NewSync creates a new Sync controller
func NewSync(app *app.App) *Sync {
	return &Sync{
		app: app,
	}
}

// Sync is a controller for the sync operations endpoint
type Sync struct {
	app *app.App
}

// OperationsPayload is the request body for the sync operations endpoint
type OperationsPayload struct {
	Operations []app.SyncOperation `json:"operations"`
}

// Operations handles POST /api/v1/sync/operations. It applies a batch of
// client-queued operations and reports one result per operation, in input
// order. A rejected operation never aborts its siblings.
func (s *Sync) Operations(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "applying operations")
		return
	}

	var payload OperationsPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, errors.Wrap(errInvalidPayload, err.Error()), "parsing payload")
		return
	}

	result, err := s.app.ApplyBatch(*user, payload.Operations)
	if err != nil {
		handleJSONError(w, err, "applying operations")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
