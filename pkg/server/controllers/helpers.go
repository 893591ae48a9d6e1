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
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/log"
	"github.com/replog/replog/pkg/server/operations"
)

var formDecoder = schema.NewDecoder()

// errInvalidPayload is an error for a request body that could not be decoded
var errInvalidPayload = errors.New("invalid payload")

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

// parseRequestData decodes the request body into the given destination.
// Form-encoded bodies are decoded with gorilla/schema; everything else is
// treated as JSON.
func parseRequestData(r *http.Request, dest interface{}) error {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return errors.Wrap(err, "parsing form")
		}

		if err := formDecoder.Decode(dest, r.PostForm); err != nil {
			return errors.Wrap(err, "decoding form")
		}

		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decoding json")
	}

	return nil
}

// statusCodeForError maps known application errors to HTTP status codes.
// Unknown errors are treated as internal.
func statusCodeForError(err error) int {
	cause := errors.Cause(err)

	switch cause {
	case errInvalidPayload:
		return http.StatusBadRequest
	case errActiveSession:
		return http.StatusConflict
	case app.ErrLoginInvalid, app.ErrNotFound, app.ErrInvalidSession:
		return http.StatusUnauthorized
	case app.ErrRegistrationDisabled:
		return http.StatusForbidden
	case app.ErrEmailRequired,
		app.ErrPasswordRequired,
		app.ErrPasswordTooShort,
		app.ErrPasswordConfirmationMismatch,
		app.ErrDuplicateEmail,
		app.ErrBatchEmpty,
		app.ErrBatchTooLarge,
		app.ErrImportInvalid:
		return http.StatusBadRequest
	case operations.ErrSessionNotFound,
		operations.ErrExerciseNotFound,
		operations.ErrSetNotFound,
		operations.ErrRoutineNotFound,
		operations.ErrRoutineExerciseNotFound:
		return http.StatusNotFound
	case operations.ErrTargetSetsReached,
		operations.ErrTargetWeightNotSupported,
		operations.ErrTargetWeightInvalid,
		operations.ErrBodyweightInvalid:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// handleJSONError logs the error and responds with a JSON error payload
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := statusCodeForError(err)

	if statusCode == http.StatusInternalServerError {
		log.ErrorWrap(err, msg)
		respondJSON(w, statusCode, map[string]string{"error": http.StatusText(statusCode)})
		return
	}

	respondJSON(w, statusCode, map[string]string{"error": errors.Cause(err).Error()})
}

// respondJSON encodes the given payload into JSON and writes it to the response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}
