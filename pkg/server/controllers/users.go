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

	pkgErrors "github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/middleware"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{
		app: app,
	}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// SessionResponse is the response containing a session key
type SessionResponse struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

func respondWithSession(w http.ResponseWriter, statusCode int, session *database.Session) {
	respondJSON(w, statusCode, SessionResponse{
		Key:       session.Key,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}

// RegistrationForm is the form data for registering a user
type RegistrationForm struct {
	Email                string `json:"email" schema:"email"`
	Password             string `json:"password" schema:"password"`
	PasswordConfirmation string `json:"password_confirmation" schema:"password_confirmation"`
}

// Register handles POST /api/v1/register
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	if u.app.DisableRegistration {
		handleJSONError(w, app.ErrRegistrationDisabled, "registering user")
		return
	}

	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(form.Email, form.Password, form.PasswordConfirmation)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := u.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in user")
		return
	}

	respondWithSession(w, http.StatusCreated, session)
}

// SigninForm is the form data for signing in
type SigninForm struct {
	Email    string `json:"email" schema:"email"`
	Password string `json:"password" schema:"password"`
}

// Signin handles POST /api/v1/signin
func (u *Users) Signin(w http.ResponseWriter, r *http.Request) {
	var form SigninForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.Email == "" || form.Password == "" {
		handleJSONError(w, app.ErrLoginInvalid, "signing in user")
		return
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		// Do not tell the client whether the email or the password was wrong
		if pkgErrors.Cause(err) == app.ErrNotFound {
			err = app.ErrLoginInvalid
		}

		handleJSONError(w, err, "authenticating user")
		return
	}

	session, err := u.app.SignIn(user)
	if err != nil {
		handleJSONError(w, err, "signing in user")
		return
	}

	respondWithSession(w, http.StatusOK, session)
}

// Signout handles POST /api/v1/signout
func (u *Users) Signout(w http.ResponseWriter, r *http.Request) {
	key, err := middleware.GetCredential(r)
	if err != nil {
		handleJSONError(w, err, "getting credentials")
		return
	}

	if key != "" {
		if err := u.app.DeleteSession(key); err != nil {
			handleJSONError(w, err, "deleting session")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/v1/token/refresh. It rotates the presented
// session key, so a client holding an expiring key can keep its queued
// operations flowing without signing in again.
func (u *Users) Refresh(w http.ResponseWriter, r *http.Request) {
	key, err := middleware.GetCredential(r)
	if err != nil {
		handleJSONError(w, err, "getting credentials")
		return
	}
	if key == "" {
		handleJSONError(w, app.ErrInvalidSession, "refreshing session")
		return
	}

	session, err := u.app.RefreshSession(key)
	if err != nil {
		handleJSONError(w, err, "refreshing session")
		return
	}

	respondWithSession(w, http.StatusOK, &session)
}
