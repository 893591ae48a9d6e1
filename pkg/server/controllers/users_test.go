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

func TestSignin(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	testutils.SetupUserData(db, "alice@example.com", "pass1234")

	req := testutils.MakeReq(server.URL, "POST", "/api/v1/signin", `{"email": "alice@example.com", "password": "pass1234"}`)
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

	var resp SessionResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatal(errors.Wrap(err, "decoding response"))
	}

	var session database.Session
	testutils.MustExec(t, db.First(&session), "getting session")
	assert.Equal(t, resp.Key, session.Key, "session key mismatch")
	assert.Equal(t, resp.ExpiresAt, session.ExpiresAt.Unix(), "session expiry mismatch")
	assert.Equal(t, resp.ExpiresAt > time.Now().Unix(), true, "session should not be expired")
}

func TestSignin_wrongPassword(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	testutils.SetupUserData(db, "alice@example.com", "pass1234")

	testCases := []struct {
		body string
	}{
		{body: `{"email": "alice@example.com", "password": "wrongpass"}`},
		{body: `{"email": "nobody@example.com", "password": "pass1234"}`},
		{body: `{"email": "alice@example.com", "password": ""}`},
	}

	for idx, tc := range testCases {
		req := testutils.MakeReq(server.URL, "POST", "/api/v1/signin", tc.body)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, fmt.Sprintf("status code mismatch for case %d", idx))
	}

	var count int64
	testutils.MustExec(t, db.Model(&database.Session{}).Count(&count), "counting sessions")
	assert.Equal(t, count, int64(0), "session count mismatch")
}

func TestSignout(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	session := testutils.SetupSession(db, user)

	req := testutils.MakeReq(server.URL, "POST", "/api/v1/signout", "")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", session.Key))
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusNoContent, "status code mismatch")

	var count int64
	testutils.MustExec(t, db.Model(&database.Session{}).Count(&count), "counting sessions")
	assert.Equal(t, count, int64(0), "session count mismatch")
}

func TestTokenRefresh(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	session := testutils.SetupSession(db, user)

	req := testutils.MakeReq(server.URL, "POST", "/api/v1/token/refresh", "")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", session.Key))
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

	var resp SessionResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatal(errors.Wrap(err, "decoding response"))
	}

	assert.NotEqual(t, resp.Key, session.Key, "key should have rotated")

	// The old key must stop working
	var count int64
	testutils.MustExec(t, db.Model(&database.Session{}).Where("key = ?", session.Key).Count(&count), "counting old sessions")
	assert.Equal(t, count, int64(0), "old session key should be gone")

	testutils.MustExec(t, db.Model(&database.Session{}).Where("key = ?", resp.Key).Count(&count), "counting new sessions")
	assert.Equal(t, count, int64(1), "new session key should exist")
}

func TestTokenRefresh_expiredWithinGrace(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	session := database.Session{
		UserID:    user.ID,
		Key:       "expired-but-refreshable",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	testutils.MustExec(t, db.Save(&session), "preparing session")

	req := testutils.MakeReq(server.URL, "POST", "/api/v1/token/refresh", "")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", session.Key))
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")
}

func TestTokenRefresh_invalidKey(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	req := testutils.MakeReq(server.URL, "POST", "/api/v1/token/refresh", "")
	req.Header.Set("Authorization", "Bearer no-such-key")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
}

func TestRegister(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	body := `{"email": "alice@example.com", "password": "pass1234", "password_confirmation": "pass1234"}`
	req := testutils.MakeReq(server.URL, "POST", "/api/v1/register", body)
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

	var count int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(1), "user count mismatch")
}

func TestRegister_disabled(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	a.DisableRegistration = true
	server := MustNewServer(t, &a)
	defer server.Close()

	body := `{"email": "alice@example.com", "password": "pass1234", "password_confirmation": "pass1234"}`
	req := testutils.MakeReq(server.URL, "POST", "/api/v1/register", body)
	res := testutils.HTTPDo(t, req)

	// The route is not even registered
	assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")

	var count int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(0), "user count mismatch")
}
