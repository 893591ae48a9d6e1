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

package app

import (
	"testing"

	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/testutils"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db
		user, err := a.CreateUser("alice@example.com", "pass1234", "pass1234")
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		var userCount int64
		var userRecord database.User
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		testutils.MustExec(t, db.First(&userRecord), "finding user")

		assert.Equal(t, userCount, int64(1), "user count mismatch")
		assert.Equal(t, userRecord.Email.String, "alice@example.com", "user email mismatch")
		assert.NotEqual(t, userRecord.UUID, "", "user uuid should have been generated")
		assert.Equal(t, user.ID, userRecord.ID, "returned user id mismatch")
		if userRecord.LastLoginAt == nil {
			t.Error("last login should have been set")
		}

		passwordErr := bcrypt.CompareHashAndPassword([]byte(userRecord.Password.String), []byte("pass1234"))
		assert.Equal(t, passwordErr, nil, "Password mismatch")
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		testutils.SetupUserData(db, "alice@example.com", "somepassword")

		a := NewTest()
		a.DB = db
		_, err := a.CreateUser("alice@example.com", "newpassword", "newpassword")

		assert.Equal(t, err, ErrDuplicateEmail, "error mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})

	t.Run("validation", func(t *testing.T) {
		testCases := []struct {
			email                string
			password             string
			passwordConfirmation string
			err                  error
		}{
			{
				email:                "",
				password:             "pass1234",
				passwordConfirmation: "pass1234",
				err:                  ErrEmailRequired,
			},
			{
				email:                "alice@example.com",
				password:             "short",
				passwordConfirmation: "short",
				err:                  ErrPasswordTooShort,
			},
			{
				email:                "alice@example.com",
				password:             "pass1234",
				passwordConfirmation: "pass12345",
				err:                  ErrPasswordConfirmationMismatch,
			},
		}

		for _, tc := range testCases {
			db := testutils.InitMemoryDB(t)

			a := NewTest()
			a.DB = db
			_, err := a.CreateUser(tc.email, tc.password, tc.passwordConfirmation)

			assert.Equal(t, err, tc.err, "error mismatch")

			var userCount int64
			testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
			assert.Equal(t, userCount, int64(0), "user count mismatch")
		}
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		result, err := a.Authenticate("alice@example.com", "pass1234")
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, result.ID, user.ID, "user id mismatch")
	})

	t.Run("wrong password", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		_, err := a.Authenticate("alice@example.com", "wrongpassword")

		assert.Equal(t, err, ErrLoginInvalid, "error mismatch")
	})

	t.Run("nonexistent email", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db
		_, err := a.Authenticate("bob@example.com", "pass1234")

		assert.Equal(t, err, ErrNotFound, "error mismatch")
	})
}

func TestSignIn(t *testing.T) {
	// Setup
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db

	// Execute
	session, err := a.SignIn(&user)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	// Test
	var sessionCount int64
	testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting session")
	assert.Equal(t, sessionCount, int64(1), "session count mismatch")

	assert.Equal(t, session.UserID, user.ID, "session user id mismatch")
	assert.NotEqual(t, session.Key, "", "session key should have been generated")

	var userRecord database.User
	testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
	if userRecord.LastLoginAt == nil {
		t.Error("last login should have been set")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db

	t.Run("found", func(t *testing.T) {
		result, err := a.GetUserByEmail("alice@example.com")
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, result.ID, user.ID, "user id mismatch")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := a.GetUserByEmail("bob@example.com")

		assert.Equal(t, err, ErrNotFound, "error mismatch")
	})
}

func TestRemoveUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		testutils.SetupSession(db, user)

		a := NewTest()
		a.DB = db
		if err := a.RemoveUser("alice@example.com"); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		var userCount, sessionCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting session")

		assert.Equal(t, userCount, int64(0), "user count mismatch")
		assert.Equal(t, sessionCount, int64(0), "session count mismatch")
	})

	t.Run("user with workout data", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		testutils.SetupSessionData(db, user, 0, "monday workout")

		a := NewTest()
		a.DB = db
		err := a.RemoveUser("alice@example.com")

		assert.Equal(t, err, ErrUserHasExistingResources, "error mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})

	t.Run("nonexistent user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db
		err := a.RemoveUser("bob@example.com")

		assert.Equal(t, err, ErrNotFound, "error mismatch")
	})
}

func TestUpdateUserPassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "oldpassword")

		if err := UpdateUserPassword(db, &user, "newpassword"); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		var userRecord database.User
		testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")

		oldErr := bcrypt.CompareHashAndPassword([]byte(userRecord.Password.String), []byte("oldpassword"))
		assert.NotEqual(t, oldErr, nil, "old password should no longer match")

		newErr := bcrypt.CompareHashAndPassword([]byte(userRecord.Password.String), []byte("newpassword"))
		assert.Equal(t, newErr, nil, "new password mismatch")
	})

	t.Run("too short", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "alice@example.com", "oldpassword")

		err := UpdateUserPassword(db, &user, "short")

		assert.Equal(t, err, ErrPasswordTooShort, "error mismatch")

		var userRecord database.User
		testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")

		oldErr := bcrypt.CompareHashAndPassword([]byte(userRecord.Password.String), []byte("oldpassword"))
		assert.Equal(t, oldErr, nil, "old password should still match")
	})
}
