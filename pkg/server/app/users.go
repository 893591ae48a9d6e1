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
	"errors"

	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/helpers"
	"github.com/replog/replog/pkg/server/log"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is an error indicating that the resource was not found
	ErrNotFound = errors.New("not found")
	// ErrLoginInvalid is an error for an invalid login
	ErrLoginInvalid = errors.New("Wrong email and password combination")
	// ErrLoginRequired is an error for an operation that requires a login
	ErrLoginRequired = errors.New("Login required")
	// ErrEmailRequired is an error for missing email
	ErrEmailRequired = errors.New("Email is required")
	// ErrPasswordRequired is an error for missing password
	ErrPasswordRequired = errors.New("Password is required")
	// ErrPasswordTooShort is an error for a password that is too short
	ErrPasswordTooShort = errors.New("Password should be longer than 8 characters")
	// ErrPasswordConfirmationMismatch is an error for mismatched password confirmation
	ErrPasswordConfirmationMismatch = errors.New("Password confirmation mismatches password")
	// ErrDuplicateEmail is an error for a duplicate email
	ErrDuplicateEmail = errors.New("Duplicate email")
	// ErrRegistrationDisabled is an error for registering when registration is disabled
	ErrRegistrationDisabled = errors.New("Registration is disabled")
	// ErrUserHasExistingResources is an error for removing a user that still owns workout data
	ErrUserHasExistingResources = errors.New("user still has workout data")
)

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser creates a user
func (a *App) CreateUser(email, password string, passwordConfirmation string) (database.User, error) {
	if email == "" {
		return database.User{}, ErrEmailRequired
	}

	if len(password) < 8 {
		return database.User{}, ErrPasswordTooShort
	}

	if password != passwordConfirmation {
		return database.User{}, ErrPasswordConfirmationMismatch
	}

	tx := a.DB.Begin()

	var count int64
	if err := tx.Model(database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "counting user")
	}
	if count > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "generating uuid")
	}

	user := database.User{
		UUID:     uuid,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashedPassword)),
	}
	if err = tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	if err := a.TouchLastLoginAt(user, tx); err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "updating last login")
	}

	tx.Commit()

	return user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password))
	if err != nil {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}

// GetUserByEmail returns the user with the given email
func (a *App) GetUserByEmail(email string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user")
	}

	return &user, nil
}

// RemoveUser removes the user with the given email along with their
// sessions, tokens and operation ledger. It refuses to remove a user that
// still owns workout data.
func (a *App) RemoveUser(email string) error {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return err
	}

	ownedModels := []interface{}{
		database.WorkoutSession{},
		database.Routine{},
		database.Exercise{},
		database.BodyweightEntry{},
	}
	for _, model := range ownedModels {
		var count int64
		if err := a.DB.Model(model).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return pkgErrors.Wrap(err, "counting user resources")
		}
		if count > 0 {
			return ErrUserHasExistingResources
		}
	}

	tx := a.DB.Begin()

	if err := a.DeleteUserSessions(tx, user.ID); err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting user sessions")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.Token{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting tokens")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.LedgerEntry{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting ledger entries")
	}
	if err := tx.Delete(user).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting user")
	}

	tx.Commit()

	return nil
}

// UpdateUserPassword hashes the given password and saves it for the user.
// Existing sessions are left intact; callers invalidate them separately.
func UpdateUserPassword(db *gorm.DB, user *database.User, password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkgErrors.Wrap(err, "hashing password")
	}

	if err := db.Model(user).Update("password", database.ToNullString(string(hashedPassword))).Error; err != nil {
		return pkgErrors.Wrap(err, "updating password")
	}

	return nil
}
