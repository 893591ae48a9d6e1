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
	"time"

	"github.com/replog/replog/pkg/server/crypt"
	"github.com/replog/replog/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrInvalidSession is an error for a session that does not exist or has
// expired beyond the refresh grace period
var ErrInvalidSession = errors.New("invalid session")

// Sessions stay valid for sessionLifetime from issuance. A session whose
// expiry lapsed less than SessionGracePeriod ago can still be refreshed,
// so that a client coming back from a long offline stretch does not lose
// its queued operations to a forced sign-out.
const (
	sessionLifetime = 24 * 100 * time.Hour
	// SessionGracePeriod is how long past its expiry a session remains refreshable
	SessionGracePeriod = 7 * 24 * time.Hour
)

// CreateSession returns a new session for the user of the given id
func (a *App) CreateSession(userID int) (database.Session, error) {
	key, err := crypt.GetRandomStr(32)
	if err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "generating key")
	}

	session := database.Session{
		UserID:     userID,
		Key:        key,
		LastUsedAt: time.Now(),
		ExpiresAt:  time.Now().Add(sessionLifetime),
	}

	if err := a.DB.Save(&session).Error; err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "saving session")
	}

	return session, nil
}

// RefreshSession rotates the key of the session with the given key and
// extends its expiry. The old key stops working as soon as the refresh
// lands. Sessions past their expiry but within SessionGracePeriod are
// still refreshable; beyond that the session is deleted and the client
// has to sign in again.
func (a *App) RefreshSession(sessionKey string) (database.Session, error) {
	var session database.Session
	err := a.DB.Where("key = ?", sessionKey).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Session{}, ErrInvalidSession
	} else if err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "finding session")
	}

	now := time.Now()
	if now.After(session.ExpiresAt.Add(SessionGracePeriod)) {
		if err := a.DB.Delete(&session).Error; err != nil {
			return database.Session{}, pkgErrors.Wrap(err, "deleting stale session")
		}

		return database.Session{}, ErrInvalidSession
	}

	key, err := crypt.GetRandomStr(32)
	if err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "generating key")
	}

	session.Key = key
	session.LastUsedAt = now
	session.ExpiresAt = now.Add(sessionLifetime)
	if err := a.DB.Save(&session).Error; err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "saving session")
	}

	return session, nil
}

// DeleteUserSessions deletes all existing sessions for the given user. It effectively
// invalidates all existing sessions.
func (a *App) DeleteUserSessions(db *gorm.DB, userID int) error {
	if err := db.Where("user_id = ?", userID).Delete(&database.Session{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting sessions")
	}

	return nil
}

// DeleteSession deletes the session that match the given info
func (a *App) DeleteSession(sessionKey string) error {
	if err := a.DB.Where("key = ?", sessionKey).Delete(&database.Session{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting the session")
	}

	return nil
}
