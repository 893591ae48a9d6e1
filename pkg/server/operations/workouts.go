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

package operations

import (
	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/permissions"
	"gorm.io/gorm"
)

// GetWorkoutSession retrieves a workout session for the given user. A
// session owned by another user reads as not found.
func GetWorkoutSession(db *gorm.DB, user database.User, sessionID int) (database.WorkoutSession, error) {
	var session database.WorkoutSession
	err := db.Where("id = ?", sessionID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.WorkoutSession{}, ErrSessionNotFound
	} else if err != nil {
		return database.WorkoutSession{}, errors.Wrap(err, "finding session")
	}

	if ok := permissions.ViewWorkoutSession(&user, session); !ok {
		return database.WorkoutSession{}, ErrSessionNotFound
	}

	return session, nil
}

// UpdateWorkoutSession applies a partial update to a session. Setting an
// end timestamp on a session with zero logged sets discards the session
// instead of closing it; the second return value reports the discard.
func UpdateWorkoutSession(tx *gorm.DB, user database.User, params SessionUpdateParams) (database.WorkoutSession, bool, error) {
	zeroSession := database.WorkoutSession{}

	session, err := GetWorkoutSession(tx, user, params.SessionID)
	if err != nil {
		return zeroSession, false, err
	}

	if params.EndedAt != nil {
		var count int64
		if err := tx.Model(&database.SessionSet{}).Where("session_id = ?", session.ID).Count(&count).Error; err != nil {
			return zeroSession, false, errors.Wrap(err, "counting sets")
		}

		if count == 0 {
			if err := discardWorkoutSession(tx, session); err != nil {
				return zeroSession, false, err
			}
			return zeroSession, true, nil
		}
	}

	if params.Name != nil {
		session.Name = *params.Name
	}
	if params.Notes != nil {
		session.Notes = *params.Notes
	}
	if params.WarmupStartedAt != nil {
		session.WarmupStartedAt = params.WarmupStartedAt
	}
	if params.StartedAt != nil {
		session.StartedAt = params.StartedAt
	}
	if params.EndedAt != nil {
		session.EndedAt = params.EndedAt
	}

	if err := tx.Save(&session).Error; err != nil {
		return zeroSession, false, errors.Wrap(err, "saving session")
	}

	return session, false, nil
}

// discardWorkoutSession deletes a session along with its progress rows.
// Only sessions with zero logged sets are discarded.
func discardWorkoutSession(tx *gorm.DB, session database.WorkoutSession) error {
	if err := tx.Where("session_id = ?", session.ID).Delete(&database.SessionExerciseProgress{}).Error; err != nil {
		return errors.Wrap(err, "deleting progress")
	}
	if err := tx.Where("id = ?", session.ID).Delete(&database.WorkoutSession{}).Error; err != nil {
		return errors.Wrap(err, "deleting session")
	}

	return nil
}

// HasActiveSession checks if the user has a session that was started and
// has not ended
func HasActiveSession(db *gorm.DB, user database.User) (bool, error) {
	var count int64
	err := db.Model(&database.WorkoutSession{}).
		Where("user_id = ? AND ended_at IS NULL AND (started_at IS NOT NULL OR warmup_started_at IS NOT NULL)", user.ID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "counting active sessions")
	}

	return count > 0, nil
}
