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
	"github.com/replog/replog/pkg/clock"
	"github.com/replog/replog/pkg/server/database"
	"gorm.io/gorm"
)

// CreateSessionSet logs a set against a workout session. The session and
// exercise must belong to the acting user. When the session's routine
// defines a target set count for the exercise, logging past it is
// rejected. The new set takes the next set_index for the (session,
// exercise) pair and advances the exercise progress.
func CreateSessionSet(tx *gorm.DB, c clock.Clock, user database.User, params SessionSetCreateParams) (database.SessionSet, error) {
	zeroSet := database.SessionSet{}

	session, err := GetWorkoutSession(tx, user, params.SessionID)
	if err != nil {
		return zeroSet, err
	}

	exercise, err := GetUserExercise(tx, user, params.ExerciseID)
	if err != nil {
		return zeroSet, err
	}

	slot, hasSlot, err := getRoutineSlot(tx, session.RoutineID, exercise.ID)
	if err != nil {
		return zeroSet, err
	}

	var count int64
	if err := tx.Model(&database.SessionSet{}).Where("session_id = ? AND exercise_id = ?", session.ID, exercise.ID).Count(&count).Error; err != nil {
		return zeroSet, errors.Wrap(err, "counting sets")
	}
	if hasSlot && slot.TargetSets > 0 && count >= int64(slot.TargetSets) {
		return zeroSet, ErrTargetSetsReached
	}

	setIndex, err := nextSetIndex(tx, session.ID, exercise.ID)
	if err != nil {
		return zeroSet, err
	}

	completedAt := c.Now()
	if params.CompletedAt != nil {
		completedAt = *params.CompletedAt
	}

	set := database.SessionSet{
		UserID:      user.ID,
		SessionID:   session.ID,
		ExerciseID:  exercise.ID,
		SetIndex:    setIndex,
		Reps:        params.Reps,
		Weight:      params.Weight,
		Band:        params.Band,
		CompletedAt: completedAt,
	}
	if err := tx.Create(&set).Error; err != nil {
		return zeroSet, errors.Wrap(err, "saving set")
	}

	if err := applySetProgress(tx, session, set, slot, hasSlot); err != nil {
		return zeroSet, err
	}

	return set, nil
}

// nextSetIndex returns the next set_index for the (session, exercise)
// pair. Indexes follow the highest existing one rather than the row
// count so that deleting a set never reissues an index.
func nextSetIndex(tx *gorm.DB, sessionID, exerciseID int) (int, error) {
	var lastSet database.SessionSet
	err := tx.Where("session_id = ? AND exercise_id = ?", sessionID, exerciseID).Order("set_index DESC").First(&lastSet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	} else if err != nil {
		return 0, errors.Wrap(err, "finding last set")
	}

	return lastSet.SetIndex + 1, nil
}

// getUserSet retrieves a logged set scoped to the acting user
func getUserSet(tx *gorm.DB, user database.User, setID int) (database.SessionSet, error) {
	var set database.SessionSet
	err := tx.Where("id = ? AND user_id = ?", setID, user.ID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.SessionSet{}, ErrSetNotFound
	} else if err != nil {
		return database.SessionSet{}, errors.Wrap(err, "finding set")
	}

	return set, nil
}

// UpdateSessionSet applies a partial update to a logged set. Nil params
// fields are left unchanged.
func UpdateSessionSet(tx *gorm.DB, user database.User, params SessionSetUpdateParams) (database.SessionSet, error) {
	set, err := getUserSet(tx, user, params.SetID)
	if err != nil {
		return database.SessionSet{}, err
	}

	if params.Reps != nil {
		set.Reps = *params.Reps
	}
	if params.Weight != nil {
		set.Weight = *params.Weight
	}
	if params.Band != nil {
		set.Band = *params.Band
	}

	if err := tx.Save(&set).Error; err != nil {
		return database.SessionSet{}, errors.Wrap(err, "saving set")
	}

	return set, nil
}

// DeleteSessionSet deletes a logged set and returns the deleted row
func DeleteSessionSet(tx *gorm.DB, user database.User, params SessionSetDeleteParams) (database.SessionSet, error) {
	set, err := getUserSet(tx, user, params.SetID)
	if err != nil {
		return database.SessionSet{}, err
	}

	if err := tx.Where("id = ?", set.ID).Delete(&database.SessionSet{}).Error; err != nil {
		return database.SessionSet{}, errors.Wrap(err, "deleting set")
	}

	return set, nil
}
