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

// getRoutineSlot looks up the routine exercise slot for the given
// exercise. The second return value is false for ad-hoc sessions and for
// exercises that are not part of the routine.
func getRoutineSlot(tx *gorm.DB, routineID, exerciseID int) (database.RoutineExercise, bool, error) {
	if routineID == 0 {
		return database.RoutineExercise{}, false, nil
	}

	var slot database.RoutineExercise
	err := tx.Where("routine_id = ? AND exercise_id = ?", routineID, exerciseID).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.RoutineExercise{}, false, nil
	} else if err != nil {
		return database.RoutineExercise{}, false, errors.Wrap(err, "finding routine exercise")
	}

	return slot, true, nil
}

// slotPosition resolves the position for a progress slot. Routine-defined
// exercises use the routine's position; ad-hoc exercises get the next
// synthetic position past the routine's last slot.
func slotPosition(tx *gorm.DB, session database.WorkoutSession, exerciseID int) (int, error) {
	slot, ok, err := getRoutineSlot(tx, session.RoutineID, exerciseID)
	if err != nil {
		return 0, err
	}
	if ok {
		return slot.Position, nil
	}

	var routineLen int64
	if session.RoutineID != 0 {
		if err := tx.Model(&database.RoutineExercise{}).Where("routine_id = ?", session.RoutineID).Count(&routineLen).Error; err != nil {
			return 0, errors.Wrap(err, "counting routine exercises")
		}
	}

	var adhocCount int64
	if err := tx.Model(&database.SessionExerciseProgress{}).Where("session_id = ? AND position > ?", session.ID, routineLen).Count(&adhocCount).Error; err != nil {
		return 0, errors.Wrap(err, "counting ad-hoc slots")
	}

	return int(routineLen) + int(adhocCount) + 1, nil
}

// getProgressRow loads the progress row for the (session, exercise)
// slot, lazily creating it in pending status on first touch. The unique
// index on (session_id, exercise_id) keeps the row singular.
func getProgressRow(tx *gorm.DB, session database.WorkoutSession, exerciseID int) (database.SessionExerciseProgress, error) {
	var progress database.SessionExerciseProgress
	err := tx.Where("session_id = ? AND exercise_id = ?", session.ID, exerciseID).First(&progress).Error
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return database.SessionExerciseProgress{}, errors.Wrap(err, "finding progress")
	}

	position, err := slotPosition(tx, session, exerciseID)
	if err != nil {
		return database.SessionExerciseProgress{}, err
	}

	progress = database.SessionExerciseProgress{
		SessionID:  session.ID,
		ExerciseID: exerciseID,
		Position:   position,
		Status:     database.ProgressStatusPending,
	}
	if err := tx.Create(&progress).Error; err != nil {
		return database.SessionExerciseProgress{}, errors.Wrap(err, "creating progress")
	}

	return progress, nil
}

// applySetProgress advances a progress slot after a set is logged. Any
// set moves the slot to in_progress; when the routine defines a target
// set count and the logged sets reach it, the slot completes with the
// set's timestamp.
func applySetProgress(tx *gorm.DB, session database.WorkoutSession, set database.SessionSet, slot database.RoutineExercise, hasSlot bool) error {
	progress, err := getProgressRow(tx, session, set.ExerciseID)
	if err != nil {
		return err
	}

	if progress.StartedAt == nil {
		startedAt := set.CompletedAt
		progress.StartedAt = &startedAt
	}

	var count int64
	if err := tx.Model(&database.SessionSet{}).Where("session_id = ? AND exercise_id = ?", session.ID, set.ExerciseID).Count(&count).Error; err != nil {
		return errors.Wrap(err, "counting sets")
	}

	if hasSlot && slot.TargetSets > 0 && count >= int64(slot.TargetSets) {
		progress.Status = database.ProgressStatusCompleted
		completedAt := set.CompletedAt
		progress.CompletedAt = &completedAt
	} else {
		progress.Status = database.ProgressStatusInProgress
		progress.CompletedAt = nil
	}

	if err := tx.Save(&progress).Error; err != nil {
		return errors.Wrap(err, "saving progress")
	}

	return nil
}

// StartSessionExercise explicitly moves an exercise slot to in_progress.
// Starting a completed slot reopens it and clears the completion
// timestamp. StartedAt is set only on the first start.
func StartSessionExercise(tx *gorm.DB, c clock.Clock, user database.User, sessionID, exerciseID int) (database.SessionExerciseProgress, error) {
	zeroProgress := database.SessionExerciseProgress{}

	session, err := GetWorkoutSession(tx, user, sessionID)
	if err != nil {
		return zeroProgress, err
	}
	if _, err := GetUserExercise(tx, user, exerciseID); err != nil {
		return zeroProgress, err
	}

	progress, err := getProgressRow(tx, session, exerciseID)
	if err != nil {
		return zeroProgress, err
	}

	progress.Status = database.ProgressStatusInProgress
	if progress.StartedAt == nil {
		now := c.Now()
		progress.StartedAt = &now
	}
	progress.CompletedAt = nil

	if err := tx.Save(&progress).Error; err != nil {
		return zeroProgress, errors.Wrap(err, "saving progress")
	}

	return progress, nil
}

// CompleteSessionExercise explicitly completes an exercise slot
// regardless of how many sets were logged, so slots with no countable
// sets can still finish. A slot that is already completed keeps its
// original completion timestamp.
func CompleteSessionExercise(tx *gorm.DB, c clock.Clock, user database.User, sessionID, exerciseID int) (database.SessionExerciseProgress, error) {
	zeroProgress := database.SessionExerciseProgress{}

	session, err := GetWorkoutSession(tx, user, sessionID)
	if err != nil {
		return zeroProgress, err
	}
	if _, err := GetUserExercise(tx, user, exerciseID); err != nil {
		return zeroProgress, err
	}

	progress, err := getProgressRow(tx, session, exerciseID)
	if err != nil {
		return zeroProgress, err
	}

	progress.Status = database.ProgressStatusCompleted
	if progress.CompletedAt == nil {
		now := c.Now()
		progress.CompletedAt = &now
	}

	if err := tx.Save(&progress).Error; err != nil {
		return zeroProgress, errors.Wrap(err, "saving progress")
	}

	return progress, nil
}

// ListSessionProgress returns the progress rows for a session ordered by
// slot position
func ListSessionProgress(db *gorm.DB, user database.User, sessionID int) ([]database.SessionExerciseProgress, error) {
	session, err := GetWorkoutSession(db, user, sessionID)
	if err != nil {
		return nil, err
	}

	var progresses []database.SessionExerciseProgress
	if err := db.Where("session_id = ?", session.ID).Order("position ASC").Find(&progresses).Error; err != nil {
		return nil, errors.Wrap(err, "listing progress")
	}

	return progresses, nil
}
