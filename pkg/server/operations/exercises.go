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
	"gorm.io/gorm"
)

// GetUserExercise retrieves an exercise scoped to the acting user
func GetUserExercise(tx *gorm.DB, user database.User, exerciseID int) (database.Exercise, error) {
	var exercise database.Exercise
	err := tx.Where("id = ? AND user_id = ?", exerciseID, user.ID).First(&exercise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Exercise{}, ErrExerciseNotFound
	} else if err != nil {
		return database.Exercise{}, errors.Wrap(err, "finding exercise")
	}

	return exercise, nil
}

// GetExerciseByName finds a user's exercise by name, ignoring case
func GetExerciseByName(tx *gorm.DB, user database.User, name string) (database.Exercise, bool, error) {
	var exercise database.Exercise
	err := tx.Where("user_id = ? AND lower(name) = lower(?)", user.ID, name).First(&exercise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Exercise{}, false, nil
	} else if err != nil {
		return database.Exercise{}, false, errors.Wrap(err, "finding exercise")
	}

	return exercise, true, nil
}

// FindOrCreateExercise returns the user's exercise with the given name,
// creating it if missing. Names match case-insensitively, so "Squat" and
// "squat" resolve to the same exercise. The second return value reports
// whether a row was created.
func FindOrCreateExercise(tx *gorm.DB, user database.User, name string) (database.Exercise, bool, error) {
	exercise, ok, err := GetExerciseByName(tx, user, name)
	if err != nil {
		return database.Exercise{}, false, err
	}
	if ok {
		return exercise, false, nil
	}

	exercise = database.Exercise{
		UserID: user.ID,
		Name:   name,
	}
	if err := tx.Create(&exercise).Error; err != nil {
		return database.Exercise{}, false, errors.Wrap(err, "creating exercise")
	}

	return exercise, true, nil
}
