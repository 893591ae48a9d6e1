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

// GetRoutine retrieves a routine for the given user. A routine owned by
// another user reads as not found.
func GetRoutine(db *gorm.DB, user database.User, routineID int) (database.Routine, error) {
	var routine database.Routine
	err := db.Where("id = ?", routineID).First(&routine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Routine{}, ErrRoutineNotFound
	} else if err != nil {
		return database.Routine{}, errors.Wrap(err, "finding routine")
	}

	if ok := permissions.ViewRoutine(&user, routine); !ok {
		return database.Routine{}, ErrRoutineNotFound
	}

	return routine, nil
}

// UpdateTargetWeight sets the target weight on a routine exercise slot.
// Only weighted equipment carries a numeric target, and the value must be
// positive.
func UpdateTargetWeight(tx *gorm.DB, user database.User, params TargetWeightUpdateParams) (database.RoutineExercise, error) {
	zeroSlot := database.RoutineExercise{}

	routine, err := GetRoutine(tx, user, params.RoutineID)
	if err != nil {
		return zeroSlot, err
	}

	var slot database.RoutineExercise
	err = tx.Where("routine_id = ? AND exercise_id = ?", routine.ID, params.ExerciseID).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zeroSlot, ErrRoutineExerciseNotFound
	} else if err != nil {
		return zeroSlot, errors.Wrap(err, "finding routine exercise")
	}

	if !database.IsWeightedEquipment(slot.Equipment) {
		return zeroSlot, ErrTargetWeightNotSupported
	}
	if params.TargetWeight <= 0 {
		return zeroSlot, ErrTargetWeightInvalid
	}

	slot.TargetWeight = params.TargetWeight
	if err := tx.Save(&slot).Error; err != nil {
		return zeroSlot, errors.Wrap(err, "saving routine exercise")
	}

	return slot, nil
}
