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

package presenters

import (
	"time"

	"github.com/replog/replog/pkg/server/database"
)

// RoutineExercise is a result of PresentRoutineExercise
type RoutineExercise struct {
	RoutineID    int       `json:"routineId"`
	ExerciseID   int       `json:"exerciseId"`
	Position     int       `json:"position"`
	Equipment    string    `json:"equipment"`
	TargetSets   int       `json:"targetSets"`
	TargetReps   int       `json:"targetReps"`
	TargetWeight float64   `json:"targetWeight"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PresentRoutineExercise presents a routine exercise slot
func PresentRoutineExercise(routineExercise database.RoutineExercise) RoutineExercise {
	ret := RoutineExercise{
		RoutineID:    routineExercise.RoutineID,
		ExerciseID:   routineExercise.ExerciseID,
		Position:     routineExercise.Position,
		Equipment:    routineExercise.Equipment,
		TargetSets:   routineExercise.TargetSets,
		TargetReps:   routineExercise.TargetReps,
		TargetWeight: routineExercise.TargetWeight,
		CreatedAt:    FormatTS(routineExercise.CreatedAt),
		UpdatedAt:    FormatTS(routineExercise.UpdatedAt),
	}

	return ret
}
