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

// Progress is a result of PresentProgress
type Progress struct {
	ExerciseID      int        `json:"exerciseId"`
	Position        int        `json:"position"`
	Status          string     `json:"status"`
	StartedAt       *time.Time `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	DurationSeconds *int64     `json:"durationSeconds"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// PresentProgress presents an exercise progress record. DurationSeconds
// is derived from the started and completed timestamps and is null
// unless both are set.
func PresentProgress(progress database.SessionExerciseProgress) Progress {
	ret := Progress{
		ExerciseID:  progress.ExerciseID,
		Position:    progress.Position,
		Status:      progress.Status,
		StartedAt:   formatNullableTS(progress.StartedAt),
		CompletedAt: formatNullableTS(progress.CompletedAt),
		CreatedAt:   FormatTS(progress.CreatedAt),
		UpdatedAt:   FormatTS(progress.UpdatedAt),
	}

	if progress.StartedAt != nil && progress.CompletedAt != nil {
		duration := int64(progress.CompletedAt.Sub(*progress.StartedAt) / time.Second)
		ret.DurationSeconds = &duration
	}

	return ret
}

// PresentProgresses presents exercise progress records
func PresentProgresses(progresses []database.SessionExerciseProgress) []Progress {
	ret := []Progress{}

	for _, progress := range progresses {
		p := PresentProgress(progress)
		ret = append(ret, p)
	}

	return ret
}
