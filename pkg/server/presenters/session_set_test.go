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
	"testing"
	"time"

	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/server/database"
)

func TestPresentSessionSet(t *testing.T) {
	createdAt := time.Date(2025, 3, 10, 18, 5, 0, 123456789, time.UTC)
	updatedAt := time.Date(2025, 3, 10, 18, 5, 0, 123456789, time.UTC)
	completedAt := time.Date(2025, 3, 10, 18, 4, 58, 0, time.UTC)

	input := database.SessionSet{
		Model: database.Model{
			ID:        31,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
		UserID:      42,
		SessionID:   5,
		ExerciseID:  9,
		SetIndex:    3,
		Reps:        5,
		Weight:      100,
		Band:        "",
		CompletedAt: completedAt,
	}

	got := PresentSessionSet(input)

	assert.Equal(t, got.ID, 31, "ID mismatch")
	assert.Equal(t, got.SessionID, 5, "SessionID mismatch")
	assert.Equal(t, got.ExerciseID, 9, "ExerciseID mismatch")
	assert.Equal(t, got.SetIndex, 3, "SetIndex mismatch")
	assert.Equal(t, got.Reps, 5, "Reps mismatch")
	assert.Equal(t, got.Weight, float64(100), "Weight mismatch")
	assert.Equal(t, got.CompletedAt, FormatTS(completedAt), "CompletedAt mismatch")
	assert.Equal(t, got.CreatedAt, FormatTS(createdAt), "CreatedAt mismatch")
}

func TestPresentWorkoutSession(t *testing.T) {
	createdAt := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	startedAt := time.Date(2025, 3, 10, 18, 1, 0, 0, time.UTC)

	input := database.WorkoutSession{
		Model: database.Model{
			ID:        5,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		UserID:    42,
		RoutineID: 2,
		Name:      "Push day",
		Notes:     "felt strong",
		StartedAt: &startedAt,
	}

	got := PresentWorkoutSession(input)

	assert.Equal(t, got.ID, 5, "ID mismatch")
	assert.Equal(t, got.RoutineID, 2, "RoutineID mismatch")
	assert.Equal(t, got.Name, "Push day", "Name mismatch")
	assert.Equal(t, got.Notes, "felt strong", "Notes mismatch")
	assert.Equal(t, *got.StartedAt, FormatTS(startedAt), "StartedAt mismatch")
	if got.WarmupStartedAt != nil {
		t.Errorf("WarmupStartedAt was %v, want nil", got.WarmupStartedAt)
	}
	if got.EndedAt != nil {
		t.Errorf("EndedAt was %v, want nil", got.EndedAt)
	}
}
