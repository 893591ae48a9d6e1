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

func TestPresentProgress(t *testing.T) {
	createdAt := time.Date(2025, 1, 15, 10, 30, 45, 123456789, time.UTC)
	updatedAt := time.Date(2025, 1, 15, 10, 42, 30, 987654321, time.UTC)
	startedAt := time.Date(2025, 1, 15, 10, 31, 0, 0, time.UTC)
	completedAt := time.Date(2025, 1, 15, 10, 41, 30, 0, time.UTC)

	input := database.SessionExerciseProgress{
		Model: database.Model{
			ID:        1,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
		SessionID:   5,
		ExerciseID:  9,
		Position:    2,
		Status:      database.ProgressStatusCompleted,
		StartedAt:   &startedAt,
		CompletedAt: &completedAt,
	}

	got := PresentProgress(input)

	assert.Equal(t, got.ExerciseID, 9, "ExerciseID mismatch")
	assert.Equal(t, got.Position, 2, "Position mismatch")
	assert.Equal(t, got.Status, database.ProgressStatusCompleted, "Status mismatch")
	assert.Equal(t, *got.StartedAt, FormatTS(startedAt), "StartedAt mismatch")
	assert.Equal(t, *got.CompletedAt, FormatTS(completedAt), "CompletedAt mismatch")
	assert.Equal(t, got.CreatedAt, FormatTS(createdAt), "CreatedAt mismatch")
	assert.Equal(t, got.UpdatedAt, FormatTS(updatedAt), "UpdatedAt mismatch")

	if got.DurationSeconds == nil {
		t.Fatal("DurationSeconds was nil")
	}
	assert.Equal(t, *got.DurationSeconds, int64(630), "DurationSeconds mismatch")
}

func TestPresentProgress_notStarted(t *testing.T) {
	input := database.SessionExerciseProgress{
		Model: database.Model{
			ID: 1,
		},
		SessionID:  5,
		ExerciseID: 9,
		Position:   1,
		Status:     database.ProgressStatusPending,
	}

	got := PresentProgress(input)

	assert.Equal(t, got.Status, database.ProgressStatusPending, "Status mismatch")
	if got.StartedAt != nil {
		t.Errorf("StartedAt was %v, want nil", got.StartedAt)
	}
	if got.CompletedAt != nil {
		t.Errorf("CompletedAt was %v, want nil", got.CompletedAt)
	}
	if got.DurationSeconds != nil {
		t.Errorf("DurationSeconds was %v, want nil", got.DurationSeconds)
	}
}

func TestPresentProgress_inProgress(t *testing.T) {
	startedAt := time.Date(2025, 1, 15, 10, 31, 0, 0, time.UTC)

	input := database.SessionExerciseProgress{
		Model: database.Model{
			ID: 1,
		},
		SessionID:  5,
		ExerciseID: 9,
		Position:   1,
		Status:     database.ProgressStatusInProgress,
		StartedAt:  &startedAt,
	}

	got := PresentProgress(input)

	assert.Equal(t, got.Status, database.ProgressStatusInProgress, "Status mismatch")
	assert.Equal(t, *got.StartedAt, FormatTS(startedAt), "StartedAt mismatch")
	if got.CompletedAt != nil {
		t.Errorf("CompletedAt was %v, want nil", got.CompletedAt)
	}
	if got.DurationSeconds != nil {
		t.Errorf("DurationSeconds was %v, want nil", got.DurationSeconds)
	}
}

func TestPresentProgresses(t *testing.T) {
	input := []database.SessionExerciseProgress{
		{
			Model:      database.Model{ID: 1},
			SessionID:  5,
			ExerciseID: 9,
			Position:   1,
			Status:     database.ProgressStatusInProgress,
		},
		{
			Model:      database.Model{ID: 2},
			SessionID:  5,
			ExerciseID: 12,
			Position:   2,
			Status:     database.ProgressStatusPending,
		},
	}

	got := PresentProgresses(input)

	assert.Equal(t, len(got), 2, "Length mismatch")
	assert.Equal(t, got[0].ExerciseID, 9, "Progress 0 ExerciseID mismatch")
	assert.Equal(t, got[0].Position, 1, "Progress 0 Position mismatch")
	assert.Equal(t, got[1].ExerciseID, 12, "Progress 1 ExerciseID mismatch")
	assert.Equal(t, got[1].Position, 2, "Progress 1 Position mismatch")
}
