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

package client

import "time"

// Operation types understood by the server
const (
	OpSessionSetCreate   = "session_set.create"
	OpSessionSetUpdate   = "session_set.update"
	OpSessionSetDelete   = "session_set.delete"
	OpSessionUpdate      = "session.update"
	OpBodyweightCreate   = "bodyweight.create"
	OpExerciseStart      = "session_exercise.start"
	OpExerciseComplete   = "session_exercise.complete"
	OpTargetWeightUpdate = "routine_exercise.target_weight.update"
)

// SessionSetCreatePayload is a payload for a session_set.create operation
type SessionSetCreatePayload struct {
	SessionID   int        `json:"sessionId"`
	ExerciseID  int        `json:"exerciseId"`
	Reps        int        `json:"reps"`
	Weight      float64    `json:"weight"`
	Band        string     `json:"band,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// SessionSetUpdatePayload is a payload for a session_set.update operation.
// Nil fields are left unchanged.
type SessionSetUpdatePayload struct {
	SetID  int      `json:"setId"`
	Reps   *int     `json:"reps,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Band   *string  `json:"band,omitempty"`
}

// SessionSetDeletePayload is a payload for a session_set.delete operation
type SessionSetDeletePayload struct {
	SetID int `json:"setId"`
}

// SessionUpdatePayload is a payload for a session.update operation.
// Nil fields are left unchanged. Setting EndedAt on a session with no
// logged sets discards the session.
type SessionUpdatePayload struct {
	SessionID       int        `json:"sessionId"`
	Name            *string    `json:"name,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	WarmupStartedAt *time.Time `json:"warmupStartedAt,omitempty"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
}

// BodyweightCreatePayload is a payload for a bodyweight.create operation
type BodyweightCreatePayload struct {
	Weight     float64    `json:"weight"`
	MeasuredAt *time.Time `json:"measuredAt,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// SessionExercisePayload is a payload for session_exercise.start and
// session_exercise.complete operations
type SessionExercisePayload struct {
	SessionID  int `json:"sessionId"`
	ExerciseID int `json:"exerciseId"`
}

// TargetWeightUpdatePayload is a payload for a routine_exercise.target_weight.update operation
type TargetWeightUpdatePayload struct {
	RoutineID    int     `json:"routineId"`
	ExerciseID   int     `json:"exerciseId"`
	TargetWeight float64 `json:"targetWeight"`
}
