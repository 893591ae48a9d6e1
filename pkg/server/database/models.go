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

package database

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;index"`
	Email       NullString `gorm:"index"`
	Password    NullString `json:"-"`
	LastLoginAt *time.Time `json:"-"`
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// Token is a model for a token
type Token struct {
	Model
	UserID int    `gorm:"index"`
	Value  string `gorm:"index"`
	Type   string
	UsedAt *time.Time
}

// Exercise is a named movement. Names are unique per user regardless of
// case; the expression index enforcing that lives in the migrations.
type Exercise struct {
	Model
	UserID int    `json:"user_id" gorm:"index:idx_exercises_user_name"`
	Name   string `json:"name" gorm:"index:idx_exercises_user_name"`
}

// Routine is a reusable workout template
type Routine struct {
	Model
	UserID int    `json:"user_id" gorm:"index"`
	Name   string `json:"name"`
	Notes  string `json:"notes"`
}

// RoutineExercise is an ordered exercise slot within a routine
type RoutineExercise struct {
	Model
	RoutineID    int     `json:"routine_id" gorm:"index"`
	ExerciseID   int     `json:"exercise_id" gorm:"index"`
	Position     int     `json:"position"`
	Equipment    string  `json:"equipment"`
	TargetSets   int     `json:"target_sets"`
	TargetReps   int     `json:"target_reps"`
	TargetWeight float64 `json:"target_weight"`
}

// WorkoutSession is a single workout. RoutineID is zero for ad hoc
// sessions that were started without a routine.
type WorkoutSession struct {
	Model
	UserID          int        `json:"user_id" gorm:"index"`
	RoutineID       int        `json:"routine_id" gorm:"index"`
	Name            string     `json:"name"`
	Notes           string     `json:"notes"`
	WarmupStartedAt *time.Time `json:"warmup_started_at"`
	StartedAt       *time.Time `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
}

// SessionSet is a logged set within a workout session. SetIndex is
// strictly increasing per (session, exercise) in the order sets were
// durably applied.
type SessionSet struct {
	Model
	UserID      int       `json:"user_id" gorm:"index"`
	SessionID   int       `json:"session_id" gorm:"index:idx_session_sets_session_exercise"`
	ExerciseID  int       `json:"exercise_id" gorm:"index:idx_session_sets_session_exercise"`
	SetIndex    int       `json:"set_index"`
	Reps        int       `json:"reps"`
	Weight      float64   `json:"weight"`
	Band        string    `json:"band"`
	CompletedAt time.Time `json:"completed_at"`
}

// SessionExerciseProgress tracks the derived status of an exercise slot
// within a workout session. Exactly one row exists per slot after the
// slot is first touched.
type SessionExerciseProgress struct {
	Model
	SessionID   int        `json:"session_id" gorm:"uniqueIndex:idx_progress_session_exercise"`
	ExerciseID  int        `json:"exercise_id" gorm:"uniqueIndex:idx_progress_session_exercise"`
	Position    int        `json:"position"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// BodyweightEntry is a timestamped bodyweight measurement
type BodyweightEntry struct {
	Model
	UserID     int       `json:"user_id" gorm:"index"`
	Weight     float64   `json:"weight"`
	MeasuredAt time.Time `json:"measured_at"`
	Notes      string    `json:"notes"`
}

// LedgerEntry records one applied operation. It is written exactly once,
// on first successful apply, and never updated; duplicate deliveries
// read the stored result instead of re-running the handler.
type LedgerEntry struct {
	Model
	UserID         int    `gorm:"uniqueIndex:idx_ledger_user_operation"`
	OperationID    string `gorm:"uniqueIndex:idx_ledger_user_operation;type:text"`
	OperationType  string
	AppliedAt      time.Time `gorm:"index"`
	ResultSnapshot string    `gorm:"type:text"`
}
