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

// Package operations provides the business mutation handlers invoked by
// the sync dispatcher, plus the reads that controllers use to serve
// domain rows.
package operations

import (
	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/clock"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/presenters"
	"gorm.io/gorm"
)

var (
	// ErrSessionNotFound is an error for a session that does not exist or
	// does not belong to the acting user
	ErrSessionNotFound = errors.New("session not found")
	// ErrExerciseNotFound is an error for an exercise that does not exist or
	// does not belong to the acting user
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrSetNotFound is an error for a logged set that does not exist or
	// does not belong to the acting user
	ErrSetNotFound = errors.New("set not found")
	// ErrRoutineNotFound is an error for a routine that does not exist or
	// does not belong to the acting user
	ErrRoutineNotFound = errors.New("routine not found")
	// ErrRoutineExerciseNotFound is an error for an exercise that is not
	// part of the given routine
	ErrRoutineExerciseNotFound = errors.New("exercise is not part of the routine")
	// ErrTargetSetsReached is an error for logging a set past the
	// routine's target set count
	ErrTargetSetsReached = errors.New("target sets already reached")
	// ErrTargetWeightNotSupported is an error for setting a target weight
	// on equipment that does not carry one
	ErrTargetWeightNotSupported = errors.New("equipment does not support a target weight")
	// ErrTargetWeightInvalid is an error for a non-positive target weight
	ErrTargetWeightInvalid = errors.New("target weight must be positive")
	// ErrBodyweightInvalid is an error for a non-positive bodyweight
	ErrBodyweightInvalid = errors.New("bodyweight must be positive")
)

// Dispatch routes parsed operation params to the matching mutation
// handler and returns the result payload to be stored in the ledger. It
// runs inside the per-operation transaction owned by the caller;
// handlers mutate rows but never commit or roll back.
func Dispatch(tx *gorm.DB, c clock.Clock, user database.User, params Params) (interface{}, error) {
	switch p := params.(type) {
	case SessionSetCreateParams:
		set, err := CreateSessionSet(tx, c, user, p)
		if err != nil {
			return nil, err
		}
		return presenters.PresentSessionSet(set), nil
	case SessionSetUpdateParams:
		set, err := UpdateSessionSet(tx, user, p)
		if err != nil {
			return nil, err
		}
		return presenters.PresentSessionSet(set), nil
	case SessionSetDeleteParams:
		set, err := DeleteSessionSet(tx, user, p)
		if err != nil {
			return nil, err
		}
		return presenters.SessionSetDeleted{SetID: set.ID, Deleted: true}, nil
	case SessionUpdateParams:
		session, discarded, err := UpdateWorkoutSession(tx, user, p)
		if err != nil {
			return nil, err
		}
		if discarded {
			return presenters.SessionDiscarded{SessionID: p.SessionID, Discarded: true}, nil
		}
		return presenters.PresentWorkoutSession(session), nil
	case BodyweightCreateParams:
		entry, err := CreateBodyweightEntry(tx, c, user, p)
		if err != nil {
			return nil, err
		}
		return presenters.PresentBodyweightEntry(entry), nil
	case ExerciseStartParams:
		progress, err := StartSessionExercise(tx, c, user, p.SessionID, p.ExerciseID)
		if err != nil {
			return nil, err
		}
		return presenters.PresentProgress(progress), nil
	case ExerciseCompleteParams:
		progress, err := CompleteSessionExercise(tx, c, user, p.SessionID, p.ExerciseID)
		if err != nil {
			return nil, err
		}
		return presenters.PresentProgress(progress), nil
	case TargetWeightUpdateParams:
		routineExercise, err := UpdateTargetWeight(tx, user, p)
		if err != nil {
			return nil, err
		}
		return presenters.PresentRoutineExercise(routineExercise), nil
	default:
		return nil, errors.Errorf("unsupported params type %T", params)
	}
}
