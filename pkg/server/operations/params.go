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
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Operation types accepted by ParseParams
const (
	TypeSessionSetCreate   = "session_set.create"
	TypeSessionSetUpdate   = "session_set.update"
	TypeSessionSetDelete   = "session_set.delete"
	TypeSessionUpdate      = "session.update"
	TypeBodyweightCreate   = "bodyweight.create"
	TypeExerciseStart      = "session_exercise.start"
	TypeExerciseComplete   = "session_exercise.complete"
	TypeTargetWeightUpdate = "routine_exercise.target_weight.update"
)

// Params is a parsed operation payload. Exactly one concrete params type
// exists per operation type, and Dispatch switches over them
// exhaustively, so adding an operation type is a compile-time-visible
// change rather than a new string key.
type Params interface {
	operationParams()
}

// SessionSetCreateParams are params for a session_set.create operation
type SessionSetCreateParams struct {
	SessionID   int        `json:"sessionId"`
	ExerciseID  int        `json:"exerciseId"`
	Reps        int        `json:"reps"`
	Weight      float64    `json:"weight"`
	Band        string     `json:"band"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (SessionSetCreateParams) operationParams() {}

// SessionSetUpdateParams are params for a session_set.update operation.
// Nil fields are left unchanged.
type SessionSetUpdateParams struct {
	SetID  int      `json:"setId"`
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
	Band   *string  `json:"band"`
}

func (SessionSetUpdateParams) operationParams() {}

// SessionSetDeleteParams are params for a session_set.delete operation
type SessionSetDeleteParams struct {
	SetID int `json:"setId"`
}

func (SessionSetDeleteParams) operationParams() {}

// SessionUpdateParams are params for a session.update operation. Nil
// fields are left unchanged.
type SessionUpdateParams struct {
	SessionID       int        `json:"sessionId"`
	Name            *string    `json:"name"`
	Notes           *string    `json:"notes"`
	WarmupStartedAt *time.Time `json:"warmupStartedAt"`
	StartedAt       *time.Time `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
}

func (SessionUpdateParams) operationParams() {}

// BodyweightCreateParams are params for a bodyweight.create operation
type BodyweightCreateParams struct {
	Weight     float64    `json:"weight"`
	MeasuredAt *time.Time `json:"measuredAt"`
	Notes      string     `json:"notes"`
}

func (BodyweightCreateParams) operationParams() {}

// ExerciseStartParams are params for a session_exercise.start operation
type ExerciseStartParams struct {
	SessionID  int `json:"sessionId"`
	ExerciseID int `json:"exerciseId"`
}

func (ExerciseStartParams) operationParams() {}

// ExerciseCompleteParams are params for a session_exercise.complete operation
type ExerciseCompleteParams struct {
	SessionID  int `json:"sessionId"`
	ExerciseID int `json:"exerciseId"`
}

func (ExerciseCompleteParams) operationParams() {}

// TargetWeightUpdateParams are params for a routine_exercise.target_weight.update operation
type TargetWeightUpdateParams struct {
	RoutineID    int     `json:"routineId"`
	ExerciseID   int     `json:"exerciseId"`
	TargetWeight float64 `json:"targetWeight"`
}

func (TargetWeightUpdateParams) operationParams() {}

// ParseParams parses a raw operation payload into the params type for
// the given operation type
func ParseParams(operationType string, payload json.RawMessage) (Params, error) {
	switch operationType {
	case TypeSessionSetCreate:
		var params SessionSetCreateParams
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, errors.Wrap(err, "parsing payload")
		}
		return params, nil
	case TypeSessionSetUpdate:
		var params SessionSetUpdateParams
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, errors.Wrap(err, "parsing payload")
		}
		return params, nil
	case TypeSessionSetDelete:
		var params SessionSetDeleteParams
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, errors.Wrap(err, "parsing payload")
		}
		return params, nil
	case TypeSessionUpdate:
		var params SessionUpdateParams
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, errors.Wrap(err, "parsing payload")
		}
		return params, nil
	case TypeBodyweightCreate:
		var params BodyweightCreateParams
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, errors.Wrap(err, "parsing payload")
		}
		return params, nil
	case TypeExerciseStart:
		var params ExerciseStartParams
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, errors.Wrap(err, "parsing payload")
		}
		return params, nil
	case TypeExerciseComplete:
		var params ExerciseCompleteParams
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, errors.Wrap(err, "parsing payload")
		}
		return params, nil
	case TypeTargetWeightUpdate:
		var params TargetWeightUpdateParams
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, errors.Wrap(err, "parsing payload")
		}
		return params, nil
	default:
		return nil, errors.Errorf("unsupported operation type '%s'", operationType)
	}
}
