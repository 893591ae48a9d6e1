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

// WorkoutSession is a result of PresentWorkoutSession
type WorkoutSession struct {
	ID              int        `json:"id"`
	RoutineID       int        `json:"routineId"`
	Name            string     `json:"name"`
	Notes           string     `json:"notes"`
	WarmupStartedAt *time.Time `json:"warmupStartedAt"`
	StartedAt       *time.Time `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SessionDiscarded is the result of ending a session that has no logged
// sets. The session is deleted rather than closed.
type SessionDiscarded struct {
	SessionID int  `json:"sessionId"`
	Discarded bool `json:"discarded"`
}

// PresentWorkoutSession presents a workout session
func PresentWorkoutSession(session database.WorkoutSession) WorkoutSession {
	ret := WorkoutSession{
		ID:              session.ID,
		RoutineID:       session.RoutineID,
		Name:            session.Name,
		Notes:           session.Notes,
		WarmupStartedAt: formatNullableTS(session.WarmupStartedAt),
		StartedAt:       formatNullableTS(session.StartedAt),
		EndedAt:         formatNullableTS(session.EndedAt),
		CreatedAt:       FormatTS(session.CreatedAt),
		UpdatedAt:       FormatTS(session.UpdatedAt),
	}

	return ret
}
