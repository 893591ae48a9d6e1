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

package permissions

import (
	"github.com/replog/replog/pkg/server/database"
)

// ViewWorkoutSession checks if the given user can view the given workout session
func ViewWorkoutSession(user *database.User, session database.WorkoutSession) bool {
	if user == nil {
		return false
	}
	if session.UserID == 0 {
		return false
	}

	return session.UserID == user.ID
}

// ViewRoutine checks if the given user can view the given routine
func ViewRoutine(user *database.User, routine database.Routine) bool {
	if user == nil {
		return false
	}
	if routine.UserID == 0 {
		return false
	}

	return routine.UserID == user.ID
}
