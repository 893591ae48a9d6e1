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

// SessionSet is a result of PresentSessionSet
type SessionSet struct {
	ID          int       `json:"id"`
	SessionID   int       `json:"sessionId"`
	ExerciseID  int       `json:"exerciseId"`
	SetIndex    int       `json:"setIndex"`
	Reps        int       `json:"reps"`
	Weight      float64   `json:"weight"`
	Band        string    `json:"band"`
	CompletedAt time.Time `json:"completedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SessionSetDeleted is the result of deleting a logged set
type SessionSetDeleted struct {
	SetID   int  `json:"setId"`
	Deleted bool `json:"deleted"`
}

// PresentSessionSet presents a logged set
func PresentSessionSet(set database.SessionSet) SessionSet {
	ret := SessionSet{
		ID:          set.ID,
		SessionID:   set.SessionID,
		ExerciseID:  set.ExerciseID,
		SetIndex:    set.SetIndex,
		Reps:        set.Reps,
		Weight:      set.Weight,
		Band:        set.Band,
		CompletedAt: FormatTS(set.CompletedAt),
		CreatedAt:   FormatTS(set.CreatedAt),
		UpdatedAt:   FormatTS(set.UpdatedAt),
	}

	return ret
}

// PresentSessionSets presents logged sets
func PresentSessionSets(sets []database.SessionSet) []SessionSet {
	ret := []SessionSet{}

	for _, set := range sets {
		p := PresentSessionSet(set)
		ret = append(ret, p)
	}

	return ret
}
