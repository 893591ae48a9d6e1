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

// BodyweightEntry is a result of PresentBodyweightEntry
type BodyweightEntry struct {
	ID         int       `json:"id"`
	Weight     float64   `json:"weight"`
	MeasuredAt time.Time `json:"measuredAt"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PresentBodyweightEntry presents a bodyweight entry
func PresentBodyweightEntry(entry database.BodyweightEntry) BodyweightEntry {
	ret := BodyweightEntry{
		ID:         entry.ID,
		Weight:     entry.Weight,
		MeasuredAt: FormatTS(entry.MeasuredAt),
		Notes:      entry.Notes,
		CreatedAt:  FormatTS(entry.CreatedAt),
		UpdatedAt:  FormatTS(entry.UpdatedAt),
	}

	return ret
}
