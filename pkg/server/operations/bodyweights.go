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
	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/clock"
	"github.com/replog/replog/pkg/server/database"
	"gorm.io/gorm"
)

// CreateBodyweightEntry appends a bodyweight measurement. MeasuredAt
// defaults to the current time when the client does not send one.
func CreateBodyweightEntry(tx *gorm.DB, c clock.Clock, user database.User, params BodyweightCreateParams) (database.BodyweightEntry, error) {
	if params.Weight <= 0 {
		return database.BodyweightEntry{}, ErrBodyweightInvalid
	}

	measuredAt := c.Now()
	if params.MeasuredAt != nil {
		measuredAt = *params.MeasuredAt
	}

	entry := database.BodyweightEntry{
		UserID:     user.ID,
		Weight:     params.Weight,
		MeasuredAt: measuredAt,
		Notes:      params.Notes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return database.BodyweightEntry{}, errors.Wrap(err, "saving bodyweight entry")
	}

	return entry, nil
}
