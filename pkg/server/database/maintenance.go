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

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CheckpointWAL transfers the write-ahead log into the database file and
// truncates the log
func CheckpointWAL(db *gorm.DB) error {
	if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return errors.Wrap(err, "checkpointing write-ahead log")
	}

	return nil
}

// Vacuum rebuilds the database file, reclaiming unused space
func Vacuum(db *gorm.DB) error {
	if err := db.Exec("VACUUM").Error; err != nil {
		return errors.Wrap(err, "vacuuming database")
	}

	return nil
}

// PurgeExpiredSessions deletes auth sessions whose expiry is before the
// given cutoff. The cutoff should account for the refresh grace period so
// that a recently expired session can still be refreshed.
func PurgeExpiredSessions(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("expires_at < ?", cutoff).Delete(&Session{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deleting expired sessions")
	}

	return res.RowsAffected, nil
}

// PruneLedgerEntries deletes ledger entries applied before the given
// cutoff. Entries newer than the cutoff are never touched, so duplicate
// detection holds for any retry inside the retention window.
func PruneLedgerEntries(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("applied_at < ?", cutoff).Delete(&LedgerEntry{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deleting ledger entries")
	}

	return res.RowsAffected, nil
}
