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

package app

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/operations"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// MaxBatchSize is the largest number of operations accepted in one sync batch
const MaxBatchSize = 100

// Statuses for the outcome of a single operation
const (
	// StatusApplied means the operation ran and its effects were committed
	StatusApplied = "applied"
	// StatusDuplicate means the operation was applied by an earlier delivery
	// and the stored result was returned without running the handler again
	StatusDuplicate = "duplicate"
	// StatusRejected means the operation failed and left no trace. A
	// corrected retry with the same operation id can still succeed.
	StatusRejected = "rejected"
)

var (
	// ErrBatchEmpty is an error for a sync batch with no operations
	ErrBatchEmpty = errors.New("batch is empty")
	// ErrBatchTooLarge is an error for a sync batch over MaxBatchSize operations
	ErrBatchTooLarge = errors.New("batch is too large")
)

// SyncOperation is a single client-generated mutation. OperationID is
// minted by the client when the operation is queued and stays stable
// across redeliveries; it is the idempotency key.
type SyncOperation struct {
	OperationID   string          `json:"operationId"`
	OperationType string          `json:"operationType"`
	Payload       json.RawMessage `json:"payload"`
}

// OperationResult reports the outcome of one operation in a batch
type OperationResult struct {
	OperationID   string          `json:"operationId"`
	OperationType string          `json:"operationType"`
	Status        string          `json:"status"`
	Result        json.RawMessage `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// SyncSummary tallies the outcomes of a sync batch
type SyncSummary struct {
	Received   int `json:"received"`
	Applied    int `json:"applied"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

// SyncResult is the response to a sync batch. Results appear in the same
// order as the operations in the request.
type SyncResult struct {
	Summary SyncSummary       `json:"summary"`
	Results []OperationResult `json:"results"`
}

// ApplyBatch applies the given operations in order and returns one result
// per operation. Each operation commits or rolls back on its own, so a
// rejected operation never blocks the ones after it. Batches outside the
// 1..MaxBatchSize range are refused before any operation runs.
func (a *App) ApplyBatch(user database.User, ops []SyncOperation) (SyncResult, error) {
	if len(ops) == 0 {
		return SyncResult{}, ErrBatchEmpty
	}
	if len(ops) > MaxBatchSize {
		return SyncResult{}, ErrBatchTooLarge
	}

	result := SyncResult{
		Summary: SyncSummary{Received: len(ops)},
		Results: make([]OperationResult, 0, len(ops)),
	}

	for _, op := range ops {
		res := a.applyOperation(user, op)

		switch res.Status {
		case StatusApplied:
			result.Summary.Applied++
		case StatusDuplicate:
			result.Summary.Duplicates++
		case StatusRejected:
			result.Summary.Rejected++
		}

		result.Results = append(result.Results, res)
	}

	return result, nil
}

// applyOperation runs one operation inside its own transaction. The
// ledger lookup, the handler and the ledger write share the transaction,
// so concurrent deliveries of the same operation id serialize at the
// storage layer rather than in application logic.
func (a *App) applyOperation(user database.User, op SyncOperation) OperationResult {
	res := OperationResult{
		OperationID:   op.OperationID,
		OperationType: op.OperationType,
	}

	if op.OperationID == "" {
		return rejected(res, errors.New("missing operation id"))
	}

	params, err := operations.ParseParams(op.OperationType, op.Payload)
	if err != nil {
		return rejected(res, err)
	}

	tx := a.DB.Begin()

	entry, found, err := getLedgerEntry(tx, user.ID, op.OperationID)
	if err != nil {
		tx.Rollback()
		return rejected(res, err)
	}
	if found {
		tx.Rollback()
		return duplicate(res, entry)
	}

	handlerResult, err := operations.Dispatch(tx, a.Clock, user, params)
	if err != nil {
		tx.Rollback()
		return rejected(res, err)
	}

	snapshot, err := json.Marshal(handlerResult)
	if err != nil {
		tx.Rollback()
		return rejected(res, pkgErrors.Wrap(err, "encoding result"))
	}

	entry = database.LedgerEntry{
		UserID:         user.ID,
		OperationID:    op.OperationID,
		OperationType:  op.OperationType,
		AppliedAt:      a.Clock.Now(),
		ResultSnapshot: string(snapshot),
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()

		// A concurrent delivery of the same operation can pass the ledger
		// lookup and lose the race to insert. The unique index turns that
		// race into a duplicate, never a double apply.
		if isUniqueViolation(err) {
			return a.resolveRacedDuplicate(res, user.ID, op.OperationID)
		}

		return rejected(res, pkgErrors.Wrap(err, "recording operation"))
	}

	if err := tx.Commit().Error; err != nil {
		return rejected(res, pkgErrors.Wrap(err, "committing transaction"))
	}

	res.Status = StatusApplied
	res.Result = json.RawMessage(snapshot)
	return res
}

func rejected(res OperationResult, err error) OperationResult {
	res.Status = StatusRejected
	res.Error = err.Error()
	return res
}

func duplicate(res OperationResult, entry database.LedgerEntry) OperationResult {
	res.Status = StatusDuplicate
	res.Result = json.RawMessage(entry.ResultSnapshot)
	return res
}

// resolveRacedDuplicate re-reads the ledger row written by whichever
// delivery won the insert race
func (a *App) resolveRacedDuplicate(res OperationResult, userID int, operationID string) OperationResult {
	entry, found, err := getLedgerEntry(a.DB, userID, operationID)
	if err != nil {
		return rejected(res, err)
	}
	if !found {
		return rejected(res, errors.New("operation raced a concurrent delivery"))
	}

	return duplicate(res, entry)
}

func getLedgerEntry(tx *gorm.DB, userID int, operationID string) (database.LedgerEntry, bool, error) {
	var entry database.LedgerEntry
	err := tx.Where("user_id = ? AND operation_id = ?", userID, operationID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.LedgerEntry{}, false, nil
	} else if err != nil {
		return database.LedgerEntry{}, false, pkgErrors.Wrap(err, "finding ledger entry")
	}

	return entry, true, nil
}

// isUniqueViolation reports whether the error came from a violated unique
// constraint. go-sqlite3 exposes the constraint only through the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
