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

// Package syncer schedules flushes of the local operation queue. Flushes run
// only on explicit triggers: regaining connectivity, starting up with queued
// operations, a successful server response, or finishing a flush that made
// progress while operations remain. There is no timer.
package syncer

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/replog/replog/pkg/cli/client"
	"github.com/replog/replog/pkg/cli/consts"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/database"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/replog/replog/pkg/cli/queue"
	"github.com/pkg/errors"
)

// Syncer drives the delivery of queued operations to the server. At most one
// flush runs at a time; triggers that arrive while a flush is running are
// dropped because the running flush will observe their operations anyway.
type Syncer struct {
	ctx   context.ReplogCtx
	queue *queue.Queue

	mu       sync.Mutex
	online   bool
	flushing bool
}

// FlushResult summarizes the outcome of a flush
type FlushResult struct {
	// Flushed is false when the flush did not run, because the syncer was
	// offline or another flush was already in flight
	Flushed    bool
	Sent       int
	Applied    int
	Duplicates int
	Rejected   int
	Remaining  int
}

// New creates a syncer. It starts offline until told otherwise.
func New(ctx context.ReplogCtx, q *queue.Queue) *Syncer {
	return &Syncer{
		ctx:   ctx,
		queue: q,
	}
}

// Reset returns the syncer to its initial state
func (s *Syncer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.online = false
	s.flushing = false
}

// SetOnline records the current connectivity. A transition from offline to
// online triggers a flush; staying online does not.
func (s *Syncer) SetOnline(online bool) (FlushResult, error) {
	s.mu.Lock()
	wasOnline := s.online
	s.online = online
	s.mu.Unlock()

	if online && !wasOnline {
		return s.Flush()
	}

	return FlushResult{}, nil
}

// Startup triggers a flush if operations were left queued by a previous run
func (s *Syncer) Startup() (FlushResult, error) {
	return s.flushIfPending()
}

// NotifySuccess triggers a flush after a successful server response outside
// the sync path, so queued operations ride on proven connectivity.
func (s *Syncer) NotifySuccess() (FlushResult, error) {
	return s.flushIfPending()
}

func (s *Syncer) flushIfPending() (FlushResult, error) {
	count, err := s.queue.Count()
	if err != nil {
		return FlushResult{}, errors.Wrap(err, "counting the queue")
	}
	if count == 0 {
		return FlushResult{}, nil
	}

	return s.Flush()
}

// Flush sends queued operations in batches until the queue drains or stops
// making progress. Operations the server applied or recognized as duplicates
// are removed from the queue; rejected operations stay queued with their
// error recorded. A transport failure leaves the in-flight batch queued
// untouched.
func (s *Syncer) Flush() (FlushResult, error) {
	s.mu.Lock()
	if !s.online || s.flushing {
		s.mu.Unlock()
		return FlushResult{}, nil
	}
	s.flushing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.flushing = false
		s.mu.Unlock()
	}()

	ret := FlushResult{Flushed: true}

	for {
		batch, err := s.queue.ListQueued(client.MaxBatchSize)
		if err != nil {
			return ret, errors.Wrap(err, "listing queued operations")
		}
		if len(batch) == 0 {
			break
		}

		resp, err := s.deliver(batch)
		if err != nil {
			// The batch stays queued for a later trigger
			s.recordFailure(err)
			if remaining, cerr := s.queue.Count(); cerr == nil {
				ret.Remaining = remaining
			}
			return ret, errors.Wrap(err, "delivering a batch")
		}

		var acked []string
		for _, result := range resp.Results {
			switch result.Status {
			case client.StatusApplied, client.StatusDuplicate:
				acked = append(acked, result.OperationID)
			case client.StatusRejected:
				if err := s.queue.SetLastError(result.OperationID, result.Error); err != nil {
					return ret, errors.Wrap(err, "recording a rejection")
				}
			}
		}

		if err := s.queue.RemoveAcknowledged(acked); err != nil {
			return ret, errors.Wrap(err, "removing acknowledged operations")
		}

		ret.Sent += len(batch)
		ret.Applied += resp.Summary.Applied
		ret.Duplicates += resp.Summary.Duplicates
		ret.Rejected += resp.Summary.Rejected

		s.recordSuccess()

		// Without progress there is no point resending: the remaining
		// operations were all just rejected and would be rejected again.
		if len(acked) == 0 {
			break
		}
	}

	remaining, err := s.queue.Count()
	if err != nil {
		return ret, errors.Wrap(err, "counting the queue")
	}
	ret.Remaining = remaining

	return ret, nil
}

// deliver sends one batch. If the server rejects the session key, it refreshes
// the key once and retries the same batch once.
func (s *Syncer) deliver(batch []database.Operation) (client.SyncOperationsResp, error) {
	operations := make([]client.SyncOperation, 0, len(batch))
	for _, op := range batch {
		operations = append(operations, client.SyncOperation{
			OperationID:   op.UUID,
			OperationType: op.Type,
			Payload:       json.RawMessage(op.Data),
		})
	}

	resp, err := client.SendOperations(s.ctx, operations)
	if err == nil {
		return resp, nil
	}

	var httpErr *client.HTTPError
	if !errors.As(err, &httpErr) || !httpErr.IsUnauthorized() {
		return resp, err
	}

	session, refreshErr := client.RefreshSession(s.ctx)
	if refreshErr != nil {
		// Surface the original rejection; the refresh failing means the
		// session is truly gone and the user has to log in again.
		return resp, err
	}

	if err := s.saveSession(session); err != nil {
		return resp, errors.Wrap(err, "saving the refreshed session")
	}

	return client.SendOperations(s.ctx, operations)
}

// saveSession persists a refreshed session key. The old key is already
// invalid on the server, so this must happen before the retry.
func (s *Syncer) saveSession(session client.SigninResponse) error {
	s.ctx.SessionKey = session.Key
	s.ctx.SessionKeyExpiry = session.ExpiresAt

	if s.ctx.DB == nil {
		return nil
	}

	if err := database.UpsertSystem(s.ctx.DB, consts.SystemSessionKey, session.Key); err != nil {
		return errors.Wrap(err, "saving session key")
	}
	if err := database.UpsertSystem(s.ctx.DB, consts.SystemSessionKeyExpiry, strconv.FormatInt(session.ExpiresAt, 10)); err != nil {
		return errors.Wrap(err, "saving session key expiry")
	}

	return nil
}

func (s *Syncer) recordSuccess() {
	if s.ctx.DB == nil {
		return
	}

	if err := database.UpsertSystem(s.ctx.DB, consts.SystemLastSyncAt, strconv.FormatInt(s.ctx.Clock.Now().Unix(), 10)); err != nil {
		log.Error(errors.Wrap(err, "saving last sync time").Error())
	}
	if err := database.DeleteSystem(s.ctx.DB, consts.SystemLastSyncError); err != nil {
		log.Error(errors.Wrap(err, "clearing last sync error").Error())
	}
}

func (s *Syncer) recordFailure(flushErr error) {
	if s.ctx.DB == nil {
		return
	}

	if err := database.UpsertSystem(s.ctx.DB, consts.SystemLastSyncError, flushErr.Error()); err != nil {
		log.Error(errors.Wrap(err, "saving last sync error").Error())
	}
}

// Piggyback rides a freshly queued mutation: if the server is reachable, the
// queue is flushed right away. The mutation is already durably queued, so
// delivery problems are reported rather than returned.
func Piggyback(ctx context.ReplogCtx, q *queue.Queue) {
	pending, err := q.Count()
	if err != nil {
		log.Error(errors.Wrap(err, "counting the queue").Error())
		return
	}

	if ctx.SessionKey == "" {
		log.Infof("%d pending. Run `replog login` to sync.\n", pending)
		return
	}

	if err := client.Ping(ctx); err != nil {
		log.Debug("ping failed: %v\n", err)
		log.Infof("offline. %d pending.\n", pending)
		return
	}

	res, err := New(ctx, q).SetOnline(true)
	if err != nil {
		log.Error(errors.Wrap(err, "sending queued operations").Error())
		log.Infof("%d pending. They will be retried on the next sync.\n", res.Remaining)
		return
	}

	if res.Remaining > 0 {
		log.Warnf("the server rejected %d operation(s). Run `replog sync --status` for details.\n", res.Remaining)
	}
}

// NotifyReachable flushes pending operations after a command received a
// successful response from the server outside the sync path. Connectivity is
// already proven, so there is no ping.
func NotifyReachable(ctx context.ReplogCtx, q *queue.Queue) {
	s := New(ctx, q)
	s.mu.Lock()
	s.online = true
	s.mu.Unlock()

	res, err := s.NotifySuccess()
	if err != nil {
		log.Error(errors.Wrap(err, "sending queued operations").Error())
		return
	}

	if res.Flushed && res.Remaining > 0 {
		log.Warnf("the server rejected %d operation(s). Run `replog sync --status` for details.\n", res.Remaining)
	}
}
