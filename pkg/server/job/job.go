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

// Package job runs the server's recurring maintenance tasks
package job

import (
	"time"

	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/database"
	"github.com/replog/replog/pkg/server/log"
	"github.com/robfig/cron"
)

// Scheduler owns the cron instance that drives database maintenance: WAL
// checkpointing, vacuuming, expired-session purging and ledger pruning
type Scheduler struct {
	app             *app.App
	ledgerRetention time.Duration
	cron            *cron.Cron
}

// NewScheduler returns a scheduler for the given app. Ledger entries older
// than ledgerRetention are pruned; entries inside the window are never
// touched, so duplicate detection holds for any retry within it.
func NewScheduler(a *app.App, ledgerRetention time.Duration) *Scheduler {
	return &Scheduler{
		app:             a,
		ledgerRetention: ledgerRetention,
		cron:            cron.New(),
	}
}

// Start registers the maintenance jobs and starts the cron loop in its
// own goroutine
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{"@every 5m", "wal checkpoint", s.checkpointWAL},
		{"@every 24h", "vacuum", s.vacuum},
		{"@every 1h", "purge expired sessions", s.purgeSessions},
		{"@every 24h", "prune ledger", s.pruneLedger},
	}

	for _, j := range jobs {
		if err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return errors.Wrapf(err, "scheduling %s", j.name)
		}
	}

	s.cron.Start()

	return nil
}

// Stop stops the cron loop. Jobs already running are not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) checkpointWAL() {
	if err := database.CheckpointWAL(s.app.DB); err != nil {
		log.ErrorWrap(err, "checkpointing write-ahead log")
	}
}

func (s *Scheduler) vacuum() {
	if err := database.Vacuum(s.app.DB); err != nil {
		log.ErrorWrap(err, "vacuuming database")
	}
}

// purgeSessions deletes auth sessions that are past the refresh grace
// period. Sessions inside the grace period stay so that they can still be
// refreshed.
func (s *Scheduler) purgeSessions() {
	cutoff := s.app.Clock.Now().Add(-app.SessionGracePeriod)

	count, err := database.PurgeExpiredSessions(s.app.DB, cutoff)
	if err != nil {
		log.ErrorWrap(err, "purging expired sessions")
		return
	}

	if count > 0 {
		log.WithFields(log.Fields{
			"count": count,
		}).Info("purged expired sessions")
	}
}

func (s *Scheduler) pruneLedger() {
	cutoff := s.app.Clock.Now().Add(-s.ledgerRetention)

	count, err := database.PruneLedgerEntries(s.app.DB, cutoff)
	if err != nil {
		log.ErrorWrap(err, "pruning ledger")
		return
	}

	if count > 0 {
		log.WithFields(log.Fields{
			"count": count,
		}).Info("pruned ledger entries")
	}
}
