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

package sync

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/replog/replog/pkg/cli/consts"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/database"
	"github.com/replog/replog/pkg/cli/infra"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/replog/replog/pkg/cli/queue"
	"github.com/replog/replog/pkg/cli/syncer"
	"github.com/replog/replog/pkg/cli/upgrade"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const timeFormat = "2006-01-02 15:04:05"

var example = `
  * Send all queued operations to the server
  replog sync

  * Show queued operations without syncing
  replog sync --status`

var statusFlag bool
var apiEndpointFlag string

// NewCmd returns a new sync command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"s"},
		Short:   "Send queued operations to the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVar(&statusFlag, "status", false, "show the queue without syncing")
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

func getLastSyncAt(db *database.DB) (int64, error) {
	var ret int64

	err := database.GetSystem(db, consts.SystemLastSyncAt, &ret)
	if errors.Cause(err) == sql.ErrNoRows {
		return 0, nil
	} else if err != nil {
		return 0, errors.Wrap(err, "querying last sync time")
	}

	return ret, nil
}

func getLastSyncError(db *database.DB) (string, error) {
	var ret string

	err := database.GetSystem(db, consts.SystemLastSyncError, &ret)
	if errors.Cause(err) == sql.ErrNoRows {
		return "", nil
	} else if err != nil {
		return "", errors.Wrap(err, "querying last sync error")
	}

	return ret, nil
}

func printStatus(ctx context.ReplogCtx) error {
	q := queue.New(ctx.DB, ctx.Clock)

	count, err := q.Count()
	if err != nil {
		return errors.Wrap(err, "counting the queue")
	}
	lastSyncAt, err := getLastSyncAt(ctx.DB)
	if err != nil {
		return errors.Wrap(err, "getting the last sync time")
	}
	lastSyncErr, err := getLastSyncError(ctx.DB)
	if err != nil {
		return errors.Wrap(err, "getting the last sync error")
	}

	if lastSyncAt == 0 {
		log.Info("never synced\n")
	} else {
		log.Infof("last synced %s\n", time.Unix(lastSyncAt, 0).Format(timeFormat))
	}
	if lastSyncErr != "" {
		log.Warnf("last sync failed: %s\n", lastSyncErr)
	}

	if count == 0 {
		log.Info("queue is empty\n")
		return nil
	}

	log.Infof("%d operation(s) queued\n", count)

	ops, err := q.ListQueued(count)
	if err != nil {
		return errors.Wrap(err, "listing queued operations")
	}
	for _, op := range ops {
		log.Plainf("  %s  %s  queued %s\n", op.UUID[:8], op.Type, time.Unix(0, op.QueuedAt).Format(timeFormat))
		if op.LastError != "" {
			log.Plainf("            last error: %s\n", op.LastError)
		}
	}

	return nil
}

func newRun(ctx context.ReplogCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		// Override APIEndpoint if flag was provided
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		if statusFlag {
			return printStatus(ctx)
		}

		if ctx.SessionKey == "" {
			return errors.New("not logged in")
		}

		q := queue.New(ctx.DB, ctx.Clock)
		count, err := q.Count()
		if err != nil {
			return errors.Wrap(err, "counting the queue")
		}
		if count == 0 {
			log.Info("queue is empty\n")
			return nil
		}

		log.Info("sending queued operations.")
		fmt.Printf(" (total %d).", count)

		res, err := syncer.New(ctx, q).SetOnline(true)
		if err != nil {
			fmt.Println()
			return errors.Wrap(err, "flushing the queue")
		}

		fmt.Println(" done.")

		log.Debug("flush result: %+v\n", res)
		log.Success("success\n")

		if res.Remaining > 0 {
			log.Warnf("the server rejected %d operation(s):\n", res.Remaining)

			ops, err := q.ListQueued(res.Remaining)
			if err != nil {
				return errors.Wrap(err, "listing rejected operations")
			}
			for _, op := range ops {
				log.Plainf("  %s  %s: %s\n", op.UUID[:8], op.Type, op.LastError)
			}
		}

		if err := upgrade.Check(ctx); err != nil {
			log.Error(errors.Wrap(err, "automatically checking updates").Error())
		}

		return nil
	}
}
