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

package log

import (
	"strconv"

	"github.com/replog/replog/pkg/cli/client"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/infra"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/replog/replog/pkg/cli/queue"
	"github.com/replog/replog/pkg/cli/syncer"
	"github.com/replog/replog/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var bandFlag string

var example = `
  * Log 8 reps at 80 for exercise 3 in session 12
  replog log 12 3 8 80

  * Log 12 reps with a band instead of a weight
  replog log 12 3 12 0 --band heavy`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 4 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new log command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "log <session id> <exercise id> <reps> <weight>",
		Short:   "Log a completed set",
		Aliases: []string{"l"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&bandFlag, "band", "b", "", "the band level for a band exercise")

	return cmd
}

func newRun(ctx context.ReplogCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		sessionID, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrapf(err, "parsing session id %s", args[0])
		}
		exerciseID, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "parsing exercise id %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrapf(err, "parsing reps %s", args[2])
		}
		weight, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return errors.Wrapf(err, "parsing weight %s", args[3])
		}

		if err := validate.ID(sessionID); err != nil {
			return errors.Wrap(err, "invalid session id")
		}
		if err := validate.ID(exerciseID); err != nil {
			return errors.Wrap(err, "invalid exercise id")
		}
		if err := validate.Reps(reps); err != nil {
			return errors.Wrap(err, "invalid reps")
		}
		if err := validate.Weight(weight); err != nil {
			return errors.Wrap(err, "invalid weight")
		}

		completedAt := ctx.Clock.Now()
		payload := client.SessionSetCreatePayload{
			SessionID:   sessionID,
			ExerciseID:  exerciseID,
			Reps:        reps,
			Weight:      weight,
			Band:        bandFlag,
			CompletedAt: &completedAt,
		}

		q := queue.New(ctx.DB, ctx.Clock)
		if _, _, err := q.Enqueue(client.OpSessionSetCreate, payload); err != nil {
			return errors.Wrap(err, "queueing the operation")
		}

		if bandFlag != "" {
			log.Successf("logged %d reps with %s band\n", reps, bandFlag)
		} else {
			log.Successf("logged %d reps at %g\n", reps, weight)
		}

		syncer.Piggyback(ctx, q)

		return nil
	}
}
