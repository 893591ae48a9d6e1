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

package done

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

var example = `
  * Mark exercise 3 as completed in session 12
  replog done 12 3`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new done command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "done <session id> <exercise id>",
		Short:   "Mark an exercise as completed in a session",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

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

		if err := validate.ID(sessionID); err != nil {
			return errors.Wrap(err, "invalid session id")
		}
		if err := validate.ID(exerciseID); err != nil {
			return errors.Wrap(err, "invalid exercise id")
		}

		payload := client.SessionExercisePayload{
			SessionID:  sessionID,
			ExerciseID: exerciseID,
		}

		q := queue.New(ctx.DB, ctx.Clock)
		if _, _, err := q.Enqueue(client.OpExerciseComplete, payload); err != nil {
			return errors.Wrap(err, "queueing the operation")
		}

		log.Successf("completed exercise %d\n", exerciseID)

		syncer.Piggyback(ctx, q)

		return nil
	}
}
