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

package target

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
  * Set the target weight for exercise 3 in routine 2 to 82.5
  replog target 2 3 82.5`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new target command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "target <routine id> <exercise id> <weight>",
		Short:   "Set the target weight for a routine exercise",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.ReplogCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		routineID, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrapf(err, "parsing routine id %s", args[0])
		}
		exerciseID, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "parsing exercise id %s", args[1])
		}
		weight, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return errors.Wrapf(err, "parsing weight %s", args[2])
		}

		if err := validate.ID(routineID); err != nil {
			return errors.Wrap(err, "invalid routine id")
		}
		if err := validate.ID(exerciseID); err != nil {
			return errors.Wrap(err, "invalid exercise id")
		}
		if err := validate.TargetWeight(weight); err != nil {
			return err
		}

		payload := client.TargetWeightUpdatePayload{
			RoutineID:    routineID,
			ExerciseID:   exerciseID,
			TargetWeight: weight,
		}

		q := queue.New(ctx.DB, ctx.Clock)
		if _, _, err := q.Enqueue(client.OpTargetWeightUpdate, payload); err != nil {
			return errors.Wrap(err, "queueing the operation")
		}

		log.Successf("set target weight %g for exercise %d\n", weight, exerciseID)

		syncer.Piggyback(ctx, q)

		return nil
	}
}
