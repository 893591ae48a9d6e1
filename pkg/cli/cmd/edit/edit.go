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

package edit

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

var repsFlag string
var weightFlag string
var bandFlag string

var example = `
  * Correct the rep count of set 42
  replog edit 42 --reps 10

  * Correct the weight of set 42
  replog edit 42 --weight 82.5

  * Change the band level of set 42
  replog edit 42 --band medium`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new edit command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <set id>",
		Short:   "Edit a logged set",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&repsFlag, "reps", "", "a new rep count for the set")
	f.StringVar(&weightFlag, "weight", "", "a new weight for the set")
	f.StringVar(&bandFlag, "band", "", "a new band level for the set")

	return cmd
}

func newRun(ctx context.ReplogCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		setID, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrapf(err, "parsing set id %s", args[0])
		}
		if err := validate.ID(setID); err != nil {
			return errors.Wrap(err, "invalid set id")
		}

		if repsFlag == "" && weightFlag == "" && bandFlag == "" {
			return errors.New("nothing to update")
		}

		payload := client.SessionSetUpdatePayload{
			SetID: setID,
		}

		if repsFlag != "" {
			reps, err := strconv.Atoi(repsFlag)
			if err != nil {
				return errors.Wrapf(err, "parsing reps %s", repsFlag)
			}
			if err := validate.Reps(reps); err != nil {
				return errors.Wrap(err, "invalid reps")
			}

			payload.Reps = &reps
		}
		if weightFlag != "" {
			weight, err := strconv.ParseFloat(weightFlag, 64)
			if err != nil {
				return errors.Wrapf(err, "parsing weight %s", weightFlag)
			}
			if err := validate.Weight(weight); err != nil {
				return errors.Wrap(err, "invalid weight")
			}

			payload.Weight = &weight
		}
		if bandFlag != "" {
			band := bandFlag
			payload.Band = &band
		}

		q := queue.New(ctx.DB, ctx.Clock)
		if _, _, err := q.Enqueue(client.OpSessionSetUpdate, payload); err != nil {
			return errors.Wrap(err, "queueing the operation")
		}

		log.Successf("edited set %d\n", setID)

		syncer.Piggyback(ctx, q)

		return nil
	}
}
