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

package weight

import (
	"strconv"

	"github.com/replog/replog/pkg/cli/client"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/infra"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/replog/replog/pkg/cli/queue"
	"github.com/replog/replog/pkg/cli/syncer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var notesFlag string

var example = `
  * Record a bodyweight measurement
  replog weight 78.4

  * Record a measurement with a note
  replog weight 78.4 --notes "after breakfast"`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new weight command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "weight <value>",
		Short:   "Record a bodyweight measurement",
		Aliases: []string{"w"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&notesFlag, "notes", "", "a note for the measurement")

	return cmd
}

func newRun(ctx context.ReplogCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return errors.Wrapf(err, "parsing weight %s", args[0])
		}
		if weight <= 0 {
			return errors.New("The weight must be a positive number")
		}

		measuredAt := ctx.Clock.Now()
		payload := client.BodyweightCreatePayload{
			Weight:     weight,
			MeasuredAt: &measuredAt,
			Notes:      notesFlag,
		}

		q := queue.New(ctx.DB, ctx.Clock)
		if _, _, err := q.Enqueue(client.OpBodyweightCreate, payload); err != nil {
			return errors.Wrap(err, "queueing the operation")
		}

		log.Successf("recorded %g\n", weight)

		syncer.Piggyback(ctx, q)

		return nil
	}
}
