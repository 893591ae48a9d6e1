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

package note

import (
	"os"
	"strconv"

	"github.com/replog/replog/pkg/cli/client"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/infra"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/replog/replog/pkg/cli/queue"
	"github.com/replog/replog/pkg/cli/syncer"
	"github.com/replog/replog/pkg/cli/ui"
	"github.com/replog/replog/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var contentFlag string

var example = `
 * Open an editor to write notes for session 12
 replog note 12

 * Skip the editor by providing notes directly
 replog note 12 -c "felt strong, added a plate on squat"

 * Send stdin content to the session notes
 echo "left knee felt off on lunges" | replog note 12`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new note command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note <session id>",
		Short:   "Write notes for a workout session",
		Aliases: []string{"n"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&contentFlag, "content", "c", "", "the new notes for the session")

	return cmd
}

func getContent(ctx context.ReplogCtx) (string, error) {
	if contentFlag != "" {
		return contentFlag, nil
	}

	// check for piped content
	fInfo, _ := os.Stdin.Stat()
	if fInfo.Mode()&os.ModeCharDevice == 0 {
		c, err := ui.ReadStdInput()
		if err != nil {
			return "", errors.Wrap(err, "Failed to get piped input")
		}
		return c, nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "Failed to get editor input")
	}

	return c, nil
}

func newRun(ctx context.ReplogCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		sessionID, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrapf(err, "parsing session id %s", args[0])
		}
		if err := validate.ID(sessionID); err != nil {
			return errors.Wrap(err, "invalid session id")
		}

		content, err := getContent(ctx)
		if err != nil {
			return errors.Wrap(err, "getting content")
		}
		if content == "" {
			return errors.New("Empty notes")
		}

		payload := client.SessionUpdatePayload{
			SessionID: sessionID,
			Notes:     &content,
		}

		q := queue.New(ctx.DB, ctx.Clock)
		if _, _, err := q.Enqueue(client.OpSessionUpdate, payload); err != nil {
			return errors.Wrap(err, "queueing the operation")
		}

		log.Successf("noted session %d\n", sessionID)

		syncer.Piggyback(ctx, q)

		return nil
	}
}
