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

package importer

import (
	"os"

	"github.com/replog/replog/pkg/cli/client"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/infra"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/replog/replog/pkg/cli/output"
	"github.com/replog/replog/pkg/cli/queue"
	"github.com/replog/replog/pkg/cli/syncer"
	"github.com/replog/replog/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  * Validate and apply an export file
  replog import backup.json`

var apiEndpointFlag string

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new import command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import <file>",
		Short:   "Import an export file into the server",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

func newRun(ctx context.ReplogCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		// Override APIEndpoint if flag was provided
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		if ctx.SessionKey == "" {
			return errors.New("not logged in")
		}

		b, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrapf(err, "reading the export file %s", args[0])
		}
		document := string(b)

		validation, err := client.ValidateImport(ctx, document)
		if err != nil {
			return errors.Wrap(err, "validating the export file")
		}

		output.ImportValidation(validation)

		if !validation.Valid {
			return errors.New("the export file is not valid")
		}

		ok, err := ui.Confirm("apply this import?", false)
		if err != nil {
			return errors.Wrap(err, "getting confirmation")
		}
		if !ok {
			log.Warnf("aborted by user\n")
			return nil
		}

		result, err := client.ApplyImport(ctx, document)
		if err != nil {
			return errors.Wrap(err, "applying the import")
		}

		log.Success("imported\n")
		output.ImportResult(result)

		// The request above proved connectivity, so queued operations can
		// ride on it.
		q := queue.New(ctx.DB, ctx.Clock)
		syncer.NotifyReachable(ctx, q)

		return nil
	}
}
