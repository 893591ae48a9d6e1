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

package login

import (
	"fmt"
	"net/url"

	"github.com/replog/replog/pkg/cli/client"
	"github.com/replog/replog/pkg/cli/consts"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/database"
	"github.com/replog/replog/pkg/cli/infra"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/replog/replog/pkg/cli/queue"
	"github.com/replog/replog/pkg/cli/syncer"
	"github.com/replog/replog/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  replog login`

var apiEndpointFlag string

// NewCmd returns a new login command
func NewCmd(ctx context.ReplogCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Login to the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

// getServerDisplayURL derives a presentable URL of the server from the
// configured API endpoint. It returns an empty string if the endpoint is
// not a full URL.
func getServerDisplayURL(ctx context.ReplogCtx) string {
	u, err := url.Parse(ctx.APIEndpoint)
	if err != nil {
		return ""
	}

	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}

// Do performs login and saves the session to the local database
func Do(ctx context.ReplogCtx, email, password string) (client.SigninResponse, error) {
	resp, err := client.Signin(ctx, email, password)
	if err != nil {
		return resp, errors.Wrap(err, "requesting login")
	}

	db := ctx.DB
	tx, err := db.Begin()
	if err != nil {
		return resp, errors.Wrap(err, "beginning a transaction")
	}

	if err := database.UpsertSystem(tx, consts.SystemSessionKey, resp.Key); err != nil {
		tx.Rollback()
		return resp, errors.Wrap(err, "saving session key")
	}
	if err := database.UpsertSystem(tx, consts.SystemSessionKeyExpiry, resp.ExpiresAt); err != nil {
		tx.Rollback()
		return resp, errors.Wrap(err, "saving session key expiry")
	}

	if err := tx.Commit(); err != nil {
		return resp, errors.Wrap(err, "committing a transaction")
	}

	return resp, nil
}

func newRun(ctx context.ReplogCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		// Override APIEndpoint if flag was provided
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		if displayURL := getServerDisplayURL(ctx); displayURL != "" {
			log.Plainf("logging in to %s\n", displayURL)
		}

		var email, password string
		if err := ui.PromptInput("email", &email); err != nil {
			return errors.Wrap(err, "getting email input")
		}
		if email == "" {
			return errors.New("Empty email")
		}

		if err := ui.PromptPassword("password", &password); err != nil {
			return errors.Wrap(err, "getting password input")
		}
		if password == "" {
			return errors.New("Empty password")
		}

		resp, err := Do(ctx, email, password)
		if errors.Cause(err) == client.ErrInvalidLogin {
			log.Error("wrong credentials\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging in")
		}

		log.Success("logged in\n")

		// Deliver operations that were queued while logged out
		ctx.SessionKey = resp.Key
		ctx.SessionKeyExpiry = resp.ExpiresAt

		q := queue.New(ctx.DB, ctx.Clock)
		pending, err := q.Count()
		if err != nil {
			return errors.Wrap(err, "counting the queue")
		}
		if pending > 0 {
			syncer.Piggyback(ctx, q)
		}

		return nil
	}
}
