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

package upgrade

import (
	"testing"

	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/cli/consts"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/database"
	"github.com/pkg/errors"
)

func TestShouldCheckUpdate(t *testing.T) {
	testCases := []struct {
		name        string
		sinceCheck  int64
		shouldCheck bool
	}{
		{
			name:        "last check was moments ago",
			sinceCheck:  100,
			shouldCheck: false,
		},
		{
			name:        "last check was exactly one interval ago",
			sinceCheck:  upgradeInterval,
			shouldCheck: false,
		},
		{
			name:        "last check is overdue",
			sinceCheck:  upgradeInterval + 1,
			shouldCheck: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			ctx := context.InitTestCtx(t)

			lastUpgrade := ctx.Clock.Now().Unix() - tc.sinceCheck
			if err := database.UpsertSystem(ctx.DB, consts.SystemLastUpgrade, lastUpgrade); err != nil {
				t.Fatal(errors.Wrap(err, "seeding last upgrade timestamp"))
			}

			// Execute
			got, err := shouldCheckUpdate(ctx)
			if err != nil {
				t.Fatal(errors.Wrap(err, "checking if upgrade check is due"))
			}

			// Test
			assert.Equal(t, got, tc.shouldCheck, "shouldCheck mismatch")
		})
	}
}

func TestCheck_disabled(t *testing.T) {
	// Setup
	ctx := context.InitTestCtx(t)
	ctx.EnableUpgradeCheck = false
	ctx.Version = "0.1.0"

	// Execute
	if err := Check(ctx); err != nil {
		t.Fatal(errors.Wrap(err, "checking"))
	}
}

func TestCheck_devBuild(t *testing.T) {
	// Setup
	ctx := context.InitTestCtx(t)
	ctx.EnableUpgradeCheck = true
	ctx.Version = "master"

	// Execute
	if err := Check(ctx); err != nil {
		t.Fatal(errors.Wrap(err, "checking"))
	}
}
