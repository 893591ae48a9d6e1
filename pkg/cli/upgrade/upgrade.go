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

// Package upgrade provides a routine check for a newer release
package upgrade

import (
	gocontext "context"
	"strconv"
	"strings"

	"github.com/replog/replog/pkg/cli/consts"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/database"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/google/go-github/github"
	"github.com/pkg/errors"
)

// upgradeInterval is the minimum number of seconds between two checks
var upgradeInterval int64 = 86400 * 7 * 4

func shouldCheckUpdate(ctx context.ReplogCtx) (bool, error) {
	var lastUpgrade int64
	err := database.GetSystem(ctx.DB, consts.SystemLastUpgrade, &lastUpgrade)
	if err != nil {
		return false, errors.Wrap(err, "getting last upgrade timestamp")
	}

	now := ctx.Clock.Now().Unix()

	return now-lastUpgrade > upgradeInterval, nil
}

func touchLastUpgrade(ctx context.ReplogCtx) error {
	now := ctx.Clock.Now().Unix()
	if err := database.UpdateSystem(ctx.DB, consts.SystemLastUpgrade, strconv.FormatInt(now, 10)); err != nil {
		return errors.Wrap(err, "updating last upgrade timestamp")
	}

	return nil
}

func checkVersion(ctx context.ReplogCtx) error {
	gh := github.NewClient(nil)

	releases, _, err := gh.Repositories.ListReleases(gocontext.Background(), "replog", "replog", &github.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "fetching releases")
	}
	if len(releases) == 0 {
		return nil
	}

	latestVersion := strings.TrimPrefix(releases[0].GetTagName(), "v")

	log.Debug("latest release is %s\n", latestVersion)

	if latestVersion != ctx.Version {
		log.Infof("a newer version %s is available. Visit https://github.com/replog/replog/releases to upgrade.\n", latestVersion)
	}

	return nil
}

// Check looks for a newer release if enough time has passed since the last
// check. Local builds carry the version "master" and are never compared.
func Check(ctx context.ReplogCtx) error {
	if !ctx.EnableUpgradeCheck || ctx.Version == "master" {
		return nil
	}

	shouldCheck, err := shouldCheckUpdate(ctx)
	if err != nil {
		return errors.Wrap(err, "checking if upgrade check is due")
	}
	if !shouldCheck {
		return nil
	}

	if err := checkVersion(ctx); err != nil {
		return errors.Wrap(err, "checking version")
	}

	if err := touchLastUpgrade(ctx); err != nil {
		return errors.Wrap(err, "updating the last upgrade timestamp")
	}

	return nil
}
