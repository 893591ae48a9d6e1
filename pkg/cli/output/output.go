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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"time"

	"github.com/replog/replog/pkg/cli/client"
	"github.com/replog/replog/pkg/cli/log"
)

const timeFormat = "Jan 2, 2006 3:04pm (MST)"

// SessionProgress prints the exercise progress entries of a workout session
func SessionProgress(entries []client.RespProgress) {
	for _, entry := range entries {
		log.Plainf("%2d. exercise %d: %s", entry.Position, entry.ExerciseID, entry.Status)

		if entry.StartedAt != nil {
			log.Plainf("  started %s", entry.StartedAt.Format(timeFormat))
		}
		if entry.CompletedAt != nil && entry.DurationSeconds != nil {
			log.Plainf("  took %s", (time.Duration(*entry.DurationSeconds) * time.Second).String())
		}

		log.Plainf("\n")
	}
}

// ImportValidation prints an import validation report
func ImportValidation(resp client.ImportValidationResp) {
	log.Infof("export version %d\n", resp.Version)

	printCategory("exercises", resp.Exercises)
	printCategory("routines", resp.Routines)
	printCategory("sessions", resp.Sessions)
	printCategory("weights", resp.Weights)

	for _, warning := range resp.Warnings {
		log.Warnf("%s\n", warning)
	}
}

func printCategory(name string, report client.ImportCategoryReport) {
	log.Plainf("  %-10s %d to create, %d to reuse, %d skipped\n", name, report.ToCreate, report.ToReuse, report.Skipped)
}

// ImportResult prints the outcome of an applied import
func ImportResult(resp client.ImportResultResp) {
	log.Infof("created %d exercises, %d routines, %d sessions, %d weights\n",
		resp.ExercisesCreated, resp.RoutinesCreated, resp.SessionsCreated, resp.WeightsCreated)
}
