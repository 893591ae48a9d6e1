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

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/buildinfo"
	"github.com/replog/replog/pkg/server/config"
	"github.com/replog/replog/pkg/server/controllers"
	"github.com/replog/replog/pkg/server/job"
	"github.com/replog/replog/pkg/server/log"
)

func startCmd(args []string) {
	fs := setupFlagSet("start", "replog-server start")

	port := fs.String("port", "", "Server port (env: PORT, default: 3000)")
	dbPath := fs.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/replog/server.db)")
	disableRegistration := fs.Bool("disableRegistration", false, "Disable user registration (env: DisableRegistration, default: false)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	ledgerRetentionDays := fs.Int("ledgerRetentionDays", 0, "Days an applied operation stays in the ledger (env: LEDGER_RETENTION_DAYS, default: 90)")

	fs.Parse(args)

	cfg, err := config.New(config.Params{
		Port:                *port,
		DBPath:              *dbPath,
		DisableRegistration: *disableRegistration,
		LogLevel:            *logLevel,
		LedgerRetentionDays: *ledgerRetentionDays,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	app := initApp(cfg)
	defer func() {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	scheduler := job.NewScheduler(&app, time.Duration(cfg.LedgerRetentionDays)*24*time.Hour)
	if err := scheduler.Start(); err != nil {
		panic(errors.Wrap(err, "starting maintenance jobs"))
	}
	defer scheduler.Stop()

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&app, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
	}).Info("Replog server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}
