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

// Command schema regenerates database/schema.sql from the live table
// definitions. Run it from this directory after changing the DDL in the
// infra package.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/cli/consts"
	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/database"
	"github.com/replog/replog/pkg/cli/infra"

	// sqlite3 is the database driver
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	tmpDir, err := os.MkdirTemp("", "replog-schema")
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "creating a temporary directory"))
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	if err := run(tmpDir, "../schema.sql"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(tmpDir, outputPath string) error {
	dbPath := filepath.Join(tmpDir, consts.ReplogDBFileName)
	db, err := database.Open(dbPath)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()

	ctx := context.ReplogCtx{DB: db}
	if err := infra.InitDB(ctx); err != nil {
		return errors.Wrap(err, "initializing tables")
	}
	if err := infra.InitSystem(ctx); err != nil {
		return errors.Wrap(err, "initializing system data")
	}

	var sb strings.Builder
	sb.WriteString("-- This is the final state of the local database schema. It is used to\n")
	sb.WriteString("-- initialize test databases without replaying migrations.\n")

	rows, err := db.Query("SELECT sql FROM sqlite_master WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return errors.Wrap(err, "querying sqlite_master")
	}
	defer rows.Close()

	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return errors.Wrap(err, "scanning a statement")
		}

		sb.WriteString(stmt)
		sb.WriteString(";\n")
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "iterating statements")
	}

	var schemaVersion string
	if err := db.QueryRow("SELECT value FROM system WHERE key = ?", consts.SystemSchema).Scan(&schemaVersion); err != nil {
		return errors.Wrap(err, "finding schema version")
	}
	sb.WriteString(fmt.Sprintf("INSERT INTO system (key, value) VALUES ('%s', '%s');\n", consts.SystemSchema, schemaVersion))

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
		return errors.Wrap(err, "writing schema file")
	}

	return nil
}
