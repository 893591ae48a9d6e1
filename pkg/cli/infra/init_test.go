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

package infra

import (
	"fmt"
	"os"
	"testing"

	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/cli/config"
	"github.com/replog/replog/pkg/cli/database"
	"github.com/replog/replog/pkg/dirs"
	"github.com/pkg/errors"
)

func TestInitSystemKV(t *testing.T) {
	// Setup
	db := database.InitTestMemoryDB(t)

	var originalCount int
	database.MustScan(t, "counting system configs", db.QueryRow("SELECT count(*) FROM system"), &originalCount)

	// Execute
	tx, err := db.Begin()
	if err != nil {
		t.Fatal(errors.Wrap(err, "beginning a transaction"))
	}

	if err := initSystemKV(tx, "testKey", "testVal"); err != nil {
		tx.Rollback()
		t.Fatal(errors.Wrap(err, "executing"))
	}

	tx.Commit()

	// Test
	var count int
	database.MustScan(t, "counting system configs", db.QueryRow("SELECT count(*) FROM system"), &count)
	assert.Equal(t, count, originalCount+1, "system count mismatch")

	var val string
	database.MustScan(t, "getting system value",
		db.QueryRow("SELECT value FROM system WHERE key = ?", "testKey"), &val)
	assert.Equal(t, val, "testVal", "system value mismatch")
}

func TestInitSystemKV_existing(t *testing.T) {
	// Setup
	db := database.InitTestMemoryDB(t)

	database.MustExec(t, "inserting a system config", db, "INSERT INTO system (key, value) VALUES (?, ?)", "testKey", "testVal")

	var originalCount int
	database.MustScan(t, "counting system configs", db.QueryRow("SELECT count(*) FROM system"), &originalCount)

	// Execute
	tx, err := db.Begin()
	if err != nil {
		t.Fatal(errors.Wrap(err, "beginning a transaction"))
	}

	if err := initSystemKV(tx, "testKey", "newTestVal"); err != nil {
		tx.Rollback()
		t.Fatal(errors.Wrap(err, "executing"))
	}

	tx.Commit()

	// Test
	var count int
	database.MustScan(t, "counting system configs", db.QueryRow("SELECT count(*) FROM system"), &count)
	assert.Equal(t, count, originalCount, "system count mismatch")

	var val string
	database.MustScan(t, "getting system value",
		db.QueryRow("SELECT value FROM system WHERE key = ?", "testKey"), &val)
	assert.Equal(t, val, "testVal", "system value should not have been updated")
}

func TestInit_freshEnvironment(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "replog-init-test-*")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating temp dir"))
	}
	defer os.RemoveAll(tmpDir)

	t.Cleanup(dirs.Reload)
	t.Setenv("XDG_CONFIG_HOME", fmt.Sprintf("%s/config", tmpDir))
	t.Setenv("XDG_DATA_HOME", fmt.Sprintf("%s/data", tmpDir))
	t.Setenv("XDG_CACHE_HOME", fmt.Sprintf("%s/cache", tmpDir))
	dirs.Reload()

	ctx, err := Init("test-version", "", fmt.Sprintf("%s/replog.db", tmpDir))
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()

	assert.Equal(t, ctx.Version, "test-version", "version mismatch")
	assert.Equal(t, ctx.APIEndpoint, DefaultAPIEndpoint, "should use the default API endpoint")
	assert.Equal(t, ctx.SessionKey, "", "a fresh environment should have no session")

	// The queue and system tables must exist
	var queueCount int
	database.MustScan(t, "counting queued operations", ctx.DB.QueryRow("SELECT count(*) FROM sync_queue"), &queueCount)
	assert.Equal(t, queueCount, 0, "queue should be empty")

	var schema string
	database.MustScan(t, "getting schema version",
		ctx.DB.QueryRow("SELECT value FROM system WHERE key = ?", "schema"), &schema)
	assert.Equal(t, schema, "1", "schema version mismatch")
}

func TestInit_APIEndpointChange(t *testing.T) {
	// Create a temporary directory for test
	tmpDir, err := os.MkdirTemp("", "replog-init-test-*")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating temp dir"))
	}
	defer os.RemoveAll(tmpDir)

	// Set up environment to use our temp directory
	t.Cleanup(dirs.Reload)
	t.Setenv("XDG_CONFIG_HOME", fmt.Sprintf("%s/config", tmpDir))
	t.Setenv("XDG_DATA_HOME", fmt.Sprintf("%s/data", tmpDir))
	t.Setenv("XDG_CACHE_HOME", fmt.Sprintf("%s/cache", tmpDir))
	dirs.Reload()

	// First init.
	endpoint1 := "http://127.0.0.1:3001"
	ctx, err := Init("test-version", endpoint1, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()
	assert.Equal(t, ctx.APIEndpoint, endpoint1, "should use endpoint1 API endpoint")

	// Test that config was written with endpoint1.
	cf, err := config.Read(*ctx)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading config"))
	}

	// Second init with different endpoint.
	endpoint2 := "http://127.0.0.1:3002"
	ctx2, err := Init("test-version", endpoint2, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing with override"))
	}
	defer ctx2.DB.Close()
	// Context must be using that endpoint.
	assert.Equal(t, ctx2.APIEndpoint, endpoint2, "should use endpoint2 API endpoint")

	// The config file shouldn't have been modified.
	cf2, err := config.Read(*ctx2)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading config after override"))
	}
	assert.Equal(t, cf2.APIEndpoint, cf.APIEndpoint, "config should still have original endpoint, not endpoint2")
}
