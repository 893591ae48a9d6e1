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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/replog/replog/pkg/assert"
	"github.com/replog/replog/pkg/cli/consts"
)

func TestRun(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "schema.sql")

	// Run the function
	if err := run(tmpDir, outputPath); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	// Verify schema.sql was created
	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading schema.sql: %v", err)
	}

	schema := string(content)

	// Verify it has the header
	assert.Equal(t, strings.HasPrefix(schema, "-- This is the final state"), true, "schema.sql should have header comment")

	// Verify schema contains expected tables and indices
	expectedStatements := []string{
		"CREATE TABLE sync_queue",
		"CREATE TABLE system",
		"CREATE INDEX idx_sync_queue_queued_at",
	}

	for _, expected := range expectedStatements {
		assert.Equal(t, strings.Contains(schema, expected), true, fmt.Sprintf("schema should contain %s", expected))
	}

	// Verify schema does not contain sqlite internal tables
	assert.Equal(t, strings.Contains(schema, "sqlite_sequence"), false, "schema should not contain sqlite_sequence")

	// Verify the system key-value pair for the schema version is present
	expectedSchemaKey := fmt.Sprintf("INSERT INTO system (key, value) VALUES ('%s',", consts.SystemSchema)
	assert.Equal(t, strings.Contains(schema, expectedSchemaKey), true, "schema should contain schema version INSERT statement")

	// Verify the dump is free of volatile system rows
	assert.Equal(t, strings.Contains(schema, consts.SystemLastUpgrade), false, "schema should not contain last upgrade INSERT statement")
}
