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

// Package consts provides definitions of constants
package consts

var (
	// ReplogDirName is the name of the directory containing replog files
	ReplogDirName = "replog"
	// ReplogDBFileName is a filename for the Replog SQLite database
	ReplogDBFileName = "replog.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "replogrc"

	// TmpContentFileBase is the base for the filename for a temporary content
	TmpContentFileBase = "REPLOG_TMPCONTENT"
	// TmpContentFileExt is the extension for the temporary content file
	TmpContentFileExt = "txt"

	// SystemSchema is the key for schema in the system table
	SystemSchema = "schema"
	// SystemLastSyncAt is the timestamp of the most recent successful flush
	SystemLastSyncAt = "last_sync_time"
	// SystemLastSyncError is the error message from the most recent failed flush
	SystemLastSyncError = "last_sync_error"
	// SystemLastUpgrade is the timestamp at which the system most recently checked for an upgrade
	SystemLastUpgrade = "last_upgrade"
	// SystemSessionKey is the session key
	SystemSessionKey = "session_token"
	// SystemSessionKeyExpiry is the timestamp at which the session key will expire
	SystemSessionKeyExpiry = "session_token_expiry"
)
