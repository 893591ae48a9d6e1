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

package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/replog/replog/pkg/dirs"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBDir is the default directory name for Replog data
	DefaultDBDir = "replog"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultLedgerRetentionDays is the default number of days an applied
	// operation stays in the ledger before the pruning job removes it
	DefaultLedgerRetentionDays = 90
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDBDir, DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrLedgerRetentionInvalid is an error for a non-positive ledger retention
	ErrLedgerRetentionInvalid = errors.New("Invalid LedgerRetentionDays")
)

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// getIntOrEnv returns value if non-zero, otherwise env var, otherwise default
func getIntOrEnv(value int, envKey string, defaultVal int) int {
	if value != 0 {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		if n, err := strconv.Atoi(env); err == nil {
			return n
		}
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	DisableRegistration bool
	Port                string
	DBPath              string
	LogLevel            string
	LedgerRetentionDays int
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv              string
	Port                string
	DBPath              string
	DisableRegistration bool
	LogLevel            string
	LedgerRetentionDays int
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:              getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:                getOrEnv(p.Port, "PORT", "3000"),
		DBPath:              getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration"),
		LogLevel:            getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
		LedgerRetentionDays: getIntOrEnv(p.LedgerRetentionDays, "LEDGER_RETENTION_DAYS", DefaultLedgerRetentionDays),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

func validate(c Config) error {
	if c.Port == "" {
		return ErrPortInvalid
	}

	if c.DBPath == "" {
		return ErrDBMissingPath
	}

	if c.LedgerRetentionDays <= 0 {
		return ErrLedgerRetentionInvalid
	}

	return nil
}
