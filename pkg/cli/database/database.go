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

// Package database provides access to the local SQLite database
// and definitions of the records it holds
package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

// DB is a handle to the local database. It wraps a connection and,
// after Begin is called, a transaction, so that the same helpers can
// run inside or outside a transaction.
type DB struct {
	conn *sql.DB
	tx   *sql.Tx
}

// Open opens a connection to the database at the given path
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	return &DB{conn: conn}, nil
}

// Begin starts a transaction and returns a handle whose operations
// run inside it
func (d *DB) Begin() (*DB, error) {
	if d.tx != nil {
		return nil, errors.New("transaction already in progress")
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "beginning a transaction")
	}

	return &DB{conn: d.conn, tx: tx}, nil
}

// Commit commits the transaction
func (d *DB) Commit() error {
	if d.tx == nil {
		return errors.New("not in a transaction")
	}

	if err := d.tx.Commit(); err != nil {
		return errors.Wrap(err, "committing a transaction")
	}

	d.tx = nil

	return nil
}

// Rollback aborts the transaction. It is safe to call after a commit,
// in which case it is a no-op.
func (d *DB) Rollback() error {
	if d.tx == nil {
		return nil
	}

	err := d.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "rolling back a transaction")
	}

	d.tx = nil

	return nil
}

// Exec executes the given query
func (d *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	if d.tx != nil {
		return d.tx.Exec(query, args...)
	}

	return d.conn.Exec(query, args...)
}

// Query runs the given query and returns the matching rows
func (d *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	if d.tx != nil {
		return d.tx.Query(query, args...)
	}

	return d.conn.Query(query, args...)
}

// QueryRow runs the given query that is expected to return at most one row
func (d *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	if d.tx != nil {
		return d.tx.QueryRow(query, args...)
	}

	return d.conn.QueryRow(query, args...)
}

// Close closes the underlying connection
func (d *DB) Close() error {
	return d.conn.Close()
}
