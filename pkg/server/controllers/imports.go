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

package controllers

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/context"
)

// NewImports creates a new Imports controller
func NewImports(app *app.App) *Imports {
	return &Imports{
		app: app,
	}
}

// Imports is a controller for the bulk import endpoints
type Imports struct {
	app *app.App
}

func parseExportDocument(r *http.Request) (app.ExportDocument, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return app.ExportDocument{}, errors.Wrap(err, "reading body")
	}

	doc, err := app.ParseExportDocument(body)
	if err != nil {
		return app.ExportDocument{}, errors.Wrap(errInvalidPayload, err.Error())
	}

	return doc, nil
}

// Validate handles POST /api/v1/import/validate. It resolves the export
// document against the account's existing data and reports what an apply
// would do, without writing anything.
func (i *Imports) Validate(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "validating import")
		return
	}

	doc, err := parseExportDocument(r)
	if err != nil {
		handleJSONError(w, err, "parsing export document")
		return
	}

	validation, err := i.app.ValidateImport(*user, doc)
	if err != nil {
		handleJSONError(w, err, "validating import")
		return
	}

	respondJSON(w, http.StatusOK, validation)
}

// Apply handles POST /api/v1/import. The import runs in a single
// transaction; any failure rolls back the entire run.
func (i *Imports) Apply(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "applying import")
		return
	}

	doc, err := parseExportDocument(r)
	if err != nil {
		handleJSONError(w, err, "parsing export document")
		return
	}

	result, err := i.app.ApplyImport(*user, doc)
	if err != nil {
		handleJSONError(w, err, "applying import")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
