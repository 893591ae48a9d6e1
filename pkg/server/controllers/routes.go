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
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/replog/replog/pkg/server/app"
	mw "github.com/replog/replog/pkg/server/middleware"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns the api routes. The token refresh route is not
// behind the auth middleware because a session past its expiry, which the
// middleware rejects, must still be refreshable within the grace period.
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	ret := []Route{
		{"POST", "/v1/signin", c.Users.Signin, true},
		{"POST", "/v1/signout", c.Users.Signout, true},
		{"POST", "/v1/token/refresh", c.Users.Refresh, true},

		{"POST", "/v1/sync/operations", mw.Auth(a.DB, c.Sync.Operations), false},
		{"GET", "/v1/sessions/{sessionID}/progress", mw.Auth(a.DB, c.Workouts.GetProgress), false},
		{"PATCH", "/v1/routines/{routineID}/exercises/{exerciseID}", mw.Auth(a.DB, c.Routines.UpdateTargetWeight), true},
		{"POST", "/v1/import/validate", mw.Auth(a.DB, c.Imports.Validate), true},
		{"POST", "/v1/import", mw.Auth(a.DB, c.Imports.Apply), true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/v1/register", c.Users.Register, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	router.Handle("/health", mw.APIMw(rc.Controllers.Health.Index, app, true)).Methods("GET")

	// catch-all
	router.PathPrefix("/").HandlerFunc(mw.NotFound)

	return mw.Global(router), nil
}
