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

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/replog/replog/pkg/server/app"
	"github.com/replog/replog/pkg/server/log"
	"github.com/pkg/errors"
)

// Middleware is a wrapper for a route handler
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// APIMw is the middleware for API routes
func APIMw(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(h, rateLimit)
}

// Global wraps the router with the middleware that applies to every route
func Global(h http.Handler) http.Handler {
	return logging(panicRecover(h))
}

// loggingResponseWriter captures the status code written by the handler
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lw *loggingResponseWriter) WriteHeader(code int) {
	lw.statusCode = code
	lw.ResponseWriter.WriteHeader(code)
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lw, r)

		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": lw.statusCode,
		}).Info("request")
	})
}

func panicRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				}).Error(fmt.Sprintf("panic: %v", rec))

				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// NotFound is the handler for requests that match no route
func NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}

// RespondUnauthorized responds with 401
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Bearer realm="Replog", charset="UTF-8"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// DoError logs the error and responds with the given status code
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	log.ErrorWrap(err, msg)
	http.Error(w, http.StatusText(statusCode), statusCode)
}

var errInvalidAuthHeader = errors.New("invalid authorization header")

// getSessionKeyFromAuth extracts a session key from the Authorization
// header. It returns an empty string if the header is not set.
func getSessionKeyFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errInvalidAuthHeader
	}

	return parts[1], nil
}

// GetCredential extracts the session key from the given request
func GetCredential(r *http.Request) (string, error) {
	ret, err := getSessionKeyFromAuth(r)
	if err != nil {
		return "", errors.Wrap(err, "getting session key from the authorization header")
	}

	return ret, nil
}
