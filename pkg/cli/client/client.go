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

// Package client provides interfaces for interacting with the Replog server
// and the data structures for responses
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/replog/replog/pkg/cli/context"
	"github.com/replog/replog/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrInvalidLogin is an error for invalid credentials for login
var ErrInvalidLogin = errors.New("wrong credentials")

// ErrContentTypeMismatch is an error for an unexpected Content-Type in a response
var ErrContentTypeMismatch = errors.New("content type mismatch")

// ErrBatchTooLarge is an error for a sync batch exceeding the batch cap
var ErrBatchTooLarge = errors.New("batch exceeds the maximum size")

// MaxBatchSize is the maximum number of operations in a single sync batch.
// The server rejects oversized batches wholesale.
const MaxBatchSize = 100

// Operation result statuses reported by the sync endpoint
const (
	StatusApplied   = "applied"
	StatusDuplicate = "duplicate"
	StatusRejected  = "rejected"
)

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// IsUnauthorized returns true if the error is a 401 Unauthorized error
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

var contentTypeApplicationJSON = "application/json"
var contentTypeNone = ""

// requestOptions contains options for requests
type requestOptions struct {
	// ExpectedContentType is the Content-Type that the client is expecting from the server
	ExpectedContentType *string
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Wait for rate limiter to allow the request
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	// Calculate interval from rate: 1 second / requests per second
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

func getHTTPClient(ctx context.ReplogCtx) *http.Client {
	if ctx.HTTPClient != nil {
		return ctx.HTTPClient
	}

	return &http.Client{}
}

func getExpectedContentType(options *requestOptions) string {
	if options != nil && options.ExpectedContentType != nil {
		return *options.ExpectedContentType
	}

	return contentTypeApplicationJSON
}

func getReq(ctx context.ReplogCtx, path, method, body string) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", ctx.APIEndpoint, path)
	req, err := http.NewRequest(method, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("CLI-Version", ctx.Version)

	if ctx.SessionKey != "" {
		credential := fmt.Sprintf("Bearer %s", ctx.SessionKey)
		req.Header.Set("Authorization", credential)
	}

	return req, nil
}

// checkRespErr checks if the given http response indicates an error. It returns a boolean indicating
// if the response is an error, and a decoded error message.
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	bodyStr := string(body)
	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(bodyStr, "\n"),
	}
}

func checkContentType(res *http.Response, options *requestOptions) error {
	expected := getExpectedContentType(options)

	got := res.Header.Get("Content-Type")
	if got != expected {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your endpoint correctly?", got, expected)
	}

	return nil
}

// doReq does a http request to the given path in the api endpoint
func doReq(ctx context.ReplogCtx, method, path, body string, options *requestOptions) (*http.Response, error) {
	req, err := getReq(ctx, path, method, body)
	if err != nil {
		return nil, errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	hc := getHTTPClient(ctx)
	res, err := hc.Do(req)
	if err != nil {
		return res, errors.Wrap(err, "making http request")
	}

	log.Debug("HTTP %d %s\n", res.StatusCode, res.Status)

	if err = checkRespErr(res); err != nil {
		return res, errors.Wrap(err, "server responded with an error")
	}

	if err = checkContentType(res, options); err != nil {
		return res, errors.Wrap(err, "unexpected Content-Type")
	}

	return res, nil
}

// doAuthorizedReq does a http request to the given path in the api endpoint as a user,
// with the appropriate headers. The given path should include the preceding slash.
func doAuthorizedReq(ctx context.ReplogCtx, method, path, body string, options *requestOptions) (*http.Response, error) {
	if ctx.SessionKey == "" {
		return nil, errors.New("no session key found")
	}

	return doReq(ctx, method, path, body, options)
}

// SyncOperation is an operation in a sync batch request
type SyncOperation struct {
	OperationID   string          `json:"operationId"`
	OperationType string          `json:"operationType"`
	Payload       json.RawMessage `json:"payload"`
}

// SyncOperationsPayload is a payload for the sync operations endpoint
type SyncOperationsPayload struct {
	Operations []SyncOperation `json:"operations"`
}

// SyncOperationResult reports the outcome of a single operation in a batch
type SyncOperationResult struct {
	OperationID   string          `json:"operationId"`
	OperationType string          `json:"operationType"`
	Status        string          `json:"status"`
	Result        json.RawMessage `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// SyncSummary is the batch-level tally in a sync response
type SyncSummary struct {
	Received   int `json:"received"`
	Applied    int `json:"applied"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

// SyncOperationsResp is the response from the sync operations endpoint.
// Results appear in the same order as the operations in the request.
type SyncOperationsResp struct {
	Summary SyncSummary           `json:"summary"`
	Results []SyncOperationResult `json:"results"`
}

// SendOperations sends a batch of queued operations to the server. The batch
// must not exceed MaxBatchSize.
func SendOperations(ctx context.ReplogCtx, operations []SyncOperation) (SyncOperationsResp, error) {
	if len(operations) > MaxBatchSize {
		return SyncOperationsResp{}, errors.Wrapf(ErrBatchTooLarge, "got %d operations", len(operations))
	}

	payload := SyncOperationsPayload{
		Operations: operations,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return SyncOperationsResp{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/sync/operations", string(b), nil)
	if err != nil {
		return SyncOperationsResp{}, err
	}

	var resp SyncOperationsResp
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return SyncOperationsResp{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// RespProgress is a progress entry in the response from the session progress endpoint
type RespProgress struct {
	ExerciseID      int        `json:"exerciseId"`
	Position        int        `json:"position"`
	Status          string     `json:"status"`
	StartedAt       *time.Time `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	DurationSeconds *int64     `json:"durationSeconds"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// GetSessionProgressResp is the response from the session progress endpoint
type GetSessionProgressResp struct {
	Progress []RespProgress `json:"progress"`
}

// GetSessionProgress gets the exercise progress entries for a workout session
func GetSessionProgress(ctx context.ReplogCtx, sessionID int) (GetSessionProgressResp, error) {
	path := fmt.Sprintf("/api/v1/sessions/%d/progress", sessionID)
	res, err := doAuthorizedReq(ctx, "GET", path, "", nil)
	if err != nil {
		return GetSessionProgressResp{}, errors.Wrap(err, "making http request")
	}

	var resp GetSessionProgressResp
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return GetSessionProgressResp{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// ImportCategoryReport is a per-category tally in an import validation report
type ImportCategoryReport struct {
	ToCreate int `json:"toCreate"`
	ToReuse  int `json:"toReuse"`
	Skipped  int `json:"skipped"`
}

// ImportValidationResp is the response from the import validation endpoint
type ImportValidationResp struct {
	Valid     bool                 `json:"valid"`
	Version   int                  `json:"version"`
	Exercises ImportCategoryReport `json:"exercises"`
	Routines  ImportCategoryReport `json:"routines"`
	Sessions  ImportCategoryReport `json:"sessions"`
	Weights   ImportCategoryReport `json:"weights"`
	Warnings  []string             `json:"warnings"`
}

// ValidateImport submits an export document for validation without applying it
func ValidateImport(ctx context.ReplogCtx, document string) (ImportValidationResp, error) {
	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/import/validate", document, nil)
	if err != nil {
		return ImportValidationResp{}, errors.Wrap(err, "making http request")
	}

	var resp ImportValidationResp
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return ImportValidationResp{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// ImportResultResp is the response from the import endpoint
type ImportResultResp struct {
	ExercisesCreated int `json:"exercisesCreated"`
	RoutinesCreated  int `json:"routinesCreated"`
	SessionsCreated  int `json:"sessionsCreated"`
	WeightsCreated   int `json:"weightsCreated"`
}

// ApplyImport submits an export document to be applied in a single transaction
func ApplyImport(ctx context.ReplogCtx, document string) (ImportResultResp, error) {
	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/import", document, nil)
	if err != nil {
		return ImportResultResp{}, errors.Wrap(err, "making http request")
	}

	var resp ImportResultResp
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return ImportResultResp{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// Ping checks that the server is reachable
func Ping(ctx context.ReplogCtx) error {
	_, err := doReq(ctx, "GET", "/health", "", nil)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}

	return nil
}

// SigninPayload is a payload for the signin endpoint
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse is a response from the signin and token refresh endpoints
type SigninResponse struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

// Signin requests a session token
func Signin(ctx context.ReplogCtx, email, password string) (SigninResponse, error) {
	payload := SigninPayload{
		Email:    email,
		Password: password,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return SigninResponse{}, errors.Wrap(err, "marshaling payload")
	}
	res, err := doReq(ctx, "POST", "/api/v1/signin", string(b), nil)
	if err != nil {
		// Check if this is a 401 Unauthorized error
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			return SigninResponse{}, ErrInvalidLogin
		}
		return SigninResponse{}, errors.Wrap(err, "making http request")
	}

	var resp SigninResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return SigninResponse{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// RefreshSession exchanges the current session key for a new one with a fresh
// expiry. The server invalidates the presented key.
func RefreshSession(ctx context.ReplogCtx) (SigninResponse, error) {
	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/token/refresh", "", nil)
	if err != nil {
		return SigninResponse{}, errors.Wrap(err, "making http request")
	}

	var resp SigninResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return SigninResponse{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// Signout deletes a user session on the server side
func Signout(ctx context.ReplogCtx, sessionKey string) error {
	opts := requestOptions{
		ExpectedContentType: &contentTypeNone,
	}
	_, err := doAuthorizedReq(ctx, "POST", "/api/v1/signout", "", &opts)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}

	return nil
}
