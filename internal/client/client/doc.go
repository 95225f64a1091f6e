// Package client talks to the credebt ledger REST API.
//
// # Overview
//
// Client is the API contract used by the services layer. HTTPClient
// implements it over net/http with two clients:
//   - an authenticated one whose transport is auth.Transport, used for every
//     endpoint that needs the bearer token;
//   - a plain one for login, registration and password recovery, which must
//     never trigger a token refresh.
//
// NewTransport builds the shared base chain (rate limit, request id).
//
// # Error Handling
//
// Failures map to sentinel errors matched with errors.Is: ErrUnauthorized,
// ErrNotFound, ErrUnavailable. Other 4xx answers come back as *APIError with
// the backend's message.
package client
