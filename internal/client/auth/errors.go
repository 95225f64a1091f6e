package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is matched by every error returned for a 401 that
	// could not be recovered.
	ErrUnauthorized = errors.New("unauthorized")

	ErrRefreshTokenMissing = errors.New("no refresh token available")
	ErrRefreshRejected     = errors.New("refresh token rejected")
	ErrRefreshUnavailable  = errors.New("refresh endpoint unavailable")
	ErrBadRefreshResponse  = errors.New("bad refresh response")
)

// RefreshError is returned by Transport when a request came back 401 and
// the token refresh failed. Response is the original 401 with its body
// buffered, so it stays readable after the transport returns.
type RefreshError struct {
	Response *http.Response
	Err      error
}

func (e *RefreshError) Error() string {
	return "unauthorized: token refresh failed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() []error {
	return []error{ErrUnauthorized, e.Err}
}

// clearsSession reports whether a refresh failure means the stored tokens
// can never work again.
func clearsSession(err error) bool {
	return errors.Is(err, ErrRefreshTokenMissing) || errors.Is(err, ErrRefreshRejected)
}
