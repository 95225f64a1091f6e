package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotFound    = errors.New("not found")
	// ErrUnauthorized is auth.ErrUnauthorized so a failed token refresh and
	// a plain 401/403 match the same sentinel.
	ErrUnauthorized = auth.ErrUnauthorized
)

// APIError is a 4xx answer other than 401, 403 and 404.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}
