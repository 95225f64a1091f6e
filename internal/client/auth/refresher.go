package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Tokens is a pair issued by login or refresh. RefreshToken is empty when
// the backend did not rotate it.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Refresher exchanges a refresh token for new tokens.
//
// Implementations return errors matching ErrRefreshRejected for a non-2xx
// answer and ErrRefreshUnavailable when the endpoint could not be reached.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// HTTPRefresher calls POST {baseURL}/auth/refresh.
//
// The client must not route through Transport, otherwise a rejected
// refresh would try to refresh itself.
type HTTPRefresher struct {
	url    string
	client *http.Client
}

func NewHTTPRefresher(baseURL string, client *http.Client) *HTTPRefresher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRefresher{url: strings.TrimRight(baseURL, "/") + "/auth/refresh", client: client}
}

func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return Tokens{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Tokens{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: %v", ErrRefreshUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return Tokens{}, fmt.Errorf("%w: status %d", ErrRefreshRejected, resp.StatusCode)
	}

	var rr refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return Tokens{}, fmt.Errorf("%w: %v", ErrBadRefreshResponse, err)
	}
	if rr.AccessToken == "" {
		return Tokens{}, fmt.Errorf("%w: empty access_token", ErrBadRefreshResponse)
	}

	return Tokens{AccessToken: rr.AccessToken, RefreshToken: rr.RefreshToken}, nil
}
