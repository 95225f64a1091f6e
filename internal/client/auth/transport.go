package auth

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/credebt/internal/common"
	"github.com/google/uuid"
)

type retryKey struct{}

func isRetry(ctx context.Context) bool {
	v, _ := ctx.Value(retryKey{}).(bool)
	return v
}

// Transport attaches the session's bearer token to every request and
// replays a request once after refreshing the token when it comes back 401.
// Both attempts carry the same X-Request-ID.
type Transport struct {
	session *Session
	base    http.RoundTripper
}

// NewTransport wraps base, http.DefaultTransport when nil.
func NewTransport(session *Session, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{session: session, base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	getBody, err := replayable(req)
	if err != nil {
		return nil, err
	}

	id := req.Header.Get(common.RequestIDHeaderName)
	if id == "" {
		id = uuid.NewString()
	}
	token := t.session.AccessToken()

	first, err := withToken(req.Context(), req, token, id, getBody)
	if err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || isRetry(req.Context()) {
		return resp, err
	}

	fresh, rerr := t.session.refreshStale(req.Context(), token)
	if rerr != nil {
		if err := bufferBody(resp); err != nil {
			return nil, err
		}
		return nil, &RefreshError{Response: resp, Err: rerr}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	retry, err := withToken(context.WithValue(req.Context(), retryKey{}, true), req, fresh, id, getBody)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(retry)
}

// replayable returns a body factory for req and closes the original body.
// A body without GetBody is read into memory so it can be sent twice.
func replayable(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		req.Body.Close()
		return req.GetBody, nil
	}

	b, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, err
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}, nil
}

// withToken clones req onto ctx with a fresh body, the request id and the
// bearer header. The caller's request is never mutated.
func withToken(ctx context.Context, req *http.Request, token, id string, getBody func() (io.ReadCloser, error)) (*http.Request, error) {
	r := req.Clone(ctx)
	r.Header.Set(common.RequestIDHeaderName, id)
	if getBody != nil {
		body, err := getBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
		r.GetBody = getBody
	}
	if token != "" {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return r, nil
}

func bufferBody(resp *http.Response) error {
	b, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return nil
}
