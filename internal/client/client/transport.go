package client

import (
	"net/http"

	"github.com/dmitrijs2005/credebt/internal/common"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// NewTransport wraps base so every request carries an X-Request-ID and,
// when limiter is non-nil, waits for the client-side rate limit.
func NewTransport(base http.RoundTripper, limiter *rate.Limiter) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	var rt http.RoundTripper = &requestIDTransport{base: base}
	if limiter != nil {
		rt = &rateLimitTransport{base: rt, limiter: limiter}
	}
	return rt
}

// NewLimiter returns nil when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(common.RequestIDHeaderName) != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	return t.base.RoundTrip(r)
}

type rateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}
	return t.base.RoundTrip(req)
}
