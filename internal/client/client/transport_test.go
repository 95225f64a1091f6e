package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/credebt/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDTransport(t *testing.T) {
	var (
		mu  sync.Mutex
		ids []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(common.RequestIDHeaderName))
		mu.Unlock()
	}))
	defer srv.Close()

	hc := &http.Client{Transport: NewTransport(srv.Client().Transport, nil)}

	for i := 0; i < 2; i++ {
		resp, err := hc.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(common.RequestIDHeaderName, "fixed")
	resp, err := hc.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ids, 3)
	_, err = uuid.Parse(ids[0])
	require.NoError(t, err)
	assert.NotEqual(t, ids[0], ids[1])
	assert.Equal(t, "fixed", ids[2])
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 5))
	assert.Nil(t, NewLimiter(-1, 5))
	l := NewLimiter(2, 3)
	require.NotNil(t, l)
	assert.Equal(t, 3, l.Burst())
}

func TestRateLimitTransport_HonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	// one token per hour: the second request cannot be admitted in time
	hc := &http.Client{Transport: NewTransport(srv.Client().Transport, NewLimiter(1.0/3600, 1))}

	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = hc.Do(req)
	require.Error(t, err)
}
