package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/credebt/internal/common"
	"github.com/dmitrijs2005/credebt/internal/logging"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRefreshMargin   = 2 * time.Minute
	DefaultMinRefreshDelay = 5 * time.Second
	DefaultRefreshTimeout  = 15 * time.Second

	flightKey = "refresh"
)

// TokenStore persists tokens under common.AccessTokenKey and
// common.RefreshTokenKey. Get returns an error matching
// common.ErrorNotFound for an absent key.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, keys ...string) error
}

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unauthenticated"
	}
}

type Option func(*Session)

func WithClock(c Clock) Option { return func(s *Session) { s.clock = c } }

func WithLogger(l logging.Logger) Option { return func(s *Session) { s.log = l } }

func WithRefreshMargin(d time.Duration) Option { return func(s *Session) { s.margin = d } }

func WithMinRefreshDelay(d time.Duration) Option { return func(s *Session) { s.minDelay = d } }

// WithRefreshTimeout bounds a single refresh flight.
func WithRefreshTimeout(d time.Duration) Option { return func(s *Session) { s.timeout = d } }

// WithOnExpired registers f to run every time a failed refresh ends the
// session. It runs outside the session locks but inside the refresh
// flight, so f must not call Refresh.
func WithOnExpired(f func()) Option { return func(s *Session) { s.onExpired = f } }

// Session holds the current access token and coordinates refreshes.
// It is safe for concurrent use.
type Session struct {
	store     TokenStore
	refresher Refresher
	clock     Clock
	log       logging.Logger
	margin    time.Duration
	minDelay  time.Duration
	timeout   time.Duration
	onExpired func()

	flights singleflight.Group

	// persist orders storage writes; mu guards the fields below it.
	// persist is always taken before mu.
	persist sync.Mutex

	mu         sync.Mutex
	access     string
	claims     Claims
	timer      Timer
	timerSeq   uint64
	gen        uint64
	refreshing int
}

func NewSession(store TokenStore, refresher Refresher, opts ...Option) *Session {
	s := &Session{
		store:     store,
		refresher: refresher,
		clock:     SystemClock(),
		log:       logging.Discard(),
		margin:    DefaultRefreshMargin,
		minDelay:  DefaultMinRefreshDelay,
		timeout:   DefaultRefreshTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AccessToken returns the in-memory access token, or "" when there is none.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// Subject returns the user id carried by the access token.
func (s *Session) Subject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims.Subject
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.refreshing > 0:
		return StateRefreshing
	case s.access != "":
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// SetTokens stores a freshly issued pair and schedules the proactive
// refresh. An empty refresh token leaves the stored one in place.
func (s *Session) SetTokens(ctx context.Context, t Tokens) error {
	if t.AccessToken == "" {
		return fmt.Errorf("set tokens: %w", common.ErrValidation)
	}

	s.persist.Lock()
	defer s.persist.Unlock()

	if err := s.save(ctx, t); err != nil {
		return err
	}

	s.mu.Lock()
	s.gen++
	s.install(ctx, t.AccessToken)
	s.mu.Unlock()

	return nil
}

// Restore loads a previously stored access token. It reports whether one
// was found.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	s.persist.Lock()
	defer s.persist.Unlock()

	token, err := s.store.Get(ctx, common.AccessTokenKey)
	if errors.Is(err, common.ErrorNotFound) || (err == nil && token == "") {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore access token: %w", err)
	}

	s.mu.Lock()
	s.gen++
	s.install(ctx, token)
	s.mu.Unlock()

	s.log.Debug(ctx, "session restored")
	return true, nil
}

// Clear logs the session out: both tokens are removed from memory and
// storage and the proactive timer is cancelled. A refresh still in flight
// resolves its waiters but its result is not stored.
func (s *Session) Clear(ctx context.Context) error {
	s.persist.Lock()
	defer s.persist.Unlock()

	s.mu.Lock()
	s.gen++
	s.reset()
	s.mu.Unlock()

	if err := s.store.Clear(ctx, common.AccessTokenKey, common.RefreshTokenKey); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// Close cancels the proactive timer and keeps the stored tokens.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimer()
}

// Refresh returns a new access token. Concurrent callers share a single
// call to the refresh endpoint. ctx only bounds the caller's wait; the
// shared call is bounded by the refresh timeout.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	return s.refreshStale(ctx, s.AccessToken())
}

// refreshStale is Refresh for a caller that was rejected while presenting
// stale. If the session already moved on to another token, that token is
// returned without a new refresh. Flights are keyed by stale, so a caller
// never joins a flight that would answer with the token it presented.
func (s *Session) refreshStale(ctx context.Context, stale string) (string, error) {
	return s.await(ctx, flightKey+":"+stale, func() (any, error) {
		s.mu.Lock()
		cur := s.access
		s.mu.Unlock()

		switch {
		case cur != "" && cur != stale:
			return cur, nil
		case cur == "" && stale != "":
			// cleared while the request was in flight
			return nil, ErrRefreshTokenMissing
		}
		return s.refresh(ctx)
	})
}

func (s *Session) await(ctx context.Context, key string, fn func() (any, error)) (string, error) {
	ch := s.flights.DoChan(key, fn)
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// refresh runs inside the single flight.
func (s *Session) refresh(parent context.Context) (any, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.timeout)
	defer cancel()

	s.mu.Lock()
	gen := s.gen
	hadAccess := s.access != ""
	s.refreshing++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.refreshing--
		s.mu.Unlock()
	}()

	rt, err := s.store.Get(ctx, common.RefreshTokenKey)
	if errors.Is(err, common.ErrorNotFound) || (err == nil && rt == "") {
		if hadAccess {
			s.expire(ctx, gen, ErrRefreshTokenMissing)
		}
		return nil, ErrRefreshTokenMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}

	tokens, err := s.refresher.Refresh(ctx, rt)
	if err != nil {
		if clearsSession(err) {
			s.expire(ctx, gen, err)
		} else {
			s.log.Warn(ctx, "token refresh failed", "error", err)
		}
		return nil, err
	}

	if err := s.commit(ctx, gen, tokens); err != nil {
		return nil, err
	}
	return tokens.AccessToken, nil
}

func (s *Session) commit(ctx context.Context, gen uint64, t Tokens) error {
	s.persist.Lock()
	defer s.persist.Unlock()

	s.mu.Lock()
	current := s.gen == gen
	s.mu.Unlock()

	if !current {
		s.log.Info(ctx, "session changed during refresh, token not stored")
		return nil
	}

	if err := s.save(ctx, t); err != nil {
		return err
	}

	s.mu.Lock()
	s.install(ctx, t.AccessToken)
	s.mu.Unlock()

	s.log.Info(ctx, "token refreshed", "subject", s.Subject())
	return nil
}

// expire clears the session after an irrecoverable refresh failure, unless
// the session was replaced or cleared since gen was taken.
func (s *Session) expire(ctx context.Context, gen uint64, cause error) {
	s.persist.Lock()

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.persist.Unlock()
		return
	}
	s.gen++
	s.reset()
	s.mu.Unlock()

	if err := s.store.Clear(ctx, common.AccessTokenKey, common.RefreshTokenKey); err != nil {
		s.log.Error(ctx, "failed to clear tokens", "error", err)
	}
	s.persist.Unlock()

	s.log.Warn(ctx, "session expired", "cause", cause)
	if s.onExpired != nil {
		s.onExpired()
	}
}

func (s *Session) save(ctx context.Context, t Tokens) error {
	if err := s.store.Set(ctx, common.AccessTokenKey, t.AccessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if t.RefreshToken != "" {
		if err := s.store.Set(ctx, common.RefreshTokenKey, t.RefreshToken); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
	}
	return nil
}

// install makes token current and reschedules the proactive refresh.
// Caller holds mu.
func (s *Session) install(ctx context.Context, token string) {
	s.access = token
	s.stopTimer()

	claims, err := ParseClaims(token)
	if err != nil {
		s.claims = Claims{}
		s.log.Debug(ctx, "proactive refresh not scheduled", "error", err)
		return
	}
	s.claims = claims

	delay := claims.ExpiresAt.Sub(s.clock.Now()) - s.margin
	if delay < s.minDelay {
		delay = s.minDelay
	}

	seq := s.timerSeq
	s.timer = s.clock.AfterFunc(delay, func() { s.fire(seq) })
	s.log.Debug(ctx, "proactive refresh scheduled", "in", delay)
}

func (s *Session) fire(seq uint64) {
	s.mu.Lock()
	stale := seq != s.timerSeq
	s.mu.Unlock()
	if stale {
		return
	}

	ctx := context.Background()
	if _, err := s.Refresh(ctx); err != nil {
		s.log.Debug(ctx, "proactive refresh failed", "error", err)
	}
}

// Caller holds mu.
func (s *Session) reset() {
	s.access = ""
	s.claims = Claims{}
	s.stopTimer()
}

// Caller holds mu.
func (s *Session) stopTimer() {
	s.timerSeq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
