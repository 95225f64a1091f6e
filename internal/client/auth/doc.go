// Package auth keeps a credebt API session authenticated.
//
// A Session owns the access and refresh tokens. It persists them through a
// TokenStore, refreshes the access token shortly before it expires, and
// guarantees that at most one refresh call is in flight: every caller that
// needs a fresh token while a refresh is pending waits for that same result.
//
// Transport is an http.RoundTripper that attaches the bearer token to
// outgoing requests and recovers from a 401 by refreshing once and replaying
// the request. When the refresh fails the caller receives a *RefreshError
// that still carries the original 401 response.
//
// Typical wiring:
//
//	sess := auth.NewSession(store, auth.NewHTTPRefresher(base, plain),
//		auth.WithLogger(log), auth.WithOnExpired(promptLogin))
//	hc := &http.Client{Transport: auth.NewTransport(sess, plain.Transport)}
package auth
