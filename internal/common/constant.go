// Package common contains shared constants and sentinel errors used across
// credebt components.
package common

const (
	// AuthorizationHeaderName carries the bearer access token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates a client request with backend logs.
	RequestIDHeaderName = "X-Request-ID"
)

// Token storage keys. They match the keys the web client kept in local
// storage so an exported store can be shared between both.
const (
	AccessTokenKey  = "token"
	RefreshTokenKey = "refresh_token"
)
