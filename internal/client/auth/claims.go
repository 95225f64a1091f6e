package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed access token")

// Claims is the part of an access token the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// subjectKeys are tried in order; the backend has issued user ids under
// each of these names.
var subjectKeys = []string{"userId", "id", "user_id", "sub"}

// ParseClaims decodes token without verifying its signature. The client
// never holds the signing key; it only needs exp to plan a refresh and the
// subject to address user endpoints.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return Claims{}, fmt.Errorf("%w: missing exp", ErrMalformedToken)
	}

	return Claims{Subject: subjectOf(mc), ExpiresAt: exp.Time}, nil
}

func subjectOf(mc jwt.MapClaims) string {
	for _, k := range subjectKeys {
		switch v := mc[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
