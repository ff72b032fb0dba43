package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry inspects a bearer token and reports when it expires.
//
// The catalog service issues JWTs, but the client treats the token as opaque
// for everything except expiry: the claims are parsed without signature
// verification (the server is the only party that verifies) purely to avoid
// presenting a token the server is guaranteed to reject. Tokens that are not
// JWTs, or carry no exp claim, are reported as non-expiring.
func TokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// Expired reports whether the token carries an exp claim in the past.
func Expired(token string) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return exp.Before(time.Now())
}
