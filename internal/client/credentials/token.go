package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry reads the exp claim of a JWT credential without verifying its
// signature; the client never holds the signing key. ok is false for opaque
// tokens and for JWTs without exp.
func Expiry(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	date, err := parsed.Claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}
	return date.Time, true
}

// Expired reports whether token is a JWT whose exp is not after now.
// Tokens with unknown expiry are never reported as expired.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !exp.After(now)
}

// Subject returns the sub claim of a JWT credential, or "".
func Subject(token string) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
