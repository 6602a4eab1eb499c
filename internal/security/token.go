package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a token parses as a JWT but carries no
// exp claim.
var ErrNoExpiry = errors.New("token has no expiry claim")

// TokenExpiry extracts the exp claim from a JWT without verifying its
// signature. The client never holds the signing secret; it only needs
// the expiry for proactive refresh decisions and expires_at backfill.
func TokenExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// TokenExpired reports whether the token is a JWT whose expiry is at
// or before now. Opaque tokens and JWTs without an exp claim report
// false: only the server can judge them.
func TokenExpired(token string, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return !exp.After(now)
}
