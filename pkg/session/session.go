package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store keeps the bearer token of the operator and the one-shot
// "session expired" flag shown on the next login screen
type Store interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
	MarkExpired() error
	// TakeExpired reports whether the flag is set and clears it
	TakeExpired() (bool, error)
}

// Expire drops the token and flags the session as expired. It is the
// reaction to the gateway rejecting the token.
func Expire(store Store) error {
	return errors.Join(store.Clear(), store.MarkExpired())
}

// Logout drops the token and any pending expired flag
func Logout(store Store) error {
	_, err := store.TakeExpired()
	return errors.Join(store.Clear(), err)
}

// TokenExpired reports whether the token carries an exp claim in the past.
// The signature is not checked; tokens that are not JWTs, or carry no exp,
// are left for the gateway to judge.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// ActiveToken returns the stored token when one is present and not
// expired. An expired token is cleared and flags the session as expired.
func ActiveToken(store Store, now time.Time) (string, bool, error) {
	token, err := store.Token()
	if err != nil {
		return "", false, err
	}
	if token == "" {
		return "", false, nil
	}
	if TokenExpired(token, now) {
		return "", false, Expire(store)
	}
	return token, true, nil
}

type tokenKey struct{}

// WithToken attaches the operator token to ctx
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token attached by the guard
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
