// internal/session/session.go
package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNoSession is returned by UserIDFor when the token does not denote a live session.
var ErrNoSession = errors.New("session: no such session")

const bearerScheme = "bearer "

// Authenticator validates opaque session tokens.
// Callers must check Exists before asking for the owning user.
type Authenticator interface {
	Exists(ctx context.Context, token string) (bool, error)
	UserIDFor(ctx context.Context, token string) (int64, error)
}

// Store is an Authenticator that can also open and close sessions.
type Store interface {
	Authenticator
	Issue(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Revoke(ctx context.Context, token string) error
}

// StripScheme removes a leading "Bearer " (any case) from an Authorization value.
// A value without the scheme, or too short to carry one, is returned trimmed.
func StripScheme(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.EqualFold(token, strings.TrimSpace(bearerScheme)) {
		return ""
	}
	if len(token) >= len(bearerScheme) && strings.EqualFold(token[:len(bearerScheme)], bearerScheme) {
		token = strings.TrimSpace(token[len(bearerScheme):])
	}
	return token
}
