// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// Session lifetime configuration.
const (
	SessionTTL    = 7 * 24 * time.Hour  // default expiry
	RememberMeTTL = 30 * 24 * time.Hour // expiry with remember-me
)

// Session represents a logged-in client session. A new login never
// invalidates existing sessions; a user may hold several at once.
type Session struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	RememberMe bool
	CreatedAt  time.Time
}

// NewSession creates a validated Session instance.
func NewSession(userID, tokenHash string, ttl time.Duration, rememberMe bool) (*Session, error) {
	if userID == "" {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be empty")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if ttl <= 0 {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("ttl must be positive")
	}

	now := time.Now().UTC()
	return &Session{
		ID:         NewID("sess"),
		UserID:     userID,
		TokenHash:  tokenHash,
		ExpiresAt:  now.Add(ttl),
		RememberMe: rememberMe,
		CreatedAt:  now,
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt returns true if the session would be expired at the given time.
// Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// MaxAge returns the remaining lifetime in whole seconds, for cookie max-age.
func (s *Session) MaxAge() int {
	remaining := time.Until(s.ExpiresAt)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds())
}

// SessionRepository manages session persistence. Expired rows stay in place
// until swept; every reader must check expiry itself.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// DeleteByTokenHash removes the session with the given token hash.
	// Deleting a session that does not exist is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUser removes all sessions for a user.
	DeleteByUser(ctx context.Context, userID string) error

	// DeleteExpired removes all expired sessions and returns the count
	// of deleted records.
	DeleteExpired(ctx context.Context) (int64, error)
}
