// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// ResetTokenTTL is how long a password reset token stays redeemable.
const ResetTokenTTL = time.Hour

// PasswordResetToken authorizes exactly one password change. Redeemed tokens
// are marked used and kept; expired tokens are inert, never rewritten.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// NewPasswordResetToken creates a validated reset token record.
func NewPasswordResetToken(userID, tokenHash string) (*PasswordResetToken, error) {
	if userID == "" {
		return nil, oops.Code("RESET_INVALID_USER").Errorf("user ID cannot be empty")
	}
	if tokenHash == "" {
		return nil, oops.Code("RESET_INVALID_HASH").Errorf("token hash cannot be empty")
	}

	now := time.Now().UTC()
	return &PasswordResetToken{
		ID:        NewID("rst"),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(ResetTokenTTL),
		CreatedAt: now,
	}, nil
}

// IsExpired returns true if the reset token has expired.
func (r *PasswordResetToken) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// ResetTokenRepository manages password reset token persistence.
type ResetTokenRepository interface {
	// Create stores a new reset token.
	Create(ctx context.Context, token *PasswordResetToken) error

	// GetByTokenHash retrieves a reset token by its token hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*PasswordResetToken, error)

	// MarkUsed flips the used flag, but only if it is still false.
	// Returns an error wrapping ErrNotFound when the token is missing or
	// already used, which makes redemption a single conditional write.
	MarkUsed(ctx context.Context, id string) error

	// DeleteExpired removes expired tokens (used ones are kept) and
	// returns the count of deleted records.
	DeleteExpired(ctx context.Context) (int64, error)
}
