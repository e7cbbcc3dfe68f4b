// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// ResetService handles the password reset flow.
type ResetService struct {
	users    UserRepository
	sessions SessionRepository
	resets   ResetTokenRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewResetService creates a new ResetService.
func NewResetService(users UserRepository, sessions SessionRepository, resets ResetTokenRepository, hasher PasswordHasher, logger *slog.Logger) (*ResetService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	if resets == nil {
		return nil, oops.Errorf("reset token repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResetService{
		users:    users,
		sessions: sessions,
		resets:   resets,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// RequestReset mints a reset token for the account with the given email.
// An unknown email and an OAuth-backed account both return ("", nil): the
// caller must answer with the same generic success either way, so an
// unauthenticated probe cannot learn whether or how an account exists.
// The plaintext token is returned for out-of-band delivery; only its hash
// is stored.
func (s *ResetService) RequestReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	if user.Provider != ProviderEmail {
		return "", nil
	}

	token, tokenHash, err := GenerateToken()
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "generate reset token").
			Wrap(err)
	}

	reset, err := NewPasswordResetToken(user.ID, tokenHash)
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "build reset token").
			Wrap(err)
	}

	if err := s.resets.Create(ctx, reset); err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "persist reset token").
			Wrap(err)
	}

	s.logger.Info("password reset token issued", "user_id", user.ID, "token_id", reset.ID)
	return token, nil
}

// ConfirmReset redeems a reset token: replaces the password hash and deletes
// every session of the user, forcing re-login everywhere. The used flag is
// flipped with a conditional write before the password changes, so at most
// one redemption ever succeeds even when confirms race.
func (s *ResetService) ConfirmReset(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return oops.Code("RESET_PASSWORD_EMPTY").Errorf("new password cannot be empty")
	}
	if token == "" {
		return oops.Code("RESET_TOKEN_INVALID").Errorf("reset token not found")
	}

	reset, err := s.resets.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("RESET_TOKEN_INVALID").Errorf("reset token not found")
		}
		return oops.Code("RESET_CONFIRM_FAILED").
			With("operation", "get reset token by hash").
			Wrap(err)
	}

	if reset.Used {
		return oops.Code("RESET_TOKEN_INVALID").Errorf("reset token already used")
	}
	if reset.IsExpired() {
		return oops.Code("RESET_TOKEN_EXPIRED").Errorf("reset token has expired")
	}

	if err := s.resets.MarkUsed(ctx, reset.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost the race to another confirm.
			return oops.Code("RESET_TOKEN_INVALID").Errorf("reset token already used")
		}
		return oops.Code("RESET_CONFIRM_FAILED").
			With("operation", "mark reset token used").
			With("token_id", reset.ID).
			Wrap(err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_CONFIRM_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, reset.UserID, passwordHash); err != nil {
		return oops.Code("RESET_CONFIRM_FAILED").
			With("operation", "update password").
			With("user_id", reset.UserID).
			Wrap(err)
	}

	// Bulk side effect: every session of the user goes away.
	if err := s.sessions.DeleteByUser(ctx, reset.UserID); err != nil {
		return oops.Code("RESET_CONFIRM_FAILED").
			With("operation", "purge sessions").
			With("user_id", reset.UserID).
			Wrap(err)
	}

	s.logger.Info("password reset confirmed", "user_id", reset.UserID)
	return nil
}
