// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Identity is the profile returned by an external identity exchange.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// IdentityExchanger swaps an external session identifier for profile claims.
// Implementations return ErrInvalidExternalSession (wrapped or bare) when the
// provider rejects the identifier.
type IdentityExchanger interface {
	Exchange(ctx context.Context, externalSessionID string) (*Identity, error)
}

// OAuthService turns an external OAuth session into a local account and
// session. Accounts are upserted by email: a fresh exchange refreshes name
// and picture but never touches role or preferences.
type OAuthService struct {
	users     UserRepository
	sessions  SessionRepository
	exchanger IdentityExchanger
	logger    *slog.Logger
}

// NewOAuthService creates a new OAuthService.
func NewOAuthService(users UserRepository, sessions SessionRepository, exchanger IdentityExchanger, logger *slog.Logger) (*OAuthService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	if exchanger == nil {
		return nil, oops.Errorf("identity exchanger is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OAuthService{
		users:     users,
		sessions:  sessions,
		exchanger: exchanger,
		logger:    logger,
	}, nil
}

// ExchangeSession exchanges an external session identifier for a local user
// and a fresh 7-day session.
func (s *OAuthService) ExchangeSession(ctx context.Context, externalSessionID string) (*User, *Session, string, error) {
	if externalSessionID == "" {
		return nil, nil, "", oops.Code("OAUTH_SESSION_REQUIRED").Errorf("session ID required")
	}

	identity, err := s.exchanger.Exchange(ctx, externalSessionID)
	if err != nil {
		if errors.Is(err, ErrInvalidExternalSession) {
			return nil, nil, "", oops.Code("OAUTH_SESSION_INVALID").Wrap(err)
		}
		return nil, nil, "", oops.Code("OAUTH_EXCHANGE_FAILED").
			With("operation", "exchange external session").
			Wrap(err)
	}

	user, err := s.upsertUser(ctx, identity)
	if err != nil {
		return nil, nil, "", err
	}

	token, tokenHash, err := GenerateToken()
	if err != nil {
		return nil, nil, "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(user.ID, tokenHash, SessionTTL, false)
	if err != nil {
		return nil, nil, "", err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "persist session").
			With("user_id", user.ID).
			Wrap(err)
	}

	return user, session, token, nil
}

// upsertUser creates or refreshes the account matching the exchanged email.
func (s *OAuthService) upsertUser(ctx context.Context, identity *Identity) (*User, error) {
	existing, err := s.users.GetByEmail(ctx, identity.Email)
	if err == nil {
		if err := s.users.UpdateProfile(ctx, existing.ID, identity.Name, identity.Picture); err != nil {
			return nil, oops.Code("OAUTH_UPSERT_FAILED").
				With("operation", "refresh profile").
				With("user_id", existing.ID).
				Wrap(err)
		}
		existing.Name = identity.Name
		existing.Picture = identity.Picture
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("OAUTH_UPSERT_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	user, err := NewGoogleUser(identity.Email, identity.Name, identity.Picture)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, oops.Code("OAUTH_UPSERT_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	s.logger.Info("new oauth user", "user_id", user.ID)
	return user, nil
}
