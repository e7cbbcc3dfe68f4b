// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// Service provides registration, login, session resolution, logout and
// preference updates.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, sessions, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, sessions SessionRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates an email/password account and an immediately valid
// session. The returned token is the plaintext session credential.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, *Session, string, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, nil, "", err
	}
	if name == "" {
		return nil, nil, "", oops.Code("AUTH_INVALID_NAME").Errorf("name cannot be empty")
	}

	// Fast path: a readable error before we pay for hashing. The database
	// uniqueness constraint closes the race this check leaves open.
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, nil, "", oops.Code("AUTH_EMAIL_TAKEN").Errorf("email already registered")
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewEmailUser(email, name, passwordHash)
	if err != nil {
		return nil, nil, "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, nil, "", oops.Code("AUTH_EMAIL_TAKEN").Errorf("email already registered")
		}
		return nil, nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	session, token, err := s.mintSession(ctx, user.ID, SessionTTL, false)
	if err != nil {
		return nil, nil, "", err
	}

	s.logger.Info("new user registered", "user_id", user.ID)
	return user, session, token, nil
}

// Login authenticates an email/password account and creates a new session.
// Existing sessions for the same user are left alone.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (*User, *Session, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	// Determine which hash to verify against (real or dummy for timing
	// attack prevention).
	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		userExists = true
		if user.Provider != ProviderEmail {
			return nil, nil, "", oops.Code("AUTH_WRONG_PROVIDER").
				Errorf("this account uses %s sign-in", user.Provider)
		}
		if user.PasswordHash != "" {
			targetHash = user.PasswordHash
		}
	}

	valid, err := s.hasher.Verify(password, targetHash)
	if err != nil {
		return nil, nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}

	// Unknown email and wrong password produce the same error.
	if !userExists || !valid {
		return nil, nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	ttl := SessionTTL
	if rememberMe {
		ttl = RememberMeTTL
	}

	session, token, err := s.mintSession(ctx, user.ID, ttl, rememberMe)
	if err != nil {
		return nil, nil, "", err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "remember_me", rememberMe)
	return user, session, token, nil
}

// Resolve maps a presented session token to the full user record. Any
// failure along the way (unknown token, expired session, vanished user)
// resolves to unauthenticated; expired rows are not deleted here.
// Read-only.
func (s *Service) Resolve(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, oops.Code("SESSION_INVALID").Errorf("no session token presented")
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpired() {
		return nil, oops.Code("SESSION_EXPIRED").Errorf("session has expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Dangling session; the owning user is gone.
			return nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "get session user").
			With("user_id", session.UserID).
			Wrap(err)
	}

	return user, nil
}

// Logout deletes the session matching the presented token. Idempotent:
// an unknown or already-deleted token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByTokenHash(ctx, HashToken(token)); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// UpdatePreferences replaces the user's whole preferences bag.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, prefs map[string]any) error {
	if prefs == nil {
		prefs = map[string]any{}
	}
	if err := s.users.UpdatePreferences(ctx, userID, prefs); err != nil {
		return oops.Code("AUTH_PREFERENCES_FAILED").
			With("operation", "update preferences").
			With("user_id", userID).
			Wrap(err)
	}
	return nil
}

// mintSession generates a token and persists the session carrying its hash.
func (s *Service) mintSession(ctx context.Context, userID string, ttl time.Duration, rememberMe bool) (*Session, string, error) {
	token, tokenHash, err := GenerateToken()
	if err != nil {
		return nil, "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(userID, tokenHash, ttl, rememberMe)
	if err != nil {
		return nil, "", err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "persist session").
			With("user_id", userID).
			Wrap(err)
	}

	return session, token, nil
}
