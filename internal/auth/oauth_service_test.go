// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/auth/mocks"
	"github.com/foliohq/folio/pkg/errutil"
)

func TestOAuthService_ExchangeSession(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T) (*auth.OAuthService, *mocks.MockUserRepository, *mocks.MockSessionRepository, *mocks.MockIdentityExchanger) {
		t.Helper()
		userRepo := mocks.NewMockUserRepository(t)
		sessionRepo := mocks.NewMockSessionRepository(t)
		exchanger := mocks.NewMockIdentityExchanger(t)
		svc, err := auth.NewOAuthService(userRepo, sessionRepo, exchanger, nil)
		require.NoError(t, err)
		return svc, userRepo, sessionRepo, exchanger
	}

	identity := &auth.Identity{
		Email:   "bob@example.com",
		Name:    "Bob",
		Picture: "https://example.com/bob.png",
	}

	t.Run("first exchange creates a google account", func(t *testing.T) {
		svc, userRepo, sessionRepo, exchanger := newService(t)

		exchanger.On("Exchange", ctx, "ext-session-1").Return(identity, nil)
		userRepo.On("GetByEmail", ctx, "bob@example.com").Return(nil, auth.ErrNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(nil)
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*auth.Session")).Return(nil)

		user, session, token, err := svc.ExchangeSession(ctx, "ext-session-1")
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", user.Email)
		assert.Equal(t, auth.ProviderGoogle, user.Provider)
		assert.Equal(t, auth.RoleVisitor, user.Role)
		assert.Equal(t, user.ID, session.UserID)
		assert.NotEmpty(t, token)
	})

	t.Run("repeat exchange refreshes profile but keeps role", func(t *testing.T) {
		svc, userRepo, sessionRepo, exchanger := newService(t)

		existing, err := auth.NewGoogleUser("bob@example.com", "Old Name", "old.png")
		require.NoError(t, err)
		existing.Role = auth.RoleAdmin
		existing.Preferences = map[string]any{"theme": "dark"}

		exchanger.On("Exchange", ctx, "ext-session-2").Return(identity, nil)
		userRepo.On("GetByEmail", ctx, "bob@example.com").Return(existing, nil)
		userRepo.On("UpdateProfile", ctx, existing.ID, "Bob", "https://example.com/bob.png").Return(nil)
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*auth.Session")).Return(nil)

		user, _, _, err := svc.ExchangeSession(ctx, "ext-session-2")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
		assert.Equal(t, "Bob", user.Name)
		assert.Equal(t, auth.RoleAdmin, user.Role)
		assert.Equal(t, map[string]any{"theme": "dark"}, user.Preferences)
	})

	t.Run("empty session id is rejected", func(t *testing.T) {
		svc, _, _, _ := newService(t)

		_, _, _, err := svc.ExchangeSession(ctx, "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "OAUTH_SESSION_REQUIRED")
	})

	t.Run("provider rejection maps to invalid session", func(t *testing.T) {
		svc, _, _, exchanger := newService(t)

		exchanger.On("Exchange", ctx, "bad-session").Return(nil, auth.ErrInvalidExternalSession)

		_, _, _, err := svc.ExchangeSession(ctx, "bad-session")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "OAUTH_SESSION_INVALID")
	})

	t.Run("provider outage maps to exchange failure", func(t *testing.T) {
		svc, _, _, exchanger := newService(t)

		exchanger.On("Exchange", ctx, "ext-session-3").Return(nil, errors.New("upstream timeout"))

		_, _, _, err := svc.ExchangeSession(ctx, "ext-session-3")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "OAUTH_EXCHANGE_FAILED")
	})
}
