// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/auth/postgres"
)

// seedReset stores a reset token for a fresh user.
func seedReset(t *testing.T) (*auth.User, *auth.PasswordResetToken) {
	t.Helper()
	users := postgres.NewUserRepository(testPool)
	resets := postgres.NewResetTokenRepository(testPool)

	user := seedUser(t, users)
	_, tokenHash, err := auth.GenerateToken()
	require.NoError(t, err)
	reset, err := auth.NewPasswordResetToken(user.ID, tokenHash)
	require.NoError(t, err)
	require.NoError(t, resets.Create(context.Background(), reset))
	return user, reset
}

func TestResetTokenRepository_GetByTokenHash(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewResetTokenRepository(testPool)

	user, reset := seedReset(t)

	got, err := repo.GetByTokenHash(ctx, reset.TokenHash)
	require.NoError(t, err)
	assert.Equal(t, reset.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)
	assert.False(t, got.Used)

	_, err = repo.GetByTokenHash(ctx, "missing-hash")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestResetTokenRepository_MarkUsed(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewResetTokenRepository(testPool)

	_, reset := seedReset(t)

	require.NoError(t, repo.MarkUsed(ctx, reset.ID))

	got, err := repo.GetByTokenHash(ctx, reset.TokenHash)
	require.NoError(t, err)
	assert.True(t, got.Used)

	// The conditional write fires exactly once.
	err = repo.MarkUsed(ctx, reset.ID)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestResetTokenRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewResetTokenRepository(testPool)

	_, live := seedReset(t)
	_, expired := seedReset(t)

	_, err := testPool.Exec(ctx,
		"UPDATE password_reset_tokens SET expires_at = $1 WHERE id = $2",
		time.Now().Add(-time.Hour), expired.ID)
	require.NoError(t, err)

	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))

	_, err = repo.GetByTokenHash(ctx, expired.TokenHash)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	_, err = repo.GetByTokenHash(ctx, live.TokenHash)
	assert.NoError(t, err)
}
