// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/auth"
)

func TestNewEmailUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		user, err := auth.NewEmailUser("alice@example.com", "Alice", "$argon2id$hash")
		require.NoError(t, err)
		assert.True(t, len(user.ID) > 5 && user.ID[:5] == "user_")
		assert.Equal(t, auth.RoleVisitor, user.Role)
		assert.Equal(t, auth.ProviderEmail, user.Provider)
		assert.NotNil(t, user.Preferences)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		_, err := auth.NewEmailUser("not-an-email", "Alice", "hash")
		require.Error(t, err)
	})
}

func TestNewGoogleUser(t *testing.T) {
	user, err := auth.NewGoogleUser("bob@example.com", "Bob", "https://example.com/pic.png")
	require.NoError(t, err)
	assert.Equal(t, auth.ProviderGoogle, user.Provider)
	assert.Equal(t, auth.RoleVisitor, user.Role)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "https://example.com/pic.png", user.Picture)
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "x@sub.domain.org"}
	for _, email := range valid {
		assert.NoError(t, auth.ValidateEmail(email), email)
	}

	invalid := []string{"", "plain", "@example.com", "a@", "a b@example.com"}
	for _, email := range invalid {
		assert.Error(t, auth.ValidateEmail(email), email)
	}
}

func TestUser_IsAdmin(t *testing.T) {
	user, err := auth.NewEmailUser("alice@example.com", "Alice", "hash")
	require.NoError(t, err)
	assert.False(t, user.IsAdmin())

	user.Role = auth.RoleAdmin
	assert.True(t, user.IsAdmin())
}

func TestUser_View(t *testing.T) {
	user, err := auth.NewEmailUser("alice@example.com", "Alice", "secret-hash")
	require.NoError(t, err)
	user.Preferences = map[string]any{"theme": "dark"}

	view := user.View()

	data, err := json.Marshal(view)
	require.NoError(t, err)

	// The password hash must never appear in serialized output.
	assert.NotContains(t, string(data), "secret-hash")
	assert.NotContains(t, string(data), "password")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, user.ID, decoded["user_id"])
	assert.Equal(t, "alice@example.com", decoded["email"])
	assert.Equal(t, "visitor", decoded["role"])
	assert.Equal(t, "email", decoded["auth_provider"])
	assert.Equal(t, map[string]any{"theme": "dark"}, decoded["preferences"])
}
