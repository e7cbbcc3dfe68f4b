// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/oauth"
)

func TestClient_Exchange(t *testing.T) {
	ctx := context.Background()

	t.Run("successful exchange returns identity", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/env/oauth/session-data", r.URL.Path)
			assert.Equal(t, "ext-session-1", r.Header.Get("X-Session-ID"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"email":"bob@example.com","name":"Bob","picture":"https://example.com/bob.png"}`))
		}))
		defer srv.Close()

		client := oauth.NewClient(srv.URL)
		identity, err := client.Exchange(ctx, "ext-session-1")
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", identity.Email)
		assert.Equal(t, "Bob", identity.Name)
		assert.Equal(t, "https://example.com/bob.png", identity.Picture)
	})

	t.Run("non-200 maps to invalid external session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := oauth.NewClient(srv.URL)
		_, err := client.Exchange(ctx, "bad-session")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidExternalSession)
	})

	t.Run("missing email in payload is invalid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"name":"Bob"}`))
		}))
		defer srv.Close()

		client := oauth.NewClient(srv.URL)
		_, err := client.Exchange(ctx, "ext-session-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidExternalSession)
	})

	t.Run("malformed payload is a decode failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		client := oauth.NewClient(srv.URL)
		_, err := client.Exchange(ctx, "ext-session-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidExternalSession)
	})

	t.Run("unreachable gateway is a transport failure", func(t *testing.T) {
		client := oauth.NewClient("http://127.0.0.1:1")
		_, err := client.Exchange(ctx, "ext-session-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidExternalSession)
	})
}
