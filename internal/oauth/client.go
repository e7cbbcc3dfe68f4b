// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

// Package oauth talks to the external OAuth gateway that fronts Google
// sign-in. The gateway completes the provider dance and hands the frontend a
// short-lived session ID, which this client exchanges for profile claims.
package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/foliohq/folio/internal/auth"
)

const sessionDataPath = "/auth/v1/env/oauth/session-data"

// Client exchanges gateway session IDs for identity claims.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Exchange swaps an external session identifier for profile claims.
// A rejection from the gateway maps to auth.ErrInvalidExternalSession;
// transport failures and unexpected responses surface as plain errors.
func (c *Client) Exchange(ctx context.Context, externalSessionID string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+sessionDataPath, nil)
	if err != nil {
		return nil, oops.Code("OAUTH_REQUEST_FAILED").
			With("operation", "create session-data request").
			Wrap(err)
	}
	req.Header.Set("X-Session-ID", externalSessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oops.Code("OAUTH_REQUEST_FAILED").
			With("operation", "fetch session data").
			Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, oops.With("status", resp.StatusCode).Wrap(auth.ErrInvalidExternalSession)
	}

	var payload struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, oops.Code("OAUTH_DECODE_FAILED").
			With("operation", "decode session data").
			Wrap(err)
	}

	if payload.Email == "" {
		return nil, oops.Wrap(auth.ErrInvalidExternalSession)
	}

	return &auth.Identity{
		Email:   payload.Email,
		Name:    payload.Name,
		Picture: payload.Picture,
	}, nil
}

// Compile-time interface check.
var _ auth.IdentityExchanger = (*Client)(nil)
