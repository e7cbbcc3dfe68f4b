// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

// Package auth provides the authentication core for the portfolio backend.
//
// # Domain Types
//
// Domain types (User, Session, PasswordResetToken) should be created using
// their respective constructors:
//   - NewEmailUser / NewGoogleUser - create a User with a validated email and provider
//   - NewSession - creates a Session with a validated owner and expiry
//   - NewPasswordResetToken - creates a reset token with the fixed 1-hour expiry
//
// Direct struct initialization bypasses validation and may create invalid state.
// Repository implementations receive pre-validated types from these constructors.
//
// # Services
//
// Service types coordinate domain operations:
//   - Service - registration, login, session resolution, logout, preferences
//   - OAuthService - external identity exchange and account upsert
//   - ResetService - password reset request and confirmation
//
// Services are created with New* constructors that validate dependencies.
//
// Opaque credentials (session and reset tokens) are stored hashed; only the
// SHA-256 digest of a token ever reaches the persistence layer.
package auth
