// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/samber/oops"
)

// Role describes what a user is allowed to do.
type Role string

// Valid roles. Every new account starts as a visitor.
const (
	RoleAdmin   Role = "admin"
	RoleVisitor Role = "visitor"
)

// Provider identifies how an account authenticates.
type Provider string

// Valid auth providers.
const (
	ProviderEmail  Provider = "email"
	ProviderGoogle Provider = "google"
)

// emailRegex is a pragmatic address check: one @, no whitespace, a dot in
// the domain part. Deliverability is the mail system's problem, not ours.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail validates an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("invalid email address")
	}
	return nil
}

// User represents an account.
type User struct {
	ID           string
	Email        string
	Name         string
	Picture      string // empty if never set
	Role         Role
	PasswordHash string // empty for OAuth accounts
	Provider     Provider
	Preferences  map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewEmailUser creates a visitor account with email/password credentials.
func NewEmailUser(email, name, passwordHash string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, oops.Code("AUTH_INVALID_NAME").Errorf("name cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now().UTC()
	return &User{
		ID:           NewID("user"),
		Email:        email,
		Name:         name,
		Role:         RoleVisitor,
		PasswordHash: passwordHash,
		Provider:     ProviderEmail,
		Preferences:  map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewGoogleUser creates a visitor account from exchanged OAuth profile claims.
func NewGoogleUser(email, name, picture string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, oops.Code("AUTH_INVALID_NAME").Errorf("name cannot be empty")
	}

	now := time.Now().UTC()
	return &User{
		ID:          NewID("user"),
		Email:       email,
		Name:        name,
		Picture:     picture,
		Role:        RoleVisitor,
		Provider:    ProviderGoogle,
		Preferences: map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// View is the subset of a User that is safe to return to its owner or an
// admin. The password hash never leaves the server.
type View struct {
	UserID      string         `json:"user_id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Picture     string         `json:"picture,omitempty"`
	Role        Role           `json:"role"`
	Provider    Provider       `json:"auth_provider"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// View redacts a User down to its public representation.
func (u *User) View() View {
	prefs := u.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	return View{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Picture:     u.Picture,
		Role:        u.Role,
		Provider:    u.Provider,
		Preferences: prefs,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns an error wrapping ErrEmailTaken
	// when the email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email (exact match on the stored value).
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List retrieves up to limit users ordered by creation time.
	List(ctx context.Context, limit int) ([]*User, error)

	// UpdatePassword replaces the password hash and bumps updated_at.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdatePreferences replaces the whole preferences bag and bumps updated_at.
	UpdatePreferences(ctx context.Context, id string, prefs map[string]any) error

	// UpdateRole sets the role and bumps updated_at.
	UpdateRole(ctx context.Context, id string, role Role) error

	// UpdateProfile refreshes name and picture from an OAuth exchange and
	// bumps updated_at. Role and preferences are untouched.
	UpdateProfile(ctx context.Context, id, name, picture string) error
}
