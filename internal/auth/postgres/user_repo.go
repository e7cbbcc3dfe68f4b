// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/foliohq/folio/internal/auth"
)

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create stores a new user. A unique violation on the email column maps to
// auth.ErrEmailTaken so callers can distinguish the duplicate race.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	prefsJSON, err := json.Marshal(user.Preferences)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "marshal preferences").
			Wrap(err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (
			id, email, name, picture, role, password_hash,
			auth_provider, preferences, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		user.ID,
		user.Email,
		user.Name,
		user.Picture,
		string(user.Role),
		user.PasswordHash,
		string(user.Provider),
		prefsJSON,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_EMAIL_TAKEN").
				With("email", user.Email).
				Wrap(auth.ErrEmailTaken)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("id", user.ID).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, name, picture, role, password_hash,
		       auth_provider, preferences, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	user, err := r.scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id).
			Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email (exact match).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, name, picture, role, password_hash,
		       auth_provider, preferences, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	user, err := r.scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").
			With("operation", "get user by email").
			With("email", email).
			Wrap(err)
	}
	return user, nil
}

// List retrieves up to limit users ordered by creation time, newest first.
func (r *UserRepository) List(ctx context.Context, limit int) ([]*auth.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, name, picture, role, password_hash,
		       auth_provider, preferences, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, oops.Code("USER_LIST_FAILED").
				With("operation", "scan user row").
				Wrap(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_LIST_FAILED").
			With("operation", "iterate user rows").
			Wrap(err)
	}
	return users, nil
}

// UpdatePassword updates only the password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`, id, passwordHash, time.Now().UTC())
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdatePreferences replaces the preferences bag for a user.
func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, prefs map[string]any) error {
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return oops.Code("USER_UPDATE_PREFERENCES_FAILED").
			With("operation", "marshal preferences").
			Wrap(err)
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE users SET preferences = $2, updated_at = $3
		WHERE id = $1
	`, id, prefsJSON, time.Now().UTC())
	if err != nil {
		return oops.Code("USER_UPDATE_PREFERENCES_FAILED").
			With("operation", "update preferences").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdateRole sets the role for a user.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role auth.Role) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE users SET role = $2, updated_at = $3
		WHERE id = $1
	`, id, string(role), time.Now().UTC())
	if err != nil {
		return oops.Code("USER_UPDATE_ROLE_FAILED").
			With("operation", "update role").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdateProfile refreshes name and picture from an OAuth exchange.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, picture string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE users SET name = $2, picture = $3, updated_at = $4
		WHERE id = $1
	`, id, name, picture, time.Now().UTC())
	if err != nil {
		return oops.Code("USER_UPDATE_PROFILE_FAILED").
			With("operation", "update profile").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanUser scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *UserRepository) scanUser(row pgx.Row) (*auth.User, error) {
	var (
		id           string
		email        string
		name         string
		picture      string
		role         string
		passwordHash string
		provider     string
		prefsJSON    []byte
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(
		&id,
		&email,
		&name,
		&picture,
		&role,
		&passwordHash,
		&provider,
		&prefsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	prefs := map[string]any{}
	if len(prefsJSON) > 0 {
		if err := json.Unmarshal(prefsJSON, &prefs); err != nil {
			return nil, oops.Code("USER_INVALID_PREFERENCES").
				With("operation", "unmarshal preferences").
				Wrap(err)
		}
	}

	return &auth.User{
		ID:           id,
		Email:        email,
		Name:         name,
		Picture:      picture,
		Role:         auth.Role(role),
		PasswordHash: passwordHash,
		Provider:     auth.Provider(provider),
		Preferences:  prefs,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)
