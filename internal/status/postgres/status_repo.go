// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

// Package postgres implements status check persistence on PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/foliohq/folio/internal/status"
)

// poolIface is the subset of pgxpool.Pool the repository uses, abstracted so
// tests can substitute pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements status.Repository using PostgreSQL.
type Repository struct {
	pool poolIface
}

// NewRepository creates a new status Repository.
func NewRepository(pool poolIface) *Repository {
	return &Repository{pool: pool}
}

// Create stores a new check.
func (r *Repository) Create(ctx context.Context, check *status.Check) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO status_checks (id, client_name, created_at)
		VALUES ($1, $2, $3)
	`, check.ID, check.ClientName, check.Timestamp)
	if err != nil {
		return oops.Code("STATUS_CREATE_FAILED").
			With("operation", "insert status check").
			With("id", check.ID).
			Wrap(err)
	}
	return nil
}

// List retrieves up to limit checks, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]*status.Check, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_name, created_at
		FROM status_checks
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("STATUS_LIST_FAILED").
			With("operation", "list status checks").
			Wrap(err)
	}
	defer rows.Close()

	var checks []*status.Check
	for rows.Next() {
		var check status.Check
		if err := rows.Scan(&check.ID, &check.ClientName, &check.Timestamp); err != nil {
			return nil, oops.Code("STATUS_LIST_FAILED").
				With("operation", "scan status check row").
				Wrap(err)
		}
		checks = append(checks, &check)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STATUS_LIST_FAILED").
			With("operation", "iterate status check rows").
			Wrap(err)
	}
	return checks, nil
}

// Compile-time interface check.
var _ status.Repository = (*Repository)(nil)
