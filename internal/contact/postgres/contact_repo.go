// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

// Package postgres implements contact persistence on PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/foliohq/folio/internal/contact"
)

// poolIface is the subset of pgxpool.Pool the repository uses, abstracted so
// tests can substitute pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements contact.Repository using PostgreSQL.
type Repository struct {
	pool poolIface
}

// NewRepository creates a new contact Repository.
func NewRepository(pool poolIface) *Repository {
	return &Repository{pool: pool}
}

// Create stores a new submission.
func (r *Repository) Create(ctx context.Context, sub *contact.Submission) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contact_submissions (
			id, name, email, phone, subject, message, read, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		sub.ID,
		sub.Name,
		sub.Email,
		sub.Phone,
		sub.Subject,
		sub.Message,
		sub.Read,
		sub.CreatedAt,
	)
	if err != nil {
		return oops.Code("CONTACT_CREATE_FAILED").
			With("operation", "insert submission").
			With("id", sub.ID).
			Wrap(err)
	}
	return nil
}

// List retrieves up to limit submissions, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]*contact.Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone, subject, message, read, created_at
		FROM contact_submissions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("CONTACT_LIST_FAILED").
			With("operation", "list submissions").
			Wrap(err)
	}
	defer rows.Close()

	var subs []*contact.Submission
	for rows.Next() {
		var sub contact.Submission
		if err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.Email,
			&sub.Phone,
			&sub.Subject,
			&sub.Message,
			&sub.Read,
			&sub.CreatedAt,
		); err != nil {
			return nil, oops.Code("CONTACT_LIST_FAILED").
				With("operation", "scan submission row").
				Wrap(err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CONTACT_LIST_FAILED").
			With("operation", "iterate submission rows").
			Wrap(err)
	}
	return subs, nil
}

// SetRead updates the read flag on a submission.
func (r *Repository) SetRead(ctx context.Context, id string, read bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE contact_submissions SET read = $2 WHERE id = $1
	`, id, read)
	if err != nil {
		return oops.Code("CONTACT_SET_READ_FAILED").
			With("operation", "update read flag").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CONTACT_NOT_FOUND").
			With("id", id).
			Wrap(contact.ErrNotFound)
	}
	return nil
}

// Delete removes a submission.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM contact_submissions WHERE id = $1
	`, id)
	if err != nil {
		return oops.Code("CONTACT_DELETE_FAILED").
			With("operation", "delete submission").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CONTACT_NOT_FOUND").
			With("id", id).
			Wrap(contact.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ contact.Repository = (*Repository)(nil)
