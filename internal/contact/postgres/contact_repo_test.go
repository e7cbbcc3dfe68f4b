// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/contact"
)

func TestRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface, sub *contact.Submission)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface, sub *contact.Submission) {
				mock.ExpectExec(`INSERT INTO contact_submissions`).
					WithArgs(sub.ID, sub.Name, sub.Email, sub.Phone, sub.Subject,
						sub.Message, sub.Read, sub.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface, sub *contact.Submission) {
				mock.ExpectExec(`INSERT INTO contact_submissions`).
					WithArgs(sub.ID, sub.Name, sub.Email, sub.Phone, sub.Subject,
						sub.Message, sub.Read, sub.CreatedAt).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
			errMsg:  "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			sub, err := contact.NewSubmission("Alice", "alice@example.com", "", "Hello", "Hi there")
			require.NoError(t, err)

			tt.setupMock(mock, sub)

			repo := NewRepository(mock)
			err = repo.Create(context.Background(), sub)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestRepository_List(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns submissions newest first",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{
					"id", "name", "email", "phone", "subject", "message", "read", "created_at",
				}).
					AddRow("cnt_2", "Bob", "bob@example.com", "", "", "Later", false, now).
					AddRow("cnt_1", "Alice", "alice@example.com", "555", "Hi", "Earlier", true, now.Add(-time.Hour))
				mock.ExpectQuery(`SELECT id, name, email, phone, subject, message, read, created_at`).
					WithArgs(100).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "empty table",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{
					"id", "name", "email", "phone", "subject", "message", "read", "created_at",
				})
				mock.ExpectQuery(`SELECT id, name, email, phone, subject, message, read, created_at`).
					WithArgs(100).
					WillReturnRows(rows)
			},
			wantLen: 0,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, name, email, phone, subject, message, read, created_at`).
					WithArgs(100).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewRepository(mock)
			subs, err := repo.List(context.Background(), 100)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, subs, tt.wantLen)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestRepository_SetRead(t *testing.T) {
	t.Run("marks submission read", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE contact_submissions SET read`).
			WithArgs("cnt_1", true).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewRepository(mock)
		require.NoError(t, repo.SetRead(context.Background(), "cnt_1", true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing submission maps to not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE contact_submissions SET read`).
			WithArgs("cnt_missing", false).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewRepository(mock)
		err = repo.SetRead(context.Background(), "cnt_missing", false)
		require.Error(t, err)
		assert.ErrorIs(t, err, contact.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Delete(t *testing.T) {
	t.Run("deletes submission", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM contact_submissions`).
			WithArgs("cnt_1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewRepository(mock)
		require.NoError(t, repo.Delete(context.Background(), "cnt_1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing submission maps to not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM contact_submissions`).
			WithArgs("cnt_missing").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewRepository(mock)
		err = repo.Delete(context.Background(), "cnt_missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, contact.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
