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

	"github.com/foliohq/folio/internal/status"
)

func TestRepository_Create(t *testing.T) {
	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		check := &status.Check{ID: "chk_1", ClientName: "probe", Timestamp: time.Now().UTC()}
		mock.ExpectExec(`INSERT INTO status_checks`).
			WithArgs(check.ID, check.ClientName, check.Timestamp).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewRepository(mock)
		require.NoError(t, repo.Create(context.Background(), check))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		check := &status.Check{ID: "chk_1", ClientName: "probe", Timestamp: time.Now().UTC()}
		mock.ExpectExec(`INSERT INTO status_checks`).
			WithArgs(check.ID, check.ClientName, check.Timestamp).
			WillReturnError(errors.New("connection refused"))

		repo := NewRepository(mock)
		err = repo.Create(context.Background(), check)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_List(t *testing.T) {
	t.Run("returns checks", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		now := time.Now().UTC()
		rows := pgxmock.NewRows([]string{"id", "client_name", "created_at"}).
			AddRow("chk_2", "probe", now).
			AddRow("chk_1", "monitor", now.Add(-time.Minute))
		mock.ExpectQuery(`SELECT id, client_name, created_at`).
			WithArgs(50).
			WillReturnRows(rows)

		repo := NewRepository(mock)
		checks, err := repo.List(context.Background(), 50)
		require.NoError(t, err)
		require.Len(t, checks, 2)
		assert.Equal(t, "probe", checks[0].ClientName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, client_name, created_at`).
			WithArgs(50).
			WillReturnError(errors.New("connection refused"))

		repo := NewRepository(mock)
		_, err = repo.List(context.Background(), 50)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
