// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

// Package status records client status check pings.
package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/foliohq/folio/internal/auth"
)

// Check is one recorded status ping from a named client.
type Check struct {
	ID         string
	ClientName string
	Timestamp  time.Time
}

// Repository manages status check persistence.
type Repository interface {
	// Create stores a new check.
	Create(ctx context.Context, check *Check) error

	// List retrieves up to limit checks ordered by timestamp, newest first.
	List(ctx context.Context, limit int) ([]*Check, error)
}

// Service provides status check operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(repo Repository, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.Errorf("status repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}, nil
}

// Record stores a status check for the named client.
func (s *Service) Record(ctx context.Context, clientName string) (*Check, error) {
	if clientName == "" {
		return nil, oops.Code("STATUS_INVALID_CLIENT").Errorf("client name cannot be empty")
	}

	check := &Check{
		ID:         auth.NewID("chk"),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, check); err != nil {
		return nil, oops.Code("STATUS_RECORD_FAILED").
			With("operation", "create status check").
			Wrap(err)
	}
	return check, nil
}

// List returns up to limit checks, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*Check, error) {
	checks, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, oops.Code("STATUS_LIST_FAILED").
			With("operation", "list status checks").
			Wrap(err)
	}
	return checks, nil
}
