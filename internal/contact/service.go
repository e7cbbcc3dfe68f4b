// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package contact

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Service provides contact form operations. Submission is public; listing,
// read-marking and deletion are admin surface.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(repo Repository, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.Errorf("contact repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}, nil
}

// Submit validates and stores a contact form message.
func (s *Service) Submit(ctx context.Context, name, email, phone, subject, message string) (*Submission, error) {
	sub, err := NewSubmission(name, email, phone, subject, message)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, oops.Code("CONTACT_SUBMIT_FAILED").
			With("operation", "create submission").
			Wrap(err)
	}

	s.logger.Info("new contact submission", "submission_id", sub.ID, "email", sub.Email)
	return sub, nil
}

// List returns up to limit submissions, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*Submission, error) {
	subs, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, oops.Code("CONTACT_LIST_FAILED").
			With("operation", "list submissions").
			Wrap(err)
	}
	return subs, nil
}

// SetRead marks a submission read or unread.
func (s *Service) SetRead(ctx context.Context, id string, read bool) error {
	if err := s.repo.SetRead(ctx, id, read); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("CONTACT_NOT_FOUND").Errorf("contact not found")
		}
		return oops.Code("CONTACT_UPDATE_FAILED").
			With("operation", "set read flag").
			With("submission_id", id).
			Wrap(err)
	}
	return nil
}

// Delete removes a submission.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("CONTACT_NOT_FOUND").Errorf("contact not found")
		}
		return oops.Code("CONTACT_DELETE_FAILED").
			With("operation", "delete submission").
			With("submission_id", id).
			Wrap(err)
	}
	return nil
}
