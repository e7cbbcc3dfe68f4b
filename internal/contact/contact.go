// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

// Package contact handles contact form submissions.
package contact

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	"github.com/foliohq/folio/internal/auth"
)

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("not found")

// Submission is a message left through the public contact form.
type Submission struct {
	ID        string
	Name      string
	Email     string
	Phone     string // optional
	Subject   string // optional
	Message   string
	Read      bool
	CreatedAt time.Time
}

// NewSubmission creates a validated Submission. Phone and subject may be empty.
func NewSubmission(name, email, phone, subject, message string) (*Submission, error) {
	if name == "" {
		return nil, oops.Code("CONTACT_INVALID_NAME").Errorf("name cannot be empty")
	}
	if err := auth.ValidateEmail(email); err != nil {
		return nil, oops.Code("CONTACT_INVALID_EMAIL").Errorf("invalid email address")
	}
	if message == "" {
		return nil, oops.Code("CONTACT_INVALID_MESSAGE").Errorf("message cannot be empty")
	}

	return &Submission{
		ID:        auth.NewID("cnt"),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Repository manages submission persistence.
type Repository interface {
	// Create stores a new submission.
	Create(ctx context.Context, sub *Submission) error

	// List retrieves up to limit submissions ordered by creation time,
	// newest first.
	List(ctx context.Context, limit int) ([]*Submission, error)

	// SetRead updates the read flag on a submission.
	SetRead(ctx context.Context, id string, read bool) error

	// Delete removes a submission.
	Delete(ctx context.Context, id string) error
}
