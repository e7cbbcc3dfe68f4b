// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when creating a user with an email that is
// already registered. Repositories map the database uniqueness violation
// to this sentinel.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidExternalSession is returned by identity exchangers when the
// upstream provider rejects the presented external session identifier.
var ErrInvalidExternalSession = errors.New("invalid external session")
