// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// ListUsers returns up to limit users for the admin panel.
func (s *Service) ListUsers(ctx context.Context, limit int) ([]*User, error) {
	users, err := s.users.List(ctx, limit)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	return users, nil
}

// ToggleRole flips the target user between admin and visitor. An admin can
// never change their own role, so the instance always keeps at least the
// acting admin.
func (s *Service) ToggleRole(ctx context.Context, actorID, targetID string) (Role, error) {
	if actorID == targetID {
		return "", oops.Code("ADMIN_SELF_ROLE").Errorf("cannot change your own role")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", oops.Code("USER_NOT_FOUND").Errorf("user not found")
		}
		return "", oops.Code("ADMIN_ROLE_FAILED").
			With("operation", "get target user").
			With("user_id", targetID).
			Wrap(err)
	}

	newRole := RoleAdmin
	if target.Role == RoleAdmin {
		newRole = RoleVisitor
	}

	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", oops.Code("USER_NOT_FOUND").Errorf("user not found")
		}
		return "", oops.Code("ADMIN_ROLE_FAILED").
			With("operation", "update role").
			With("user_id", targetID).
			Wrap(err)
	}

	s.logger.Info("user role toggled", "actor_id", actorID, "user_id", targetID, "new_role", newRole)
	return newRole, nil
}
