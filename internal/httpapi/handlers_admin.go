// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/contact"
)

// listLimit caps admin listing endpoints.
const listLimit = 1000

type contactUpdateRequest struct {
	Read bool `json:"read"`
}

type submissionView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func viewSubmission(sub *contact.Submission) submissionView {
	return submissionView{
		ID:        sub.ID,
		Name:      sub.Name,
		Email:     sub.Email,
		Phone:     sub.Phone,
		Subject:   sub.Subject,
		Message:   sub.Message,
		Read:      sub.Read,
		CreatedAt: sub.CreatedAt,
	}
}

func (s *Server) handleListContacts(c echo.Context) error {
	subs, err := s.contacts.List(c.Request().Context(), listLimit)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]submissionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, viewSubmission(sub))
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) handleUpdateContact(c echo.Context) error {
	var req contactUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	if err := s.contacts.SetRead(c.Request().Context(), c.Param("id"), req.Read); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Contact updated"})
}

func (s *Server) handleDeleteContact(c echo.Context) error {
	if err := s.contacts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Contact deleted"})
}

// handleListUsers returns every account's redacted view. Password hashes
// never appear here.
func (s *Server) handleListUsers(c echo.Context) error {
	users, err := s.auth.ListUsers(c.Request().Context(), listLimit)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]auth.View, 0, len(users))
	for _, user := range users {
		views = append(views, user.View())
	}
	return c.JSON(http.StatusOK, views)
}

// handleToggleRole flips the target between admin and visitor. Admins cannot
// change their own role.
func (s *Server) handleToggleRole(c echo.Context) error {
	actor := currentUser(c)

	role, err := s.auth.ToggleRole(c.Request().Context(), actor.ID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Role updated",
		"new_role": string(role),
	})
}
