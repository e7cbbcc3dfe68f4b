// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/foliohq/folio/internal/status"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type statusRequest struct {
	ClientName string `json:"client_name"`
}

type checkView struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

func viewCheck(check *status.Check) checkView {
	return checkView{
		ID:         check.ID,
		ClientName: check.ClientName,
		Timestamp:  check.Timestamp,
	}
}

func (s *Server) handleSubmitContact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	sub, err := s.contacts.Submit(c.Request().Context(), req.Name, req.Email, req.Phone, req.Subject, req.Message)
	if err != nil {
		return respondError(c, err)
	}

	if s.metrics != nil {
		s.metrics.ContactSubmissionsTotal.Inc()
	}
	return c.JSON(http.StatusOK, viewSubmission(sub))
}

func (s *Server) handleCreateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	check, err := s.statuses.Record(c.Request().Context(), req.ClientName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, viewCheck(check))
}

func (s *Server) handleListStatus(c echo.Context) error {
	checks, err := s.statuses.List(c.Request().Context(), listLimit)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]checkView, 0, len(checks))
	for _, check := range checks {
		views = append(views, viewCheck(check))
	}
	return c.JSON(http.StatusOK, views)
}
