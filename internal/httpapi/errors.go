// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/oops"

	"github.com/foliohq/folio/pkg/errutil"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// codeStatus maps service error codes to HTTP status codes. Codes not listed
// here are treated as internal errors.
var codeStatus = map[string]int{
	"AUTH_INVALID_EMAIL":      http.StatusBadRequest,
	"AUTH_INVALID_NAME":       http.StatusBadRequest,
	"AUTH_EMPTY_PASSWORD":     http.StatusBadRequest,
	"AUTH_EMAIL_TAKEN":        http.StatusBadRequest,
	"AUTH_WRONG_PROVIDER":     http.StatusBadRequest,
	"AUTH_INVALID_CREDENTIALS": http.StatusUnauthorized,
	"SESSION_INVALID":         http.StatusUnauthorized,
	"SESSION_EXPIRED":         http.StatusUnauthorized,
	"OAUTH_SESSION_REQUIRED":  http.StatusBadRequest,
	"OAUTH_SESSION_INVALID":   http.StatusUnauthorized,
	"RESET_TOKEN_INVALID":     http.StatusBadRequest,
	"RESET_TOKEN_EXPIRED":     http.StatusBadRequest,
	"RESET_PASSWORD_EMPTY":    http.StatusBadRequest,
	"ADMIN_SELF_ROLE":         http.StatusBadRequest,
	"USER_NOT_FOUND":          http.StatusNotFound,
	"CONTACT_NOT_FOUND":       http.StatusNotFound,
	"CONTACT_INVALID_NAME":    http.StatusBadRequest,
	"CONTACT_INVALID_EMAIL":   http.StatusBadRequest,
	"CONTACT_INVALID_MESSAGE": http.StatusBadRequest,
	"STATUS_INVALID_CLIENT":   http.StatusBadRequest,
}

// respondError converts a service error into a JSON response. Internal
// errors are logged with full context and answered with a generic message so
// implementation details never leak.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	detail := "Internal server error"

	if oopsErr, ok := oops.AsOops(err); ok {
		if code, isString := oopsErr.Code().(string); isString {
			if mapped, known := codeStatus[code]; known {
				status = mapped
				detail = oopsErr.Error()
			}
		}
	}

	if status == http.StatusInternalServerError {
		errutil.LogError(slog.Default(), "request failed", err)
	}

	return c.JSON(status, errorBody{Detail: detail})
}
