// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// sessionCookieName is the cookie carrying the opaque session token.
const sessionCookieName = "session_token"

// setSessionCookie attaches the session cookie to the response. The frontend
// lives on a different origin, so SameSite=None with Secure is required for
// the browser to send it back.
func setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
