// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/foliohq/folio/internal/auth"
)

// userContextKey is the echo context key holding the resolved *auth.User.
const userContextKey = "folio.user"

// sessionToken extracts the presented session token: cookie first, then
// Authorization: Bearer. Returns "" when neither is present.
func sessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

// currentUser returns the resolved user from the request context, or nil.
func currentUser(c echo.Context) *auth.User {
	user, _ := c.Get(userContextKey).(*auth.User)
	return user
}

// resolveUser resolves the session token on every request and stashes the
// user in the context. Resolution failures are not errors here; the request
// simply proceeds unauthenticated and the gates below decide.
func (s *Server) resolveUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := sessionToken(c)
		if token != "" {
			if user, err := s.auth.Resolve(c.Request().Context(), token); err == nil {
				c.Set(userContextKey, user)
			}
		}
		return next(c)
	}
}

// requireAuth rejects unauthenticated requests with 401.
func requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUser(c) == nil {
			return c.JSON(http.StatusUnauthorized, errorBody{Detail: "Not authenticated"})
		}
		return next(c)
	}
}

// requireAdmin rejects unauthenticated requests with 401 and authenticated
// non-admins with 403.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		if user == nil {
			return c.JSON(http.StatusUnauthorized, errorBody{Detail: "Not authenticated"})
		}
		if !user.IsAdmin() {
			return c.JSON(http.StatusForbidden, errorBody{Detail: "Admin access required"})
		}
		return next(c)
	}
}
