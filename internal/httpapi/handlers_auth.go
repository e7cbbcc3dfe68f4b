// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// countAuth records an authentication attempt when metrics are enabled.
func (s *Server) countAuth(method string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.metrics.AuthAttemptsTotal.WithLabelValues(method, outcome).Inc()
}

// countSession records a minted session by provider when metrics are enabled.
func (s *Server) countSession(provider string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SessionsCreatedTotal.WithLabelValues(provider).Inc()
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type oauthSessionRequest struct {
	SessionID string `json:"session_id"`
}

type preferencesRequest struct {
	Preferences map[string]any `json:"preferences"`
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	user, session, token, err := s.auth.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	s.countAuth("register", err)
	if err != nil {
		return respondError(c, err)
	}

	s.countSession("email")
	setSessionCookie(c, token, session.MaxAge())
	return c.JSON(http.StatusOK, user.View())
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	user, session, token, err := s.auth.Login(c.Request().Context(), req.Email, req.Password, req.RememberMe)
	s.countAuth("login", err)
	if err != nil {
		return respondError(c, err)
	}

	s.countSession("email")
	setSessionCookie(c, token, session.MaxAge())
	return c.JSON(http.StatusOK, user.View())
}

func (s *Server) handleOAuthSession(c echo.Context) error {
	var req oauthSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	user, session, token, err := s.oauth.ExchangeSession(c.Request().Context(), req.SessionID)
	s.countAuth("oauth", err)
	if err != nil {
		return respondError(c, err)
	}

	s.countSession("google")
	setSessionCookie(c, token, session.MaxAge())
	return c.JSON(http.StatusOK, user.View())
}

// handleLogout deletes the presented session and clears the cookie. Always
// succeeds, even without a session.
func (s *Server) handleLogout(c echo.Context) error {
	if err := s.auth.Logout(c.Request().Context(), sessionToken(c)); err != nil {
		return respondError(c, err)
	}
	clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c).View())
}

func (s *Server) handleUpdatePreferences(c echo.Context) error {
	var req preferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	user := currentUser(c)
	if err := s.auth.UpdatePreferences(c.Request().Context(), user.ID, req.Preferences); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Preferences updated"})
}

// handleResetRequest answers identically whether or not the email matches an
// account, so this endpoint cannot be used to enumerate users.
func (s *Server) handleResetRequest(c echo.Context) error {
	var req resetRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	token, err := s.reset.RequestReset(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}

	resp := map[string]string{
		"message": "If an account exists, a reset link has been sent",
	}
	if token != "" && s.cfg.ExposeResetToken {
		resp["reset_token"] = token
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleResetConfirm(c echo.Context) error {
	var req resetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
	}

	if err := s.reset.ConfirmReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password has been reset"})
}
