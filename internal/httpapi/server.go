// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

// Package httpapi exposes the public JSON API.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/oops"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/contact"
	"github.com/foliohq/folio/internal/observability"
	"github.com/foliohq/folio/internal/status"
)

// Config carries the server's listen address and CORS policy.
type Config struct {
	Addr           string
	AllowedOrigins []string

	// ExposeResetToken echoes freshly minted password reset tokens in the
	// reset-request response. Development only; there is no mailer yet, so
	// this is how a local frontend completes the flow.
	ExposeResetToken bool
}

// Services bundles the application services the API fronts.
type Services struct {
	Auth     *auth.Service
	OAuth    *auth.OAuthService
	Reset    *auth.ResetService
	Contacts *contact.Service
	Statuses *status.Service
}

// Server is the public HTTP API server. All routes live under /api.
type Server struct {
	cfg      Config
	echo     *echo.Echo
	auth     *auth.Service
	oauth    *auth.OAuthService
	reset    *auth.ResetService
	contacts *contact.Service
	statuses *status.Service
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewServer creates the API server and registers all routes.
// metrics may be nil when observability is disabled.
func NewServer(cfg Config, svcs Services, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if svcs.Auth == nil || svcs.OAuth == nil || svcs.Reset == nil {
		return nil, oops.Errorf("auth services are required")
	}
	if svcs.Contacts == nil || svcs.Statuses == nil {
		return nil, oops.Errorf("contact and status services are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		cfg:      cfg,
		echo:     e,
		auth:     svcs.Auth,
		oauth:    svcs.OAuth,
		reset:    svcs.Reset,
		contacts: svcs.Contacts,
		statuses: svcs.Statuses,
		metrics:  metrics,
		logger:   logger,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))
	e.Use(s.recordMetrics)
	e.Use(s.resolveUser)

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.GET("", s.handleRoot)
	api.GET("/", s.handleRoot)

	api.POST("/status", s.handleCreateStatus)
	api.GET("/status", s.handleListStatus)
	api.POST("/contact", s.handleSubmitContact)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/session", s.handleOAuthSession)
	authGroup.POST("/logout", s.handleLogout)
	authGroup.POST("/password-reset-request", s.handleResetRequest)
	authGroup.POST("/password-reset-confirm", s.handleResetConfirm)
	authGroup.GET("/me", s.handleMe, requireAuth)
	authGroup.PUT("/preferences", s.handleUpdatePreferences, requireAuth)

	admin := api.Group("/admin", requireAdmin)
	admin.GET("/contacts", s.handleListContacts)
	admin.PUT("/contacts/:id", s.handleUpdateContact)
	admin.DELETE("/contacts/:id", s.handleDeleteContact)
	admin.GET("/users", s.handleListUsers)
	admin.PUT("/users/:id/role", s.handleToggleRole)
}

// recordMetrics counts finished requests by route and status. The matched
// route template keeps label cardinality bounded.
func (s *Server) recordMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if s.metrics != nil {
			code := c.Response().Status
			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					code = httpErr.Code
				}
			}
			s.metrics.HTTPRequestsTotal.
				WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(code)).
				Inc()
		}
		return err
	}
}

// Start begins serving the API. It returns an error channel that receives
// any errors from the HTTP server after it starts; the channel is closed
// when the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	errCh := make(chan error, 1)

	s.echo.Server.ReadHeaderTimeout = 10 * time.Second

	go func() {
		defer close(errCh)
		if err := s.echo.Start(s.cfg.Addr); err != nil && err != http.ErrServerClosed {
			s.logger.Error("api server error", "error", err)
			errCh <- err
		}
	}()

	s.logger.Info("api server started", "addr", s.cfg.Addr)
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return oops.With("operation", "shutdown api server").Wrap(err)
	}
	s.logger.Info("api server stopped")
	return nil
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Folio portfolio API"})
}
