// Package httpapi serves the read/auth/preferences surface on top of the
// records the ingestion pipeline produces.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

const userIDKey = "userID"

// ServerDeps wires the stores and the token manager into the API server.
type ServerDeps struct {
	Articles    ports.ArticleReader
	Users       ports.UserStore
	Preferences ports.PreferenceStore
	Tokens      *TokenManager
	Logger      *slog.Logger
}

// Server is the echo-based HTTP API.
type Server struct {
	echo        *echo.Echo
	articles    ports.ArticleReader
	users       ports.UserStore
	preferences ports.PreferenceStore
	tokens      *TokenManager
	logger      *slog.Logger
}

// NewServer builds the router with all routes registered.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:        e,
		articles:    deps.Articles,
		users:       deps.Users,
		preferences: deps.Preferences,
		tokens:      deps.Tokens,
		logger:      logger,
	}

	api := e.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/password-reset", s.passwordReset)

	authed := api.Group("", s.requireAuth)
	authed.POST("/logout", s.logout)
	authed.GET("/articles", s.listArticles)
	authed.GET("/articles/:id", s.getArticle)
	authed.GET("/preferences", s.getPreferences)
	authed.POST("/preferences", s.savePreferences)
	authed.GET("/news-feed", s.newsFeed)

	return s
}

// Start begins serving on addr; blocks until shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		userID, err := s.tokens.Validate(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func currentUserID(c echo.Context) int64 {
	id, _ := c.Get(userIDKey).(int64)
	return id
}
