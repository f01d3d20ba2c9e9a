package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anonpost/internal/session"
	"github.com/anonpost/internal/store"
)

// Server is the optional ops endpoint: liveness, board totals and
// prometheus metrics. It exposes nothing user-facing and is meant to be
// bound to localhost or an internal network.
type Server struct {
	echo *echo.Echo
	addr string
}

// NewServer creates the ops server.
func NewServer(addr string, posts *store.Store, sessions *session.Manager, reg *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())

	server := &Server{
		echo: e,
		addr: addr,
	}

	server.setupRoutes(posts, sessions, reg)

	return server
}

// setupRoutes configures all ops endpoints
func (s *Server) setupRoutes(posts *store.Store, sessions *session.Manager, reg *prometheus.Registry) {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	s.echo.GET("/stats", func(c echo.Context) error {
		postCount, commentCount := posts.Totals()
		return c.JSON(http.StatusOK, map[string]int{
			"posts":         postCount,
			"comments":      commentCount,
			"live_sessions": sessions.Len(),
		})
	})

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}

// Start begins serving; it blocks until Shutdown or failure.
func (s *Server) Start() error {
	err := s.echo.Start(s.addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
