// package server contains middleware & handlers for the book tracking web service
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/auth"
	"github.com/desertthunder/shelf/internal/library"
	"github.com/desertthunder/shelf/internal/services"
	"github.com/desertthunder/shelf/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the book tracking service.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the method patterns this handler serves, e.g. "GET /books"
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Deps are the collaborators a [Server] routes requests to.
type Deps struct {
	Config  *shared.Config
	DB      *sql.DB
	Auth    *auth.Service
	Library *library.Service
	Catalog services.Catalog
	Logger  *log.Logger
}

// Server is the shelf HTTP API.
type Server struct {
	cfg     shared.ServerConfig
	router  Router
	metrics *Metrics
	logger  *log.Logger
	http    *http.Server
}

// New wires middleware and handlers onto a [BasicRouter].
func New(deps Deps) *Server {
	logger := shared.WithLogger(deps.Logger, "component", "http")
	metrics := NewMetrics()

	router := NewBasicRouter()
	router.Use(
		Recover(logger),
		Logging(logger),
		Instrument(metrics),
		Session(deps.Auth, deps.Config.Auth.CookieName, logger),
	)

	router.Handler(NewHealthHandler(deps.DB, logger))
	router.Handle(http.MethodGet, "/metrics", metrics.Handler())
	router.Handler(NewAuthHandler(deps.Auth, deps.Config.Auth, logger))
	router.Handler(NewBookHandler(deps.Library, logger))
	router.Handler(NewActivityHandler(deps.Library, logger))
	router.Handler(NewCatalogHandler(deps.Catalog, logger))

	s := &Server{
		cfg:     deps.Config.Server,
		router:  router,
		metrics: metrics,
		logger:  logger,
	}
	s.http = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      router,
		ReadTimeout:  s.cfg.ReadTimeout.Duration,
		WriteTimeout: s.cfg.WriteTimeout.Duration,
		IdleTimeout:  s.cfg.IdleTimeout.Duration,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start serves on the configured address until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
