package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr          string
	dispatchToken string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithDispatchToken sets the bearer token required by the dispatch endpoint
func WithDispatchToken(token string) Option {
	return func(c *config) {
		c.dispatchToken = token
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates the HTTP surface for serve mode: a health check and a
// manual dispatch endpoint.
func NewServer(
	ctx context.Context,
	pipelineUC interfaces.PipelineUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr: "localhost:8080",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)

	dispatchHandler := NewDispatchHandler(cfg.dispatchToken, pipelineUC)
	router.Post("/dispatch", dispatchHandler.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
