package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Server represents the HTTP server
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	mu          sync.RWMutex
	ready       bool
}

// Option mutates the server during construction.
type Option func(*Server)

// WithName sets the server name used in logs and the root route listing.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the server version reported on the root route.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithHandler adds route handlers to the server. May be repeated, later
// registrations override earlier ones for the same pattern.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		if s.config.Handlers == nil {
			s.config.Handlers = make(map[string]http.HandlerFunc, len(handlers))
		}
		for pattern, handler := range handlers {
			s.config.Handlers[pattern] = handler
		}
	}
}

// WithConfig replaces the entire server configuration. Apply it before other
// options, otherwise their effects are discarded.
func WithConfig(config *Config) Option {
	return func(s *Server) {
		if config != nil {
			s.config = config
		}
	}
}

// New creates a server from the given options, mounting the configured
// handlers plus the built-in system endpoints. A default root handler is
// installed unless the configuration already provides one.
func New(opts ...Option) *Server {
	s := &Server{
		config: NewConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.config.Handlers == nil {
		s.config.Handlers = make(map[string]http.HandlerFunc)
	}
	if _, ok := s.config.Handlers["/"]; !ok {
		s.config.Handlers["/"] = s.handleRoot
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	return s
}

// setReady marks the server as ready to serve traffic
func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start starts the HTTP server and blocks until ctx is canceled or the
// listener fails. A context cancellation triggers graceful shutdown and
// returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.setReady(true)

	slog.Info("starting http server",
		"name", s.config.Name,
		"address", s.httpServer.Addr,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, draining in-flight requests up
// to the configured shutdown timeout. The server stops reporting ready
// immediately so load balancers steer new traffic away during the drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.setReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down http server", "name", s.config.Name)
	return s.httpServer.Shutdown(shutdownCtx)
}

// Run starts the server with OS signal handling and blocks until shutdown.
// SIGINT and SIGTERM trigger graceful shutdown. When running under systemd,
// readiness and stopping notifications are sent; elsewhere they are no-ops.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("server config",
		"name", s.config.Name,
		"version", s.config.Version,
		"address", s.httpServer.Addr,
		"rateLimit", s.config.RateLimit,
		"rateLimitBurst", s.config.RateLimitBurst,
		"readTimeout", s.config.ReadTimeout,
		"writeTimeout", s.config.WriteTimeout,
		"idleTimeout", s.config.IdleTimeout,
		"shutdownTimeout", s.config.ShutdownTimeout,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Start(gctx)
	})

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		slog.Warn("systemd ready notification failed", "error", err)
	} else if sent {
		slog.Debug("systemd ready notification sent")
	}

	err := g.Wait()

	if _, nerr := daemon.SdNotify(false, daemon.SdNotifyStopping); nerr != nil {
		slog.Warn("systemd stopping notification failed", "error", nerr)
	}

	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
