package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/questionbank/internal/bootstrap"
	"github.com/yigit/questionbank/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener and the connections opened during bootstrap
type Server struct {
	http   *http.Server
	dbPool *pgxpool.Pool
	redis  *redis.Client
	logger zerolog.Logger
}

// NewServer loads configuration and wires storage, services and routes
func NewServer(ctx context.Context) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, repos, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	limiter, redisClient := bootstrap.SetupRateLimiter(ctx, cfg, lgr)

	deps := bootstrap.BuildDependencies(cfg, repos, limiter, lgr)
	if err := bootstrap.SeedDefaults(ctx, cfg, deps); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	srv := New(cfg, bootstrap.SetupRouter(cfg, deps, lgr), lgr)
	srv.dbPool = dbPool
	srv.redis = redisClient
	return srv, nil
}

// New wraps handler in an http.Server listening on the configured port
func New(cfg *config.Config, handler http.Handler, lgr zerolog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: lgr,
	}
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.closeResources()
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled or serving
// fails, then shuts down and releases the database and Redis clients.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("HTTP server listening")
		serveErr <- s.http.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		s.closeResources()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server stopped: %w", err)
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown drains in-flight requests and closes the backing clients
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
		s.logger.Error().Err(shutdownErr).Msg("HTTP server shutdown error")
		err = shutdownErr
	}
	err = errors.Join(err, s.closeResources())

	s.logger.Info().Msg("Server stopped")
	return err
}

func (s *Server) closeResources() error {
	var err error
	if s.redis != nil {
		if closeErr := s.redis.Close(); closeErr != nil {
			s.logger.Error().Err(closeErr).Msg("Redis client close error")
			err = closeErr
		}
		s.redis = nil
	}
	if s.dbPool != nil {
		s.dbPool.Close()
		s.dbPool = nil
	}
	return err
}
