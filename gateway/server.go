// Package gateway runs the read-only HTTP API in front of a ledger.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ghostledger/config"
	"ghostledger/core"
	"ghostledger/gateway/middleware"
	"ghostledger/gateway/routes"
	"ghostledger/indexer"
)

// NewHandler mounts the routes over l. index may be nil when the event index
// is disabled. gatherer serves /metrics and reg receives the request
// collectors.
func NewHandler(l *core.Ledger, index *indexer.Store, api config.API, reg prometheus.Registerer, gatherer prometheus.Gatherer, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := routes.Config{
		Tokens:  l.Tokens,
		NFT:     l.NFT,
		Staking: l.Staking,
		Vesting: l.Vesting,
		RateLimiter: middleware.NewRateLimiter(map[string]middleware.RateLimit{
			routes.RateLimitKey: {RequestsPerSecond: api.RateLimitRPS, Burst: api.RateLimitBurst},
		}, logger),
		Observability: middleware.NewObservability(middleware.ObservabilityConfig{MetricsPrefix: "ghostledger_gateway", LogRequests: true}, reg, logger),
	}
	if index != nil {
		cfg.Events = index
	}
	if gatherer != nil {
		cfg.MetricsHandler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
	return routes.New(cfg)
}

// Server is a started listener that serves until its context ends.
type Server struct {
	server          *http.Server
	listener        net.Listener
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// Listen binds api.Listen. Serving starts with Run.
func Listen(api config.API, handler http.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	listener, err := net.Listen("tcp", api.Listen)
	if err != nil {
		return nil, err
	}
	shutdown := time.Duration(api.ShutdownTimeout) * time.Second
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}
	return &Server{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: time.Duration(api.ReadHeaderTimeout) * time.Second,
		},
		listener:        listener,
		logger:          logger,
		shutdownTimeout: shutdown,
	}, nil
}

// Addr is the bound address.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", slog.String("address", s.Addr()))
		errCh <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown failed", slog.Any("error", err))
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
