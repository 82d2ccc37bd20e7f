// Package server is the HTTP boundary: request validation and JSON/HTML
// shaping around the recommendation engine. No ranking logic lives here.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/talentsift/assessrec/internal/catalog"
	"go.uber.org/zap"
)

const (
	defaultAddress      = ":8000"
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 2 * time.Minute

	shutdownTimeout = 10 * time.Second

	// Bounds for max_results at this boundary. The engine itself tolerates
	// any positive integer; the API contract does not.
	maxResultsLimit   = 10
	maxResultsDefault = 10
)

// Recommender is the engine contract consumed by the HTTP layer.
type Recommender interface {
	Recommend(ctx context.Context, query string, maxResults int) []*catalog.Assessment
}

// Config holds the HTTP server settings.
type Config struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
}

// Server serves the recommendation API and the form UI.
type Server struct {
	httpServer  *http.Server
	recommender Recommender
	logger      *zap.Logger
}

// New creates a Server with all routes registered.
func New(cfg *Config, rec Recommender, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = &Config{}
	}

	address := cfg.Address
	if address == "" {
		address = defaultAddress
	}

	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}

	// Generous by default: a recommendation holds the connection for the
	// duration of one oracle round trip.
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	s := &Server{
		recommender: rec,
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/recommend", s.handleRecommend)
	mux.HandleFunc("/", s.handleIndex)

	s.httpServer = &http.Server{
		Addr:         address,
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return s
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", zap.String("address", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(shutdownCtx)
}
