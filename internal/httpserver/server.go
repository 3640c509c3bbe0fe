package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-rates-cache/internal/config"
	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/upstream"
)

// Server represents the rates HTTP server
type Server struct {
	resolver  interfaces.Resolver
	keys      interfaces.KeyBuilder
	endpoints *upstream.Endpoints
	pinger    interfaces.Pinger
	cfg       config.ServerConfig
	logger    *zap.Logger

	mu     sync.Mutex
	server *http.Server

	// now is swapped in tests to pin the hour bucket
	now func() time.Time
}

// NewServer creates a new rates HTTP server. pinger may be nil when the store has no health probe.
func NewServer(
	cfg config.ServerConfig,
	resolver interfaces.Resolver,
	keys interfaces.KeyBuilder,
	endpoints *upstream.Endpoints,
	pinger interfaces.Pinger,
	logger *zap.Logger,
) *Server {
	return &Server{
		resolver:  resolver,
		keys:      keys,
		endpoints: endpoints,
		pinger:    pinger,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the HTTP server on a TCP address and blocks until it stops
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Millisecond,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeout) * time.Millisecond,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.Info("Starting rates HTTP server", zap.String("addr", listener.Addr().String()))
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping rates HTTP server")
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the fully wired router
func (s *Server) Handler() http.Handler {
	return s.createRouter()
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.requestLogger)

	// Rates endpoints
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/currencies.json", s.handleCurrencies).Methods(http.MethodGet)
	api.HandleFunc("/latest.json", s.handleLatest).Methods(http.MethodGet)
	api.HandleFunc("/history/{date}.json", s.handleHistory).Methods(http.MethodGet)

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if s.cfg.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	}

	return router
}

// handleHealth reports whether the cache store is reachable
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Time: s.now().UTC()}

	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("Cache store health check failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Store = err.Error()
			s.writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Store = "ok"
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a JSON response with status code
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}
