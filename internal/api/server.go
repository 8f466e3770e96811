// Package api provides the HTTP API of the scanvault service.
// It wires routes, middleware and handlers around a document store.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/anstrom/scanvault/docs/swagger" // Registers the generated swagger docs
	apihandlers "github.com/anstrom/scanvault/internal/api/handlers"
	"github.com/anstrom/scanvault/internal/api/middleware"
	"github.com/anstrom/scanvault/internal/config"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/metrics"
	"github.com/anstrom/scanvault/internal/query"
	"github.com/anstrom/scanvault/internal/store"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	rateLimitCleanupEvery  = time.Minute
)

// Server represents the API server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	config     *config.Config
	store      store.Store
	logger     *logging.Logger
	metrics    *metrics.PrometheusMetrics
	limiter    *middleware.RateLimiter
}

// New creates a server around st. pm may be nil, in which case nothing is
// recorded and the metrics endpoint is not served.
func New(cfg *config.Config, st store.Store, pm *metrics.PrometheusMetrics, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var recorder metrics.Recorder = metrics.Nop{}
	if pm != nil {
		recorder = pm
	}

	server := &Server{
		router:  mux.NewRouter(),
		config:  cfg,
		store:   store.WithMetrics(st, recorder),
		logger:  logger.WithComponent("api"),
		metrics: pm,
	}
	if cfg.API.RateLimit.Enabled {
		server.limiter = middleware.NewRateLimiter(cfg.API.RateLimit.Requests, cfg.API.RateLimit.Window)
	}

	server.setupRoutes(recorder)
	server.handler = server.setupMiddleware(recorder)

	server.httpServer = &http.Server{
		Addr:              cfg.GetAPIAddress(),
		Handler:           server.handler,
		ReadTimeout:       cfg.API.ReadTimeout,
		ReadHeaderTimeout: cfg.API.ReadTimeout,
		WriteTimeout:      cfg.API.WriteTimeout,
	}

	return server, nil
}

// Start serves until ctx is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting API server",
		"address", s.httpServer.Addr,
		"backend", s.store.Backend(),
		"tls", s.config.API.TLS.Enabled,
		"read_timeout", s.httpServer.ReadTimeout,
		"write_timeout", s.httpServer.WriteTimeout)

	if s.metrics != nil && s.config.Metrics.UpdateInterval > 0 {
		go s.metrics.StartPeriodicUpdates(ctx, s.config.Metrics.UpdateInterval)
	}
	if s.limiter != nil {
		go s.cleanupRateLimiter(ctx)
	}

	errChan := make(chan error, 1)
	go func() {
		var err error
		if s.config.API.TLS.Enabled {
			err = s.httpServer.ListenAndServeTLS(s.config.API.TLS.CertFile, s.config.API.TLS.KeyFile)
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the API server.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	timeout := s.config.API.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("API server shutdown error", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("API server stopped successfully")
	return nil
}

func (s *Server) cleanupRateLimiter(ctx context.Context) {
	ticker := time.NewTicker(rateLimitCleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiter.Cleanup()
		}
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(recorder metrics.Recorder) {
	engine := query.NewEngine(s.store, s.logger)
	queryHandler := apihandlers.NewQueryHandler(engine, s.logger, recorder)
	adminHandler := apihandlers.NewAdminHandler(s.store, s.logger, s.config.API.MaxRequestSize)
	healthHandler := apihandlers.NewHealthHandler(s.store, s.logger)

	s.router.HandleFunc("/bytitle", queryHandler.ByTitle).Methods(http.MethodGet)
	s.router.HandleFunc("/bydomain", queryHandler.ByDomain).Methods(http.MethodGet)
	s.router.HandleFunc("/byip", queryHandler.ByIP).Methods(http.MethodGet)
	s.router.HandleFunc("/byport", queryHandler.ByPort).Methods(http.MethodGet)
	s.router.HandleFunc("/byhtml", queryHandler.ByHTML).Methods(http.MethodGet)
	s.router.HandleFunc("/byhresponse", queryHandler.ByHeaderValue).Methods(http.MethodGet)
	s.router.HandleFunc("/byhkeyresponse", queryHandler.ByHeaderKey).Methods(http.MethodGet)

	s.router.HandleFunc("/insert", adminHandler.Insert).Methods(http.MethodPost)
	s.router.HandleFunc("/delete", adminHandler.DeleteConfirmation).Methods(http.MethodGet)
	s.router.HandleFunc("/perform_delete", adminHandler.PerformDelete).Methods(http.MethodDelete)

	s.router.HandleFunc("/healthz", healthHandler.Health).Methods(http.MethodGet)

	if s.metrics != nil && s.config.Metrics.Enabled {
		s.router.Handle(s.config.Metrics.Path, s.metrics.Handler()).Methods(http.MethodGet)
	}

	if s.config.API.EnableSwagger {
		s.router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("none"),
		)).Methods(http.MethodGet)
	}

	s.router.NotFoundHandler = http.HandlerFunc(s.unknownEndpoint)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
}

// setupMiddleware wraps the router. The chain sits outside the router so
// unknown paths and method mismatches pass through it too.
func (s *Server) setupMiddleware(recorder metrics.Recorder) http.Handler {
	var h http.Handler = s.router

	h = middleware.RequestTimeout(s.config.API.RequestTimeout)(h)
	h = middleware.ContentType(h)
	h = handlers.CompressHandler(h)

	if s.config.API.CORS.Enabled {
		h = handlers.CORS(
			handlers.AllowedOrigins(s.config.API.CORS.AllowedOrigins),
			handlers.AllowedMethods(s.config.API.CORS.AllowedMethods),
			handlers.AllowedHeaders(s.config.API.CORS.AllowedHeaders),
		)(h)
	}
	if s.limiter != nil {
		h = middleware.RateLimit(s.limiter, s.logger)(h)
	}

	h = middleware.Metrics(recorder, s.router)(h)
	if s.config.Logging.RequestLogging {
		h = middleware.Logging(s.logger)(h)
	}
	h = handlers.ProxyHeaders(h)
	h = middleware.Recovery(s.logger)(h)
	return middleware.RequestID(h)
}

// unknownEndpoint keeps the historical behaviour of answering any unknown GET
// path with 200 and a message naming it.
func (s *Server) unknownEndpoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	writeJSON(w, http.StatusOK, apihandlers.MessageResponse{
		Message: "Unknown endpoint: " + strings.TrimPrefix(r.URL.Path, "/"),
	})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, apihandlers.ErrorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// GetRouter returns the router without middleware.
func (s *Server) GetRouter() *mux.Router {
	return s.router
}

// GetAddress returns the listen address.
func (s *Server) GetAddress() string {
	return s.httpServer.Addr
}
