// Package api implements the REST surface of the gas tracker.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chainsafe/ethgas/pkg/alerts"
	apphttp "github.com/chainsafe/ethgas/pkg/app/http"
	"github.com/chainsafe/ethgas/pkg/auth"
	"github.com/chainsafe/ethgas/pkg/history"
	"github.com/chainsafe/ethgas/pkg/tracker"
)

const (
	serviceName    = "ethgas"
	serviceVersion = "1.0.0"

	defaultRequestTimeout = 60 * time.Second
)

// Server wires the HTTP handlers to the tracker engine and its stores.
type Server struct {
	engine    *tracker.Engine
	store     history.Store
	watcher   *alerts.Watcher
	validator *auth.Validator
	logger    *zap.Logger
}

type Option func(*Server)

// WithValidator enables bearer-token auth on mutating endpoints.
func WithValidator(v *auth.Validator) Option {
	return func(s *Server) { s.validator = v }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates the API server. A nil validator leaves the
// mutating endpoints open.
func NewServer(engine *tracker.Engine, store history.Store, watcher *alerts.Watcher, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		store:   store,
		watcher: watcher,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))

	r.Get("/", apphttp.HandleError(s.handleIndex))
	r.Get("/health", apphttp.HandleError(s.handleHealth))
	r.Get("/gas/{network}", apphttp.HandleError(s.handleGas))
	r.Get("/networks", apphttp.HandleError(s.handleNetworks))
	r.Get("/history/{network}", apphttp.HandleError(s.handleHistory))
	r.Get("/stats/{network}", apphttp.HandleError(s.handleStats))
	r.Get("/predict/{network}", apphttp.HandleError(s.handlePredict))
	r.Get("/predict/{network}/window", apphttp.HandleError(s.handlePredictWindow))
	r.Get("/compare", apphttp.HandleError(s.handleCompare))
	r.Get("/export/{network}", apphttp.HandleError(s.handleExport))
	r.Post("/hash", apphttp.HandleError(s.handleHash))

	r.Get("/alerts", apphttp.HandleError(s.handleListAlerts))
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(s.validator))
		r.Post("/alerts", apphttp.HandleError(s.handleCreateAlert))
		r.Delete("/alerts/{id}", apphttp.HandleError(s.handleDeleteAlert))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
