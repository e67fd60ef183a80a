// Package api exposes derived metrics over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tradefolio/analytics/internal/logger"
	"github.com/tradefolio/analytics/internal/service"
	"github.com/tradefolio/analytics/internal/types"
	"github.com/tradefolio/analytics/pkg/errors"
)

// Server serves the metrics API.
type Server struct {
	service      *service.MetricsService
	logger       *logger.Logger
	defaultScale types.TimeScale

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates an API server over the given metrics service. Requests
// without a scale query parameter use defaultScale.
func NewServer(metricsService *service.MetricsService, defaultScale types.TimeScale, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Server{
		service:      metricsService,
		logger:       log,
		defaultScale: defaultScale,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")
	router.HandleFunc("/metrics/cohorts", s.handleCohorts).Methods("GET")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	return router
}

// Start begins serving on the given address. It returns once the listener is
// bound; serving continues in the background.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "failed to create listener", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	s.logger.Info("api server listening", zap.String("address", listener.Addr().String()))

	return nil
}

// Address returns the bound listen address, valid after Start.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, ok := s.computeForRequest(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleCohorts(w http.ResponseWriter, r *http.Request) {
	metrics, ok := s.computeForRequest(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, metrics.Cohorts)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// computeForRequest resolves the scale parameter and runs the metrics
// service, writing the error response itself when anything fails.
func (s *Server) computeForRequest(w http.ResponseWriter, r *http.Request) (*types.DerivedMetrics, bool) {
	scale := s.defaultScale

	if raw := r.URL.Query().Get("scale"); raw != "" {
		parsed, err := types.ParseTimeScale(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)

			return nil, false
		}

		scale = parsed
	}

	metrics, err := s.service.Metrics(r.Context(), scale)
	if err != nil {
		s.writeError(w, statusForError(err), err)

		return nil, false
	}

	return metrics, true
}

func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeDataNotFound:
		return http.StatusNotFound
	case errors.ErrCodeComputationSuperseded:
		return http.StatusConflict
	case errors.ErrCodeInvalidTimeScale:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))

	s.writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"code":  int(errors.GetCode(err)),
	})
}
