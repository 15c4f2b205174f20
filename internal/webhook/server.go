package webhook

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/common/logger"
)

// RunningMessage is returned by GET /.
const RunningMessage = "퇴직연금 조회 API 실행 중!"

// Readiness reports the loaded dataset. *dataset.Table satisfies it.
type Readiness interface {
	Len() int
	Source() string
}

type Server struct {
	cfg        config.ServerConfig
	httpServer *http.Server
	dataset    Readiness
	logger     logger.Logger
}

func NewServer(cfg config.ServerConfig, handler http.Handler, ds Readiness, log logger.Logger) *Server {
	s := &Server{cfg: cfg, dataset: ds, logger: log}

	mux := http.NewServeMux()
	mux.Handle("POST /check-pension", handler)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("webhook server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": RunningMessage}, s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	}, s.logger)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.dataset == nil || s.dataset.Len() == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "not_ready",
			"records": 0,
		}, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ready",
		"records": s.dataset.Len(),
		"source":  s.dataset.Source(),
	}, s.logger)
}
