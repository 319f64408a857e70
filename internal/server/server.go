// Package server provides the HTTP server and API handlers for the
// cyber-omega controller.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/vignesh3030-hub/cyber-omega/internal/config"
	"github.com/vignesh3030-hub/cyber-omega/internal/controller"
	"github.com/vignesh3030-hub/cyber-omega/internal/normalize"
	"github.com/vignesh3030-hub/cyber-omega/internal/types"
	"github.com/vignesh3030-hub/cyber-omega/internal/version"
)

// Server is the HTTP server for the controller API.
type Server struct {
	cfg        config.ControllerConfig
	controller *controller.Controller
	log        *logrus.Logger
	httpServer *http.Server
}

// New creates a new HTTP server that uses the given controller.
func New(cfg config.ControllerConfig, ctrl *controller.Controller, log *logrus.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{cfg: cfg, controller: ctrl, log: log}
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/logs", s.handleLogs)
	mux.HandleFunc("/api/v1/alerts", s.handleAlerts)
	mux.HandleFunc("/api/v1/alerts/", s.handleAlertStatus)
	mux.HandleFunc("/api/v1/baselines", s.handleBaselines)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.WithField("addr", s.cfg.HTTPAddr).Info("Controller listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var raw types.RawCloudLog
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	log, err := s.controller.IngestRaw(r.Context(), raw)
	if err != nil {
		var malformed *normalize.MalformedInputError
		if errors.As(err, &malformed) {
			http.Error(w, malformed.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Log buffer full", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"id": log.ID})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	logs := s.controller.GetLogs(100)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.controller.GetAlerts(100)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alerts)
}

// handleAlertStatus serves POST /api/v1/alerts/{id}/status with body
// {"status": "INVESTIGATING"}.
func (s *Server) handleAlertStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/alerts/")
	alertID, ok := strings.CutSuffix(rest, "/status")
	if !ok || alertID == "" || strings.Contains(alertID, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	var body struct {
		Status types.AlertStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := s.controller.UpdateAlertStatus(alertID, body.Status); err != nil {
		if errors.Is(err, controller.ErrAlertNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBaselines(w http.ResponseWriter, r *http.Request) {
	baselines := s.controller.Baselines()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(baselines)
}
