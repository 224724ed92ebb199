// Package serve exposes the latest usage snapshot over HTTP
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/denysvitali/plan-usage/internal/snapshot"
	"github.com/denysvitali/plan-usage/internal/usage"
)

const shutdownTimeout = 5 * time.Second

// Config holds the server configuration
type Config struct {
	Host string
	Port int
	// Kind says how the snapshot percentages are read; empty means usage.KindUsed
	Kind usage.Kind
}

// Addr returns host:port
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server represents the HTTP server
type Server struct {
	store  *snapshot.Store
	kind   usage.Kind
	server *http.Server
	now    func() time.Time
}

// NewServer creates a server reading snapshots from store
func NewServer(cfg Config, store *snapshot.Store) *Server {
	kind := cfg.Kind
	if kind == "" {
		kind = usage.KindUsed
	}
	s := &Server{store: store, kind: kind, now: time.Now}

	registry := prometheus.NewRegistry()
	registry.MustRegister(newSnapshotCollector(store, kind, s.now))

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/usage", s.handleUsage).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/waybar", s.handleWaybar).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until ctx is canceled
func (s *Server) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting server", "addr", "http://"+s.server.Addr, "snapshot", s.store.Path())

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleUsage returns the snapshot file as written
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	data, ok := s.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := usage.OutputJSON(w, data); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode usage", "error", err)
	}
}

// handleWaybar returns the snapshot in waybar format, errors included
func (s *Server) handleWaybar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	var data usage.Data
	if err := s.store.Read(&data); err != nil {
		_ = usage.OutputWaybarError(w, err.Error())
		return
	}
	_ = usage.OutputWaybar(w, &data, s.now(), s.kind)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := map[string]any{"status": "ok"}
	if age, err := s.store.Age(); err == nil {
		status["snapshot_age_seconds"] = int(age.Seconds())
	} else {
		status["status"] = "no_snapshot"
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*usage.Data, bool) {
	var data usage.Data
	err := s.store.Read(&data)
	switch {
	case err == nil:
		return &data, true
	case errors.Is(err, snapshot.ErrNoSnapshot):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		slog.ErrorContext(r.Context(), "Failed to read snapshot", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
	return nil, false
}
