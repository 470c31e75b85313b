// Package api exposes the read-only HTTP view over the cumulative store.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/snapshot"
)

// archive stamps look like 2025_08_30_21; anything else is rejected before
// touching the filesystem.
var stampPattern = regexp.MustCompile(`^\d{4}_\d{2}_\d{2}_\d{2}$`)

// Server wires HTTP handlers to the cumulative snapshot directory.
type Server struct {
	router chi.Router
	store  *snapshot.Store
	logger *zap.Logger
}

// NewServer constructs a Server with routes over the given store.
func NewServer(store *snapshot.Store, logger *zap.Logger) *Server {
	s := &Server{
		store:  store,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/trending", func(r chi.Router) {
		r.Get("/latest", s.latest)
		r.Get("/archives", s.archives)
		r.Get("/archives/{stamp}", s.archive)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if _, err := os.Stat(s.store.DataDir()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "data directory unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) latest(w http.ResponseWriter, _ *http.Request) {
	s.serveSnapshotFile(w, s.store.LatestPath())
}

func (s *Server) archives(w http.ResponseWriter, _ *http.Request) {
	files, err := filepath.Glob(filepath.Join(s.store.DataDir(), "*.json"))
	if err != nil {
		s.logger.Error("list archives failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list archives failed"})
		return
	}

	stamps := make([]string, 0, len(files))
	for _, f := range files {
		stamp := strings.TrimSuffix(filepath.Base(f), ".json")
		if stampPattern.MatchString(stamp) {
			stamps = append(stamps, stamp)
		}
	}
	sort.Strings(stamps)
	writeJSON(w, http.StatusOK, map[string]any{"archives": stamps})
}

func (s *Server) archive(w http.ResponseWriter, r *http.Request) {
	stamp := chi.URLParam(r, "stamp")
	if !stampPattern.MatchString(stamp) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid archive stamp"})
		return
	}
	s.serveSnapshotFile(w, filepath.Join(s.store.DataDir(), stamp+".json"))
}

func (s *Server) serveSnapshotFile(w http.ResponseWriter, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "snapshot not available"})
			return
		}
		s.logger.Error("read snapshot failed", zap.String("path", path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "read snapshot failed"})
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
