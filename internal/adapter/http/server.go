// Package http exposes the loaded dataset to the map UI, alongside the
// service's health, readiness, and metrics endpoints. The rendering layer
// owns orchestration and decides when to query; this server only ever
// reads published snapshots.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/carbon-intensity-service/internal/domain"
	"github.com/couchcryptid/carbon-intensity-service/internal/loader"
	"github.com/couchcryptid/carbon-intensity-service/internal/observability"
	"github.com/couchcryptid/carbon-intensity-service/internal/timeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// SnapshotSource provides the latest published dataset snapshot.
type SnapshotSource interface {
	Current() (*loader.Snapshot, bool)
}

// Reloader triggers a fresh dataset load and publishes its result.
type Reloader interface {
	Reload(ctx context.Context) *loader.Snapshot
}

// Server exposes the dataset API plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	store      SnapshotSource
	reloader   Reloader
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(addr string, store SnapshotSource, ready ReadinessChecker, reloader Reloader, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:    store,
		reloader: reloader,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/dataset", s.handleDataset)
	mux.HandleFunc("GET /api/availability", s.handleAvailability)
	mux.HandleFunc("GET /api/intensity", s.handleIntensity)
	mux.HandleFunc("GET /api/records", s.handleRecords)
	mux.HandleFunc("POST /api/reload", s.handleReload)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// datasetSummary describes the currently served load.
type datasetSummary struct {
	Records      int       `json:"records"`
	Days         int       `json:"days"`
	Earliest     time.Time `json:"earliest"`
	Latest       time.Time `json:"latest"`
	UsedFallback bool      `json:"used_fallback"`
	Notice       string    `json:"notice,omitempty"`
	LoadedAt     time.Time `json:"loaded_at"`
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.Current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no dataset loaded yet"})
		return
	}
	writeJSON(w, http.StatusOK, summarize(snap))
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.Current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no dataset loaded yet"})
		return
	}
	s.metrics.Queries.WithLabelValues("availability", "ok").Inc()
	writeJSON(w, http.StatusOK, snap.Index)
}

// intensityEntry is one region's resolved reading for the map.
type intensityEntry struct {
	Country     string                 `json:"country"`
	Intensity   *float64               `json:"intensity"`
	Record      domain.IntensityRecord `json:"record"`
	DiffMinutes int                    `json:"diff_minutes"`
}

type intensityResponse struct {
	At          time.Time        `json:"at"`
	Day         time.Time        `json:"day"`
	DiffMinutes int              `json:"diff_minutes"`
	Live        bool             `json:"live"`
	Mode        string           `json:"mode"`
	Entries     []intensityEntry `json:"entries"`
}

// handleIntensity answers "what does the map show at instant T". The
// target comes from ?at= (RFC 3339); a missing or unparseable value means
// live mode, tracking the current clock. Out-of-range targets clamp to
// the dataset bounds instead of erroring, so a manual selection never
// produces a hard failure.
func (s *Server) handleIntensity(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.Current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no dataset loaded yet"})
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode != "consumption" {
		mode = "production"
	}

	target, live := parseTarget(r.URL.Query().Get("at"))
	target = snap.Index.Clamp(target)

	match, ok := timeline.NearestDay(target, snap.Index.Days)
	if !ok {
		s.metrics.Queries.WithLabelValues("intensity", "no_data").Inc()
		writeJSON(w, http.StatusOK, intensityResponse{At: target, Live: live, Mode: mode, Entries: []intensityEntry{}})
		return
	}

	resp := intensityResponse{
		At:          target,
		Day:         match.Day,
		DiffMinutes: match.DiffMinutes,
		Live:        live,
		Mode:        mode,
	}

	targetHour := target.UTC().Hour()
	if country := r.URL.Query().Get("country"); country != "" {
		if rec, found := timeline.NearestHourRecord(snap.Records, country, match.Day, targetHour); found {
			resp.Entries = append(resp.Entries, newEntry(rec, mode, match.DiffMinutes))
		}
	} else {
		for _, country := range countries(snap.Records) {
			if rec, found := timeline.NearestHourRecord(snap.Records, country, match.Day, targetHour); found {
				resp.Entries = append(resp.Entries, newEntry(rec, mode, match.DiffMinutes))
			}
		}
	}

	outcome := "ok"
	if len(resp.Entries) == 0 {
		outcome = "no_data"
		resp.Entries = []intensityEntry{}
	}
	s.metrics.Queries.WithLabelValues("intensity", outcome).Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.Current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no dataset loaded yet"})
		return
	}

	rng := timeline.Range(r.URL.Query().Get("range"))
	if rng == "" {
		rng = timeline.RangeAll
	}
	if !rng.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown range, want one of: 72h, 3mo, 12mo, all"})
		return
	}

	filtered := timeline.FilterByRange(snap.Records, rng, domain.Now())
	s.metrics.Queries.WithLabelValues("records", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"range":   rng,
		"count":   len(filtered),
		"records": filtered,
	})
}

// handleReload runs a fresh load synchronously and reports what is now
// being served. Concurrent reloads are safe: the snapshot store keeps
// only the latest requested load's result.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap := s.reloader.Reload(r.Context())
	s.logger.Info("dataset reloaded via api", "records", len(snap.Records), "used_fallback", snap.UsedFallback)
	writeJSON(w, http.StatusOK, summarize(snap))
}

func summarize(snap *loader.Snapshot) datasetSummary {
	return datasetSummary{
		Records:      len(snap.Records),
		Days:         len(snap.Index.Days),
		Earliest:     snap.Index.Earliest,
		Latest:       snap.Index.Latest,
		UsedFallback: snap.UsedFallback,
		Notice:       snap.Notice,
		LoadedAt:     snap.LoadedAt,
	}
}

// parseTarget interprets the ?at= parameter. Empty or invalid input
// selects live mode: the selection silently tracks "now" rather than
// surfacing an input error.
func parseTarget(raw string) (time.Time, bool) {
	if raw == "" {
		return domain.Now(), true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return domain.Now(), true
	}
	return t.UTC(), false
}

func newEntry(rec domain.IntensityRecord, mode string, diffMinutes int) intensityEntry {
	return intensityEntry{
		Country:     rec.Country,
		Intensity:   intensityValue(rec, mode),
		Record:      rec,
		DiffMinutes: diffMinutes,
	}
}

func intensityValue(rec domain.IntensityRecord, mode string) *float64 {
	v := rec.Intensity(mode)
	if v != v { // NaN
		return nil
	}
	return &v
}

// countries returns the distinct country names in dataset order.
func countries(records []domain.IntensityRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		if _, ok := seen[rec.Country]; ok {
			continue
		}
		seen[rec.Country] = struct{}{}
		out = append(out, rec.Country)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
