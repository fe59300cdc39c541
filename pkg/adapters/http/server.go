package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/busybeaver/internal/dto"
	"github.com/aretw0/busybeaver/internal/logging"
	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/ports"
	"github.com/aretw0/busybeaver/pkg/search"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultSteps is the budget of an on-demand machine run without ?steps=.
const DefaultSteps = 1000

// MaxSteps caps the budget a client may ask for.
const MaxSteps = 10_000_000

// Runner executes one bounded run.
type Runner interface {
	Run(ctx context.Context, m domain.Machine, maxSteps int) (domain.RunResult, error)
}

// Server exposes stored search results and catalog runs as read-mostly JSON.
type Server struct {
	Store    ports.ResultStore
	Runner   Runner
	Gatherer prometheus.Gatherer
	Version  string
	Logger   *slog.Logger
}

// NewHandler builds the router. A nil Gatherer serves the default registry.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	if s.Gatherer == nil {
		s.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{runID}", s.GetRun)
	r.Delete("/runs/{runID}", s.DeleteRun)
	r.Get("/runs/{runID}/{index}", s.GetRecord)
	r.Get("/machines", s.ListMachines)
	r.Get("/machines/{name}", s.RunMachine)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RunResponse is the body of GET /runs/{runID}.
type RunResponse struct {
	RunID   string          `json:"run_id"`
	Summary *search.Summary `json:"summary"`
	Records []dto.Record    `json:"records"`
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.Version})
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	runs, err := s.Store.Runs(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// GetRun handles GET /runs/{runID}: every record in index order plus the summary.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	runID := chi.URLParam(r, "runID")

	recs, err := s.Store.List(r.Context(), runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(recs) == 0 {
		s.writeError(w, domain.ErrResultNotFound)
		return
	}

	resp := RunResponse{
		RunID:   runID,
		Summary: search.Summarize(runID, recs),
		Records: make([]dto.Record, 0, len(recs)),
	}
	for _, rec := range recs {
		resp.Records = append(resp.Records, dto.FromRecord(rec))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// DeleteRun handles DELETE /runs/{runID}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "runID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRecord handles GET /runs/{runID}/{index}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	rec, err := s.Store.Load(r.Context(), chi.URLParam(r, "runID"), index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.FromRecord(rec))
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, catalog.Names())
}

// RunMachine handles GET /machines/{name}?steps=N: it runs a catalog machine
// on demand and returns the final configuration.
func (s *Server) RunMachine(w http.ResponseWriter, r *http.Request) {
	if s.Runner == nil {
		http.Error(w, "No runner configured", http.StatusNotImplemented)
		return
	}

	steps := DefaultSteps
	if raw := r.URL.Query().Get("steps"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > MaxSteps {
			http.Error(w, "Invalid steps", http.StatusBadRequest)
			return
		}
		steps = n
	}

	m, err := catalog.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.Runner.Run(r.Context(), m, steps)
	if err != nil && r.Context().Err() != nil {
		// Client went away.
		return
	}
	s.writeJSON(w, http.StatusOK, dto.FromRecord(domain.Record{Result: result, Err: err}))
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		http.Error(w, "No result store configured", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrResultNotFound), errors.Is(err, domain.ErrUnknownMachine):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRunID):
		status = http.StatusBadRequest
	default:
		s.Logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("failed to encode response", "error", err)
	}
}
