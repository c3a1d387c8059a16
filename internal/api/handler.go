// Package api exposes extraction runs and their artifacts over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"infacat/internal/middleware"
	"infacat/internal/store"
)

// RunReader is the read side of the run metastore the handlers need.
type RunReader interface {
	GetRun(ctx context.Context, id string) (store.Run, error)
	LatestRun(ctx context.Context) (store.Run, error)
	ListRuns(ctx context.Context) ([]store.Run, error)
	GetArtifact(ctx context.Context, runID, kind string) ([]byte, error)
}

// Runner triggers one extraction run over an input file.
type Runner interface {
	Run(ctx context.Context, inputPath string) (store.Run, error)
}

// Handler serves the /v1 API.
type Handler struct {
	runs      RunReader
	runner    Runner
	inputPath string // default input when a trigger request names none
	logger    *slog.Logger
}

// NewHandler returns a Handler over the given collaborators.
func NewHandler(runs RunReader, runner Runner, inputPath string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		runs:      runs,
		runner:    runner,
		inputPath: inputPath,
		logger:    logger.With("component", "api"),
	}
}

type triggerRunRequest struct {
	InputPath string `json:"input_path"`
}

// CreateRun handles POST /v1/runs: run extraction now and return the run.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	input := h.inputPath
	if r.Body != nil && r.ContentLength != 0 {
		var req triggerRunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.InputPath != "" {
			input = req.InputPath
		}
	}

	run, err := h.runner.Run(r.Context(), input)
	if err != nil {
		h.log(r).Error("extraction run failed", "input", input, "error", err)
		writeError(w, http.StatusInternalServerError, "extraction run failed")
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

// ListRuns handles GET /v1/runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.ListRuns(r.Context())
	if err != nil {
		h.log(r).Error("list runs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun handles GET /v1/runs/{id}; the id "latest" resolves to the most
// recent run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.resolveRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetArtifact handles GET /v1/runs/{id}/artifacts/{kind}.
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !store.KnownArtifact(kind) {
		writeError(w, http.StatusNotFound, "unknown artifact kind")
		return
	}

	run, err := h.resolveRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}

	body, err := h.runs.GetArtifact(r.Context(), run.ID, kind)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}

	if kind == store.ArtifactDTD {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) resolveRun(ctx context.Context, id string) (store.Run, error) {
	if id == "latest" {
		return h.runs.LatestRun(ctx)
	}
	return h.runs.GetRun(ctx, id)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	h.log(r).Error("metastore lookup failed", "error", err)
	writeError(w, http.StatusInternalServerError, "metastore lookup failed")
}

// log returns the handler logger annotated with the request's id.
func (h *Handler) log(r *http.Request) *slog.Logger {
	return middleware.RequestLogger(r.Context(), h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
