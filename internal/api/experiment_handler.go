package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greenhub/hubsim/internal/store"
)

// experimentRequest is the body of POST /api/experiments. Zero values fall
// back to the configured defaults; a zero seed is replaced by the clock.
type experimentRequest struct {
	Trials       int   `json:"trials"`
	JobsPerTrial int   `json:"jobs_per_trial"`
	Seed         int64 `json:"seed"`
}

// RunExperiments handles POST /api/experiments
func (h *Handler) RunExperiments(w http.ResponseWriter, r *http.Request) {
	var req experimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	run, err := h.service.RunExperiments(r.Context(), req.Trials, req.JobsPerTrial, req.Seed)
	if err != nil {
		h.logger.Error("experiment batch failed",
			slog.String("error", err.Error()),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to run experiments")
		return
	}

	h.respondJSON(w, http.StatusCreated, run)
}

// ListExperiments handles GET /api/experiments
func (h *Handler) ListExperiments(w http.ResponseWriter, r *http.Request) {
	runs, err := h.service.ListExperiments(r.Context())
	if err != nil {
		h.logger.Error("failed to list experiment runs",
			slog.String("error", err.Error()),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to list experiment runs")
		return
	}

	h.respondJSON(w, http.StatusOK, runs)
}

// GetExperiment handles GET /api/experiments/{id}
func (h *Handler) GetExperiment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.GetExperiment(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "experiment run not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get experiment run",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to get experiment run")
		return
	}

	h.respondJSON(w, http.StatusOK, run)
}
