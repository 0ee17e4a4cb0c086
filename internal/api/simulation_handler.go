package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/greenhub/hubsim/internal/model"
)

// jobRequest is one job definition as submitted by a client.
type jobRequest struct {
	Name         string   `json:"name"`
	PowerKW      float64  `json:"power_kw"`
	DurationMin  float64  `json:"duration_min"`
	Priority     string   `json:"priority"`
	DeadlineHour *float64 `json:"deadline_hour,omitempty"`
}

// comparisonRequest is the body of POST /api/simulations.
type comparisonRequest struct {
	Jobs []jobRequest `json:"jobs"`
}

// RunComparison handles POST /api/simulations
func (h *Handler) RunComparison(w http.ResponseWriter, r *http.Request) {
	var req comparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Jobs) == 0 {
		h.respondError(w, http.StatusBadRequest, "at least one job is required")
		return
	}

	jobs := make([]*model.Job, 0, len(req.Jobs))
	for _, j := range req.Jobs {
		job, err := model.NewJob(j.Name, j.PowerKW, j.DurationMin, j.Priority, j.DeadlineHour)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		jobs = append(jobs, job)
	}

	cmp, err := h.service.Compare(r.Context(), jobs)
	if err != nil {
		h.logger.Error("comparison failed",
			slog.String("error", err.Error()),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to run comparison")
		return
	}

	h.respondJSON(w, http.StatusOK, cmp)
}

// GetConfig handles GET /api/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.Config())
}
