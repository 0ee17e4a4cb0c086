package api

import (
	"net/http"
	"strconv"
)

// GetSolarProfile handles GET /api/profiles/solar
func (h *Handler) GetSolarProfile(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.SolarProfile(profileStep(r)))
}

// GetTemperatureProfile handles GET /api/profiles/temperature
func (h *Handler) GetTemperatureProfile(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.TemperatureProfile(profileStep(r)))
}

// profileStep parses the optional ?step query parameter (hours).
func profileStep(r *http.Request) float64 {
	raw := r.URL.Query().Get("step")
	if raw == "" {
		return 0.5
	}
	step, err := strconv.ParseFloat(raw, 64)
	if err != nil || step <= 0 {
		return 0.5
	}
	return step
}
