package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greenhub/hubsim/internal/service"
)

// Handler holds the HTTP handlers and dependencies
type Handler struct {
	service  service.SimulationService
	logger   *slog.Logger
	basePath string
}

// NewHandler creates a new HTTP handler
func NewHandler(svc service.SimulationService, basePath string, logger *slog.Logger) *Handler {
	return &Handler{
		service:  svc,
		logger:   logger,
		basePath: basePath,
	}
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.loggingMiddleware)
	r.Use(middleware.Recoverer)

	routes := h.createRoutes()

	if h.basePath != "" {
		r.Mount(h.basePath, routes)
	} else {
		r.Mount("/", routes)
	}

	return r
}

func (h *Handler) createRoutes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.GetConfig)

		r.Get("/profiles/solar", h.GetSolarProfile)
		r.Get("/profiles/temperature", h.GetTemperatureProfile)

		r.Post("/simulations", h.RunComparison)

		r.Post("/experiments", h.RunExperiments)
		r.Get("/experiments", h.ListExperiments)
		r.Get("/experiments/{id}", h.GetExperiment)
	})

	return r
}

// loggingMiddleware logs HTTP requests
func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

// errorResponse represents an error response
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response",
			slog.String("error", err.Error()),
		)
	}
}

// respondError writes an error response
func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, errorResponse{Error: message})
}
