package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/repository"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler provides health check endpoint
type HealthHandler struct {
	store  repository.Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store repository.Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Storage   string    `json:"storage"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Storage:   "up",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("storage health check failed", "error", err)
		response.Status = "unhealthy"
		response.Storage = "down"
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, response, h.logger)
}
