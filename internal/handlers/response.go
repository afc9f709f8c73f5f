package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/service"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// errorStatus maps a service error to an HTTP status and a caller-safe message.
func errorStatus(err error) (int, string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// WriteServiceError logs err and writes the matching error response.
// Storage failures are logged at error level, everything else at warn.
func WriteServiceError(w http.ResponseWriter, err error, msg string, logger *slog.Logger, attrs ...any) {
	status, message := errorStatus(err)

	attrs = append(attrs, "error", err, "status", status)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, attrs...)
	} else {
		logger.Warn(msg, attrs...)
	}

	WriteError(w, status, message, logger)
}
