package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/service"
)

type SettingsHandler struct {
	settings *service.SettingsService
	log      *slog.Logger
}

func NewSettingsHandler(settings *service.SettingsService, log *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, log: log}
}

type settingsRequest struct {
	PickupTime   *int `json:"pickupTime"`
	DeliveryTime *int `json:"deliveryTime"`
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		WriteServiceError(w, err, "failed to load settings", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, settings, h.log)
}

// SaveSettings handles POST /api/settings
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if req.PickupTime == nil {
		WriteError(w, http.StatusBadRequest, "pickupTime: is required", h.log)
		return
	}
	if req.DeliveryTime == nil {
		WriteError(w, http.StatusBadRequest, "deliveryTime: is required", h.log)
		return
	}

	settings, err := h.settings.Save(r.Context(), *req.PickupTime, *req.DeliveryTime)
	if err != nil {
		WriteServiceError(w, err, "failed to save settings", h.log,
			"pickup_time", *req.PickupTime,
			"delivery_time", *req.DeliveryTime,
		)
		return
	}

	WriteJSON(w, http.StatusOK, settings, h.log)
	h.log.Info("settings saved", "pickup_time", settings.PickupTime, "delivery_time", settings.DeliveryTime)
}
