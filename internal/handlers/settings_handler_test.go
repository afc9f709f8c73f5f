package handlers

import (
	"net/http"
	"testing"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
)

func TestSettingsHandler_Defaults(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/settings", nil)
	expectStatus(t, w, http.StatusOK)

	settings := decodeBody[models.Settings](t, w)
	if settings.PickupTime != 25 || settings.DeliveryTime != 25 {
		t.Errorf("expected defaults 25/25, got %+v", settings)
	}
}

func TestSettingsHandler_SaveSettings(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{"lower bound accepted", map[string]int{"pickupTime": 5, "deliveryTime": 5}, http.StatusOK},
		{"upper bound accepted", map[string]int{"pickupTime": 90, "deliveryTime": 90}, http.StatusOK},
		{"pickup below range", map[string]int{"pickupTime": 4, "deliveryTime": 30}, http.StatusBadRequest},
		{"delivery above range", map[string]int{"pickupTime": 30, "deliveryTime": 91}, http.StatusBadRequest},
		{"missing delivery time", map[string]int{"pickupTime": 30}, http.StatusBadRequest},
		{"missing pickup time", map[string]int{"deliveryTime": 30}, http.StatusBadRequest},
		{"non numeric", `{"pickupTime":"vite","deliveryTime":30}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			w := app.do(t, http.MethodPost, "/api/settings", tt.requestBody)
			expectStatus(t, w, tt.expectedStatus)

			w = app.do(t, http.MethodGet, "/api/settings", nil)
			current := decodeBody[models.Settings](t, w)

			body, ok := tt.requestBody.(map[string]int)
			if tt.expectedStatus == http.StatusOK && ok {
				if current.PickupTime != body["pickupTime"] || current.DeliveryTime != body["deliveryTime"] {
					t.Errorf("saved settings not returned: %+v", current)
				}
				if current.UpdatedAt == nil {
					t.Error("updatedAt not set")
				}
			}
			if tt.expectedStatus != http.StatusOK && current.PickupTime != models.DefaultPickupTime {
				t.Errorf("rejected request changed settings: %+v", current)
			}
		})
	}
}
