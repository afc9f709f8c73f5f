package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/service"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/vapi"
)

// Sentences spoken to the caller when a webhook fails.
const (
	sayUnreadableRequest = "Je n'ai pas pu lire la demande de commande. Pouvez-vous répéter ?"
	sayOrderFailed       = "Désolé, une erreur est survenue lors de la création de la commande. Veuillez réessayer."
	sayMenuUnavailable   = "Désolé, le menu est momentanément indisponible."
	sayUnauthorized      = "Accès refusé."
)

// VapiHandler serves the voice assistant webhooks. Every webhook response,
// including failures, uses the tool-result envelope.
type VapiHandler struct {
	adapter   *vapi.Adapter
	publicKey string
	log       *slog.Logger
}

func NewVapiHandler(adapter *vapi.Adapter, publicKey string, log *slog.Logger) *VapiHandler {
	return &VapiHandler{
		adapter:   adapter,
		publicKey: publicKey,
		log:       log.With("component", "vapi"),
	}
}

type menuPreviewResponse struct {
	Success bool        `json:"success"`
	Dishes  interface{} `json:"dishes"`
	Drinks  interface{} `json:"drinks"`
	Sides   interface{} `json:"sides"`
	Total   int         `json:"total"`
}

type vapiConfigResponse struct {
	PublicKey string `json:"publicKey"`
}

// CreateOrder handles POST /api/vapi/create-order
func (h *VapiHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	call, err := h.readToolCall(w, r)
	if err != nil {
		h.log.Warn("failed to parse tool call", "call_id", call.ID, "error", err)
		h.respond(w, http.StatusBadRequest, call.ID, sayUnreadableRequest)
		return
	}

	args, err := call.DecodeOrderArguments()
	if err != nil {
		h.log.Warn("failed to decode order arguments", "call_id", call.ID, "error", err)
		h.respond(w, http.StatusBadRequest, call.ID, sayUnreadableRequest)
		return
	}

	confirmation, err := h.adapter.PlaceOrder(r.Context(), args)
	if err != nil {
		status, sentence := h.orderFailure(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("voice order failed", "call_id", call.ID, "error", err)
		} else {
			h.log.Warn("voice order rejected", "call_id", call.ID, "reason", sentence)
		}
		h.respond(w, status, call.ID, sentence)
		return
	}

	h.log.Info("voice order created",
		"call_id", call.ID,
		"order_id", confirmation.Order.ID,
		"total", confirmation.Order.TotalPrice,
		"unmatched_items", len(confirmation.Unmatched),
	)
	h.respond(w, http.StatusOK, call.ID, confirmation.Message)
}

// Menu handles POST /api/vapi/menu
func (h *VapiHandler) Menu(w http.ResponseWriter, r *http.Request) {
	call, err := h.readToolCall(w, r)
	if err != nil {
		// The menu needs no arguments; answer anyway.
		h.log.Debug("menu request without a readable envelope", "error", err)
	}

	text, err := h.adapter.MenuText(r.Context())
	if err != nil {
		h.log.Error("failed to render menu", "call_id", call.ID, "error", err)
		h.respond(w, http.StatusInternalServerError, call.ID, sayMenuUnavailable)
		return
	}

	h.respond(w, http.StatusOK, call.ID, text)
}

// MenuPreview handles GET /api/vapi/menu
func (h *VapiHandler) MenuPreview(w http.ResponseWriter, r *http.Request) {
	menu, err := h.adapter.AvailableMenu(r.Context())
	if err != nil {
		WriteServiceError(w, err, "failed to load menu preview", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, menuPreviewResponse{
		Success: true,
		Dishes:  nonNil(menu.Dishes),
		Drinks:  nonNil(menu.Drinks),
		Sides:   nonNil(menu.Sides),
		Total:   menu.Len(),
	}, h.log)
}

// Config handles GET /api/vapi/config
func (h *VapiHandler) Config(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, vapiConfigResponse{PublicKey: h.publicKey}, h.log)
}

// Unauthorized answers webhook calls carrying a wrong or missing bearer token.
func (h *VapiHandler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	call, _ := h.readToolCall(w, r)
	h.log.Warn("rejected webhook call with invalid credentials",
		"path", r.URL.Path,
		"call_id", call.ID,
	)
	h.respond(w, http.StatusUnauthorized, call.ID, sayUnauthorized)
}

func (h *VapiHandler) readToolCall(w http.ResponseWriter, r *http.Request) (vapi.ToolCall, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return vapi.ToolCall{ID: vapi.UnknownCallID}, err
	}
	return vapi.ParseToolCall(body)
}

func (h *VapiHandler) orderFailure(err error) (int, string) {
	var rejection *vapi.Rejection
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &rejection):
		return http.StatusBadRequest, rejection.Reason
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "Commande refusée: " + validationErr.Error()
	default:
		return http.StatusInternalServerError, sayOrderFailed
	}
}

func (h *VapiHandler) respond(w http.ResponseWriter, status int, callID, sentence string) {
	WriteJSON(w, status, vapi.Respond(callID, sentence), h.log)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
