package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/service"
	"github.com/go-chi/chi/v5"
)

// MenuHandler serves one menu collection. The dishes, drinks and sides
// endpoints share this handler with a different service each.
type MenuHandler struct {
	menu *service.MenuService
	log  *slog.Logger
}

// NewMenuHandler creates a handler for the collection behind menu
func NewMenuHandler(menu *service.MenuService, log *slog.Logger) *MenuHandler {
	return &MenuHandler{
		menu: menu,
		log:  log.With("collection", string(menu.Kind())),
	}
}

// Routes mounts the collection endpoints on r.
func (h *MenuHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/reviews", h.AddReview)
	r.Delete("/{id}/reviews/{index}", h.RemoveReview)
}

type updateMenuItemRequest struct {
	ID string `json:"id"`
	models.MenuItemPatch
}

type reviewRequest struct {
	Review string `json:"review"`
}

// List handles GET /api/<collection>
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		WriteServiceError(w, err, "failed to list menu items", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, items, h.log)
}

// Get handles GET /api/<collection>/{id}
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.menu.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err, "failed to get menu item", h.log, "item_id", id)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.log)
}

// Create handles POST /api/<collection>
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MenuItemInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode menu item", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	item, err := h.menu.Create(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err, "failed to create menu item", h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, item, h.log)
	h.log.Info("menu item created", "item_id", item.ID, "name", item.Name)
}

// Update handles PUT /api/<collection> with body {id, ...fields}
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateMenuItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode menu item update", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	item, err := h.menu.Update(r.Context(), req.ID, req.MenuItemPatch)
	if err != nil {
		WriteServiceError(w, err, "failed to update menu item", h.log, "item_id", req.ID)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.log)
}

// Delete handles DELETE /api/<collection> with body {id}
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode menu item delete", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := h.menu.Delete(r.Context(), req.ID); err != nil {
		WriteServiceError(w, err, "failed to delete menu item", h.log, "item_id", req.ID)
		return
	}

	WriteJSON(w, http.StatusOK, successResponse{Success: true}, h.log)
	h.log.Info("menu item deleted", "item_id", req.ID)
}

// AddReview handles POST /api/<collection>/{id}/reviews
func (h *MenuHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	item, err := h.menu.AddReview(r.Context(), id, req.Review)
	if err != nil {
		WriteServiceError(w, err, "failed to add review", h.log, "item_id", id)
		return
	}

	WriteJSON(w, http.StatusCreated, item, h.log)
}

// RemoveReview handles DELETE /api/<collection>/{id}/reviews/{index}
func (h *MenuHandler) RemoveReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Review index must be an integer", h.log)
		return
	}

	item, err := h.menu.RemoveReview(r.Context(), id, index)
	if err != nil {
		WriteServiceError(w, err, "failed to remove review", h.log, "item_id", id, "index", index)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.log)
}
