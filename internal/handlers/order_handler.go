package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// Routes mounts the order endpoints on r.
func (h *OrderHandler) Routes(r chi.Router) {
	r.Get("/", h.ListOrders)
	r.Post("/", h.CreateOrder)
	r.Put("/", h.UpdateOrder)
	r.Delete("/", h.DeleteOrder)
	r.Get("/{id}", h.GetOrder)
	r.Patch("/{id}/status", h.UpdateStatus)
}

type updateOrderRequest struct {
	ID string `json:"id"`
	models.OrderPatch
}

type statusRequest struct {
	Status string `json:"status"`
}

// ListOrders handles GET /api/orders, optionally filtered by ?status=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []models.Order
		err    error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		orders, err = h.orderService.ListByStatus(r.Context(), status)
	} else {
		orders, err = h.orderService.ListAll(r.Context())
	}
	if err != nil {
		WriteServiceError(w, err, "failed to list orders", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err, "failed to get order", h.log, "order_id", id)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderDraft
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.Create(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err, "failed to create order", h.log, "order_type", req.OrderType)
		return
	}

	WriteJSON(w, http.StatusCreated, order, h.log)
	h.log.Info("order created successfully", "order_id", order.ID, "items_count", len(order.Items))
}

// UpdateOrder handles PUT /api/orders with body {id, ...fields}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode order update", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.Update(r.Context(), req.ID, req.OrderPatch)
	if err != nil {
		WriteServiceError(w, err, "failed to update order", h.log, "order_id", req.ID)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// UpdateStatus handles PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		WriteServiceError(w, err, "failed to update order status", h.log, "order_id", id, "status", req.Status)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
	h.log.Info("order status updated", "order_id", id, "status", order.Status)
}

// DeleteOrder handles DELETE /api/orders with body {id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode order delete", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := h.orderService.Delete(r.Context(), req.ID); err != nil {
		WriteServiceError(w, err, "failed to delete order", h.log, "order_id", req.ID)
		return
	}

	WriteJSON(w, http.StatusOK, successResponse{Success: true}, h.log)
	h.log.Info("order deleted", "order_id", req.ID)
}
