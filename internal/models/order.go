package models

import (
	"strings"
	"time"
)

// OrderType is the canonical order type stored with every order.
type OrderType string

const (
	OrderDineIn   OrderType = "dine-in"
	OrderTakeaway OrderType = "takeaway"
)

// ParseOrderType accepts the canonical values plus the legacy spellings
// still sent by older dashboard builds.
func ParseOrderType(raw string) (OrderType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dine-in", "dine_in", "dinein":
		return OrderDineIn, true
	case "takeaway", "takeout", "take-away":
		return OrderTakeaway, true
	}
	return "", false
}

// OrderStatus is the kitchen workflow state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
)

// OrderStatuses lists the workflow states in forward order.
var OrderStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted}

// Valid reports whether s is one of the workflow states.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem is a priced line of an order. Name is matched against the menu.
type OrderItem struct {
	Name     string  `json:"name" bson:"name" validate:"required"`
	Price    float64 `json:"price" bson:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" bson:"quantity" validate:"gte=1"`
}

// Order represents a customer order
type Order struct {
	ID            string      `json:"id" bson:"_id"`
	OrderType     OrderType   `json:"orderType" bson:"orderType"`
	CustomerName  string      `json:"customerName" bson:"customerName"`
	CustomerPhone string      `json:"customerPhone" bson:"customerPhone"`
	TableNumber   *int        `json:"tableNumber" bson:"tableNumber" validate:"omitempty,gt=0"`
	Items         []OrderItem `json:"items" bson:"items" validate:"required,min=1,dive"`
	TotalPrice    float64     `json:"totalPrice" bson:"totalPrice"`
	Status        OrderStatus `json:"status" bson:"status"`
	Notes         string      `json:"notes" bson:"notes"`
	CreatedAt     *time.Time  `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt     *time.Time  `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// OrderDraft is the body accepted when creating an order.
// TotalPrice is informational; the stored total is recomputed from Items.
type OrderDraft struct {
	OrderType     string      `json:"orderType"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	TableNumber   *int        `json:"tableNumber"`
	Items         []OrderItem `json:"items"`
	TotalPrice    *float64    `json:"totalPrice,omitempty"`
	Notes         string      `json:"notes"`
	Status        string      `json:"status"`
}

// OrderPatch carries the editable fields of an order. Nil fields are left untouched.
type OrderPatch struct {
	OrderType     *string      `json:"orderType"`
	CustomerName  *string      `json:"customerName"`
	CustomerPhone *string      `json:"customerPhone"`
	TableNumber   *int         `json:"tableNumber"`
	Items         *[]OrderItem `json:"items"`
	Notes         *string      `json:"notes"`
	Status        *string      `json:"status"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status OrderStatus
}

// Structural reports whether p touches anything other than the status.
func (p OrderPatch) Structural() bool {
	return p.OrderType != nil || p.CustomerName != nil || p.CustomerPhone != nil ||
		p.TableNumber != nil || p.Items != nil || p.Notes != nil
}
