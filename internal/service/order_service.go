package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusPolicy decides which status changes the order service accepts.
type StatusPolicy string

const (
	// StatusPolicyForward only allows pending -> preparing -> ready -> completed.
	StatusPolicyForward StatusPolicy = "forward"
	// StatusPolicyAny allows moving between any two statuses.
	StatusPolicyAny StatusPolicy = "any"
)

var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.StatusPending:   models.StatusPreparing,
	models.StatusPreparing: models.StatusReady,
	models.StatusReady:     models.StatusCompleted,
}

// Allows reports whether an order may move from one status to another.
// Re-writing the current status is always allowed.
func (p StatusPolicy) Allows(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	if p == StatusPolicyAny {
		return true
	}
	return nextStatus[from] == to
}

// OrderEvents receives order lifecycle notifications after they are persisted.
type OrderEvents interface {
	OrderCreated(ctx context.Context, order models.Order)
	OrderStatusChanged(ctx context.Context, order models.Order, previous models.OrderStatus)
}

// OrderService handles order business logic
type OrderService struct {
	repo   repository.OrderRepository
	policy StatusPolicy
	events OrderEvents
	log    *slog.Logger
	now    Clock
}

// NewOrderService creates a new order service. events may be nil.
func NewOrderService(repo repository.OrderRepository, policy StatusPolicy, events OrderEvents, log *slog.Logger) *OrderService {
	if log == nil {
		log = slog.Default()
	}
	if policy == "" {
		policy = StatusPolicyForward
	}
	return &OrderService{
		repo:   repo,
		policy: policy,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (s *OrderService) WithClock(clock Clock) *OrderService {
	s.now = clock
	return s
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, models.OrderFilter{})
	if err != nil {
		return nil, storageError("list orders", err)
	}
	normalizeStored(orders)
	SortNewestFirst(orders)
	return orders, nil
}

// ListByStatus returns the orders currently in status, newest first.
func (s *OrderService) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	st := models.OrderStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return nil, invalidStatus()
	}

	orders, err := s.repo.List(ctx, models.OrderFilter{Status: st})
	if err != nil {
		return nil, storageError("list orders", err)
	}
	normalizeStored(orders)
	SortNewestFirst(orders)
	return orders, nil
}

// GetByID returns a single order or ErrNotFound.
func (s *OrderService) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("id", "is required")
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storageError("get order", err)
	}
	normalizeOrderType(order)
	return order, nil
}

// normalizeOrderType maps legacy stored spellings such as "takeout" onto the
// canonical order types. Unknown values are left as stored.
func normalizeOrderType(order *models.Order) {
	if orderType, ok := models.ParseOrderType(string(order.OrderType)); ok {
		order.OrderType = orderType
	}
}

func normalizeStored(orders []models.Order) {
	for i := range orders {
		normalizeOrderType(&orders[i])
	}
}

// Create validates the draft, computes the total from its items and stores
// the order as pending unless another status is given.
func (s *OrderService) Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	orderType, ok := models.ParseOrderType(draft.OrderType)
	if !ok {
		return nil, invalid("orderType", "must be one of: dine-in, takeaway")
	}

	status := models.StatusPending
	if draft.Status != "" {
		status = models.OrderStatus(strings.TrimSpace(draft.Status))
	}

	now := s.now().UTC()
	order := models.Order{
		ID:            uuid.NewString(),
		OrderType:     orderType,
		CustomerName:  strings.TrimSpace(draft.CustomerName),
		CustomerPhone: strings.TrimSpace(draft.CustomerPhone),
		TableNumber:   draft.TableNumber,
		Items:         cleanItems(draft.Items),
		Status:        status,
		Notes:         draft.Notes,
		CreatedAt:     &now,
		UpdatedAt:     &now,
	}
	if err := validateOrder(&order); err != nil {
		return nil, err
	}

	order.TotalPrice = OrderTotal(order.Items)
	if draft.TotalPrice != nil && !decimal.NewFromFloat(*draft.TotalPrice).Equal(decimal.NewFromFloat(order.TotalPrice)) {
		s.log.Warn("submitted order total does not match its items",
			"submitted_total", *draft.TotalPrice,
			"computed_total", order.TotalPrice,
		)
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, storageError("insert order", err)
	}

	if s.events != nil {
		s.events.OrderCreated(ctx, order)
	}
	return &order, nil
}

// Update applies patch to an existing order. The whole order is re-validated
// only when a structural field is patched, so a status-only patch never fails
// on fields stored by older clients. Concurrent updates are last-write-wins.
func (s *OrderService) Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if err := s.applyPatch(&updated, patch); err != nil {
		return nil, err
	}
	if patch.Structural() {
		if err := validateOrder(&updated); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, current, updated)
}

// UpdateStatus changes only the status of an order, checked against the status policy.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	return s.Update(ctx, id, models.OrderPatch{Status: &status})
}

func (s *OrderService) save(ctx context.Context, current *models.Order, updated models.Order) (*models.Order, error) {
	now := s.now().UTC()
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = &now

	if err := s.repo.Replace(ctx, updated); err != nil {
		return nil, storageError("update order", err)
	}

	if s.events != nil && updated.Status != current.Status {
		s.events.OrderStatusChanged(ctx, updated, current.Status)
	}
	return &updated, nil
}

// Delete removes an order unconditionally.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("id", "is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageError("delete order", err)
	}
	return nil
}

func (s *OrderService) applyPatch(order *models.Order, patch models.OrderPatch) error {
	if patch.OrderType != nil {
		orderType, ok := models.ParseOrderType(*patch.OrderType)
		if !ok {
			return invalid("orderType", "must be one of: dine-in, takeaway")
		}
		order.OrderType = orderType
	}
	if patch.CustomerName != nil {
		order.CustomerName = strings.TrimSpace(*patch.CustomerName)
	}
	if patch.CustomerPhone != nil {
		order.CustomerPhone = strings.TrimSpace(*patch.CustomerPhone)
	}
	if patch.TableNumber != nil {
		order.TableNumber = patch.TableNumber
	}
	if patch.Notes != nil {
		order.Notes = *patch.Notes
	}
	if patch.Items != nil {
		order.Items = cleanItems(*patch.Items)
		order.TotalPrice = OrderTotal(order.Items)
	}
	if patch.Status != nil {
		next := models.OrderStatus(strings.TrimSpace(*patch.Status))
		if !next.Valid() {
			return invalidStatus()
		}
		if !s.policy.Allows(order.Status, next) {
			return invalid("status", fmt.Sprintf("cannot move from %s to %s", order.Status, next))
		}
		order.Status = next
	}
	return nil
}

func validateOrder(order *models.Order) error {
	if len(order.Items) == 0 {
		return invalid("items", "at least one item is required")
	}
	if err := validateStruct(order); err != nil {
		return err
	}

	switch order.OrderType {
	case models.OrderDineIn:
		if order.TableNumber == nil {
			return invalid("tableNumber", "is required for dine-in orders")
		}
	case models.OrderTakeaway:
		if order.CustomerName == "" {
			return invalid("customerName", "is required for takeaway orders")
		}
		if order.CustomerPhone == "" {
			return invalid("customerPhone", "is required for takeaway orders")
		}
	default:
		return invalid("orderType", "must be one of: dine-in, takeaway")
	}

	if !order.Status.Valid() {
		return invalidStatus()
	}
	return nil
}

func invalidStatus() error {
	return invalid("status", "must be one of: pending, preparing, ready, completed")
}

func cleanItems(items []models.OrderItem) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	for i, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		out[i] = item
	}
	return out
}

// OrderTotal returns the sum of price x quantity, computed in decimal.
func OrderTotal(items []models.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}

// SortNewestFirst orders by CreatedAt descending; orders without a timestamp go last.
func SortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i].CreatedAt, orders[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
