package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
)

// steppingClock returns a clock that advances one second on every call.
func steppingClock(start time.Time) Clock {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

var errBackend = errors.New("connection reset by peer")

// failingOrderRepository fails every call.
type failingOrderRepository struct{}

func (failingOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	return nil, errBackend
}
func (failingOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	return nil, errBackend
}
func (failingOrderRepository) Insert(ctx context.Context, order models.Order) error { return errBackend }
func (failingOrderRepository) Replace(ctx context.Context, order models.Order) error {
	return errBackend
}
func (failingOrderRepository) Delete(ctx context.Context, id string) error { return errBackend }

// recordingEvents captures order notifications.
type recordingEvents struct {
	mu      sync.Mutex
	created []models.Order
	changed []statusChange
}

type statusChange struct {
	orderID  string
	from, to models.OrderStatus
}

func (r *recordingEvents) OrderCreated(ctx context.Context, order models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, order)
}

func (r *recordingEvents) OrderStatusChanged(ctx context.Context, order models.Order, previous models.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, statusChange{orderID: order.ID, from: previous, to: order.Status})
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func validationField(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
