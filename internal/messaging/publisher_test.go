package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/rabbitmq/amqp091-go"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher(ch *fakeChannel) *Publisher {
	return &Publisher{
		exchange: DefaultExchange,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ch:       ch,
	}
}

func sampleOrder() models.Order {
	table := 6
	return models.Order{
		ID:          "ord-1",
		OrderType:   models.OrderDineIn,
		TableNumber: &table,
		Items:       []models.OrderItem{{Name: "Chorba", Price: 350, Quantity: 2}},
		TotalPrice:  700,
		Status:      models.StatusReady,
	}
}

func TestStatusRoutingKey(t *testing.T) {
	tests := map[models.OrderStatus]string{
		models.StatusPending:   "order.status.pending",
		models.StatusPreparing: "order.status.preparing",
		models.StatusReady:     "order.status.ready",
		models.StatusCompleted: "order.status.completed",
	}
	for status, want := range tests {
		if got := StatusRoutingKey(status); got != want {
			t.Errorf("StatusRoutingKey(%s) = %s, want %s", status, got, want)
		}
	}
}

func TestNewEvents(t *testing.T) {
	at := time.Date(2025, 3, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600))
	order := sampleOrder()

	created := NewCreatedEvent(order, at)
	if created.Event != EventCreated || len(created.Items) != 1 || created.TotalPrice != 700 {
		t.Errorf("NewCreatedEvent() = %+v", created)
	}
	if created.OccurredAt.Location() != time.UTC {
		t.Errorf("OccurredAt should be UTC, got %v", created.OccurredAt)
	}

	changed := NewStatusEvent(order, models.StatusPreparing, at)
	if changed.Event != EventStatusChanged || changed.PreviousStatus != models.StatusPreparing || changed.Status != models.StatusReady {
		t.Errorf("NewStatusEvent() = %+v", changed)
	}
	if changed.Items != nil {
		t.Errorf("status events should not carry items, got %+v", changed.Items)
	}
}

func TestPublisher_Publishes(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)
	ctx := context.Background()
	order := sampleOrder()

	p.OrderCreated(ctx, order)
	p.OrderStatusChanged(ctx, order, models.StatusPreparing)

	if len(ch.sent) != 2 {
		t.Fatalf("published %d messages, want 2", len(ch.sent))
	}
	if ch.sent[0].key != RoutingKeyCreated || ch.sent[1].key != "order.status.ready" {
		t.Errorf("routing keys = %s, %s", ch.sent[0].key, ch.sent[1].key)
	}
	for _, m := range ch.sent {
		if m.exchange != DefaultExchange {
			t.Errorf("exchange = %s, want %s", m.exchange, DefaultExchange)
		}
		if m.msg.ContentType != "application/json" || m.msg.DeliveryMode != amqp091.Persistent {
			t.Errorf("publishing headers = %+v", m.msg)
		}
	}

	var event OrderEvent
	if err := json.Unmarshal(ch.sent[1].msg.Body, &event); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if event.OrderID != "ord-1" || event.PreviousStatus != models.StatusPreparing {
		t.Errorf("decoded event = %+v", event)
	}
}

func TestPublisher_FailuresAreSwallowed(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newTestPublisher(ch)

	// Must not panic or block.
	p.OrderCreated(context.Background(), sampleOrder())

	if len(ch.sent) != 0 {
		t.Errorf("nothing should be recorded on failure")
	}
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !ch.closed {
		t.Error("channel not closed")
	}

	p.OrderCreated(context.Background(), sampleOrder())
	if len(ch.sent) != 0 {
		t.Error("closed publisher should not publish")
	}
}
