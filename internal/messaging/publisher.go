package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchange is the topic exchange order events are published to.
	DefaultExchange = "orders_topic"

	RoutingKeyCreated      = "order.created"
	routingKeyStatusPrefix = "order.status."

	EventCreated       = "order_created"
	EventStatusChanged = "order_status_changed"

	publishTimeout = 5 * time.Second
)

// OrderEvent is the JSON body of every order message.
type OrderEvent struct {
	Event          string             `json:"event"`
	OrderID        string             `json:"orderId"`
	OrderType      models.OrderType   `json:"orderType"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	CustomerName   string             `json:"customerName,omitempty"`
	TableNumber    *int               `json:"tableNumber,omitempty"`
	Items          []models.OrderItem `json:"items,omitempty"`
	TotalPrice     float64            `json:"totalPrice"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

// StatusRoutingKey returns the routing key for orders entering status.
func StatusRoutingKey(status models.OrderStatus) string {
	return routingKeyStatusPrefix + string(status)
}

// NewCreatedEvent builds the message announcing a new order.
func NewCreatedEvent(order models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Event:        EventCreated,
		OrderID:      order.ID,
		OrderType:    order.OrderType,
		Status:       order.Status,
		CustomerName: order.CustomerName,
		TableNumber:  order.TableNumber,
		Items:        order.Items,
		TotalPrice:   order.TotalPrice,
		OccurredAt:   at.UTC(),
	}
}

// NewStatusEvent builds the message announcing a status change. Items are left out.
func NewStatusEvent(order models.Order, previous models.OrderStatus, at time.Time) OrderEvent {
	return OrderEvent{
		Event:          EventStatusChanged,
		OrderID:        order.ID,
		OrderType:      order.OrderType,
		Status:         order.Status,
		PreviousStatus: previous,
		CustomerName:   order.CustomerName,
		TableNumber:    order.TableNumber,
		TotalPrice:     order.TotalPrice,
		OccurredAt:     at.UTC(),
	}
}

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends order events to a RabbitMQ topic exchange.
// Failures are logged and never reported to the caller.
type Publisher struct {
	url      string
	exchange string
	log      *slog.Logger

	mu   sync.Mutex
	conn *amqp091.Connection
	ch   channel
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string, log *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if log == nil {
		log = slog.Default()
	}

	p := &Publisher{url: url, exchange: exchange, log: log}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare %s exchange: %w", p.exchange, err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

// OrderCreated publishes order.created.
func (p *Publisher) OrderCreated(ctx context.Context, order models.Order) {
	p.publish(ctx, RoutingKeyCreated, NewCreatedEvent(order, time.Now()))
}

// OrderStatusChanged publishes order.status.<status>.
func (p *Publisher) OrderStatusChanged(ctx context.Context, order models.Order, previous models.OrderStatus) {
	p.publish(ctx, StatusRoutingKey(order.Status), NewStatusEvent(order, previous, time.Now()))
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event OrderEvent) {
	if err := p.send(ctx, routingKey, event); err != nil {
		p.log.Error("failed to publish order event",
			"exchange", p.exchange,
			"routing_key", routingKey,
			"order_id", event.OrderID,
			"error", err,
		)
		return
	}
	p.log.Debug("order event published",
		"exchange", p.exchange,
		"routing_key", routingKey,
		"order_id", event.OrderID,
	)
}

func (p *Publisher) send(ctx context.Context, routingKey string, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}
	if p.ch == nil {
		return fmt.Errorf("publisher is closed")
	}

	// The request context may already be done once the response is written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.OrderID + ":" + event.Event,
			Body:         body,
		},
	)
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			firstErr = err
		}
		p.ch = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conn = nil
	}
	return firstErr
}
