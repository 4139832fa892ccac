// Package events publishes blog lifecycle events to RabbitMQ. Publishing is
// best effort: failures are returned so callers can log and move on without
// interrupting the request.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	dialTimeout = 2 * time.Second
	// redialBackoff is how long a failed dial keeps further dials off.
	redialBackoff = 30 * time.Second
)

// ErrBrokerUnavailable is returned while a failed dial is backing off.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// Event types double as queue names on the default exchange.
const (
	BlogCreated = "blog.created"
	BlogUpdated = "blog.updated"
	BlogDeleted = "blog.deleted"
)

// BlogEvent describes a change to a blog.
type BlogEvent struct {
	Type       string    `json:"type"`
	BlogID     uuid.UUID `json:"blogId"`
	AuthorID   uuid.UUID `json:"authorId"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers blog events.
type Publisher interface {
	Publish(ctx context.Context, event BlogEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, BlogEvent) error { return nil }

// AMQPPublisher keeps one connection and channel open and redials lazily once
// either closes. After a failed dial it fails fast with ErrBrokerUnavailable
// until redialBackoff has passed.
type AMQPPublisher struct {
	url    string
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
	nextDial time.Time
}

// NewAMQPPublisher creates a publisher for the broker at url. No connection is
// made until the first publish.
func NewAMQPPublisher(url string, logger *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, logger: logger, now: time.Now}
}

// Publish declares the event's durable queue once per connection and sends a
// persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, event BlogEvent) error {
	body, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if !p.declared[event.Type] {
		if _, err := ch.QueueDeclare(
			event.Type, // name
			true,       // durable
			false,      // autoDelete
			false,      // exclusive
			false,      // noWait
			nil,        // args
		); err != nil {
			p.reset()
			return fmt.Errorf("declare queue: %w", err)
		}
		p.declared[event.Type] = true
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", event.Type, false, false, pub); err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}

	p.logger.Debug("event published", zap.String("event", event.Type), zap.String("blog_id", event.BlogID.String()))
	return nil
}

// Close shuts the open channel and connection, if any.
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

// channel returns the open channel, dialing when there is none. Callers hold mu.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	if p.now().Before(p.nextDial) {
		return nil, ErrBrokerUnavailable
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		p.nextDial = p.now().Add(redialBackoff)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		p.nextDial = p.now().Add(redialBackoff)
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p.conn, p.ch = conn, ch
	p.declared = make(map[string]bool)
	p.nextDial = time.Time{}
	p.logger.Info("rabbitmq: connected")
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch, p.declared = nil, nil, nil
}

func encode(event BlogEvent) ([]byte, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return json.Marshal(event)
}
