// Package queue publishes auction lifecycle events to RabbitMQ for
// downstream consumers (analytics, audit trails). Publishing is
// fire-and-forget: a broker failure is logged and never interrupts the
// auction flow.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const lifecycleQueueName = "auction.lifecycle"

// LifecycleMessage is the wire envelope for one lifecycle event.
type LifecycleMessage struct {
	EventType  string      `json:"event_type"`
	AuctionID  string      `json:"auction_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload,omitempty"`
}

// Publisher holds one connection to the broker. A nil Publisher is valid
// and drops every message, which is how deployments without RabbitMQ run.
type Publisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
	url  string
}

// NewPublisher dials the broker and declares the durable lifecycle queue.
func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{url: url}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err = ch.QueueDeclare(
		lifecycleQueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

// Publish sends one lifecycle message, reconnecting once if the channel
// went away since the last publish. Failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, msg LifecycleMessage) {
	if p == nil {
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("event_type", msg.EventType).Msg("failed to marshal lifecycle message")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err = p.publishLocked(ctx, body); err != nil {
		if reconnectErr := p.reconnectLocked(); reconnectErr != nil {
			log.Error().Err(err).Str("event_type", msg.EventType).Msg("failed to publish lifecycle message")
			return
		}
		if err = p.publishLocked(ctx, body); err != nil {
			log.Error().Err(err).Str("event_type", msg.EventType).Msg("failed to publish lifecycle message")
		}
	}
}

func (p *Publisher) publishLocked(ctx context.Context, body []byte) error {
	if p.ch == nil || p.ch.IsClosed() {
		return amqp.ErrClosed
	}

	return p.ch.PublishWithContext(ctx,
		"",                 // default exchange
		lifecycleQueueName, // routing key = queue name
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *Publisher) reconnectLocked() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return p.connect()
}

// Close releases the broker connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
