// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package events publishes domain events to RabbitMQ.

Events are best effort: services publish after their transaction commits and
only log failures. Each routing key maps to a durable queue of the same name
on the default exchange.

Envelope:

	{"event": "post.created", "occurredAt": "...", "data": {...}}
*/
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publishTimeout bounds a single publish so a stalled broker cannot hold a request.
const publishTimeout = 2 * time.Second

// # Contracts

// Publisher delivers a domain event under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Envelope is the JSON body of every published message.
type Envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func encode(routingKey string, payload any, now time.Time) ([]byte, error) {
	body, err := json.Marshal(Envelope{Event: routingKey, OccurredAt: now.UTC(), Data: payload})
	if err != nil {
		return nil, fmt.Errorf("events: marshal %s failed: %w", routingKey, err)
	}
	return body, nil
}

// # RabbitMQ Publisher

// AMQPPublisher publishes persistent JSON messages over one shared channel.
//
// amqp091 channels are not safe for concurrent publishing, so Publish
// serialises on a mutex.
type AMQPPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	now        func() time.Time
}

// NewAMQPPublisher dials the broker and declares a durable queue per routing key.
func NewAMQPPublisher(url string, routingKeys []string, logger *slog.Logger) (*AMQPPublisher, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial failed: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("events: channel open failed: %w", err)
	}

	for _, key := range routingKeys {
		if _, err := channel.QueueDeclare(key, true, false, false, false, nil); err != nil {
			_ = channel.Close()
			_ = connection.Close()
			return nil, fmt.Errorf("events: queue declare %s failed: %w", key, err)
		}
	}

	logger.Info("event broker connected", slog.Any("queues", routingKeys))

	return &AMQPPublisher{connection: connection, channel: channel, now: time.Now}, nil
}

// Publish sends payload wrapped in an [Envelope] to the queue named routingKey.
func (publisher *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := encode(routingKey, payload, publisher.now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	err = publisher.channel.PublishWithContext(ctx, "", routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    publisher.now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("events: publish %s failed: %w", routingKey, err)
	}

	return nil
}

// Close shuts down the channel and the connection.
func (publisher *AMQPPublisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if err := publisher.channel.Close(); err != nil {
		_ = publisher.connection.Close()
		return fmt.Errorf("events: channel close failed: %w", err)
	}
	return publisher.connection.Close()
}

// # No-op Publisher

// Nop discards every event. It is wired when no broker URL is configured.
type Nop struct{}

// Publish implements [Publisher].
func (Nop) Publish(context.Context, string, any) error { return nil }
