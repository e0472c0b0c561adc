// Package service hosts application services that sit between the HTTP
// layer and the repositories: event publishing and receipt rendering.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/travel-booking-platform/internal/queue"
)

// Publisher sends checkout events to RabbitMQ. Publishing is strictly
// best-effort: every error is logged and returned, and callers are expected
// to ignore it rather than fail the request. A fresh connection is dialed
// per publish; checkout volume does not justify connection pooling here and
// a broken cached connection must never take checkouts down with it.
type Publisher struct {
	url    string
	source string
}

// NewPublisher returns a Publisher for the given AMQP URL. source tags
// every event with the producing service name.
func NewPublisher(url, source string) *Publisher {
	return &Publisher{url: url, source: source}
}

// PublishBookingConfirmed sends a BookingConfirmedEvent to the durable
// booking.confirmed queue.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	return p.publish(ctx, queue.BookingConfirmedQueue, ev)
}

// PublishBookingFailed sends a BookingFailedEvent to the durable
// booking.failed queue.
func (p *Publisher) PublishBookingFailed(ctx context.Context, ev queue.BookingFailedEvent) error {
	return p.publish(ctx, queue.BookingFailedQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, ev any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		AppId:        p.source,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish to %s failed: %v", queueName, err)
		return err
	}
	return nil
}
