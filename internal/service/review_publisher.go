// Package service publishes domain events to RabbitMQ.  Publishing is
// best-effort: errors are logged and returned so callers can ignore a broker
// outage without failing the request that triggered the event.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/film-catalogue/internal/queue"
)

// ReviewPublisher emits review.created events.  A zero URL disables
// publishing entirely.
type ReviewPublisher struct {
	URL string
	Log zerolog.Logger
}

// PublishReviewCreated sends the event to the review.created queue, declared
// durable so messages survive broker restarts.
func (p *ReviewPublisher) PublishReviewCreated(ctx context.Context, ev queue.ReviewCreatedEvent) error {
	if p == nil || p.URL == "" {
		return nil
	}
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue.ReviewQueueName, true, false, false, false, nil); err != nil {
		p.Log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ReviewQueueName, false, false, pub); err != nil {
		p.Log.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}
