// Package queue_publisher publishes domain events to RabbitMQ. Errors are
// logged and returned so callers can decide whether a failed publish should
// interrupt the request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/emotion-detection-service/internal/queue"
)

// Publisher publishes fine-tune events to the broker at URL. A fresh
// connection per publish keeps the publisher stateless; the trigger is
// rare enough that connection reuse would buy nothing.
type Publisher struct {
	URL string
}

func New(url string) *Publisher { return &Publisher{URL: url} }

// PublishFineTuneRequested publishes a FineTuneRequestedEvent to the
// model.fine_tune queue. Messages are marked persistent so an accepted
// request survives a broker restart.
func (p *Publisher) PublishFineTuneRequested(ctx context.Context, event q.FineTuneRequestedEvent) error {
	conn, err := amqp.Dial(p.URL)
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

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.FineTuneQueueName, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.FineTuneQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
