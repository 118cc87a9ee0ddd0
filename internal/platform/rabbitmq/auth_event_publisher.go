package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"taskdeck/internal/model"
)

// AuthEventPublisher pushes auth audit records onto a durable queue for the
// persist worker to consume.
type AuthEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewAuthEventPublisher(conn *amqp.Connection, queueName string) *AuthEventPublisher {
	return &AuthEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *AuthEventPublisher) Publish(ctx context.Context, event model.AuthEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal auth event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish auth event failed: %w", err)
	}
	return nil
}
