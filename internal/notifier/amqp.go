package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const notificationQueue = "customer.notifications"

// AMQPNotifier hands notifications to a message broker instead of sending
// them inline, for deployments that run a separate delivery worker.
type AMQPNotifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

type notificationEvent struct {
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	QueuedAt  time.Time `json:"queued_at"`
}

func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Durable so queued notifications survive broker restarts.
	if _, err := ch.QueueDeclare(notificationQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPNotifier{conn: conn, ch: ch}, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	payload, err := json.Marshal(notificationEvent{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		QueuedAt:  time.Now().UTC(),
	})
	if err != nil {
		return &domain.NotificationError{Recipient: recipient, Err: err}
	}

	err = n.ch.PublishWithContext(ctx, "", notificationQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	})
	if err != nil {
		return &domain.NotificationError{Recipient: recipient, Err: err}
	}

	return nil
}

func (n *AMQPNotifier) Close() error {
	if err := n.ch.Close(); err != nil {
		n.conn.Close()
		return err
	}
	return n.conn.Close()
}
