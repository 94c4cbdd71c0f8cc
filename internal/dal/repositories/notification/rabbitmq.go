package notificationrepo

import (
	"context"
	"encoding/json"

	"github.com/briansbrian/coshop/order/internal/dal/rabbitmq"
	"github.com/briansbrian/coshop/order/internal/service/models/notification"
	"github.com/streadway/amqp"
)

// QueueName is the queue the external notification collaborator consumes.
const QueueName = "marketplace.order.events"

// RabbitMQRepository publishes notification events to the broker,
// best-effort and at-most-once.
type RabbitMQRepository struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

// NewRabbitMQRepository creates the publisher and declares its queue.
func NewRabbitMQRepository(client *rabbitmq.Client) *RabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       QueueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &RabbitMQRepository{
		client: client,
		queue:  queue,
	}
}

// Publish sends one event to the notification queue.
func (r *RabbitMQRepository) Publish(ctx context.Context, event notification.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Channel().Publish(
		"",
		r.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
