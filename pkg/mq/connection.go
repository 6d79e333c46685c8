package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "events"
)

// NewConnection creates a new RabbitMQ connection.
func NewConnection(url string) (*amqp091.Connection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// topologyDeclarer is the slice of amqp091.Channel used to set up exchanges
// and queues.
type topologyDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
}

// DeclareExchange declares the events topic exchange.
func DeclareExchange(ch topologyDeclarer) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// DeclarePublisherTopology declares every exchange a publisher may target:
// the events exchange and the dead letter exchange. Publishing to an
// undeclared exchange closes the channel, so both must exist before the
// first Publish or PublishToDLQ.
func DeclarePublisherTopology(ch topologyDeclarer) error {
	if err := DeclareExchange(ch); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if err := DeclareDLQExchange(ch); err != nil {
		return fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}
	return nil
}

// DeclareConsumerTopology declares the consumer queue bound to routingKey on
// the events exchange, plus the dead letter queue that retains poison
// messages parked under the same routing key.
func DeclareConsumerTopology(ch topologyDeclarer, queueName, routingKey string) (amqp091.Queue, error) {
	if err := DeclarePublisherTopology(ch); err != nil {
		return amqp091.Queue{}, err
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, ExchangeName, false, nil); err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to bind queue: %w", err)
	}

	if _, err := DeclareDLQQueue(ch, routingKey); err != nil {
		return amqp091.Queue{}, err
	}

	return q, nil
}
