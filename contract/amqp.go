package contract

import (
	"context"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

// AMQPChannel is the subset of *amqp091.Channel the processor drives.
// It exists so the processor and its subordinate components never
// import the driver package directly and can be exercised against a
// fake in tests; *amqp091.Channel already satisfies this interface.
type AMQPChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueDeclarePassive(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	QueueUnbind(name, key, exchange string, args amqp091.Table) error
	QueueDelete(name string, ifUnused, ifEmpty, noWait bool) (int, error)
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Confirm(noWait bool) error
	NotifyPublish(confirm chan amqp091.Confirmation) chan amqp091.Confirmation
	NotifyClose(receiver chan *amqp091.Error) chan *amqp091.Error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Ack(tag uint64, multiple bool) error
	Close() error
}

// AMQPConnection is the subset of *amqp091.Connection the processor
// drives: opening channels and closing the connection.
type AMQPConnection interface {
	Channel() (AMQPChannel, error)
	Close() error
}

// AMQPBroker opens AMQP connections on behalf of a just-accepted MQTT
// client. This is the "direct (in-process) adapter" spec.md §4.2 step 6
// refers to: a real deployment dials the broker's own listener using
// the resolved vhost, username and password; the returned connection is
// otherwise a plain contract.AMQPConnection.
type AMQPBroker interface {
	OpenConnection(ctx context.Context, username, password, vhost string, info AdapterInfo) (AMQPConnection, error)
}
