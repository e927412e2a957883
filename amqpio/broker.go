// Package amqpio adapts the real github.com/rabbitmq/amqp091-go driver
// to contract.AMQPBroker/AMQPConnection/AMQPChannel, grounded on the
// teacher's framework/event.AMQPBroker connection-and-channel
// lifecycle (Dial, per-purpose channel, explicit Close on failure).
package amqpio

import (
	"context"
	"fmt"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// Broker dials a fixed AMQP host/port and opens one connection per
// resolved (vhost, username, password) triple, mirroring how
// spec.md §4.2 step 6 describes the direct adapter: each accepted MQTT
// client becomes its own AMQP connection.
type Broker struct {
	host string
	port int
}

// NewBroker returns a Broker that dials host:port for every connection.
func NewBroker(host string, port int) *Broker {
	return &Broker{host: host, port: port}
}

// OpenConnection dials the broker using the resolved credentials and
// vhost, translating amqp091's typed connection errors into the
// sentinel errors the processor understands.
func (b *Broker) OpenConnection(ctx context.Context, username, password, vhost string, info contract.AdapterInfo) (contract.AMQPConnection, error) {
	uri := amqp091.URI{
		Scheme:   "amqp",
		Host:     b.host,
		Port:     b.port,
		Username: username,
		Password: password,
		Vhost:    vhost,
	}

	conn, err := amqp091.DialConfig(uri.String(), amqp091.Config{})

	if err != nil {
		return nil, translateDialError(err)
	}

	return &Connection{conn: conn}, nil
}

func translateDialError(err error) error {
	var amqpErr *amqp091.Error

	if ok := asAMQPError(err, &amqpErr); ok {
		switch amqpErr.Code {
		case amqp091.AccessRefused:
			return fmt.Errorf("%w: %s", contract.ErrAccessRefused, amqpErr.Reason)
		case amqp091.NotAllowed:
			return fmt.Errorf("%w: %s", contract.ErrNotAllowed, amqpErr.Reason)
		}
	}

	return fmt.Errorf("%w: %w", contract.ErrAuthFailure, err)
}

func asAMQPError(err error, target **amqp091.Error) bool {
	amqpErr, ok := err.(*amqp091.Error)

	if !ok {
		return false
	}

	*target = amqpErr

	return true
}

// Connection wraps a live *amqp091.Connection.
type Connection struct {
	conn *amqp091.Connection
}

// Channel opens a new AMQP channel on the connection.
func (c *Connection) Channel() (contract.AMQPChannel, error) {
	return c.conn.Channel()
}

// Close closes the underlying AMQP connection.
func (c *Connection) Close() error {
	return c.conn.Close()
}

var (
	_ contract.AMQPBroker     = (*Broker)(nil)
	_ contract.AMQPConnection = (*Connection)(nil)
	_ contract.AMQPChannel    = (*amqp091.Channel)(nil)
)
