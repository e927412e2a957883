// Package queue implements the Subscription Queue Manager of spec.md
// §3/§4.4: deterministic per-client queue naming and lazy
// declare+consume for the QoS-0 and QoS-1 queues.
package queue

import (
	"fmt"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// NamesFor returns the deterministic (qos0, qos1) queue name pair for
// a client id. The two names are guaranteed distinct by construction
// (f0 ≠ f1, per spec.md §3) and stable across reconnects since they
// depend only on clientID.
func NamesFor(clientID []byte) (qos0, qos1 string) {
	return fmt.Sprintf("mqtt-subscription-%sqos0", clientID), fmt.Sprintf("mqtt-subscription-%sqos1", clientID)
}

// Manager lazily declares and consumes the QoS-0/QoS-1 queues for a
// single connection's channel[0], recording consumer tags so a
// repeated EnsureQueue for an already-active QoS is a pure lookup.
type Manager struct {
	channel      contract.AMQPChannel
	clientID     []byte
	qos0Name     string
	qos1Name     string
	consumerTags [2]string
	active       [2]bool
}

// New returns a Manager bound to channel, the connection's
// consume/QoS-0-publish channel (channel[0] in spec.md §3 terms).
func New(channel contract.AMQPChannel, clientID []byte) *Manager {
	qos0, qos1 := NamesFor(clientID)

	return &Manager{
		channel:  channel,
		clientID: clientID,
		qos0Name: qos0,
		qos1Name: qos1,
	}
}

// QueueName returns the deterministic queue name for the given QoS
// without declaring or consuming anything.
func (m *Manager) QueueName(qos contract.QoS) string {
	if qos == contract.QoS0 {
		return m.qos0Name
	}

	return m.qos1Name
}

// ConsumerTag returns the consumer tag recorded for qos, if its
// consumer is active.
func (m *Manager) ConsumerTag(qos contract.QoS) (string, bool) {
	idx := index(qos)

	if !m.active[idx] {
		return "", false
	}

	return m.consumerTags[idx], true
}

// EnsureQueue implements ensure_queue(QoS) from spec.md §4.4: if the
// consumer for qos is already active, it returns the queue name
// unchanged (deliveries is nil in that case, since the existing
// consumer's channel is already owned by the caller). Otherwise it
// declares the queue with the durability, auto-delete and arguments
// spec.md §3 requires and issues basic.consume, recording the
// returned consumer tag and handing back the fresh delivery channel.
//
// subscriptionTTLMs and cleanSession together gate the optional
// x-expires argument on the QoS-1 declaration, per spec.md §4.4.
func (m *Manager) EnsureQueue(qos contract.QoS, cleanSession bool, subscriptionTTLMs int64, hasTTL bool) (name string, deliveries <-chan amqp091.Delivery, err error) {
	idx := index(qos)
	name = m.QueueName(qos)

	if m.active[idx] {
		return name, nil, nil
	}

	var (
		durable    bool
		autoDelete bool
		autoAck    bool
		args       amqp091.Table
	)

	if qos == contract.QoS0 {
		durable = false
		autoDelete = true
		autoAck = true
	} else {
		durable = true
		autoDelete = cleanSession
		autoAck = false

		if hasTTL && !cleanSession {
			args = amqp091.Table{"x-expires": subscriptionTTLMs}
		}
	}

	if _, err := m.channel.QueueDeclare(name, durable, autoDelete, false, false, args); err != nil {
		return "", nil, fmt.Errorf("declare queue %q: %w", name, err)
	}

	consumerTag := fmt.Sprintf("mqtt%d-%s", qos, m.clientID)

	deliveries, err = m.channel.Consume(name, consumerTag, autoAck, false, false, false, nil)

	if err != nil {
		return "", nil, fmt.Errorf("consume queue %q: %w", name, err)
	}

	m.consumerTags[idx] = consumerTag
	m.active[idx] = true

	return name, deliveries, nil
}

// Unbind issues queue.unbind for qos's queue against exchange and
// routingKey, used by UNSUBSCRIBE (spec.md §4.6).
func (m *Manager) Unbind(exchange, routingKey string, qos contract.QoS) error {
	return m.channel.QueueUnbind(m.QueueName(qos), routingKey, exchange, nil)
}

// Bind issues queue.bind for qos's queue against exchange and
// routingKey, used by SUBSCRIBE (spec.md §4.5).
func (m *Manager) Bind(exchange, routingKey string, qos contract.QoS) error {
	return m.channel.QueueBind(m.QueueName(qos), routingKey, exchange, false, nil)
}

func index(qos contract.QoS) int {
	if qos == contract.QoS0 {
		return 0
	}

	return 1
}
