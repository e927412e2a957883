// Package publisher implements the Outbound Publisher of spec.md
// §4.7: turning a client PUBLISH into an AMQP basic.publish, lazily
// opening the QoS-1 confirm channel, and tracking the
// sequence-number → MQTT-message-id mapping later used for PUBACK.
package publisher

import (
	"context"
	"fmt"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/session"
)

// HeaderPublishQoS and HeaderDup are the AMQP headers the bridge
// attaches to every outbound basic.publish, read back by the Inbound
// Delivery Handler of package delivery.
const (
	HeaderPublishQoS = "x-mqtt-publish-qos"
	HeaderDup        = "x-mqtt-dup"
)

// Publisher drives the outbound (MQTT → AMQP) publish path for a
// single connection.
type Publisher struct {
	mapper   contract.TopicMapper
	retainer contract.Retainer
}

// New returns a Publisher using mapper for topic translation and
// retainer for retained-message bookkeeping.
func New(mapper contract.TopicMapper, retainer contract.Retainer) *Publisher {
	return &Publisher{mapper: mapper, retainer: retainer}
}

// Publish implements spec.md §4.7 steps 2-6. Topic write access
// (step 1) is the caller's responsibility, since it is an
// access-control concern the processor owns, not the publisher.
//
// msg.QoS must already be the effective QoS (QoS-2 downgraded to
// QoS-1, per spec.md §4.7's opening line); callers do that rewrite
// before calling Publish.
func (p *Publisher) Publish(ctx context.Context, vhost string, state *session.State, msg contract.MqttMsg) error {
	channel, err := p.channelFor(msg.QoS, state)

	if err != nil {
		return fmt.Errorf("select publish channel: %w", err)
	}

	deliveryMode := uint8(1)

	if msg.QoS == contract.QoS1 {
		deliveryMode = 2
	}

	routingKey := p.mapper.MQTTToAMQP(msg.Topic)

	publishing := amqp091.Publishing{
		Headers: amqp091.Table{
			HeaderPublishQoS: int(msg.QoS),
			HeaderDup:        msg.Dup,
		},
		DeliveryMode: deliveryMode,
		Body:         msg.Payload,
	}

	if msg.QoS == contract.QoS1 && msg.MessageID != nil {
		seqno := state.NextSeqno()
		state.UnackedPubs.Set(seqno, *msg.MessageID)
	}

	if err := channel.PublishWithContext(ctx, state.Exchange, routingKey, false, false, publishing); err != nil {
		return fmt.Errorf("publish to %q: %w", routingKey, err)
	}

	if msg.Retain {
		if len(msg.Payload) == 0 {
			return p.retainer.Clear(ctx, vhost, msg.Topic)
		}

		return p.retainer.Retain(ctx, vhost, msg.Topic, contract.RetainedMessage{QoS: msg.QoS, Payload: msg.Payload})
	}

	return nil
}

// channelFor implements the channel-choice and lazy-open rule of
// spec.md §4.7 step 3: QoS-0 uses channel[0]; QoS-1 uses channel[1],
// opened here with confirm.select on first use.
func (p *Publisher) channelFor(qos contract.QoS, state *session.State) (contract.AMQPChannel, error) {
	if qos == contract.QoS0 {
		return state.Channels[0], nil
	}

	if state.Channels[1] != nil {
		return state.Channels[1], nil
	}

	channel, err := state.Connection.Channel()

	if err != nil {
		return nil, fmt.Errorf("open qos-1 publish channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	state.Channels[1] = channel

	return channel, nil
}
