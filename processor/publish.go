package processor

import (
	"context"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// Publish implements spec.md §4.7's client-PUBLISH handling: a QoS-2
// frame is downgraded to QoS-1 before anything else, then the topic
// write-access check runs, then the message is handed to the Outbound
// Publisher. The eventual client PUBACK (for QoS-1) is driven
// separately, by the AMQP publisher-confirm arriving on HandleAck.
func (p *Processor) Publish(ctx context.Context, frame contract.Publish) error {
	ctx = ctxOrBackground(ctx)

	routingKey := p.deps.Mapper.MQTTToAMQP(frame.Topic)

	if err := p.deps.Access.CheckTopicWrite(ctx, p.state.AuthState.Username, p.state.AuthState.Vhost, p.state.Exchange, routingKey); err != nil {
		return contract.ErrUnauthorized
	}

	return p.pub.Publish(ctx, p.state.AuthState.Vhost, p.state, contract.MqttMsg{
		Retain:    frame.Retain,
		QoS:       frame.QoS.Effective(),
		Dup:       frame.Dup,
		Topic:     frame.Topic,
		MessageID: frame.MessageID,
		Payload:   frame.Payload,
	})
}
