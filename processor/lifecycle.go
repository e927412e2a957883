package processor

import (
	"context"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// SendWill implements spec.md §4.10's send_will: a no-op if no will
// was declared at CONNECT; otherwise a topic write-access check
// gating whether the will is actually published, followed by closing
// channel[1] then channel[0] if present. Failure of the access check
// is swallowed rather than propagated, since a refused will must not
// block teardown; it is neither logged nor reported to the caller.
func (p *Processor) SendWill(ctx context.Context) error {
	ctx = ctxOrBackground(ctx)

	if p.state.WillMsg != nil {
		will := *p.state.WillMsg
		routingKey := p.deps.Mapper.MQTTToAMQP(will.Topic)

		if err := p.deps.Access.CheckTopicWrite(ctx, p.state.AuthState.Username, p.state.AuthState.Vhost, p.state.Exchange, routingKey); err == nil {
			_ = p.pub.Publish(ctx, p.state.AuthState.Vhost, p.state, contract.MqttMsg{
				Retain:  will.Retain,
				QoS:     will.QoS.Effective(),
				Topic:   will.Topic,
				Payload: will.Payload,
			})
		}
	}

	if p.state.Channels[1] != nil {
		_ = p.state.Channels[1].Close()
	}

	if p.state.Channels[0] != nil {
		_ = p.state.Channels[0].Close()
	}

	return nil
}

// CloseConnection implements spec.md §4.10's close_connection:
// unregister from the collector, then best-effort close the AMQP
// connection, swallowing any error it returns.
func (p *Processor) CloseConnection(ctx context.Context) {
	ctx = ctxOrBackground(ctx)

	if p.state.Connection == nil {
		return
	}

	if len(p.state.ClientID) > 0 {
		_ = p.deps.Collector.Unregister(ctx, p.state.ClientID)
	}

	_ = p.state.Connection.Close()

	p.deps.Keepalive.Stop()
	p.state.Connected = false
}
