package processor

import (
	"context"
	"sort"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// Subscribe implements spec.md §4.5. It verifies read access on every
// requested filter up front (step 1); any failure aborts the whole
// SUBSCRIBE and returns contract.ErrUnauthorized, which the caller
// must treat as fatal and close the connection.
func (p *Processor) Subscribe(ctx context.Context, frame contract.Subscribe) error {
	ctx = ctxOrBackground(ctx)

	for _, sub := range frame.Subscriptions {
		routingKey := p.deps.Mapper.MQTTToAMQP(sub.Topic)

		if err := p.deps.Access.CheckTopicRead(ctx, p.state.AuthState.Username, p.state.AuthState.Vhost, p.state.Exchange, routingKey); err != nil {
			return contract.ErrUnauthorized
		}
	}

	granted := make([]contract.QoS, 0, len(frame.Subscriptions))

	ttlMs, hasTTL := p.deps.Config.SubscriptionTTL()

	for _, sub := range frame.Subscriptions {
		effective := sub.RequestedQoS.Effective()

		_, deliveries, err := p.queue.EnsureQueue(effective, p.state.CleanSession, ttlMs, hasTTL)

		if err != nil {
			return err
		}

		if deliveries != nil {
			p.storeDeliveries(effective, deliveries)
		}

		routingKey := p.deps.Mapper.MQTTToAMQP(sub.Topic)

		if err := p.queue.Bind(p.state.Exchange, routingKey, effective); err != nil {
			return err
		}

		topic := string(sub.Topic)
		p.state.Subscriptions[topic] = prependQoS(p.state.Subscriptions[topic], effective)

		granted = append(granted, effective)
	}

	if err := p.deps.Sender.SendSuback(contract.Suback{PacketID: frame.PacketID, GrantedQoS: granted}); err != nil {
		return err
	}

	return p.sendRetained(ctx, frame)
}

// sendRetained implements spec.md §4.5 step 4.
func (p *Processor) sendRetained(ctx context.Context, frame contract.Subscribe) error {
	startID := frame.PacketID

	if p.state.MessageID > startID {
		startID = p.state.MessageID
	}

	if startID == 0 {
		startID = 1
	}

	p.state.MessageID = startID

	for i, sub := range frame.Subscriptions {
		subQoS := sub.RequestedQoS.Effective()

		messages, err := p.deps.Retainer.Fetch(ctx, p.state.AuthState.Vhost, sub.Topic)

		if err != nil {
			continue
		}

		for _, msg := range messages {
			effective := subQoS

			if msg.QoS < effective {
				effective = msg.QoS
			}

			var messageID *uint16

			if effective != contract.QoS0 {
				id := p.state.NextMessageID()
				messageID = &id
			}

			if err := p.deps.Sender.SendPublish(contract.MqttMsg{
				Retain:    true,
				QoS:       effective,
				Topic:     frame.Subscriptions[i].Topic,
				MessageID: messageID,
				Payload:   msg.Payload,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

// storeDeliveries records a freshly opened consumer's delivery
// channel so the caller's event loop can pick it up via
// QoS0Deliveries/QoS1Deliveries.
func (p *Processor) storeDeliveries(qos contract.QoS, deliveries <-chan amqp091.Delivery) {
	if qos == contract.QoS0 {
		p.qos0Deliveries = deliveries
		return
	}

	p.qos1Deliveries = deliveries
}

// prependQoS implements spec.md §8's documented non-deduplicating
// accumulation: repeated subscribes to the same topic grow the list,
// with the newest value first.
func prependQoS(existing []contract.QoS, qos contract.QoS) []contract.QoS {
	return append([]contract.QoS{qos}, existing...)
}

// dedupedSorted returns the ascending, de-duplicated set of QoS values
// recorded for a topic, used by UNSUBSCRIBE (spec.md §4.6), which
// de-duplicates only at unsubscribe time.
func dedupedSorted(values []contract.QoS) []contract.QoS {
	seen := make(map[contract.QoS]bool, len(values))
	out := make([]contract.QoS, 0, len(values))

	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
