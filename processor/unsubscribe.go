package processor

import "github.com/c3pb/rabbitmq-mqtt/contract"

// Unsubscribe implements spec.md §4.6. Authorization is not
// re-checked: it relies entirely on the read-access check already
// performed at SUBSCRIBE time.
func (p *Processor) Unsubscribe(frame contract.Unsubscribe) error {
	for _, topicBytes := range frame.Topics {
		topic := string(topicBytes)
		routingKey := p.deps.Mapper.MQTTToAMQP(topicBytes)

		for _, qos := range dedupedSorted(p.state.Subscriptions[topic]) {
			if err := p.queue.Unbind(p.state.Exchange, routingKey, qos); err != nil {
				return err
			}
		}

		delete(p.state.Subscriptions, topic)
	}

	return p.deps.Sender.SendUnsuback(contract.Unsuback{PacketID: frame.PacketID})
}
