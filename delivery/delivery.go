// Package delivery implements the Inbound Delivery Handler of
// spec.md §4.8: translating AMQP basic.deliver/basic.ack events into
// MQTT PUBLISH/PUBACK frames and maintaining the awaiting_ack table.
package delivery

import (
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/publisher"
	"github.com/c3pb/rabbitmq-mqtt/session"
)

// Handler drives the inbound (AMQP → MQTT) delivery path for a single
// connection.
type Handler struct {
	mapper contract.TopicMapper
	sender contract.FrameSender
}

// New returns a Handler that emits frames via sender, translating
// routing keys back to MQTT topics with mapper.
func New(mapper contract.TopicMapper, sender contract.FrameSender) *Handler {
	return &Handler{mapper: mapper, sender: sender}
}

// qosPair is the (delivery_qos, sub_qos) pair of spec.md §4.8 step 3.
type qosPair struct {
	delivery contract.QoS
	sub      contract.QoS
}

// HandleDeliver implements spec.md §4.8 steps 2-6 for a single
// basic.deliver. qos0ConsumerTag is the tag the Subscription Queue
// Manager recorded for the QoS-0 queue consumer (queue.Manager's
// ConsumerTag); when delivery.ConsumerTag matches it, the pair is
// always (0,0).
func (h *Handler) HandleDeliver(state *session.State, qos0ConsumerTag string, delivery amqp091.Delivery) error {
	dup := delivery.Redelivered || headerBool(delivery.Headers, publisher.HeaderDup)

	pair := h.qosPairFor(qos0ConsumerTag, delivery)

	if dup && pair.delivery == contract.QoS0 && pair.sub == contract.QoS1 {
		return state.Channels[0].Ack(delivery.DeliveryTag, false)
	}

	if dup && pair.delivery == contract.QoS0 && pair.sub == contract.QoS0 {
		return nil
	}

	topic := h.mapper.AMQPToMQTT(delivery.RoutingKey)

	var messageID *uint16

	if pair.delivery == contract.QoS1 {
		id := state.NextMessageID()
		messageID = &id
	}

	if err := h.sender.SendPublish(contract.MqttMsg{
		Retain:    false,
		QoS:       pair.delivery,
		Dup:       dup,
		Topic:     topic,
		MessageID: messageID,
		Payload:   delivery.Body,
	}); err != nil {
		return err
	}

	switch {
	case pair.delivery == contract.QoS0 && pair.sub == contract.QoS1:
		return state.Channels[0].Ack(delivery.DeliveryTag, false)
	case pair.delivery == contract.QoS1 && pair.sub == contract.QoS1:
		state.AwaitingAck.Set(*messageID, delivery.DeliveryTag)
	}

	return nil
}

// qosPairFor computes (delivery_qos, sub_qos) per spec.md §4.8 step 3.
func (h *Handler) qosPairFor(qos0ConsumerTag string, delivery amqp091.Delivery) qosPair {
	if delivery.ConsumerTag == qos0ConsumerTag {
		return qosPair{delivery: contract.QoS0, sub: contract.QoS0}
	}

	deliveryQoS := contract.QoS1

	if raw, ok := delivery.Headers[publisher.HeaderPublishQoS]; ok {
		if q, ok := asQoS(raw); ok {
			deliveryQoS = q.Effective()
		}
	}

	return qosPair{delivery: deliveryQoS, sub: contract.QoS1}
}

// HandleAck implements spec.md §4.8's basic.ack handling: single-ack
// looks up one entry, cumulative-ack drains every entry whose
// sequence number is at most tag, in ascending order.
func (h *Handler) HandleAck(state *session.State, tag uint64, multiple bool) error {
	if !multiple {
		msgID, ok := state.UnackedPubs.Get(tag)

		if !ok {
			return nil
		}

		state.UnackedPubs.Delete(tag)

		return h.sender.SendPuback(contract.Puback{MessageID: msgID})
	}

	for {
		seqno, msgID, ok := state.UnackedPubs.First()

		if !ok || seqno > tag {
			return nil
		}

		state.UnackedPubs.Delete(seqno)

		if err := h.sender.SendPuback(contract.Puback{MessageID: msgID}); err != nil {
			return err
		}
	}
}

// HandlePuback implements spec.md §4.8's client-PUBACK handling: a
// message-id with no matching awaiting_ack entry is silently
// ignored, tolerating bogus clients and QoS downgrades.
func (h *Handler) HandlePuback(state *session.State, messageID uint16) error {
	deliveryTag, ok := state.AwaitingAck.Get(messageID)

	if !ok {
		return nil
	}

	state.AwaitingAck.Delete(messageID)

	return state.Channels[0].Ack(deliveryTag, false)
}

func headerBool(headers amqp091.Table, key string) bool {
	raw, ok := headers[key]

	if !ok {
		return false
	}

	b, ok := raw.(bool)

	return ok && b
}

func asQoS(raw any) (contract.QoS, bool) {
	switch v := raw.(type) {
	case int:
		return contract.QoS(v), true
	case int32:
		return contract.QoS(v), true
	case int64:
		return contract.QoS(v), true
	case contract.QoS:
		return v, true
	default:
		return 0, false
	}
}
