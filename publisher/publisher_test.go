package publisher_test

import (
	"context"
	"testing"

	amqp091 "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/publisher"
	"github.com/c3pb/rabbitmq-mqtt/session"
	"github.com/c3pb/rabbitmq-mqtt/topicmap"
)

type fakeChannel struct {
	published      []amqp091.Publishing
	routingKeys    []string
	confirmEnabled bool
}

func (f *fakeChannel) QueueDeclare(string, bool, bool, bool, bool, amqp091.Table) (amqp091.Queue, error) {
	return amqp091.Queue{}, nil
}
func (f *fakeChannel) QueueDeclarePassive(string, bool, bool, bool, bool, amqp091.Table) (amqp091.Queue, error) {
	return amqp091.Queue{}, nil
}
func (f *fakeChannel) QueueBind(string, string, string, bool, amqp091.Table) error   { return nil }
func (f *fakeChannel) QueueUnbind(string, string, string, amqp091.Table) error       { return nil }
func (f *fakeChannel) QueueDelete(string, bool, bool, bool) (int, error)             { return 0, nil }
func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp091.Table) (<-chan amqp091.Delivery, error) {
	return nil, nil
}
func (f *fakeChannel) Qos(int, int, bool) error { return nil }
func (f *fakeChannel) Confirm(bool) error {
	f.confirmEnabled = true
	return nil
}
func (f *fakeChannel) NotifyPublish(c chan amqp091.Confirmation) chan amqp091.Confirmation { return c }
func (f *fakeChannel) NotifyClose(c chan *amqp091.Error) chan *amqp091.Error               { return c }
func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	f.published = append(f.published, msg)
	f.routingKeys = append(f.routingKeys, key)
	return nil
}
func (f *fakeChannel) Ack(uint64, bool) error { return nil }
func (f *fakeChannel) Close() error           { return nil }

type fakeConnection struct {
	channel    *fakeChannel
	channelErr error
}

func (f *fakeConnection) Channel() (contract.AMQPChannel, error) {
	if f.channelErr != nil {
		return nil, f.channelErr
	}

	return f.channel, nil
}

func (f *fakeConnection) Close() error { return nil }

type fakeRetainer struct {
	retained map[string]contract.RetainedMessage
	cleared  []string
}

func newFakeRetainer() *fakeRetainer {
	return &fakeRetainer{retained: make(map[string]contract.RetainedMessage)}
}

func (f *fakeRetainer) Retain(ctx context.Context, vhost string, topic []byte, msg contract.RetainedMessage) error {
	f.retained[string(topic)] = msg
	return nil
}

func (f *fakeRetainer) Clear(ctx context.Context, vhost string, topic []byte) error {
	f.cleared = append(f.cleared, string(topic))
	delete(f.retained, string(topic))
	return nil
}

func (f *fakeRetainer) Fetch(ctx context.Context, vhost string, topic []byte) ([]contract.RetainedMessage, error) {
	if msg, ok := f.retained[string(topic)]; ok {
		return []contract.RetainedMessage{msg}, nil
	}

	return nil, nil
}

func uint16p(v uint16) *uint16 { return &v }

func TestQoS0PublishUsesChannelZeroAndDeliveryModeOne(t *testing.T) {
	ch0 := &fakeChannel{}
	state := session.New()
	state.Channels[0] = ch0

	pub := publisher.New(topicmap.New(), newFakeRetainer())

	err := pub.Publish(context.Background(), "/", state, contract.MqttMsg{
		QoS:     contract.QoS0,
		Topic:   []byte("sensor/temp"),
		Payload: []byte("21.5"),
	})

	require.NoError(t, err)
	require.Len(t, ch0.published, 1)
	require.Equal(t, uint8(1), ch0.published[0].DeliveryMode)
	require.Equal(t, "sensor.temp", ch0.routingKeys[0])
}

func TestQoS1PublishLazilyOpensChannelOneWithConfirms(t *testing.T) {
	ch1 := &fakeChannel{}
	conn := &fakeConnection{channel: ch1}
	state := session.New()
	state.Connection = conn

	pub := publisher.New(topicmap.New(), newFakeRetainer())

	err := pub.Publish(context.Background(), "/", state, contract.MqttMsg{
		QoS:       contract.QoS1,
		Topic:     []byte("sensor/temp"),
		Payload:   []byte("21.5"),
		MessageID: uint16p(7),
	})

	require.NoError(t, err)
	require.True(t, ch1.confirmEnabled)
	require.Equal(t, uint8(2), ch1.published[0].DeliveryMode)
	require.Same(t, ch1, state.Channels[1])
}

func TestQoS1PublishTracksSeqnoToMessageIDMapping(t *testing.T) {
	ch1 := &fakeChannel{}
	conn := &fakeConnection{channel: ch1}
	state := session.New()
	state.Connection = conn

	pub := publisher.New(topicmap.New(), newFakeRetainer())

	require.NoError(t, pub.Publish(context.Background(), "/", state, contract.MqttMsg{
		QoS: contract.QoS1, Topic: []byte("a"), Payload: []byte("x"), MessageID: uint16p(5),
	}))
	require.NoError(t, pub.Publish(context.Background(), "/", state, contract.MqttMsg{
		QoS: contract.QoS1, Topic: []byte("b"), Payload: []byte("y"), MessageID: uint16p(6),
	}))

	msgID, ok := state.UnackedPubs.Get(1)
	require.True(t, ok)
	require.Equal(t, uint16(5), msgID)

	msgID, ok = state.UnackedPubs.Get(2)
	require.True(t, ok)
	require.Equal(t, uint16(6), msgID)
}

func TestQoS1PublishReusesTheAlreadyOpenChannelWithoutOpeningAnother(t *testing.T) {
	ch1 := &fakeChannel{}
	conn := &fakeConnection{channel: ch1}
	state := session.New()
	state.Connection = conn

	pub := publisher.New(topicmap.New(), newFakeRetainer())

	require.NoError(t, pub.Publish(context.Background(), "/", state, contract.MqttMsg{
		QoS: contract.QoS1, Topic: []byte("a"), Payload: []byte("x"), MessageID: uint16p(1),
	}))

	firstChannel := state.Channels[1]

	require.NoError(t, pub.Publish(context.Background(), "/", state, contract.MqttMsg{
		QoS: contract.QoS1, Topic: []byte("a"), Payload: []byte("y"), MessageID: uint16p(2),
	}))

	require.Same(t, firstChannel, state.Channels[1])
}

func TestRetainWithEmptyPayloadClearsInsteadOfRetaining(t *testing.T) {
	ch0 := &fakeChannel{}
	state := session.New()
	state.Channels[0] = ch0

	retainer := newFakeRetainer()
	retainer.retained["sensor/temp"] = contract.RetainedMessage{QoS: contract.QoS0, Payload: []byte("old")}

	pub := publisher.New(topicmap.New(), retainer)

	err := pub.Publish(context.Background(), "/", state, contract.MqttMsg{
		QoS:     contract.QoS0,
		Topic:   []byte("sensor/temp"),
		Retain:  true,
		Payload: nil,
	})

	require.NoError(t, err)
	require.Contains(t, retainer.cleared, "sensor/temp")
}

func TestRetainWithPayloadStoresTheMessage(t *testing.T) {
	ch0 := &fakeChannel{}
	state := session.New()
	state.Channels[0] = ch0
	state.Connection = &fakeConnection{channel: &fakeChannel{}}

	retainer := newFakeRetainer()
	pub := publisher.New(topicmap.New(), retainer)

	err := pub.Publish(context.Background(), "/", state, contract.MqttMsg{
		QoS:     contract.QoS1,
		Topic:   []byte("sensor/temp"),
		Retain:  true,
		Payload: []byte("22.0"),
	})

	require.NoError(t, err)
	require.Equal(t, []byte("22.0"), retainer.retained["sensor/temp"].Payload)
}
