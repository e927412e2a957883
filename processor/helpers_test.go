package processor_test

import (
	"context"
	"errors"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

type fakeConfig struct {
	exchange       string
	vhost          string
	allowAnonymous bool
	prefetch       int
	ttlMs          int64
	hasTTL         bool
}

func (c fakeConfig) Exchange() string                      { return c.exchange }
func (c fakeConfig) Vhost() string                          { return c.vhost }
func (c fakeConfig) DefaultUser() (string, string, bool)    { return "", "", false }
func (c fakeConfig) AllowAnonymous() bool                   { return c.allowAnonymous }
func (c fakeConfig) SSLCertLogin() bool                     { return false }
func (c fakeConfig) IgnoreColonsInUsername() bool           { return false }
func (c fakeConfig) Prefetch() int                          { return c.prefetch }
func (c fakeConfig) SubscriptionTTL() (int64, bool)         { return c.ttlMs, c.hasTTL }

type fakeParams struct{}

func (fakeParams) VhostForCertificate(string) (string, bool) { return "", false }
func (fakeParams) VhostForPort(int) (string, bool)            { return "", false }

type fakeChannel struct {
	conn      *fakeConnection
	declared  []string
	bound     []string
	unbound   []string
	acked       []uint64
	published   []amqp091.Publishing
	routingKeys []string
	closed      bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error) {
	f.declared = append(f.declared, name)

	if f.conn != nil {
		if f.conn.declaredQueues == nil {
			f.conn.declaredQueues = make(map[string]bool)
		}

		f.conn.declaredQueues[name] = true
	}

	return amqp091.Queue{Name: name}, nil
}

// QueueDeclarePassive reports amqp091.ErrNotFound-style failure for any
// queue not already present on the connection, the way a real broker
// would, so tests can simulate a queue that does or doesn't pre-exist.
func (f *fakeChannel) QueueDeclarePassive(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error) {
	if f.conn != nil && f.conn.declaredQueues[name] {
		return amqp091.Queue{Name: name}, nil
	}

	return amqp091.Queue{}, errors.New("NOT_FOUND - no queue")
}

func (f *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error {
	f.bound = append(f.bound, name+"|"+key)
	return nil
}

func (f *fakeChannel) QueueUnbind(name, key, exchange string, args amqp091.Table) error {
	f.unbound = append(f.unbound, name+"|"+key)
	return nil
}

func (f *fakeChannel) QueueDelete(name string, ifUnused, ifEmpty, noWait bool) (int, error) {
	return 0, nil
}

func (f *fakeChannel) Consume(queueName, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error) {
	return make(chan amqp091.Delivery), nil
}

func (f *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error { return nil }
func (f *fakeChannel) Confirm(noWait bool) error                             { return nil }
func (f *fakeChannel) NotifyPublish(c chan amqp091.Confirmation) chan amqp091.Confirmation {
	return c
}
func (f *fakeChannel) NotifyClose(c chan *amqp091.Error) chan *amqp091.Error { return c }
func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	f.published = append(f.published, msg)
	f.routingKeys = append(f.routingKeys, key)
	return nil
}
func (f *fakeChannel) Ack(tag uint64, multiple bool) error {
	f.acked = append(f.acked, tag)
	return nil
}
func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeConnection struct {
	channels       []*fakeChannel
	declaredQueues map[string]bool
	closed         bool
}

func (f *fakeConnection) Channel() (contract.AMQPChannel, error) {
	ch := &fakeChannel{conn: f}
	f.channels = append(f.channels, ch)
	return ch, nil
}

func (f *fakeConnection) Close() error {
	f.closed = true
	return nil
}

type fakeBroker struct {
	conn *fakeConnection
	err  error
}

func (f *fakeBroker) OpenConnection(ctx context.Context, username, password, vhost string, info contract.AdapterInfo) (contract.AMQPConnection, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.conn, nil
}

type fakeAccess struct {
	vhostExists   bool
	loopbackOK    bool
	readErr       error
	writeErr      error
}

func (f *fakeAccess) VhostExists(ctx context.Context, vhost string) (bool, error) { return f.vhostExists, nil }
func (f *fakeAccess) CheckLoopback(ctx context.Context, user, peerHost string) (bool, error) {
	return f.loopbackOK, nil
}
func (f *fakeAccess) CheckTopicRead(ctx context.Context, user, vhost, exchange, routingKey string) error {
	return f.readErr
}
func (f *fakeAccess) CheckTopicWrite(ctx context.Context, user, vhost, exchange, routingKey string) error {
	return f.writeErr
}

type fakeCollector struct {
	registered   [][]byte
	unregistered [][]byte
}

func (f *fakeCollector) Register(ctx context.Context, clientID []byte) error {
	f.registered = append(f.registered, clientID)
	return nil
}

func (f *fakeCollector) Unregister(ctx context.Context, clientID []byte) error {
	f.unregistered = append(f.unregistered, clientID)
	return nil
}

type fakeRetainer struct {
	byTopic map[string][]contract.RetainedMessage
}

func newFakeRetainer() *fakeRetainer {
	return &fakeRetainer{byTopic: make(map[string][]contract.RetainedMessage)}
}

func (f *fakeRetainer) Retain(ctx context.Context, vhost string, topic []byte, msg contract.RetainedMessage) error {
	f.byTopic[string(topic)] = []contract.RetainedMessage{msg}
	return nil
}

func (f *fakeRetainer) Clear(ctx context.Context, vhost string, topic []byte) error {
	delete(f.byTopic, string(topic))
	return nil
}

func (f *fakeRetainer) Fetch(ctx context.Context, vhost string, topic []byte) ([]contract.RetainedMessage, error) {
	return f.byTopic[string(topic)], nil
}

type fakeSender struct {
	connacks  []contract.Connack
	pubs      []contract.MqttMsg
	subacks   []contract.Suback
	unsubacks []contract.Unsuback
	pubacks   []contract.Puback
	pingresps int
}

func (f *fakeSender) SendConnack(c contract.Connack) error {
	f.connacks = append(f.connacks, c)
	return nil
}
func (f *fakeSender) SendPublish(m contract.MqttMsg) error {
	f.pubs = append(f.pubs, m)
	return nil
}
func (f *fakeSender) SendSuback(s contract.Suback) error {
	f.subacks = append(f.subacks, s)
	return nil
}
func (f *fakeSender) SendUnsuback(u contract.Unsuback) error {
	f.unsubacks = append(f.unsubacks, u)
	return nil
}
func (f *fakeSender) SendPuback(p contract.Puback) error {
	f.pubacks = append(f.pubacks, p)
	return nil
}
func (f *fakeSender) SendPingresp(contract.Pingresp) error {
	f.pingresps++
	return nil
}

type fakeKeepalive struct {
	started []uint16
	stopped bool
}

func (f *fakeKeepalive) Start(seconds uint16) { f.started = append(f.started, seconds) }
func (f *fakeKeepalive) Stop()                { f.stopped = true }
func (f *fakeKeepalive) Reset()               {}

type fakeSocket struct {
	peerHost  string
	localHost string
}

func (f fakeSocket) PeerHost() string  { return f.peerHost }
func (f fakeSocket) LocalHost() string { return f.localHost }
