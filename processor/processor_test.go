package processor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/processor"
	"github.com/c3pb/rabbitmq-mqtt/queue"
	"github.com/c3pb/rabbitmq-mqtt/topicmap"
)

func newDeps() (processor.Deps, *fakeSender, *fakeConnection, *fakeAccess, *fakeCollector, *fakeKeepalive) {
	conn := &fakeConnection{}
	access := &fakeAccess{vhostExists: true, loopbackOK: true}
	collector := &fakeCollector{}
	keepalive := &fakeKeepalive{}
	sender := &fakeSender{}

	deps := processor.Deps{
		Config:    fakeConfig{exchange: "amq.topic", vhost: "/", prefetch: 10},
		Params:    fakeParams{},
		Broker:    &fakeBroker{conn: conn},
		Access:    access,
		Collector: collector,
		Retainer:  newFakeRetainer(),
		Mapper:    topicmap.New(),
		Sender:    sender,
		Keepalive: keepalive,
		Socket:    fakeSocket{peerHost: "127.0.0.1"},
	}

	return deps, sender, conn, access, collector, keepalive
}

func strp(s string) *string { return &s }

func basicConnect() contract.Connect {
	return contract.Connect{
		ProtoVersion: contract.ProtocolVersion311,
		CleanSession: true,
		ClientID:     []byte("client-1"),
		Username:     strp("alice"),
		Password:     strp("secret"),
	}
}

func TestConnectAcceptsAValidCleanSessionConnection(t *testing.T) {
	deps, sender, _, _, collector, keepalive := newDeps()
	p := processor.New(deps)

	err := p.Connect(context.Background(), basicConnect(), contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Len(t, sender.connacks, 1)
	require.Equal(t, contract.ConnAckAccepted, sender.connacks[0].Code)
	require.False(t, sender.connacks[0].SessionPresent)
	require.Len(t, collector.registered, 1)
	require.Len(t, keepalive.started, 1)
	require.NoError(t, p.RequireConnected())
}

func TestConnectGeneratesAClientIDWhenEmpty(t *testing.T) {
	deps, sender, _, _, _, _ := newDeps()
	p := processor.New(deps)

	frame := basicConnect()
	frame.ClientID = nil

	err := p.Connect(context.Background(), frame, contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckAccepted, sender.connacks[0].Code)
	require.NotEmpty(t, p.State().ClientID)
}

func TestConnectRejectsEmptyClientIDWithNonCleanSession(t *testing.T) {
	deps, sender, _, _, _, _ := newDeps()
	p := processor.New(deps)

	frame := basicConnect()
	frame.ClientID = nil
	frame.CleanSession = false

	err := p.Connect(context.Background(), frame, contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckIdentifierRejected, sender.connacks[0].Code)
}

func TestConnectRejectsUnsupportedProtocolVersion(t *testing.T) {
	deps, sender, _, _, _, _ := newDeps()
	p := processor.New(deps)

	frame := basicConnect()
	frame.ProtoVersion = contract.ProtocolVersion(5)

	err := p.Connect(context.Background(), frame, contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckUnacceptableProtoVersion, sender.connacks[0].Code)
}

func TestConnectRejectsInvalidCredentials(t *testing.T) {
	deps, sender, _, _, _, _ := newDeps()
	p := processor.New(deps)

	frame := basicConnect()
	frame.Password = nil

	err := p.Connect(context.Background(), frame, contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckBadUsernameOrPassword, sender.connacks[0].Code)
}

func TestConnectRejectsWhenVhostDoesNotExist(t *testing.T) {
	deps, sender, _, access, _, _ := newDeps()
	access.vhostExists = false
	p := processor.New(deps)

	err := p.Connect(context.Background(), basicConnect(), contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckBadUsernameOrPassword, sender.connacks[0].Code)
}

func TestConnectRejectsWhenLoopbackPolicyDenies(t *testing.T) {
	deps, sender, conn, access, _, _ := newDeps()
	access.loopbackOK = false
	p := processor.New(deps)

	err := p.Connect(context.Background(), basicConnect(), contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckNotAuthorized, sender.connacks[0].Code)
	require.True(t, conn.closed)
}

func TestConnectWithCleanSessionFalseDeclaresTheQoS1Queue(t *testing.T) {
	deps, sender, conn, _, _, _ := newDeps()
	p := processor.New(deps)

	frame := basicConnect()
	frame.CleanSession = false

	err := p.Connect(context.Background(), frame, contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckAccepted, sender.connacks[0].Code)
	require.Len(t, conn.channels[0].declared, 1)
}

func TestConnectWithCleanSessionFalseReportsNoSessionPresentForABrandNewClientID(t *testing.T) {
	deps, sender, _, _, _, _ := newDeps()
	p := processor.New(deps)

	frame := basicConnect()
	frame.CleanSession = false

	err := p.Connect(context.Background(), frame, contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckAccepted, sender.connacks[0].Code)
	require.False(t, sender.connacks[0].SessionPresent)
}

func TestConnectWithCleanSessionFalseReportsSessionPresentWhenTheQoS1QueuePreExisted(t *testing.T) {
	deps, sender, conn, _, _, _ := newDeps()
	_, qos1 := queue.NamesFor([]byte("client-1"))
	conn.declaredQueues = map[string]bool{qos1: true}
	p := processor.New(deps)

	frame := basicConnect()
	frame.CleanSession = false

	err := p.Connect(context.Background(), frame, contract.AdapterInfo{}, 1883)

	require.NoError(t, err)
	require.Equal(t, contract.ConnAckAccepted, sender.connacks[0].Code)
	require.True(t, sender.connacks[0].SessionPresent)
}

func connectedProcessor(t *testing.T) (*processor.Processor, processor.Deps, *fakeConnection) {
	t.Helper()

	deps, sender, conn, _, _, _ := newDeps()
	p := processor.New(deps)

	require.NoError(t, p.Connect(context.Background(), basicConnect(), contract.AdapterInfo{}, 1883))
	require.Equal(t, contract.ConnAckAccepted, sender.connacks[0].Code)

	return p, deps, conn
}

func TestSubscribeBindsAndSendsSuback(t *testing.T) {
	p, deps, conn := connectedProcessor(t)

	sender := deps.Sender.(*fakeSender)

	err := p.Subscribe(context.Background(), contract.Subscribe{
		PacketID: 5,
		Subscriptions: []contract.Subscription{
			{Topic: []byte("sensor/temp"), RequestedQoS: contract.QoS1},
		},
	})

	require.NoError(t, err)
	require.Len(t, sender.subacks, 1)
	require.Equal(t, uint16(5), sender.subacks[0].PacketID)
	require.Equal(t, []contract.QoS{contract.QoS1}, sender.subacks[0].GrantedQoS)
	require.NotEmpty(t, conn.channels)
	require.Len(t, conn.channels[0].bound, 1)
}

func TestSubscribeDowngradesQoS2Requests(t *testing.T) {
	p, deps, _ := connectedProcessor(t)
	sender := deps.Sender.(*fakeSender)

	err := p.Subscribe(context.Background(), contract.Subscribe{
		PacketID: 1,
		Subscriptions: []contract.Subscription{
			{Topic: []byte("a"), RequestedQoS: contract.QoS2},
		},
	})

	require.NoError(t, err)
	require.Equal(t, []contract.QoS{contract.QoS1}, sender.subacks[0].GrantedQoS)
}

func TestSubscribeFailsAuthorizationAbortsTheWholeRequest(t *testing.T) {
	deps, sender, _, access, _, _ := newDeps()
	access.readErr = contract.ErrUnauthorized
	p := processor.New(deps)

	require.NoError(t, p.Connect(context.Background(), basicConnect(), contract.AdapterInfo{}, 1883))

	err := p.Subscribe(context.Background(), contract.Subscribe{
		PacketID: 1,
		Subscriptions: []contract.Subscription{
			{Topic: []byte("a"), RequestedQoS: contract.QoS0},
		},
	})

	require.ErrorIs(t, err, contract.ErrUnauthorized)
	require.Empty(t, sender.subacks)
}

func TestSubscribeDeliversRetainedMessages(t *testing.T) {
	deps, sender, _, _, _, _ := newDeps()
	retainer := deps.Retainer.(*fakeRetainer)
	retainer.byTopic["sensor/temp"] = []contract.RetainedMessage{{QoS: contract.QoS0, Payload: []byte("21")}}

	p := processor.New(deps)
	require.NoError(t, p.Connect(context.Background(), basicConnect(), contract.AdapterInfo{}, 1883))

	err := p.Subscribe(context.Background(), contract.Subscribe{
		PacketID: 1,
		Subscriptions: []contract.Subscription{
			{Topic: []byte("sensor/temp"), RequestedQoS: contract.QoS1},
		},
	})

	require.NoError(t, err)
	require.Len(t, sender.pubs, 1)
	require.True(t, sender.pubs[0].Retain)
	require.Equal(t, contract.QoS0, sender.pubs[0].QoS)
	require.Nil(t, sender.pubs[0].MessageID)
}

func TestUnsubscribeUnbindsAndSendsUnsuback(t *testing.T) {
	p, deps, conn := connectedProcessor(t)
	sender := deps.Sender.(*fakeSender)

	require.NoError(t, p.Subscribe(context.Background(), contract.Subscribe{
		PacketID: 1,
		Subscriptions: []contract.Subscription{
			{Topic: []byte("sensor/temp"), RequestedQoS: contract.QoS1},
		},
	}))

	err := p.Unsubscribe(contract.Unsubscribe{
		PacketID: 2,
		Topics:   [][]byte{[]byte("sensor/temp")},
	})

	require.NoError(t, err)
	require.Len(t, sender.unsubacks, 1)
	require.Equal(t, uint16(2), sender.unsubacks[0].PacketID)
	require.Len(t, conn.channels[0].unbound, 1)
}

func TestPingreqSendsPingresp(t *testing.T) {
	p, deps, _ := connectedProcessor(t)
	sender := deps.Sender.(*fakeSender)

	require.NoError(t, p.HandlePingreq())
	require.Equal(t, 1, sender.pingresps)
}

func TestDisconnectSetsTheStoppedFlag(t *testing.T) {
	p, _, _ := connectedProcessor(t)

	require.False(t, p.Stopped())
	p.HandleDisconnect()
	require.True(t, p.Stopped())
}

func TestCloseConnectionUnregistersAndClosesTheAMQPConnection(t *testing.T) {
	p, deps, conn := connectedProcessor(t)
	collector := deps.Collector.(*fakeCollector)
	keepalive := deps.Keepalive.(*fakeKeepalive)

	p.CloseConnection(context.Background())

	require.Len(t, collector.unregistered, 1)
	require.True(t, conn.closed)
	require.True(t, keepalive.stopped)
}

func TestSendWillPublishesWhenAccessAllowsAndWillWasDeclared(t *testing.T) {
	deps, _, conn, _, _, _ := newDeps()
	p := processor.New(deps)

	frame := basicConnect()
	frame.WillFlag = true
	frame.WillTopic = []byte("clients/gone")
	frame.WillMessage = []byte("offline")
	frame.WillQoS = contract.QoS0

	require.NoError(t, p.Connect(context.Background(), frame, contract.AdapterInfo{}, 1883))

	require.NoError(t, p.SendWill(context.Background()))
	require.Len(t, conn.channels[0].published, 1)
	require.Equal(t, []string{"clients.gone"}, conn.channels[0].routingKeys)
}

func TestSendWillSkipsPublishWhenNoWillWasDeclared(t *testing.T) {
	p, _, conn := connectedProcessor(t)

	require.NoError(t, p.SendWill(context.Background()))
	require.Empty(t, conn.channels[0].published)
}

func TestPublishChecksTopicWriteAccess(t *testing.T) {
	deps, _, _, access, _, _ := newDeps()
	access.writeErr = contract.ErrUnauthorized
	p := processor.New(deps)

	require.NoError(t, p.Connect(context.Background(), basicConnect(), contract.AdapterInfo{}, 1883))

	err := p.Publish(context.Background(), contract.Publish{
		Topic:   []byte("sensor/temp"),
		Payload: []byte("21"),
		QoS:     contract.QoS0,
	})

	require.ErrorIs(t, err, contract.ErrUnauthorized)
}

func TestPublishDowngradesQoS2ToQoS1(t *testing.T) {
	p, deps, conn := connectedProcessor(t)
	_ = deps

	channelsBefore := len(conn.channels)

	err := p.Publish(context.Background(), contract.Publish{
		Topic:     []byte("sensor/temp"),
		Payload:   []byte("21"),
		QoS:       contract.QoS2,
		MessageID: u16p(9),
	})

	require.NoError(t, err)
	require.Len(t, conn.channels, channelsBefore+1)

	qos1Channel := conn.channels[len(conn.channels)-1]
	require.Len(t, qos1Channel.published, 1)
	require.Equal(t, uint8(2), qos1Channel.published[0].DeliveryMode)
}

func u16p(v uint16) *uint16 { return &v }
