package processor

import (
	"context"
	"errors"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/credential"
	"github.com/c3pb/rabbitmq-mqtt/queue"
	"github.com/c3pb/rabbitmq-mqtt/session"
	"github.com/c3pb/rabbitmq-mqtt/will"
)

// Connect implements spec.md §4.2's CONNECT handling end to end,
// sending exactly one CONNACK via Deps.Sender before returning.
// listenerPort is the port the socket was accepted on, used by the
// Credential Resolver's port-to-vhost mapping.
//
// Deliveries that arrive on the queues ensure_queue opens along the
// way are hander to the caller's own event loop through QoS0Deliveries
// and QoS1Deliveries, to be fed one at a time into HandleDeliver; the
// actor-serialization spec.md §5 requires is the caller's loop, not a
// goroutine spawned here.
func (p *Processor) Connect(ctx context.Context, frame contract.Connect, info contract.AdapterInfo, listenerPort int) error {
	ctx = ctxOrBackground(ctx)

	clientID := frame.ClientID
	clientIDWasEmpty := len(clientID) == 0

	if clientIDWasEmpty {
		generated, err := generateClientID()

		if err != nil {
			return p.reject(contract.ConnAckNotAuthorized)
		}

		clientID = generated
	}

	info.ClientID = clientID

	if frame.ProtoVersion != contract.ProtocolVersion31 && frame.ProtoVersion != contract.ProtocolVersion311 {
		return p.reject(contract.ConnAckUnacceptableProtoVersion)
	}

	if clientIDWasEmpty && !frame.CleanSession {
		return p.reject(contract.ConnAckIdentifierRejected)
	}

	result, err := credential.Resolve(credential.Input{
		Username:      frame.Username,
		Password:      frame.Password,
		TLSCommonName: tlsCommonName(info),
		ListenerPort:  listenerPort,
	}, p.deps.Config, p.deps.Params)

	if err != nil {
		return p.reject(contract.ConnAckBadUsernameOrPassword)
	}

	exists, err := p.deps.Access.VhostExists(ctx, result.Vhost)

	if err != nil || !exists {
		return p.reject(contract.ConnAckBadUsernameOrPassword)
	}

	connection, err := p.deps.Broker.OpenConnection(ctx, result.Credentials.Username, result.Credentials.Password, result.Vhost, info)

	if err != nil {
		if errors.Is(err, contract.ErrAuthFailure) {
			return p.reject(contract.ConnAckBadUsernameOrPassword)
		}

		if errors.Is(err, contract.ErrAccessRefused) || errors.Is(err, contract.ErrNotAllowed) {
			return p.reject(contract.ConnAckNotAuthorized)
		}

		return p.reject(contract.ConnAckBadUsernameOrPassword)
	}

	allowed, err := p.deps.Access.CheckLoopback(ctx, result.Credentials.Username, p.deps.Socket.PeerHost())

	if err != nil || !allowed {
		_ = connection.Close()

		return p.reject(contract.ConnAckNotAuthorized)
	}

	channel0, err := connection.Channel()

	if err != nil {
		_ = connection.Close()

		return p.reject(contract.ConnAckNotAuthorized)
	}

	if err := channel0.Qos(p.deps.Config.Prefetch(), 0, false); err != nil {
		_ = connection.Close()

		return p.reject(contract.ConnAckNotAuthorized)
	}

	if err := p.deps.Collector.Register(ctx, clientID); err != nil {
		_ = connection.Close()

		return p.reject(contract.ConnAckNotAuthorized)
	}

	p.deps.Keepalive.Start(frame.KeepAlive)

	p.state.Connection = connection
	p.state.Channels[0] = channel0
	p.state.ClientID = clientID
	p.state.CleanSession = frame.CleanSession
	p.state.Exchange = p.deps.Config.Exchange()
	p.state.Socket = p.deps.Socket
	p.state.AdapterInfo = info
	p.state.SSLLoginName = info.SSLLoginName
	p.state.AuthState = session.AuthState{Username: result.Credentials.Username, Vhost: result.Vhost}
	p.state.WillMsg = will.FromConnect(frame)
	p.state.ProtoVersion.Version = frame.ProtoVersion
	p.state.ProtoVersion.Set = true
	p.state.Connected = true

	p.queue = queue.New(channel0, clientID)

	sessionPresent, err := p.applyCleanSessionPolicy(frame.CleanSession)

	if err != nil {
		_ = connection.Close()

		return p.reject(contract.ConnAckNotAuthorized)
	}

	return p.deps.Sender.SendConnack(contract.Connack{SessionPresent: sessionPresent, Code: contract.ConnAckAccepted})
}

// applyCleanSessionPolicy implements spec.md §4.3.
func (p *Processor) applyCleanSessionPolicy(cleanSession bool) (bool, error) {
	ttlMs, hasTTL := p.deps.Config.SubscriptionTTL()

	if !cleanSession {
		queueName := p.queue.QueueName(contract.QoS1)

		sessionPresent, err := p.qos1QueueExists(queueName, cleanSession)

		if err != nil {
			return false, err
		}

		_, deliveries, err := p.queue.EnsureQueue(contract.QoS1, cleanSession, ttlMs, hasTTL)

		if err != nil {
			return false, err
		}

		if deliveries != nil {
			p.qos1Deliveries = deliveries
		}

		return sessionPresent, nil
	}

	channel, err := p.state.Connection.Channel()

	if err != nil {
		return false, nil
	}

	queueName := p.queue.QueueName(contract.QoS1)
	_, _ = channel.QueueDelete(queueName, false, false, false)
	_ = channel.Close()

	return false, nil
}

// qos1QueueExists probes whether the QoS-1 queue already exists,
// before EnsureQueue's non-passive declare would create it. The
// probe runs on a disposable channel, mirroring the clean_sess=true
// branch's throwaway-channel pattern, since a passive declare against
// a missing queue closes the channel it was issued on.
func (p *Processor) qos1QueueExists(name string, cleanSession bool) (bool, error) {
	channel, err := p.state.Connection.Channel()

	if err != nil {
		return false, err
	}

	defer channel.Close()

	_, err = channel.QueueDeclarePassive(name, true, cleanSession, false, false, nil)

	return err == nil, nil
}

// QoS0Deliveries returns the delivery channel opened for the QoS-0
// queue's consumer, once SUBSCRIBE has caused it to be declared. It is
// nil until then.
func (p *Processor) QoS0Deliveries() <-chan amqp091.Delivery {
	return p.qos0Deliveries
}

// QoS1Deliveries returns the delivery channel opened for the QoS-1
// queue's consumer, once either SUBSCRIBE or the clean-session=false
// CONNECT path has caused it to be declared. It is nil until then.
func (p *Processor) QoS1Deliveries() <-chan amqp091.Delivery {
	return p.qos1Deliveries
}

func tlsCommonName(info contract.AdapterInfo) *string {
	if !info.SSL || info.SSLCommonName == "" {
		return nil
	}

	cn := info.SSLCommonName

	return &cn
}

func (p *Processor) reject(code contract.ConnAckCode) error {
	return p.deps.Sender.SendConnack(contract.Connack{SessionPresent: false, Code: code})
}
