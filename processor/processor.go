// Package processor implements the Frame Processor / Session State
// Machine of spec.md §2 and §4.9: the top-level dispatcher keyed by
// MQTT control-packet type, enforcing CONNECT-first and orchestrating
// the Credential Resolver, Will Builder, Subscription Queue Manager,
// Outbound Publisher and Inbound Delivery Handler around a single
// connection's ProcState.
//
// One Processor instance is owned by exactly one actor (goroutine):
// every exported method here must be called sequentially, never
// concurrently, matching the single-threaded-actor model of spec.md
// §5. The only exception is State.Snapshot, reachable independently
// through the embedded *session.State for introspection.
package processor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/delivery"
	"github.com/c3pb/rabbitmq-mqtt/publisher"
	"github.com/c3pb/rabbitmq-mqtt/queue"
	"github.com/c3pb/rabbitmq-mqtt/session"
)

// Deps bundles every external collaborator spec.md §1 treats as out of
// scope: the pieces a real deployment wires in around the processor.
type Deps struct {
	Config    contract.Config
	Params    contract.RuntimeParams
	Broker    contract.AMQPBroker
	Access    contract.AccessControl
	Collector contract.Collector
	Retainer  contract.Retainer
	Mapper    contract.TopicMapper
	Sender    contract.FrameSender
	Keepalive contract.Keepalive
	Socket    contract.Socket
}

// Processor is the per-connection frame processor. It is not safe for
// concurrent use.
type Processor struct {
	deps Deps

	state   *session.State
	queue   *queue.Manager
	pub     *publisher.Publisher
	deliv   *delivery.Handler
	stopped bool

	qos0Deliveries <-chan amqp091.Delivery
	qos1Deliveries <-chan amqp091.Delivery
}

// New returns a fresh Processor with a brand-new, not-yet-connected
// ProcState, per spec.md §3's "created with no connection" lifecycle
// start.
func New(deps Deps) *Processor {
	return &Processor{
		deps:  deps,
		state: session.New(),
		pub:   publisher.New(deps.Mapper, deps.Retainer),
		deliv: delivery.New(deps.Mapper, deps.Sender),
	}
}

// State exposes the underlying ProcState, mainly for introspection
// (contract.Introspectable) and for tests.
func (p *Processor) State() *session.State {
	return p.state
}

// HandlePingreq implements spec.md §4.9: PINGREQ → PINGRESP
// immediately.
func (p *Processor) HandlePingreq() error {
	return p.deps.Sender.SendPingresp(contract.Pingresp{})
}

// HandleDisconnect implements spec.md §4.9: DISCONNECT is a terminal
// stop indication. The caller must call CloseConnection but must NOT
// call SendWill.
func (p *Processor) HandleDisconnect() {
	p.stopped = true
}

// Stopped reports whether DISCONNECT has already been processed, so
// the caller knows not to run the will on teardown.
func (p *Processor) Stopped() bool {
	return p.stopped
}

// HandleDeliver feeds a single AMQP basic.deliver event through the
// Inbound Delivery Handler (spec.md §4.8). Callers drain
// QoS0Deliveries/QoS1Deliveries themselves and must call this
// sequentially with every other Processor method, per the
// single-actor model of spec.md §5.
func (p *Processor) HandleDeliver(d amqp091.Delivery) error {
	qos0Tag, _ := p.queue.ConsumerTag(contract.QoS0)

	return p.deliv.HandleDeliver(p.state, qos0Tag, d)
}

// HandleAck feeds a single AMQP basic.ack confirmation through the
// Inbound Delivery Handler's cumulative/single-ack logic.
func (p *Processor) HandleAck(tag uint64, multiple bool) error {
	return p.deliv.HandleAck(p.state, tag, multiple)
}

// HandlePuback feeds a client PUBACK through to the QoS-1 consumer
// channel's basic.ack.
func (p *Processor) HandlePuback(messageID uint16) error {
	return p.deliv.HandlePuback(p.state, messageID)
}

// RequireConnected returns contract.ErrConnectExpected if no AMQP
// connection has been established yet, enforcing the CONNECT-first
// rule of spec.md §3's first invariant for every other frame type.
func (p *Processor) RequireConnected() error {
	if p.state.Connection == nil {
		return contract.ErrConnectExpected
	}

	return nil
}

// generateClientID mints a fresh client id the way spec.md §4.2 step 1
// requires when the client sent an empty one, grounded on the
// teacher's uuid.NewV7-based id generation.
func generateClientID() ([]byte, error) {
	id, err := uuid.NewV7()

	if err != nil {
		return nil, fmt.Errorf("generate client id: %w", err)
	}

	return []byte(id.String()), nil
}

// ctxOrBackground lets call sites that don't carry a context (e.g. a
// keepalive-driven teardown) still have one to pass down to
// context-aware collaborators.
func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}

	return ctx
}
