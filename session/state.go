// Package session implements ProcState, the per-connection state
// described in spec.md §3. State is owned exclusively by a single
// actor (the processor); the only cross-goroutine access is through
// Snapshot, which copies out the fields the admin introspection
// surface exposes under its own lock.
package session

import (
	"sync"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/orderedmap"
)

// Channels is the pair of AMQP channels a connection may hold: index 0
// is the consume/QoS-0-publish channel, opened at CONNECT; index 1 is
// the QoS-1 publish-with-confirms channel, opened lazily on first
// QoS-1 publish.
type Channels [2]contract.AMQPChannel

// ConsumerTags is a pair of consumer tags, index 0 for the QoS-0 queue
// and index 1 for the QoS-1 queue. The processor does not fill in
// State.ConsumerTags; the live tags are held by queue.Manager (see its
// ConsumerTag method).
type ConsumerTags [2]string

// AuthState is the resolved identity recorded after a successful
// CONNECT, per spec.md §3.
type AuthState struct {
	Username string
	Vhost    string
}

// State is ProcState. All fields below the mutex are mutated only by
// the owning processor actor; mu exists solely to guard Snapshot,
// which other goroutines (the admin HTTP surface) may call at any
// time.
type State struct {
	mu sync.Mutex

	UnackedPubs  *orderedmap.Map[uint64, uint16]
	AwaitingAck  *orderedmap.Map[uint16, uint64]
	AwaitingSeqno uint64
	HasSeqno     bool
	MessageID    uint16

	Subscriptions map[string][]contract.QoS

	ConsumerTags ConsumerTags
	Channels     Channels

	Exchange string

	Socket        contract.Socket
	AdapterInfo   contract.AdapterInfo
	SSLLoginName  string

	Connection contract.AMQPConnection

	ClientID     []byte
	CleanSession bool
	WillMsg      *contract.Will

	ProtoVersion ProtocolVersionHolder

	AuthState AuthState
	Connected bool
}

// ProtocolVersionHolder separates the zero value ("no CONNECT yet")
// from the explicit ProtocolVersion31/311 constants, neither of which
// is zero-valued in contract.
type ProtocolVersionHolder struct {
	Version contract.ProtocolVersion
	Set     bool
}

// New returns a freshly constructed State with no AMQP connection: the
// "ProcState is created with no connection" lifecycle start of
// spec.md §3.
func New() *State {
	return &State{
		UnackedPubs:   orderedmap.New[uint64, uint16](),
		AwaitingAck:   orderedmap.New[uint16, uint64](),
		MessageID:     1,
		Subscriptions: make(map[string][]contract.QoS),
	}
}

// NextMessageID allocates the next outbound MQTT packet id, wrapping
// from 0xFFFF back to 1 and never returning 0, per spec.md's invariant.
func (s *State) NextMessageID() uint16 {
	id := s.MessageID

	if s.MessageID == 0xFFFF {
		s.MessageID = 1
	} else {
		s.MessageID++
	}

	return id
}

// NextSeqno allocates the next QoS-1 publisher-confirm sequence
// number, starting at 1 the first time it is called after the QoS-1
// channel is opened.
func (s *State) NextSeqno() uint64 {
	if !s.HasSeqno {
		s.AwaitingSeqno = 1
		s.HasSeqno = true
	}

	seqno := s.AwaitingSeqno
	s.AwaitingSeqno++

	return seqno
}

// Snapshot copies out the fields spec.md §6 exposes for introspection.
// It is the only method on State safe to call from a goroutine other
// than the owning processor actor.
func (s *State) Snapshot() contract.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make(map[string][]contract.QoS, len(s.Subscriptions))

	for topic, qos := range s.Subscriptions {
		cp := make([]contract.QoS, len(qos))
		copy(cp, qos)
		subs[topic] = cp
	}

	protoVersion := "N/A"

	if s.ProtoVersion.Set {
		protoVersion = s.ProtoVersion.Version.String()
	}

	return contract.Snapshot{
		ClientID:      append([]byte(nil), s.ClientID...),
		CleanSession:  s.CleanSession,
		Exchange:      s.Exchange,
		Vhost:         s.AuthState.Vhost,
		Username:      s.AuthState.Username,
		MessageID:     s.MessageID,
		Subscriptions: subs,
		UnackedPubs:   s.UnackedPubs.Len(),
		AwaitingAck:   s.AwaitingAck.Len(),
		Connected:     s.Connected,
		Adapter:       s.AdapterInfo,
		ProtoVersion:  protoVersion,
	}
}

// Lock/Unlock let the owning processor actor serialize its own
// mutations against concurrent Snapshot calls without exposing the
// mutex itself.
func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

var _ contract.Introspectable = (*State)(nil)
