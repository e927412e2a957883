package contract

// Snapshot is a read-only, point-in-time copy of the fields spec.md §3
// and §6 expose for introspection. It is safe to read concurrently with
// the owning actor because it is a value, copied out under the
// processor's own lock (see session.State.Snapshot).
type Snapshot struct {
	ClientID      []byte
	CleanSession  bool
	Exchange      string
	Vhost         string
	Username      string
	MessageID     uint16
	Subscriptions map[string][]QoS
	UnackedPubs   int
	AwaitingAck   int
	Connected     bool
	Adapter       AdapterInfo
	ProtoVersion  string
}

// Introspectable is implemented by anything that can produce a
// Snapshot on demand; session.State is the only implementation, the
// admin HTTP surface is the only consumer.
type Introspectable interface {
	Snapshot() Snapshot
}
