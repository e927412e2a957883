// Package admin exposes the bridge's live sessions over HTTP for
// operator introspection, adapted from the teacher's atlas.App /
// nova.Router wiring: session.State.Snapshot() is the payload, one
// nova route lists every connected client, another fetches a single
// one by client id.
package admin

import (
	"sync"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// Registry is the process-wide table of connected sessions, keyed by
// client id. The composition root registers a session right after
// CONNECT succeeds and unregisters it when the connection tears down;
// Registry itself does not know about the processor or transport.
type Registry struct {
	mux      sync.RWMutex
	sessions map[string]contract.Introspectable
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]contract.Introspectable)}
}

// Register associates clientID with session for introspection.
func (r *Registry) Register(clientID []byte, session contract.Introspectable) {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.sessions[string(clientID)] = session
}

// Unregister removes clientID's session, if present.
func (r *Registry) Unregister(clientID []byte) {
	r.mux.Lock()
	defer r.mux.Unlock()

	delete(r.sessions, string(clientID))
}

// Snapshot returns the snapshot for clientID and whether it was found.
func (r *Registry) Snapshot(clientID string) (contract.Snapshot, bool) {
	r.mux.RLock()
	session, ok := r.sessions[clientID]
	r.mux.RUnlock()

	if !ok {
		return contract.Snapshot{}, false
	}

	return session.Snapshot(), true
}

// Snapshots returns the snapshot of every currently connected session.
func (r *Registry) Snapshots() []contract.Snapshot {
	r.mux.RLock()
	defer r.mux.RUnlock()

	out := make([]contract.Snapshot, 0, len(r.sessions))

	for _, session := range r.sessions {
		out = append(out, session.Snapshot())
	}

	return out
}

// Len returns the number of currently connected sessions.
func (r *Registry) Len() int {
	r.mux.RLock()
	defer r.mux.RUnlock()

	return len(r.sessions)
}
