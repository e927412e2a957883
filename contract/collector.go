package contract

import "context"

// Collector is the cluster-wide client-id registry. Registration
// happens once, right after the first AMQP channel is opened during
// CONNECT; unregistration happens during teardown. It is shared
// process-wide (and, in a clustered deployment, cluster-wide).
type Collector interface {
	// Register associates clientID with this node/connection. A
	// second registration for the same clientID succeeds; evicting the
	// previous owner is left to the collector, not the processor. The
	// store/memory and store/redis collectors only overwrite the entry
	// and do not evict anyone.
	Register(ctx context.Context, clientID []byte) error

	// Unregister removes the client-id registration. It must be
	// idempotent: unregistering a clientID that was never registered,
	// or was already removed, is not an error.
	Unregister(ctx context.Context, clientID []byte) error
}
