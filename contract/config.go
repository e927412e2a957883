package contract

// Config is the static configuration consumed by the credential
// resolver, the subscription queue manager and the processor. It
// mirrors the "Configuration keys consumed" list of spec.md §6.
type Config interface {
	Exchange() string
	Vhost() string
	DefaultUser() (user string, pass string, ok bool)
	AllowAnonymous() bool
	SSLCertLogin() bool
	IgnoreColonsInUsername() bool
	Prefetch() int

	// SubscriptionTTL returns the configured x-expires value, in
	// milliseconds, for the QoS-1 queue, and whether one is
	// configured at all.
	SubscriptionTTL() (ms int64, ok bool)
}

// RuntimeParams is the dynamically adjustable configuration the
// credential resolver consults for vhost selection. Unlike Config,
// these maps may change while the bridge is running (e.g. an operator
// adding a new listener-port mapping).
type RuntimeParams interface {
	// VhostForCertificate returns the vhost mapped to a TLS common
	// name, if any.
	VhostForCertificate(commonName string) (vhost string, ok bool)

	// VhostForPort returns the vhost mapped to a listener port, if
	// any.
	VhostForPort(port int) (vhost string, ok bool)
}
