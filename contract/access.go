package contract

import "context"

// AccessControl is the external authorization subsystem: it checks
// whether a vhost exists, topic-level read/write permissions and the
// loopback-only policy for a given user. It does not authenticate
// credentials; that happens when AMQPBroker.OpenConnection dials the
// broker.
//
// The processor never interprets *why* access was refused; it only
// distinguishes AuthFailure (bad credentials) from AccessRefused /
// NotAllowed (valid credentials, insufficient permission) so it can
// pick the right CONNACK code.
type AccessControl interface {
	// VhostExists reports whether vhost is a known AMQP virtual host.
	VhostExists(ctx context.Context, vhost string) (bool, error)

	// CheckLoopback reports whether the user is allowed to connect
	// from the given peer host. Some deployments restrict certain
	// users (e.g. the default guest user) to loopback connections
	// only.
	CheckLoopback(ctx context.Context, user string, peerHost string) (bool, error)

	// CheckTopicRead verifies the user may subscribe/read the given
	// routing key on vhost.
	CheckTopicRead(ctx context.Context, user, vhost, exchange, routingKey string) error

	// CheckTopicWrite verifies the user may publish the given routing
	// key on vhost.
	CheckTopicWrite(ctx context.Context, user, vhost, exchange, routingKey string) error
}
