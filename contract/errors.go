package contract

import "errors"

// Sentinel errors surfaced by the external collaborators and
// interpreted by the processor to pick the right CONNACK code or
// termination behavior. See spec.md §7.
var (
	// ErrAuthFailure is returned by AMQPBroker.OpenConnection when the
	// resolved credentials are rejected by the broker's own SASL
	// exchange.
	ErrAuthFailure = errors.New("amqp authentication failure")

	// ErrAccessRefused is returned by AMQPBroker.OpenConnection or
	// AccessControl when the user is valid but not permitted to use
	// the vhost.
	ErrAccessRefused = errors.New("access refused")

	// ErrNotAllowed mirrors the AMQP not_allowed class of connection
	// refusal.
	ErrNotAllowed = errors.New("not allowed")

	// ErrConnectExpected is returned by the frame processor when a
	// non-CONNECT frame arrives before the connection has CONNACK'd.
	ErrConnectExpected = errors.New("connect expected")

	// ErrUnauthorized is returned when a topic access check fails on
	// PUBLISH or any leg of SUBSCRIBE.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by the credential resolver
	// when exactly one of username/password is present.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoCredentials is returned by the credential resolver when no
	// usable credential source matched.
	ErrNoCredentials = errors.New("no credentials")

	// ErrVhostNotFound is returned when the resolved vhost does not
	// exist.
	ErrVhostNotFound = errors.New("vhost not found")
)
