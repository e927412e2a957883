package atlas

import "github.com/c3pb/rabbitmq-mqtt/nova"

type App interface {
	// Register is called when the application
	// should register the http routes.
	Register(router *nova.Router) error
}
