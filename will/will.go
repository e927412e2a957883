// Package will implements the Will Builder of spec.md §2/§4.2 step 9:
// extracting the last-will message from a decoded CONNECT frame's
// variable header, when the CONNECT's will flag is set.
package will

import "github.com/c3pb/rabbitmq-mqtt/contract"

// FromConnect returns the will message carried by connect, or nil if
// connect did not set its will flag.
func FromConnect(connect contract.Connect) *contract.Will {
	if !connect.WillFlag {
		return nil
	}

	return &contract.Will{
		Retain:  connect.WillRetain,
		QoS:     connect.WillQoS,
		Topic:   connect.WillTopic,
		Payload: connect.WillMessage,
	}
}
