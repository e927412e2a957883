package contract

import "context"

// RetainedMessage is a single retained PUBLISH as returned by the
// retainer for a given topic.
type RetainedMessage struct {
	QoS     QoS
	Payload []byte
}

// Retainer is the per-vhost retained-message store. It is shared across
// every processor actor connected to the same vhost; the processor only
// ever calls it from SUBSCRIBE (Fetch) and from PUBLISH with retain=true
// (Retain / Clear).
type Retainer interface {
	// Retain stores msg as the retained message for topic, replacing
	// any previous one.
	Retain(ctx context.Context, vhost string, topic []byte, msg RetainedMessage) error

	// Clear removes the retained message for topic, if any.
	Clear(ctx context.Context, vhost string, topic []byte) error

	// Fetch returns the retained messages matching topic. A topic
	// filter may match more than one retained message when it
	// contains wildcards.
	Fetch(ctx context.Context, vhost string, topic []byte) ([]RetainedMessage, error)
}
