package contract

// TopicMapper is the bidirectional MQTT topic ↔ AMQP routing-key
// transform. spec.md treats it as environment-provided; this bridge
// ships a default implementation (see package topicmap) but the
// processor only ever depends on this interface.
type TopicMapper interface {
	MQTTToAMQP(topic []byte) string
	AMQPToMQTT(routingKey string) []byte
}
