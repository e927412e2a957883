// Package topicmap provides the default bidirectional MQTT ↔ AMQP
// routing-key translation described in spec.md's Topic Name Mapper.
// It is adapted from the dot/slash, asterisk/plus convention the
// teacher's MQTTBroker uses in framework/event/mqtt.go, run in
// reverse: there dots in an event name become MQTT topic slashes; here
// slashes in an MQTT topic become AMQP routing-key dots, since the
// routing key is the wire format native to AMQP.
package topicmap

import "strings"

// Default is the reference TopicMapper: MQTT `/` level separators map
// to AMQP `.` segments, MQTT `+` single-level wildcards map to AMQP
// `*`, and `#` multi-level wildcards are identical in both systems and
// left untouched.
type Default struct{}

// New returns the default topic mapper.
func New() Default {
	return Default{}
}

// MQTTToAMQP converts an MQTT topic name or filter into the AMQP
// routing key used for publishing or binding.
func (Default) MQTTToAMQP(topic []byte) string {
	s := string(topic)
	s = strings.ReplaceAll(s, "/", ".")
	s = strings.ReplaceAll(s, "+", "*")

	return s
}

// AMQPToMQTT converts an AMQP routing key back into an MQTT topic
// name, for use as the topic of an outbound PUBLISH.
func (Default) AMQPToMQTT(routingKey string) []byte {
	s := strings.ReplaceAll(routingKey, "*", "+")
	s = strings.ReplaceAll(s, ".", "/")

	return []byte(s)
}

// Match reports whether topic satisfies filter under MQTT wildcard
// rules (`+` single-level, `#` multi-level). It is adapted from the
// matchTopic/matchParts pair the teacher's MQTTBroker uses to route
// incoming messages to subscribed handlers; here it is used by the
// retained-message store to find which concrete retained topics a
// subscription filter covers.
func Match(filter, topic string) bool {
	if filter == topic {
		return true
	}

	return matchParts(strings.Split(filter, "/"), strings.Split(topic, "/"))
}

func matchParts(filter, topic []string) bool {
	if len(filter) == 0 {
		return len(topic) == 0
	}

	if len(topic) == 0 {
		return filter[0] == "#"
	}

	if filter[0] == "#" {
		return true
	}

	if filter[0] == "+" || filter[0] == topic[0] {
		return matchParts(filter[1:], topic[1:])
	}

	return false
}
