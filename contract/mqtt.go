package contract

// ProtocolVersion identifies the MQTT protocol level negotiated during
// CONNECT. Only the 3.1 and 3.1.1 levels are accepted; anything else
// must be rejected with UnacceptableProtocolVersion.
type ProtocolVersion byte

const (
	ProtocolVersion31  ProtocolVersion = 3
	ProtocolVersion311 ProtocolVersion = 4
)

// String returns the human readable protocol string reported by the
// CONNACK path and introspection surface.
func (v ProtocolVersion) String() string {
	switch v {
	case ProtocolVersion31:
		return "3.1.0"
	case ProtocolVersion311:
		return "3.1.1"
	default:
		return "N/A"
	}
}

// QoS is the MQTT quality of service level. Only 0 and 1 are ever used
// past the boundary of an inbound PUBLISH: QoS 2 requests are always
// downgraded to QoS 1 before any further processing.
type QoS byte

const (
	QoS0 QoS = 0
	QoS1 QoS = 1
	QoS2 QoS = 2
)

// Effective clamps a requested QoS to the highest level this bridge
// actually grants: QoS 2 is downgraded to QoS 1.
func (q QoS) Effective() QoS {
	if q > QoS1 {
		return QoS1
	}

	return q
}

// ConnAckCode is the CONNACK return code reported to the client.
type ConnAckCode byte

const (
	ConnAckAccepted                 ConnAckCode = 0
	ConnAckUnacceptableProtoVersion ConnAckCode = 1
	ConnAckIdentifierRejected       ConnAckCode = 2
	ConnAckBadUsernameOrPassword    ConnAckCode = 4
	ConnAckNotAuthorized            ConnAckCode = 5
)

// MqttMsg is the wire-agnostic representation of an MQTT PUBLISH, used
// both for the body of an inbound client PUBLISH and for messages the
// bridge produces towards the client (retained delivery, inbound AMQP
// delivery, will publication).
type MqttMsg struct {
	Retain    bool
	QoS       QoS
	Dup       bool
	Topic     []byte
	MessageID *uint16
	Payload   []byte
}

// Will is the last-will message declared at CONNECT time. It carries
// the same shape as MqttMsg but never has a message id and is never
// marked as a duplicate.
type Will struct {
	Retain  bool
	QoS     QoS
	Topic   []byte
	Payload []byte
}

// Connect is the decoded variable header + payload of a CONNECT packet.
// Decoding the raw bytes is the upstream reader's job; the processor
// only ever sees this struct.
type Connect struct {
	ProtoVersion ProtocolVersion
	CleanSession bool
	KeepAlive    uint16
	ClientID     []byte
	Username     *string
	Password     *string
	WillFlag     bool
	WillTopic    []byte
	WillMessage  []byte
	WillQoS      QoS
	WillRetain   bool
}

// Publish is the decoded variable header + payload of a PUBLISH packet,
// inbound from the client.
type Publish struct {
	Retain    bool
	QoS       QoS
	Dup       bool
	Topic     []byte
	MessageID *uint16
	Payload   []byte
}

// Subscription is a single (topic filter, requested QoS) pair carried
// by a SUBSCRIBE packet.
type Subscription struct {
	Topic        []byte
	RequestedQoS QoS
}

// Subscribe is the decoded SUBSCRIBE packet.
type Subscribe struct {
	PacketID      uint16
	Subscriptions []Subscription
}

// Unsubscribe is the decoded UNSUBSCRIBE packet.
type Unsubscribe struct {
	PacketID uint16
	Topics   [][]byte
}

// Puback is the decoded PUBACK packet, acknowledging an inbound
// (AMQP→MQTT) delivery of QoS 1.
type Puback struct {
	MessageID uint16
}
