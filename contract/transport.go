package contract

// AdapterInfo describes the transport-level identity of a connection,
// mirroring spec.md §6's introspection surface (host, port, peer_host,
// peer_port, protocol, ssl*, channels, channel_max, frame_max,
// client_properties).
type AdapterInfo struct {
	Host             string
	Port             int
	PeerHost         string
	PeerPort         int
	Protocol         string
	SSL              bool
	SSLLoginName     string
	SSLCommonName    string
	Channels         int
	ChannelMax       int
	FrameMax         int
	ClientProperties map[string]string
	ClientID         []byte
}

// Socket is the minimal transport-level handle the processor needs:
// enough to answer the loopback-policy question and to identify the
// connection in logs. Reading/writing raw bytes is out of scope.
type Socket interface {
	PeerHost() string
	LocalHost() string
}
