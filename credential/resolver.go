// Package credential implements the pure credential and vhost
// resolution described in spec.md §4.1: mapping a (username, password,
// TLS common name, listener port) tuple into an AMQP vhost, an
// effective username/password and a human-readable strategy tag.
//
// Every exported function here is side-effect free: identical inputs
// always yield identical outputs, which makes the resolver trivial to
// unit test without any broker, database or network dependency.
package credential

import (
	"strings"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// Strategy tags reported alongside a successful vhost resolution, for
// logging and introspection.
const (
	StrategyVhostInUsernameOrDefault = "vhost_in_username_or_default"
	StrategyPortToVhostMapping       = "port_to_vhost_mapping"
	StrategyDefaultVhost             = "default_vhost"
	StrategyCertToVhostMapping       = "cert_to_vhost_mapping"
)

// NoPasswordMarker is the sentinel password value used when a client
// authenticated via TLS client certificate and no password was
// supplied or expected.
const NoPasswordMarker = ""

// Input gathers everything the resolver needs, exactly as it would be
// read off a CONNECT packet and the listener that accepted it.
type Input struct {
	Username      *string
	Password      *string
	TLSCommonName *string
	ListenerPort  int
}

// Credentials is the resolved (username, password) pair to present to
// the broker. UsedTLS is true when the password field carries
// NoPasswordMarker because the client authenticated via certificate.
type Credentials struct {
	Username string
	Password string
	UsedTLS  bool
}

// Result is the full outcome of a successful resolution.
type Result struct {
	Credentials Credentials
	Vhost       string
	Strategy    string
}

// Resolve runs the credential-selection priority list of spec.md §4.1
// followed by vhost selection, using cfg and params for configuration
// and runtime lookups.
//
// It returns contract.ErrInvalidCredentials when exactly one of
// username/password is present, and contract.ErrNoCredentials when no
// credential source could be used at all. Both are terminal from the
// processor's point of view: CONNECT must reply with
// bad-username-or-password.
func Resolve(in Input, cfg contract.Config, params contract.RuntimeParams) (Result, error) {
	creds, err := resolveCredentials(in, cfg)

	if err != nil {
		return Result{}, err
	}

	vhost, strategy, splitUser, splitOK := resolveVhost(in, cfg, params)

	// The username/password branch is the only one that ever reported
	// the raw, unsplit username; every other branch (TLS CN, anonymous
	// default) already reports the right Credentials.Username and must
	// not be overwritten by a vhost split performed against in.Username.
	if splitOK && !creds.UsedTLS {
		creds.Username = splitUser
	}

	return Result{
		Credentials: creds,
		Vhost:       vhost,
		Strategy:    strategy,
	}, nil
}

// resolveCredentials implements the priority list: both present, only
// one present, TLS cert login, anonymous default, or failure.
func resolveCredentials(in Input, cfg contract.Config) (Credentials, error) {
	hasUser := in.Username != nil
	hasPass := in.Password != nil

	if hasUser && hasPass {
		return Credentials{Username: *in.Username, Password: *in.Password}, nil
	}

	if hasUser != hasPass {
		return Credentials{}, contract.ErrInvalidCredentials
	}

	if cfg.SSLCertLogin() && in.TLSCommonName != nil && *in.TLSCommonName != "" {
		return Credentials{
			Username: *in.TLSCommonName,
			Password: NoPasswordMarker,
			UsedTLS:  true,
		}, nil
	}

	if cfg.AllowAnonymous() {
		if user, pass, ok := cfg.DefaultUser(); ok {
			return Credentials{Username: user, Password: pass}, nil
		}
	}

	return Credentials{}, contract.ErrNoCredentials
}

// resolveVhost implements the vhost-selection branch of spec.md §4.1:
// TLS CN takes priority over everything else when present, otherwise
// username-colon-splitting, port mapping, and the default vhost are
// tried in order.
func resolveVhost(in Input, cfg contract.Config, params contract.RuntimeParams) (vhost, strategy, splitUser string, splitOK bool) {
	hasCN := in.TLSCommonName != nil && *in.TLSCommonName != ""

	if hasCN {
		if vhost, ok := params.VhostForCertificate(*in.TLSCommonName); ok {
			return vhost, StrategyCertToVhostMapping, "", false
		}

		if vhost, ok := params.VhostForPort(in.ListenerPort); ok {
			return vhost, StrategyPortToVhostMapping, "", false
		}

		return vhostFromUsernameOrDefault(in, cfg)
	}

	if !cfg.IgnoreColonsInUsername() {
		if vhost, user, ok := splitVhostFromUsername(in.Username); ok {
			return vhost, StrategyVhostInUsernameOrDefault, user, true
		}
	}

	if vhost, ok := params.VhostForPort(in.ListenerPort); ok {
		return vhost, StrategyPortToVhostMapping, "", false
	}

	return cfg.Vhost(), StrategyDefaultVhost, "", false
}

// vhostFromUsernameOrDefault is the TLS-present fallback branch: try
// the username colon-split, else the configured default vhost. Port
// mapping was already tried by the caller.
func vhostFromUsernameOrDefault(in Input, cfg contract.Config) (vhost, strategy, splitUser string, splitOK bool) {
	if !cfg.IgnoreColonsInUsername() {
		if vhost, user, ok := splitVhostFromUsername(in.Username); ok {
			return vhost, StrategyVhostInUsernameOrDefault, user, true
		}
	}

	return cfg.Vhost(), StrategyVhostInUsernameOrDefault, "", false
}

// splitVhostFromUsername splits "vhost:user" on the *last* colon, per
// the source's ":(?!.*?:)" regex: a colon not followed by any further
// colon. A username with no colon, or one ending in a colon with
// nothing after it, does not match.
func splitVhostFromUsername(username *string) (vhost string, user string, ok bool) {
	if username == nil {
		return "", "", false
	}

	idx := strings.LastIndex(*username, ":")

	if idx < 0 || idx == len(*username)-1 {
		return "", "", false
	}

	return (*username)[:idx], (*username)[idx+1:], true
}
