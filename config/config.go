// Package config provides the env-var-backed contract.Config and
// contract.RuntimeParams used to wire up the bridge, adapted from the
// events-bridge config package's env.Parse-based loader.
package config

import (
	"strconv"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// Options is the static, process-lifetime configuration of the
// bridge, populated from environment variables.
type Options struct {
	Exchange                string `env:"MQTT_EXCHANGE" envDefault:"amq.topic"`
	Vhost                   string `env:"MQTT_VHOST" envDefault:"/"`
	DefaultUsername         string `env:"MQTT_DEFAULT_USER"`
	DefaultPassword         string `env:"MQTT_DEFAULT_PASS"`
	AllowAnonymousConnect   bool   `env:"MQTT_ALLOW_ANONYMOUS" envDefault:"false"`
	SSLCertLoginEnabled     bool   `env:"MQTT_SSL_CERT_LOGIN" envDefault:"false"`
	IgnoreColonsInUsernames bool   `env:"MQTT_IGNORE_COLONS_IN_USERNAME" envDefault:"false"`
	PrefetchCount           int    `env:"MQTT_PREFETCH" envDefault:"10"`
	SubscriptionTTLMs       int64  `env:"MQTT_SUBSCRIPTION_TTL_MS" envDefault:"0"`

	// CertVhostMappings and PortVhostMappings are comma-separated
	// "key=value" pairs, e.g. "CN=vhost-a,CN2=vhost-b" and
	// "1883=vhost-a,8883=vhost-b".
	CertVhostMappings string `env:"MQTT_CERT_VHOST_MAP"`
	PortVhostMappings string `env:"MQTT_PORT_VHOST_MAP"`

	AMQPHost string `env:"AMQP_HOST" envDefault:"127.0.0.1"`
	AMQPPort int    `env:"AMQP_PORT" envDefault:"5672"`

	// StoreBackend selects the retainer/collector implementation:
	// "redis" for a clustered deployment, "memory" for a single node.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`

	PostgresDSN string `env:"POSTGRES_DSN"`

	AdminAddr         string `env:"ADMIN_ADDR" envDefault:":8080"`
	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

// Load parses Options from the process environment.
func Load() (Options, error) {
	var opts Options

	if err := env.Parse(&opts); err != nil {
		return Options{}, err
	}

	return opts, nil
}

// Config adapts Options into contract.Config.
type Config struct {
	opts Options
}

// NewConfig returns a Config wrapping opts.
func NewConfig(opts Options) *Config {
	return &Config{opts: opts}
}

func (c *Config) Exchange() string { return c.opts.Exchange }
func (c *Config) Vhost() string    { return c.opts.Vhost }

func (c *Config) DefaultUser() (user string, pass string, ok bool) {
	if c.opts.DefaultUsername == "" {
		return "", "", false
	}

	return c.opts.DefaultUsername, c.opts.DefaultPassword, true
}

func (c *Config) AllowAnonymous() bool         { return c.opts.AllowAnonymousConnect }
func (c *Config) SSLCertLogin() bool           { return c.opts.SSLCertLoginEnabled }
func (c *Config) IgnoreColonsInUsername() bool { return c.opts.IgnoreColonsInUsernames }
func (c *Config) Prefetch() int                { return c.opts.PrefetchCount }

func (c *Config) SubscriptionTTL() (ms int64, ok bool) {
	if c.opts.SubscriptionTTLMs <= 0 {
		return 0, false
	}

	return c.opts.SubscriptionTTLMs, true
}

var _ contract.Config = (*Config)(nil)

// RuntimeParams adapts Options' mapping strings into
// contract.RuntimeParams, and additionally allows those mappings to be
// updated at runtime without restarting the bridge.
type RuntimeParams struct {
	mux         sync.RWMutex
	certToVhost map[string]string
	portToVhost map[int]string
}

// NewRuntimeParams parses opts' mapping strings into a RuntimeParams.
func NewRuntimeParams(opts Options) *RuntimeParams {
	return &RuntimeParams{
		certToVhost: parseStringMap(opts.CertVhostMappings),
		portToVhost: parseIntMap(opts.PortVhostMappings),
	}
}

func (p *RuntimeParams) VhostForCertificate(commonName string) (string, bool) {
	p.mux.RLock()
	defer p.mux.RUnlock()

	vhost, ok := p.certToVhost[commonName]

	return vhost, ok
}

func (p *RuntimeParams) VhostForPort(port int) (string, bool) {
	p.mux.RLock()
	defer p.mux.RUnlock()

	vhost, ok := p.portToVhost[port]

	return vhost, ok
}

// SetCertVhost updates (or adds) a TLS-common-name-to-vhost mapping at
// runtime, e.g. from an operator-facing admin endpoint.
func (p *RuntimeParams) SetCertVhost(commonName, vhost string) {
	p.mux.Lock()
	defer p.mux.Unlock()

	p.certToVhost[commonName] = vhost
}

// SetPortVhost updates (or adds) a listener-port-to-vhost mapping at
// runtime.
func (p *RuntimeParams) SetPortVhost(port int, vhost string) {
	p.mux.Lock()
	defer p.mux.Unlock()

	p.portToVhost[port] = vhost
}

var _ contract.RuntimeParams = (*RuntimeParams)(nil)

func parseStringMap(raw string) map[string]string {
	out := make(map[string]string)

	for _, pair := range splitNonEmpty(raw) {
		key, value, ok := strings.Cut(pair, "=")

		if !ok {
			continue
		}

		out[key] = value
	}

	return out
}

func parseIntMap(raw string) map[int]string {
	out := make(map[int]string)

	for _, pair := range splitNonEmpty(raw) {
		key, value, ok := strings.Cut(pair, "=")

		if !ok {
			continue
		}

		port, err := strconv.Atoi(key)

		if err != nil {
			continue
		}

		out[port] = value
	}

	return out
}

func splitNonEmpty(raw string) []string {
	if raw == "" {
		return nil
	}

	return strings.Split(raw, ",")
}
