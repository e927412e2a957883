// Command bridge is the composition root: it loads configuration,
// wires the storage, access-control, and AMQP-broker collaborators,
// and serves the admin introspection HTTP surface.
//
// Accepting MQTT connections, parsing frames off the wire, and driving
// processor.Processor per connection is a transport-layer concern left
// to the adapter described in contract.Socket's doc comment; this
// binary only stands up the shared collaborators and the admin server
// an adapter would be built around.
package main

import (
	"log/slog"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/c3pb/rabbitmq-mqtt/access"
	"github.com/c3pb/rabbitmq-mqtt/access/database"
	"github.com/c3pb/rabbitmq-mqtt/admin"
	"github.com/c3pb/rabbitmq-mqtt/amqpio"
	"github.com/c3pb/rabbitmq-mqtt/atlas"
	"github.com/c3pb/rabbitmq-mqtt/config"
	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/db"
	"github.com/c3pb/rabbitmq-mqtt/framework/cache"
	"github.com/c3pb/rabbitmq-mqtt/nova"
	cacheredis "github.com/c3pb/rabbitmq-mqtt/service/cache/redis"
	"github.com/c3pb/rabbitmq-mqtt/store/memory"
	storeredis "github.com/c3pb/rabbitmq-mqtt/store/redis"
)

// permissionCacheTTL is the expiration and cleanup interval used for the
// in-memory access-control cache; the redis-backed cache carries its own
// TTL per entry instead.
const permissionCacheTTL = time.Minute

// noAdminAuth is used when no admin password hash is configured; it is
// only appropriate for local development.
func noAdminAuth(next nova.Handler) nova.Handler {
	return next
}

// collaborators bundles the long-lived dependencies a per-connection
// processor.Deps is assembled from.
type collaborators struct {
	config    contract.Config
	params    contract.RuntimeParams
	broker    contract.AMQPBroker
	access    contract.AccessControl
	retainer  contract.Retainer
	collector contract.Collector
	registry  *admin.Registry
}

func build(opts config.Options) (*collaborators, error) {
	cfg := config.NewConfig(opts)
	params := config.NewRuntimeParams(opts)
	broker := amqpio.NewBroker(opts.AMQPHost, opts.AMQPPort)

	var acl contract.AccessControl
	var retainer contract.Retainer
	var collector contract.Collector
	var permissionCache contract.Cache

	switch opts.StoreBackend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: opts.RedisAddr})
		retainer = storeredis.NewRetainer(client)
		collector = storeredis.NewCollector(client)
		permissionCache = cacheredis.New(&cacheredis.Options{Addr: opts.RedisAddr})
	default:
		retainer = memory.NewRetainer()
		collector = memory.NewCollector()
		permissionCache = cache.NewMemory(permissionCacheTTL, permissionCacheTTL)
	}

	if opts.PostgresDSN != "" {
		conn, err := db.Open(opts.PostgresDSN)

		if err != nil {
			return nil, err
		}

		acl = access.NewCached(database.New(conn), permissionCache)
	}

	return &collaborators{
		config:    cfg,
		params:    params,
		broker:    broker,
		access:    acl,
		retainer:  retainer,
		collector: collector,
		registry:  admin.NewRegistry(),
	}, nil
}

func main() {
	opts, err := config.Load()

	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	collabs, err := build(opts)

	if err != nil {
		slog.Error("failed to build collaborators", "err", err)
		os.Exit(1)
	}

	auth := noAdminAuth

	if opts.AdminPasswordHash != "" {
		auth = admin.BasicAuth(opts.AdminUsername, []byte(opts.AdminPasswordHash))
	}

	app := admin.NewApp(collabs.registry, auth)

	atlasOpts := atlas.DefaultOptions
	atlasOpts.Addr = opts.AdminAddr

	if err := atlas.New(app).Start(atlasOpts); err != nil {
		slog.Error("admin server stopped", "err", err)
		os.Exit(1)
	}
}
