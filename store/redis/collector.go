package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// Collector is the cluster-wide client-id registry backed by Redis,
// grounded on the teacher's Redis wrapper's Put/Delete/Has pattern.
// Registering a client id that is already registered overwrites the
// previous owner's entry without error; the previous owner's session
// is not notified or disconnected.
type Collector struct {
	client *goredis.Client
}

// NewCollector returns a Collector backed by client.
func NewCollector(client *goredis.Client) *Collector {
	return &Collector{client: client}
}

func collectorKey(clientID []byte) string {
	return fmt.Sprintf("mqtt:clients:%s", clientID)
}

// Register associates clientID with this node.
func (c *Collector) Register(ctx context.Context, clientID []byte) error {
	return c.client.Set(ctx, collectorKey(clientID), 1, 0).Err()
}

// Unregister removes the client-id registration. It is idempotent:
// deleting an absent key is not an error in Redis.
func (c *Collector) Unregister(ctx context.Context, clientID []byte) error {
	err := c.client.Del(ctx, collectorKey(clientID)).Err()

	if err != nil && !errors.Is(err, goredis.Nil) {
		return err
	}

	return nil
}

var _ contract.Collector = (*Collector)(nil)
