package access

import (
	"context"
	"fmt"
	"time"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// permissionTTL bounds how stale a cached permission check may be
// before the underlying database is consulted again.
const permissionTTL = 30 * time.Second

// Cached decorates a contract.AccessControl with a contract.Cache,
// memoizing VhostExists and the two topic-permission checks so a busy
// publisher does not hit the database on every PUBLISH, adapted from
// the teacher's cache.Cache.Remember pattern.
type Cached struct {
	inner contract.AccessControl
	cache contract.Cache
}

// NewCached returns a Cached access control wrapping inner, memoizing
// results in cache.
func NewCached(inner contract.AccessControl, cache contract.Cache) *Cached {
	return &Cached{inner: inner, cache: cache}
}

func (c *Cached) VhostExists(ctx context.Context, vhost string) (bool, error) {
	key := fmt.Sprintf("access:vhost:%s", vhost)

	val, err := c.cache.Remember(ctx, key, permissionTTL, func() (any, error) {
		return c.inner.VhostExists(ctx, vhost)
	})

	if err != nil {
		return false, err
	}

	switch exists := val.(type) {
	case bool:
		return exists, nil
	case string:
		// A cache hit from service/cache/redis carries the stored bool
		// in its wire form, "1" or "0".
		return exists == "1", nil
	}

	return false, fmt.Errorf("access cache: unexpected value type for %s", key)
}

func (c *Cached) CheckLoopback(ctx context.Context, user string, peerHost string) (bool, error) {
	return c.inner.CheckLoopback(ctx, user, peerHost)
}

func (c *Cached) CheckTopicRead(ctx context.Context, user, vhost, exchange, routingKey string) error {
	return c.checkTopic(ctx, "read", user, vhost, exchange, routingKey, c.inner.CheckTopicRead)
}

func (c *Cached) CheckTopicWrite(ctx context.Context, user, vhost, exchange, routingKey string) error {
	return c.checkTopic(ctx, "write", user, vhost, exchange, routingKey, c.inner.CheckTopicWrite)
}

func (c *Cached) checkTopic(
	ctx context.Context,
	kind, user, vhost, exchange, routingKey string,
	check func(ctx context.Context, user, vhost, exchange, routingKey string) error,
) error {
	key := fmt.Sprintf("access:%s:%s:%s:%s:%s", kind, user, vhost, exchange, routingKey)

	_, err := c.cache.Remember(ctx, key, permissionTTL, func() (any, error) {
		if err := check(ctx, user, vhost, exchange, routingKey); err != nil {
			return nil, err
		}

		return true, nil
	})

	return err
}

var _ contract.AccessControl = (*Cached)(nil)
