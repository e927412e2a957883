package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	storeredis "github.com/c3pb/rabbitmq-mqtt/store/redis"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()

	srv := miniredis.RunT(t)

	return goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
}

func TestRetainThenFetchReturnsTheStoredMessage(t *testing.T) {
	ctx := context.Background()
	retainer := storeredis.NewRetainer(newTestClient(t))

	msg := contract.RetainedMessage{QoS: contract.QoS1, Payload: []byte("18.5C")}
	require.NoError(t, retainer.Retain(ctx, "/", []byte("sensor/kitchen/temperature"), msg))

	found, err := retainer.Fetch(ctx, "/", []byte("sensor/kitchen/temperature"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, msg, found[0])
}

func TestFetchMatchesASingleLevelWildcardFilter(t *testing.T) {
	ctx := context.Background()
	retainer := storeredis.NewRetainer(newTestClient(t))

	require.NoError(t, retainer.Retain(ctx, "/", []byte("sensor/kitchen/temperature"), contract.RetainedMessage{Payload: []byte("a")}))
	require.NoError(t, retainer.Retain(ctx, "/", []byte("sensor/hall/temperature"), contract.RetainedMessage{Payload: []byte("b")}))
	require.NoError(t, retainer.Retain(ctx, "/", []byte("sensor/kitchen/humidity"), contract.RetainedMessage{Payload: []byte("c")}))

	found, err := retainer.Fetch(ctx, "/", []byte("sensor/+/temperature"))
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestFetchScopesByVhost(t *testing.T) {
	ctx := context.Background()
	retainer := storeredis.NewRetainer(newTestClient(t))

	require.NoError(t, retainer.Retain(ctx, "/vhost-a", []byte("sensor/temp"), contract.RetainedMessage{Payload: []byte("a")}))
	require.NoError(t, retainer.Retain(ctx, "/vhost-b", []byte("sensor/temp"), contract.RetainedMessage{Payload: []byte("b")}))

	found, err := retainer.Fetch(ctx, "/vhost-a", []byte("sensor/temp"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, []byte("a"), found[0].Payload)
}

func TestClearRemovesTheRetainedMessage(t *testing.T) {
	ctx := context.Background()
	retainer := storeredis.NewRetainer(newTestClient(t))

	require.NoError(t, retainer.Retain(ctx, "/", []byte("sensor/temp"), contract.RetainedMessage{Payload: []byte("a")}))
	require.NoError(t, retainer.Clear(ctx, "/", []byte("sensor/temp")))

	found, err := retainer.Fetch(ctx, "/", []byte("sensor/temp"))
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestClearOnAnAbsentTopicIsNotAnError(t *testing.T) {
	ctx := context.Background()
	retainer := storeredis.NewRetainer(newTestClient(t))

	require.NoError(t, retainer.Clear(ctx, "/", []byte("never/retained")))
}
