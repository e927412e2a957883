package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c3pb/rabbitmq-mqtt/config"
)

func TestConfigExposesDefaultUserOnlyWhenUsernameIsSet(t *testing.T) {
	cfg := config.NewConfig(config.Options{})

	_, _, ok := cfg.DefaultUser()
	require.False(t, ok)

	cfg = config.NewConfig(config.Options{DefaultUsername: "guest", DefaultPassword: "guest"})
	user, pass, ok := cfg.DefaultUser()
	require.True(t, ok)
	require.Equal(t, "guest", user)
	require.Equal(t, "guest", pass)
}

func TestConfigSubscriptionTTLIsUnsetWhenZeroOrNegative(t *testing.T) {
	cfg := config.NewConfig(config.Options{SubscriptionTTLMs: 0})
	_, ok := cfg.SubscriptionTTL()
	require.False(t, ok)

	cfg = config.NewConfig(config.Options{SubscriptionTTLMs: -1})
	_, ok = cfg.SubscriptionTTL()
	require.False(t, ok)

	cfg = config.NewConfig(config.Options{SubscriptionTTLMs: 5000})
	ms, ok := cfg.SubscriptionTTL()
	require.True(t, ok)
	require.Equal(t, int64(5000), ms)
}

func TestRuntimeParamsParsesCertAndPortMappings(t *testing.T) {
	params := config.NewRuntimeParams(config.Options{
		CertVhostMappings: "device-a=vhost-a,device-b=vhost-b",
		PortVhostMappings: "1883=vhost-a,8883=vhost-b",
	})

	vhost, ok := params.VhostForCertificate("device-a")
	require.True(t, ok)
	require.Equal(t, "vhost-a", vhost)

	vhost, ok = params.VhostForPort(8883)
	require.True(t, ok)
	require.Equal(t, "vhost-b", vhost)

	_, ok = params.VhostForPort(9999)
	require.False(t, ok)
}

func TestRuntimeParamsSetUpdatesMappingsAtRuntime(t *testing.T) {
	params := config.NewRuntimeParams(config.Options{})

	_, ok := params.VhostForPort(1883)
	require.False(t, ok)

	params.SetPortVhost(1883, "vhost-a")

	vhost, ok := params.VhostForPort(1883)
	require.True(t, ok)
	require.Equal(t, "vhost-a", vhost)
}

func TestRuntimeParamsIgnoresMalformedPairs(t *testing.T) {
	params := config.NewRuntimeParams(config.Options{
		PortVhostMappings: "not-a-number=vhost-a,1883=vhost-b",
	})

	vhost, ok := params.VhostForPort(1883)
	require.True(t, ok)
	require.Equal(t, "vhost-b", vhost)
}
