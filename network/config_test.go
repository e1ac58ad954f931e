package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPresets(t *testing.T) {
	cfg, err := ResolveConfig(nil, nil, "regtest")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:18443", cfg.URL)
	assert.Equal(t, "bchw", cfg.User)
	assert.Equal(t, "regtest", cfg.Network)

	cfg, err = ResolveConfig(nil, nil, "testnet")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:18332", cfg.URL)
}

func TestResolveConfigMainnetRequiresExplicit(t *testing.T) {
	_, err := ResolveConfig(nil, nil, "mainnet")
	require.Error(t, err)

	cfg, err := ResolveConfig(&RPCConfig{URL: "http://node:8332", User: "u", Password: "p"}, nil, "mainnet")
	require.NoError(t, err)
	assert.Equal(t, "http://node:8332", cfg.URL)
	assert.Equal(t, "mainnet", cfg.Network)
}

func TestResolveConfigEnvOverridesPreset(t *testing.T) {
	env := map[string]string{
		"BCHW_RPC_URL":  "http://envhost:18443",
		"BCHW_RPC_USER": "envuser",
	}
	cfg, err := ResolveConfig(nil, env, "regtest")
	require.NoError(t, err)
	assert.Equal(t, "http://envhost:18443", cfg.URL)
	assert.Equal(t, "envuser", cfg.User)
	// password not set in env, preset survives
	assert.Equal(t, "bchw", cfg.Password)
}

func TestResolveConfigFlagsOverrideEnv(t *testing.T) {
	env := map[string]string{"BCHW_RPC_URL": "http://envhost:18443"}
	flags := &RPCConfig{URL: "http://flaghost:18443"}
	cfg, err := ResolveConfig(flags, env, "regtest")
	require.NoError(t, err)
	assert.Equal(t, "http://flaghost:18443", cfg.URL)
}

func TestResolveConfigEmptyValuesIgnored(t *testing.T) {
	env := map[string]string{"BCHW_RPC_URL": ""}
	flags := &RPCConfig{}
	cfg, err := ResolveConfig(flags, env, "regtest")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:18443", cfg.URL)
}
