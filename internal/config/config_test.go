package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.Equal(t, uint64(5), cfg.BatchSize)
	require.Equal(t, 10, cfg.StateTreeDepth)
	require.True(t, cfg.IsD2)
}

func TestNewConfigCLIOverrides(t *testing.T) {
	cfg := NewConfig("--batch-size", "8", "--is-d2", "false", "--rpc", "http://example.invalid")
	require.Equal(t, uint64(8), cfg.BatchSize)
	require.False(t, cfg.IsD2)
	require.Equal(t, "http://example.invalid", cfg.RPCEndpoint)
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("MAX_VOTE_OPTIONS", "9")
	cfg := NewConfig()
	require.Equal(t, uint64(9), cfg.MaxVoteOptions)
}
