package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsNonMandatedShardCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shards.BlockContent = 1 << 4
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEveryMandatedShardFieldIndependently(t *testing.T) {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.Shards.BlockContent = 1 << 16 },
		func(c *Config) { c.Shards.BlockHash = 1 << 8 },
		func(c *Config) { c.Shards.TxID = 1 << 8 },
		func(c *Config) { c.Shards.TxHash = 1 << 8 },
		func(c *Config) { c.Shards.AddrLog = 1 << 8 },
		func(c *Config) { c.Shards.TopicLog = 1 << 8 },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate())
	}
}

func TestValidateRejectsNegativeCacheSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Size = -1
	assert.Error(t, cfg.Validate())
}
