// Package config holds the tunables for the indexing core: shard counts,
// the optional query cache size and the log level. None of these affect
// observable results, only memory layout and parallelism opportunity.
package config

import (
	"fmt"

	"github.com/smartbch/MoeingDB/logs"
)

// Config is the top-level configuration for an indexer.Indexer.
type Config struct {
	Shards  ShardConfig
	Cache   CacheConfig
	LogView LogConfig
}

// ShardConfig holds the shard count of each sharded map. The derived
// keys (ht3off5, logKey) bake the split between shard-selector bits and
// stored-key bits into their bit widths, so these counts are not free to
// vary independently of that packing: Validate rejects anything but the
// mandated values below. The fields stay explicit configuration (rather
// than untyped constants) so the mandate is visible and checked once at
// construction, not because other values are actually supported.
type ShardConfig struct {
	BlockContent int // shard = height >> 24; must be 256
	BlockHash    int // shard = hash48 >> 32; must be 65536
	TxID         int // shard = id56 >> 40; must be 65536
	TxHash       int // shard = hash48 >> 32; must be 65536
	AddrLog      int // shard = hash48 >> 32; must be 65536
	TopicLog     int // shard = hash48 >> 32; must be 65536
}

// CacheConfig configures the optional LRU cache in front of
// Indexer.QueryTxOffsets. A zero Size disables caching entirely.
type CacheConfig struct {
	Size int
}

// LogConfig configures the Logger an Indexer logs through.
type LogConfig struct {
	Level  int
	Prefix string
}

// DefaultConfig returns the standard shard counts: 256 for block content,
// 65536 for the other five sharded maps, with query caching disabled.
func DefaultConfig() Config {
	return Config{
		Shards: ShardConfig{
			BlockContent: 1 << 8,
			BlockHash:    1 << 16,
			TxID:         1 << 16,
			TxHash:       1 << 16,
			AddrLog:      1 << 16,
			TopicLog:     1 << 16,
		},
		Cache: CacheConfig{
			Size: 0,
		},
		LogView: LogConfig{
			Level:  logs.LevelInfo,
			Prefix: "indexer",
		},
	}
}

// Validate checks that every shard count matches the value the shard-
// selection arithmetic in scalar and indexer assumes. Shard counts are
// not independently tunable: ht3off5 fixes 256 shards for block content
// by construction (8 shard bits, 24 key bits), and logKey/SplitHash48
// fix 65536 for everything keyed by hash48 (16 shard bits, 32 key bits).
// A shard count Validate didn't reject here would mis-shard or, worse,
// panic out of range inside bigmap on the first out-of-band key.
func (c Config) Validate() error {
	want := map[string]int{
		"BlockContent": 1 << 8,
		"BlockHash":    1 << 16,
		"TxID":         1 << 16,
		"TxHash":       1 << 16,
		"AddrLog":      1 << 16,
		"TopicLog":     1 << 16,
	}
	got := map[string]int{
		"BlockContent": c.Shards.BlockContent,
		"BlockHash":    c.Shards.BlockHash,
		"TxID":         c.Shards.TxID,
		"TxHash":       c.Shards.TxHash,
		"AddrLog":      c.Shards.AddrLog,
		"TopicLog":     c.Shards.TopicLog,
	}
	for name, n := range got {
		if n != want[name] {
			return fmt.Errorf("config: shard count for %s must be %d, got %d", name, want[name], n)
		}
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("config: cache size must be non-negative, got %d", c.Cache.Size)
	}
	return nil
}
