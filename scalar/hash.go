package scalar

import "github.com/spaolacci/murmur3"

// Hash48 folds data down to the 48-bit hash the indexing core keys
// addresses, topics, blocks and transactions by. Real archive callers
// derive hash48 from a domain hash (block hash, tx hash, log topic);
// this is the generic fallback and test-fixture path.
func Hash48(data []byte) uint64 {
	return murmur3.Sum64(data) & Mask48
}
