package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHt3off5RoundTripAndShardSplit(t *testing.T) {
	height := uint32(0x12_345_678)
	key := ht3off5(height, 0xABCDEF)

	assert.True(t, heightMatches(key, height))
	assert.False(t, heightMatches(key, height+1))
	assert.Equal(t, uint64(0xABCDEF), key&0xFFFFFFFFFF)
}

func TestLogKeyRoundTrip(t *testing.T) {
	key := logKey(0xDEADBEEF, 777)
	assert.Equal(t, uint32(777), heightFromLogKey(key))
}

func TestTxID56PacksHeightAndIdx(t *testing.T) {
	id := txID56(100, 5)
	assert.Equal(t, uint64(100)<<24|5, id)
}
