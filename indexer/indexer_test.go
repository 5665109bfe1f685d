package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbch/MoeingDB/config"
)

func newTestIndexer(t *testing.T) *Indexer {
	t.Helper()
	ix, err := New(config.DefaultConfig())
	require.NoError(t, err)
	return ix
}

func TestNewRejectsNonMandatedShardCount(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Shards.BlockContent = 1 << 4
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestAddBlockAndLookups(t *testing.T) {
	ix := newTestIndexer(t)

	ok := ix.AddBlock(10, 0xAABBCCDDEEFF, 4096)
	require.True(t, ok)

	assert.Equal(t, int64(4096), ix.OffsetByBlockHeight(10))
	assert.Equal(t, int64(4096), ix.OffsetByBlockHash(0xAABBCCDDEEFF))
	assert.Equal(t, int64(-1), ix.OffsetByBlockHeight(11))
	assert.Equal(t, int64(-1), ix.OffsetByBlockHash(0x1))
}

func TestAddBlockRejectsDuplicateHash(t *testing.T) {
	ix := newTestIndexer(t)
	require.True(t, ix.AddBlock(1, 0x42, 0))
	ok := ix.AddBlock(2, 0x42, 100)
	assert.False(t, ok)
	assert.Equal(t, int64(-1), ix.OffsetByBlockHeight(2))
}

func TestEraseBlockIsNoopWhenAbsent(t *testing.T) {
	ix := newTestIndexer(t)
	ix.EraseBlock(99, 0x1234)
	assert.Equal(t, int64(-1), ix.OffsetByBlockHeight(99))
}

func TestEraseBlockRemovesBothMappings(t *testing.T) {
	ix := newTestIndexer(t)
	require.True(t, ix.AddBlock(5, 0x99, 10))
	ix.EraseBlock(5, 0x99)
	assert.Equal(t, int64(-1), ix.OffsetByBlockHeight(5))
	assert.Equal(t, int64(-1), ix.OffsetByBlockHash(0x99))
}

func TestAddBlockAcrossShardBoundaryHeights(t *testing.T) {
	ix := newTestIndexer(t)
	heights := []uint32{0, 1, 1<<24 - 1, 1 << 24, 1<<24 + 1, 0xFFFFFFFF}
	for i, h := range heights {
		require.True(t, ix.AddBlock(h, uint64(i+1), int64(i)))
	}
	for i, h := range heights {
		assert.Equal(t, int64(i), ix.OffsetByBlockHeight(h))
	}
}

func TestAddTxAndLookups(t *testing.T) {
	ix := newTestIndexer(t)
	id := txID56(1, 0)
	ok := ix.AddTx(id, 0xFEED, 55)
	require.True(t, ok)

	assert.Equal(t, int64(55), ix.OffsetByTxID(id))
	assert.Equal(t, int64(55), ix.OffsetByTxHash(0xFEED))
	assert.Equal(t, int64(-1), ix.OffsetByTxID(txID56(1, 1)))
}

func TestAddTxRejectsDuplicateHash(t *testing.T) {
	ix := newTestIndexer(t)
	require.True(t, ix.AddTx(txID56(1, 0), 0x1, 0))
	ok := ix.AddTx(txID56(1, 1), 0x1, 1)
	assert.False(t, ok)
}

func TestEraseTx(t *testing.T) {
	ix := newTestIndexer(t)
	id := txID56(3, 2)
	require.True(t, ix.AddTx(id, 0x77, 10))
	ix.EraseTx(id, 0x77)
	assert.Equal(t, int64(-1), ix.OffsetByTxID(id))
	assert.Equal(t, int64(-1), ix.OffsetByTxHash(0x77))
}

func TestAddBlockWithFullWidthHash48AndOffset40(t *testing.T) {
	ix := newTestIndexer(t)
	maxHash := uint64(1)<<48 - 1
	maxOffset := int64(1)<<40 - 1
	require.True(t, ix.AddBlock(1, maxHash, maxOffset))
	assert.Equal(t, maxOffset, ix.OffsetByBlockHeight(1))
	assert.Equal(t, maxOffset, ix.OffsetByBlockHash(maxHash))
}

func TestAddBlockPanicsOnOversizedHash(t *testing.T) {
	ix := newTestIndexer(t)
	assert.Panics(t, func() { ix.AddBlock(1, uint64(1)<<48, 0) })
}

func TestAddBlockPanicsOnNegativeOffset(t *testing.T) {
	ix := newTestIndexer(t)
	assert.Panics(t, func() { ix.AddBlock(1, 1, -1) })
}

func TestIndexedHeightsTracksAddAndErase(t *testing.T) {
	ix := newTestIndexer(t)
	require.True(t, ix.AddBlock(1, 1, 0))
	require.True(t, ix.AddBlock(2, 2, 0))
	assert.Equal(t, uint64(2), ix.IndexedHeightCount())
	assert.Equal(t, []uint32{1, 2}, ix.IndexedHeights())

	ix.EraseBlock(1, 1)
	assert.Equal(t, uint64(1), ix.IndexedHeightCount())
	assert.Equal(t, []uint32{2}, ix.IndexedHeights())
}
