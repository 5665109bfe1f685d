package indexer

import "github.com/smartbch/MoeingDB/scalar"

// ht3off5 packs the low 24 bits of height with a 40-bit offset into the
// key of the block content map. The high 8 bits of
// height select the shard (scalar.HeightShard) and are not stored in the
// key at all, so a 32-bit height survives the round trip exactly: 8 bits
// in the shard selector, 24 bits in the key.
func ht3off5(height uint32, offsetBits uint64) uint64 {
	return (uint64(height)&scalar.Mask24)<<40 | (offsetBits & scalar.Mask40)
}

// heightMatches reports whether a stored ht3off5 key belongs to height,
// by comparing the key's high 24 bits against height's low 24 bits.
func heightMatches(key uint64, height uint32) bool {
	return key>>40 == uint64(height)&scalar.Mask24
}

// logKey packs a hash's low 32 bits with a height into the key shared by
// the address and topic log maps.
func logKey(hashLow32 uint32, height uint32) uint64 {
	return uint64(hashLow32)<<32 | uint64(height)
}

// heightFromLogKey recovers the height half of a log_key.
func heightFromLogKey(key uint64) uint32 {
	return uint32(key)
}

// txID56 composes the id56 of the idx-th transaction in the block at
// height: the high 32 bits hold height, the low 24 bits hold idx. idx is
// the position within the block a transaction was added at, the same
// value recorded in an address/topic log entry.
func txID56(height uint32, idx uint32) uint64 {
	return uint64(height)<<24 | uint64(idx)&0xFFFFFF
}
