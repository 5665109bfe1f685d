package indexer

import (
	"fmt"

	"github.com/smartbch/MoeingDB/scalar"
)

// tagSpill is the magic-value tag marking a log entry whose index
// list spilled into the block's bits24 vector rather than fitting inline.
const tagSpill = 7

// payloadMask clears the high 3 tag bits of a magic value, leaving the
// 61-bit payload (either 1..3 packed 20-bit indices or a vector offset).
const payloadMask = (uint64(1) << 61) - 1

// encodeInlineMagic packs 1..3 indices into the inline form of magic.
// Each index is narrowed to its low 20 bits, a documented, deliberate
// truncation (see DESIGN.md "Open question resolutions").
func encodeInlineMagic(indices []uint32) (uint64, error) {
	n := len(indices)
	if n == 0 || n > 3 {
		return 0, fmt.Errorf("indexer: encodeInlineMagic needs 1..3 indices, got %d", n)
	}
	var magic uint64
	for i, idx := range indices {
		magic |= (uint64(idx) & scalar.Mask20) << (20 * i)
	}
	magic |= uint64(n) << 61
	return magic, nil
}

// decodeInlineMagic is the inverse of encodeInlineMagic.
func decodeInlineMagic(magic uint64) []uint32 {
	n := int(magic >> 61)
	payload := magic & payloadMask
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = uint32((payload >> (20 * i)) & scalar.Mask20)
	}
	return out
}

// spillBase extracts the vector offset carried by a tag==7 magic value.
func spillBase(magic uint64) uint64 {
	return magic & payloadMask
}
