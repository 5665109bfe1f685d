package indexer

// blockVector is the per-block bits24 vector: a growable, append-only
// list of u24 values shared by every spilled log entry at one height. A
// spilled entry's members are a length-prefixed run inside it: one
// length, followed by that many indices.
type blockVector struct {
	data []uint32
}

// shrinkToFit reallocates the backing array to its current length,
// releasing any spare capacity left over from growth. AddBlock calls this
// on the previous height's vector once that height stops growing,
// mirroring std::vector::shrink_to_fit.
func (v *blockVector) shrinkToFit() {
	if v == nil || len(v.data) == cap(v.data) {
		return
	}
	tight := make([]uint32, len(v.data))
	copy(tight, v.data)
	v.data = tight
}

// appendSpill appends a new length-prefixed run and returns its base
// offset, the value later carried in a tag==7 magic.
func (v *blockVector) appendSpill(indices []uint32) uint64 {
	base := uint64(len(v.data))
	v.data = append(v.data, uint32(len(indices)))
	v.data = append(v.data, indices...)
	return base
}

// readSpill returns the members of the run starting at base, using the
// length stored at base; the length itself is not part of the result.
func (v *blockVector) readSpill(base uint64) []uint32 {
	n := v.data[base]
	start := base + 1
	return v.data[start : start+uint64(n)]
}
