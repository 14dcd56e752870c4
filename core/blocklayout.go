package core

// blockSize is the size of one permuted block in the compressed blob, 0x4000
// bytes holding 0x400 sixteen-byte chunks.
const blockSize = 0x4000

// chunksPerBlock is the number of 16-byte chunks in one block.
const chunksPerBlock = blockSize / 16

// wrapChunk is the logical chunk index whose 16 bytes straddle the end of
// the block.
const wrapChunk = 0x200

// chunkToOffset maps a chunk's logical index within its block (0..0x400) to
// its intra-block byte offset, per the camera's mid-block start permutation.
//
// Chunk 0 starts at 0x1FF8 (mid-block); chunks 1..0x200 follow to the end of
// the block; chunk 0x200 straddles the wrap (offset 0x3FF8, 8 bytes at the
// tail and 8 at the head); chunks 0x201..0x3FF fill the remainder starting
// at offset 0x0008.
func chunkToOffset(k int) int {
	if k > wrapChunk {
		return 16*k - 0x2008
	}
	return 16*k + 0x1FF8
}

// FetchChunk returns the 16 bytes for logical chunk k across the whole blob.
// k ranges over [0, len(blob)/16); callers must pass only in-range indices.
func FetchChunk(blob []byte, k int) [16]byte {
	blockIdx := (k * 16) / blockSize
	block := blob[blockIdx*blockSize : blockIdx*blockSize+blockSize]
	localK := k % chunksPerBlock

	offset := chunkToOffset(localK)

	var out [16]byte
	if offset == 0x3FF8 {
		copy(out[:8], block[0x3FF8:0x4000])
		copy(out[8:], block[0x0000:0x0008])
		return out
	}
	copy(out[:], block[offset:offset+16])
	return out
}

// StoreChunk writes the 16 bytes of logical chunk k back into blob, inverse
// of FetchChunk. It is used by round-trip self-checks and by any caller
// that re-encodes a full blob rather than a lone chunk.
func StoreChunk(blob []byte, k int, chunk [16]byte) {
	blockIdx := (k * 16) / blockSize
	block := blob[blockIdx*blockSize : blockIdx*blockSize+blockSize]
	localK := k % chunksPerBlock

	offset := chunkToOffset(localK)

	if offset == 0x3FF8 {
		copy(block[0x3FF8:0x4000], chunk[:8])
		copy(block[0x0000:0x0008], chunk[8:])
		return
	}
	copy(block[offset:offset+16], chunk[:])
}
