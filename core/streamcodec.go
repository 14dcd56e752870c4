package core

import "fmt"

// BadSizeError reports a byte blob whose length is not a multiple of the
// 0x4000-byte block size the format requires.
type BadSizeError struct {
	Len int
}

func (e *BadSizeError) Error() string {
	return fmt.Sprintf("core: blob length %d is not a multiple of 0x%x", e.Len, blockSize)
}

// RoundTripMismatchError reports that re-encoding a decoded chunk did not
// reproduce the original bytes. This indicates an encoder bug, not a
// corrupt input; see spec §7.
type RoundTripMismatchError struct {
	ChunkIndex int
	Original   [16]byte
	ReEncoded  [16]byte
}

func (e *RoundTripMismatchError) Error() string {
	return fmt.Sprintf("core: round-trip mismatch at chunk %d: got % x, want % x",
		e.ChunkIndex, e.ReEncoded, e.Original)
}

// SelfCheck controls whether Decode verifies encode(decode(chunk)) == chunk
// for every chunk it decodes. It defaults to true; the spec (§9) documents
// this as a cheap per-chunk check that catches encoder regressions
// immediately and should be a compile-time-toggled assertion in release
// builds — this package exposes it as a package variable instead, since Go
// has no build-time constant-folding escape hatch as clean as a toggled
// debug assert without a build tag, and CLI callers may want to disable it
// for large files after the codec has been validated once.
var SelfCheck = true

// Decode parses a whole RW2 compressed blob into its flat pixel stream.
// len(blob) must be a positive multiple of 0x4000; Decode returns
// len(blob)/16*14 pixels in chunk-major order.
//
// If SelfCheck is enabled (the default), each decoded chunk is re-encoded
// and compared byte-for-byte against the source chunk; a mismatch is
// reported as a *RoundTripMismatchError rather than silently accepted.
func Decode(blob []byte) ([]uint16, error) {
	if len(blob) == 0 || len(blob)%blockSize != 0 {
		return nil, &BadSizeError{Len: len(blob)}
	}

	numChunks := len(blob) / 16
	out := make([]uint16, 0, numChunks*numPixels)

	for k := 0; k < numChunks; k++ {
		chunk := FetchChunk(blob, k)
		pxs := DecodeChunk(chunk)

		if SelfCheck {
			if reEncoded := EncodeChunk(pxs); reEncoded != chunk {
				return nil, &RoundTripMismatchError{
					ChunkIndex: k,
					Original:   chunk,
					ReEncoded:  reEncoded,
				}
			}
		}

		out = append(out, pxs[:]...)
	}
	return out, nil
}

// Encode is the inverse of Decode: given a flat pixel stream whose length
// is a multiple of 14, it packs pixels back into a blob of the given byte
// length (which must already be sized as a multiple of 0x4000 holding
// exactly len(pixels)/14 chunks) using the same block/chunk permutation.
func Encode(pixels []uint16, blobLen int) ([]byte, error) {
	if blobLen == 0 || blobLen%blockSize != 0 {
		return nil, &BadSizeError{Len: blobLen}
	}
	numChunks := blobLen / 16
	if len(pixels) != numChunks*numPixels {
		return nil, fmt.Errorf("core: Encode got %d pixels, want %d for a %d-byte blob",
			len(pixels), numChunks*numPixels, blobLen)
	}

	blob := make([]byte, blobLen)
	for k := 0; k < numChunks; k++ {
		var pxs [numPixels]uint16
		copy(pxs[:], pixels[k*numPixels:(k+1)*numPixels])
		StoreChunk(blob, k, EncodeChunk(pxs))
	}
	return blob, nil
}
