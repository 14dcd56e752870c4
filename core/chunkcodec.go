package core

// numPixels is the number of 12-to-14-bit pixels packed into one 16-byte
// chunk: two lossless seed pixels followed by four groups of three
// predicted pixels.
const numPixels = 14

// numGroups is the number of differential groups per chunk.
const numGroups = 4

// shiftForRaw maps the 2-bit s_raw field read from a group header to the
// predictor shift used for that group's three pixels.
var shiftForRaw = [4]uint{0: 0, 1: 1, 2: 2, 3: 4}

// rawForShift is the inverse of shiftForRaw, used by the encoder to store
// s_raw back into the group header.
var rawForShift = map[uint]uint8{0: 0, 1: 1, 2: 2, 4: 3}

// DecodeChunk reads the 16-byte chunk and returns its 14 packed pixels.
func DecodeChunk(chunk [16]byte) [numPixels]uint16 {
	g := BitGroup(chunk)
	var out [numPixels]uint16

	out[0] = uint16(g.Get(0, 8))<<4 | uint16(g.Get(8, 4))
	out[1] = uint16(g.Get(12, 8))<<4 | uint16(g.Get(20, 4))

	for group := 0; group < numGroups; group++ {
		base := 24 + 26*group
		sRaw := g.Get(base, 2)
		shift := shiftForRaw[sRaw]
		magnitude := uint16(0x80) << shift

		for q := 0; q < 3; q++ {
			pxIdx := 2 + 3*group + q
			prev := out[pxIdx-2]
			j := g.Get(base+2+8*q, 8)
			out[pxIdx] = decodePixel(j, shift, magnitude, prev)
		}
	}
	return out
}

// decodePixel applies the §4.3 per-pixel rule: exact replication when j==0,
// replacement mode when the magnitude can't be represented as a delta or
// the group shift is maximal, otherwise a biased signed delta.
func decodePixel(j uint8, shift uint, magnitude, prev uint16) uint16 {
	switch {
	case j == 0:
		return prev
	case magnitude > prev || shift == 4:
		lowMask := uint16(1)<<shift - 1
		return uint16(j)<<shift | (prev & lowMask)
	default:
		return prev - magnitude + uint16(j)<<shift
	}
}

// EncodeChunk packs 14 pixels back into a 16-byte chunk such that
// DecodeChunk(EncodeChunk(pxs)) == pxs for any pixel tuple that a prior
// DecodeChunk call produced (round-trip correctness, see spec invariant 3).
func EncodeChunk(pxs [numPixels]uint16) [16]byte {
	var g BitGroup

	g.Set(0, 8, uint8(pxs[0]>>4))
	g.Set(8, 4, uint8(pxs[0]&0xF))
	g.Set(12, 8, uint8(pxs[1]>>4))
	g.Set(20, 4, uint8(pxs[1]&0xF))

	for group := 0; group < numGroups; group++ {
		base := 24 + 26*group
		windowStart := 3 * group
		window := [5]uint16{
			pxs[windowStart], pxs[windowStart+1],
			pxs[windowStart+2], pxs[windowStart+3], pxs[windowStart+4],
		}
		shift, sRaw := selectShift(window)
		magnitude := uint16(0x80) << shift
		g.Set(base, 2, sRaw)

		outpxs := [5]uint16{window[0], window[1], 0, 0, 0}
		for q := 0; q < 3; q++ {
			prev := outpxs[q]
			px := window[q+2]
			diff := int(px) - int(window[q])

			var j uint8
			if prev < magnitude || shift == 4 {
				j = uint8(px >> shift)
			} else {
				j = uint8(uint16(diff+int(magnitude)) >> shift)
			}
			g.Set(base+2+8*q, 8, j)
			outpxs[q+2] = decodePixel(j, shift, magnitude, prev)
		}
	}
	return [16]byte(g)
}

// nextPow2 returns the smallest power of two >= v (v must be >= 1).
func nextPow2(v uint32) uint32 {
	if v <= 1 {
		return 1
	}
	p := uint32(1)
	for p < v {
		p <<= 1
	}
	return p
}

// selectShift implements §4.4's shift selection over a 5-pixel window: two
// carry-in pixels followed by the three pixels to encode. It returns the
// chosen shift and the 2-bit s_raw value that reproduces it on decode.
func selectShift(pxs [5]uint16) (shift uint, sRaw uint8) {
	var diffs [3]int
	maxdiff := 0
	for q := 0; q < 3; q++ {
		diffs[q] = int(pxs[q+2]) - int(pxs[q])
		d := diffs[q]
		if d < 0 {
			d = -d
		}
		if d > maxdiff {
			maxdiff = d
		}
	}

	maxpx := pxs[2]
	for _, p := range pxs[3:5] {
		if p > maxpx {
			maxpx = p
		}
	}

	diffMag := nextPow2(uint32(maxdiff + 1))
	var shiftD uint
	switch diffMag >> 8 {
	case 0:
		shiftD = 0
	case 1:
		shiftD = 1
	case 2:
		shiftD = 2
	default:
		shiftD = 4
	}

	shiftP := uint(4)
	for _, s := range []uint{0, 1, 2} {
		if uint16(0xFF<<s) > maxpx {
			shiftP = s
			break
		}
	}

	shift = shiftD
	if shiftP < shift {
		shift = shiftP
	}
	return shift, rawForShift[shift]
}
