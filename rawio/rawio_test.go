package rawio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rw2codec/rw2/bayer"
	"github.com/rw2codec/rw2/core"
)

// buildRW2Fixture assembles a minimal little-endian TIFF container with a
// single IFD0 carrying the four Panasonic-private tags this package reads,
// followed by one 0x4000-byte block of encoder-produced chunk bytes as the
// raw strip. It is a hand-built fixture, not a real camera file, but it
// exercises the exact tag layout rawio.Read depends on.
func buildRW2Fixture(t *testing.T) ([]byte, []byte) {
	t.Helper()

	strip := make([]byte, 0x4000)
	for k := 0; k < 0x400; k++ {
		var pxs [14]uint16
		for i := range pxs {
			pxs[i] = uint16((k*14+i)*3) % (1 << 12)
		}
		chunk := core.EncodeChunk(pxs)
		core.StoreChunk(strip, k, chunk)
	}

	type entry struct {
		id, typ uint16
		count   uint32
		value   uint32
	}
	const typeLong = 4
	entries := []entry{
		{tagSensorWidth, typeLong, 1, 64},
		{tagSensorHeight, typeLong, 1, 64},
		{tagStripOffset, typeLong, 1, 0}, // patched below
		{tagStripByteCounts, typeLong, 1, uint32(len(strip))},
	}

	var buf bytes.Buffer
	// TIFF header: little-endian, magic 42, offset to IFD0 = 8.
	buf.Write([]byte{'I', 'I', 42, 0})
	binary.Write(&buf, binary.LittleEndian, uint32(8))

	binary.Write(&buf, binary.LittleEndian, uint16(len(entries)))
	entryTableStart := buf.Len()
	for _, e := range entries {
		binary.Write(&buf, binary.LittleEndian, e.id)
		binary.Write(&buf, binary.LittleEndian, e.typ)
		binary.Write(&buf, binary.LittleEndian, e.count)
		binary.Write(&buf, binary.LittleEndian, e.value)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // next IFD offset = 0

	header := buf.Bytes()
	stripOffset := uint32(len(header))
	out := append(header, strip...)

	// Patch the StripOffset entry's value field in place.
	for i, e := range entries {
		if e.id == tagStripOffset {
			valOff := entryTableStart + i*12 + 8
			binary.LittleEndian.PutUint32(out[valOff:], stripOffset)
		}
	}

	return out, strip
}

func TestRead_ExtractsStripAndDimensions(t *testing.T) {
	data, strip := buildRW2Fixture(t)

	f, err := ReadBytes(data)
	require.NoError(t, err)
	require.Equal(t, 64, f.Width)
	require.Equal(t, 64, f.Height)
	require.Equal(t, bayer.GBRG, f.CFA)
	require.True(t, bytes.Equal(f.Blob, strip), "Blob mismatch: got %d bytes, want %d", len(f.Blob), len(strip))
}

func TestRead_StripDecodesCleanly(t *testing.T) {
	data, _ := buildRW2Fixture(t)

	f, err := ReadBytes(data)
	require.NoError(t, err)

	pxs, err := core.Decode(f.Blob)
	require.NoError(t, err)
	require.Len(t, pxs, len(f.Blob)/16*14)
}

func TestRead_MissingTag(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{'I', 'I', 42, 0})
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // zero entries
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	_, err := ReadBytes(buf.Bytes())
	require.Error(t, err)
}
