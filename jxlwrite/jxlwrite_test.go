package jxlwrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rw2codec/rw2/internal/bitio"
)

const headerLen = 2 + 4 + 4 + 2 + 2 + 1 // signature + width + height + numChannels + bitDepth + flags

func TestEncode_HeaderAndPayloadLength(t *testing.T) {
	opts := DefaultOptions(3)
	pixels := make([]uint16, 4*2*3)
	for i := range pixels {
		pixels[i] = uint16(i % (1 << 14))
	}

	out, err := Encode(pixels, 4, 2, opts)
	require.NoError(t, err)

	wantPayloadBits := len(pixels) * opts.BitDepth
	wantLen := headerLen + (wantPayloadBits+7)/8
	assert.Len(t, out, wantLen)
	assert.Equal(t, jxlSignature, out[:2], "missing JXL signature")
}

func TestEncode_PayloadPacksAtNativeBitDepth(t *testing.T) {
	opts := DefaultOptions(1)
	opts.BitDepth = 10
	pixels := []uint16{0, 1, 1023, 512, 7, 900}

	out, err := Encode(pixels, 6, 1, opts)
	require.NoError(t, err)

	payload := out[headerLen:]
	br := bitio.NewReader(payload)
	for i, want := range pixels {
		got := br.ReadSample(opts.BitDepth)
		assert.Equalf(t, want, got, "sample %d", i)
	}
}

func TestEncode_SampleCountMismatch(t *testing.T) {
	opts := DefaultOptions(3)
	_, err := Encode(make([]uint16, 5), 4, 2, opts)
	assert.Error(t, err)
}

func TestEncode_BitDepthOverflow(t *testing.T) {
	opts := DefaultOptions(1)
	opts.BitDepth = 8
	pixels := []uint16{0, 1, 2, 256}
	_, err := Encode(pixels, 4, 1, opts)
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions(4)
	assert.True(t, opts.Lossless)
	assert.True(t, opts.OriginalProfile)
	assert.Equal(t, ColorEncodingLinearSRGB, opts.ColorEncoding)
	assert.Equal(t, 4, opts.NumChannels)
}
