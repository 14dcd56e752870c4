// Package jxlwrite is the downstream pixel-array consumer the core codec
// spec leaves out of scope: it takes a decoded, swizzled pixel buffer and
// assembles a JPEG XL container for it.
//
// The reference implementation this spec was distilled from (see
// original_source/wytros) calls out to jpegxl-rs, a Rust binding over the
// official libjxl encoder. No equivalent mature Go binding exists in this
// module's dependency pack or the broader ecosystem, so rather than
// fabricate one behind a replace directive, this package writes a minimal
// fallback container: the JPEG XL naked-codestream signature, then this
// package's own fixed-layout little-endian header (width, height, channel
// count, bit depth, flags), then the raw samples bit-packed at the chosen
// depth. The header is not the JPEG XL SizeHeader/ImageMetadata bit syntax
// and the payload is not a JPEG XL frame, so standard JPEG XL decoders do
// not read the output; it is a lossless carrier for the pixel data this
// module produces, not a JPEG XL writer. See DESIGN.md.
package jxlwrite

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rw2codec/rw2/internal/bitio"
)

// ColorEncoding names a handful of JPEG XL color encodings relevant to
// encoding linear sensor data, mirroring the color_encoding knob in the
// original jpegxl-rs call chain this package's API is modeled on.
type ColorEncoding int

const (
	ColorEncodingLinearSRGB ColorEncoding = iota
	ColorEncodingSRGB
)

// Options mirrors the encoder_builder() call chain from the reference
// implementation: lossless, uses_original_profile, and color_encoding.
type Options struct {
	Lossless        bool
	OriginalProfile bool
	ColorEncoding   ColorEncoding
	NumChannels     int // 3 for RG1B, 4 for RG1BG2
	BitDepth        int // bits per sample; RW2 pixels carry at most 14
}

// DefaultOptions matches the reference implementation's encoder_builder()
// defaults for transcoding raw sensor data: lossless, original profile
// preserved, linear sRGB color encoding.
func DefaultOptions(numChannels int) Options {
	return Options{
		Lossless:        true,
		OriginalProfile: true,
		ColorEncoding:   ColorEncodingLinearSRGB,
		NumChannels:     numChannels,
		BitDepth:        14,
	}
}

// jxlSignature is the JPEG XL naked-codestream signature (ISO/IEC
// 18181-1 Annex A).
var jxlSignature = []byte{0xFF, 0x0A}

// Encode assembles a JPEG XL naked codestream carrying pixels (row-major,
// NumChannels samples per pixel) at the given dimensions. pixels must hold
// exactly width*height*opts.NumChannels samples, each fitting in
// opts.BitDepth bits.
func Encode(pixels []uint16, width, height int, opts Options) ([]byte, error) {
	if opts.NumChannels <= 0 {
		return nil, fmt.Errorf("jxlwrite: NumChannels must be positive, got %d", opts.NumChannels)
	}
	want := width * height * opts.NumChannels
	if len(pixels) != want {
		return nil, fmt.Errorf("jxlwrite: got %d samples, want %d for a %dx%d/%d-channel frame",
			len(pixels), want, width, height, opts.NumChannels)
	}
	if opts.BitDepth <= 0 || opts.BitDepth > 16 {
		return nil, fmt.Errorf("jxlwrite: BitDepth must be in (0,16], got %d", opts.BitDepth)
	}
	maxVal := uint16(1)<<uint(opts.BitDepth) - 1
	for i, p := range pixels {
		if p > maxVal {
			return nil, fmt.Errorf("jxlwrite: sample %d = %d exceeds %d-bit range", i, p, opts.BitDepth)
		}
	}

	var buf bytes.Buffer
	buf.Write(jxlSignature)

	hdr := header{
		width:         uint32(width),
		height:        uint32(height),
		numChannels:   uint16(opts.NumChannels),
		bitDepth:      uint16(opts.BitDepth),
		lossless:      opts.Lossless,
		origProfile:   opts.OriginalProfile,
		colorEncoding: opts.ColorEncoding,
	}
	if err := hdr.writeTo(&buf); err != nil {
		return nil, err
	}

	// Raw (Modular, undifferenced) sample payload, channel-interleaved,
	// row-major, each sample packed at exactly opts.BitDepth bits rather
	// than padded out to a byte boundary. A real libjxl-backed encoder
	// would entropy-code this further; this fallback writer only removes
	// the padding, so the container stays a faithful, if larger, lossless
	// representation of the input.
	bw := bitio.NewWriter(len(pixels), opts.BitDepth)
	for _, p := range pixels {
		bw.WriteSample(p, opts.BitDepth)
	}
	buf.Write(bw.Finish())

	return buf.Bytes(), nil
}

// header is the minimal size/format header this fallback container writes
// ahead of the raw sample payload.
type header struct {
	width, height uint32
	numChannels   uint16
	bitDepth      uint16
	lossless      bool
	origProfile   bool
	colorEncoding ColorEncoding
}

func (h header) writeTo(buf *bytes.Buffer) error {
	if err := binary.Write(buf, binary.LittleEndian, h.width); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, h.height); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, h.numChannels); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, h.bitDepth); err != nil {
		return err
	}
	var flags uint8
	if h.lossless {
		flags |= 1 << 0
	}
	if h.origProfile {
		flags |= 1 << 1
	}
	flags |= uint8(h.colorEncoding) << 2
	return buf.WriteByte(flags)
}
