package core

import "testing"

func TestDecodeChunk_ReferenceVectors(t *testing.T) {
	cases := []struct {
		name  string
		chunk [16]byte
		want  [numPixels]uint16
	}{
		{
			name:  "chunk A",
			chunk: [16]byte{0x90, 0x7A, 0x8A, 0x18, 0x02, 0x26, 0x92, 0xC7, 0xB7, 0x48, 0x20, 0x1F, 0x20, 0xC6, 0xF0, 0x0B},
			want:  [numPixels]uint16{0xBF, 0xC6, 0xBF, 0xC2, 0xC0, 0xCD, 0xBC, 0xC6, 0xC5, 0xC6, 0xCB, 0xD0, 0xC5, 0xE0},
		},
		{
			name:  "chunk B",
			chunk: [16]byte{0x66, 0x73, 0xD2, 0x21, 0x22, 0x1D, 0xC9, 0x24, 0xD2, 0x55, 0x9A, 0x70, 0x7A, 0x4B, 0xF1, 0x17},
			want:  [numPixels]uint16{0x17F, 0x14B, 0x251, 0x1CF, 0x223, 0x189, 0x167, 0x121, 0x11F, 0x121, 0x223, 0x1C5, 0x209, 0x191},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DecodeChunk(c.chunk)
			if got != c.want {
				t.Fatalf("DecodeChunk(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestRoundTrip_EncodeDecode(t *testing.T) {
	chunks := [][16]byte{
		{0x90, 0x7A, 0x8A, 0x18, 0x02, 0x26, 0x92, 0xC7, 0xB7, 0x48, 0x20, 0x1F, 0x20, 0xC6, 0xF0, 0x0B},
		{0x66, 0x73, 0xD2, 0x21, 0x22, 0x1D, 0xC9, 0x24, 0xD2, 0x55, 0x9A, 0x70, 0x7A, 0x4B, 0xF1, 0x17},
		{0x21, 0x16, 0x47, 0x8F, 0x2D, 0x09, 0xA1, 0x26, 0x29, 0x6C, 0x61, 0x17, 0x30, 0xAF, 0xD3, 0x17},
		{0x89, 0x91, 0x7A, 0xE8, 0x11, 0xF6, 0x31, 0x59, 0x88, 0x84, 0x5F, 0xBB, 0xAC, 0x01, 0x90, 0x15},
		{0x74, 0x89, 0x7F, 0xB0, 0x01, 0x1E, 0x52, 0x58, 0x57, 0x89, 0xA0, 0x6B, 0xF4, 0x01, 0xD0, 0x11},
	}

	for i, c := range chunks {
		pxs := DecodeChunk(c)
		got := EncodeChunk(pxs)
		if got != c {
			t.Errorf("chunk %d: EncodeChunk(DecodeChunk(x)) = %x, want %x", i, got, c)
		}
	}
}

func TestDecodeChunk_PixelsFitIn14Bits(t *testing.T) {
	chunks := [][16]byte{
		{0x90, 0x7A, 0x8A, 0x18, 0x02, 0x26, 0x92, 0xC7, 0xB7, 0x48, 0x20, 0x1F, 0x20, 0xC6, 0xF0, 0x0B},
		{0x66, 0x73, 0xD2, 0x21, 0x22, 0x1D, 0xC9, 0x24, 0xD2, 0x55, 0x9A, 0x70, 0x7A, 0x4B, 0xF1, 0x17},
	}
	for _, c := range chunks {
		for _, px := range DecodeChunk(c) {
			if px >= 1<<14 {
				t.Errorf("pixel %d out of 14-bit range", px)
			}
		}
	}
}

func TestSelectShift_ReferenceVectors(t *testing.T) {
	cases := []struct {
		window [5]uint16
		want   uint
	}{
		{[5]uint16{0xBF, 0xC6, 0xBF, 0xC2, 0xC0}, 0},
		{[5]uint16{0x3C1, 0x312, 0x3A9, 0x2F7, 0x3F1}, 0},
		{[5]uint16{0x20F, 0x17F, 0x1AF, 0x197, 0x2C3}, 2},
		{[5]uint16{0x159, 0x001, 0x2C9, 0x3B5, 0x2C1}, 2},
		{[5]uint16{0x167, 0x121, 0x11F, 0x121, 0x223}, 2},
		{[5]uint16{0x407, 0x1EF, 0x477, 0x16F, 0x217}, 4},
	}
	for _, c := range cases {
		shift, _ := selectShift(c.window)
		if shift != c.want {
			t.Errorf("selectShift(%v) shift = %d, want %d", c.window, shift, c.want)
		}
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[uint32]uint32{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 256: 256, 257: 512}
	for in, want := range cases {
		if got := nextPow2(in); got != want {
			t.Errorf("nextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}
