// Package rawio is the "raw-file library" external collaborator the core
// codec spec leaves out of scope: it opens an RW2 file, walks its TIFF/EXIF
// container to find the embedded compressed sensor strip, and hands the
// compressed byte blob to core.Decode and the CFA pattern to bayer.
//
// RW2 files are TIFF-structured (a standard TIFF header and IFD0 carrying
// the usual EXIF tags plus a handful of Panasonic-private tags that locate
// the raw strip). This package walks the container with
// github.com/rwcarlsen/goexif/tiff for the generic tag access, the way a
// TIFF-based raw-photography tool built in Go typically does, and leans on
// github.com/rwcarlsen/goexif/exif for the handful of standard EXIF fields
// (camera make/model) worth surfacing alongside the strip.
package rawio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/rw2codec/rw2/bayer"
)

// Panasonic-private IFD0 tags used by the RW2 container to locate the raw
// sensor strip. These are not part of the public TIFF/EXIF tag registry;
// values are as reverse-engineered by the dcraw/libopenraw lineage.
const (
	tagSensorWidth     = 0x0002
	tagSensorHeight    = 0x0003
	tagStripOffset     = 0x0118
	tagStripByteCounts = 0x0119
)

// File holds everything core.Decode and bayer.ToRG1B need from an RW2
// container: the compressed sensor strip, its pixel dimensions, and its
// CFA pattern, plus the handful of EXIF fields worth surfacing to a caller.
type File struct {
	Width, Height int
	CFA           bayer.CFAPattern
	Blob          []byte

	Make, Model string
}

// ErrTagNotFound reports a required Panasonic-private tag missing from
// IFD0; this means the file is not an RW2 container this package
// understands, not that the byte blob itself is malformed.
type ErrTagNotFound struct {
	Tag uint16
}

func (e *ErrTagNotFound) Error() string {
	return fmt.Sprintf("rawio: required tag 0x%04x not found in IFD0", e.Tag)
}

// Read opens an RW2 container from r (which must support random access for
// the TIFF strip read) and extracts its compressed sensor strip.
func Read(r io.ReaderAt, size int64) (*File, error) {
	sr := io.NewSectionReader(r, 0, size)

	raw, err := tiff.Decode(sr)
	if err != nil {
		return nil, fmt.Errorf("rawio: decoding TIFF container: %w", err)
	}
	if len(raw.Dirs) == 0 {
		return nil, fmt.Errorf("rawio: TIFF container has no IFDs")
	}
	dir := raw.Dirs[0]

	width, err := tagInt(dir, tagSensorWidth)
	if err != nil {
		return nil, err
	}
	height, err := tagInt(dir, tagSensorHeight)
	if err != nil {
		return nil, err
	}
	offset, err := tagInt(dir, tagStripOffset)
	if err != nil {
		return nil, err
	}
	byteCount, err := tagInt(dir, tagStripByteCounts)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, byteCount)
	if _, err := r.ReadAt(blob, int64(offset)); err != nil {
		return nil, fmt.Errorf("rawio: reading %d-byte strip at offset %d: %w", byteCount, offset, err)
	}

	f := &File{
		Width:  width,
		Height: height,
		CFA:    bayer.GBRG,
		Blob:   blob,
	}

	if x, err := exif.Decode(io.NewSectionReader(r, 0, size)); err == nil {
		if mk, err := x.Get(exif.Make); err == nil {
			f.Make, _ = mk.StringVal()
		}
		if md, err := x.Get(exif.Model); err == nil {
			f.Model, _ = md.StringVal()
		}
	}

	return f, nil
}

// ReadBytes is a convenience wrapper around Read for callers that already
// hold the whole file in memory.
func ReadBytes(data []byte) (*File, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

func tagInt(dir *tiff.Dir, id uint16) (int, error) {
	for _, tag := range dir.Tags {
		if tag.Id != id {
			continue
		}
		v, err := tag.Int(0)
		if err != nil {
			return 0, fmt.Errorf("rawio: tag 0x%04x: %w", id, err)
		}
		return int(v), nil
	}
	return 0, &ErrTagNotFound{Tag: id}
}
