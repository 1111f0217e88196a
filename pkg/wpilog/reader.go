// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package wpilog implements the WPILOG binary telemetry log format: a
// fixed header, an optional extra header, and a sequence of variable
// width self-delimiting records (C1 Record Reader), each of which is
// either a control record or a typed data record (C2 Record Classifier).
package wpilog

import (
	"encoding/binary"

	"golang.org/x/exp/mmap"

	"github.com/HuskieRobotics/log-analyzer/pkg/log"
)

const (
	minHeaderLen = 12
	minVersion   = 0x0100
	signature    = "WPILOG"
)

// File is a read-only view of one .wpilog file. OpenFile memory-maps the
// file and copies its full contents into buf, which the record iterator
// then reads; the mapping itself is not read again and stays open until
// Close. The bytes are never written to; no internal synchronization is
// needed because a File is only ever read by the single goroutine that
// ingests it (see §5 of the spec this implements).
type File struct {
	ra  *mmap.ReaderAt
	buf []byte
}

// OpenFile memory-maps path and validates the WPILOG header. The caller
// must call Close when done.
func OpenFile(path string) (*File, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, ra.Len())
	if _, err := ra.ReadAt(buf, 0); err != nil {
		ra.Close()
		return nil, err
	}

	if !Validate(buf) {
		ra.Close()
		return nil, ErrInvalidHeader
	}

	return &File{ra: ra, buf: buf}, nil
}

// Close unmaps the backing file.
func (f *File) Close() error {
	return f.ra.Close()
}

// Bytes returns the file's full contents, including the header, as
// copied out of the memory mapping by OpenFile.
func (f *File) Bytes() []byte {
	return f.buf
}

// ExtraHeader returns the file's extra-header string.
func (f *File) ExtraHeader() string {
	return ExtraHeader(f.buf)
}

// Records returns an iterator over the file's records, positioned right
// after the extra header.
func (f *File) Records() *Iterator {
	return Iterate(f.buf)
}

// Validate reports whether buf begins with a well-formed WPILOG header:
// at least 12 bytes, the "WPILOG" signature, and a version >= 0x0100.
func Validate(buf []byte) bool {
	if len(buf) < minHeaderLen {
		return false
	}
	if string(buf[0:6]) != signature {
		return false
	}
	version := binary.LittleEndian.Uint16(buf[6:8])
	return version >= minVersion
}

// ExtraHeader decodes the UTF-8 extra-header string following the fixed
// header. Returns the empty string if buf is too short to contain a
// valid header (callers are expected to have called Validate first).
func ExtraHeader(buf []byte) string {
	if len(buf) < minHeaderLen {
		return ""
	}
	n := binary.LittleEndian.Uint32(buf[8:12])
	end := minHeaderLen + int(n)
	if end > len(buf) {
		log.Warnf("[WPILOG] extra header length %d exceeds buffer", n)
		return string(buf[minHeaderLen:])
	}
	return string(buf[minHeaderLen:end])
}

// RawRecord is one decoded record frame: either a control record
// (Entry == 0) or a data record for the entry identified by Entry.
type RawRecord struct {
	Entry     uint32
	Timestamp uint64 // absolute microseconds
	Payload   []byte
}

// IsControl reports whether this is a control record.
func (r RawRecord) IsControl() bool { return r.Entry == 0 }

// Iterator walks the variable-width framed records in a WPILOG byte
// buffer, starting right after the extra header. It terminates cleanly
// (Next returns a zero RawRecord and false) on a truncated tail rather than raising an
// error — per spec, truncated tails are treated as end of stream.
type Iterator struct {
	buf []byte
	pos int
}

// Iterate returns an Iterator over buf, skipping the fixed header and
// extra header. buf is assumed to have already passed Validate.
func Iterate(buf []byte) *Iterator {
	start := minHeaderLen
	if len(buf) >= minHeaderLen {
		n := binary.LittleEndian.Uint32(buf[8:12])
		start += int(n)
	}
	if start > len(buf) {
		start = len(buf)
	}
	return &Iterator{buf: buf, pos: start}
}

// Next decodes the next record. It returns (record, true) on success,
// or (zero value, false) once the stream is exhausted or the tail is
// truncated (both are treated identically per §4.1).
func (it *Iterator) Next() (RawRecord, bool) {
	buf := it.buf
	pos := it.pos

	if pos >= len(buf) {
		return RawRecord{}, false
	}

	h := buf[pos]
	entryLen := int(h&0x3) + 1
	sizeLen := int((h>>2)&0x3) + 1
	tsLen := int((h>>4)&0x7) + 1

	headerEnd := pos + 1 + entryLen + sizeLen + tsLen
	if headerEnd > len(buf) {
		return RawRecord{}, false
	}

	cursor := pos + 1
	entry := readUintLE(buf[cursor : cursor+entryLen])
	cursor += entryLen
	size := readUintLE(buf[cursor : cursor+sizeLen])
	cursor += sizeLen
	timestamp := readUintLE(buf[cursor : cursor+tsLen])
	cursor += tsLen

	payloadEnd := cursor + int(size)
	if payloadEnd > len(buf) || payloadEnd < cursor {
		return RawRecord{}, false
	}

	rec := RawRecord{
		Entry:     uint32(entry),
		Timestamp: timestamp,
		Payload:   buf[cursor:payloadEnd],
	}
	it.pos = payloadEnd
	return rec, true
}

func readUintLE(b []byte) uint64 {
	var v uint64
	for i, x := range b {
		v |= uint64(x) << (8 * uint(i))
	}
	return v
}
