package sp404

import "encoding/binary"

// Record is a fixed-width big-endian block cut out of a larger device file.
// Accessors index relative to the block start. A Record is only handed out
// by NewRecord, so in-bounds field reads cannot short-read.
type Record struct {
	data []byte
	base int
}

// NewRecord cuts a size-byte block at offset out of data. It fails with a
// DecodeError if the block would run past the end of data.
func NewRecord(data []byte, offset, size int) (Record, error) {
	if offset < 0 || offset+size > len(data) {
		got := len(data) - offset
		if got < 0 {
			got = 0
		}
		return Record{}, &DecodeError{Offset: offset, Want: size, Got: got}
	}
	return Record{data: data[offset : offset+size], base: offset}, nil
}

// Offset returns the block's byte offset in the source file, for diagnostics.
func (r Record) Offset() int { return r.base }

// U8 returns the byte at field offset i.
func (r Record) U8(i int) uint8 { return r.data[i] }

// Bool returns the byte at field offset i as a flag; the device writes 0 or 1.
func (r Record) Bool(i int) bool { return r.data[i] != 0 }

// U16 returns the big-endian 16-bit value at field offset i.
func (r Record) U16(i int) uint16 { return binary.BigEndian.Uint16(r.data[i : i+2]) }

// U32 returns the big-endian 32-bit value at field offset i.
func (r Record) U32(i int) uint32 { return binary.BigEndian.Uint32(r.data[i : i+4]) }
