package sp404

import (
	"errors"
	"fmt"
	"os"
)

// ParsePattern decodes the contents of one PTN#####.BIN file. The event
// count is derived from the file size: every 8-byte block is an event
// except the final 16 bytes, which form the trailer. A file too small to
// hold even the trailer is fatal.
func ParsePattern(data []byte) (*Pattern, error) {
	if len(data) < TrailerSize {
		return nil, &TruncatedFileError{Path: "pattern", Size: int64(len(data)), Need: TrailerSize}
	}

	count := len(data)/EventSize - 2
	events := make([]EventRecord, 0, count)
	for i := 0; i < count; i++ {
		rec, err := NewRecord(data, i*EventSize, EventSize)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, decodeEvent(rec))
	}

	var trailer PatternTrailer
	copy(trailer.Raw[:], data[len(data)-TrailerSize:])
	trailer.Bars = trailer.Raw[9]

	return &Pattern{Events: events, Trailer: trailer}, nil
}

// ParsePatternFile reads and decodes the pattern file at path.
func ParsePatternFile(path string) (*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}
	ptn, err := ParsePattern(data)
	if err != nil {
		var trunc *TruncatedFileError
		if errors.As(err, &trunc) {
			trunc.Path = path
		}
		return nil, err
	}
	return ptn, nil
}

func decodeEvent(r Record) EventRecord {
	return EventRecord{
		Delay:      r.U8(0),
		Pad:        r.U8(1),
		BankSwitch: r.U8(2),
		Unknown2:   r.U8(3),
		Velocity:   r.U8(4),
		Unknown3:   r.U8(5),
		Length:     r.U16(6),
	}
}
