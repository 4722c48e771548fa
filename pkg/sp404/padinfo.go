package sp404

import (
	"errors"
	"fmt"
	"os"
)

// ParsePadTable decodes the contents of PAD_INFO.BIN into one PadRecord per
// pad slot, keyed 1..120 in slot order. The table is exactly 120 consecutive
// 32-byte records from offset 0; a shorter input is fatal.
func ParsePadTable(data []byte) (map[int]PadRecord, error) {
	if len(data) < PadTableSize {
		return nil, &TruncatedFileError{Path: "PAD_INFO.BIN", Size: int64(len(data)), Need: PadTableSize}
	}

	pads := make(map[int]PadRecord, TotalPads)
	for i := 0; i < TotalPads; i++ {
		rec, err := NewRecord(data, i*PadRecordSize, PadRecordSize)
		if err != nil {
			return nil, fmt.Errorf("pad slot %d: %w", i+1, err)
		}
		pads[i+1] = decodePad(rec)
	}
	return pads, nil
}

// ParsePadTableFile reads and decodes the pad table at path.
func ParsePadTableFile(path string) (map[int]PadRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pad table: %w", err)
	}
	pads, err := ParsePadTable(data)
	if err != nil {
		var trunc *TruncatedFileError
		if errors.As(err, &trunc) {
			trunc.Path = path
		}
		return nil, err
	}
	return pads, nil
}

func decodePad(r Record) PadRecord {
	return PadRecord{
		Start:     r.U32(0),
		End:       r.U32(4),
		UserStart: r.U32(8),
		UserEnd:   r.U32(12),
		Volume:    r.U8(16),
		LoFi:      r.Bool(17),
		Loop:      r.Bool(18),
		Gate:      r.Bool(19),
		Reverse:   r.Bool(20),
		Unknown1:  r.U8(21),
		Channels:  r.U8(22),
		TempoMode: r.U8(23),
		Tempo:     r.U32(24),
		UserTempo: r.U32(28),
	}
}
