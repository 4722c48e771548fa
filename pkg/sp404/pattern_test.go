package sp404

import (
	"encoding/binary"
	"errors"
	"testing"
)

// eventBytes encodes an EventRecord the way the device stores it.
func eventBytes(e EventRecord) []byte {
	b := make([]byte, EventSize)
	b[0] = e.Delay
	b[1] = e.Pad
	b[2] = e.BankSwitch
	b[3] = e.Unknown2
	b[4] = e.Velocity
	b[5] = e.Unknown3
	binary.BigEndian.PutUint16(b[6:], e.Length)
	return b
}

// patternBytes assembles a pattern file image from events plus a trailer
// with the given bar count.
func patternBytes(events []EventRecord, bars uint8) []byte {
	data := make([]byte, 0, len(events)*EventSize+TrailerSize)
	for _, e := range events {
		data = append(data, eventBytes(e)...)
	}
	trailer := make([]byte, TrailerSize)
	trailer[9] = bars
	return append(data, trailer...)
}

func TestParsePattern(t *testing.T) {
	events := []EventRecord{
		{Delay: 0, Pad: 47, BankSwitch: 0, Velocity: 127, Length: 96},
		{Delay: 48, Pad: RestPad},
		{Delay: 0, Pad: 47, BankSwitch: 65, Velocity: 100, Length: 192},
	}
	data := patternBytes(events, 2)

	ptn, err := ParsePattern(data)
	if err != nil {
		t.Fatalf("ParsePattern() error = %v", err)
	}

	wantCount := len(data)/EventSize - 2
	if len(ptn.Events) != wantCount {
		t.Fatalf("ParsePattern() decoded %d events, want %d", len(ptn.Events), wantCount)
	}
	for i, want := range events {
		if ptn.Events[i] != want {
			t.Errorf("event %d = %+v, want %+v", i, ptn.Events[i], want)
		}
	}
	if !ptn.Events[1].IsRest() {
		t.Error("event 1 should be a rest")
	}
	if ptn.Trailer.Bars != 2 {
		t.Errorf("trailer bar count = %d, want 2", ptn.Trailer.Bars)
	}
}

func TestParsePatternEmpty(t *testing.T) {
	// A pattern holding nothing but the trailer is valid and has no events.
	ptn, err := ParsePattern(make([]byte, TrailerSize))
	if err != nil {
		t.Fatalf("ParsePattern() error = %v", err)
	}
	if len(ptn.Events) != 0 {
		t.Errorf("ParsePattern() decoded %d events, want 0", len(ptn.Events))
	}
}

func TestParsePatternTruncated(t *testing.T) {
	_, err := ParsePattern(make([]byte, TrailerSize-1))
	if err == nil {
		t.Fatal("ParsePattern() expected error for short file, got nil")
	}
	var trunc *TruncatedFileError
	if !errors.As(err, &trunc) {
		t.Errorf("ParsePattern() error = %v, want TruncatedFileError", err)
	}
}

func TestNewRecordBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	rec, err := NewRecord(data, 0, 4)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	if got := rec.U16(0); got != 0x0102 {
		t.Errorf("U16(0) = 0x%04X, want 0x0102", got)
	}
	if got := rec.U32(0); got != 0x01020304 {
		t.Errorf("U32(0) = 0x%08X, want 0x01020304", got)
	}

	_, err = NewRecord(data, 2, 4)
	if err == nil {
		t.Fatal("NewRecord() past end expected error, got nil")
	}
	var dec *DecodeError
	if !errors.As(err, &dec) {
		t.Fatalf("NewRecord() error = %v, want DecodeError", err)
	}
	if dec.Offset != 2 || dec.Want != 4 || dec.Got != 2 {
		t.Errorf("DecodeError = %+v, want offset 2, want 4, got 2", dec)
	}
}
