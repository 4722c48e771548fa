package converter

import (
	"bytes"
	"path/filepath"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/sp404sx2midi/pkg/sp404"
)

type parsedNote struct {
	tick int64
	note uint8
	on   bool
}

// readNotes parses generated MIDI data back and returns note on/off events
// at absolute ticks, plus the tempo found in the track.
func readNotes(t *testing.T, data []byte) ([]parsedNote, float64) {
	t.Helper()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to parse generated MIDI: %v", err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("generated MIDI has %d tracks, want 1", len(s.Tracks))
	}

	var notes []parsedNote
	tempo := 0.0
	var currentTick int64
	for _, ev := range s.Tracks[0] {
		currentTick += int64(ev.Delta)
		msg := ev.Message

		if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
			microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
			if microsecondsPerBeat > 0 {
				tempo = 60000000.0 / float64(microsecondsPerBeat)
			}
			continue
		}

		if len(msg) >= 3 {
			status := msg[0]
			switch {
			case status >= 0x90 && status <= 0x9F && msg[2] > 0:
				notes = append(notes, parsedNote{tick: currentTick, note: msg[1], on: true})
			case status >= 0x80 && status <= 0x8F,
				status >= 0x90 && status <= 0x9F && msg[2] == 0:
				notes = append(notes, parsedNote{tick: currentTick, note: msg[1], on: false})
			}
		}
	}
	return notes, tempo
}

func TestGenerate(t *testing.T) {
	tl := &Timeline{
		Notes: []Note{
			{Pitch: 36, StartTicks: 0, LengthTicks: 96},
			{Pitch: 37, StartTicks: 48, LengthTicks: 96},
		},
	}

	data, err := NewMIDIWriter().Generate(tl, "Test Pattern", 120.0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Error("generated data missing MThd header")
	}
	if !bytes.Contains(data, []byte("Test Pattern")) {
		t.Error("generated data missing track name")
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to parse generated MIDI: %v", err)
	}
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		t.Fatalf("time format = %T, want metric ticks", s.TimeFormat)
	}
	if mt.Resolution() != sp404.PPQ {
		t.Errorf("resolution = %d ticks per quarter, want %d", mt.Resolution(), sp404.PPQ)
	}

	notes, tempo := readNotes(t, data)
	want := []parsedNote{
		{tick: 0, note: 36, on: true},
		{tick: 48, note: 37, on: true},
		{tick: 96, note: 36, on: false},
		{tick: 144, note: 37, on: false},
	}
	if len(notes) != len(want) {
		t.Fatalf("parsed %d note events, want %d", len(notes), len(want))
	}
	for i, w := range want {
		if notes[i] != w {
			t.Errorf("event %d = %+v, want %+v", i, notes[i], w)
		}
	}
	if tempo < 119.9 || tempo > 120.1 {
		t.Errorf("tempo = %v, want 120", tempo)
	}
}

func TestGenerateOffBeforeOnAtSameTick(t *testing.T) {
	// Back-to-back notes on the same pitch: the first note's off must land
	// before the second note's on so the second note is not silenced.
	tl := &Timeline{
		Notes: []Note{
			{Pitch: 36, StartTicks: 0, LengthTicks: 96},
			{Pitch: 36, StartTicks: 96, LengthTicks: 96},
		},
	}

	data, err := NewMIDIWriter().Generate(tl, "", 90.0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	notes, _ := readNotes(t, data)
	want := []parsedNote{
		{tick: 0, note: 36, on: true},
		{tick: 96, note: 36, on: false},
		{tick: 96, note: 36, on: true},
		{tick: 192, note: 36, on: false},
	}
	if len(notes) != len(want) {
		t.Fatalf("parsed %d note events, want %d", len(notes), len(want))
	}
	for i, w := range want {
		if notes[i] != w {
			t.Errorf("event %d = %+v, want %+v", i, notes[i], w)
		}
	}
}

func TestGenerateNilTimeline(t *testing.T) {
	if _, err := NewMIDIWriter().Generate(nil, "", 120.0); err == nil {
		t.Error("Generate(nil) expected error, got nil")
	}
}

func TestGenerateEmptyTimeline(t *testing.T) {
	data, err := NewMIDIWriter().Generate(&Timeline{}, "Empty", 120.0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Error("generated data missing MThd header")
	}
}

func TestWriteFile(t *testing.T) {
	tl := &Timeline{
		Notes: []Note{{Pitch: 36, StartTicks: 0, LengthTicks: 96}},
	}

	path := filepath.Join(t.TempDir(), "out.mid")
	if err := NewMIDIWriter().WriteFile(tl, "Pattern A1", 120.0, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := smf.ReadFrom(bytes.NewReader(mustRead(t, path)))
	if err != nil {
		t.Fatalf("failed to parse written MIDI: %v", err)
	}
	if len(s.Tracks) != 1 {
		t.Errorf("written MIDI has %d tracks, want 1", len(s.Tracks))
	}
}
