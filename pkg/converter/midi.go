package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/sp404sx2midi/pkg/sp404"
)

// noteVelocity is the fixed emission velocity; the device's stored
// per-event velocity byte is decoded but not used for playback.
const noteVelocity = 100

// MIDIWriter renders a Timeline as a standard MIDI file at the device's
// native tick resolution.
type MIDIWriter struct {
	ticksPerQuarter uint16
}

// NewMIDIWriter creates a writer at the SP-404SX resolution of 96 PPQ.
func NewMIDIWriter() *MIDIWriter {
	return &MIDIWriter{ticksPerQuarter: sp404.PPQ}
}

// Generate creates single-track MIDI data from a timeline. Notes may
// overlap, so on/off events are laid out by absolute tick and converted to
// deltas, with note-offs ordered before note-ons at equal ticks.
func (m *MIDIWriter) Generate(tl *Timeline, trackName string, tempo float64) ([]byte, error) {
	if tl == nil {
		return nil, errors.New("nil timeline")
	}
	if tempo <= 0 {
		tempo = 120.0
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track

	if trackName != "" {
		name := []byte(trackName)
		if len(name) > 127 {
			name = name[:127]
		}
		track.Add(0, smf.Message(append([]byte{0xFF, 0x03, byte(len(name))}, name...)))
	}

	// Tempo meta event (FF 51 03 ...)
	microsecondsPerBeat := uint32(60000000.0 / tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))

	type timedEvent struct {
		tick int
		off  bool
		msg  []byte
	}

	channel := uint8(0)
	events := make([]timedEvent, 0, len(tl.Notes)*2)
	for _, note := range tl.Notes {
		key := uint8(note.Pitch)
		events = append(events,
			timedEvent{tick: note.StartTicks, msg: midi.NoteOn(channel, key, noteVelocity)},
			timedEvent{tick: note.StartTicks + note.LengthTicks, off: true, msg: midi.NoteOff(channel, key)},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	currentTick := 0
	for _, ev := range events {
		track.Add(uint32(ev.tick-currentTick), ev.msg)
		currentTick = ev.tick
	}

	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the timeline and writes the MIDI file to filename.
func (m *MIDIWriter) WriteFile(tl *Timeline, trackName string, tempo float64, filename string) error {
	data, err := m.Generate(tl, trackName, tempo)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
