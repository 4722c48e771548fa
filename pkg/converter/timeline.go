package converter

import (
	"fmt"

	"github.com/james-see/sp404sx2midi/pkg/sample"
	"github.com/james-see/sp404sx2midi/pkg/sp404"
)

// BuildTimeline scans a pattern's events in file order and produces the
// note list plus the distinct samples it references.
//
// Pitches are assigned by first occurrence: the first distinct sample path
// gets BasePitch, the next unseen one BasePitch+1, and so on. Every
// event's delay advances the cursor exactly once, rests and skipped notes
// included, so removing a missing sample never shifts the rest of the
// timeline. A missing sample is reported and its notes dropped; an
// unresolvable pad reference is fatal.
func BuildTimeline(events []sp404.EventRecord, store sample.Store, format string, rep Reporter) (*Timeline, error) {
	if rep == nil {
		rep = Discard
	}

	tl := &Timeline{}
	pitchByName := make(map[string]int)
	missing := make(map[string]bool)
	nextPitch := BasePitch
	cursor := 0

	for i, ev := range events {
		if !ev.IsRest() {
			idx, err := ev.SampleIndex()
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			name := sp404.PadNumberToFilename(idx, format)

			pitch, seen := pitchByName[name]
			if !seen {
				pitch = nextPitch
				nextPitch++
				pitchByName[name] = pitch
				absent := !store.Exists(name)
				missing[name] = absent
				tl.Samples = append(tl.Samples, SampleRef{
					Index:   idx,
					Name:    name,
					Pitch:   pitch,
					Missing: absent,
				})
			}

			if missing[name] {
				rep.Warnf("event %d: skipping missing sample %s", i, name)
			} else {
				tl.Notes = append(tl.Notes, Note{
					Pitch:       pitch,
					StartTicks:  cursor,
					LengthTicks: int(ev.Length),
				})
			}
		}

		cursor += int(ev.Delay)
	}

	return tl, nil
}
