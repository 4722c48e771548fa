package soundfont

import (
	"path/filepath"
	"strings"
)

// Clip is one trimmed mono sample assigned to a pitch.
type Clip struct {
	Pitch int
	Name  string // wavetable name, e.g. "A0000001"
	File  string // path to the trimmed mono WAV
}

// Assemble builds a single-instrument document: one zone per clip covering
// exactly its assigned pitch, non-looping, plus one preset on bank 128
// exposing the instrument across keyRange. keyRange spans the full assigned
// pitch range even when clips for some pitches are absent, so zone keys for
// missing samples stay reserved.
func Assemble(name, date string, clips []Clip, keyRange KeyRange) *Document {
	instrument := Instrument{ID: 1, Name: name}
	wavetables := make([]Wavetable, 0, len(clips))

	for i, clip := range clips {
		id := i + 1
		instrument.Zones = append(instrument.Zones, InstrumentZone{
			KeyRange:    KeyRange{Begin: clip.Pitch, End: clip.Pitch},
			RootKey:     clip.Pitch,
			SampleModes: "0_LoopNone",
			WavetableID: id,
		})
		wavetables = append(wavetables, Wavetable{
			File: clip.File,
			ID:   id,
			Loop: Loop{Begin: 1, End: 1},
			Name: wavetableName(clip),
		})
	}

	preset := Preset{
		Bank: 128,
		ID:   1,
		Name: name,
		Zones: []PresetZone{
			{InstrumentID: 1, KeyRange: keyRange},
		},
	}

	return &Document{
		SFNamespace:    ".",
		XSINamespace:   "http://www.w3.org/2001/XMLSchema-instance",
		Version:        "3",
		SchemaLocation: ".",
		SF2: SF2{
			CreationDate: date,
			FileVersion:  FileVersion{Major: 2, Minor: 1},
			Name:         "PySF",
			Product:      "SBAWE32",
			Software:     "PySF",
			Engine:       "PySF",
			Instruments:  []Instrument{instrument},
			Presets:      []Preset{preset},
			Wavetables:   wavetables,
		},
	}
}

func wavetableName(clip Clip) string {
	if clip.Name != "" {
		return clip.Name
	}
	base := filepath.Base(clip.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
