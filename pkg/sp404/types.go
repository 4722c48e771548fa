// Package sp404 decodes the on-card binary formats of the Roland SP-404SX
// sampler: the per-pad configuration table and the per-pattern event sequence.
package sp404

// Card layout constants
const (
	TotalBanks  = 10
	PadsPerBank = 12
	TotalPads   = TotalBanks * PadsPerBank

	PadRecordSize = 32
	PadTableSize  = TotalPads * PadRecordSize

	EventSize   = 8
	TrailerSize = 16

	// RestPad marks an event slot that carries only a delay.
	RestPad = 128

	// PPQ is the device's fixed timing resolution in ticks per quarter note.
	PPQ = 96
)

// Paths relative to the SD card root
const (
	PadInfoPath      = "ROLAND/SP-404SX/SMPL/PAD_INFO.BIN"
	PatternDirectory = "ROLAND/SP-404SX/PTN"
	SampleDirectory  = "ROLAND/SP-404SX/SMPL"
)

// PadRecord is one 32-byte entry of PAD_INFO.BIN. Start/End and the user
// trim markers are byte offsets into the pad's sample file, including its
// 512-byte header.
type PadRecord struct {
	Start     uint32
	End       uint32
	UserStart uint32
	UserEnd   uint32
	Volume    uint8
	LoFi      bool
	Loop      bool
	Gate      bool
	Reverse   bool
	Unknown1  uint8
	Channels  uint8
	TempoMode uint8
	Tempo     uint32
	UserTempo uint32
}

// EventRecord is one 8-byte step of a pattern file. Pad is the raw
// offset-encoded pad reference; see EventSampleIndex for resolution.
type EventRecord struct {
	Delay      uint8
	Pad        uint8
	BankSwitch uint8
	Unknown2   uint8
	Velocity   uint8
	Unknown3   uint8
	Length     uint16
}

// IsRest reports whether the event triggers no pad and only consumes time.
func (e EventRecord) IsRest() bool {
	return e.Pad == RestPad
}

// PatternTrailer is the final 16 bytes of a pattern file. Only the bar
// count at byte 9 has a known meaning; it is informational and never
// validated against the event total.
type PatternTrailer struct {
	Raw  [TrailerSize]byte
	Bars uint8
}

// Pattern is a fully decoded pattern file.
type Pattern struct {
	Events  []EventRecord
	Trailer PatternTrailer
}
