// Package converter turns decoded SP-404SX patterns into a MIDI timeline
// and a soundfont instrument definition.
package converter

import (
	"fmt"
	"os"

	"github.com/james-see/sp404sx2midi/pkg/sp404"
)

// BasePitch is the MIDI note assigned to the first distinct sample a
// pattern references (C1); later samples count up from here.
const BasePitch = 36

// Config is the immutable configuration for one pipeline run.
type Config struct {
	SDRoot       string // path to the top level of the card, e.g. /media/SP-404SX
	PatternName  string // bank letter + pattern number, e.g. "A1"
	Tempo        int    // beats per minute for the MIDI tempo meta event
	SampleFormat string // sample container extension on the card: WAV or AIFF
	OutputDir    string // where PTN_<NAME>.mid / .sf2 are written; empty = cwd
	WorkDir      string // where trimmed clips go; empty = a fresh temp dir
	SF2Compiler  string // external soundfont compiler command; empty = pysf
}

// Note is one emitted timeline entry. Times are exact device ticks
// (PPQ 96); the beat accessors divide out the resolution.
type Note struct {
	Pitch       int
	StartTicks  int
	LengthTicks int
}

func (n Note) StartBeats() float64 { return float64(n.StartTicks) / sp404.PPQ }

func (n Note) DurationBeats() float64 { return float64(n.LengthTicks) / sp404.PPQ }

// SampleRef is one distinct sample a pattern references, in
// first-occurrence order. Missing is set when the sample file is absent
// from storage; its pitch stays assigned but no notes or zones are emitted
// for it.
type SampleRef struct {
	Index   int    // logical sample number 1..120
	Name    string // filename on the card, e.g. "A0000001.WAV"
	Pitch   int
	Missing bool
}

// Timeline is the ordered result of scanning a pattern's events.
type Timeline struct {
	Notes   []Note
	Samples []SampleRef
}

// PitchRange returns the assigned pitch range [BasePitch, BasePitch+N-1],
// or (0, 0) when the pattern references no samples.
func (t *Timeline) PitchRange() (low, high int) {
	if len(t.Samples) == 0 {
		return 0, 0
	}
	return BasePitch, BasePitch + len(t.Samples) - 1
}

// Reporter receives pipeline progress and recovered-error diagnostics.
// Fatal conditions are returned as errors instead.
type Reporter interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// NewConsoleReporter returns a Reporter printing info to stdout and
// warnings to stderr.
func NewConsoleReporter() Reporter { return consoleReporter{} }

type consoleReporter struct{}

func (consoleReporter) Infof(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

func (consoleReporter) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// Discard is a Reporter that drops everything.
var Discard Reporter = discardReporter{}

type discardReporter struct{}

func (discardReporter) Infof(string, ...any) {}
func (discardReporter) Warnf(string, ...any) {}
