package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/james-see/sp404sx2midi/pkg/sample"
	"github.com/james-see/sp404sx2midi/pkg/soundfont"
	"github.com/james-see/sp404sx2midi/pkg/sp404"
)

// Converter runs the pattern-to-artifacts pipeline for one configuration.
// The pipeline is a single linear pass: parse the pad table and pattern,
// resolve events, build the timeline, trim the referenced samples, assemble
// the instrument document and emit the artifacts. Any fatal error aborts
// the run; recovered conditions go through the Reporter.
type Converter struct {
	cfg      Config
	reporter Reporter
	compiler soundfont.Compiler
}

// New creates a Converter with a console reporter and the configured
// external soundfont compiler.
func New(cfg Config) *Converter {
	return &Converter{
		cfg:      cfg,
		reporter: NewConsoleReporter(),
		compiler: soundfont.ExecCompiler{Command: cfg.SF2Compiler},
	}
}

// SetReporter replaces the progress/diagnostics sink.
func (c *Converter) SetReporter(r Reporter) {
	if r == nil {
		r = Discard
	}
	c.reporter = r
}

// SetCompiler replaces the external soundfont compiler collaborator.
func (c *Converter) SetCompiler(comp soundfont.Compiler) {
	c.compiler = comp
}

// Result summarizes one pipeline run.
type Result struct {
	PatternName string
	MIDIPath    string
	SF2Path     string   // empty when no soundfont was produced
	Notes       int
	Samples     int      // distinct samples referenced by the pattern
	Skipped     []string // referenced samples dropped from the output
	Bars        uint8    // trailer bar count, informational
}

// Convert produces both the MIDI file and the soundfont.
func (c *Converter) Convert() (*Result, error) {
	return c.run(true)
}

// ConvertMIDIOnly produces just the MIDI file.
func (c *Converter) ConvertMIDIOnly() (*Result, error) {
	return c.run(false)
}

func (c *Converter) run(withSoundfont bool) (*Result, error) {
	name := strings.ToUpper(strings.TrimSpace(c.cfg.PatternName))
	format := c.cfg.SampleFormat
	if format == "" {
		format = "WAV"
	}
	date := time.Now().Format("2006-01-02")

	pads, err := sp404.ParsePadTableFile(filepath.Join(c.cfg.SDRoot, sp404.PadInfoPath))
	if err != nil {
		return nil, err
	}

	filename, err := sp404.PatternNameToFilename(name)
	if err != nil {
		return nil, err
	}
	ptn, err := sp404.ParsePatternFile(filepath.Join(c.cfg.SDRoot, sp404.PatternDirectory, filename))
	if err != nil {
		return nil, err
	}
	c.reporter.Infof("pattern %s (%s): %d events, %d bars", name, filename, len(ptn.Events), ptn.Trailer.Bars)

	store := sample.DirStore{Root: filepath.Join(c.cfg.SDRoot, sp404.SampleDirectory)}
	tl, err := BuildTimeline(ptn.Events, store, format, c.reporter)
	if err != nil {
		return nil, err
	}

	result := &Result{
		PatternName: name,
		Notes:       len(tl.Notes),
		Samples:     len(tl.Samples),
		Bars:        ptn.Trailer.Bars,
	}

	trackName := fmt.Sprintf("Roland SP404SX Pattern %s %s", name, date)
	result.MIDIPath = filepath.Join(c.cfg.OutputDir, "PTN_"+name+".mid")
	if err := NewMIDIWriter().WriteFile(tl, trackName, float64(c.cfg.Tempo), result.MIDIPath); err != nil {
		return nil, fmt.Errorf("failed to write MIDI file: %w", err)
	}
	c.reporter.Infof("wrote %s (%d notes)", result.MIDIPath, result.Notes)

	if withSoundfont {
		if err := c.buildSoundfont(name, date, pads, tl, store, format, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (c *Converter) buildSoundfont(name, date string, pads map[int]sp404.PadRecord, tl *Timeline, store sample.Store, format string, result *Result) error {
	workDir := c.cfg.WorkDir
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "sp404sx2midi-")
		if err != nil {
			return fmt.Errorf("failed to create work directory: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		workDir = tmp
	}

	var clips []soundfont.Clip
	for _, ref := range tl.Samples {
		if ref.Missing {
			result.Skipped = append(result.Skipped, ref.Name)
			continue
		}

		start, end, err := sp404.TrimFrames(pads[ref.Index])
		if err != nil {
			c.reporter.Warnf("sample %s: %v; dropping zone", ref.Name, err)
			result.Skipped = append(result.Skipped, ref.Name)
			continue
		}

		clip, err := sample.Trim(store, ref.Name, format, start, end)
		if err != nil {
			c.reporter.Warnf("%v; dropping zone", err)
			result.Skipped = append(result.Skipped, ref.Name)
			continue
		}

		clipPath := filepath.Join(workDir, fmt.Sprintf("key%03d.wav", ref.Pitch))
		if err := sample.WriteWAV(clipPath, clip); err != nil {
			return err
		}
		clips = append(clips, soundfont.Clip{
			Pitch: ref.Pitch,
			Name:  strings.TrimSuffix(ref.Name, filepath.Ext(ref.Name)),
			File:  clipPath,
		})
	}

	if len(clips) == 0 {
		c.reporter.Warnf("no usable samples; skipping soundfont")
		return nil
	}

	low, high := tl.PitchRange()
	doc := soundfont.Assemble("PTN_"+name+" "+date, date, clips, soundfont.KeyRange{Begin: low, End: high})

	docPath := filepath.Join(workDir, "instrument.xml")
	if err := doc.WriteFile(docPath); err != nil {
		return err
	}

	sf2Path := filepath.Join(c.cfg.OutputDir, "PTN_"+name+".sf2")
	if err := c.compiler.Compile(docPath, sf2Path); err != nil {
		return err
	}
	result.SF2Path = sf2Path
	c.reporter.Infof("wrote %s (%d zones)", sf2Path, len(clips))
	return nil
}
