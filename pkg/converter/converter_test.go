package converter

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"

	"github.com/james-see/sp404sx2midi/pkg/sample"
	"github.com/james-see/sp404sx2midi/pkg/sp404"
)

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

// cardPad encodes one pad table entry with the given user trim markers.
func cardPad(userStart, userEnd uint32) []byte {
	b := make([]byte, sp404.PadRecordSize)
	binary.BigEndian.PutUint32(b[8:], userStart)
	binary.BigEndian.PutUint32(b[12:], userEnd)
	b[16] = 127 // volume
	b[22] = 1   // channels
	return b
}

func cardEvent(delay, pad, bankSwitch, velocity uint8, length uint16) []byte {
	b := make([]byte, sp404.EventSize)
	b[0] = delay
	b[1] = pad
	b[2] = bankSwitch
	b[4] = velocity
	binary.BigEndian.PutUint16(b[6:], length)
	return b
}

func cardPattern(bars uint8, events ...[]byte) []byte {
	var buf bytes.Buffer
	for _, ev := range events {
		buf.Write(ev)
	}
	trailer := make([]byte, sp404.TrailerSize)
	trailer[9] = bars
	buf.Write(trailer)
	return buf.Bytes()
}

// writeCard lays out a minimal SD card image: a pad table where pad 1 trims
// sample A0000001.WAV to frames [10, 50), that sample (mono, 100 frames,
// value = frame * 10), and two patterns. A1 plays pads 47 and 48 on bank
// switch 0; the pad 48 sample is deliberately absent. B1 references only
// the absent sample.
func writeCard(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	smplDir := filepath.Join(root, sp404.SampleDirectory)
	ptnDir := filepath.Join(root, sp404.PatternDirectory)
	for _, dir := range []string{smplDir, ptnDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	table := make([]byte, 0, sp404.PadTableSize)
	table = append(table, cardPad(512+2*10, 512+2*50)...)
	for i := 1; i < sp404.TotalPads; i++ {
		table = append(table, make([]byte, sp404.PadRecordSize)...)
	}
	if err := os.WriteFile(filepath.Join(root, sp404.PadInfoPath), table, 0644); err != nil {
		t.Fatalf("failed to write pad table: %v", err)
	}

	frames := make([]int, 100)
	for i := range frames {
		frames[i] = i * 10
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 44100},
		Data:           frames,
		SourceBitDepth: 16,
	}
	if err := sample.WriteWAV(filepath.Join(smplDir, "A0000001.WAV"), buf); err != nil {
		t.Fatalf("failed to write sample: %v", err)
	}

	a1 := cardPattern(1,
		cardEvent(0, 47, 0, 127, 96),
		cardEvent(48, 48, 0, 127, 96),
		cardEvent(0, 47, 0, 127, 192),
		cardEvent(48, sp404.RestPad, 0, 0, 0),
	)
	if err := os.WriteFile(filepath.Join(ptnDir, "PTN00001.BIN"), a1, 0644); err != nil {
		t.Fatalf("failed to write pattern: %v", err)
	}

	b1 := cardPattern(1, cardEvent(0, 48, 0, 127, 96))
	if err := os.WriteFile(filepath.Join(ptnDir, "PTN00013.BIN"), b1, 0644); err != nil {
		t.Fatalf("failed to write pattern: %v", err)
	}

	return root
}

type fakeCompiler struct {
	called  bool
	docPath string
	outPath string
	doc     []byte
}

func (f *fakeCompiler) Compile(docPath, outPath string) error {
	f.called = true
	f.docPath = docPath
	f.outPath = outPath
	data, err := os.ReadFile(docPath)
	if err != nil {
		return err
	}
	f.doc = data
	return os.WriteFile(outPath, []byte("sf2"), 0644)
}

func TestConvert(t *testing.T) {
	root := writeCard(t)
	workDir := t.TempDir()
	outDir := t.TempDir()

	conv := New(Config{
		SDRoot:      root,
		PatternName: "A1",
		Tempo:       120,
		OutputDir:   outDir,
		WorkDir:     workDir,
	})
	conv.SetReporter(Discard)
	comp := &fakeCompiler{}
	conv.SetCompiler(comp)

	result, err := conv.Convert()
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if result.PatternName != "A1" {
		t.Errorf("PatternName = %q, want A1", result.PatternName)
	}
	if result.Notes != 2 {
		t.Errorf("Notes = %d, want 2", result.Notes)
	}
	if result.Samples != 2 {
		t.Errorf("Samples = %d, want 2", result.Samples)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "A0000002.WAV" {
		t.Errorf("Skipped = %v, want [A0000002.WAV]", result.Skipped)
	}
	if result.Bars != 1 {
		t.Errorf("Bars = %d, want 1", result.Bars)
	}

	midi := mustRead(t, result.MIDIPath)
	if !bytes.HasPrefix(midi, []byte("MThd")) {
		t.Error("MIDI output missing MThd header")
	}

	if !comp.called {
		t.Fatal("soundfont compiler was not invoked")
	}
	if filepath.Base(result.SF2Path) != "PTN_A1.sf2" {
		t.Errorf("SF2Path = %q, want PTN_A1.sf2 in output dir", result.SF2Path)
	}
	if _, err := os.Stat(result.SF2Path); err != nil {
		t.Errorf("soundfont output missing: %v", err)
	}

	doc := string(comp.doc)
	for _, want := range []string{"key036.wav", "overridingRootKey", "PTN_A1"} {
		if !strings.Contains(doc, want) {
			t.Errorf("instrument document missing %q", want)
		}
	}

	// The trimmed clip is pad 1's window [10, 50): 40 mono frames starting
	// at value 100.
	clip, err := sample.Trim(sample.DirStore{Root: workDir}, "key036.wav", "WAV", 0, 40)
	if err != nil {
		t.Fatalf("failed to read back clip: %v", err)
	}
	if len(clip.Data) != 40 {
		t.Fatalf("clip has %d frames, want 40", len(clip.Data))
	}
	if clip.Data[0] != 100 || clip.Data[39] != 490 {
		t.Errorf("clip window = [%d..%d], want [100..490]", clip.Data[0], clip.Data[39])
	}
}

func TestConvertMIDIOnly(t *testing.T) {
	root := writeCard(t)
	outDir := t.TempDir()

	conv := New(Config{SDRoot: root, PatternName: "a1", Tempo: 90, OutputDir: outDir})
	conv.SetReporter(Discard)
	comp := &fakeCompiler{}
	conv.SetCompiler(comp)

	result, err := conv.ConvertMIDIOnly()
	if err != nil {
		t.Fatalf("ConvertMIDIOnly() error = %v", err)
	}
	if result.PatternName != "A1" {
		t.Errorf("PatternName = %q, want A1 (uppercased)", result.PatternName)
	}
	if comp.called {
		t.Error("soundfont compiler invoked for MIDI-only run")
	}
	if result.SF2Path != "" {
		t.Errorf("SF2Path = %q, want empty", result.SF2Path)
	}
	if _, err := os.Stat(result.MIDIPath); err != nil {
		t.Errorf("MIDI output missing: %v", err)
	}
}

func TestConvertNoUsableSamples(t *testing.T) {
	// Pattern B1 only references the absent sample: the MIDI file is still
	// written (empty) and the soundfont stage is skipped without error.
	root := writeCard(t)
	outDir := t.TempDir()

	conv := New(Config{SDRoot: root, PatternName: "B1", Tempo: 120, OutputDir: outDir})
	conv.SetReporter(Discard)
	comp := &fakeCompiler{}
	conv.SetCompiler(comp)

	result, err := conv.Convert()
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.Notes != 0 {
		t.Errorf("Notes = %d, want 0", result.Notes)
	}
	if comp.called {
		t.Error("soundfont compiler invoked with no usable samples")
	}
	if result.SF2Path != "" {
		t.Errorf("SF2Path = %q, want empty", result.SF2Path)
	}
}

func TestConvertUnknownPattern(t *testing.T) {
	root := writeCard(t)

	conv := New(Config{SDRoot: root, PatternName: "C3", Tempo: 120, OutputDir: t.TempDir()})
	conv.SetReporter(Discard)

	if _, err := conv.Convert(); err == nil {
		t.Error("Convert() expected error for pattern with no file, got nil")
	}
}

func TestConvertBadPatternName(t *testing.T) {
	root := writeCard(t)

	conv := New(Config{SDRoot: root, PatternName: "Z9", Tempo: 120})
	conv.SetReporter(Discard)

	if _, err := conv.Convert(); err == nil {
		t.Error("Convert() expected error for invalid bank letter, got nil")
	}
}
