// Package main is the entry point for sp404sx2midi CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/james-see/sp404sx2midi/pkg/api"
	"github.com/james-see/sp404sx2midi/pkg/converter"
	"github.com/james-see/sp404sx2midi/pkg/sp404"
	"github.com/james-see/sp404sx2midi/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	tempo        int
	sampleFormat string
	outputDir    string
	workDir      string
	sf2Compiler  string
	showAllPads  bool
	serverPort   int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sp404sx2midi",
	Short: "Convert Roland SP-404SX patterns to MIDI and soundfonts",
	Long: `sp404sx2midi reads the SD card of a Roland SP-404SX sampler and turns
its on-device patterns into standard MIDI files, plus a soundfont built
from the samples each pattern triggers.

Point it at the mounted card root (the directory containing ROLAND/)
and name a pattern by bank letter and number, e.g. A1 or F12.

Examples:
  sp404sx2midi convert /media/SP-404SX A1
  sp404sx2midi midi /media/SP-404SX B3 --tempo 95
  sp404sx2midi pads /media/SP-404SX
  sp404sx2midi pattern /media/SP-404SX/ROLAND/SP-404SX/PTN/PTN00001.BIN
  sp404sx2midi tui
  sp404sx2midi serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <card-root> <pattern>",
	Short: "Convert a pattern to MIDI and a soundfont",
	Long: `Decodes the named pattern, writes PTN_<NAME>.mid, trims the samples the
pattern references and compiles them into PTN_<NAME>.sf2 via an external
soundfont compiler (pysf by default).`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

var midiCmd = &cobra.Command{
	Use:   "midi <card-root> <pattern>",
	Short: "Convert a pattern to MIDI only",
	Args:  cobra.ExactArgs(2),
	RunE:  runMIDI,
}

var padsCmd = &cobra.Command{
	Use:   "pads <card-root>",
	Short: "Show the card's pad configuration table",
	Args:  cobra.ExactArgs(1),
	RunE:  runPads,
}

var patternCmd = &cobra.Command{
	Use:   "pattern <PTN file>",
	Short: "Show the decoded events of a pattern file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPattern,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	for _, cmd := range []*cobra.Command{convertCmd, midiCmd} {
		cmd.Flags().IntVarP(&tempo, "tempo", "t", 120, "Tempo in BPM for the MIDI file")
		cmd.Flags().StringVarP(&sampleFormat, "format", "f", "WAV", "Sample container on the card (WAV or AIFF)")
		cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: current directory)")
	}

	convertCmd.Flags().StringVar(&workDir, "work-dir", "", "Directory for trimmed clips (default: a temp dir)")
	convertCmd.Flags().StringVar(&sf2Compiler, "sf2-compiler", "", "External soundfont compiler command (default: pysf)")

	padsCmd.Flags().BoolVarP(&showAllPads, "all", "a", false, "Include pads with no sample settings")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(midiCmd)
	rootCmd.AddCommand(padsCmd)
	rootCmd.AddCommand(patternCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func newConverter(args []string) *converter.Converter {
	return converter.New(converter.Config{
		SDRoot:       args[0],
		PatternName:  args[1],
		Tempo:        tempo,
		SampleFormat: sampleFormat,
		OutputDir:    outputDir,
		WorkDir:      workDir,
		SF2Compiler:  sf2Compiler,
	})
}

func runConvert(cmd *cobra.Command, args []string) error {
	result, err := newConverter(args).Convert()
	if err != nil {
		return err
	}
	fmt.Println("Conversion complete!")
	if result.SF2Path == "" {
		fmt.Println("No soundfont was produced; see warnings above.")
	}
	return nil
}

func runMIDI(cmd *cobra.Command, args []string) error {
	if _, err := newConverter(args).ConvertMIDIOnly(); err != nil {
		return err
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runPads(cmd *cobra.Command, args []string) error {
	pads, err := sp404.ParsePadTableFile(filepath.Join(args[0], sp404.PadInfoPath))
	if err != nil {
		return err
	}

	nums := make([]int, 0, len(pads))
	for n := range pads {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	fmt.Printf("%-4s %-14s %10s %10s %10s %10s %4s %s\n",
		"PAD", "SAMPLE", "START", "END", "USR START", "USR END", "VOL", "FLAGS")
	shown := 0
	for _, n := range nums {
		p := pads[n]
		if !showAllPads && p.UserEnd == 0 {
			continue
		}
		shown++
		flags := ""
		if p.LoFi {
			flags += "L"
		}
		if p.Loop {
			flags += "O"
		}
		if p.Gate {
			flags += "G"
		}
		if p.Reverse {
			flags += "R"
		}
		fmt.Printf("%-4d %-14s %10d %10d %10d %10d %4d %s\n",
			n, sp404.PadNumberToFilename(n, sampleFormat), p.Start, p.End, p.UserStart, p.UserEnd, p.Volume, flags)
	}
	if shown == 0 {
		fmt.Println("No pads have sample settings; use --all to list every slot.")
	}
	return nil
}

func runPattern(cmd *cobra.Command, args []string) error {
	path := args[0]
	ptn, err := sp404.ParsePatternFile(path)
	if err != nil {
		return err
	}

	if name, err := sp404.PatternFilenameToName(filepath.Base(path)); err == nil {
		fmt.Printf("Pattern %s: %d events, %d bars\n", name, len(ptn.Events), ptn.Trailer.Bars)
	} else {
		fmt.Printf("%d events, %d bars\n", len(ptn.Events), ptn.Trailer.Bars)
	}

	fmt.Printf("%-4s %-6s %-14s %6s %6s %6s\n", "#", "DELAY", "SAMPLE", "VEL", "LEN", "BANKSW")
	for i, ev := range ptn.Events {
		if ev.IsRest() {
			fmt.Printf("%-4d %-6d %-14s\n", i, ev.Delay, "(rest)")
			continue
		}
		name, err := ev.SampleFilename("WAV")
		if err != nil {
			name = fmt.Sprintf("(invalid: %v)", err)
		}
		fmt.Printf("%-4d %-6d %-14s %6d %6d %6d\n", i, ev.Delay, name, ev.Velocity, ev.Length, ev.BankSwitch)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
