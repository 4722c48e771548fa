// Package tui provides a terminal user interface for sp404sx2midi
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/sp404sx2midi/pkg/converter"
	"github.com/james-see/sp404sx2midi/pkg/sp404"
)

// SP-404 inspired color scheme (orange on dark)
var (
	spOrange  = lipgloss.Color("#FF6A00")
	spAmber   = lipgloss.Color("#FFB000")
	lightGray = lipgloss.Color("#C0C0C0")
	darkGray  = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(spOrange).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(lightGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(spOrange).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(spAmber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(spOrange).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(spOrange).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateTempo
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	MIDIOnly    bool
}

var menuItems = []MenuItem{
	{Title: "Pattern → MIDI + SF2", Description: "Convert a pattern file to MIDI and a soundfont of its samples"},
	{Title: "Pattern → MIDI", Description: "Convert a pattern file to MIDI only", MIDIOnly: true},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state       State
	menuIndex   int
	filePicker  filepicker.Model
	tempoInput  textinput.Model
	spinner     spinner.Model
	midiOnly    bool
	patternFile string
	patternName string
	sdRoot      string
	result      *converter.Result
	err         error
	width       int
	height      int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	result *converter.Result
	err    error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".BIN", ".bin"}
	fp.CurrentDirectory, _ = os.Getwd()

	ti := textinput.New()
	ti.Placeholder = "120"
	ti.CharLimit = 3
	ti.Width = 6

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(spOrange)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		tempoInput: ti,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle file picker state first - it needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			name, err := sp404.PatternFilenameToName(filepath.Base(path))
			if err != nil {
				m.state = StateResult
				m.err = err
				return m, nil
			}
			m.patternFile = path
			m.patternName = name
			// The pattern lives at <root>/ROLAND/SP-404SX/PTN, so the
			// card root is three levels above its directory.
			m.sdRoot = filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(path))))
			m.state = StateTempo
			m.tempoInput.SetValue("")
			m.tempoInput.Focus()
			return m, textinput.Blink
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateTempo:
			return m.updateTempo(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.result = msg.result
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.midiOnly = menuItems[m.menuIndex].MIDIOnly
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateTempo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		tempo := 120
		if v := strings.TrimSpace(m.tempoInput.Value()); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return m, nil
			}
			tempo = n
		}
		m.state = StateConverting
		return m, tea.Batch(m.spinner.Tick, m.performConversion(tempo))
	}

	var cmd tea.Cmd
	m.tempoInput, cmd = m.tempoInput.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.result = nil
		m.patternFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion(tempo int) tea.Cmd {
	midiOnly := m.midiOnly
	cfg := converter.Config{
		SDRoot:      m.sdRoot,
		PatternName: m.patternName,
		Tempo:       tempo,
	}
	return func() tea.Msg {
		conv := converter.New(cfg)
		conv.SetReporter(converter.Discard)

		var result *converter.Result
		var err error
		if midiOnly {
			result, err = conv.ConvertMIDIOnly()
		} else {
			result, err = conv.Convert()
		}
		return conversionDoneMsg{result: result, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateTempo:
		s.WriteString(m.viewTempo())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT CONVERSION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(spAmber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT PATTERN FILE "))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Pick a PTN#####.BIN file under ROLAND/SP-404SX/PTN on the card"))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewTempo() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" TEMPO "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Pattern %s (%s)\n\n", m.patternName, filepath.Base(m.patternFile)))
	s.WriteString("BPM for the MIDI file: ")
	s.WriteString(m.tempoInput.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: convert • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting pattern %s...\n", m.spinner.View(), m.patternName))
	mode := "MIDI + soundfont"
	if m.midiOnly {
		mode = "MIDI only"
	}
	s.WriteString(statusStyle.Render("  " + mode))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Pattern: %s (%d notes, %d samples)\n", m.result.PatternName, m.result.Notes, m.result.Samples))
		s.WriteString(fmt.Sprintf("MIDI:    %s\n", m.result.MIDIPath))
		if m.result.SF2Path != "" {
			s.WriteString(fmt.Sprintf("SF2:     %s\n", m.result.SF2Path))
		}
		if len(m.result.Skipped) > 0 {
			s.WriteString(statusStyle.Render(fmt.Sprintf("Skipped samples: %s", strings.Join(m.result.Skipped, ", "))))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   ____  ____  _  _    ___  _  _   ____ __  __ ____ ____ ___
  / ___||  _ \| || |  / _ \| || | |___ \|  \/  |_ _|  _ \_ _|
  \___ \| |_) | || |_| | | | || |_  __) | |\/| || || | | | |
   ___) |  __/|__   _| |_| |__   _|/ __/| |  | || || |_| | |
  |____/|_|      |_|  \___/   |_| |_____|_|  |_|___|____/___|
`
	return lipgloss.NewStyle().Foreground(spOrange).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
