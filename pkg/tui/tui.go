// Package tui provides a terminal user interface for tonal
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
	"github.com/thorwhalen/tonal/pkg/chords"
	"github.com/thorwhalen/tonal/pkg/converter"
	"github.com/thorwhalen/tonal/pkg/converter/engines"
	"github.com/thorwhalen/tonal/pkg/scale"
)

// Manuscript-inspired color scheme
var (
	inkBlue    = lipgloss.Color("#5FAFFF")
	staveGold  = lipgloss.Color("#FFD700")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(inkBlue).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(staveGold).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(inkBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateChordInput
	StateTranslateInput
	StateFilePicker
	StateWorking
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	State       State
	FromFormat  string
	ToFormat    string
}

var menuItems = []MenuItem{
	{Title: "Chords → MIDI", Description: "Render a chord progression (e.g. Cmaj7 Dm7:480 G7) to a MIDI file", State: StateChordInput},
	{Title: "Translate motif", Description: "Shift a melodic line by N scale steps within a scale", State: StateTranslateInput},
	{Title: "MusicXML → MIDI", Description: "Convert a MusicXML score to a MIDI file", State: StateFilePicker, FromFormat: "musicxml", ToFormat: "midi"},
	{Title: "MIDI → WAV", Description: "Synthesize a MIDI file to audio via fluidsynth", State: StateFilePicker, FromFormat: "midi", ToFormat: "wav"},
	{Title: "Image → MusicXML", Description: "Transcribe a score image to MusicXML via OCR", State: StateFilePicker, FromFormat: "image", ToFormat: "musicxml"},
	{Title: "Exit", Description: "Exit the application"},
}

// translate form field order: notes, steps, tonic, scale
const translateFields = 4

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	chordInput   textinput.Model
	translate    [translateFields]textinput.Model
	focusIndex   int
	selectedFile string
	output       string
	action       MenuItem
	err          error
	width        int
	height       int
}

// workDoneMsg signals completion of a rendering, translation or conversion
type workDoneMsg struct {
	output string
	err    error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	// Initialize file picker
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi", ".xml", ".musicxml", ".png", ".jpg", ".jpeg"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(inkBlue)

	// Chord progression input
	ci := textinput.New()
	ci.Placeholder = "Cmaj7 Dm7:480 G7 C"
	ci.CharLimit = 256
	ci.Width = 48

	// Translate form inputs
	var tr [translateFields]textinput.Model
	placeholders := [translateFields]string{"C4 E4 B3 C4", "-2 or 0 1 2", "C", "major"}
	for i := range tr {
		tr[i] = textinput.New()
		tr[i].Placeholder = placeholders[i]
		tr[i].CharLimit = 128
		tr[i].Width = 40
	}

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		chordInput: ci,
		translate:  tr,
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
			m.selectedFile = path
			m.state = StateWorking
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
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
		case StateChordInput:
			return m.updateChordInput(msg)
		case StateTranslateInput:
			return m.updateTranslateInput(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case workDoneMsg:
		m.state = StateResult
		m.output = msg.output
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
		m.action = menuItems[m.menuIndex]
		m.state = m.action.State

		switch m.action.State {
		case StateChordInput:
			m.chordInput.Focus()
			return m, textinput.Blink
		case StateTranslateInput:
			m.focusIndex = 0
			m.translate[0].Focus()
			return m, textinput.Blink
		case StateFilePicker:
			switch m.action.FromFormat {
			case "midi":
				m.filePicker.AllowedTypes = []string{".mid", ".midi"}
			case "musicxml":
				m.filePicker.AllowedTypes = []string{".xml", ".musicxml"}
			case "image":
				m.filePicker.AllowedTypes = []string{".png", ".jpg", ".jpeg"}
			}
			return m, m.filePicker.Init()
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateChordInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.chordInput.Blur()
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.chordInput.Blur()
		m.state = StateWorking
		return m, tea.Batch(m.spinner.Tick, m.performChords(m.chordInput.Value()))
	}
	var cmd tea.Cmd
	m.chordInput, cmd = m.chordInput.Update(msg)
	return m, cmd
}

func (m Model) updateTranslateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.translate[m.focusIndex].Blur()
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		return m.cycleTranslateFocus(1)
	case "shift+tab", "up":
		return m.cycleTranslateFocus(-1)
	case "enter":
		if m.focusIndex < translateFields-1 {
			return m.cycleTranslateFocus(1)
		}
		m.translate[m.focusIndex].Blur()
		m.state = StateWorking
		return m, tea.Batch(m.spinner.Tick, m.performTranslate())
	}
	var cmd tea.Cmd
	m.translate[m.focusIndex], cmd = m.translate[m.focusIndex].Update(msg)
	return m, cmd
}

func (m Model) cycleTranslateFocus(dir int) (tea.Model, tea.Cmd) {
	m.translate[m.focusIndex].Blur()
	m.focusIndex = (m.focusIndex + dir + translateFields) % translateFields
	m.translate[m.focusIndex].Focus()
	return m, textinput.Blink
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.output = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performChords(input string) tea.Cmd {
	return func() tea.Msg {
		entries, err := chords.ParseChordEntries(input)
		if err != nil {
			return workDoneMsg{err: err}
		}

		outputFile := "chords.mid"
		seq := chords.NewSequencer()
		if err := seq.WriteFile(entries, outputFile); err != nil {
			return workDoneMsg{err: err}
		}
		return workDoneMsg{output: outputFile}
	}
}

func (m Model) performTranslate() tea.Cmd {
	notes := strings.Fields(m.translate[0].Value())
	stepsText := strings.Fields(m.translate[1].Value())
	tonic := strings.TrimSpace(m.translate[2].Value())
	scaleName := strings.TrimSpace(m.translate[3].Value())

	return func() tea.Msg {
		if scaleName == "" {
			scaleName = "major"
		}
		family, err := scale.ScaleFor(scaleName)
		if err != nil {
			return workDoneMsg{err: err}
		}
		var steps []int
		for _, s := range stepsText {
			n, err := strconv.Atoi(s)
			if err != nil {
				return workDoneMsg{err: fmt.Errorf("invalid step %q", s)}
			}
			steps = append(steps, n)
		}
		if len(steps) == 0 {
			steps = []int{0}
		}
		translated, err := scale.TranslateTrackSeq(notes, steps, tonic, family)
		if err != nil {
			return workDoneMsg{err: err}
		}
		return workDoneMsg{output: strings.Join(translated, " ")}
	}
}

func (m Model) performConversion() tea.Cmd {
	return func() tea.Msg {
		conv := converter.New(engines.NewFluidSynth(""), engines.NewHOMR())

		ext := map[string]string{"midi": ".mid", "wav": ".wav", "musicxml": ".musicxml"}[m.action.ToFormat]
		base := strings.TrimSuffix(m.selectedFile, filepath.Ext(m.selectedFile))
		outputFile := base + ext

		if err := conv.ConvertFile(m.selectedFile, outputFile); err != nil {
			return workDoneMsg{err: err}
		}
		return workDoneMsg{output: outputFile}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	// Header
	header := asciiLogo()
	s.WriteString(header)
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateChordInput:
		s.WriteString(m.viewChordInput())
	case StateTranslateInput:
		s.WriteString(m.viewTranslateInput())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateWorking:
		s.WriteString(m.viewWorking())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	// Footer help
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(staveGold).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewChordInput() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CHORD PROGRESSION "))
	s.WriteString("\n\n")
	s.WriteString("Enter chord symbols, optionally with :ticks durations:\n\n")
	s.WriteString(m.chordInput.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: render • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewTranslateInput() string {
	var s strings.Builder

	labels := [translateFields]string{"Notes", "Steps", "Tonic", "Scale"}

	s.WriteString(titleStyle.Render(" TRANSLATE IN SCALE "))
	s.WriteString("\n\n")
	for i := range m.translate {
		s.WriteString(fmt.Sprintf("%-6s %s\n", labels[i]+":", m.translate[i].View()))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("tab: next field • enter: run • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s FILE ", strings.ToUpper(m.action.FromFormat))))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewWorking() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" WORKING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s %s...\n", m.spinner.View(), m.action.Title))
	if m.selectedFile != "" {
		s.WriteString(statusStyle.Render(fmt.Sprintf("  %s", filepath.Base(m.selectedFile))))
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s failed: %s", m.action.Title, m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render(fmt.Sprintf("✓ %s complete!", m.action.Title)))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Result: %s", m.output))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   _____ ___  _   _    _    _
  |_   _/ _ \| \ | |  / \  | |
    | || | | |  \| | / _ \ | |
    | || |_| | |\  |/ ___ \| |___
    |_| \___/|_| \_/_/   \_\_____|
`
	return lipgloss.NewStyle().Foreground(inkBlue).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
