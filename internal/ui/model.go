// ABOUTME: Bubbletea model for the playback endpoint TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Endpoint
	endpointName string
	outputRate   int
	inputRate    int

	// Feeder
	feederName      string
	feederConnected bool

	// Buffer
	state      string
	buffered   int
	framesIn   int64
	samplesOut int64
	underruns  int64

	// Spectrum
	levels []float64

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	case StatsMsg:
		m.applyStats(msg)
	case LevelsMsg:
		m.levels = msg
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderBuffer()
	s += m.renderSpectrum()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders endpoint identity and feeder status
func (m Model) renderHeader() string {
	feeder := "Waiting for feeder"
	if m.feederConnected {
		feeder = fmt.Sprintf("Feeder: %s", m.feederName)
	}

	return fmt.Sprintf(`┌─ VoiceBridge Endpoint ───────────────────────────────┐
│ %-52s │
│ %-52s │
├──────────────────────────────────────────────────────┤
`, m.endpointName, feeder)
}

// renderBuffer renders buffer health
func (m Model) renderBuffer() string {
	ms := 0
	if m.outputRate > 0 {
		ms = m.buffered * 1000 / m.outputRate
	}

	return fmt.Sprintf("│ State:  %-44s │\n"+
		"│ Buffer: %d samples (%dms)%-27s │\n"+
		"│ Frames: %d  Out: %d  Underruns: %d%-10s │\n",
		m.state, m.buffered, ms, "",
		m.framesIn, m.samplesOut, m.underruns, "")
}

// renderSpectrum renders the level meter bands
func (m Model) renderSpectrum() string {
	if len(m.levels) == 0 {
		return "│ Levels: (no signal)                                  │\n"
	}

	bars := ""
	for _, lv := range m.levels {
		bars += renderBar(int(lv*100), 100, 4) + " "
	}

	return fmt.Sprintf("│ Levels: %-44s │\n", bars)
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ d:Debug  q:Quit                                      │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Input rate:  %d Hz%-30s │
│   Output rate: %d Hz%-30s │
`, m.inputRate, "", m.outputRate, "")
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates feeder connection state. Counters are carried by
// StatsMsg so a connect/disconnect event never clobbers them.
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.FeederConnected != nil {
		m.feederConnected = *msg.FeederConnected
	}
	if msg.FeederName != "" {
		m.feederName = msg.FeederName
	}
}

// applyStats replaces the counter snapshot. Zero is a valid value.
func (m *Model) applyStats(msg StatsMsg) {
	if msg.State != "" {
		m.state = msg.State
	}
	m.buffered = msg.Buffered
	m.framesIn = msg.FramesIn
	m.samplesOut = msg.SamplesOut
	m.underruns = msg.Underruns
}

// StatusMsg updates feeder connection state
type StatusMsg struct {
	FeederConnected *bool
	FeederName      string
}

// StatsMsg carries a full snapshot of the buffer counters
type StatsMsg struct {
	State      string
	Buffered   int
	FramesIn   int64
	SamplesOut int64
	Underruns  int64
}

// LevelsMsg carries spectrum band levels in [0, 1]
type LevelsMsg []float64

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}
