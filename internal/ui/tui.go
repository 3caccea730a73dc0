// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the endpoint UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewModel creates a new TUI model
func NewModel(endpointName string, inputRate, outputRate int) Model {
	return Model{
		endpointName: endpointName,
		inputRate:    inputRate,
		outputRate:   outputRate,
		state:        "active",
	}
}

// Run starts the TUI
func Run(endpointName string, inputRate, outputRate int) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(endpointName, inputRate, outputRate), tea.WithAltScreen())
	return p, nil
}
