// Package tui renders the progress feed as a live, scrolling terminal view.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxLines bounds the history kept on screen.
const MaxLines = 500

// Header is the fixed information shown above the log.
type Header struct {
	WatchDir  string
	Printer   string
	Retention string
}

type entry struct {
	stamp string
	text  string
}

// Model is the bubbletea model for the live log view.
type Model struct {
	lines   <-chan string
	header  Header
	entries []entry
	closed  bool
	width   int
	height  int
	styles  styles
}

// NewModel creates a model reading from lines until it is closed.
func NewModel(lines <-chan string, header Header) Model {
	return Model{
		lines:  lines,
		header: header,
		width:  100,
		height: 30,
		styles: defaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForLine(m.lines)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		switch typed.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case lineMsg:
		m.entries = append(m.entries, entry{stamp: typed.at.Format("15:04:05"), text: typed.text})
		if len(m.entries) > MaxLines {
			m.entries = m.entries[len(m.entries)-MaxLines:]
		}
		return m, waitForLine(m.lines)
	case feedClosedMsg:
		m.closed = true
		return m, nil
	}
	return m, nil
}

// Run shows the view until the operator quits or ctx is canceled.
// Quitting does not stop the watcher; the caller decides what to do next.
func Run(ctx context.Context, lines <-chan string, header Header) error {
	program := tea.NewProgram(NewModel(lines, header), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
