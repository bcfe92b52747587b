package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type lineMsg struct {
	at   time.Time
	text string
}

type feedClosedMsg struct{}

// waitForLine blocks on the feed and turns the next line into a message.
func waitForLine(lines <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-lines
		if !ok {
			return feedClosedMsg{}
		}
		return lineMsg{at: time.Now(), text: text}
	}
}
