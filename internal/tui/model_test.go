package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestModel_AppendsLines(t *testing.T) {
	lines := make(chan string, 1)
	m := NewModel(lines, Header{WatchDir: "/downloads", Printer: "Zebra", Retention: "archive"})

	at := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)
	m, cmd := update(t, m, lineMsg{at: at, text: "New ZIP file detected: /downloads/Etiquetas - 1.zip"})
	require.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, "14:05:09")
	assert.Contains(t, view, "Etiquetas - 1.zip")
	assert.Contains(t, view, "/downloads")
	assert.Contains(t, view, "Watching.")

	// The returned command waits for the next line.
	lines <- "Sending to print: label.pdf"
	msg := cmd()
	got, ok := msg.(lineMsg)
	require.True(t, ok)
	assert.Equal(t, "Sending to print: label.pdf", got.text)
}

func TestModel_FeedClosed(t *testing.T) {
	lines := make(chan string)
	close(lines)
	m := NewModel(lines, Header{})

	msg := m.Init()()
	assert.IsType(t, feedClosedMsg{}, msg)

	m, cmd := update(t, m, msg)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Monitoring stopped.")
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(make(chan string), Header{})

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := update(t, m, key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
}

func TestModel_ScrollsToNewest(t *testing.T) {
	m := NewModel(make(chan string), Header{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 7})

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, lineMsg{at: time.Now(), text: fmt.Sprintf("line-%02d", i)})
	}

	view := m.View()
	assert.NotContains(t, view, "line-06")
	for i := 7; i < 10; i++ {
		assert.Contains(t, view, fmt.Sprintf("line-%02d", i))
	}
}

func TestModel_BoundsHistory(t *testing.T) {
	m := NewModel(make(chan string), Header{})
	for i := 0; i < MaxLines+20; i++ {
		m, _ = update(t, m, lineMsg{at: time.Now(), text: "x"})
	}
	assert.Len(t, m.entries, MaxLines)
}
