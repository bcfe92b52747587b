package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title  lipgloss.Style
	muted  lipgloss.Style
	detect lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	status lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		detect: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}

// lineStyle picks a style from the line's leading words.
func (s styles) lineStyle(text string) lipgloss.Style {
	switch {
	case strings.HasPrefix(text, "Monitoring error"), strings.HasPrefix(text, "Failed to process"):
		return s.fail
	case strings.HasPrefix(text, "Print executable exited"), strings.HasPrefix(text, "No PDF documents"):
		return s.warn
	case strings.HasPrefix(text, "New ZIP file detected"):
		return s.detect
	case strings.HasPrefix(text, "Moved to processed"), strings.HasPrefix(text, "Finished"):
		return s.ok
	default:
		return lipgloss.NewStyle()
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("printwatch"))
	b.WriteString("  ")
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("%s -> %s (%s)", m.header.WatchDir, m.header.Printer, m.header.Retention)))
	b.WriteString("\n\n")

	// Title, blank line, blank line before status, status.
	visible := m.height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if len(m.entries) > visible {
		start = len(m.entries) - visible
	}
	for _, e := range m.entries[start:] {
		b.WriteString(m.styles.muted.Render(e.stamp))
		b.WriteString(" ")
		b.WriteString(m.styles.lineStyle(e.text).Render(e.text))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.styles.status.Render("Monitoring stopped. Press q to exit."))
	} else {
		b.WriteString(m.styles.status.Render("Watching. Press q to quit."))
	}
	return b.String()
}
