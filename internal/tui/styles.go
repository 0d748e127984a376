package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/ui"
)

type styles struct {
	title, accent, muted, err, busy lipgloss.Style
	selected, editing, help, frame  lipgloss.Style
}

func newStyles(t ui.Theme) styles {
	s := styles{
		title:    lipgloss.NewStyle().Bold(true),
		muted:    lipgloss.NewStyle().Faint(true),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		help:     lipgloss.NewStyle().Faint(true),
		editing:  lipgloss.NewStyle().Italic(true),
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		accent:   lipgloss.NewStyle(),
		err:      lipgloss.NewStyle().Bold(true),
		busy:     lipgloss.NewStyle(),
	}
	if t.NoColor {
		s.frame = s.frame.Border(lipgloss.NormalBorder())
		return s
	}
	p := t.Palette
	s.accent = s.accent.Foreground(lipgloss.Color(p.Accent))
	s.err = s.err.Foreground(lipgloss.Color(p.Error))
	s.busy = s.busy.Foreground(lipgloss.Color(p.Busy))
	s.editing = s.editing.Foreground(lipgloss.Color(p.Success))
	s.frame = s.frame.BorderForeground(lipgloss.Color(p.Border))
	return s
}
