package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		maxw = max(maxw, lipgloss.Width(ln))
	}
	pad := func(s string) string {
		return s + strings.Repeat(" ", maxw-lipgloss.Width(s))
	}
	border := func(s string) string { return Paint(w, t.Muted, s) }

	fmt.Fprintln(w, border(t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR))
	for _, ln := range lines {
		fmt.Fprintln(w, border(t.V)+" "+pad(ln)+" "+border(t.V))
	}
	fmt.Fprintln(w, border(t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR))
}

const maxTextWidth = 80

// TodoLines renders one line per todo, "#id text", or the empty-state line.
func TodoLines(w io.Writer, todos []model.Todo) []string {
	t := Current()
	if len(todos) == 0 {
		return []string{Paint(w, t.Muted, "Nothing to do yet.")}
	}
	out := make([]string, 0, len(todos))
	for _, td := range todos {
		text := td.Text
		if r := []rune(text); len(r) > maxTextWidth {
			text = string(r[:maxTextWidth-3]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			Paint(w, dim, fmt.Sprintf("#%-3d", td.ID)), Paint(w, t.Accent, t.Bullet), text))
	}
	return out
}

// Header is the panel title line with the item count.
func Header(w io.Writer, n int) string {
	t := Current()
	noun := "items"
	if n == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%s  %s", Paint(w, t.Title, "Todos"), Paint(w, t.Muted, fmt.Sprintf("%d %s", n, noun)))
}
