package ui

import (
	"fmt"
	"strings"
)

// Theme bundles palette, symbols and box borders. Escape fields drive the
// plain renderers; the ANSI-256 codes in Palette drive lipgloss in the TUI.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Busy                                   string
	Bullet, Cursor, Editing                string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	NoColor                                bool
	Palette                                Palette
}

// Palette holds ANSI-256 color codes for lipgloss.
type Palette struct {
	Accent, Success, Error, Busy, Border string
}

// Themes lists the names SetTheme accepts.
var Themes = []string{"classic", "neon", "mono"}

var themes = map[string]Theme{
	"classic": {
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Busy: fgYellow,
		Bullet: "•", Cursor: ">", Editing: "✎",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		Palette: Palette{Accent: "12", Success: "42", Error: "9", Busy: "214", Border: "8"},
	},
	"neon": {
		Name:  "neon",
		Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
		Success: fgGreen, Error: fgRed, Busy: "\033[93m",
		Bullet: "◆", Cursor: "▶", Editing: "✎",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
		Palette: Palette{Accent: "51", Success: "48", Error: "197", Busy: "226", Border: "201"},
	},
	"mono": {
		Name:   "mono",
		Bullet: "-", Cursor: ">", Editing: "*",
		CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
		H: "-", V: "|",
		NoColor: true,
	},
}

var current = themes["classic"]

// SetTheme switches the current theme. Unknown names leave it unchanged.
func SetTheme(name string) error {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(Themes, ", "))
	}
	current = t
	return nil
}

// Current returns the active theme.
func Current() Theme { return current }
