// Package ui renders plain (non-interactive) terminal output: status
// lines, the framed list panel and the color themes shared with the TUI.
package ui

import (
	"fmt"
	"io"
	"os"
)

const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing backs the --color and --no-color flags. disable wins.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func colorOn(w io.Writer) bool {
	if disableColor || current.NoColor {
		return false
	}
	return forceColor || isTTY(w)
}

// Paint wraps s in color when w gets color output.
func Paint(w io.Writer, color, s string) string {
	if color == "" || !colorOn(w) {
		return s
	}
	return color + s + reset
}

// OK prints a success line.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, Paint(w, current.Success, symCheck+" "+msg))
}

// Fail prints a failure line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, Paint(w, current.Error, symCross+" "+msg))
}
