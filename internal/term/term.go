package term

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	reset   = "\033[0m"
	dim     = "\033[2m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	red     = "\033[31m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

var colorized = IsTerminal(os.Stdout)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ForceColor overrides terminal detection, for tests and --no-color.
func ForceColor(on bool) {
	colorized = on
}

func paint(color, s string) string {
	if !colorized {
		return s
	}
	return color + s + reset
}

func Green(s string) string   { return paint(green, s) }
func Yellow(s string) string  { return paint(yellow, s) }
func Red(s string) string     { return paint(red, s) }
func Cyan(s string) string    { return paint(cyan, s) }
func Magenta(s string) string { return paint(magenta, s) }
func Dim(s string) string     { return paint(dim, s) }

func CheckMark() string { return Green("✓") }
func CrossMark() string { return Red("✗") }
func WarnMark() string  { return Yellow("!") }
