// Package term holds the ANSI color state shared by the logger, the banner
// and the progress renderer, plus TTY detection via go-isatty.
//
// The color variables are empty strings while colors are off, so callers
// concatenate them unconditionally.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/imgconvert/internal/config"
)

// Active escape sequences, set by [Configure].
var (
	Red     string
	Green   string
	Yellow  string
	Blue    string
	Cyan    string
	Magenta string
	NC      string // reset
)

var palette = []struct {
	dst  *string
	code string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&NC, "\033[0m"},
}

// Configure turns colors on or off for mode. It is called once by
// logging.NewLogger.
func Configure(mode config.ColorMode) {
	on := wantColor(mode)
	for _, p := range palette {
		if on {
			*p.dst = p.code
		} else {
			*p.dst = ""
		}
	}
}

// Enabled reports whether colors are on.
func Enabled() bool { return NC != "" }

// wantColor honors an explicit mode; auto requires a TTY on stdout, no
// NO_COLOR (https://no-color.org) and a TERM other than "dumb".
func wantColor(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(os.Stdout)
}

// IsTerminal reports whether f is a TTY, Cygwin and MSYS ptys included.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
