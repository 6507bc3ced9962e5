// Package output decides how much color a writer gets.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ProfileFor returns the color profile for w.
//
// Writers that are not terminals get Ascii, so piped reports and captured logs
// stay plain. NO_COLOR disables color everywhere and CLICOLOR_FORCE enables it
// for any writer.
func ProfileFor(w io.Writer) termenv.Profile {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case os.Getenv("CLICOLOR_FORCE") != "" && os.Getenv("CLICOLOR_FORCE") != "0":
		return termenv.ANSI256
	case !IsTerminal(w):
		return termenv.Ascii
	default:
		return termenv.EnvColorProfile()
	}
}

// New creates a termenv.Output for w using ProfileFor. A nil writer means stderr.
func New(w io.Writer) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(ProfileFor(w)), termenv.WithTTY(true))
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
