// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"os"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// palette holds the ANSI escape sequences for diagnostic output.
type palette struct {
	bold       string
	boldRed    string
	boldYellow string
	boldBlue   string
	boldCyan   string
	reset      string
}

var ansiPalette = palette{
	bold:       "\033[1m",
	boldRed:    "\033[1;31m",
	boldYellow: "\033[1;33m",
	boldBlue:   "\033[1;34m",
	boldCyan:   "\033[1;36m",
	reset:      "\033[0m",
}

// ParseColorMode returns the ColorMode named by s: "auto", "always" or
// "never".  The empty string is "auto".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// severityColor returns the color used for diagnostics of severity sev.
func (p palette) severityColor(sev Severity) string {
	switch sev {
	case SeverityError:
		return p.boldRed
	case SeverityWarning:
		return p.boldYellow
	default:
		return p.boldCyan
	}
}

var noPalette = palette{}

// choosePalette selects the appropriate color palette based on the mode
// and the output file descriptor.
func choosePalette(mode ColorMode, w *os.File) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return noPalette
	default: // ColorAuto
		if os.Getenv("NO_COLOR") != "" {
			return noPalette
		}
		if !isTerminal(w) {
			return noPalette
		}
		return ansiPalette
	}
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
