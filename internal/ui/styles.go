// Package ui provides ANSI styling helpers for terminal output.
package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI256 color codes for the dashboard palette.
const (
	colorAccent  = 74  // blue, gate names and badges
	colorSuccess = 78  // green, active status and level-ups
	colorDanger  = 203 // red, inactive status and errors
	colorMuted   = 245 // medium gray, secondary text
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderSuccess returns s in the success (green) color.
func RenderSuccess(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorSuccess, s)
}

// RenderDanger returns s in the danger (red) color.
func RenderDanger(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorDanger, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderBold returns s in bold.
func RenderBold(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[1m%s\x1b[0m", s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// ShouldUseColor returns true when ANSI colors should be used on stdout. It
// honors NO_COLOR and CLICOLOR conventions before falling back to TTY
// detection.
func ShouldUseColor() bool {
	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
