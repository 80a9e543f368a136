// Package color controls whether the hub's output uses colors.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ShouldUseColors determines if colors should be used based on the color
// setting (auto, always, never).
func ShouldUseColors(colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	case "auto":
		// Colors only when stdout is a terminal and NO_COLOR is unset.
		if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) != 0 {
			return os.Getenv("NO_COLOR") == ""
		}
		return false
	default:
		return true
	}
}

// ConfigureColorProfile sets the global lipgloss color profile based on the
// color mode. Call it early, before any lipgloss or glamour rendering.
//
// "always" forces TrueColor regardless of TTY status, so colors survive
// piping; "never" forces Ascii; "auto" leaves lipgloss to its own TTY-based
// detection.
func ConfigureColorProfile(colorMode string) {
	switch colorMode {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
