// Package style renders CLI output: status words, labels, and plain-text
// tables. Color degrades automatically on non-TTY output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/summ-dev/summ/internal/protocol"
	"github.com/summ-dev/summ/internal/ui"
)

// Color palette
var (
	colorRunning = lipgloss.Color("76")  // green
	colorIdle    = lipgloss.Color("214") // orange
	colorStopped = lipgloss.Color("242") // gray
	colorError   = lipgloss.Color("196") // bright red
	colorAccent  = lipgloss.Color("39")  // blue
)

var (
	runningStyle = lipgloss.NewStyle().Foreground(colorRunning).Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(colorIdle)
	stoppedStyle = lipgloss.NewStyle().Foreground(colorStopped)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// colorEnabled caches the decision for the life of the process.
var colorEnabled = func() bool {
	if !ui.ShouldUseColor() {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}()

func render(s lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return s.Render(text)
}

// Status renders a session status word in its color.
func Status(status protocol.SessionStatus) string {
	switch status {
	case protocol.StatusRunning:
		return render(runningStyle, string(status))
	case protocol.StatusIdle:
		return render(idleStyle, string(status))
	case protocol.StatusStopped:
		return render(stoppedStyle, string(status))
	}
	return string(status)
}

// Error renders an error prefix.
func Error(text string) string {
	return render(errorStyle, text)
}

// Label renders a field label in the detail views.
func Label(text string) string {
	return render(labelStyle, text)
}
