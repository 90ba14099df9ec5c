package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RenderPassIcon returns the success marker for human-facing output.
func RenderPassIcon() string {
	if ShouldUseEmoji() {
		return "✓"
	}
	return "[ok]"
}

// RenderWarnIcon returns the warning marker.
func RenderWarnIcon() string {
	if ShouldUseEmoji() {
		return "⚠"
	}
	return "[warn]"
}

// RenderMuted returns text meant to read as secondary. Muting is purely
// typographic here; color is the style package's business.
func RenderMuted(text string) string {
	return text
}

// ShortenPath replaces the home directory prefix with ~ for display.
func ShortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}

// RelativeTime renders a timestamp as a coarse "Nm ago" string.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
