// Package tmux wraps the tmux binary. Every call shells out with a bounded
// timeout; no tmux server state is cached.
package tmux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// commandTimeout bounds any single tmux invocation. tmux commands either
// answer fast or the server is wedged; waiting longer helps nobody.
const commandTimeout = 5 * time.Second

// minMajor/minMinor is the oldest tmux release with stable support for the
// format strings and pipe-pane behavior we rely on.
const (
	minMajor = 3
	minMinor = 0
)

// ErrNotInstalled means no tmux binary was found on PATH.
var ErrNotInstalled = errors.New("tmux not found on PATH")

// ErrVersionTooOld means the installed tmux predates 3.0.
var ErrVersionTooOld = errors.New("tmux version too old (need >= 3.0)")

// Tmux is a stateless wrapper around the tmux binary.
type Tmux struct {
	bin     string
	timeout time.Duration
}

// NewTmux returns a wrapper using "tmux" from PATH.
func NewTmux() *Tmux {
	return &Tmux{bin: "tmux", timeout: commandTimeout}
}

// run executes a tmux command and returns its combined output.
func (t *Tmux) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.bin, args...)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("tmux %s timed out after %s", args[0], t.timeout)
	}
	if err != nil {
		return "", fmt.Errorf("tmux %s: %w (%s)", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// CheckAvailable verifies tmux exists and is at least version 3.0.
func (t *Tmux) CheckAvailable() error {
	if _, err := exec.LookPath(t.bin); err != nil {
		return ErrNotInstalled
	}
	out, err := t.run("-V")
	if err != nil {
		return fmt.Errorf("probing tmux version: %w", err)
	}
	major, minor, err := parseVersion(strings.TrimSpace(out))
	if err != nil {
		// Unparseable versions ("tmux next-3.6", "tmux master") come from
		// builds newer than any release gate; let them through.
		return nil
	}
	if major < minMajor || (major == minMajor && minor < minMinor) {
		return fmt.Errorf("%w: found %d.%d", ErrVersionTooOld, major, minor)
	}
	return nil
}

// parseVersion extracts major.minor from "tmux 3.3a" style output. A trailing
// patch letter is discarded.
func parseVersion(s string) (major, minor int, err error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("unexpected tmux -V output %q", s)
	}
	ver := fields[len(fields)-1]
	ver = strings.TrimRightFunc(ver, func(r rune) bool {
		return r < '0' || r > '9'
	})
	parts := strings.SplitN(ver, ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected tmux version %q", ver)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected tmux version %q", ver)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected tmux version %q", ver)
	}
	return major, minor, nil
}

// NewSession creates a detached session running command in dir.
func (t *Tmux) NewSession(name, dir, command string) error {
	_, err := t.run("new-session", "-d", "-s", name, "-c", dir, command)
	if err != nil {
		return fmt.Errorf("creating session %s: %w", name, err)
	}
	return nil
}

// HasSession reports whether a session with this exact name exists. A failed
// lookup (including "no server running") reads as absent, not as an error.
func (t *Tmux) HasSession(name string) (bool, error) {
	// "=" forces exact matching; bare names prefix-match.
	if _, err := t.run("has-session", "-t", "="+name); err != nil {
		return false, nil
	}
	return true, nil
}

// KillSession kills a session. Killing an already-gone session is an error
// from tmux; callers treat that as a warning, not a failure.
func (t *Tmux) KillSession(name string) error {
	if _, err := t.run("kill-session", "-t", name); err != nil {
		return fmt.Errorf("killing session %s: %w", name, err)
	}
	return nil
}

func (t *Tmux) listSessionNames() ([]string, error) {
	out, err := t.run("list-sessions", "-F", "#{session_name}")
	if err != nil {
		// No server running means no sessions.
		return nil, nil
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// ListSessionsWithPrefix returns the names of live sessions starting with
// prefix. A missing tmux server yields an empty list.
func (t *Tmux) ListSessionsWithPrefix(prefix string) ([]string, error) {
	names, err := t.listSessionNames()
	if err != nil {
		return nil, err
	}
	var matched []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

// SendKeys types text into the session as literal keystrokes, optionally
// followed by Enter.
func (t *Tmux) SendKeys(name, text string, pressEnter bool) error {
	if _, err := t.run("send-keys", "-t", name, "-l", "--", text); err != nil {
		return fmt.Errorf("sending keys to %s: %w", name, err)
	}
	if pressEnter {
		if _, err := t.run("send-keys", "-t", name, "Enter"); err != nil {
			return fmt.Errorf("sending Enter to %s: %w", name, err)
		}
	}
	return nil
}

// PanePID returns the process ID of the session's first pane. ok is false
// when the session is gone or the output is unusable.
func (t *Tmux) PanePID(name string) (pid int, ok bool) {
	out, err := t.run("list-panes", "-t", name, "-F", "#{pane_pid}")
	if err != nil {
		return 0, false
	}
	first := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
	pid, convErr := strconv.Atoi(first)
	if convErr != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// PipePane mirrors the session's terminal output by appending to logPath.
func (t *Tmux) PipePane(name, logPath string) error {
	pipeCmd := fmt.Sprintf("cat >> %s", shellQuote(logPath))
	if _, err := t.run("pipe-pane", "-t", name, pipeCmd); err != nil {
		return fmt.Errorf("piping pane for %s: %w", name, err)
	}
	return nil
}

// CapturePane returns the last lines of the session's visible pane plus
// scrollback.
func (t *Tmux) CapturePane(name string, lines int) (string, error) {
	out, err := t.run("capture-pane", "-t", name, "-p", "-S", fmt.Sprintf("-%d", lines))
	if err != nil {
		return "", fmt.Errorf("capturing pane for %s: %w", name, err)
	}
	return out, nil
}

// shellQuote wraps s in single quotes for embedding in a pipe-pane command.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
