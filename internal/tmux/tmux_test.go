package tmux

import (
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// hasTmux checks if tmux is available for integration tests.
func hasTmux() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input     string
		major     int
		minor     int
		expectErr bool
	}{
		{"tmux 3.3a", 3, 3, false},
		{"tmux 3.0", 3, 0, false},
		{"tmux 2.9a", 2, 9, false},
		{"tmux 3.5", 3, 5, false},
		{"tmux openbsd-6.9", 0, 0, true},
		{"tmux next-3.6", 0, 0, true},
		{"garbage", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			major, minor, err := parseVersion(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("parseVersion(%q) expected error, got %d.%d", tt.input, major, minor)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVersion(%q): %v", tt.input, err)
			}
			if major != tt.major || minor != tt.minor {
				t.Errorf("parseVersion(%q) = %d.%d, want %d.%d", tt.input, major, minor, tt.major, tt.minor)
			}
		})
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/tmp/plain.log", "'/tmp/plain.log'"},
		{"/tmp/with space.log", "'/tmp/with space.log'"},
		{"/tmp/it's.log", `'/tmp/it'\''s.log'`},
	}
	for _, tt := range tests {
		if got := shellQuote(tt.input); got != tt.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCheckAvailable(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}
	if err := NewTmux().CheckAvailable(); err != nil {
		t.Fatalf("CheckAvailable: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}

	tm := NewTmux()
	name := fmt.Sprintf("summ-test-%d", time.Now().UnixNano())

	if err := tm.NewSession(name, t.TempDir(), "sleep 30"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer tm.KillSession(name)

	exists, err := tm.HasSession(name)
	if err != nil {
		t.Fatalf("HasSession: %v", err)
	}
	if !exists {
		t.Fatal("session should exist after NewSession")
	}

	pid, ok := tm.PanePID(name)
	if !ok {
		t.Fatal("PanePID should find the pane")
	}
	if pid <= 0 {
		t.Errorf("pid = %d", pid)
	}

	matched, err := tm.ListSessionsWithPrefix("summ-test-")
	if err != nil {
		t.Fatalf("ListSessionsWithPrefix: %v", err)
	}
	found := false
	for _, m := range matched {
		if m == name {
			found = true
		}
	}
	if !found {
		t.Errorf("session %s missing from prefix listing %v", name, matched)
	}

	if err := tm.KillSession(name); err != nil {
		t.Fatalf("KillSession: %v", err)
	}

	exists, _ = tm.HasSession(name)
	if exists {
		t.Error("session should be gone after KillSession")
	}
}

func TestSendKeysAndCapture(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}

	tm := NewTmux()
	name := fmt.Sprintf("summ-test-%d", time.Now().UnixNano())

	if err := tm.NewSession(name, t.TempDir(), "cat"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer tm.KillSession(name)

	if err := tm.SendKeys(name, "hello capture", true); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}

	// cat needs a moment to echo the line back.
	deadline := time.Now().Add(3 * time.Second)
	for {
		out, err := tm.CapturePane(name, 50)
		if err != nil {
			t.Fatalf("CapturePane: %v", err)
		}
		if strings.Contains(out, "hello capture") {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("typed text never appeared in pane, capture:\n%s", out)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func TestHasSessionAbsent(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}
	exists, err := NewTmux().HasSession("summ-test-definitely-not-there")
	if err != nil {
		t.Fatalf("HasSession: %v", err)
	}
	if exists {
		t.Error("nonexistent session reported present")
	}
}

func TestPanePIDGoneSession(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}
	if _, ok := NewTmux().PanePID("summ-test-definitely-not-there"); ok {
		t.Error("PanePID reported ok for a missing session")
	}
}
