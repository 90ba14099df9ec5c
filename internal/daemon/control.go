package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/summ-dev/summ/internal/config"
)

// stopPollInterval and stopTimeout govern how long StopDaemon waits for the
// process to exit after SIGTERM.
const (
	stopPollInterval = 100 * time.Millisecond
	stopTimeout      = 10 * time.Second
)

// ReadPID returns the PID recorded by a running (or crashed) daemon.
func ReadPID(cfg *config.Config) (int, error) {
	data, err := os.ReadFile(cfg.PIDFilePath())
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("malformed pid file %s", cfg.PIDFilePath())
	}
	return pid, nil
}

// IsRunning reports whether a daemon for this base directory is alive, and
// its PID when it is. A stale PID file (dead process, or a recycled PID now
// belonging to something else) is cleaned up on the way through.
func IsRunning(cfg *config.Config) (int, bool) {
	pid, err := ReadPID(cfg)
	if err != nil {
		return 0, false
	}
	if !processAlive(pid) || !looksLikeSumm(pid) {
		// Leftovers from a crash; remove them so the next start is clean.
		os.Remove(cfg.PIDFilePath())
		os.Remove(cfg.SocketPath)
		return 0, false
	}
	return pid, true
}

// StopDaemon sends SIGTERM to the running daemon and waits for it to exit.
// Stopping a daemon that is not running is not an error.
func StopDaemon(cfg *config.Config) error {
	pid, running := IsRunning(cfg)
	if !running {
		return nil
	}

	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("signalling daemon (pid %d): %w", pid, err)
	}

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			return nil
		}
		time.Sleep(stopPollInterval)
	}
	return fmt.Errorf("daemon (pid %d) did not exit within %s", pid, stopTimeout)
}

// processAlive probes a PID with signal 0.
func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}

// looksLikeSumm checks that the PID still belongs to a summ process; PIDs
// get recycled, and signalling a stranger would be rude.
func looksLikeSumm(pid int) bool {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "command=").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "summ")
}
