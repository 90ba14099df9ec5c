package daemon

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/summ-dev/summ/internal/config"
	"github.com/summ-dev/summ/internal/protocol"
	"github.com/summ-dev/summ/internal/session"
)

// Recover rebuilds the session table from disk and reconciles it against
// the live tmux server. Called once at startup, before the socket accepts.
//
// Three cases per session directory:
//   - tmux session alive: adopt it as Running with a fresh pid.
//   - meta says Running but tmux is gone: mark Stopped and persist.
//   - anything else: keep the record as persisted.
//
// Live tmux sessions with no metadata are orphans; they are logged and left
// alone rather than killed, since someone may be working in them.
func Recover(cfg *config.Config, mux Multiplexer, logger *log.Logger) (map[string]*session.Session, error) {
	sessions := make(map[string]*session.Session)

	live, err := mux.ListSessionsWithPrefix(cfg.TmuxPrefix)
	if err != nil {
		logger.Printf("warning: could not list tmux sessions during recovery: %v", err)
	}
	liveSet := make(map[string]bool, len(live))
	for _, name := range live {
		liveSet[name] = true
	}

	if err := os.MkdirAll(cfg.SessionsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sessions directory: %w", err)
	}

	entries, err := os.ReadDir(cfg.SessionsDir)
	if err != nil {
		return nil, fmt.Errorf("reading sessions directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sessionDir := cfg.SessionDir(entry.Name())
		if _, err := os.Stat(session.MetaPath(sessionDir)); err != nil {
			continue
		}

		sess, err := session.Load(sessionDir)
		if err != nil {
			// A corrupt record must not take down recovery of the rest.
			logger.Printf("warning: skipping unreadable session metadata in %s: %v", sessionDir, err)
			continue
		}

		switch {
		case liveSet[sess.TmuxSession]:
			sess.Status = protocol.StatusRunning
			sess.PID = nil
			if pid, ok := mux.PanePID(sess.TmuxSession); ok {
				sess.PID = &pid
			}
			if err := sess.Save(); err != nil {
				logger.Printf("warning: failed to persist adopted session %s: %v", sess.SessionID, err)
			}
			logger.Printf("recovered running session %s (tmux: %s)", sess.SessionID, sess.TmuxSession)

		case sess.Status == protocol.StatusRunning:
			sess.Status = protocol.StatusStopped
			sess.PID = nil
			if err := sess.Save(); err != nil {
				logger.Printf("warning: failed to persist stopped session %s: %v", sess.SessionID, err)
			}
			logger.Printf("session %s marked stopped (tmux session gone)", sess.SessionID)
		}

		sessions[sess.SessionID] = sess
	}

	for _, name := range live {
		id := strings.TrimPrefix(name, cfg.TmuxPrefix)
		if _, known := sessions[id]; !known {
			logger.Printf("warning: orphan tmux session %s has no metadata, leaving it alone", name)
		}
	}

	logger.Printf("recovered %d sessions from disk and tmux", len(sessions))
	return sessions, nil
}
