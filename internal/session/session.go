// Package session holds the session entity: its persisted metadata, the
// effective-status derivation, and the in-memory registry.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/summ-dev/summ/internal/protocol"
)

// StatusMaxAge is how old a hook-written status file may be before it is
// distrusted. Hooks fire on every response boundary, so a silent two
// minutes means the CLI is grinding on something, not idle.
const StatusMaxAge = 120 * time.Second

// Multiplexer is the slice of the tmux wrapper that status derivation
// needs. The daemon passes the real wrapper; tests pass doubles.
type Multiplexer interface {
	HasSession(name string) (bool, error)
	PanePID(name string) (pid int, ok bool)
}

// Session is the daemon's record of one supervised CLI session. Persisted
// as pretty JSON in <workdir>/meta.json. Workdir is the session directory;
// the CLI itself runs in <workdir>/workspace.
type Session struct {
	SessionID    string                 `json:"session_id"`
	TmuxSession  string                 `json:"tmux_session"`
	Name         string                 `json:"name"`
	Cli          string                 `json:"cli"`
	Workdir      string                 `json:"workdir"`
	InitSource   string                 `json:"init_source"`
	Status       protocol.SessionStatus `json:"status"`
	PID          *int                   `json:"pid"`
	CreatedAt    time.Time              `json:"created_at"`
	LastActivity time.Time              `json:"last_activity"`
}

// GenerateID produces a fresh session ID: "session_" plus the first group
// of a random UUID. Short enough to type, random enough that the handler's
// collision retry never actually fires.
func GenerateID() string {
	id := uuid.NewString()
	return "session_" + strings.SplitN(id, "-", 2)[0]
}

// MetaPath is the session's metadata file under its directory.
func MetaPath(sessionDir string) string {
	return filepath.Join(sessionDir, "meta.json")
}

// Save writes the session's metadata to <workdir>/meta.json.
func (s *Session) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", s.SessionID, err)
	}
	path := MetaPath(s.Workdir)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a session's metadata from its directory.
func Load(sessionDir string) (*Session, error) {
	path := MetaPath(sessionDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &s, nil
}

// StatusPath is the hook-written status file for this session.
func (s *Session) StatusPath() string {
	return filepath.Join(s.Workdir, "runtime", "status.json")
}

// WorkspacePath is the directory the CLI runs in.
func (s *Session) WorkspacePath() string {
	return filepath.Join(s.Workdir, "workspace")
}

// ReadCliStatus reads the hook-written status file. ok is false when the
// file is missing or unparseable; an unparseable file is indistinguishable
// from a hook mid-write and is treated as absent.
func (s *Session) ReadCliStatus() (status *protocol.CliStatus, ok bool) {
	data, err := os.ReadFile(s.StatusPath())
	if err != nil {
		return nil, false
	}
	var cs protocol.CliStatus
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, false
	}
	return &cs, true
}

// EffectiveStatus derives the session's real state at this instant:
//
//   - tmux session gone: Stopped, regardless of hooks.
//   - no readable status file: Running (no evidence of idleness).
//   - status file older than StatusMaxAge: Running (stale evidence).
//   - otherwise the hook's word: idle, busy (Running), or stopped.
func (s *Session) EffectiveStatus(mux Multiplexer, now time.Time) protocol.SessionStatus {
	alive, _ := mux.HasSession(s.TmuxSession)
	if !alive {
		return protocol.StatusStopped
	}
	cs, ok := s.ReadCliStatus()
	if !ok {
		return protocol.StatusRunning
	}
	if now.Sub(cs.Timestamp) > StatusMaxAge {
		return protocol.StatusRunning
	}
	switch cs.State {
	case protocol.CliIdle:
		return protocol.StatusIdle
	case protocol.CliBusy:
		return protocol.StatusRunning
	case protocol.CliStopped:
		return protocol.StatusStopped
	}
	return protocol.StatusRunning
}

// Info projects the session into its List representation.
func (s *Session) Info() protocol.SessionInfo {
	return protocol.SessionInfo{
		SessionID:    s.SessionID,
		Name:         s.Name,
		Cli:          s.Cli,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
	}
}

// Detail projects the session into its Status representation, carrying an
// externally computed effective status.
func (s *Session) Detail(effective protocol.SessionStatus) protocol.StatusDetail {
	return protocol.StatusDetail{
		SessionID:    s.SessionID,
		Name:         s.Name,
		Cli:          s.Cli,
		Status:       effective,
		PID:          s.PID,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		Workdir:      s.Workdir,
	}
}
