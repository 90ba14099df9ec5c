// Package hooks installs the summ-hook script and wires it into a session's
// workspace so the hosted CLI reports state transitions back to the daemon
// through runtime/status.json.
package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Script is the summ-hook handler installed under <base>/bin. The hosted CLI
// invokes it on lifecycle events; it writes runtime/status.json, which the
// daemon reads to derive effective status.
const Script = `#!/bin/bash
# summ-hook: CLI lifecycle hook handler
# Usage: summ-hook <event> [args...]

set -e

EVENT="$1"
shift
RUNTIME_DIR="${SUMM_RUNTIME_DIR:-$PWD/../runtime}"
STATUS_FILE="$RUNTIME_DIR/status.json"

# Hook input arrives as JSON on stdin
INPUT=$(cat)

SESSION_ID="${SUMM_SESSION_ID:-unknown}"

mkdir -p "$(dirname "$STATUS_FILE")"

write_status() {
    local state="$1"
    local message="$2"

    cat > "$STATUS_FILE" << EOF
{
  "state": "$state",
  "message": "$message",
  "event": "$EVENT",
  "timestamp": "$(date -Iseconds)"
}
EOF
}

case "$EVENT" in
    session-start)
        write_status "idle" "Session started, ready for tasks"
        ;;

    stop)
        # Main agent finished its response
        write_status "idle" "Task completed"
        ;;

    subagent-stop)
        write_status "idle" "Subagent task completed"
        ;;

    session-end)
        REASON=$(echo "$INPUT" | jq -r '.reason // "unknown"' 2>/dev/null || echo "unknown")
        write_status "stopped" "Session ended: $REASON"
        ;;

    *)
        echo "Unknown event: $EVENT" >&2
        exit 1
        ;;
esac

exit 0
`

// InstallScript writes the summ-hook script to <baseDir>/bin/summ-hook with
// execute permission. Called once at daemon startup; overwrites any previous
// version so upgrades take effect.
func InstallScript(baseDir string) error {
	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating bin directory: %w", err)
	}
	scriptPath := filepath.Join(binDir, "summ-hook")
	if err := os.WriteFile(scriptPath, []byte(Script), 0o755); err != nil {
		return fmt.Errorf("writing hook script: %w", err)
	}
	// WriteFile only applies the mode on creation.
	if err := os.Chmod(scriptPath, 0o755); err != nil {
		return fmt.Errorf("marking hook script executable: %w", err)
	}
	return nil
}

type hookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

type hookEntry struct {
	Hooks []hookCommand `json:"hooks"`
}

type claudeSettings struct {
	Hooks map[string][]hookEntry `json:"hooks"`
}

// claudeEvents maps Claude Code hook event names to summ-hook arguments.
var claudeEvents = []struct {
	setting string
	event   string
}{
	{"SessionStart", "session-start"},
	{"Stop", "stop"},
	{"SubagentStop", "subagent-stop"},
	{"SessionEnd", "session-end"},
}

// Deploy wires hooks into the workspace for the given CLI. Only claude-family
// CLIs support hooks today; anything else is a silent no-op and the session
// runs with tmux-liveness status detection only.
func Deploy(workspaceDir, cli, sessionID, runtimeDir string) error {
	if !strings.Contains(cli, "claude") {
		return nil
	}
	return deployClaudeHooks(workspaceDir, sessionID, runtimeDir)
}

func deployClaudeHooks(workspaceDir, sessionID, runtimeDir string) error {
	claudeDir := filepath.Join(workspaceDir, ".claude")
	if err := os.MkdirAll(claudeDir, 0o755); err != nil {
		return fmt.Errorf("creating .claude directory: %w", err)
	}

	hookBase := fmt.Sprintf("SUMM_SESSION_ID=%s SUMM_RUNTIME_DIR=%s ~/.summ-daemon/bin/summ-hook",
		sessionID, runtimeDir)

	settings := claudeSettings{Hooks: make(map[string][]hookEntry, len(claudeEvents))}
	for _, ev := range claudeEvents {
		settings.Hooks[ev.setting] = []hookEntry{{
			Hooks: []hookCommand{{
				Type:    "command",
				Command: fmt.Sprintf("%s %s", hookBase, ev.event),
			}},
		}}
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding hook settings: %w", err)
	}
	settingsPath := filepath.Join(claudeDir, "settings.local.json")
	if err := os.WriteFile(settingsPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", settingsPath, err)
	}
	return nil
}
