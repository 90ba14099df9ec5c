// Package config resolves the daemon's on-disk layout and tunables.
//
// Everything lives under a single base directory, ~/.summ-daemon by default.
// SUMM_HOME overrides the base (tests rely on this), and an optional
// config.toml inside the base overrides individual fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvHome overrides the base directory when set.
const EnvHome = "SUMM_HOME"

// Defaults that config.toml may override.
const (
	DefaultTmuxPrefix       = "summ-"
	DefaultRetentionHours   = 24
	DefaultMonitorInterval  = 5 * time.Second
	DefaultStatusMaxAge     = 120 * time.Second
	DefaultShutdownGrace    = 5 * time.Second
	DefaultAcceptRetryDelay = 100 * time.Millisecond
)

// Config is the resolved daemon configuration.
type Config struct {
	// BaseDir is the root of all daemon state (~/.summ-daemon).
	BaseDir string `toml:"-"`

	SessionsDir string `toml:"sessions_dir"`
	LogsDir     string `toml:"logs_dir"`
	SocketPath  string `toml:"socket_path"`

	// TmuxPrefix is prepended to session IDs to form tmux session names.
	TmuxPrefix string `toml:"tmux_prefix"`

	// CleanupRetentionHours is how long stopped session records are kept.
	// Parsed and persisted for forward compatibility; no reaper runs yet.
	CleanupRetentionHours int `toml:"cleanup_retention_hours"`
}

// Load resolves the configuration: env override, defaults, then config.toml.
func Load() (*Config, error) {
	base := os.Getenv(EnvHome)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		base = filepath.Join(home, ".summ-daemon")
	}
	return LoadFrom(base)
}

// LoadFrom resolves the configuration rooted at an explicit base directory.
func LoadFrom(base string) (*Config, error) {
	cfg := &Config{
		BaseDir:               base,
		SessionsDir:           filepath.Join(base, "sessions"),
		LogsDir:               filepath.Join(base, "logs"),
		SocketPath:            filepath.Join(base, "daemon.sock"),
		TmuxPrefix:            DefaultTmuxPrefix,
		CleanupRetentionHours: DefaultRetentionHours,
	}

	tomlPath := filepath.Join(base, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", tomlPath, err)
		}
	}
	return cfg, nil
}

// EnsureDirectories creates the directory skeleton the daemon expects.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.BaseDir, c.SessionsDir, c.LogsDir, c.BinDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// BinDir holds helper executables (the hook script).
func (c *Config) BinDir() string {
	return filepath.Join(c.BaseDir, "bin")
}

// HookScriptPath is where the summ-hook script is installed.
func (c *Config) HookScriptPath() string {
	return filepath.Join(c.BinDir(), "summ-hook")
}

// DaemonLogPath is the daemon's own log file.
func (c *Config) DaemonLogPath() string {
	return filepath.Join(c.BaseDir, "daemon.log")
}

// PIDFilePath records the running daemon's PID.
func (c *Config) PIDFilePath() string {
	return filepath.Join(c.BaseDir, "daemon.pid")
}

// LockFilePath is the flock target guarding daemon singleton-ness.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.BaseDir, "daemon.lock")
}

// SessionDir is the root of one session's state.
func (c *Config) SessionDir(id string) string {
	return filepath.Join(c.SessionsDir, id)
}

// SessionMetaPath is the session's persisted metadata.
func (c *Config) SessionMetaPath(id string) string {
	return filepath.Join(c.SessionDir(id), "meta.json")
}

// SessionWorkspacePath is the materialized working directory the CLI runs in.
func (c *Config) SessionWorkspacePath(id string) string {
	return filepath.Join(c.SessionDir(id), "workspace")
}

// SessionRuntimePath holds hook-written runtime state (status.json).
func (c *Config) SessionRuntimePath(id string) string {
	return filepath.Join(c.SessionDir(id), "runtime")
}

// SessionStatusPath is the hook-written status file.
func (c *Config) SessionStatusPath(id string) string {
	return filepath.Join(c.SessionRuntimePath(id), "status.json")
}

// SessionLogPath is the pipe-pane capture of the session's terminal output.
func (c *Config) SessionLogPath(id string) string {
	return filepath.Join(c.LogsDir, id+".log")
}

// TmuxSessionName maps a session ID to its tmux session name.
func (c *Config) TmuxSessionName(id string) string {
	return c.TmuxPrefix + id
}
