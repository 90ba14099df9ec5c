package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromDefaults(t *testing.T) {
	base := t.TempDir()
	cfg, err := LoadFrom(base)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.SessionsDir != filepath.Join(base, "sessions") {
		t.Errorf("SessionsDir = %s", cfg.SessionsDir)
	}
	if cfg.LogsDir != filepath.Join(base, "logs") {
		t.Errorf("LogsDir = %s", cfg.LogsDir)
	}
	if cfg.SocketPath != filepath.Join(base, "daemon.sock") {
		t.Errorf("SocketPath = %s", cfg.SocketPath)
	}
	if cfg.TmuxPrefix != "summ-" {
		t.Errorf("TmuxPrefix = %s, want summ-", cfg.TmuxPrefix)
	}
	if cfg.CleanupRetentionHours != 24 {
		t.Errorf("CleanupRetentionHours = %d, want 24", cfg.CleanupRetentionHours)
	}
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv(EnvHome, base)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseDir != base {
		t.Errorf("BaseDir = %s, want %s", cfg.BaseDir, base)
	}
}

func TestLoadFromTomlOverride(t *testing.T) {
	base := t.TempDir()
	toml := `
tmux_prefix = "work-"
cleanup_retention_hours = 72
`
	if err := os.WriteFile(filepath.Join(base, "config.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(base)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.TmuxPrefix != "work-" {
		t.Errorf("TmuxPrefix = %s, want work-", cfg.TmuxPrefix)
	}
	if cfg.CleanupRetentionHours != 72 {
		t.Errorf("CleanupRetentionHours = %d, want 72", cfg.CleanupRetentionHours)
	}
	// Untouched fields keep their defaults.
	if cfg.SocketPath != filepath.Join(base, "daemon.sock") {
		t.Errorf("SocketPath = %s", cfg.SocketPath)
	}
}

func TestLoadFromRejectsBadToml(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "config.toml"), []byte("{not toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(base); err == nil {
		t.Fatal("expected error for malformed config.toml")
	}
}

func TestSessionPathHelpers(t *testing.T) {
	base := t.TempDir()
	cfg, err := LoadFrom(base)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	id := "session_ab12cd34"
	if got := cfg.SessionDir(id); got != filepath.Join(base, "sessions", id) {
		t.Errorf("SessionDir = %s", got)
	}
	if got := cfg.SessionMetaPath(id); got != filepath.Join(base, "sessions", id, "meta.json") {
		t.Errorf("SessionMetaPath = %s", got)
	}
	if got := cfg.SessionStatusPath(id); got != filepath.Join(base, "sessions", id, "runtime", "status.json") {
		t.Errorf("SessionStatusPath = %s", got)
	}
	if got := cfg.SessionLogPath(id); got != filepath.Join(base, "logs", id+".log") {
		t.Errorf("SessionLogPath = %s", got)
	}
	if got := cfg.TmuxSessionName(id); got != "summ-"+id {
		t.Errorf("TmuxSessionName = %s", got)
	}
	if got := cfg.HookScriptPath(); got != filepath.Join(base, "bin", "summ-hook") {
		t.Errorf("HookScriptPath = %s", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "home")
	cfg, err := LoadFrom(base)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.SessionsDir, cfg.LogsDir, cfg.BinDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}
}
