package hooks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestScriptContent(t *testing.T) {
	for _, want := range []string{
		"#!/bin/bash",
		"session-start",
		"subagent-stop",
		"session-end",
		"write_status",
		"SUMM_RUNTIME_DIR",
		"status.json",
	} {
		if !strings.Contains(Script, want) {
			t.Errorf("hook script missing %q", want)
		}
	}
}

func TestInstallScript(t *testing.T) {
	base := t.TempDir()
	if err := InstallScript(base); err != nil {
		t.Fatalf("InstallScript: %v", err)
	}

	path := filepath.Join(base, "bin", "summ-hook")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("script not installed: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		t.Errorf("script not executable: %v", info.Mode())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "#!/bin/bash") {
		t.Error("script lost its shebang")
	}
}

func TestInstallScriptOverwrites(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "bin", "summ-hook")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n# old version\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := InstallScript(base); err != nil {
		t.Fatalf("InstallScript: %v", err)
	}
	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), "old version") {
		t.Error("stale script content survived reinstall")
	}
}

func TestDeployClaudeHooks(t *testing.T) {
	workspaceDir := filepath.Join(t.TempDir(), "workspace")
	runtimeDir := filepath.Join(t.TempDir(), "runtime")
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Deploy(workspaceDir, "claude", "session_abc", runtimeDir); err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	settingsPath := filepath.Join(workspaceDir, ".claude", "settings.local.json")
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("settings not written: %v", err)
	}

	var settings struct {
		Hooks map[string][]struct {
			Hooks []struct {
				Type    string `json:"type"`
				Command string `json:"command"`
			} `json:"hooks"`
		} `json:"hooks"`
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("settings not valid JSON: %v", err)
	}

	for _, event := range []string{"SessionStart", "Stop", "SubagentStop", "SessionEnd"} {
		entries, ok := settings.Hooks[event]
		if !ok || len(entries) == 0 || len(entries[0].Hooks) == 0 {
			t.Errorf("event %s not wired", event)
			continue
		}
		cmd := entries[0].Hooks[0].Command
		if entries[0].Hooks[0].Type != "command" {
			t.Errorf("%s hook type = %q", event, entries[0].Hooks[0].Type)
		}
		if !strings.Contains(cmd, "SUMM_SESSION_ID=session_abc") {
			t.Errorf("%s command missing session id: %q", event, cmd)
		}
		if !strings.Contains(cmd, "SUMM_RUNTIME_DIR="+runtimeDir) {
			t.Errorf("%s command missing runtime dir: %q", event, cmd)
		}
		if !strings.Contains(cmd, "summ-hook") {
			t.Errorf("%s command missing script: %q", event, cmd)
		}
	}

	// Event argument mapping.
	cmd := settings.Hooks["SubagentStop"][0].Hooks[0].Command
	if !strings.HasSuffix(cmd, " subagent-stop") {
		t.Errorf("SubagentStop command = %q, want subagent-stop argument", cmd)
	}
}

func TestDeployNonClaudeIsNoOp(t *testing.T) {
	workspaceDir := filepath.Join(t.TempDir(), "workspace")
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Deploy(workspaceDir, "aider", "session_abc", t.TempDir()); err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if _, err := os.Stat(filepath.Join(workspaceDir, ".claude")); !os.IsNotExist(err) {
		t.Error("hooks deployed for a CLI that does not support them")
	}
}
