// Package install wires claude-export into a project: it creates the dialog
// folder and adds a Claude Code Stop hook that syncs the current session
// after every response.
package install

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sonnes/claude-export/visibility"
)

// HookEvent is the Claude Code hook the sync script is registered under.
const HookEvent = "Stop"

const scriptName = "claude-export-sync.sh"

// Config holds the settings for the install command.
type Config struct {
	Dir     string             // project root (git root or working directory if empty)
	Binary  string             // command the hook runs, default "claude-export"
	Tracker visibility.Tracker // creates the dialog folder
}

// Result reports what Run set up.
type Result struct {
	Dir          string
	DialogFolder string
	Script       string
	Settings     string
}

// Run executes the full install sequence. Running it again is a no-op.
func Run(cfg Config) (*Result, error) {
	if cfg.Dir == "" {
		dir, err := projectRoot()
		if err != nil {
			return nil, err
		}
		cfg.Dir = dir
	}
	if cfg.Binary == "" {
		cfg.Binary = "claude-export"
	}
	if cfg.Tracker == nil {
		cfg.Tracker = &visibility.Gitignore{}
	}

	res := &Result{
		Dir:      cfg.Dir,
		Script:   filepath.Join(cfg.Dir, ".claude", "hooks", scriptName),
		Settings: filepath.Join(cfg.Dir, ".claude", "settings.json"),
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"create dialog folder", func() (err error) {
			res.DialogFolder, err = cfg.Tracker.EnsureFolder(cfg.Dir)
			return err
		}},
		{"install Claude Code hook", func() error { return installClaudeHook(cfg.Dir, cfg.Binary) }},
	}

	for _, s := range steps {
		if err := s.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	return res, nil
}

// projectRoot returns the top-level directory of the current git repo, or
// the working directory outside a repo.
func projectRoot() (string, error) {
	if out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output(); err == nil {
		return strings.TrimSpace(string(out)), nil
	}
	return os.Getwd()
}

// claudeSettings represents the structure of .claude/settings.json relevant to hooks.
type claudeSettings struct {
	Hooks map[string][]matcherGroup `json:"hooks,omitempty"`
}

type matcherGroup struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []hookHandler `json:"hooks"`
}

type hookHandler struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// installClaudeHook writes the sync script and registers it as a Stop hook
// in .claude/settings.json, keeping every other setting intact.
func installClaudeHook(projectDir, binary string) error {
	hookDir := filepath.Join(projectDir, ".claude", "hooks")
	if err := os.MkdirAll(hookDir, 0o755); err != nil {
		return err
	}

	scriptPath := filepath.Join(hookDir, scriptName)
	if err := os.WriteFile(scriptPath, []byte(buildSyncScript(binary)), 0o755); err != nil {
		return err
	}

	settingsPath := filepath.Join(projectDir, ".claude", "settings.json")
	var settings claudeSettings

	data, err := os.ReadFile(settingsPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("parse %s: %w", settingsPath, err)
		}
	}

	if settings.Hooks == nil {
		settings.Hooks = make(map[string][]matcherGroup)
	}

	handler := hookHandler{
		Type:    "command",
		Command: `"$CLAUDE_PROJECT_DIR"/.claude/hooks/` + scriptName,
	}

	for _, mg := range settings.Hooks[HookEvent] {
		for _, h := range mg.Hooks {
			if h.Command == handler.Command {
				return nil // already installed
			}
		}
	}

	settings.Hooks[HookEvent] = append(settings.Hooks[HookEvent], matcherGroup{
		Hooks: []hookHandler{handler},
	})

	// Merge hooks into existing settings (preserve other fields)
	fullSettings := make(map[string]any)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fullSettings); err != nil {
			return fmt.Errorf("parse %s: %w", settingsPath, err)
		}
	}
	fullSettings["hooks"] = settings.Hooks

	out, err := json.MarshalIndent(fullSettings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(settingsPath, append(out, '\n'), 0o644)
}

// buildSyncScript generates the hook script. Hook failures must never block
// Claude Code, so the script always exits 0.
func buildSyncScript(binary string) string {
	return fmt.Sprintf(`#!/bin/bash
# Installed by claude-export install. Syncs the current session into dialog/.
cat > /dev/null

if [ -z "$CLAUDE_PROJECT_DIR" ]; then
  exit 0
fi

if ! command -v %[1]s > /dev/null 2>&1; then
  exit 0
fi

%[1]s sync --project "$CLAUDE_PROJECT_DIR" > /dev/null 2>&1 || true
exit 0
`, binary)
}
