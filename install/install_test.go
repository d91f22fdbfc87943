package install

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sonnes/claude-export/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()

	res, err := Run(Config{Dir: dir})
	require.NoError(t, err)

	t.Run("dialog folder exists", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "dialog"), res.DialogFolder)
		info, err := os.Stat(res.DialogFolder)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("hook script installed", func(t *testing.T) {
		info, err := os.Stat(res.Script)
		require.NoError(t, err)
		assert.True(t, info.Mode()&0o100 != 0, "script should be executable")

		data, err := os.ReadFile(res.Script)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "#!/bin/bash\n"))
		assert.Contains(t, string(data), `claude-export sync --project "$CLAUDE_PROJECT_DIR"`)
	})

	t.Run("settings registers Stop hook", func(t *testing.T) {
		data, err := os.ReadFile(res.Settings)
		require.NoError(t, err)

		var settings claudeSettings
		require.NoError(t, json.Unmarshal(data, &settings))
		require.Len(t, settings.Hooks["Stop"], 1)
		require.Len(t, settings.Hooks["Stop"][0].Hooks, 1)
		h := settings.Hooks["Stop"][0].Hooks[0]
		assert.Equal(t, "command", h.Type)
		assert.Equal(t, `"$CLAUDE_PROJECT_DIR"/.claude/hooks/claude-export-sync.sh`, h.Command)
	})
}

func TestRunCustomFolderAndBinary(t *testing.T) {
	dir := t.TempDir()

	res, err := Run(Config{Dir: dir, Binary: "/opt/bin/ce", Tracker: &visibility.Gitignore{Folder: "sessions"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sessions"), res.DialogFolder)

	data, err := os.ReadFile(res.Script)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/opt/bin/ce sync")
}

func TestInstallClaudeHook(t *testing.T) {
	t.Run("preserves existing settings and hooks", func(t *testing.T) {
		dir := t.TempDir()
		claudeDir := filepath.Join(dir, ".claude")
		require.NoError(t, os.MkdirAll(claudeDir, 0o755))

		existing := `{"permissions":{"allow":["Bash"]},"hooks":{"Stop":[{"hooks":[{"type":"command","command":"echo done"}]}]}}`
		require.NoError(t, os.WriteFile(filepath.Join(claudeDir, "settings.json"), []byte(existing), 0o644))

		require.NoError(t, installClaudeHook(dir, "claude-export"))

		data, err := os.ReadFile(filepath.Join(claudeDir, "settings.json"))
		require.NoError(t, err)

		var full map[string]any
		require.NoError(t, json.Unmarshal(data, &full))
		assert.Contains(t, full, "permissions")

		var settings claudeSettings
		require.NoError(t, json.Unmarshal(data, &settings))
		require.Len(t, settings.Hooks["Stop"], 2)
		assert.Equal(t, "echo done", settings.Hooks["Stop"][0].Hooks[0].Command)
	})

	t.Run("idempotent", func(t *testing.T) {
		dir := t.TempDir()

		require.NoError(t, installClaudeHook(dir, "claude-export"))
		require.NoError(t, installClaudeHook(dir, "claude-export"))

		data, err := os.ReadFile(filepath.Join(dir, ".claude", "settings.json"))
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), scriptName))
	})

	t.Run("rejects malformed settings", func(t *testing.T) {
		dir := t.TempDir()
		claudeDir := filepath.Join(dir, ".claude")
		require.NoError(t, os.MkdirAll(claudeDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(claudeDir, "settings.json"), []byte("{not json"), 0o644))

		assert.Error(t, installClaudeHook(dir, "claude-export"))
	})
}
