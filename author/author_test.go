package author

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, name, email string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	cmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.name", name},
		{"git", "config", "user.email", email},
	}
	for _, args := range cmds {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run(), "setup: %v", args)
	}
	return dir
}

func TestLookupGitIdentity(t *testing.T) {
	dir := initRepo(t, "Ada Lovelace", "ada@example.com")

	a := Lookup(dir)
	assert.Equal(t, "Ada Lovelace", a.Name)
	assert.Equal(t, "ada@example.com", a.Email)
	assert.Equal(t, "Ada Lovelace <ada@example.com>", a.String())
}

func TestLookupNeverEmpty(t *testing.T) {
	a := Lookup(t.TempDir())
	assert.NotEmpty(t, a.Name)
}

func TestLookupIgnoresEmailWithoutName(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	global := filepath.Join(t.TempDir(), "gitconfig")
	require.NoError(t, os.WriteFile(global, nil, 0o644))
	t.Setenv("GIT_CONFIG_GLOBAL", global)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	dir := t.TempDir()
	for _, args := range [][]string{
		{"git", "init"},
		{"git", "config", "user.email", "ada@example.com"},
	} {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run(), "setup: %v", args)
	}

	a := Lookup(dir)
	assert.NotEmpty(t, a.Name)
	assert.Empty(t, a.Email)
	assert.Equal(t, a.Name, a.String())
}
