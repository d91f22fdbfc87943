// Package author determines who is exporting sessions.
package author

import (
	"os/exec"
	"os/user"
	"strings"

	"github.com/sonnes/claude-export/core"
)

// Unknown is the name used when no identity can be found.
const Unknown = "Unknown"

// Lookup returns the git identity configured for dir, falling back to the OS
// user and then to Unknown. A git email without a git name is not used. It
// never fails.
func Lookup(dir string) core.Author {
	if name, _ := gitConfig(dir, "user.name"); name != "" {
		email, _ := gitConfig(dir, "user.email")
		return core.Author{Name: name, Email: email}
	}

	if u, err := user.Current(); err == nil {
		if n := strings.TrimSpace(u.Name); n != "" {
			return core.Author{Name: n}
		}
		if u.Username != "" {
			return core.Author{Name: u.Username}
		}
	}
	return core.Author{Name: Unknown}
}

// gitConfig runs `git config <key>` in dir and returns its trimmed output.
func gitConfig(dir, key string) (string, error) {
	cmd := exec.Command("git", "config", key)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
