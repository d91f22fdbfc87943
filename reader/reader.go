// Package reader defines the interface for parsing session logs and
// discovering the sessions that belong to a project.
package reader

import "github.com/sonnes/claude-export/core"

// Reader parses session logs and discovers sessions.
type Reader interface {
	// ReadFile parses a single log file into records, in file order.
	// Malformed lines are dropped; only failing to open the file is an error.
	ReadFile(path string) ([]core.Record, error)

	// ReadSession parses a single log file and derives its session metadata.
	ReadSession(path string) (core.Session, []core.Record, error)

	// ReadProject returns every session of a project directory, newest
	// modification first. A missing directory yields no sessions.
	ReadProject(projectDir string) ([]core.Session, error)

	// ResolveProject maps a real project path to its log directory name.
	ResolveProject(realPath string) (string, bool)
}
