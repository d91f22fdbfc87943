// Package claude reads Claude Code session logs (JSONL in ~/.claude/projects/).
package claude

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/claude-export/core"
)

// Reader reads Claude Code JSONL session files.
type Reader struct {
	// Dir overrides the default session directory (~/.claude/projects/).
	Dir string

	// Logger receives per-file discovery failures. Defaults to log.Default().
	Logger *log.Logger
}

// ReadFile parses a Claude Code JSONL file. Each line is decoded on its own;
// blank or malformed lines, including a partially written last line, are
// dropped.
func (r *Reader) ReadFile(path string) ([]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	records, err := scanRecords(f)
	if err != nil {
		return nil, fmt.Errorf("scan session file: %w", err)
	}
	return records, nil
}

// ReadSession parses the log at path and derives its session metadata. The
// project directory is taken from the parent directory name.
func (r *Reader) ReadSession(path string) (core.Session, []core.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return core.Session{}, nil, fmt.Errorf("stat session file: %w", err)
	}
	records, err := r.ReadFile(path)
	if err != nil {
		return core.Session{}, nil, err
	}

	id := strings.TrimSuffix(filepath.Base(path), ".jsonl")
	projectDir := filepath.Base(filepath.Dir(path))
	s := core.NewSession(id, path, projectDir, info.Size(), info.ModTime(), records)
	return s, records, nil
}

// ReadProject returns all sessions in a project directory, most recently
// modified first. Sub-agent logs (agent-*.jsonl) are skipped. A file that
// cannot be read is logged and skipped.
func (r *Reader) ReadProject(projectDir string) ([]core.Session, error) {
	dir := filepath.Join(r.dir(), projectDir)

	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project directory: %w", err)
	}

	var sessions []core.Session
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !isSessionLog(name) {
			continue
		}
		path := filepath.Join(dir, name)
		s, _, err := r.ReadSession(path)
		if err != nil {
			r.logger().Error("skip session log", "file", path, "err", err)
			continue
		}
		sessions = append(sessions, s)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].ModTime.After(sessions[j].ModTime)
	})
	return sessions, nil
}

// CurrentSession returns the session whose log was modified most recently.
func (r *Reader) CurrentSession(projectDir string) (core.Session, bool, error) {
	sessions, err := r.ReadProject(projectDir)
	if err != nil || len(sessions) == 0 {
		return core.Session{}, false, err
	}
	return sessions[0], true, nil
}

// ResolveProject finds the log directory for a real project path. Claude
// encodes "/Users/alex/Code/App" as "-Users-alex-Code-App"; the encoding of
// underscores has varied, so several spellings are tried before falling back
// to decoding every directory name.
func (r *Reader) ResolveProject(realPath string) (string, bool) {
	base := r.dir()
	exists := func(name string) bool {
		info, err := os.Stat(filepath.Join(base, name))
		return err == nil && info.IsDir()
	}

	normalized := core.EncodeProjectPath(realPath)
	if exists(normalized) {
		return normalized, true
	}

	withLeading := "-" + strings.TrimPrefix(normalized, "-")
	if exists(withLeading) {
		return withLeading, true
	}

	if withDashes := strings.ReplaceAll(normalized, "_", "-"); withDashes != normalized && exists(withDashes) {
		return withDashes, true
	}

	if withUnderscores := dashToUnderscore.ReplaceAllString(normalized, "_$1"); withUnderscores != normalized && exists(withUnderscores) {
		return withUnderscores, true
	}

	dirs, err := os.ReadDir(base)
	if err != nil {
		return "", false
	}
	abs, _ := filepath.Abs(realPath)
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		decoded := core.ProjectPath(d.Name())
		if decoded == realPath || decoded == abs {
			return d.Name(), true
		}
	}
	return "", false
}

// dashToUnderscore matches a dash followed by any character, which is how the
// underscore variant of an encoded path is tried.
var dashToUnderscore = regexp.MustCompile(`-([^/])`)

// LogDir returns the absolute path of a project's log directory.
func (r *Reader) LogDir(projectDir string) string {
	return filepath.Join(r.dir(), projectDir)
}

func (r *Reader) dir() string {
	if r.Dir != "" {
		return r.Dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude", "projects")
}

func (r *Reader) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

func isSessionLog(name string) bool {
	return strings.HasSuffix(name, ".jsonl") && !strings.HasPrefix(name, "agent-")
}

// scanRecords decodes JSONL lines, dropping any that do not parse. Lines are
// read without a length cap: tool results regularly exceed bufio.Scanner's
// buffer.
func scanRecords(r io.Reader) ([]core.Record, error) {
	br := bufio.NewReader(r)
	records := []core.Record{}
	for {
		line, err := br.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var rec core.Record
			if jerr := json.Unmarshal(line, &rec); jerr == nil && rec.Type != "" {
				records = append(records, rec)
			}
		}
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
	}
}
