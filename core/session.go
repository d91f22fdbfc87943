package core

import (
	"fmt"
	"strings"
	"time"
)

// MaxSummaries caps how many summary strings a Session carries.
const MaxSummaries = 5

// Session describes one log file. It is recomputed on every discovery call
// and never persisted; only its Markdown rendering is.
type Session struct {
	ID            string    // log filename without .jsonl
	Filename      string    // log filename
	Path          string    // absolute path of the log file
	ProjectDir    string    // container directory name, e.g. "-Users-alex-Code-App"
	ProjectName   string    // "App"
	ProjectPath   string    // "/Users/alex/Code/App"
	FirstDialogAt time.Time // first user/assistant timestamp, else file mtime
	ModTime       time.Time
	SizeBytes     int64
	MessageCount  int // user + assistant records only
	Summaries     []string
}

// NewSession derives session metadata from a parsed log. modTime is used as
// the session date when the log has no dialog records.
func NewSession(id, path, projectDir string, size int64, modTime time.Time, records []Record) Session {
	s := Session{
		ID:            id,
		Filename:      id + ".jsonl",
		Path:          path,
		ProjectDir:    projectDir,
		ProjectName:   ProjectName(projectDir),
		ProjectPath:   ProjectPath(projectDir),
		FirstDialogAt: modTime,
		ModTime:       modTime,
		SizeBytes:     size,
	}

	first := true
	for _, r := range records {
		switch {
		case r.IsDialog():
			if first {
				if !r.Timestamp.IsZero() {
					s.FirstDialogAt = r.Timestamp.Time
				}
				first = false
			}
			s.MessageCount++
		case r.Type == RecordSummary && r.Summary != "":
			if len(s.Summaries) < MaxSummaries {
				s.Summaries = append(s.Summaries, r.Summary)
			}
		}
	}
	return s
}

// ShortID is the first 8 characters of the session id. Two sessions sharing
// a prefix collide in the export folder; this is a known limitation.
func (s Session) ShortID() string {
	return ShortID(s.ID)
}

// DateISO formats the first-dialog date as YYYY-MM-DD in loc.
func (s Session) DateISO(loc *time.Location) string {
	return s.FirstDialogAt.In(location(loc)).Format(time.DateOnly)
}

// ExportFilename is the Markdown filename for the session, e.g.
// "2025-12-05_session-abc12345.md".
func (s Session) ExportFilename(loc *time.Location) string {
	return s.DateISO(loc) + "_session-" + s.ShortID() + ".md"
}

// Size formats the log size in whole kilobytes.
func (s Session) Size() string {
	return FormatSize(s.SizeBytes)
}

// ShortID truncates id to 8 characters.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatSize renders a byte count as "12KB".
func FormatSize(n int64) string {
	return fmt.Sprintf("%.0fKB", float64(n)/1024)
}

// ProjectName returns the last dash-separated segment of an encoded project
// directory: "-Users-alex-Code-App" → "App".
func ProjectName(projectDir string) string {
	parts := strings.FieldsFunc(projectDir, func(r rune) bool { return r == '-' })
	if len(parts) == 0 {
		return projectDir
	}
	return parts[len(parts)-1]
}

// ProjectPath decodes an encoded project directory back into a filesystem
// path: "-Users-alex-Code-App" → "/Users/alex/Code/App". The encoding is
// lossy, so dashes in the original path come back as slashes.
func ProjectPath(projectDir string) string {
	if strings.HasPrefix(projectDir, "-") {
		projectDir = "/" + projectDir[1:]
	}
	return strings.ReplaceAll(projectDir, "-", "/")
}

// EncodeProjectPath is the inverse of ProjectPath: "/Users/alex/Code/App" →
// "-Users-alex-Code-App".
func EncodeProjectPath(path string) string {
	return strings.ReplaceAll(path, "/", "-")
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
