package core

import (
	"regexp"
	"time"
)

// Author identifies who exported a session.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// String renders "Name <email>", or just the name when no email is known.
func (a Author) String() string {
	if a.Email == "" {
		return a.Name
	}
	return a.Name + " <" + a.Email + ">"
}

// Dialog describes an exported Markdown document in a project's dialog folder.
type Dialog struct {
	Filename     string    `json:"filename"`
	Path         string    `json:"-"`
	Date         string    `json:"date"`      // from the filename, "Unknown" if it does not match
	SessionID    string    `json:"sessionId"` // short id from the filename
	Public       bool      `json:"isPublic"`
	SizeBytes    int64     `json:"-"`
	ModTime      time.Time `json:"-"`
	SessionTime  time.Time `json:"-"` // parsed from the document header, zero if absent
	Summary      string    `json:"summary"`
	SummaryShort string    `json:"summaryShort"`
	SummaryFull  string    `json:"summaryFull"`
}

// Size formats the document size in whole kilobytes.
func (d Dialog) Size() string {
	return FormatSize(d.SizeBytes)
}

var dialogFilenameRE = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_session-([a-f0-9]+)\.md$`)

// ParseDialogFilename splits "2025-12-05_session-abc12345.md" into its date
// and short session id. Names that do not follow the convention yield
// ("Unknown", filename, false).
func ParseDialogFilename(filename string) (date, shortID string, ok bool) {
	m := dialogFilenameRE.FindStringSubmatch(filename)
	if m == nil {
		return "Unknown", filename, false
	}
	return m[1], m[2], true
}
