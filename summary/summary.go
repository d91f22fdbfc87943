// Package summary reads and writes the summary fields embedded as HTML
// comments in the header of an exported dialog document.
//
// Only the header is ever consulted: the lines before "## Dialog", bounded to
// the first 100 lines. Conversation text that happens to contain a summary
// comment can therefore never be mistaken for metadata.
package summary

import (
	"os"
	"regexp"
	"strings"
)

// Status values of the SUMMARY field.
const (
	StatusPending = "PENDING"
	StatusActive  = "ACTIVE"
)

// headerLimit bounds the header scan.
const headerLimit = 100

const dialogMarker = "## Dialog"

var (
	statusRE    = regexp.MustCompile(`(?m)^<!-- SUMMARY: (.*?) -->$`)
	shortRE     = regexp.MustCompile(`(?m)^<!-- SUMMARY_SHORT: (.*?) -->$`)
	fullRE      = regexp.MustCompile(`(?m)^<!-- SUMMARY_FULL: (.*?) -->$`)
	summariesRE = regexp.MustCompile(`## Summaries\n+- (.+)`)
)

// Header returns the header section of a document.
func Header(content string) string {
	lines := strings.Split(content, "\n")
	n := min(len(lines), headerLimit)
	for i := 0; i < n; i++ {
		if strings.TrimSpace(lines[i]) == dialogMarker {
			return strings.Join(lines[:i], "\n")
		}
	}
	return strings.Join(lines[:n], "\n")
}

// Has reports whether the document carries a generated summary. The first
// SUMMARY status line decides: ACTIVE counts, PENDING does not. Without a
// status line any legacy summary field counts. Only whole comment lines are
// read, so a status quoted inside a summary bullet is ignored.
func Has(content string) bool {
	header := Header(content)
	if status, ok := field(header, statusRE); ok {
		switch status {
		case StatusActive:
			return true
		case StatusPending:
			return false
		}
		return true
	}
	return shortRE.MatchString(header) ||
		fullRE.MatchString(header) ||
		summariesRE.MatchString(header)
}

// Extract returns the SUMMARY field, falling back to the first bullet of a
// legacy "## Summaries" section.
func Extract(content string) (string, bool) {
	header := Header(content)
	if v, ok := field(header, statusRE); ok {
		return v, true
	}
	return field(header, summariesRE)
}

// ExtractShort returns the SUMMARY_SHORT field, falling back to Extract.
func ExtractShort(content string) (string, bool) {
	if v, ok := field(Header(content), shortRE); ok {
		return v, true
	}
	return Extract(content)
}

// ExtractFull returns the SUMMARY_FULL field, falling back to Extract.
func ExtractFull(content string) (string, bool) {
	if v, ok := field(Header(content), fullRE); ok {
		return v, true
	}
	return Extract(content)
}

// Set replaces the SUMMARY line in the header, or prepends one when the
// header has none.
func Set(content, value string) string {
	line := "<!-- SUMMARY: " + value + " -->"
	if out, ok := replaceInHeader(content, statusRE, line); ok {
		return out
	}
	return line + "\n\n" + content
}

// SetShort replaces the SUMMARY_SHORT line in the header, or inserts one
// after the SUMMARY line.
func SetShort(content, value string) string {
	return setField(content, shortRE, "<!-- SUMMARY_SHORT: "+value+" -->")
}

// SetFull replaces the SUMMARY_FULL line in the header, or inserts one after
// the SUMMARY line.
func SetFull(content, value string) string {
	return setField(content, fullRE, "<!-- SUMMARY_FULL: "+value+" -->")
}

func setField(content string, re *regexp.Regexp, line string) string {
	if out, ok := replaceInHeader(content, re, line); ok {
		return out
	}
	header := Header(content)
	if loc := statusRE.FindStringIndex(header); loc != nil {
		return content[:loc[1]] + "\n" + line + content[loc[1]:]
	}
	return line + "\n" + content
}

// replaceInHeader replaces the first match of re, provided it lies inside the
// header. The header is always a prefix of content, so offsets carry over.
func replaceInHeader(content string, re *regexp.Regexp, line string) (string, bool) {
	loc := re.FindStringIndex(Header(content))
	if loc == nil {
		return content, false
	}
	return content[:loc[0]] + line + content[loc[1]:], true
}

func field(header string, re *regexp.Regexp) (string, bool) {
	m := re.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// File helpers. Each reads the whole document; the setters rewrite it.

// HasSummary reports whether the document at path has a generated summary.
func HasSummary(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return Has(string(content)), nil
}

// GetSummary returns the SUMMARY field of the document at path.
func GetSummary(path string) (string, bool, error) {
	return get(path, Extract)
}

// GetShort returns the short summary of the document at path.
func GetShort(path string) (string, bool, error) {
	return get(path, ExtractShort)
}

// GetFull returns the full summary of the document at path.
func GetFull(path string) (string, bool, error) {
	return get(path, ExtractFull)
}

// SetSummary updates the SUMMARY field of the document at path.
func SetSummary(path, value string) error {
	return update(path, value, Set)
}

// SetShortSummary updates the SUMMARY_SHORT field of the document at path.
func SetShortSummary(path, value string) error {
	return update(path, value, SetShort)
}

// SetFullSummary updates the SUMMARY_FULL field of the document at path.
func SetFullSummary(path, value string) error {
	return update(path, value, SetFull)
}

func get(path string, extract func(string) (string, bool)) (string, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	v, ok := extract(string(content))
	return v, ok, nil
}

func update(path, value string, set func(string, string) string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(set(string(content), sanitize(value))), info.Mode().Perm())
}

// sanitize keeps a value on one line and out of the comment terminator, so
// it can be read back by the field patterns.
func sanitize(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	return strings.ReplaceAll(value, "-->", "--&gt;")
}
