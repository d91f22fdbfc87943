// Package markdown renders a session transcript as the Markdown document that
// is stored in a project's dialog folder.
package markdown

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/redact"
	"github.com/sonnes/claude-export/summary"
)

// Role labels that open every dialog block. CountDialogBlocks relies on them.
const (
	UserLabel      = "### 👤 **User**"
	AssistantLabel = "### 🤖 **Claude**"
)

// Placeholder written into new documents until a summarizer fills it in.
const summaryPlaceholder = "Auto-generate this"

const footer = "*Exported with claude-export*"

// Date layouts of the document header.
const (
	timeLayout     = "02.01.2006, 15:04"
	exportedLayout = "02.01.2006, 15:04:05"
	dateLayout     = "02.01.2006"
)

// Renderer writes transcripts as Markdown. The zero value renders without
// redaction, in local time, stamped with the current time.
type Renderer struct {
	Author   core.Author
	Now      func() time.Time
	Location *time.Location
	Redactor *redact.Redactor // nil disables redaction
}

// Render writes the document for t to w. For a fixed Author, Now and Location
// the output is byte-identical across runs.
func (r *Renderer) Render(w io.Writer, t *core.Transcript) error {
	loc := r.location()
	s := t.Session
	dialog := t.Dialog()
	summaries := t.Summaries()

	lines := []string{
		"<!-- AUTHOR: " + r.Author.String() + " -->",
		"<!-- SUMMARY: " + summary.StatusPending + " -->",
		"<!-- SUMMARY_SHORT: " + summaryPlaceholder + " -->",
		"<!-- SUMMARY_FULL: " + summaryPlaceholder + " -->",
		"",
		"# Claude Code Session",
		"",
		"**Author:** " + r.Author.Name,
		"**Project:** " + s.ProjectName,
		"**Path:** `" + s.ProjectPath + "`",
		"**Session ID:** `" + s.ID + "`",
		"**Date:** " + s.FirstDialogAt.In(loc).Format(timeLayout),
		fmt.Sprintf("**Messages:** %d", len(dialog)),
		"**Exported:** " + r.now().In(loc).Format(exportedLayout),
		"",
	}

	if len(summaries) > 0 {
		lines = append(lines, "## Summaries", "")
		for _, rec := range summaries {
			lines = append(lines, "- "+r.Redactor.String(rec.Summary))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "---", "", "## Dialog", "")

	for _, rec := range dialog {
		text := rec.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		label := UserLabel
		if rec.Type == core.RecordAssistant {
			label = AssistantLabel
		}
		lines = append(lines,
			fmt.Sprintf("%s *(%s)*", label, rec.Timestamp.In(loc).Format(timeLayout)),
			"",
			r.Redactor.String(text),
			"",
			"---",
			"",
		)
	}

	lines = append(lines, "", footer, "")

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Renderer) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

// CountDialogBlocks counts the dialog blocks of a rendered document.
func CountDialogBlocks(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, UserLabel) || strings.HasPrefix(line, AssistantLabel) {
			n++
		}
	}
	return n
}

var (
	dateTimeRE = regexp.MustCompile(`\*\*Date:\*\*\s*(\d{2}\.\d{2}\.\d{4}),\s*(\d{2}:\d{2})`)
	exportedRE = regexp.MustCompile(`\*\*Exported:\*\*\s*(\d{2}\.\d{2}\.\d{4}),\s*(\d{2}:\d{2}:\d{2})`)
	dateOnlyRE = regexp.MustCompile(`\*\*Date:\*\*\s*(\d{2}\.\d{2}\.\d{4})`)
)

// ParseSessionTime reads the session time from a document header: the
// **Date:** line, else the **Exported:** line, else a date-only **Date:**.
// It returns false when none is present.
func ParseSessionTime(content string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if m := dateTimeRE.FindStringSubmatch(content); m != nil {
		if t, err := time.ParseInLocation(timeLayout, m[1]+", "+m[2], loc); err == nil {
			return t, true
		}
	}
	if m := exportedRE.FindStringSubmatch(content); m != nil {
		if t, err := time.ParseInLocation(exportedLayout, m[1]+", "+m[2], loc); err == nil {
			return t, true
		}
	}
	if m := dateOnlyRE.FindStringSubmatch(content); m != nil {
		if t, err := time.ParseInLocation(dateLayout, m[1], loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
