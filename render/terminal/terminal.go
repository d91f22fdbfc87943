// Package terminal renders sessions, transcripts and exported dialogs as
// ANSI-colored text for the CLI.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/redact"
)

const defaultWidth = 100

// Renderer pretty-prints transcripts as message cards and lists as one row
// per entry.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int

	// Location is used for every displayed time. Nil means local time.
	Location *time.Location

	// Redactor is applied to message text. Nil disables redaction.
	Redactor *redact.Redactor
}

// New creates a terminal Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render writes the transcript as ANSI-colored message cards to w.
func (r *Renderer) Render(w io.Writer, t *core.Transcript) error {
	width := r.termWidth()

	r.writeHeader(w, t.Session)

	var prev time.Time
	for _, rec := range t.Dialog() {
		var duration string
		if !rec.Timestamp.IsZero() && !prev.IsZero() {
			duration = formatDuration(rec.Timestamp.Sub(prev))
		}
		if !rec.Timestamp.IsZero() {
			prev = rec.Timestamp.Time
		}
		r.writeRecord(w, rec, duration, width)
	}

	fmt.Fprintln(w)
	return nil
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

func (r *Renderer) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

// writeHeader renders the session metadata block.
func (r *Renderer) writeHeader(w io.Writer, s core.Session) {
	title := "Session " + s.ShortID()
	if len(s.Summaries) > 0 {
		title = r.Redactor.String(s.Summaries[0])
	}
	fmt.Fprintln(w, styleTitle.Render(title))

	parts := []string{s.ProjectName}
	if !s.FirstDialogAt.IsZero() {
		parts = append(parts, formatTime(s.FirstDialogAt.In(r.location())))
	}
	parts = append(parts, fmt.Sprintf("%d messages", s.MessageCount), s.Size())
	fmt.Fprintln(w, styleMeta.Render(strings.Join(parts, "  ")))
}

// writeSeparator renders a horizontal rule.
func writeSeparator(w io.Writer, width int) {
	n := min(width, 72)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleSeparator.Render(strings.Repeat("─", n)))
}

// writeRecord renders a single message card: role badge, metadata, content
// blocks. Records with nothing to show are skipped.
func (r *Renderer) writeRecord(w io.Writer, rec core.Record, duration string, width int) bool {
	contentWidth := max(width-4, 40)

	var lines []string
	if rec.Message != nil {
		c := rec.Message.Content
		if c.Blocks == nil {
			if text := strings.TrimSpace(c.String); text != "" {
				lines = append(lines, truncate(r.Redactor.String(text), contentWidth))
			}
		}
		for _, b := range c.Blocks {
			switch b.Type {
			case core.BlockText:
				if text := strings.TrimSpace(b.Text); text != "" {
					lines = append(lines, truncate(r.Redactor.String(text), contentWidth))
				}
			case core.BlockThinking:
				lines = append(lines, styleThinking.Render("▸ Thinking..."))
			case core.BlockToolUse:
				lines = append(lines, styleToolName.Render("⚙ tool call"))
			}
		}
	}

	if len(lines) == 0 {
		return false
	}

	writeSeparator(w, width)

	header := roleBadge(rec.Type)
	var meta []string
	if !rec.Timestamp.IsZero() {
		meta = append(meta, formatTime(rec.Timestamp.In(r.location())))
	}
	if duration != "" {
		meta = append(meta, styleDuration.Render(duration))
	}
	if len(meta) > 0 {
		header += "    " + styleMeta.Render(strings.Join(meta, "    "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, " "+header)

	for _, line := range lines {
		fmt.Fprintln(w, "  "+line)
	}
	return true
}

func roleBadge(typ core.RecordType) string {
	switch typ {
	case core.RecordUser:
		return styleUserBadge.Render("USER")
	case core.RecordAssistant:
		return styleAssistantBadge.Render("CLAUDE")
	default:
		return styleMeta.Render(strings.ToUpper(string(typ)))
	}
}

// truncate shortens text to maxWidth, appending "..." if needed.
// Multi-line text is reduced to the first line.
func truncate(s string, maxWidth int) string {
	if maxWidth < 4 {
		maxWidth = 4
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func formatTime(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
