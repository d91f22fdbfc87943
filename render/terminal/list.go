package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sonnes/claude-export/core"
)

// SessionRow is one line of a session listing.
type SessionRow struct {
	Session  core.Session
	Exported bool
}

// RenderSessions writes one row per session: export marker, date, short id,
// message count, size and the first summary.
func (r *Renderer) RenderSessions(w io.Writer, rows []SessionRow) {
	width := r.termWidth()
	if len(rows) == 0 {
		fmt.Fprintln(w, styleMeta.Render("No sessions."))
		return
	}
	for _, row := range rows {
		s := row.Session
		mark := styleMeta.Render("○")
		if row.Exported {
			mark = stylePublic.Render("●")
		}
		prefix := fmt.Sprintf("%s %s  %s  %s",
			mark,
			s.DateISO(r.Location),
			styleTitle.Render(s.ShortID()),
			styleMeta.Render(fmt.Sprintf("%4d msgs %6s", s.MessageCount, s.Size())),
		)
		line := prefix
		if len(s.Summaries) > 0 {
			rest := width - lipgloss.Width(prefix) - 2
			line += "  " + truncate(r.Redactor.String(s.Summaries[0]), rest)
		}
		fmt.Fprintln(w, line)
	}
}

// RenderDialogs writes one row per exported document: visibility badge,
// filename, size and short summary.
func (r *Renderer) RenderDialogs(w io.Writer, dialogs []core.Dialog) {
	width := r.termWidth()
	if len(dialogs) == 0 {
		fmt.Fprintln(w, styleMeta.Render("No exported dialogs."))
		return
	}
	for _, d := range dialogs {
		badge := stylePrivate.Render("PRIVATE")
		if d.Public {
			badge = stylePublic.Render("PUBLIC") + " "
		}
		prefix := fmt.Sprintf("%s  %s  %s", badge, d.Filename, styleMeta.Render(fmt.Sprintf("%6s", d.Size())))
		line := prefix
		if s := strings.TrimSpace(d.SummaryShort); s != "" {
			rest := width - lipgloss.Width(prefix) - 2
			line += "  " + truncate(s, rest)
		}
		fmt.Fprintln(w, line)
	}
}
