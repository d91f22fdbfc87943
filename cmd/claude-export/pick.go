package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/koki-develop/go-fzf"
	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/export"
	"github.com/sonnes/claude-export/redact"
	"github.com/sonnes/claude-export/render/terminal"
)

// errNoPick is returned when --pick finds nothing to choose from.
var errNoPick = errors.New("no sessions to pick from")

// pickSession presents the project's sessions in a fuzzy finder with a
// rendered transcript preview. ok is false when the user cancels.
func (a *app) pickSession(e *export.Exporter, redactor *redact.Redactor, source, target string) (core.Session, bool, error) {
	sessions, err := e.Sessions(source)
	if err != nil {
		return core.Session{}, false, err
	}
	if len(sessions) == 0 {
		return core.Session{}, false, errNoPick
	}

	f, err := fzf.New(
		fzf.WithPrompt("Sessions > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(1),
	)
	if err != nil {
		return core.Session{}, false, err
	}

	idxs, err := f.Find(
		sessions,
		func(i int) string {
			return a.pickLine(e, redactor, sessions[i], target)
		},
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(sessions) {
				return ""
			}
			return a.preview(e, redactor, sessions[i], w)
		}),
	)
	if err != nil {
		return core.Session{}, false, err
	}
	if len(idxs) == 0 {
		return core.Session{}, false, nil
	}
	return sessions[idxs[0]], true, nil
}

func (a *app) pickLine(e *export.Exporter, redactor *redact.Redactor, s core.Session, target string) string {
	mark := " "
	if ok, _ := e.IsExported(s.ID, target); ok {
		mark = "*"
	}
	title := "(no summary)"
	if len(s.Summaries) > 0 {
		title = redactor.String(s.Summaries[0])
	}
	return fmt.Sprintf("%s %s  %s  %4d msgs  %s", mark, s.DateISO(a.loc), s.ShortID(), s.MessageCount, title)
}

// preview renders the session as terminal message cards sized to the
// preview window.
func (a *app) preview(e *export.Exporter, redactor *redact.Redactor, s core.Session, width int) string {
	_, records, err := e.Reader.ReadSession(s.Path)
	if err != nil {
		return err.Error()
	}

	r := &terminal.Renderer{Width: width, Location: a.loc, Redactor: redactor}

	var b strings.Builder
	if err := r.Render(&b, &core.Transcript{Session: s, Records: records}); err != nil {
		return err.Error()
	}
	return b.String()
}
