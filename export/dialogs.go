package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/render/markdown"
	"github.com/sonnes/claude-export/summary"
)

// ExportedPath returns the document of sessionID in target, or "" when the
// session has not been exported. Documents are matched by the
// "session-<short id>" part of their filename.
func (e *Exporter) ExportedPath(sessionID, target string) (string, error) {
	files, err := e.Tracker.ListFiles(target)
	if err != nil {
		return "", err
	}
	needle := "session-" + core.ShortID(sessionID)
	for _, f := range files {
		if strings.Contains(filepath.Base(f), needle) {
			return f, nil
		}
	}
	return "", nil
}

// IsExported reports whether sessionID has a document in target.
func (e *Exporter) IsExported(sessionID, target string) (bool, error) {
	path, err := e.ExportedPath(sessionID, target)
	return path != "", err
}

// Dialogs describes every document in the dialog folder of target, in
// filename order. A document that cannot be read is logged and skipped.
func (e *Exporter) Dialogs(target string) ([]core.Dialog, error) {
	files, err := e.Tracker.ListFiles(target)
	if err != nil {
		return nil, err
	}
	dialogs := make([]core.Dialog, 0, len(files))
	for _, f := range files {
		d, err := e.Dialog(f, target)
		if err != nil {
			e.logger().Error("skip dialog", "file", f, "err", err)
			continue
		}
		dialogs = append(dialogs, d)
	}
	return dialogs, nil
}

// Dialog describes the document at path.
func (e *Exporter) Dialog(path, target string) (core.Dialog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return core.Dialog{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Dialog{}, err
	}
	content := string(data)

	public, err := e.Tracker.IsPublic(path, target)
	if err != nil {
		return core.Dialog{}, fmt.Errorf("check visibility: %w", err)
	}

	d := core.Dialog{
		Filename:  filepath.Base(path),
		Path:      path,
		Public:    public,
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}
	d.Date, d.SessionID, _ = core.ParseDialogFilename(d.Filename)
	d.SessionTime, _ = markdown.ParseSessionTime(content, e.Location)
	d.SummaryShort, _ = summary.ExtractShort(content)
	d.SummaryFull, _ = summary.ExtractFull(content)
	d.Summary = d.SummaryShort
	return d, nil
}

// SetPublic publishes or hides the document at path.
func (e *Exporter) SetPublic(path, target string, public bool) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if public {
		return e.Tracker.RemoveFromIgnore(path, target)
	}
	return e.Tracker.AddToIgnore(path, target)
}
