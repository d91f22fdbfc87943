// Package export writes session transcripts into a project's dialog folder
// and keeps them in step with the live logs. It owns the only state machine
// in the tool: a session is either not exported, exported under its current
// filename, or exported under a filename whose date has since shifted. In
// every case the document's public/private flag survives the re-export.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/reader"
	"github.com/sonnes/claude-export/render"
	"github.com/sonnes/claude-export/visibility"
)

// ErrNoSessions is returned when a session lookup finds nothing to export.
var ErrNoSessions = errors.New("no sessions found")

// Exporter coordinates the reader, the renderer and the visibility tracker.
type Exporter struct {
	Reader   reader.Reader
	Tracker  visibility.Tracker
	Renderer render.Renderer
	Location *time.Location // dates in filenames and headers; nil means local
	Logger   *log.Logger    // defaults to log.Default()
}

// Result describes one exported document.
type Result struct {
	SessionID    string
	Filename     string
	Path         string
	MessageCount int
	Public       bool
	Renamed      bool // a previous export under another date was replaced
}

// Export renders session into the dialog folder of target.
//
// A first export is private. Re-exporting under the same filename overwrites
// the document and leaves its visibility as it was. When the session date has
// shifted, the old document and its ignore entry are removed and the new one
// inherits the old visibility.
func (e *Exporter) Export(session core.Session, target string) (*Result, error) {
	s, records, err := e.Reader.ReadSession(session.Path)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", session.ID, err)
	}

	dir, err := e.Tracker.EnsureFolder(target)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, s.ExportFilename(e.Location))

	existing, err := e.ExportedPath(s.ID, target)
	if err != nil {
		return nil, err
	}

	public := false
	if existing != "" {
		if public, err = e.Tracker.IsPublic(existing, target); err != nil {
			return nil, fmt.Errorf("check visibility: %w", err)
		}
	}

	renamed := existing != "" && existing != path
	if renamed {
		if err := os.Remove(existing); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale export: %w", err)
		}
		if err := e.Tracker.RemoveFromIgnore(existing, target); err != nil {
			return nil, fmt.Errorf("remove stale ignore entry: %w", err)
		}
		e.logger().Debug("export renamed", "session", s.ShortID(), "from", filepath.Base(existing), "to", filepath.Base(path))
	}

	if err := e.write(path, &core.Transcript{Session: s, Records: records}); err != nil {
		return nil, fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	switch {
	case public:
		err = e.Tracker.RemoveFromIgnore(path, target)
	case existing == "" || renamed:
		err = e.Tracker.AddToIgnore(path, target)
	}
	if err != nil {
		return nil, fmt.Errorf("update visibility: %w", err)
	}

	return &Result{
		SessionID:    s.ID,
		Filename:     filepath.Base(path),
		Path:         path,
		MessageCount: s.MessageCount,
		Public:       public,
		Renamed:      renamed,
	}, nil
}

// write renders t to a temporary file beside path and renames it into place,
// so readers never observe a half-written document.
func (e *Exporter) write(path string, t *core.Transcript) error {
	var buf bytes.Buffer
	if err := e.Renderer.Render(&buf, t); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

func (e *Exporter) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}
