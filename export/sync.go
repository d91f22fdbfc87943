package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/render/markdown"
)

// SyncResult reports what a sync did to the current session's document.
type SyncResult struct {
	Result
	Added int // dialog messages added since the last export
}

// SyncCurrent brings the document of the most recently modified session of
// source up to date in target. An unexported session gets a full export. An
// exported one is rewritten only when the log holds more dialog messages than
// the document has blocks; otherwise nothing is written. A project without
// sessions yields a nil result.
func (e *Exporter) SyncCurrent(source, target string) (*SyncResult, error) {
	sessions, err := e.Sessions(source)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	current := sessions[0]

	existing, err := e.ExportedPath(current.ID, target)
	if err != nil {
		return nil, err
	}
	if existing == "" {
		res, err := e.Export(current, target)
		if err != nil {
			return nil, err
		}
		return &SyncResult{Result: *res, Added: res.MessageCount}, nil
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	have := markdown.CountDialogBlocks(string(data))

	_, records, err := e.Reader.ReadSession(current.Path)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", current.ID, err)
	}
	live := len(core.DialogRecords(records))

	if live <= have {
		public, err := e.Tracker.IsPublic(existing, target)
		if err != nil {
			return nil, fmt.Errorf("check visibility: %w", err)
		}
		return &SyncResult{Result: Result{
			SessionID:    current.ID,
			Filename:     filepath.Base(existing),
			Path:         existing,
			MessageCount: live,
			Public:       public,
		}}, nil
	}

	res, err := e.Export(current, target)
	if err != nil {
		return nil, err
	}
	return &SyncResult{Result: *res, Added: live - have}, nil
}
