package export

import (
	"fmt"
	"strings"

	"github.com/sonnes/claude-export/core"
)

// Sessions lists the sessions logged for the project at source, newest
// first. A project without logs yields no sessions.
func (e *Exporter) Sessions(source string) ([]core.Session, error) {
	projectDir, ok := e.Reader.ResolveProject(source)
	if !ok {
		e.logger().Debug("no log directory for project", "path", source)
		return nil, nil
	}
	sessions, err := e.Reader.ReadProject(projectDir)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", projectDir, err)
	}
	return sessions, nil
}

// FindSession returns the session of source whose id starts with prefix.
func (e *Exporter) FindSession(source, prefix string) (core.Session, error) {
	sessions, err := e.Sessions(source)
	if err != nil {
		return core.Session{}, err
	}
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, prefix) {
			return s, nil
		}
	}
	return core.Session{}, fmt.Errorf("session %q: %w", prefix, ErrNoSessions)
}

// ExportNew exports every session of source that has no document in target
// yet. Sessions are exported one at a time; a failure is logged and the
// batch continues.
func (e *Exporter) ExportNew(source, target string) ([]Result, error) {
	return e.exportEach(source, target, func(s core.Session) (bool, error) {
		exported, err := e.IsExported(s.ID, target)
		return !exported, err
	})
}

// ExportAll re-exports every session of source into target, with the same
// per-session failure isolation as ExportNew.
func (e *Exporter) ExportAll(source, target string) ([]Result, error) {
	return e.exportEach(source, target, func(core.Session) (bool, error) { return true, nil })
}

func (e *Exporter) exportEach(source, target string, want func(core.Session) (bool, error)) ([]Result, error) {
	sessions, err := e.Sessions(source)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, s := range sessions {
		ok, err := want(s)
		if err != nil {
			e.logger().Error("export failed", "session", s.ID, "err", err)
			continue
		}
		if !ok {
			continue
		}
		res, err := e.Export(s, target)
		if err != nil {
			e.logger().Error("export failed", "session", s.ID, "err", err)
			continue
		}
		e.logger().Info("exported", "session", s.ShortID(), "file", res.Filename)
		results = append(results, *res)
	}
	return results, nil
}
